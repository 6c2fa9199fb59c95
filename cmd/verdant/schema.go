package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"verdant/internal/config"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of verdant.toml",
	Long:  `Schema prints a JSON Schema describing verdant.toml; point a TOML-aware editor at it for completion and validation`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := config.Schema()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return err
	},
}
