package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"verdant/internal/diagfmt"
	"verdant/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] <file>",
	Short: "Print the tokens of a JSON or JavaScript file",
	Long:  `Tokenize prints every token of a file with its range and trivia, in source order`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(cmd, args[0], map[string]inspectRenderer{
			"pretty": func(w io.Writer, r *driver.ParseResult) error {
				return diagfmt.FormatTokensPretty(w, r.Root, r.File)
			},
			"json": func(w io.Writer, r *driver.ParseResult) error { return diagfmt.FormatTokensJSON(w, r.Root) },
		})
	},
}

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file>",
	Short: "Parse a JSON or JavaScript file and print its syntax tree",
	Long:  `Parse builds the lossless syntax tree of a file and prints it together with the parse diagnostics`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(cmd, args[0], map[string]inspectRenderer{
			"pretty": func(w io.Writer, r *driver.ParseResult) error { return diagfmt.FormatTreePretty(w, r.Root) },
			"json":   func(w io.Writer, r *driver.ParseResult) error { return diagfmt.FormatTreeJSON(w, r.Root) },
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{tokenizeCmd, parseCmd} {
		c.Flags().String("format", "pretty", "output format (pretty|json)")
		c.Flags().Bool("fail-on-errors", true, "exit with status 1 when the file has syntax errors")
	}
}

type inspectRenderer func(w io.Writer, r *driver.ParseResult) error

// runInspect parses one file, prints the parse diagnostics to stderr and the
// tree or token dump to stdout.
func runInspect(cmd *cobra.Command, path string, renderers map[string]inspectRenderer) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	render, ok := renderers[format]
	if !ok {
		return fmt.Errorf("unknown format: %s", format)
	}
	failOnErrors, err := cmd.Flags().GetBool("fail-on-errors")
	if err != nil {
		return fmt.Errorf("failed to get fail-on-errors flag: %w", err)
	}
	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	result, err := driver.Parse(cmd.Context(), path, cfg, g.maxDiagnostics)
	if err != nil {
		return fmt.Errorf("%s failed: %w", cmd.Name(), err)
	}

	// диагностики в stderr, дамп в stdout: вывод можно перенаправить отдельно
	if result.Bag.Len() > 0 && !g.quiet {
		color, err := useColor(cmd, os.Stderr)
		if err != nil {
			return err
		}
		diagfmt.Pretty(cmd.ErrOrStderr(), result.Bag, result.FileSet, diagfmt.PrettyOpts{Color: color, Context: 2, ShowNotes: true})
	}
	if err := render(cmd.OutOrStdout(), result); err != nil {
		return err
	}
	if failOnErrors && result.Bag.HasErrors() {
		return errDiagnostics
	}
	return nil
}
