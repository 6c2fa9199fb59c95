package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"verdant/internal/driver"
	"verdant/internal/version"
)

type versionOptions struct {
	format      string
	showHash    bool
	showMessage bool
	showDate    bool
	color       bool
}

type versionPayload struct {
	Tool       string `json:"tool"`
	Version    string `json:"version"`
	Tagline    string `json:"tagline"`
	Rules      int    `json:"rules"`
	GitCommit  string `json:"git_commit,omitempty"`
	GitMessage string `json:"git_message,omitempty"`
	BuildDate  string `json:"build_date,omitempty"`
}

const versionTagline = "every byte accounted for"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show verdant build fingerprints",
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().Bool("hash", false, "include git commit hash")
	versionCmd.Flags().Bool("message", false, "include git commit message")
	versionCmd.Flags().Bool("date", false, "include build timestamp")
	versionCmd.Flags().Bool("full", false, "show every recorded bit of build metadata")
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runVersion(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	format, err := flags.GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	var show [4]bool
	for i, name := range []string{"hash", "message", "date", "full"} {
		if show[i], err = flags.GetBool(name); err != nil {
			return fmt.Errorf("failed to get %s flag: %w", name, err)
		}
	}
	full := show[3]
	opts := versionOptions{
		format:      strings.ToLower(format),
		showHash:    show[0] || full,
		showMessage: show[1] || full,
		showDate:    show[2] || full,
	}

	switch opts.format {
	case "json":
		return renderVersionJSON(cmd.OutOrStdout(), opts)
	case "pretty":
		if opts.color, err = useColor(cmd, os.Stdout); err != nil {
			return err
		}
		return renderVersionPretty(cmd.OutOrStdout(), opts)
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
}

func renderVersionPretty(out io.Writer, opts versionOptions) error {
	v := version.String()
	if opts.color {
		v = version.Colored()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "verdant %s - %s\n", v, versionTagline)
	fmt.Fprintf(&b, "rules:   %d\n", driver.Registry().Len())
	if opts.showHash {
		fmt.Fprintf(&b, "commit:  %s\n", valueOrUnknown(version.GitCommit))
	}
	if opts.showMessage {
		fmt.Fprintf(&b, "message: %s\n", valueOrUnknown(version.GitMessage))
	}
	if opts.showDate {
		fmt.Fprintf(&b, "built:   %s\n", valueOrUnknown(version.BuildDate))
	}
	if !opts.showHash && !opts.showMessage && !opts.showDate {
		b.WriteString("set --hash, --message, --date, or --full for more build trivia\n")
	}
	_, err := io.WriteString(out, b.String())
	return err
}

func renderVersionJSON(out io.Writer, opts versionOptions) error {
	payload := versionPayload{
		Tool:    "verdant",
		Version: version.String(),
		Tagline: versionTagline,
		Rules:   driver.Registry().Len(),
	}
	if opts.showHash {
		payload.GitCommit = valueOrUnknown(version.GitCommit)
	}
	if opts.showMessage {
		payload.GitMessage = valueOrUnknown(version.GitMessage)
	}
	if opts.showDate {
		payload.BuildDate = valueOrUnknown(version.BuildDate)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func valueOrUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "unknown"
	}
	return s
}
