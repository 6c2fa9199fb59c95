package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"verdant/internal/analyzer"
	"verdant/internal/config"
)

// loadConfig reads --config, or discovers verdant.toml from the working
// directory upward.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return config.Load(path)
	}
	return config.Discover(".")
}

// parseRuleFilters accepts repeated and comma-separated "group" or
// "group/name" values.
func parseRuleFilters(values []string) ([]analyzer.RuleFilter, error) {
	var out []analyzer.RuleFilter
	for _, v := range values {
		for part := range strings.SplitSeq(v, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			rf, err := analyzer.ParseRuleFilter(part)
			if err != nil {
				return nil, err
			}
			out = append(out, rf)
		}
	}
	return out, nil
}

type globalFlags struct {
	maxDiagnostics int
	jobs           int
	timings        bool
	quiet          bool
}

func readGlobalFlags(cmd *cobra.Command) (globalFlags, error) {
	var g globalFlags
	var err error
	flags := cmd.Root().PersistentFlags()
	if g.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return g, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if g.jobs, err = flags.GetInt("jobs"); err != nil {
		return g, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if g.timings, err = flags.GetBool("timings"); err != nil {
		return g, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if g.quiet, err = flags.GetBool("quiet"); err != nil {
		return g, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	return g, nil
}
