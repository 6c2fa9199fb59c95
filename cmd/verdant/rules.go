package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"verdant/internal/analyzer"
	"verdant/internal/driver"
)

var rulesCmd = &cobra.Command{
	Use:   "rules [flags] [group|group/name]",
	Short: "List the available rules and code actions",
	Long:  `Rules prints the metadata of every compiled-in rule; with an argument it prints the documentation of the matching rules`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRules,
}

func init() {
	rulesCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	rulesCmd.Flags().Bool("recommended", false, "list recommended rules only")
	rulesCmd.Flags().String("language", "", "list rules of one language (js|json)")
}

type ruleJSON struct {
	Rule        string   `json:"rule"`
	Language    string   `json:"language"`
	Category    string   `json:"category"`
	Severity    string   `json:"severity"`
	Recommended bool     `json:"recommended"`
	Fix         string   `json:"fix"`
	Version     string   `json:"version,omitempty"`
	Sources     []string `json:"sources,omitempty"`
	Docs        string   `json:"docs,omitempty"`
}

func runRules(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	recommended, err := cmd.Flags().GetBool("recommended")
	if err != nil {
		return fmt.Errorf("failed to get recommended flag: %w", err)
	}
	language, err := cmd.Flags().GetString("language")
	if err != nil {
		return fmt.Errorf("failed to get language flag: %w", err)
	}

	var filter *analyzer.RuleFilter
	if len(args) == 1 {
		rf, err := analyzer.ParseRuleFilter(args[0])
		if err != nil {
			return err
		}
		filter = &rf
	}

	rules := selectRules(driver.Registry(), filter, recommended, language)
	if filter != nil && len(rules) == 0 {
		return fmt.Errorf("unknown rule or group %q", filter.String())
	}

	switch format {
	case "json":
		return renderRulesJSON(cmd.OutOrStdout(), rules)
	case "pretty":
		if filter != nil && filter.Name != "" {
			return renderRuleDocs(cmd.OutOrStdout(), rules[0])
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), renderRulesTable(rules))
		return err
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func selectRules(reg *analyzer.MetadataRegistry, filter *analyzer.RuleFilter, recommended bool, language string) []analyzer.RuleMetadata {
	var out []analyzer.RuleMetadata
	reg.ForEach(func(m analyzer.RuleMetadata) {
		switch {
		case filter != nil && !filter.Matches(m.Key()):
		case recommended && !m.Recommended:
		case language != "" && m.Language != language:
		default:
			out = append(out, m)
		}
	})
	return out
}

func renderRulesTable(rules []analyzer.RuleMetadata) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("RULE", "LANG", "KIND", "SEVERITY", "FIX", "RECOMMENDED").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == 0 {
				return headerStyle
			}
			return cellStyle
		})
	for _, m := range rules {
		rec := ""
		if m.Recommended {
			rec = "yes"
		}
		t.Row(m.Key().String(), m.Language, m.Category.String(), m.Severity.String(), m.FixKind.String(), rec)
	}
	return t.Render()
}

func renderRuleDocs(out io.Writer, m analyzer.RuleMetadata) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s, %s)\n", m.DiagnosticCategory(), m.Language, m.Category)
	fmt.Fprintf(&b, "severity: %s, fix: %s", m.Severity, m.FixKind)
	if m.Recommended {
		b.WriteString(", recommended")
	}
	b.WriteString("\n")
	for _, src := range m.Sources {
		fmt.Fprintf(&b, "same as: %s\n", src)
	}
	if m.Docs != "" {
		b.WriteString("\n")
		b.WriteString(strings.TrimSpace(m.Docs))
		b.WriteString("\n")
	}
	_, err := io.WriteString(out, b.String())
	return err
}

func renderRulesJSON(out io.Writer, rules []analyzer.RuleMetadata) error {
	payload := make([]ruleJSON, 0, len(rules))
	for _, m := range rules {
		r := ruleJSON{
			Rule:        m.Key().String(),
			Language:    m.Language,
			Category:    m.Category.String(),
			Severity:    m.Severity.String(),
			Recommended: m.Recommended,
			Fix:         m.FixKind.String(),
			Version:     m.Version,
			Docs:        m.Docs,
		}
		for _, src := range m.Sources {
			r.Sources = append(r.Sources, src.String())
		}
		payload = append(payload, r)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
