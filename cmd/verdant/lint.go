package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"verdant/internal/analyzer"
	"verdant/internal/diag"
	"verdant/internal/diagfmt"
	"verdant/internal/driver"
	"verdant/internal/observ"
	"verdant/internal/source"
)

var lintCmd = &cobra.Command{
	Use:   "lint [flags] [path...]",
	Short: "Run lint rules over JSON and JavaScript files",
	Long: `Lint analyzes the given files and directories (default: the working directory)
with the rules enabled in verdant.toml and prints the diagnostics. With --write
safe fixes are applied first; --unsafe also applies fixes that may change behaviour.`,
	RunE: runLint,
}

func init() {
	lintCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	lintCmd.Flags().Bool("write", false, "apply fixes to the files before reporting")
	lintCmd.Flags().Bool("unsafe", false, "with --write, also apply unsafe fixes")
	lintCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
	lintCmd.Flags().StringSlice("only", nil, "run only these rules or groups (group or group/name)")
	lintCmd.Flags().StringSlice("skip", nil, "skip these rules or groups (group or group/name)")
	lintCmd.Flags().Bool("no-cache", false, "do not read or write the result cache")
	lintCmd.Flags().Bool("clear-cache", false, "drop the result cache before running")
	lintCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	lintCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	lintCmd.Flags().Bool("preview", false, "preview fix suggestions as diffs")
	lintCmd.Flags().String("path-mode", "auto", "how to print file paths (auto|absolute|relative|basename)")
}

type lintFlags struct {
	format     string
	write      bool
	unsafe     bool
	ui         uiMode
	only, skip []analyzer.RuleFilter
	noCache    bool
	clearCache bool
	withNotes  bool
	suggest    bool
	preview    bool
	pathMode   diagfmt.PathMode
}

func readLintFlags(cmd *cobra.Command) (lintFlags, error) {
	var lf lintFlags
	var err error
	flags := cmd.Flags()
	if lf.format, err = flags.GetString("format"); err != nil {
		return lf, fmt.Errorf("failed to get format flag: %w", err)
	}
	if lf.format != "pretty" && lf.format != "json" {
		return lf, fmt.Errorf("unknown format: %s", lf.format)
	}
	if lf.write, err = flags.GetBool("write"); err != nil {
		return lf, fmt.Errorf("failed to get write flag: %w", err)
	}
	if lf.unsafe, err = flags.GetBool("unsafe"); err != nil {
		return lf, fmt.Errorf("failed to get unsafe flag: %w", err)
	}
	if lf.unsafe && !lf.write {
		return lf, fmt.Errorf("--unsafe requires --write")
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return lf, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if lf.ui, err = readUIMode(uiValue); err != nil {
		return lf, err
	}
	for name, dst := range map[string]*[]analyzer.RuleFilter{"only": &lf.only, "skip": &lf.skip} {
		values, err := flags.GetStringSlice(name)
		if err != nil {
			return lf, fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		if *dst, err = parseRuleFilters(values); err != nil {
			return lf, fmt.Errorf("--%s: %w", name, err)
		}
	}
	if lf.noCache, err = flags.GetBool("no-cache"); err != nil {
		return lf, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if lf.clearCache, err = flags.GetBool("clear-cache"); err != nil {
		return lf, fmt.Errorf("failed to get clear-cache flag: %w", err)
	}
	if lf.withNotes, err = flags.GetBool("with-notes"); err != nil {
		return lf, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if lf.suggest, err = flags.GetBool("suggest"); err != nil {
		return lf, fmt.Errorf("failed to get suggest flag: %w", err)
	}
	if lf.preview, err = flags.GetBool("preview"); err != nil {
		return lf, fmt.Errorf("failed to get preview flag: %w", err)
	}
	pathMode, err := flags.GetString("path-mode")
	if err != nil {
		return lf, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	var ok bool
	if lf.pathMode, ok = diagfmt.ParsePathMode(pathMode); !ok {
		return lf, fmt.Errorf("invalid --path-mode value %q", pathMode)
	}
	return lf, nil
}

// runLint executes the "lint" command: it collects files, optionally applies
// fixes, analyzes every file in parallel and renders the diagnostics. It
// returns errDiagnostics when any file has errors.
func runLint(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd)

	lf, err := readLintFlags(cmd)
	if err != nil {
		return err
	}
	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		args = []string{"."}
	}
	files, err := driver.ListFiles(args, cfg.Ignored)
	if err != nil {
		return err
	}

	var timer *observ.Timer
	if g.timings {
		timer = observ.NewTimer()
	}
	cache := openResultCache(cmd, lf, len(files))
	opts := driver.Options{
		Config:         cfg,
		Only:           lf.only,
		Skip:           lf.skip,
		Actions:        analyzer.ActionsAll,
		MaxDiagnostics: g.maxDiagnostics,
		Cache:          cache,
		Timer:          timer,
	}

	if lf.write {
		fixed, err := driver.FixFiles(cmd.Context(), files, driver.FixOptions{Options: opts, Unsafe: lf.unsafe}, g.jobs)
		if err != nil {
			return fmt.Errorf("fix failed: %w", err)
		}
		if !g.quiet {
			if err := printFixResults(cmd.ErrOrStderr(), fixed); err != nil {
				return err
			}
		}
	}

	var (
		fs      *source.FileSet
		results []*driver.FileResult
	)
	if shouldUseTUI(lf.ui, lf.format, len(files)) {
		fs, results, err = runLintWithUI(cmd.Context(), "lint", files, opts, g.jobs)
	} else {
		fs, results, err = driver.AnalyzeFiles(cmd.Context(), files, opts, g.jobs)
	}
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if err := renderLintResults(cmd, lf, g, fs, results); err != nil {
		return err
	}
	if g.timings {
		if err := printTimings(cmd.ErrOrStderr(), timer.Report(), cache); err != nil {
			return err
		}
	}
	for _, r := range results {
		if r != nil && r.HasErrors() {
			return errDiagnostics
		}
	}
	return nil
}

// openResultCache returns the layered result cache, or nil with --no-cache.
// A disk cache that cannot be opened degrades to memory only.
func openResultCache(cmd *cobra.Command, lf lintFlags, files int) *driver.ResultCache {
	if lf.noCache {
		return nil
	}
	disk, err := driver.OpenDiskCache("verdant")
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: result cache disabled: %v\n", err)
		return driver.NewResultCache(nil, files)
	}
	if lf.clearCache {
		if err := disk.DropAll(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: failed to clear cache: %v\n", err)
		}
	}
	return driver.NewResultCache(disk, files)
}

func renderLintResults(cmd *cobra.Command, lf lintFlags, g globalFlags, fs *source.FileSet, results []*driver.FileResult) error {
	out := cmd.OutOrStdout()
	showFixes := lf.suggest || lf.preview

	switch lf.format {
	case "json":
		output := make(map[string]diagfmt.DiagnosticsOutput, len(results))
		for _, r := range results {
			if r == nil {
				continue
			}
			output[r.Path] = diagfmt.BuildDiagnosticsOutput(r.Bag(0), fs, diagfmt.JSONOpts{
				IncludePositions: true,
				PathMode:         lf.pathMode,
				IncludeNotes:     lf.withNotes,
				IncludeFixes:     showFixes,
				IncludePreviews:  lf.preview,
				Fixes:            r.Fixes,
			})
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(output); err != nil {
			return fmt.Errorf("failed to encode diagnostics output: %w", err)
		}
		return nil

	default:
		color, err := useColor(cmd, os.Stdout)
		if err != nil {
			return err
		}
		var total lintSummary
		for _, r := range results {
			if r == nil {
				continue
			}
			total.add(r)
			if len(r.Diagnostics) == 0 {
				continue
			}
			diagfmt.Pretty(out, r.Bag(0), fs, diagfmt.PrettyOpts{
				Color:       color,
				Context:     2,
				PathMode:    lf.pathMode,
				ShowNotes:   lf.withNotes,
				ShowFixes:   showFixes,
				ShowPreview: lf.preview,
				Fixes:       r.Fixes,
			})
		}
		if !g.quiet {
			return total.print(cmd.ErrOrStderr())
		}
		return nil
	}
}

type lintSummary struct {
	files, skipped, cached int
	errors, warnings       int
}

func (s *lintSummary) add(r *driver.FileResult) {
	s.files++
	if r.Skipped != "" {
		s.skipped++
	}
	if r.Cached {
		s.cached++
	}
	for _, d := range r.Diagnostics {
		switch {
		case d.Severity >= diag.SevError:
			s.errors++
		case d.Severity == diag.SevWarning:
			s.warnings++
		}
	}
}

func (s lintSummary) print(w io.Writer) error {
	_, err := fmt.Fprintf(w, "checked %d file(s)", s.files-s.skipped)
	if err == nil && s.skipped > 0 {
		_, err = fmt.Fprintf(w, ", skipped %d", s.skipped)
	}
	if err == nil && s.cached > 0 {
		_, err = fmt.Fprintf(w, ", %d from cache", s.cached)
	}
	if err == nil {
		_, err = fmt.Fprintf(w, ": %d error(s), %d warning(s)\n", s.errors, s.warnings)
	}
	return err
}

// printFixResults reports what --write changed, one line per file.
func printFixResults(w io.Writer, results []*driver.FixResult) error {
	var changed int
	for _, r := range results {
		if r == nil {
			continue
		}
		var err error
		switch {
		case r.Err != nil:
			_, err = fmt.Fprintf(w, "fix: %v\n", r.Err)
		case r.NotFixed != "" && r.NotFixed != driver.SkipUnsupported:
			_, err = fmt.Fprintf(w, "fix: %s: not fixed (%s)\n", r.Path, r.NotFixed)
		case r.Changed:
			changed++
			_, err = fmt.Fprintf(w, "fixed %s (%d fix(es), %d pass(es))\n", r.Path, len(r.Applied), r.Passes)
			if err == nil && !r.Converged {
				_, err = fmt.Fprintf(w, "  fixes still pending after %d passes\n", r.Passes)
			}
		}
		if err != nil {
			return err
		}
	}
	if changed == 0 {
		_, err := fmt.Fprintln(w, "No fixes applied.")
		return err
	}
	return nil
}
