package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"verdant/internal/driver"
	"verdant/internal/source"
	"verdant/internal/ui"
)

// uiMode is the value of lint --ui.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	mode := uiMode(strings.ToLower(strings.TrimSpace(value)))
	switch mode {
	case "":
		return uiModeAuto, nil
	case uiModeAuto, uiModeOn, uiModeOff:
		return mode, nil
	}
	return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// shouldUseTUI decides whether lint shows the progress view. JSON output is
// never mixed with the view; in auto mode a single file is not worth a view
// and stdout must be a terminal.
func shouldUseTUI(mode uiMode, format string, files int) bool {
	if format != "pretty" || mode == uiModeOff {
		return false
	}
	return mode == uiModeOn || files > 1 && isTerminal(os.Stdout)
}

type lintOutcome struct {
	fs      *source.FileSet
	results []*driver.FileResult
	err     error
}

// runLintWithUI analyzes files while the progress view renders driver events.
// Quitting the view cancels the analysis.
func runLintWithUI(ctx context.Context, title string, files []string, opts driver.Options, jobs int) (*source.FileSet, []*driver.FileResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan driver.FileEvent, 256)
	outcomeCh := make(chan lintOutcome, 1)

	opts.Observer = func(ev driver.FileEvent) { events <- ev }
	go func() {
		fs, results, err := driver.AnalyzeFiles(ctx, files, opts, jobs)
		close(events)
		outcomeCh <- lintOutcome{fs: fs, results: results, err: err}
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(ctx))
	final, uiErr := program.Run()
	if uiErr != nil || !ui.Finished(final) {
		cancel()
	}
	// воркеры не должны блокироваться на полном канале
	go func() {
		for range events {
		}
	}()

	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fs, outcome.results, uiErr
	}
	return outcome.fs, outcome.results, outcome.err
}
