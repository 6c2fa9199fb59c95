package main

import (
	"fmt"
	"io"

	"verdant/internal/driver"
	"verdant/internal/observ"
)

// printTimings writes one line per phase followed by the wall time and, when
// a result cache was used, its hit rate.
func printTimings(out io.Writer, report observ.Report, cache *driver.ResultCache) error {
	if out == nil {
		return nil
	}
	for _, p := range report.Phases {
		if _, err := fmt.Fprintf(out, "%-8s %8.1f ms  (%d, max %.1f ms)\n", p.Name, p.DurationMS, p.Count, p.MaxMS); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(out, "%-8s %8.1f ms\n", "total", report.WallMS); err != nil {
		return err
	}
	if cache != nil {
		hits, misses := cache.Stats()
		if _, err := fmt.Fprintf(out, "cache    %d hit(s), %d miss(es)\n", hits, misses); err != nil {
			return err
		}
	}
	return nil
}
