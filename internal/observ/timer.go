package observ

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// Phase accumulates the time spent in one named phase (load, parse, analyze,
// fix) across every file of a run.
type Phase struct {
	Name  string
	Count int
	Dur   time.Duration
	Max   time.Duration
}

// Timer collects per-phase durations. Files are processed concurrently, so all
// methods are safe for use from several goroutines.
type Timer struct {
	mu     sync.Mutex
	start  time.Time
	phases []Phase
	index  map[string]int
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now(), phases: make([]Phase, 0, 4), index: make(map[string]int)}
}

// Mark is a running measurement returned by Begin.
type Mark struct {
	t     *Timer
	name  string
	start time.Time
}

// Begin starts measuring one occurrence of the phase. A nil Timer is allowed.
func (t *Timer) Begin(name string) Mark {
	return Mark{t: t, name: name, start: time.Now()}
}

// End adds the elapsed time to its phase.
func (m Mark) End() time.Duration {
	d := time.Since(m.start)
	if m.t != nil {
		m.t.Add(m.name, d)
	}
	return d
}

// Add records one occurrence of name that took d.
func (t *Timer) Add(name string, d time.Duration) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	i, ok := t.index[name]
	if !ok {
		i = len(t.phases)
		t.index[name] = i
		t.phases = append(t.phases, Phase{Name: name})
	}
	p := &t.phases[i]
	p.Count++
	p.Dur += d
	p.Max = max(p.Max, d)
}

// Summary returns a human-readable string summarizing all tracked phases.
func (t *Timer) Summary() string {
	report := t.Report()
	var b strings.Builder
	b.WriteString("timings:\n")
	for _, p := range report.Phases {
		fmt.Fprintf(&b, "  %-12s %9.2f ms  x%-5d max %7.2f ms\n", p.Name, p.DurationMS, p.Count, p.MaxMS)
	}
	fmt.Fprintf(&b, "  %-12s %9.2f ms\n", "wall", report.WallMS)
	return b.String()
}

// PhaseReport представляет сжатую информацию о фазе таймера для сериализации.
type PhaseReport struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	DurationMS float64 `json:"duration_ms"`
	MaxMS      float64 `json:"max_ms"`
}

// Report описывает агрегированные данные таймера.
type Report struct {
	WallMS float64       `json:"wall_ms"`
	Phases []PhaseReport `json:"phases"`
}

// Report формирует срез фаз в порядке первого появления и общее время с момента NewTimer.
func (t *Timer) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	phases := slices.Clone(t.phases)
	wall := time.Since(t.start)
	t.mu.Unlock()

	report := Report{WallMS: durationToMillis(wall), Phases: make([]PhaseReport, len(phases))}
	for i, phase := range phases {
		report.Phases[i] = PhaseReport{
			Name:       phase.Name,
			Count:      phase.Count,
			DurationMS: durationToMillis(phase.Dur),
			MaxMS:      durationToMillis(phase.Max),
		}
	}
	return report
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
