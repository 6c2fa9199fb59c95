package fix

import (
	"fmt"
	"slices"

	"verdant/internal/analyzer"
	"verdant/internal/source"
)

// Collector turns analyzer signals into fix candidates for one text.
type Collector struct {
	text    string
	cands   []Candidate
	skipped []SkippedFix
	seen    map[string]struct{}
}

func NewCollector(text string) *Collector {
	return &Collector{text: text, seen: make(map[string]struct{})}
}

// Add commits every action of sig and records the resulting edits.
// Actions that fail to commit or change nothing are recorded as skipped.
func (c *Collector) Add(sig *analyzer.Signal) {
	for idx, action := range sig.Actions {
		id := fmt.Sprintf("%s-%d-%d", sig.Category, sig.Range.Start, idx)
		title := action.Message.String()

		_, edit, err := analyzer.ApplyAction(c.text, action)
		if err != nil {
			c.skip(id, title, fmt.Sprintf("failed to build fix: %v", err))
			continue
		}
		if edit.IsEmpty() {
			c.skip(id, title, "fix has no edits")
			continue
		}
		if _, dup := c.seen[id]; dup {
			c.skip(id, title, "duplicate fix id")
			continue
		}
		c.seen[id] = struct{}{}
		c.cands = append(c.cands, Candidate{
			ID:            id,
			Title:         title,
			Category:      sig.Category,
			Range:         sig.Range,
			Applicability: action.Applicability,
			Edit:          edit,
			order:         len(c.cands) + 1,
		})
	}
}

// AddEdit records a fix built outside the analyzer.
func (c *Collector) AddEdit(id, title string, r source.TextRange, app analyzer.Applicability, edit source.TextEdit) {
	if _, dup := c.seen[id]; dup {
		c.skip(id, title, "duplicate fix id")
		return
	}
	c.seen[id] = struct{}{}
	c.cands = append(c.cands, Candidate{
		ID:            id,
		Title:         title,
		Range:         r,
		Applicability: app,
		Edit:          edit,
		order:         len(c.cands) + 1,
	})
}

func (c *Collector) skip(id, title, reason string) {
	c.skipped = append(c.skipped, SkippedFix{ID: id, Title: title, Reason: reason})
}

func (c *Collector) Candidates() []Candidate { return c.cands }

func (c *Collector) Skipped() []SkippedFix { return c.skipped }

func (c *Collector) Len() int { return len(c.cands) }

// Apply applies the collected candidates to the collector's text.
func (c *Collector) Apply(opts ApplyOptions) (*ApplyResult, error) {
	res, err := Apply(c.text, c.cands, opts)
	res.Skipped = slices.Concat(c.skipped, res.Skipped)
	return res, err
}
