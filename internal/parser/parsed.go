package parser

import (
	"errors"
	"fmt"

	"verdant/internal/diag"
	"verdant/internal/source"
	"verdant/internal/syntax"
)

var (
	// ErrEOF: recovery was asked for at the end of the file.
	ErrEOF = errors.New("recovery at end of file")
	// ErrAlreadyRecovered: the parser already sits on a recovery point, nothing
	// would be consumed. Callers treat it like ErrEOF to break out of loops.
	ErrAlreadyRecovered = errors.New("already at a recovery point")
	// ErrRecoveryDisabled: recovery never runs while parsing speculatively.
	ErrRecoveryDisabled = errors.New("recovery disabled during speculative parsing")
)

// ParsedSyntax is the result of a grammar function: a node or nothing.
type ParsedSyntax struct {
	m       CompletedMarker
	present bool
}

// Absent is the result of a grammar function that consumed nothing.
var Absent ParsedSyntax

func Present(m CompletedMarker) ParsedSyntax {
	return ParsedSyntax{m: m, present: true}
}

func (s ParsedSyntax) IsPresent() bool { return s.present }
func (s ParsedSyntax) IsAbsent() bool { return !s.present }

// Marker returns the completed node when present.
func (s ParsedSyntax) Marker() (CompletedMarker, bool) {
	return s.m, s.present
}

// Kind of the parsed node, Tombstone when absent.
func (s ParsedSyntax) Kind() syntax.Kind {
	if !s.present {
		return syntax.Tombstone
	}
	return s.m.kind
}

// DiagnosticBuilder produces the error for a missing node at r.
type DiagnosticBuilder func(p Stream, r source.TextRange) diag.Message

// OrAddDiagnostic reports an error when the syntax is absent.
func (s ParsedSyntax) OrAddDiagnostic(p Stream, build DiagnosticBuilder) ParsedSyntax {
	if !s.present {
		p.Error(build(p, p.CurRange()))
	}
	return s
}

// OrRecover returns the node or, when absent, wraps tokens up to a recovery
// point in a bogus node and reports the error.
func (s ParsedSyntax) OrRecover(p Stream, r ParseRecovery, build DiagnosticBuilder) (CompletedMarker, error) {
	if s.present {
		return s.m, nil
	}
	recovered, err := r.Recover(p)
	if err != nil {
		p.Error(build(p, p.CurRange()))
		return CompletedMarker{}, err
	}
	p.ErrorAt(recovered.Range(), build(p, recovered.Range()))
	return recovered, nil
}

// ChangeToBogus rewrites a present node into its bogus kind.
func (s ParsedSyntax) ChangeToBogus(p Stream) ParsedSyntax {
	if s.present {
		s.m.ChangeToBogus(p)
	}
	return s
}

// Precede wraps the node in a new marker; an absent node opens a plain marker.
func (s ParsedSyntax) Precede(p Stream) Marker {
	if s.present {
		return s.m.Precede(p)
	}
	return p.Start()
}

// ParseRecovery skips tokens until the parser reaches one of Recovery or,
// optionally, a token on a new line. Skipped tokens end up in a node of kind Bogus.
type ParseRecovery struct {
	Bogus       syntax.Kind
	Recovery    TokenSet
	OnLineBreak bool
}

func NewRecovery(bogus syntax.Kind, recovery TokenSet) ParseRecovery {
	return ParseRecovery{Bogus: bogus, Recovery: recovery}
}

// EnableRecoveryOnLineBreak makes a preceding newline a recovery point.
func (r ParseRecovery) EnableRecoveryOnLineBreak() ParseRecovery {
	r.OnLineBreak = true
	return r
}

func (r ParseRecovery) IsAtRecovered(p Stream) bool {
	return p.AtTS(r.Recovery) || (r.OnLineBreak && p.HasPrecedingLineBreak())
}

// Recover consumes at least one token into a bogus node.
func (r ParseRecovery) Recover(p Stream) (CompletedMarker, error) {
	switch {
	case p.AtEOF():
		return CompletedMarker{}, ErrEOF
	case r.IsAtRecovered(p):
		return CompletedMarker{}, ErrAlreadyRecovered
	case p.IsSpeculative():
		return CompletedMarker{}, ErrRecoveryDisabled
	}
	m := p.Start()
	p.BumpAny()
	for !p.AtEOF() && !r.IsAtRecovered(p) {
		p.BumpAny()
	}
	return m.Complete(p, r.Bogus), nil
}

// Progress guards loops against not consuming anything.
type Progress struct {
	pos   source.TextSize
	valid bool
}

// AssertProgressing panics when the parser has not moved since the last call.
func (pr *Progress) AssertProgressing(p Stream) {
	pos := p.CurRange().Start
	if pr.valid && pos == pr.pos && !p.AtEOF() {
		panic(fmt.Sprintf("parser: no progress at offset %d (%s)", pos, syntax.KindString(p.Language(), p.Cur())))
	}
	pr.pos = pos
	pr.valid = true
}
