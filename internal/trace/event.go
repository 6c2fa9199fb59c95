package trace

import (
	"fmt"
	"strings"
	"time"
)

// Kind is what an event marks.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat // признак жизни долгого прогона
)

var kindNames = [...]string{KindSpanBegin: "begin", KindSpanEnd: "end", KindPoint: "point", KindHeartbeat: "heartbeat"}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event, coarsest first: one CLI command,
// one file, one phase of a file, one rule invocation.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1
	ScopeFile
	ScopePhase
	ScopeRule
)

var scopeNames = [...]string{ScopeDriver: "driver", ScopeFile: "file", ScopePhase: "phase", ScopeRule: "rule"}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Level controls which scopes reach a tracer.
type Level uint8

const (
	LevelOff   Level = iota // ничего
	LevelError              // только дамп кольца при панике
	LevelPhase              // команды, файлы и фазы движка
	LevelDebug              // плюс вызовы отдельных правил
)

var levelNames = [...]string{LevelOff: "off", LevelError: "error", LevelPhase: "phase", LevelDebug: "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel reads a --trace-level value, case-insensitively.
func ParseLevel(s string) (Level, error) {
	for l, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(l), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|phase|debug)", s)
}

// ShouldEmit reports whether events of scope pass at this level.
// LevelError records nothing up front: a crash dumps the ring instead.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelPhase:
		return scope <= ScopePhase
	case LevelDebug:
		return true
	}
	return false
}

// Event is one trace record.
type Event struct {
	Time     time.Time
	Seq      uint64 // глобальный монотонный номер
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 у корневого спана
	Name     string // "lint", "file", "parse", "analyze:syntax", "rule:style/useConst"
	Detail   string
	Elapsed  time.Duration // только у KindSpanEnd
	Extra    map[string]string
}
