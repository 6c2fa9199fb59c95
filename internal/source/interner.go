package source

import (
	"slices"
	"sync"
)

// Symbol is an interned string handle. NoSymbol maps to the empty string.
type Symbol uint32

const NoSymbol Symbol = 0

// Interner maps strings to dense Symbols. It is safe for concurrent use.
type Interner struct {
	mu    sync.RWMutex
	byID  []string          // byID[0] = "" для NoSymbol
	index map[string]Symbol // строка -> ID
}

func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]Symbol{"": NoSymbol},
	}
}

// Intern returns the symbol for s, adding it on first use.
func (i *Interner) Intern(s string) Symbol {
	i.mu.RLock()
	id, ok := i.index[s]
	i.mu.RUnlock()
	if ok {
		return id
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if id, ok := i.index[s]; ok {
		return id
	}
	// своя копия, чтобы не держать исходный буфер файла
	cpy := string([]byte(s))
	id = Symbol(SizeOf(len(i.byID)))
	i.byID = append(i.byID, cpy)
	i.index[cpy] = id
	return id
}

// Lookup возвращает строку по ID.
func (i *Interner) Lookup(id Symbol) (string, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if int(id) >= len(i.byID) {
		return "", false
	}
	return i.byID[id], true
}

// MustLookup паникует на невалидном ID.
func (i *Interner) MustLookup(id Symbol) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic("invalid symbol")
	}
	return s
}

// Has reports whether id was produced by this interner.
func (i *Interner) Has(id Symbol) bool {
	_, ok := i.Lookup(id)
	return ok
}

// Len counts interned strings including the empty one.
func (i *Interner) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.byID)
}

// Snapshot returns a copy of all interned strings indexed by Symbol.
func (i *Interner) Snapshot() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return slices.Clone(i.byID)
}
