package lexer

import (
	"strings"
	"sync"
)

// Interner canonicalizes identifier strings.
//
// UI documents repeat the same handful of names (widget types, attribute
// names, bound model fields) on almost every line, so NAME values are routed
// through an Interner and share one backing string per distinct name.
//
// An Interner is safe for concurrent use, which lets several lexing
// sessions running in parallel share one pool.
type Interner struct {
	mu   sync.Mutex
	pool map[string]string
}

// NewInterner creates a new string interner with the given initial capacity.
func NewInterner(capacity int) *Interner {
	return &Interner{
		pool: make(map[string]string, capacity),
	}
}

// Intern returns the canonical version of the string. A new string is
// copied before it is stored, so the pool never references the buffer s
// was sliced from.
func (i *Interner) Intern(s string) string {
	i.mu.Lock()
	defer i.mu.Unlock()

	if interned, ok := i.pool[s]; ok {
		return interned
	}
	s = strings.Clone(s)
	i.pool[s] = s
	return s
}

// Size returns the number of unique strings in the pool.
func (i *Interner) Size() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.pool)
}

// Reset clears the pool.
func (i *Interner) Reset() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.pool = make(map[string]string)
}
