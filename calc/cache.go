package calc

import (
	"github.com/expr-lang/expr/vm"
	"github.com/zeebo/xxh3"
)

// programCache holds compiled programs keyed by the xxh3 hash of their
// source. Sources are kept alongside to resolve hash collisions.
type programCache struct {
	entries map[uint64]cacheEntry
	hits    int
	misses  int
}

type cacheEntry struct {
	source  string
	program *vm.Program
}

func (c *programCache) load(source string) (*vm.Program, bool) {
	e, ok := c.entries[xxh3.HashString(source)]
	if !ok || e.source != source {
		c.misses++

		return nil, false
	}

	c.hits++

	return e.program, true
}

func (c *programCache) store(source string, program *vm.Program) {
	if c.entries == nil {
		c.entries = make(map[uint64]cacheEntry)
	}

	c.entries[xxh3.HashString(source)] = cacheEntry{source: source, program: program}
}

// clear drops every program. Programs are compiled against the types of the
// session variables, so they are invalidated whenever a variable changes.
func (c *programCache) clear() {
	c.entries = nil
}

func (c *programCache) len() int { return len(c.entries) }
