package dynamic

import (
	"sync"

	"github.com/stratumkit/capwire/internal/hash"
)

// registry caches Schema values by the xxhash of their fully-qualified
// name, so a caller resolving the same schema type repeatedly (the common
// case on a read/modify/write hot path) pays the string hash once.
var registry sync.Map // map[uint64]*Schema

// Register makes schema available to Lookup, keyed by hash.ID(schema.Name).
// A second Register call for the same name replaces the first.
func Register(schema *Schema) {
	registry.Store(hash.ID(schema.Name), schema)
}

// Lookup resolves a schema previously passed to Register by name.
func Lookup(name string) (*Schema, bool) {
	v, ok := registry.Load(hash.ID(name))
	if !ok {
		return nil, false
	}

	return v.(*Schema), true
}
