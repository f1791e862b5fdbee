package schema

import (
	"fmt"
	"sync"

	"github.com/petitechose-audio/protocol-codegen/pkg/errors"
)

// Registry is the catalog of primitive wire types. It is mutable only
// during initialization; after Seal it is read-only and safe to share
// across concurrent generation runs without locking. Mutating a sealed
// registry is a programming error and panics.
type Registry struct {
	mu       sync.RWMutex
	types    map[string]TypeDescriptor
	order    []string
	sealed   bool
	builtins bool
}

// NewRegistry creates an empty, unsealed registry.
func NewRegistry() *Registry {
	return &Registry{
		types: make(map[string]TypeDescriptor),
	}
}

// NewBuiltinRegistry returns a sealed registry holding exactly the builtin
// primitive set. This is the registry every generation run starts from.
func NewBuiltinRegistry() *Registry {
	r := NewRegistry()
	if err := r.LoadBuiltins(); err != nil {
		// Builtins register into an empty registry; failure is impossible.
		panic(err)
	}
	r.Seal()
	return r
}

// Register adds a type descriptor under its name.
func (r *Registry) Register(desc TypeDescriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		panic(fmt.Sprintf("schema: Register(%q) on sealed registry", desc.Name))
	}
	if desc.Name == "" {
		return errors.New(ErrEmptyTypeName, "type name must not be empty")
	}
	if _, exists := r.types[desc.Name]; exists {
		return errors.Newf(ErrDuplicateType, "type %q already registered", desc.Name)
	}

	r.types[desc.Name] = desc
	r.order = append(r.order, desc.Name)
	return nil
}

// LoadBuiltins populates the fixed primitive set. It may run at most once
// per registry.
func (r *Registry) LoadBuiltins() error {
	r.mu.Lock()
	loaded := r.builtins
	r.builtins = true
	r.mu.Unlock()

	if loaded {
		return errors.New(ErrBuiltinsReloaded, "builtin types already loaded")
	}
	for _, desc := range builtinTypes {
		if err := r.Register(desc); err != nil {
			return err
		}
	}
	return nil
}

// Seal freezes the registry. Idempotent.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

// Sealed reports whether the registry is frozen.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (TypeDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	desc, exists := r.types[name]
	if !exists {
		return TypeDescriptor{}, errors.Newf(ErrUnknownType, "type %q not registered", name)
	}
	return desc, nil
}

// Has reports whether a type is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.types[name]
	return exists
}

// Names returns all registered type names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}
