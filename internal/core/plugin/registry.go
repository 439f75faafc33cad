package plugin

import (
	"fmt"
	"io"
	"iter"
	"strings"

	"instrshot.dev/cli/internal/core/domain"
)

// DefaultCapacity is the number of plugins a registry accepts unless configured otherwise
const DefaultCapacity = 50

// Registry is an ordered, append-only collection of capture plugins. It is
// filled once at startup and only read afterwards, so it carries no lock.
type Registry struct {
	plugins  []Plugin
	capacity int
}

// RegistryOption configures a Registry
type RegistryOption func(*Registry)

// WithCapacity bounds the number of plugins. Zero or negative removes the bound.
func WithCapacity(n int) RegistryOption {
	return func(r *Registry) {
		r.capacity = n
	}
}

// NewRegistry creates an empty registry
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{capacity: DefaultCapacity}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register appends a plugin. A rejected plugin leaves the registry unchanged.
func (r *Registry) Register(p Plugin) error {
	if p == nil || p.Name() == "" {
		return fmt.Errorf("%w: plugin name cannot be empty", domain.ErrInvalidPlugin)
	}

	if r.capacity > 0 && len(r.plugins) >= r.capacity {
		return fmt.Errorf("%w (capacity %d): cannot add %s", domain.ErrRegistryFull, r.capacity, p.Name())
	}

	if _, exists := r.Lookup(p.Name()); exists {
		return fmt.Errorf("%w: %s", domain.ErrDuplicatePlugin, p.Name())
	}

	r.plugins = append(r.plugins, p)
	return nil
}

// MustRegister registers static plugin tables and panics on failure
func (r *Registry) MustRegister(plugins ...Plugin) {
	for _, p := range plugins {
		if err := r.Register(p); err != nil {
			panic(err)
		}
	}
}

// Lookup returns the first plugin with exactly the given name
func (r *Registry) Lookup(name string) (Plugin, bool) {
	for _, p := range r.plugins {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

// All yields the registered plugins in registration order
func (r *Registry) All() iter.Seq[Plugin] {
	return func(yield func(Plugin) bool) {
		for _, p := range r.plugins {
			if !yield(p) {
				return
			}
		}
	}
}

// Len returns the number of registered plugins
func (r *Registry) Len() int {
	return len(r.plugins)
}

// Capacity returns the configured bound, zero when unbounded
func (r *Registry) Capacity() int {
	if r.capacity < 0 {
		return 0
	}
	return r.capacity
}

// WriteTable prints the plugins as two columns with the names right aligned
// to the longest name.
func (r *Registry) WriteTable(w io.Writer) error {
	width := len("Name")
	for p := range r.All() {
		width = max(width, len(p.Name()))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%*s   %s\n", width, "Name", "Description")
	for p := range r.All() {
		fmt.Fprintf(&b, "%*s   %s\n", width, p.Name(), p.Description())
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func errNoCaptureFunc(name string) error {
	return fmt.Errorf("%w: plugin %s has no capture function", domain.ErrInvalidPlugin, name)
}
