package preset

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/comalice/motionx"
)

// ErrUnknownPreset is matched by every *UnknownPresetError.
var ErrUnknownPreset = errors.New("unknown preset")

// UnknownPresetError reports a lookup of an unregistered name.
type UnknownPresetError struct {
	Name string
}

func (e *UnknownPresetError) Error() string {
	return fmt.Sprintf("unknown preset %q", e.Name)
}

func (e *UnknownPresetError) Unwrap() error { return ErrUnknownPreset }

// Registry holds descriptors by name. Safe for concurrent use: lookups may
// race with a file reload.
type Registry struct {
	mu    sync.RWMutex
	descs map[string]Descriptor
}

// NewRegistry validates descs and registers them. Later entries replace
// earlier ones with the same name.
func NewRegistry(descs ...Descriptor) (*Registry, error) {
	r := &Registry{descs: make(map[string]Descriptor, len(descs))}
	if err := r.Merge(descs...); err != nil {
		return nil, err
	}
	return r, nil
}

// Default returns a registry holding the built-in presets.
func Default() *Registry {
	r, err := NewRegistry(Builtins()...)
	if err != nil {
		panic(fmt.Sprintf("built-in presets are invalid: %v", err))
	}
	return r
}

// Get returns the descriptor registered under name. The result must be
// treated as read-only.
func (r *Registry) Get(name string) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.descs[name]
	if !ok {
		return Descriptor{}, &UnknownPresetError{Name: name}
	}
	return d, nil
}

// MustGet is Get for names known at compile time.
func (r *Registry) MustGet(name string) Descriptor {
	d, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return d
}

// Register validates and adds d, replacing any descriptor with the same name.
func (r *Registry) Register(d Descriptor) error {
	return r.Merge(d)
}

// Merge validates every descriptor first and only then applies them all, so
// a bad entry leaves the registry untouched. A descriptor taking a built-in
// name must define every state of that primitive's chart.
func (r *Registry) Merge(descs ...Descriptor) error {
	for _, d := range descs {
		if err := d.Validate(); err != nil {
			return err
		}
		if chart, ok := ChartFor(d.Name); ok {
			if _, err := motionx.NewMachine(chart, d); err != nil {
				return fmt.Errorf("%w: preset %q: %w", ErrInvalidDescriptor, d.Name, err)
			}
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range descs {
		r.descs[d.Name] = d.clone()
	}
	return nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.descs))
	for name := range r.descs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Snapshot returns copies of every descriptor, sorted by name.
func (r *Registry) Snapshot() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Descriptor, 0, len(r.descs))
	for _, d := range r.descs {
		out = append(out, d.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
