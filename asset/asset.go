// Package asset loads the resources a canopy scene needs (images, audio,
// text and raw blobs) from a file system or over HTTP, and keeps them in a
// registry keyed by kind and name.
package asset

import (
	"errors"
	"fmt"
	"sync"
)

// Kind identifies what a resource decodes to.
type Kind uint8

const (
	KindImage Kind = iota // *gg.ImageBuf
	KindAudio             // *beep.Buffer
	KindText              // string
	KindBlob              // []byte
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindAudio:
		return "audio"
	case KindText:
		return "text"
	case KindBlob:
		return "blob"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Resource describes one item to load.
type Resource struct {
	Name string
	Kind Kind
	// Path is resolved by the loader's Source.
	Path string
}

var (
	// ErrNotFound is returned by Get for names never loaded.
	ErrNotFound = errors.New("asset: not found")
	// ErrKindMismatch is returned by Get when the stored value has another type.
	ErrKindMismatch = errors.New("asset: kind mismatch")
)

// LoadError reports the resource that failed to load.
type LoadError struct {
	Resource Resource
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("asset: load %s %q from %q: %v", e.Resource.Kind, e.Resource.Name, e.Resource.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Registry holds decoded resources. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	items [KindBlob + 1]map[string]any
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	r := &Registry{}
	for i := range r.items {
		r.items[i] = make(map[string]any)
	}
	return r
}

// Put stores v under kind and name, replacing any previous value.
func (r *Registry) Put(kind Kind, name string, v any) {
	if int(kind) >= len(r.items) {
		panic("asset: unknown kind")
	}
	r.mu.Lock()
	r.items[kind][name] = v
	r.mu.Unlock()
}

// Lookup returns the raw value stored under kind and name.
func (r *Registry) Lookup(kind Kind, name string) (any, bool) {
	if int(kind) >= len(r.items) {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.items[kind][name]
	return v, ok
}

// Len returns how many resources of kind are stored.
func (r *Registry) Len(kind Kind) int {
	if int(kind) >= len(r.items) {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items[kind])
}

// Get returns the resource stored under kind and name as a T.
//
//	img, err := asset.Get[*gg.ImageBuf](reg, asset.KindImage, "hero")
func Get[T any](r *Registry, kind Kind, name string) (T, error) {
	var zero T
	v, ok := r.Lookup(kind, name)
	if !ok {
		return zero, fmt.Errorf("%w: %s %q", ErrNotFound, kind, name)
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s %q holds %T", ErrKindMismatch, kind, name, v)
	}
	return t, nil
}
