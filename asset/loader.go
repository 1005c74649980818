package asset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds how many resources load at once when
// Loader.Concurrency is zero.
const DefaultConcurrency = 4

// Loader fetches and decodes a batch of resources.
type Loader struct {
	Source Source
	// Concurrency bounds parallel fetches; zero means DefaultConcurrency.
	Concurrency int
	// Logger receives per-resource debug lines. Nil discards them.
	Logger *slog.Logger

	resources []Resource
}

// NewLoader creates a loader reading from src.
func NewLoader(src Source, resources ...Resource) *Loader {
	return &Loader{Source: src, resources: resources}
}

// Add queues more resources.
func (l *Loader) Add(resources ...Resource) {
	l.resources = append(l.resources, resources...)
}

// Resources returns the queued resources. The returned slice MUST NOT be mutated.
func (l *Loader) Resources() []Resource { return l.resources }

// Load fetches every queued resource and returns a registry holding them.
// progress, when non-nil, is called after each completed resource with the
// percentage done (0-100); calls are serialized but may come from any
// goroutine. The first failure cancels the rest and is returned as a
// *LoadError.
func (l *Loader) Load(ctx context.Context, progress func(percent float64)) (*Registry, error) {
	if l.Source == nil {
		return nil, errors.New("asset: loader has no source")
	}
	reg := NewRegistry()
	total := len(l.resources)
	if total == 0 {
		if progress != nil {
			progress(100)
		}
		return reg, nil
	}

	limit := l.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	var mu sync.Mutex
	done := 0
	for _, res := range l.resources {
		g.Go(func() error {
			v, err := l.fetch(gctx, res)
			if err != nil {
				return &LoadError{Resource: res, Err: err}
			}
			reg.Put(res.Kind, res.Name, v)
			mu.Lock()
			done++
			if progress != nil {
				progress(float64(done) * 100 / float64(total))
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reg, nil
}

func (l *Loader) fetch(ctx context.Context, res Resource) (any, error) {
	rc, err := l.Source.Open(ctx, res.Path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	v, err := decode(res.Kind, data)
	if err != nil {
		return nil, err
	}
	if l.Logger != nil {
		l.Logger.Debug("asset loaded", "name", res.Name, "kind", res.Kind, "bytes", len(data))
	}
	return v, nil
}
