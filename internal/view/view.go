// Package view models one mounted dashboard panel: a single dataset load
// followed by exactly one transition out of the loading state.
package view

import (
	"context"
	"errors"
	"sync"

	"salesdash/adapters/loader"
	"salesdash/domain/core"
	"salesdash/domain/dataset"
	"salesdash/domain/insight"
	"salesdash/internal"
	"salesdash/internal/dispatch"
)

// State is the visible state of a mounted view
type State int

const (
	Loading State = iota
	Populated
	Empty
)

func (s State) String() string {
	switch s {
	case Populated:
		return "populated"
	case Empty:
		return "empty"
	default:
		return "loading"
	}
}

var (
	// ErrAlreadyResolved is returned when a view is asked to load twice
	ErrAlreadyResolved = errors.New("view already resolved")
	// ErrDiscarded is returned when the mount was torn down before its load
	// finished; the view keeps its loading state
	ErrDiscarded = errors.New("view unmounted before load completed")
)

// Shaper turns a loaded dataset into the view's content. Returning false
// means there is nothing to show.
type Shaper[T any] func(dataset.Dataset) (T, bool)

// View is one mount. Its content lives only as long as the view.
type View[T any] struct {
	ID  core.MountID
	Ref string

	ctx    context.Context
	loader loader.DatasetLoader
	shape  Shaper[T]
	logger *internal.Logger

	mu      sync.Mutex
	started bool
	state   State
	content T
}

// Mount creates a view over ref in the loading state. Nothing is fetched
// until Resolve.
func Mount[T any](ctx context.Context, l loader.DatasetLoader, ref string, shape Shaper[T]) *View[T] {
	return &View[T]{
		ID:     core.NewMountID(),
		Ref:    ref,
		ctx:    ctx,
		loader: l,
		shape:  shape,
		logger: internal.DefaultLogger.For("View"),
	}
}

// MountInsight mounts the panel for a registered insight. Unknown ids mount
// a view that resolves empty without fetching anything.
func MountInsight(ctx context.Context, l loader.DatasetLoader, d *dispatch.Dispatcher, id insight.ID) *View[dispatch.Render] {
	desc, ok := d.Resolve(id)
	ref := ""
	if ok {
		ref = desc.DatasetRef
	}
	return Mount(ctx, l, ref, func(ds dataset.Dataset) (dispatch.Render, bool) {
		r := d.Dispatch(id, ds)
		return r, !r.Empty()
	})
}

// Resolve performs the view's single load and moves it to populated or
// empty. A load that finishes after the mount's context is done is dropped.
func (v *View[T]) Resolve() error {
	v.mu.Lock()
	if v.started {
		v.mu.Unlock()
		return ErrAlreadyResolved
	}
	v.started = true
	v.mu.Unlock()

	if v.Ref == "" {
		v.transition(Empty, *new(T))
		return nil
	}

	ds, err := v.loader.Load(v.ctx, v.Ref)
	if v.ctx.Err() != nil {
		v.logger.Debug("mount %s discarded late result for %s", v.ID, v.Ref)
		return ErrDiscarded
	}
	if err != nil {
		v.transition(Empty, *new(T))
		return nil
	}

	content, ok := v.shape(ds)
	if !ok {
		v.transition(Empty, *new(T))
		return nil
	}
	v.transition(Populated, content)
	return nil
}

func (v *View[T]) transition(to State, content T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state = to
	v.content = content
	v.logger.Debug("mount %s %s -> %s", v.ID, v.Ref, to)
}

// State reports the current state
func (v *View[T]) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Content returns what the view shows. It is the zero value unless the view
// is populated.
func (v *View[T]) Content() (T, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.content, v.state == Populated
}
