package stream

import (
	"context"
	"sync"
)

// Kind names a long-running generation operation.
type Kind int

const (
	// ThemeOptions is theme auto-generation for a brand.
	ThemeOptions Kind = iota
	// ThemeImages regenerates preview images for theme parameters.
	ThemeImages
	// Posts is post generation for a theme.
	Posts
)

func (k Kind) String() string {
	switch k {
	case ThemeOptions:
		return "theme-options"
	case ThemeImages:
		return "theme-images"
	case Posts:
		return "posts"
	default:
		return "unknown"
	}
}

// Generation is the handle for one open generation stream. It owns the
// stream's context; closing the handle cancels the connection.
type Generation struct {
	id     uint64
	kind   Kind
	owner  string
	ctx    context.Context
	cancel context.CancelFunc
}

// ID is unique within the Registry that created the handle.
func (g *Generation) ID() uint64 { return g.id }

// Kind returns the operation kind.
func (g *Generation) Kind() Kind { return g.kind }

// Owner is the brand or theme id the generation was started for.
func (g *Generation) Owner() string { return g.owner }

// Context is cancelled once the handle is closed.
func (g *Generation) Context() context.Context { return g.ctx }

// Close cancels the stream. It is safe to call more than once.
func (g *Generation) Close() { g.cancel() }

// Closed reports whether Close has been called.
func (g *Generation) Closed() bool { return g.ctx.Err() != nil }

// Registry tracks at most one active Generation per Kind. Starting a new
// generation closes the previous one of the same kind.
type Registry struct {
	mu     sync.Mutex
	nextID uint64
	active map[Kind]*Generation
}

// Start opens a new handle for kind, closing any active one first.
func (r *Registry) Start(parent context.Context, kind Kind, owner string) *Generation {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == nil {
		r.active = make(map[Kind]*Generation)
	}
	if prev := r.active[kind]; prev != nil {
		prev.Close()
	}
	r.nextID++
	ctx, cancel := context.WithCancel(parent)
	g := &Generation{id: r.nextID, kind: kind, owner: owner, ctx: ctx, cancel: cancel}
	r.active[kind] = g
	return g
}

// Current reports whether g is still the active handle for its kind.
func (r *Registry) Current(g *Generation) bool {
	if g == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active[g.kind] == g && !g.Closed()
}

// Active returns the active handle for kind, or nil.
func (r *Registry) Active(kind Kind) *Generation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active[kind]
}

// Finish closes g and forgets it if it is still the active handle. It
// reports whether g was active.
func (r *Registry) Finish(g *Generation) bool {
	if g == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	g.Close()
	if r.active[g.kind] != g {
		return false
	}
	delete(r.active, g.kind)
	return true
}

// Cancel closes the active handle for kind, if any.
func (r *Registry) Cancel(kind Kind) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	g := r.active[kind]
	if g == nil {
		return false
	}
	g.Close()
	delete(r.active, kind)
	return true
}

// CancelAll closes every active handle.
func (r *Registry) CancelAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for kind, g := range r.active {
		g.Close()
		delete(r.active, kind)
	}
}
