package engine

import (
	"fmt"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
)

// Router dispatches messages by path.
type Router struct {
	routes map[string]treasury.Handler
}

var _ treasury.Registry = (*Router)(nil)
var _ treasury.Handler = (*Router)(nil)

// NewRouter returns a router without routes.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]treasury.Handler),
	}
}

// Handle registers a handler for the path. It panics if the path is not
// well formed or was already registered.
func (r *Router) Handle(path string, h treasury.Handler) {
	if err := treasury.ValidatePath(path); err != nil {
		panic(err)
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// Handler returns the handler registered for the path, or a handler that
// always fails with ErrNotFound.
func (r *Router) Handler(path string) treasury.Handler {
	if h, ok := r.routes[path]; ok {
		return h
	}
	return notFoundHandler(path)
}

// Deliver dispatches the message to the handler of its path.
func (r *Router) Deliver(ctx treasury.Context, db treasury.KVStore, msg treasury.Msg) (*treasury.Result, error) {
	return r.Handler(msg.Path()).Deliver(ctx, db, msg)
}

func notFoundHandler(path string) treasury.Handler {
	return treasury.HandlerFunc(func(treasury.Context, treasury.KVStore, treasury.Msg) (*treasury.Result, error) {
		return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", path)
	})
}
