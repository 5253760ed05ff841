package botx

import (
	"context"
	"strings"
)

// Router dispatches requests to handlers by command.
type Router struct {
	notFound    Handler
	handlers    map[string]Handler
	middlewares []Middleware
}

// NewRouter makes an empty router, which answers everything with NotFound.
func NewRouter() *Router {
	return &Router{
		handlers: map[string]Handler{},
		notFound: NotFound,
	}
}

// Add registers the handler for the command, e.g. "/news".
func (r *Router) Add(cmd string, h Handler) {
	r.handlers[strings.ToLower(cmd)] = h
}

// Use applies middleware to all handlers, the not found one included.
func (r *Router) Use(mws ...Middleware) *Router {
	r.middlewares = append(r.middlewares, mws...)
	return r
}

// With returns a copy of the router with middleware applied.
func (r *Router) With(mws ...Middleware) *Router {
	return r.Clone().Use(mws...)
}

// Clone returns a copy of the router.
func (r *Router) Clone() *Router {
	res := &Router{
		notFound:    r.notFound,
		handlers:    make(map[string]Handler, len(r.handlers)),
		middlewares: append([]Middleware(nil), r.middlewares...),
	}
	for cmd, h := range r.handlers {
		res.handlers[cmd] = h
	}
	return res
}

// Group registers the handlers added by f, wrapped into the middlewares
// used within f.
func (r *Router) Group(f func(rtr *Router)) {
	nested := NewRouter()
	f(nested)

	for cmd, h := range nested.handlers {
		r.Add(cmd, h.With(nested.middlewares...))
	}
}

// NotFound sets the handler for requests without a registered command.
func (r *Router) NotFound(h Handler) {
	r.notFound = h
}

// Handle handles the request. Blank messages are ignored.
func (r *Router) Handle(ctx context.Context, req Request) ([]Response, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, nil
	}

	h, ok := r.handlers[req.Command()]
	if !ok {
		h = r.notFound
	}

	return h.With(r.middlewares...)(ctx, req)
}
