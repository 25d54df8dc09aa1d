// Package router is a thin registration layer over httprouter that applies
// per-route middlewares at mount time.
package router

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// Route binds one method+path to a handler and its route-level middlewares.
// Cross-cutting middlewares (logging, auth) live on the server chain instead.
type Route struct {
	Path        string
	Method      string
	Handler     http.Handler
	Middlewares []func(http.Handler) http.Handler
}

type Router struct {
	mux *httprouter.Router
}

// Option configures a Router during construction.
type Option func(*Router)

// WithRoutes mounts a group of routes.
func WithRoutes(routes ...Route) Option {
	return func(r *Router) {
		for _, route := range routes {
			r.mount(route)
		}
	}
}

func New(opts ...Option) *Router {
	r := &Router{mux: httprouter.New()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// mount wraps the handler with its middlewares, innermost last, so the first
// listed middleware sees the request first.
func (r *Router) mount(route Route) {
	handler := route.Handler
	for i := len(route.Middlewares) - 1; i >= 0; i-- {
		handler = route.Middlewares[i](handler)
	}
	r.mux.Handler(route.Method, route.Path, handler)
}
