package middleware

import "github.com/corehttp/reqcycle/reqres"

// Router and Handler are opaque per spec §1 ("Router and handler
// middlewares... only the middleware contract is defined"). These default
// implementations exist so DefaultChain has something runnable to hand a
// freshly finalized request to; real deployments are expected to supply
// their own via WithMiddlewares.

// RouteFunc picks a handler name for a request; the default routes
// everything to "default".
type RouteFunc func(req *reqres.Request) string

// Router is the default first link in the chain: it stashes a route name
// in env for Handler (or any downstream middleware) to consult.
type Router struct {
	Route RouteFunc
}

func NewRouter(route RouteFunc) *Router {
	if route == nil {
		route = func(*reqres.Request) string { return "default" }
	}
	return &Router{Route: route}
}

func (r *Router) Name() string { return "router" }

func (r *Router) Execute(req *reqres.Request, env Env) Outcome {
	env["route"] = r.Route(req)
	return Next(req, env)
}

// HandleFunc processes a routed request and reports ok/not-ok via the
// second return, which becomes env["result"] ("ok" or "error").
type HandleFunc func(req *reqres.Request, env Env) (*reqres.Request, string)

// Handler is the default last link: it runs HandleFn and stops the chain,
// the common shape for a terminal request handler.
type Handler struct {
	HandleFn HandleFunc
}

func NewHandler(fn HandleFunc) *Handler {
	if fn == nil {
		fn = func(req *reqres.Request, env Env) (*reqres.Request, string) { return req, "ok" }
	}
	return &Handler{HandleFn: fn}
}

func (h *Handler) Name() string { return "handler" }

func (h *Handler) Execute(req *reqres.Request, env Env) Outcome {
	req2, result := h.HandleFn(req, env)
	env[DefaultResultKey] = result
	return Stop(req2, env)
}

// DefaultChain is spec §6's default middlewares value: [router, handler].
func DefaultChain() []Middleware {
	return []Middleware{NewRouter(nil), NewHandler(nil)}
}
