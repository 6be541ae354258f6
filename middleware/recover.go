package middleware

import (
	"github.com/corehttp/reqcycle/reqres"
	"go.uber.org/zap"
)

// Recover wraps the rest of the chain, converting a panicking downstream
// middleware into a clean Stop with result "error" instead of crashing the
// connection goroutine. Since Middleware.Execute itself can't wrap "the
// rest of the chain" (the executor is a flat loop, not nested calls),
// Recover is built with the tail it guards and runs that tail inline via
// its own small executor call.
type Recover struct {
	Log  *zap.Logger
	Tail []Middleware
	Pool *Pool
}

func NewRecover(log *zap.Logger, pool *Pool, tail ...Middleware) *Recover {
	if log == nil {
		log = zap.NewNop()
	}
	return &Recover{Log: log, Tail: tail, Pool: pool}
}

func (r *Recover) Name() string { return "recover" }

func (r *Recover) Execute(req *reqres.Request, env Env) (outcome Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			r.Log.Error("recovered panic in middleware chain", zap.Any("panic", rec))
			env[DefaultResultKey] = "error"
			outcome = Stop(req, env)
		}
	}()

	req2, result := Execute(r.Pool, r.Tail, req, env)
	env[DefaultResultKey] = result
	return Stop(req2, env)
}
