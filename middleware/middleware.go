// Package middleware defines the three-way request-processing contract
// (continue, suspend, stop) spec §4.6 names, plus the executor that threads
// a chain of them over one request. Router and handler bodies are opaque
// per spec §1; only the contract and a few concrete built-ins (logging,
// recovery, PROXY-header forwarding) live here.
package middleware

import (
	"github.com/corehttp/reqcycle/reqres"
)

// Env is the name→value mapping threaded through the chain, spec §3's
// ConnectionState.env.
type Env map[string]any

// Result is the three-way outcome of one middleware step.
type Result int

const (
	ResultNext Result = iota
	ResultSuspend
	ResultStop
)

// SuspendFunc is the captured continuation a middleware hands back when it
// needs to yield: "call target(args); interpret result as Ok/Suspend/Stop",
// with req/env threaded through exactly as spec §4.6 describes.
type SuspendFunc func(args any, req *reqres.Request, env Env) Outcome

// Outcome is what Middleware.Execute (or a resumed SuspendFunc) returns.
type Outcome struct {
	Kind Result
	Req  *reqres.Request
	Env  Env

	// Target/Args are only meaningful when Kind == ResultSuspend.
	Target SuspendFunc
	Args   any
}

// Next builds the common-case continue outcome.
func Next(req *reqres.Request, env Env) Outcome {
	return Outcome{Kind: ResultNext, Req: req, Env: env}
}

// Suspend builds a yield outcome: the executor will invoke target(args,
// req, env) — possibly on a pooled goroutine — and interpret its result as
// the next step, without re-running this middleware.
func Suspend(req *reqres.Request, env Env, target SuspendFunc, args any) Outcome {
	return Outcome{Kind: ResultSuspend, Req: req, Env: env, Target: target, Args: args}
}

// Stop builds a stop outcome: remaining middlewares are skipped and the
// keep-alive loop proceeds with whatever result env["result"] carries
// (default "ok").
func Stop(req *reqres.Request, env Env) Outcome {
	return Outcome{Kind: ResultStop, Req: req, Env: env}
}

// Middleware is one link in the ordered chain.
type Middleware interface {
	Name() string
	Execute(req *reqres.Request, env Env) Outcome
}

// Func adapts a plain function to Middleware, the way http.HandlerFunc
// adapts a function to http.Handler.
type Func struct {
	FuncName string
	Fn       func(req *reqres.Request, env Env) Outcome
}

func (f Func) Name() string { return f.FuncName }
func (f Func) Execute(req *reqres.Request, env Env) Outcome {
	return f.Fn(req, env)
}
