package middleware

import "github.com/corehttp/reqcycle/reqres"

// DefaultResultKey is the env key the executor consults when the chain runs
// out of middlewares, per spec §4.6: "the executor reads env["result"]
// (default ok) as the handler result".
const DefaultResultKey = "result"

// Execute runs req/env through chain in order, honoring Next/Suspend/Stop,
// and returns the handler result string ("ok" unless a middleware set
// env["result"] to something else, or stopped early with one set).
//
// State machine: the request moves ParsingLine → ParsingHeaders →
// Finalizing (all upstream of this call) → Executing(i) →
// [Suspended(i)] → Executing(i+1) → … → Completed. Errors anywhere
// transition to Erroring(status) → Terminated, handled by the caller before
// Execute is ever reached.
func Execute(pool *Pool, chain []Middleware, req *reqres.Request, env Env) (req2 *reqres.Request, result string) {
	if env == nil {
		env = Env{}
	}

	i := 0
	for i < len(chain) {
		outcome := chain[i].Execute(req, env)
		for outcome.Kind == ResultSuspend {
			target, args, curReq, curEnv := outcome.Target, outcome.Args, outcome.Req, outcome.Env
			outcome = pool.Run(func() Outcome {
				return target(args, curReq, curEnv)
			})
		}

		req, env = outcome.Req, outcome.Env
		switch outcome.Kind {
		case ResultStop:
			return req, resultOf(env)
		case ResultNext:
			i++
		}
	}
	return req, resultOf(env)
}

func resultOf(env Env) string {
	if env == nil {
		return "ok"
	}
	if v, ok := env[DefaultResultKey]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return "ok"
}
