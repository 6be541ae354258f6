package middleware

import (
	"testing"

	"github.com/corehttp/reqcycle/reqres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_NextChainsThroughToStop(t *testing.T) {
	req := &reqres.Request{Method: "GET"}
	calls := []string{}

	chain := []Middleware{
		Func{FuncName: "a", Fn: func(req *reqres.Request, env Env) Outcome {
			calls = append(calls, "a")
			return Next(req, env)
		}},
		Func{FuncName: "b", Fn: func(req *reqres.Request, env Env) Outcome {
			calls = append(calls, "b")
			env[DefaultResultKey] = "ok"
			return Stop(req, env)
		}},
		Func{FuncName: "c", Fn: func(req *reqres.Request, env Env) Outcome {
			calls = append(calls, "c")
			return Next(req, env)
		}},
	}

	_, result := Execute(NewPool(0), chain, req, Env{})
	assert.Equal(t, []string{"a", "b"}, calls)
	assert.Equal(t, "ok", result)
}

func TestExecute_SuspendResumesThroughPool(t *testing.T) {
	req := &reqres.Request{Method: "GET"}
	resumed := false

	target := func(args any, req *reqres.Request, env Env) Outcome {
		resumed = true
		env[DefaultResultKey] = args.(string)
		return Stop(req, env)
	}

	chain := []Middleware{
		Func{FuncName: "suspender", Fn: func(req *reqres.Request, env Env) Outcome {
			return Suspend(req, env, target, "resumed-ok")
		}},
	}

	_, result := Execute(NewPool(2), chain, req, Env{})
	require.True(t, resumed)
	assert.Equal(t, "resumed-ok", result)
}

func TestExecute_EmptyChainDefaultsToOk(t *testing.T) {
	req := &reqres.Request{Method: "GET"}
	_, result := Execute(NewPool(0), nil, req, Env{})
	assert.Equal(t, "ok", result)
}

func TestRecover_ConvertsPanicToErrorResult(t *testing.T) {
	req := &reqres.Request{Method: "GET"}
	panicking := Func{FuncName: "boom", Fn: func(req *reqres.Request, env Env) Outcome {
		panic("boom")
	}}
	r := NewRecover(nil, NewPool(0), panicking)

	outcome := r.Execute(req, Env{})
	assert.Equal(t, ResultStop, outcome.Kind)
	assert.Equal(t, "error", outcome.Env[DefaultResultKey])
}
