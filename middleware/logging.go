package middleware

import (
	"time"

	"github.com/corehttp/reqcycle/reqres"
	"go.uber.org/zap"
)

// Logging is a structured-logging middleware, the ambient-stack counterpart
// to the teacher's ZapFields()/LogrusFields() dual support on *Header: it
// logs one line per request via zap, attributing method/path/host/version.
// It stores the start time under env["_logging_start"] but logs no duration.
type Logging struct {
	Log *zap.Logger
}

func NewLogging(log *zap.Logger) *Logging {
	if log == nil {
		log = zap.NewNop()
	}
	return &Logging{Log: log}
}

func (l *Logging) Name() string { return "logging" }

func (l *Logging) Execute(req *reqres.Request, env Env) Outcome {
	start := time.Now()
	env["_logging_start"] = start
	l.Log.Debug("request",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.String("host", req.Host),
		zap.String("version", req.Version),
	)
	return Next(req, env)
}
