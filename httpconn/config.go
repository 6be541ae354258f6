package httpconn

import (
	"time"

	"github.com/corehttp/reqcycle/middleware"
	"github.com/corehttp/reqcycle/reqres"
	"go.uber.org/zap"
)

// PostReadHeader mirrors the teacher's proxyproto.PostReadHeader hook,
// generalized to fire once per connection after the first successful
// header-phase read, matching spec §6's onfirstrequest option.
type PostReadHeader func(req *reqres.Request, err error)

// Config holds every recognized configuration option from spec §6. It is
// built with functional options the same way the teacher builds *Conn with
// Option funcs in option.go.
type Config struct {
	Compress bool
	Env      middleware.Env

	MaxEmptyLines         int
	MaxHeaderNameLength   int
	MaxHeaderValueLength  int
	MaxHeaders            int
	MaxKeepalive          int
	MaxRequestLineLength  int

	Middlewares []middleware.Middleware

	OnResponse     func(*reqres.Response)
	OnFirstRequest PostReadHeader

	Timeout time.Duration

	// DisableProxyProtocol skips the PROXY v1 preamble check entirely,
	// mirroring the teacher's WithDisableProxyProto.
	DisableProxyProtocol bool

	Logger *zap.Logger
}

// Option configures a Config, the same shape as the teacher's
// `type Option func(*Conn)`.
type Option func(*Config)

// DefaultConfig returns the spec §6 defaults.
func DefaultConfig() *Config {
	return &Config{
		Compress:             false,
		Env:                  middleware.Env{},
		MaxEmptyLines:        5,
		MaxHeaderNameLength:  64,
		MaxHeaderValueLength: 4096,
		MaxHeaders:           100,
		MaxKeepalive:         100,
		MaxRequestLineLength: 4096,
		Middlewares:          middleware.DefaultChain(),
		Timeout:              5000 * time.Millisecond,
		Logger:               zap.NewNop(),
	}
}

// NewConfig applies opts over DefaultConfig, then injects the "listener"
// env key last so it always wins over any user-supplied value, per spec
// §9's "Default environment key `listener`" note.
func NewConfig(listener any, opts ...Option) *Config {
	cfg := DefaultConfig()
	for _, o := range opts {
		o(cfg)
	}
	if cfg.Env == nil {
		cfg.Env = middleware.Env{}
	}
	cfg.Env["listener"] = listener
	return cfg
}

func WithCompress(v bool) Option { return func(c *Config) { c.Compress = v } }

func WithEnv(env middleware.Env) Option {
	return func(c *Config) {
		merged := make(middleware.Env, len(env))
		for k, v := range env {
			merged[k] = v
		}
		c.Env = merged
	}
}

func WithMaxEmptyLines(n int) Option        { return func(c *Config) { c.MaxEmptyLines = n } }
func WithMaxHeaderNameLength(n int) Option  { return func(c *Config) { c.MaxHeaderNameLength = n } }
func WithMaxHeaderValueLength(n int) Option { return func(c *Config) { c.MaxHeaderValueLength = n } }
func WithMaxHeaders(n int) Option           { return func(c *Config) { c.MaxHeaders = n } }
func WithMaxKeepalive(n int) Option         { return func(c *Config) { c.MaxKeepalive = n } }
func WithMaxRequestLineLength(n int) Option { return func(c *Config) { c.MaxRequestLineLength = n } }

func WithMiddlewares(mw ...middleware.Middleware) Option {
	return func(c *Config) { c.Middlewares = mw }
}

func WithOnResponse(fn func(*reqres.Response)) Option {
	return func(c *Config) { c.OnResponse = fn }
}

func WithOnFirstRequest(fn PostReadHeader) Option {
	return func(c *Config) { c.OnFirstRequest = fn }
}

func WithTimeout(d time.Duration) Option { return func(c *Config) { c.Timeout = d } }

func WithDisableProxyProtocol(v bool) Option {
	return func(c *Config) { c.DisableProxyProtocol = v }
}

func WithLogger(l *zap.Logger) Option { return func(c *Config) { c.Logger = l } }
