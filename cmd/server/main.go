// Command server is the runnable demonstration SPEC_FULL.md §10/§12
// describes: an errgroup-supervised pair of listeners sharing one
// middleware chain and one zap logger, the Go-native reading of the
// teacher's single-listener example/server mains generalized to the
// two trust zones a PROXY-protocol-aware HTTP front door actually has.
package main

import (
	"context"
	"errors"
	"net"
	"os"
	"os/signal"
	"time"

	"github.com/corehttp/reqcycle/httpconn"
	"github.com/corehttp/reqcycle/middleware"
	"github.com/corehttp/reqcycle/reqres"
	"github.com/corehttp/reqcycle/transport"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	pool := middleware.NewPool(64)

	chain := []middleware.Middleware{
		middleware.NewRecover(logger, pool,
			middleware.NewLogging(logger),
			&middleware.ForwardProxyHeader{UseV2: true, WithCRC32c: true, Log: logger},
			middleware.NewRouter(nil),
			middleware.NewHandler(handle),
		),
	}

	onFirst := func(req *reqres.Request, err error) {
		if err != nil {
			logger.Warn("first request on connection failed", zap.Error(err))
			return
		}
		logger.Info("connection established", zap.String("peer", req.Peer.String()))
	}

	// internalCfg trusts the PROXY v1 preamble an upstream load balancer is
	// expected to send; publicCfg is dialed directly by clients and must
	// not accept one (spec §4.2's decode would otherwise let a client lie
	// about its own address).
	internalCfg := httpconn.NewConfig(nil,
		httpconn.WithMiddlewares(chain...),
		httpconn.WithOnFirstRequest(onFirst),
		httpconn.WithLogger(logger),
		httpconn.WithTimeout(5*time.Second),
	)
	publicCfg := httpconn.NewConfig(nil,
		httpconn.WithMiddlewares(chain...),
		httpconn.WithOnFirstRequest(onFirst),
		httpconn.WithLogger(logger),
		httpconn.WithTimeout(5*time.Second),
		httpconn.WithDisableProxyProtocol(true),
	)

	internalLn, err := net.Listen("tcp", "127.0.0.1:9090")
	if err != nil {
		logger.Fatal("listen (internal)", zap.Error(err))
	}
	publicLn, err := net.Listen("tcp", "0.0.0.0:8080")
	if err != nil {
		logger.Fatal("listen (public)", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return serveListener(gctx, transport.NewListener(internalLn, "tcp"), internalCfg, logger)
	})
	g.Go(func() error {
		return serveListener(gctx, transport.NewListener(publicLn, "tcp"), publicCfg, logger)
	})
	g.Go(func() error {
		<-gctx.Done()
		internalLn.Close()
		publicLn.Close()
		return gctx.Err()
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server stopped", zap.Error(err))
	}
}

func serveListener(ctx context.Context, ln *transport.Listener, cfg *httpconn.Config, logger *zap.Logger) error {
	for {
		tr, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Warn("accept", zap.Error(err))
			continue
		}
		go httpconn.Serve(httpconn.New(tr, cfg))
	}
}

func handle(req *reqres.Request, env middleware.Env) (*reqres.Request, string) {
	return req, "ok"
}
