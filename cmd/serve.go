package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/etnz/budget"
	"github.com/etnz/budget/logging"
	"github.com/etnz/budget/metrics"
	"github.com/etnz/budget/server"
	"github.com/google/subcommands"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type serveCmd struct{}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the book as a JSON HTTP API" }
func (*serveCmd) Usage() string {
	return `bgt [-listen <addr>] serve

  Serves the book on the -listen address until interrupted. Every change
  is saved to the store. Metrics are exposed on /metrics and an HTML
  summary on /report.
`
}

func (*serveCmd) SetFlags(f *flag.FlagSet) {}

func (*serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := serviceLogger()
	defer log.Sync()

	collector := metrics.NewCollector("")
	book, store, err := openBook(ctx, budget.WithObserver(collector), budget.WithLogger(log))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	collector.SetBalance(book.Balance())
	srv := server.New(book, store, server.WithLogger(log), server.WithMetrics(collector.Handler()))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(ctx, *listenAddr)
	})
	g.Go(func() error {
		<-ctx.Done()
		// The server saves after every change, this last save only
		// flushes and closes the store.
		return saveBook(context.Background(), book, store)
	})
	if err := g.Wait(); err != nil {
		log.Error("serve", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// serviceLogger returns the logger of a long running service, configured
// from the environment.
func serviceLogger() *zap.Logger {
	log, err := logging.New(logging.FromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, logging disabled\n", err)
		return zap.NewNop()
	}
	return log
}
