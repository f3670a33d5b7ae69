// File: cmd/ringsim/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Command ringsim runs an interrupt-style producer and a task-style
// consumer over one Blocks ring and reports what crossed it.
//
//	ringsim -config ring.yaml -duration 10s
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/momentics/hioload-ring/control"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "ringsim:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "YAML configuration file (watched for changes)")
	duration := flag.Duration("duration", 0, "stop after this long (0 runs until interrupted)")
	flag.Parse()

	cfg := control.DefaultConfig()
	if *configPath != "" {
		loaded, err := control.LoadConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	logger := setupLogger(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	sim, err := newSimulator(cfg, logger)
	if err != nil {
		return err
	}
	defer sim.close()

	store := control.NewConfigStore(cfg, logger)
	store.OnReload(sim.reconfigure)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sim.runProducer(gctx) })
	g.Go(func() error { return sim.runConsumer(gctx) })
	if cfg.Metrics.Addr != "" {
		g.Go(func() error { return sim.serveMetrics(gctx, cfg.Metrics.Addr) })
	}
	if *configPath != "" {
		g.Go(func() error { return store.Watch(gctx, *configPath) })
	}

	logger.Info("simulation started",
		"buffer", cfg.Buffer.Name,
		"capacity", cfg.Buffer.Capacity,
		"element_size", cfg.Buffer.ElementSize,
		"lock", cfg.Buffer.Lock,
	)
	start := time.Now()
	err = g.Wait()
	sim.report(time.Since(start))
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
