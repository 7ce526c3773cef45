// agentharness runs the harness in one of three modes:
//
//	simulate  bootstrap, run plan → retrieve → verify and print the result (default)
//	http      serve the tool registry over HTTP (see package server)
//	mcp       serve the tool registry as an MCP server over stdio
//
// Configuration is read from .env, an optional YAML file (--config or
// HARNESS_CONFIG) and environment variables; see package config.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"

	"github.com/hupe1980/agentharness"
	"github.com/hupe1980/agentharness/config"
	"github.com/hupe1980/agentharness/logging"
	"github.com/hupe1980/agentharness/mcpserver"
	"github.com/hupe1980/agentharness/metrics"
	"github.com/hupe1980/agentharness/server"
	"github.com/hupe1980/agentharness/tool"
)

const version = "0.1.0"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		mode       string
		configFile string
		addr       string
	)

	flagSet := pflag.NewFlagSet("agentharness", pflag.ContinueOnError)
	flagSet.StringVar(&mode, "mode", "simulate", "run mode: simulate, http or mcp")
	flagSet.StringVar(&configFile, "config", "", "path to a YAML config file (overrides HARNESS_CONFIG)")
	flagSet.StringVar(&addr, "addr", "", "HTTP listen address (overrides HARNESS_HTTP_ADDR)")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	cfg, err := config.Load(func(o *config.Options) { o.ConfigFile = configFile })
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.HTTP.Addr = addr
	}

	level, _ := logging.ParseLevel(cfg.Logging.Level)
	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:     level,
		Format:    cfg.Logging.Format,
		Output:    os.Stderr,
		Component: "agentharness",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch mode {
	case "simulate":
		return simulate(ctx, cfg, logger)
	case "http":
		return serveHTTP(ctx, cfg, logger)
	case "mcp":
		return serveMCP(ctx, cfg, logger)
	default:
		return fmt.Errorf("unknown mode %q (want simulate, http or mcp)", mode)
	}
}

func simulate(ctx context.Context, cfg config.Config, logger logging.Logger) error {
	h, err := agentharness.New(func(o *agentharness.Options) {
		o.Config = cfg
		o.Logger = logger
	})
	if err != nil {
		return err
	}

	res, err := h.Simulate(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func serveHTTP(ctx context.Context, cfg config.Config, logger *logging.HarnessLogger) error {
	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	toolMetrics, err := metrics.NewToolMetrics(promReg)
	if err != nil {
		return err
	}
	httpMetrics, err := metrics.NewHTTPMetrics(promReg)
	if err != nil {
		return err
	}

	h, err := agentharness.New(func(o *agentharness.Options) {
		o.Config = cfg
		o.Logger = logger.WithComponent("tools")
		o.Observers = []tool.Observer{toolMetrics}
	})
	if err != nil {
		return err
	}

	if _, err := h.Bootstrap(ctx); err != nil {
		return err
	}

	handler := server.New(h.Registry(), func(o *server.Options) {
		o.Logger = logger.WithComponent("http")
		o.Gatherer = promReg
		o.HTTPMetrics = httpMetrics
	})

	return server.ListenAndServe(ctx, cfg.HTTP.Addr, handler, 10*time.Second, logger)
}

func serveMCP(ctx context.Context, cfg config.Config, logger *logging.HarnessLogger) error {
	h, err := agentharness.New(func(o *agentharness.Options) {
		o.Config = cfg
		o.Logger = logger.WithComponent("tools")
	})
	if err != nil {
		return err
	}

	srv := mcpserver.New(h.Registry(), &mcp.Implementation{Name: "agentharness", Version: version}, func(o *mcpserver.Options) {
		o.Logger = logger.WithComponent("mcp")
	})

	return mcpserver.ServeStdio(ctx, srv)
}
