package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/intelliwealth/advisor/pkg/server"
)

// ServeCmd starts the HTTP server.
type ServeCmd struct {
	Port int `help:"Port to listen on. Overrides config." default:"0"`
}

func (c *ServeCmd) Run(cli *CLI) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}

	closeLog, err := setupLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	r, closeDB, err := buildRouter(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		slog.Info("shutting down")
		cancel()
	}()

	fmt.Printf("advisor ready on http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("  ask:     POST /v1/ask\n")
	fmt.Printf("  health:  GET  /healthz\n")
	fmt.Printf("  metrics: GET  /metrics\n")

	return server.New(&cfg.Server, r).Start(ctx)
}
