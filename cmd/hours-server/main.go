// Command hours-server is the reference scheduling-hours service: a small
// JSON API over a sqlite store.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/marcus/hours/internal/api"
	"github.com/marcus/hours/internal/serverdb"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "admin" {
		runAdmin(os.Args[2:])
		return
	}
	if err := serve(api.LoadConfig()); err != nil {
		slog.Error("hours-server", "err", err)
		os.Exit(1)
	}
}

// serve runs the API until SIGINT or SIGTERM, then drains in-flight
// requests for at most cfg.ShutdownTimeout.
func serve(cfg api.Config) error {
	slog.SetDefault(slog.New(logHandler(os.Stderr, cfg.LogFormat, cfg.LogLevel)))

	store, err := serverdb.Open(cfg.ServerDBPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", cfg.ServerDBPath, err)
	}
	defer store.Close()

	srv, err := api.NewServer(cfg, store)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(); err != nil {
		return err
	}
	slog.Info("listening",
		"addr", cfg.ListenAddr,
		"db", cfg.ServerDBPath,
		"schema", store.SchemaVersion(),
		"auth", cfg.APIKey != "",
	)

	<-ctx.Done()
	slog.Info("signal received, draining")

	drainCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(drainCtx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// logHandler builds the process log handler. Unknown levels mean info;
// any format but "text" means JSON.
func logHandler(w io.Writer, format, level string) slog.Handler {
	lvl, ok := logLevels[strings.ToLower(level)]
	if !ok {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(format, "text") {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}
