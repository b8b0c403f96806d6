// Command server runs the moleculehub HTTP API and import UI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/sync/errgroup"

	"moleculehub/internal/app"
	"moleculehub/internal/config"
	"moleculehub/internal/db"
	"moleculehub/internal/middleware"
	"moleculehub/internal/registry"
	"moleculehub/internal/storage"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Open(cfg.MetaDBPath, 0)
	if err != nil {
		return err
	}
	defer pool.Close() //nolint:errcheck

	if err := db.Migrate(pool.Write); err != nil {
		return fmt.Errorf("migrate metastore: %w", err)
	}
	version, _ := db.SchemaVersion(pool.Write)
	logger.Info("metastore ready", "path", cfg.MetaDBPath, "schema_version", version)

	reg, err := registry.LoadOrDefault(cfg.RegistryPath)
	if err != nil {
		return err
	}
	logger.Info("property registry loaded", "properties", len(reg.Properties()), "path", cfg.RegistryPath)

	archiver, err := storage.NewArchiver(ctx, cfg.Archive)
	if err != nil {
		return fmt.Errorf("archive backend: %w", err)
	}
	if c, ok := archiver.(io.Closer); ok {
		defer c.Close() //nolint:errcheck
	}

	application, err := app.New(app.Deps{
		Cfg:      cfg,
		Pool:     pool,
		Registry: reg,
		Archiver: archiver,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           application.NewRouter(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP API listening", "addr", cfg.ListenAddr, "try", tryCommand(cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return application.Sweeper.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// tryCommand is the curl line logged at startup. It lists the property
// registry, which needs no session and so works on a fresh metastore.
// Wildcard hosts are replaced by localhost; an address that does not parse
// is used as-is.
func tryCommand(listenAddr string) string {
	addr := strings.TrimSpace(listenAddr)
	if addr == "" {
		addr = ":8080"
	}
	if host, port, err := net.SplitHostPort(addr); err == nil {
		switch host {
		case "", "0.0.0.0", "::":
			host = "localhost"
		}
		addr = net.JoinHostPort(host, port)
	}
	return "curl -H '" + middleware.PrincipalHeader + ": you' http://" + addr + "/v1/properties"
}
