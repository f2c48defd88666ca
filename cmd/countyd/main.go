package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/netutil"

	"github.com/countyhealth/countyd/api"
	"github.com/countyhealth/countyd/config"
	"github.com/countyhealth/countyd/ingest"
	"github.com/countyhealth/countyd/logging"
	"github.com/countyhealth/countyd/store"
)

func main() {
	configPath := flag.String("config", "", "path to HCL config file")
	initConfig := flag.Bool("init-config", false, "write the default config to -config path and exit")
	importOnly := flag.Bool("import-only", false, "import configured sources and exit without serving")
	flag.Parse()

	if err := run(*configPath, *initConfig, *importOnly); err != nil {
		fmt.Fprintf(os.Stderr, "countyd: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, initConfig, importOnly bool) error {
	if initConfig {
		if configPath == "" {
			configPath = "countyd.hcl"
		}
		if err := config.Export(configPath, config.DefaultConfig()); err != nil {
			return err
		}
		fmt.Printf("Wrote default config to %s\n", configPath)
		return nil
	}

	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	importer := ingest.NewImporter(db, slog.Default())
	for _, src := range cfg.Sources {
		if err := importFile(ctx, importer, src.Path); err != nil {
			return err
		}
	}

	if importOnly {
		return nil
	}

	if err := store.RequireSchema(ctx, db); err != nil {
		return fmt.Errorf("store not ready to serve: %w", err)
	}

	return serve(ctx, cfg, db)
}

// importFile loads every source contained in one configured file.
func importFile(ctx context.Context, importer *ingest.Importer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open source %s: %w", path, err)
	}
	defer f.Close()

	sources, err := ingest.OpenSource(path, f)
	if err != nil {
		return err
	}
	for _, src := range sources {
		if _, err := importer.Import(ctx, src); err != nil {
			return err
		}
	}
	return nil
}

func serve(ctx context.Context, cfg *config.Config, db *sql.DB) error {
	listener, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.ListenAddr, err)
	}
	if cfg.MaxClients > 0 {
		listener = netutil.LimitListener(listener, cfg.MaxClients)
	}

	server := &http.Server{
		Handler:      api.NewServer(db),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()
	slog.Info("listening", "addr", cfg.ListenAddr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
