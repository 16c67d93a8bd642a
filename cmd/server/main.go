package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/Klee319/MCBuilding-sub001/internal/building"
	"github.com/Klee319/MCBuilding-sub001/internal/config"
	"github.com/Klee319/MCBuilding-sub001/internal/storage"
	"github.com/Klee319/MCBuilding-sub001/internal/storage/memstore"
	"github.com/Klee319/MCBuilding-sub001/internal/storage/structdb"
	"github.com/Klee319/MCBuilding-sub001/internal/transport/httpapi"
	"github.com/Klee319/MCBuilding-sub001/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", "", "http listen address (overrides config)")
		configPath = flag.String("config", "", "path to server.yaml (optional)")
		dataDir    = flag.String("data", "", "runtime data directory (overrides config)")
		disableDB  = flag.Bool("disable_db", false, "keep structures in memory only")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if strings.TrimSpace(*addr) != "" {
		cfg.Addr = *addr
	}
	if strings.TrimSpace(*dataDir) != "" {
		cfg.DataDir = *dataDir
	}
	if *disableDB {
		cfg.DisableDB = true
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatalf("open store: %v", err)
	}
	defer store.Close()

	svc, err := building.New(store, building.Options{
		CacheSize: cfg.CacheSize,
		MaxBlocks: cfg.MaxBlocks,
		QueueSize: cfg.WSQueue,
	})
	if err != nil {
		logger.Fatalf("build service: %v", err)
	}

	mux := http.NewServeMux()
	api := httpapi.NewServer(svc, logger, cfg.MaxUploadBytes)
	api.Register(mux)
	mux.Handle("/v1/feed", ws.NewServer(svc, logger).Handler())
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Printf("listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("serve: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("shutdown: %v", err)
	}
}

func openStore(cfg config.Config, logger *log.Logger) (storage.Store, error) {
	if cfg.DisableDB {
		logger.Printf("persistence disabled; structures are memory-only")
		return memstore.New(), nil
	}
	path := cfg.DBPath
	if strings.TrimSpace(path) == "" {
		path = filepath.Join(cfg.DataDir, "structures.db")
	}
	return structdb.Open(path)
}
