package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Jeraldsarte/lehydrosys-server/internal/cache"
	"github.com/Jeraldsarte/lehydrosys-server/internal/config"
	"github.com/Jeraldsarte/lehydrosys-server/internal/model"
	"github.com/Jeraldsarte/lehydrosys-server/internal/services/api"
	"github.com/Jeraldsarte/lehydrosys-server/internal/storage"
)

func main() {
	cfg, err := config.Load(os.Getenv("LEHYDRO_CONFIG_DIR"))
	if err != nil {
		log.Fatalf("api: config error: %v", err)
	}
	loc := model.Timezone(cfg.TimezoneOffsetHours)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := storage.Open(cfg.Postgres.DSN, loc)
	if err != nil {
		log.Fatalf("api: store error: %v", err)
	}
	defer store.Close()
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatalf("api: schema error: %v", err)
	}

	var readingCache api.Cache
	if cfg.Redis.Enabled {
		rc, err := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.RedisTTL())
		if err != nil {
			log.Printf("api: redis disabled: %v", err)
		} else {
			defer rc.Close()
			readingCache = rc
		}
	}

	server := api.NewServer(store, readingCache, loc)
	mux := server.Routes()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	hs := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.HTTP.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Printf("api: HTTP listening on :%d", cfg.HTTP.Port)
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("api: http server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	log.Println("api: shutting down...")

	shCtx, shCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shCancel()
	_ = hs.Shutdown(shCtx)
}
