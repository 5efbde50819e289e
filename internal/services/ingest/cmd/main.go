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

	mqtt "github.com/eclipse/paho.mqtt.golang"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Jeraldsarte/lehydrosys-server/internal/cache"
	"github.com/Jeraldsarte/lehydrosys-server/internal/config"
	"github.com/Jeraldsarte/lehydrosys-server/internal/mirror"
	"github.com/Jeraldsarte/lehydrosys-server/internal/model"
	"github.com/Jeraldsarte/lehydrosys-server/internal/notify"
	"github.com/Jeraldsarte/lehydrosys-server/internal/services/ingest"
	"github.com/Jeraldsarte/lehydrosys-server/internal/storage"
	"github.com/Jeraldsarte/lehydrosys-server/pkg/dedup"
	"github.com/Jeraldsarte/lehydrosys-server/pkg/mqttclient"
)

func main() {
	cfg, err := config.Load(os.Getenv("LEHYDRO_CONFIG_DIR"))
	if err != nil {
		log.Fatalf("ingest: config error: %v", err)
	}
	loc := model.Timezone(cfg.TimezoneOffsetHours)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// === Store ===
	store, err := storage.Open(cfg.Postgres.DSN, loc)
	if err != nil {
		log.Fatalf("ingest: store error: %v", err)
	}
	defer store.Close()
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatalf("ingest: schema error: %v", err)
	}

	// === Optional collaborators ===
	var readingCache ingest.Cache
	if cfg.Redis.Enabled {
		rc, err := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.RedisTTL())
		if err != nil {
			log.Printf("ingest: redis disabled: %v", err)
		} else {
			defer rc.Close()
			readingCache = rc
		}
	}

	var mirrorWriter *mirror.Writer
	if cfg.Influx.Enabled {
		influx := influxdb2.NewClient(cfg.Influx.URL, cfg.Influx.Token)
		defer influx.Close()
		mirrorWriter = mirror.NewWriter(influx.WriteAPI(cfg.Influx.Org, cfg.Influx.Bucket))
	}

	var notifier notify.Notifier
	if cfg.FCM.CredentialsFile != "" {
		fcm, err := notify.NewFCM(ctx, cfg.FCM.CredentialsFile)
		if err != nil {
			log.Fatalf("ingest: fcm error: %v", err)
		}
		notifier = notify.WithBreaker(fcm, "fcm")
	} else {
		log.Println("ingest: no FCM credentials configured, alerts will be logged only")
	}

	// === MQTT ===
	client, err := mqttclient.NewConn(ctx, mqttclient.Config{
		Broker:             cfg.MQTT.Broker,
		Port:               cfg.MQTT.Port,
		Username:           cfg.MQTT.Username,
		Password:           cfg.MQTT.Password,
		ClientID:           cfg.MQTT.ClientID,
		TLS:                cfg.MQTT.TLS,
		InsecureSkipVerify: cfg.MQTT.InsecureSkipVerify,
	})
	if err != nil {
		log.Fatalf("ingest: mqtt connection error: %v", err)
	}
	defer mqttclient.Close(client)

	var publisher ingest.Publisher
	if cfg.Republish.Enabled {
		publisher = mqttclient.NewPublisher(client, cfg.Republish.Topic)
	}

	// === Pipeline ===
	var mirrorSink ingest.Mirror
	if mirrorWriter != nil {
		mirrorSink = mirrorWriter
	}
	dispatcher := ingest.NewDispatcher(store, readingCache, mirrorSink)
	evaluator := ingest.NewEvaluator(cfg.RangeTable())
	pipeline := ingest.NewPipeline(dispatcher, evaluator, store, loc, ingest.Options{
		Notifier:  notifier,
		Publisher: publisher,
		Limiter:   ingest.NewRateLimiter(cfg.RepublishInterval()),
	})

	handler := pipeline.Handle
	if cfg.MQTT.Dedup {
		guard := dedup.New(10*time.Minute, 20000)
		next := handler
		handler = func(topic string, m mqtt.Message) error {
			if !guard.ShouldProcess(dedup.Hash(m.Payload())) {
				return nil
			}
			return next(topic, m)
		}
	}

	consumer := mqttclient.NewConsumer(client, cfg.MQTT.Topic, byte(cfg.MQTT.QoS), handler)
	go consumer.Consume(ctx)

	// === HTTP ===
	mux := http.NewServeMux()
	mux.Handle("/healthz", ingest.NewHealthHandler(client, store, mirrorWriter))
	mux.Handle("/readyz", ingest.NewReadyHandler(client, store, mirrorWriter, 2*time.Second))
	mux.Handle("/metrics", promhttp.Handler())

	hs := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.HTTP.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Printf("ingest: HTTP listening on :%d", cfg.HTTP.Port)
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ingest: http server error: %v", err)
		}
	}()

	// === Wait for signal ===
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	log.Println("ingest: shutting down...")

	cancel()

	shCtx, shCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shCancel()
	_ = hs.Shutdown(shCtx)

	// let in-flight notifications finish
	pipeline.Drain()
}
