package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"main/internal/audit"
	"main/internal/chaos"
	"main/internal/events"
	"main/internal/ops"
)

func main() {
	addr := flag.String("addr", ":8083", "HTTP listen address")
	configPath := flag.String("config", "", "Path to JSON config")
	dsn := flag.String("dsn", os.Getenv("AUDIT_DATABASE_DSN"), "Postgres DSN for the audit database")
	drop := flag.Bool("drop", false, "Drop and recreate the audit table on startup")
	chaosFailRate := flag.Float64("chaos-fail-rate", 0, "Fraction of requests to fail")
	chaosMaxDelay := flag.Duration("chaos-max-delay", 0, "Max injected request delay")
	flag.Parse()

	cfg, err := ops.Load(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := audit.Open(ctx, *dsn, *drop)
	if err != nil {
		log.Fatalf("audit store init failed: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("close audit store: %v", err)
		}
	}()

	reader := events.NewKafkaReader(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID)
	defer func() {
		if err := reader.Close(); err != nil {
			log.Printf("close kafka reader: %v", err)
		}
	}()
	go audit.NewConsumer(reader, store).Run(ctx)

	router := gin.New()
	router.Use(gin.Recovery())
	if *chaosFailRate > 0 || *chaosMaxDelay > 0 {
		engine, err := chaos.NewEngine(chaos.Config{
			FailRate: *chaosFailRate,
			MaxDelay: *chaosMaxDelay,
		})
		if err != nil {
			log.Fatalf("chaos init failed: %v", err)
		}
		router.Use(engine.Middleware())
	}
	audit.NewHandler(store).Register(router)

	server := &http.Server{Addr: *addr, Handler: router}
	go func() {
		log.Printf("audit service listening on %s", *addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve failed: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown failed: %v", err)
	}
}
