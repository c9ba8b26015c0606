package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yanun0323/logs"

	"main/internal/breaker"
	"main/internal/dashboard"
	"main/internal/events"
	"main/internal/obs"
	"main/internal/ops"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	configPath := flag.String("config", "", "Path to JSON config")
	flag.Parse()

	cfg, err := ops.Load(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := obs.NewMetrics()
	hub := dashboard.NewHub()
	defer hub.Close()

	// The hub bridges both platform streams to the browsers: trade
	// events and market quotes.
	trades := events.NewKafkaReader(cfg.Kafka.Brokers, cfg.Kafka.Topic, "dashboard")
	quotes := events.NewKafkaReader(cfg.Kafka.Brokers, cfg.Kafka.QuoteTopic, "dashboard")
	defer func() {
		if err := trades.Close(); err != nil {
			log.Printf("close trade reader: %v", err)
		}
		if err := quotes.Close(); err != nil {
			log.Printf("close quote reader: %v", err)
		}
	}()

	feed := make(chan []byte, 64)
	go hub.Pump(ctx, feed)

	var readers sync.WaitGroup
	readers.Add(2)
	go forward(ctx, &readers, trades, feed, "trade event")
	go forward(ctx, &readers, quotes, feed, "quote")
	go func() {
		readers.Wait()
		close(feed)
	}()

	audit := dashboard.NewAuditClient(cfg.Endpoints.Audit)
	guard := breaker.New(cfg.Breaker, metrics)

	router := gin.New()
	router.Use(gin.Recovery())
	dashboard.NewHandler(hub, audit, guard).Register(router)

	server := &http.Server{Addr: *addr, Handler: router}
	go func() {
		log.Printf("dashboard listening on %s", *addr)
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

	snapshot := metrics.Snapshot()
	log.Printf("metrics: breaker_rejects=%d breaker_trips=%d",
		snapshot.BreakerRejects, snapshot.BreakerTrips)
}

// forward drains one stream into the shared hub feed until the context
// is done. A full feed drops the payload rather than stalling the
// sibling stream.
func forward(ctx context.Context, wg *sync.WaitGroup, reader events.StreamReader, feed chan<- []byte, kind string) {
	defer wg.Done()
	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			logs.Errorf("read %s: %v", kind, err)
			continue
		}
		select {
		case feed <- msg.Value:
		default:
			logs.Warnf("drop %s, dashboard feed full", kind)
		}
	}
}
