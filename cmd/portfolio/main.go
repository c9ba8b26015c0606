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
	pyroscope "github.com/grafana/pyroscope-go"

	"main/internal/events"
	"main/internal/ledger"
	"main/internal/obs"
	"main/internal/ops"
	"main/internal/portfolio"
	"main/internal/pricing"
	"main/internal/valuation"
)

func main() {
	addr := flag.String("addr", ":8082", "HTTP listen address")
	configPath := flag.String("config", "", "Path to JSON config")
	useKafka := flag.Bool("kafka", false, "Publish trade events to Kafka")
	profileAddr := flag.String("pyroscope", "", "Pyroscope server address (empty=disabled)")
	flag.Parse()

	cfg, err := ops.Load(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if *profileAddr != "" {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: "portfolio-service",
			ServerAddress:   *profileAddr,
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocObjects,
				pyroscope.ProfileAllocSpace,
				pyroscope.ProfileInuseObjects,
				pyroscope.ProfileInuseSpace,
			},
		})
		if err != nil {
			log.Fatalf("pyroscope start failed: %v", err)
		}
		defer func() {
			_ = profiler.Stop()
		}()
	}

	metrics := obs.NewMetrics()
	publisher, closePublisher, err := buildPublisher(*useKafka, cfg.Kafka, metrics)
	if err != nil {
		log.Fatalf("publisher init failed: %v", err)
	}
	defer closePublisher()

	book := ledger.New(cfg.InitialCash, publisher, metrics)

	prices, err := pricing.NewClient(cfg.Endpoints.Quotes, cfg.EvaluateTimeout)
	if err != nil {
		log.Fatalf("pricing client init failed: %v", err)
	}
	engine := valuation.NewEngine(book, prices, cfg.EvaluateTimeout, metrics)

	router := gin.New()
	router.Use(gin.Recovery())
	portfolio.NewHandler(book, engine).Register(router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &http.Server{Addr: *addr, Handler: router}
	go func() {
		log.Printf("portfolio service listening on %s", *addr)
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
	log.Printf("metrics: trades=%d trade_failures=%d lookup_failures=%d event_drops=%d",
		snapshot.Trades, snapshot.TradeFailures, snapshot.LookupFailures, snapshot.EventDrops)
}

func buildPublisher(useKafka bool, cfg ops.KafkaConfig, metrics *obs.Metrics) (events.Publisher, func(), error) {
	if !useKafka {
		return events.LogPublisher{}, func() {}, nil
	}
	publisher, err := events.NewKafkaPublisher(cfg.Brokers, cfg.Topic, metrics)
	if err != nil {
		return nil, nil, err
	}
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			log.Printf("close kafka publisher: %v", err)
		}
	}, nil
}
