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

	"main/internal/bus"
	"main/internal/chaos"
	"main/internal/events"
	"main/internal/model"
	"main/internal/ops"
	"main/internal/quotes"
)

func main() {
	addr := flag.String("addr", ":8081", "HTTP listen address")
	configPath := flag.String("config", "", "Path to JSON config")
	seed := flag.Int64("seed", 0, "Market data seed (0=time-based)")
	useKafka := flag.Bool("kafka", false, "Publish quote ticks to Kafka")
	chaosFailRate := flag.Float64("chaos-fail-rate", 0, "Fraction of requests to fail")
	chaosMaxDelay := flag.Duration("chaos-max-delay", 0, "Max injected request delay")
	flag.Parse()

	cfg, err := ops.Load(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	markets := make([]*quotes.MarketData, 0, len(cfg.Companies))
	for _, company := range cfg.Companies {
		market, err := quotes.NewMarketData(company, *seed)
		if err != nil {
			log.Fatalf("market init failed: %v", err)
		}
		markets = append(markets, market)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	queue := bus.NewQueue[model.Quote](1024)
	api := quotes.NewAPI()

	// Every tick updates the REST API and, when a broker is configured,
	// feeds the quote stream the dashboard follows.
	observe := api.Observe
	if *useKafka {
		publisher, err := events.NewKafkaQuotePublisher(cfg.Kafka.Brokers, cfg.Kafka.QuoteTopic)
		if err != nil {
			log.Fatalf("quote publisher init failed: %v", err)
		}
		defer func() {
			if err := publisher.Close(); err != nil {
				log.Printf("close quote publisher: %v", err)
			}
		}()
		observe = func(quote model.Quote) {
			api.Observe(quote)
			publisher.Publish(quote)
		}
	}

	go quotes.NewEmitter(markets, queue).Run(ctx)
	go queue.Run(ctx, observe)

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
	api.Register(router)

	server := &http.Server{Addr: *addr, Handler: router}
	go func() {
		log.Printf("quote generator listening on %s", *addr)
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
	queue.Close()
}
