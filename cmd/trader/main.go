package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/yanun0323/logs"

	"main/internal/ops"
	"main/internal/pricing"
	"main/internal/trader"
)

func main() {
	configPath := flag.String("config", "", "Path to JSON config")
	count := flag.Int("traders", 2, "Number of compulsive traders")
	interval := flag.Duration("interval", 3*time.Second, "Quote polling interval")
	timeout := flag.Duration("timeout", 5*time.Second, "HTTP request timeout")
	flag.Parse()

	if *count <= 0 {
		log.Fatalf("traders must be > 0")
	}

	cfg, err := ops.Load(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	quotes, err := pricing.NewClient(cfg.Endpoints.Quotes, *timeout)
	if err != nil {
		log.Fatalf("pricing client init failed: %v", err)
	}
	portfolio, err := trader.NewHTTPPortfolioClient(cfg.Endpoints.Portfolio, *timeout)
	if err != nil {
		log.Fatalf("portfolio client init failed: %v", err)
	}

	names := make([]string, 0, len(cfg.Companies))
	for _, company := range cfg.Companies {
		names = append(names, company.Name)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	for i := 0; i < *count; i++ {
		company := trader.PickCompany(names, 0)
		t := trader.New(company, portfolio, 0)
		logs.Infof("trader %d obsessed with %s", i, company)

		wg.Add(1)
		go func() {
			defer wg.Done()
			run(ctx, t, quotes, *interval)
		}()
	}
	wg.Wait()
}

// run polls the latest quote for the trader's company and lets the
// trader react to it.
func run(ctx context.Context, t *trader.Trader, quotes *pricing.Client, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			quote, err := quotes.Quote(ctx, t.Company())
			if err != nil {
				logs.Warnf("fetch quote for %s: %v", t.Company(), err)
				continue
			}
			t.OnQuote(ctx, quote)
		}
	}
}
