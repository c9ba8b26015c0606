// Package ops holds the JSON configuration shared by the platform
// binaries.
package ops

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"main/internal/breaker"
	"main/internal/events"
	"main/internal/quotes"
)

// FileConfig mirrors the JSON config layout.
type FileConfig struct {
	Companies []CompanyConfig `json:"companies"`
	Portfolio PortfolioConfig `json:"portfolio"`
	Endpoints EndpointsConfig `json:"endpoints"`
	Breaker   BreakerConfig   `json:"breaker"`
	Kafka     KafkaConfig     `json:"kafka"`
}

// CompanyConfig describes one listed company.
type CompanyConfig struct {
	Name      string  `json:"name"`
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Variation int     `json:"variation"`
	PeriodMs  int64   `json:"periodMs"`
	Volume    int64   `json:"volume"`
}

// PortfolioConfig tunes the portfolio service.
type PortfolioConfig struct {
	InitialCash       float64 `json:"initialCash"`
	EvaluateTimeoutMs int64   `json:"evaluateTimeoutMs"`
}

// EndpointsConfig holds the service base URLs.
type EndpointsConfig struct {
	Quotes    string `json:"quotes"`
	Portfolio string `json:"portfolio"`
	Audit     string `json:"audit"`
}

// BreakerConfig tunes the dashboard's audit circuit breaker.
type BreakerConfig struct {
	MaxFailures    int   `json:"maxFailures"`
	CallTimeoutMs  int64 `json:"callTimeoutMs"`
	ResetTimeoutMs int64 `json:"resetTimeoutMs"`
}

// KafkaConfig locates the trade event and quote streams.
type KafkaConfig struct {
	Brokers    []string `json:"brokers"`
	Topic      string   `json:"topic"`
	QuoteTopic string   `json:"quoteTopic"`
	GroupID    string   `json:"groupId"`
}

// Loaded is the resolved configuration ready for use.
type Loaded struct {
	Companies       []quotes.Company
	InitialCash     decimal.Decimal
	EvaluateTimeout time.Duration
	Endpoints       EndpointsConfig
	Breaker         breaker.Config
	Kafka           KafkaConfig
}

// Load reads a JSON config file and resolves defaults. An empty path
// yields the all-default configuration.
func Load(path string) (Loaded, error) {
	var cfg FileConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Loaded{}, err
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Loaded{}, err
		}
	}
	companies, err := resolveCompanies(cfg.Companies)
	if err != nil {
		return Loaded{}, err
	}
	return Loaded{
		Companies:       companies,
		InitialCash:     resolveCash(cfg.Portfolio),
		EvaluateTimeout: resolveDuration(cfg.Portfolio.EvaluateTimeoutMs, time.Second),
		Endpoints:       resolveEndpoints(cfg.Endpoints),
		Breaker:         resolveBreaker(cfg.Breaker),
		Kafka:           resolveKafka(cfg.Kafka),
	}, nil
}

// defaultCompanies are the listings used when the config names none.
func defaultCompanies() []CompanyConfig {
	return []CompanyConfig{
		{Name: "Divinator", Symbol: "DVN"},
		{Name: "MacroHard", Symbol: "MCH"},
		{Name: "Black Coat", Symbol: "BCT"},
	}
}

func resolveCompanies(cfgs []CompanyConfig) ([]quotes.Company, error) {
	if len(cfgs) == 0 {
		cfgs = defaultCompanies()
	}
	companies := make([]quotes.Company, 0, len(cfgs))
	for _, c := range cfgs {
		if c.Name == "" {
			return nil, fmt.Errorf("company name is empty")
		}
		if c.Price < 0 || c.Variation < 0 || c.PeriodMs < 0 || c.Volume < 0 {
			return nil, fmt.Errorf("company %s: values must be >= 0", c.Name)
		}
		companies = append(companies, quotes.Company{
			Name:      c.Name,
			Symbol:    c.Symbol,
			Price:     decimal.NewFromFloat(c.Price),
			Variation: c.Variation,
			Period:    time.Duration(c.PeriodMs) * time.Millisecond,
			Volume:    c.Volume,
		})
	}
	return companies, nil
}

func resolveCash(cfg PortfolioConfig) decimal.Decimal {
	if cfg.InitialCash <= 0 {
		return decimal.NewFromInt(10000)
	}
	return decimal.NewFromFloat(cfg.InitialCash)
}

func resolveEndpoints(cfg EndpointsConfig) EndpointsConfig {
	if cfg.Quotes == "" {
		cfg.Quotes = "http://localhost:8081"
	}
	if cfg.Portfolio == "" {
		cfg.Portfolio = "http://localhost:8082"
	}
	if cfg.Audit == "" {
		cfg.Audit = "http://localhost:8083"
	}
	return cfg
}

func resolveBreaker(cfg BreakerConfig) breaker.Config {
	return breaker.Config{
		Name:         "audit",
		MaxFailures:  cfg.MaxFailures,
		CallTimeout:  resolveDuration(cfg.CallTimeoutMs, 0),
		ResetTimeout: resolveDuration(cfg.ResetTimeoutMs, 0),
	}
}

func resolveKafka(cfg KafkaConfig) KafkaConfig {
	if len(cfg.Brokers) == 0 {
		cfg.Brokers = []string{"localhost:9092"}
	}
	if cfg.Topic == "" {
		cfg.Topic = events.DefaultTopic
	}
	if cfg.QuoteTopic == "" {
		cfg.QuoteTopic = events.DefaultQuoteTopic
	}
	if cfg.GroupID == "" {
		cfg.GroupID = "audit-service"
	}
	return cfg
}

func resolveDuration(ms int64, fallback time.Duration) time.Duration {
	if ms <= 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}
