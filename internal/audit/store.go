// Package audit persists trade events and serves the audit trail.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yanun0323/logs"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"main/internal/flow"
	"main/internal/model"
)

// DefaultLastN is how many operations the audit API returns.
const DefaultLastN = 10

// Operation is one audited trade, stored with the raw event payload so
// the API can return events exactly as published.
type Operation struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index"`
	Action    string    `gorm:"size:8;not null"`
	Company   string    `gorm:"size:64;index;not null"`
	Amount    int64     `gorm:"not null"`
	Owned     int64     `gorm:"not null"`
	Payload   string    `gorm:"type:text;not null"`
}

// TableName keeps the historical table name.
func (Operation) TableName() string { return "audit" }

// Store appends and queries audited operations.
type Store struct {
	db *gorm.DB
}

// Open connects to the database and prepares the audit table. The
// bootstrap is a chain of dependent steps: connect, optionally drop the
// table, migrate the schema. If any step fails the connection is closed
// before returning; the chain's failure is reported unmodified.
func Open(ctx context.Context, dsn string, drop bool) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("audit database dsn is empty")
	}

	var conn *gorm.DB
	connect := func(ctx context.Context, dsn string) (*gorm.DB, error) {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("connect audit database: %w", err)
		}
		conn = db
		return db.WithContext(ctx), nil
	}
	dropTable := func(ctx context.Context, db *gorm.DB) (*gorm.DB, error) {
		if !drop {
			return db, nil
		}
		if err := db.Migrator().DropTable(&Operation{}); err != nil {
			return nil, fmt.Errorf("drop audit table: %w", err)
		}
		return db, nil
	}
	migrate := func(ctx context.Context, db *gorm.DB) (*gorm.DB, error) {
		if err := db.AutoMigrate(&Operation{}); err != nil {
			return nil, fmt.Errorf("migrate audit table: %w", err)
		}
		return db, nil
	}

	db, err := flow.Chain3(ctx, dsn, connect, dropTable, migrate)
	if err != nil {
		// Cleanup runs on the failure path too.
		if conn != nil {
			closeDB(conn)
		}
		return nil, err
	}
	return &Store{db: db}, nil
}

// Append stores one trade event.
func (s *Store) Append(ctx context.Context, event model.TradeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode trade event: %w", err)
	}
	op := Operation{
		Action:  string(event.Action),
		Company: event.Quote.Name,
		Amount:  event.Amount,
		Owned:   event.Owned,
		Payload: string(payload),
	}
	if err := s.db.WithContext(ctx).Create(&op).Error; err != nil {
		return fmt.Errorf("store operation: %w", err)
	}
	return nil
}

// Last returns the n most recent trade events, newest first.
func (s *Store) Last(ctx context.Context, n int) ([]model.TradeEvent, error) {
	if n <= 0 {
		n = DefaultLastN
	}
	var ops []Operation
	err := s.db.WithContext(ctx).
		Order("id DESC").
		Limit(n).
		Find(&ops).Error
	if err != nil {
		return nil, fmt.Errorf("query operations: %w", err)
	}

	events := make([]model.TradeEvent, 0, len(ops))
	for _, op := range ops {
		var event model.TradeEvent
		if err := json.Unmarshal([]byte(op.Payload), &event); err != nil {
			logs.Warnf("skip corrupt operation %d: %v", op.ID, err)
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return closeDB(s.db)
}

func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
