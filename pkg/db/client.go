package db

import (
	"context"
	"fmt"
	"io"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/greencart/checkout-client/pkg/config"
	"github.com/greencart/checkout-client/pkg/db/models"
	"github.com/greencart/checkout-client/pkg/logger"
)

// Client wraps the shared GORM connection backing the local artifact ledger.
type Client struct {
	conn *gorm.DB
}

// New opens the sqlite ledger database and migrates its schema.
func New(ctx context.Context, cfg config.LedgerConfig, logg *logger.Logger) (*Client, error) {
	if cfg.SQLitePath == "" {
		return nil, fmt.Errorf("ledger sqlite path is required")
	}

	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening ledger db: %w", err)
	}

	if err := conn.AutoMigrate(&models.ReceiptArtifact{}); err != nil {
		return nil, fmt.Errorf("migrating ledger schema: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "ledger database ready")
	}

	return &Client{conn: conn}, nil
}

// DB returns the underlying GORM connection.
func (c *Client) DB() *gorm.DB {
	return c.conn
}

// WithTx runs fn inside a transaction, committing on nil and rolling back on
// error.
func (c *Client) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return c.conn.WithContext(ctx).Transaction(fn)
}

// Ping verifies the datasource is reachable.
func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close shuts down the pooled connections.
func (c *Client) Close() error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
