package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/mesaesabores/orders-api/internal/config"
	"github.com/mesaesabores/orders-api/pkg/logger"
)

// Database represents the embedded local store connection
type Database struct {
	DB     *sqlx.DB
	logger logger.Logger
}

// New opens the SQLite database at the configured path
func New(cfg *config.Config, logger logger.Logger) (*Database, error) {
	dsn := fmt.Sprintf("file:%s?_journal=WAL&_busy_timeout=5000&_fk=1", cfg.DB.Path)
	db, err := sqlx.Connect("sqlite3", dsn)

	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite serializes writers; a single connection avoids busy errors
	db.SetMaxOpenConns(1)

	logger.Info("Opened local store", "path", cfg.DB.Path)

	return &Database{
		DB:     db,
		logger: logger,
	}, nil
}

// Ping checks the database connection
func (d *Database) Ping(ctx context.Context) error {
	return d.DB.PingContext(ctx)
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.DB.Close()
}

// RunMigrations creates the schema if it does not exist
func (d *Database) RunMigrations() error {
	schema := `
	CREATE TABLE IF NOT EXISTS orders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		customer_name TEXT NOT NULL,
		customer_whatsapp TEXT NOT NULL,
		customer_address TEXT NOT NULL,
		payment_method TEXT NOT NULL,
		items TEXT NOT NULL,
		total_price REAL NOT NULL,
		status TEXT NOT NULL DEFAULT 'received',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);
	CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);
	`

	_, err := d.DB.Exec(schema)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.logger.Info("Database migrations completed")
	return nil
}
