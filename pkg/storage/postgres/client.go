// Package postgres provides a PostgreSQL implementation of the memory store.
//
// Embedding vectors are stored as JSONB arrays. The identifier column is the
// primary key, so a digest collision surfaces as a unique violation instead
// of an overwrite.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/evotext/evotext-go/pkg/storage"
)

// uniqueViolation is the PostgreSQL error code for unique constraint failures.
const uniqueViolation = "23505"

// Client implements storage.MemoryStore using PostgreSQL.
type Client struct {
	db        *sql.DB
	tableName string
}

// Config contains PostgreSQL configuration.
type Config struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	TableName string
	SSLMode   string
}

// NewClient creates a new PostgreSQL memory store client.
func NewClient(cfg *Config) (*Client, error) {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	tableName := cfg.TableName
	if tableName == "" {
		tableName = "interactions"
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, sslMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("NewPostgresClient: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("NewPostgresClient: %w", err)
	}

	client := &Client{
		db:        db,
		tableName: tableName,
	}

	if err := client.initTables(context.Background()); err != nil {
		return nil, err
	}

	return client, nil
}

// initTables initializes the database table.
func (c *Client) initTables(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			seq BIGSERIAL,
			id TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			embedding JSONB NOT NULL,
			response TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)
	`, c.tableName)

	_, err := c.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("initTables: create table: %w", err)
	}

	return nil
}

// Store inserts a record keyed by its content-derived identifier.
func (c *Client) Store(ctx context.Context, content string, embedding []float64, response string) (string, error) {
	now := time.Now().UTC()
	id := storage.RecordID(content, response, now)

	embeddingJSON, err := json.Marshal(embedding)
	if err != nil {
		return "", fmt.Errorf("Store: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, content, embedding, response, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, c.tableName)

	_, err = c.db.ExecContext(ctx, query,
		id,
		content,
		string(embeddingJSON),
		response,
		now,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return "", fmt.Errorf("Store: id %s: %w", id, storage.ErrConsistency)
		}
		return "", fmt.Errorf("Store: %w", err)
	}

	return id, nil
}

// RetrieveAll returns every stored record in insertion order.
func (c *Client) RetrieveAll(ctx context.Context) ([]*storage.Record, error) {
	query := fmt.Sprintf(`
		SELECT id, content, embedding, response, created_at
		FROM %s
		ORDER BY seq
	`, c.tableName)

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("RetrieveAll: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []*storage.Record
	for rows.Next() {
		var record storage.Record
		var embeddingStr string

		if err := rows.Scan(
			&record.ID,
			&record.Content,
			&embeddingStr,
			&record.Response,
			&record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("RetrieveAll: %w", err)
		}

		if err := json.Unmarshal([]byte(embeddingStr), &record.Embedding); err != nil {
			return nil, fmt.Errorf("RetrieveAll: parse embedding: %w", err)
		}

		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("RetrieveAll: %w", err)
	}

	return records, nil
}

// Count returns the number of stored records.
func (c *Client) Count(ctx context.Context) (int, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", c.tableName)

	var count int
	if err := c.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}

	return count, nil
}

// Close closes the database connection.
func (c *Client) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
