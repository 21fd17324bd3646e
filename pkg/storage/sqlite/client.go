// Package sqlite provides a SQLite implementation of the memory store.
//
// SQLite is a lightweight, file-based database suitable for local development
// and small deployments. Embedding vectors are stored as JSON strings in TEXT
// fields; the identifier column is the primary key, so a digest collision
// surfaces as a constraint violation instead of an overwrite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/evotext/evotext-go/pkg/storage"
)

// Client implements storage.MemoryStore using SQLite as the backend.
type Client struct {
	// db is the SQLite database connection.
	db *sql.DB

	// tableName is the name of the table storing records.
	tableName string
}

// Config contains configuration for creating a SQLite memory store.
type Config struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// TableName is the name of the table to use (default: "interactions").
	TableName string
}

// NewClient creates a new SQLite memory store client.
//
// Parameters:
//   - cfg: Configuration containing the database path and table name
//
// Returns:
//   - *Client: The SQLite client instance
//   - error: Error if database connection or table creation fails
func NewClient(cfg *Config) (*Client, error) {
	tableName := cfg.TableName
	if tableName == "" {
		tableName = "interactions"
	}

	// Create parent directory if it doesn't exist
	dbDir := filepath.Dir(cfg.DBPath)
	if dbDir != "" && dbDir != "." {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("NewSQLiteClient: failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_foreign_keys=1&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("NewSQLiteClient: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("NewSQLiteClient: %w", err)
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

// initTables initializes the database table structure.
//
// The seq column records insertion order for RetrieveAll.
func (c *Client) initTables(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			content TEXT NOT NULL,
			embedding TEXT NOT NULL,
			response TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)
	`, c.tableName)

	_, err := c.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("initTables: %w", err)
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
		VALUES (?, ?, ?, ?, ?)
	`, c.tableName)

	_, err = c.db.ExecContext(ctx, query,
		id,
		content,
		string(embeddingJSON),
		response,
		now,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
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
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("RetrieveAll: %w", err)
		}
		records = append(records, record)
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

// scanRecord scans a record from a database row.
func scanRecord(rows *sql.Rows) (*storage.Record, error) {
	var record storage.Record
	var embeddingStr string

	if err := rows.Scan(
		&record.ID,
		&record.Content,
		&embeddingStr,
		&record.Response,
		&record.CreatedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(embeddingStr), &record.Embedding); err != nil {
		return nil, fmt.Errorf("parse embedding: %w", err)
	}

	return &record, nil
}
