// Package mysql provides a MySQL implementation of the memory store.
//
// It also works against MySQL-compatible databases such as OceanBase.
// Embedding vectors are stored as JSON; the identifier column carries a
// unique key, so a digest collision surfaces as a duplicate-entry error
// instead of an overwrite.
package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/evotext/evotext-go/pkg/storage"
)

// dupEntry is the MySQL error number for duplicate key violations.
const dupEntry = 1062

// Client implements storage.MemoryStore using MySQL.
type Client struct {
	db        *sql.DB
	tableName string
}

// Config contains MySQL configuration.
type Config struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	TableName string
}

// NewClient creates a new MySQL memory store client.
func NewClient(cfg *Config) (*Client, error) {
	tableName := cfg.TableName
	if tableName == "" {
		tableName = "interactions"
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("NewMySQLClient: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("NewMySQLClient: %w", err)
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
			seq BIGINT AUTO_INCREMENT PRIMARY KEY,
			id VARCHAR(64) NOT NULL,
			content LONGTEXT NOT NULL,
			embedding JSON NOT NULL,
			response LONGTEXT NOT NULL,
			created_at DATETIME(6) NOT NULL,
			UNIQUE KEY uniq_id (id)
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
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == dupEntry {
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
