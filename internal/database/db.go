package database

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/jgoulah/gridreport/pkg/models"
	_ "modernc.org/sqlite"
)

// timestampLayout is how gridscraper stores start_time and end_time
const timestampLayout = "2006-01-02 15:04:05"

// DB wraps the database connection
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

// OpenReadOnly opens an existing database without creating or migrating it
func OpenReadOnly(dbPath string) (*DB, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", dbPath))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the usage table in the layout gridscraper writes
func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS usage_data (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		start_time TEXT,
		end_time TEXT,
		kwh REAL NOT NULL,
		service TEXT NOT NULL,
		created_at TEXT NOT NULL,
		published INTEGER DEFAULT 0,
		UNIQUE(start_time, service)
	);
	CREATE INDEX IF NOT EXISTS idx_usage_service ON usage_data(service);
	CREATE INDEX IF NOT EXISTS idx_usage_start_time ON usage_data(start_time);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// InsertUsage inserts a usage record, ignoring duplicates
func (db *DB) InsertUsage(data *models.UsageData) error {
	query := `
	INSERT OR IGNORE INTO usage_data (date, start_time, end_time, kwh, service, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	start := data.StartTime.UTC()
	var endTimeStr string
	if !data.EndTime.IsZero() {
		endTimeStr = data.EndTime.UTC().Format(timestampLayout)
	}
	createdAt := time.Now().UTC().Format(time.RFC3339)

	_, err := db.conn.Exec(query, start.Format("2006-01-02"), start.Format(timestampLayout), endTimeStr, data.Value, data.Service, createdAt)
	if err != nil {
		return fmt.Errorf("inserting usage data: %w", err)
	}

	return nil
}

// ListUsage retrieves all interval rows for a service, oldest first.
// Rows without a start_time (daily-only records) are skipped.
func (db *DB) ListUsage(service string) ([]models.UsageData, error) {
	query := `
	SELECT id, start_time, end_time, kwh, service
	FROM usage_data
	WHERE service = ? AND start_time IS NOT NULL AND start_time != ''
	ORDER BY start_time ASC
	`

	rows, err := db.conn.Query(query, service)
	if err != nil {
		return nil, fmt.Errorf("querying usage data: %w", err)
	}
	defer rows.Close()

	var results []models.UsageData
	for rows.Next() {
		var data models.UsageData
		var startTimeStr string
		var endTimeStr sql.NullString

		if err := rows.Scan(&data.ID, &startTimeStr, &endTimeStr, &data.Value, &data.Service); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		data.StartTime, err = time.Parse(timestampLayout, startTimeStr)
		if err != nil {
			return nil, fmt.Errorf("parsing start_time: %w", err)
		}

		if endTimeStr.Valid && endTimeStr.String != "" {
			data.EndTime, err = time.Parse(timestampLayout, endTimeStr.String)
			if err != nil {
				return nil, fmt.Errorf("parsing end_time: %w", err)
			}
		}

		results = append(results, data)
	}

	return results, rows.Err()
}
