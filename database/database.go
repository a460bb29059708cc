package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // Import the SQLite3 driver
)

// InitDB opens the sqlite database at dbPath, creating the file and its
// directory when needed, and ensures the schema exists.
func InitDB(dbPath string) (*sql.DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := createActionsTable(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create actions table: %w", err)
	}

	log.Println("Successfully connected to the database at", dbPath)
	return db, nil
}

func createActionsTable(db *sql.DB) error {
	query := `
    CREATE TABLE IF NOT EXISTS actions (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        action TEXT NOT NULL,
        guild_id TEXT,
        channel_id TEXT,
        thread_id TEXT,
        user_id TEXT,
        timestamp INTEGER NOT NULL
    );`
	if _, err := db.Exec(query); err != nil {
		return err
	}

	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_actions_timestamp ON actions(timestamp);`); err != nil {
		log.Printf("Warning: failed to create index: %v", err)
	}
	return nil
}
