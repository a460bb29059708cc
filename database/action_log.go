package database

import (
	"database/sql"
	"fmt"
	"sync"

	"forums-bot/models"
)

// ActionLog stores the actions performed by the forum commands.
type ActionLog struct {
	db    *sql.DB
	mutex sync.Mutex
}

// NewActionLog opens the action log at dbPath.
func NewActionLog(dbPath string) (*ActionLog, error) {
	db, err := InitDB(dbPath)
	if err != nil {
		return nil, err
	}
	return &ActionLog{db: db}, nil
}

// Record inserts one action.
func (l *ActionLog) Record(action models.Action) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	query := `INSERT INTO actions (action, guild_id, channel_id, thread_id, user_id, timestamp) VALUES (?, ?, ?, ?, ?, ?)`
	stmt, err := l.db.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement for recording action: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.Exec(action.Action, action.GuildID, action.ChannelID, action.ThreadID, action.UserID, action.Timestamp); err != nil {
		return fmt.Errorf("failed to record %s action for thread %s: %w", action.Action, action.ThreadID, err)
	}
	return nil
}

// Count returns the number of stored actions.
func (l *ActionLog) Count() (int64, error) {
	var n int64
	if err := l.db.QueryRow(`SELECT COUNT(*) FROM actions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count actions: %w", err)
	}
	return n, nil
}

// Close closes the database connection.
func (l *ActionLog) Close() error {
	return l.db.Close()
}
