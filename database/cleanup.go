package database

import (
	"fmt"
	"log"
	"time"
)

// CleanupOldActions deletes actions older than retentionDays, measured from now.
func (l *ActionLog) CleanupOldActions(now time.Time, retentionDays int) (int64, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	cutoff := now.AddDate(0, 0, -retentionDays).Unix()

	stmt, err := l.db.Prepare(`DELETE FROM actions WHERE timestamp < ?`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare delete statement: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.Exec(cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old actions: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	log.Printf("Cleaned up %d actions older than %d days", rowsAffected, retentionDays)
	return rowsAffected, nil
}
