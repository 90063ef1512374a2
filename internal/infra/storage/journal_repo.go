package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/idlerack/idlerack/internal/domain/ledger"
	"github.com/idlerack/idlerack/internal/journal"
	"github.com/idlerack/idlerack/internal/platform/metrics"
)

// JournalRepository persists dispatcher log entries. Implements
// journal.Persister.
type JournalRepository struct {
	db *sql.DB
}

func NewJournalRepository(db *sql.DB) *JournalRepository {
	return &JournalRepository{db: db}
}

// Append inserts one entry. Duplicate IDs are ignored so a replayed
// write-through goroutine cannot double-log.
func (r *JournalRepository) Append(entry journal.Entry) error {
	effect, err := json.Marshal(entry.Effect)
	if err != nil {
		return fmt.Errorf("failed to marshal effect: %w", err)
	}

	query := `
		INSERT OR IGNORE INTO journal (id, tick, timestamp, severity, code, message, effect)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(query,
		entry.ID, entry.Tick, entry.Timestamp, string(entry.Severity),
		entry.Code, entry.Message, string(effect),
	)
	metrics.Get().RecordJournalWrite(err)
	if err != nil {
		return fmt.Errorf("failed to append journal entry: %w", err)
	}
	return nil
}

// Recent returns the n newest persisted entries, newest last. Used to
// refill the log pane after a restart.
func (r *JournalRepository) Recent(n int) ([]journal.Entry, error) {
	query := `
		SELECT id, tick, timestamp, severity, code, message, effect
		FROM journal ORDER BY tick DESC, timestamp DESC LIMIT ?
	`
	rows, err := r.db.Query(query, n)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	defer rows.Close()

	var entries []journal.Entry
	for rows.Next() {
		var (
			e         journal.Entry
			severity  string
			effectStr string
		)
		if err := rows.Scan(&e.ID, &e.Tick, &e.Timestamp, &severity, &e.Code, &e.Message, &effectStr); err != nil {
			return nil, err
		}
		e.Severity = journal.Severity(severity)
		var effect ledger.Resources
		if err := json.Unmarshal([]byte(effectStr), &effect); err != nil {
			return nil, err
		}
		e.Effect = effect
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse to newest-last.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}
