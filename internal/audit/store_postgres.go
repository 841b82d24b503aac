package audit

import (
	"context"
	"database/sql"
	"fmt"
)

// Postgres persists the audit trail in the audit_events table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Append(ctx context.Context, event Event) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_events (occurred_at, action, person_id, detail)
		 VALUES ($1, $2, $3, $4)`,
		event.Timestamp, event.Action, event.PersonID, event.Detail,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *Postgres) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, occurred_at, action, person_id, detail
		 FROM audit_events
		 ORDER BY id DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			e        Event
			personID sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Action, &personID, &e.Detail); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		if personID.Valid {
			id := personID.Int64
			e.PersonID = &id
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
