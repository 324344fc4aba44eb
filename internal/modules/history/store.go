// README: Postgres persistence for completed itineraries.
package history

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"expedition/internal/trip"
)

// Entry is one archived plan. PDFs and tokens are deliberately not stored;
// artifacts are single-use and expire on their own schedule.
type Entry struct {
	ID           int64     `json:"id"`
	Location     string    `json:"location"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	Occasion     string    `json:"occasion"`
	BudgetUSD    float64   `json:"budget_usd"`
	Narrative    string    `json:"narrative"`
	FailureCount int       `json:"failure_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store handles itinerary_history persistence.
type Store struct {
	db *pgxpool.Pool
}

// NewStore returns a Store backed by the given connection pool.
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the history table if it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS itinerary_history (
			id            BIGSERIAL PRIMARY KEY,
			location      TEXT NOT NULL,
			start_date    DATE NOT NULL,
			end_date      DATE NOT NULL,
			occasion      TEXT NOT NULL DEFAULT '',
			budget_usd    DOUBLE PRECISION NOT NULL,
			narrative     TEXT NOT NULL DEFAULT '',
			failure_count INT NOT NULL DEFAULT 0,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	return err
}

// Archive records one completed plan. Satisfies the orchestrator's archiver.
func (s *Store) Archive(ctx context.Context, req *trip.Request, narrative string, failures int) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO itinerary_history (location, start_date, end_date, occasion, budget_usd, narrative, failure_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, req.Location, *req.StartDate, *req.EndDate, req.Occasion, *req.Budget, narrative, failures)
	return err
}

// Recent returns the newest entries, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, location, start_date, end_date, occasion, budget_usd, narrative, failure_count, created_at
		FROM itinerary_history
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Location, &e.StartDate, &e.EndDate, &e.Occasion,
			&e.BudgetUSD, &e.Narrative, &e.FailureCount, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
