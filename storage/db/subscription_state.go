package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// GetCursor returns the last processed ingest sequence for a service,
// or 0 when none has been persisted yet.
func (s *Source) GetCursor(ctx context.Context, service string) (int64, error) {
	var cursor int64
	err := s.pool.QueryRow(
		ctx,
		`SELECT cursor FROM subscription_state WHERE service = $1`,
		service,
	).Scan(&cursor)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return cursor, err
}

func (s *Source) UpdateCursor(ctx context.Context, service string, cursor int64) error {
	_, err := s.pool.Exec(
		ctx,
		`INSERT INTO subscription_state (service, cursor) VALUES ($1, $2)
		 ON CONFLICT (service) DO UPDATE SET cursor = EXCLUDED.cursor`,
		service, cursor,
	)
	return err
}
