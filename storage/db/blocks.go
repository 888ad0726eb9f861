package db

import "context"

// GetBlockedIDs returns the ids of every author the viewer has blocked.
func (s *Source) GetBlockedIDs(ctx context.Context, viewerID int64) ([]int64, error) {
	rows, err := s.pool.Query(
		ctx,
		`SELECT blocked_id FROM blocks WHERE blocker_id = $1`,
		viewerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
