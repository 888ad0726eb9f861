package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"faithfeed/storage/models"
)

// GetOpenPrayerRequests returns the current prayer-request pool,
// newest first.
func (s *Source) GetOpenPrayerRequests(ctx context.Context) ([]models.PrayerRequest, error) {
	rows, err := s.pool.Query(
		ctx,
		`SELECT id, author_id, content, category, is_urgent, prayer_count, city, state, country, created_at
		 FROM prayer_requests
		 WHERE deleted_at IS NULL
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPrayerRequests(rows)
}

// GetUserPrayerHistory returns the user's own requests, newest first.
func (s *Source) GetUserPrayerHistory(ctx context.Context, userID int64) ([]models.PrayerRequest, error) {
	rows, err := s.pool.Query(
		ctx,
		`SELECT id, author_id, content, category, is_urgent, prayer_count, city, state, country, created_at
		 FROM prayer_requests
		 WHERE author_id = $1 AND deleted_at IS NULL
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPrayerRequests(rows)
}

// GetPrayerProfile returns the user's declared ministry areas, location
// and demographic. A missing row is not an error: recommendations just
// lose those signals.
func (s *Source) GetPrayerProfile(ctx context.Context, userID int64) (models.PrayerProfile, error) {
	profile := models.PrayerProfile{UserID: userID}

	var ministryAreas []string
	var city, state, country, ageRange, lifeStage, familyStatus pgtype.Text
	err := s.pool.QueryRow(
		ctx,
		`SELECT ministry_areas, city, state, country, age_range, life_stage, family_status
		 FROM prayer_profiles
		 WHERE user_id = $1`,
		userID,
	).Scan(&ministryAreas, &city, &state, &country, &ageRange, &lifeStage, &familyStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profile, nil
		}
		return profile, err
	}

	profile.MinistryAreas = ministryAreas
	profile.Location = buildLocation(city.String, state.String, country.String)
	if ageRange.String != "" || lifeStage.String != "" || familyStatus.String != "" {
		profile.Demographic = &models.Demographic{
			AgeRange:     ageRange.String,
			LifeStage:    lifeStage.String,
			FamilyStatus: familyStatus.String,
		}
	}
	return profile, nil
}

func scanPrayerRequests(rows pgx.Rows) ([]models.PrayerRequest, error) {
	requests := make([]models.PrayerRequest, 0)
	for rows.Next() {
		var request models.PrayerRequest
		var category, city, state, country pgtype.Text
		var createdAt pgtype.Timestamp
		err := rows.Scan(
			&request.ID,
			&request.AuthorID,
			&request.Content,
			&category,
			&request.IsUrgent,
			&request.PrayerCount,
			&city,
			&state,
			&country,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}
		request.Category = category.String
		request.CreatedAt = createdAt.Time
		request.AuthorLocation = buildLocation(city.String, state.String, country.String)
		requests = append(requests, request)
	}
	return requests, rows.Err()
}

func buildLocation(city, state, country string) *models.Location {
	if city == "" && state == "" && country == "" {
		return nil
	}
	return &models.Location{City: city, State: state, Country: country}
}
