package recommend

import (
	"time"

	"faithfeed/storage/models"
)

// currentStruggleWindow bounds how far back a user's own requests still
// count as something they are navigating right now.
const currentStruggleWindow = 30 * 24 * time.Hour

// recentPrayerSample is how many of the newest history entries feed the
// recency share of the prayer-history affinity signal.
const recentPrayerSample = 10

// PrayerRecord is one entry of a user's prayer history, newest first.
type PrayerRecord struct {
	Category string
	Date     time.Time
}

type PrayerHistory struct {
	Categories   map[string]int
	TotalPrayers int
	Recent       []PrayerRecord
}

// UserPrayerContext is a transient value object built fresh per
// recommendation call; nothing here is persisted.
type UserPrayerContext struct {
	ExperiencedTopics []string
	CurrentStruggles  []string
	MinistryAreas     []string
	Location          *models.Location
	Demographic       *models.Demographic
	History           PrayerHistory
}

// BuildUserContext derives a prayer context from the user's own request
// history (newest first) and declared profile. Missing profile fields
// simply leave their signals dark.
func BuildUserContext(history []models.PrayerRequest, profile models.PrayerProfile, now time.Time) UserPrayerContext {
	userCtx := UserPrayerContext{
		MinistryAreas: profile.MinistryAreas,
		Location:      profile.Location,
		Demographic:   profile.Demographic,
		History: PrayerHistory{
			Categories: make(map[string]int),
		},
	}

	experienced := make(map[string]bool)
	struggles := make(map[string]bool)
	cutoff := now.Add(-currentStruggleWindow)

	for _, request := range history {
		topics := ExtractTopics(request.Content, request.Category)
		for _, topic := range topics {
			if !experienced[topic] {
				experienced[topic] = true
				userCtx.ExperiencedTopics = append(userCtx.ExperiencedTopics, topic)
			}
			if request.CreatedAt.After(cutoff) && !struggles[topic] {
				struggles[topic] = true
				userCtx.CurrentStruggles = append(userCtx.CurrentStruggles, topic)
			}
		}

		category := CategoryOf(request.Content, request.Category)
		if category != "" {
			userCtx.History.Categories[category]++
		}
		userCtx.History.TotalPrayers++
		if len(userCtx.History.Recent) < recentPrayerSample {
			userCtx.History.Recent = append(userCtx.History.Recent, PrayerRecord{
				Category: category,
				Date:     request.CreatedAt,
			})
		}
	}

	return userCtx
}
