package models

import "time"

type Location struct {
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
}

type Demographic struct {
	AgeRange     string `json:"ageRange,omitempty"`
	LifeStage    string `json:"lifeStage,omitempty"`
	FamilyStatus string `json:"familyStatus,omitempty"`
}

// PrayerRequest is mutated only through its prayer counter; requests
// are never deleted from this service's point of view.
type PrayerRequest struct {
	ID             int64     `json:"id"`
	AuthorID       int64     `json:"authorId"`
	Content        string    `json:"content"`
	Category       string    `json:"category,omitempty"`
	IsUrgent       bool      `json:"isUrgent"`
	PrayerCount    int64     `json:"prayerCount"`
	AuthorLocation *Location `json:"authorLocation,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// PrayerProfile holds the declared (non-derived) part of a user's
// prayer context: ministry areas, location and demographic.
type PrayerProfile struct {
	UserID        int64
	MinistryAreas []string
	Location      *Location
	Demographic   *Demographic
}
