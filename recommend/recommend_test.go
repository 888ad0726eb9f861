package recommend

import (
	"testing"
	"time"

	"faithfeed/storage/models"
)

func TestRecommendWorkedExample(t *testing.T) {
	userCtx := UserPrayerContext{
		ExperiencedTopics: []string{"healing"},
		Location:          &models.Location{City: "Austin"},
	}
	pool := []models.PrayerRequest{
		{
			ID:             1,
			Content:        "praying for healing after surgery",
			AuthorLocation: &models.Location{City: "Austin"},
			PrayerCount:    1,
		},
	}

	results := Recommend(userCtx, pool, 10)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	result := results[0]

	// 40 shared experience + 15 same city + 10 under-served.
	if result.MatchScore < 65 {
		t.Errorf("matchScore = %d, want >= 65", result.MatchScore)
	}
	if result.MatchScore > 100 {
		t.Errorf("matchScore = %d, must be capped at 100", result.MatchScore)
	}
	if result.Priority != PriorityHigh {
		t.Errorf("priority = %s, want high", result.Priority)
	}
	if len(result.Reasons) == 0 {
		t.Error("reasons must not be empty")
	}
}

func TestRecommendUrgentOverride(t *testing.T) {
	tests := []struct {
		name    string
		request models.PrayerRequest
	}{
		{"urgent flag, no signals", models.PrayerRequest{ID: 1, Content: "xyz", IsUrgent: true, PrayerCount: 50}},
		{"critical category", models.PrayerRequest{ID: 2, Content: "xyz", Category: "critical", PrayerCount: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := Recommend(UserPrayerContext{}, []models.PrayerRequest{tt.request}, 10)
			if results[0].Priority != PriorityCritical {
				t.Errorf("priority = %s, want critical regardless of signal sum", results[0].Priority)
			}
			if results[0].Reasons[0] != "Urgent request needing immediate prayer" {
				t.Errorf("urgency reason not prepended: %v", results[0].Reasons)
			}
		})
	}
}

func TestRecommendOrdering(t *testing.T) {
	userCtx := UserPrayerContext{
		ExperiencedTopics: []string{"healing"},
		CurrentStruggles:  []string{"anxiety"},
	}
	pool := []models.PrayerRequest{
		{ID: 1, Content: "nothing relevant here", PrayerCount: 50},
		{ID: 2, Content: "anxiety is crushing me", PrayerCount: 50},
		{ID: 3, Content: "healing after my operation", PrayerCount: 50},
		{ID: 4, Content: "pray for my exams", IsUrgent: true, PrayerCount: 50},
		{ID: 5, Content: "healing and anxiety together", PrayerCount: 50},
	}

	results := Recommend(userCtx, pool, 10)
	if len(results) != len(pool) {
		t.Fatalf("got %d results, want %d", len(results), len(pool))
	}

	for i := 1; i < len(results); i++ {
		prev, cur := results[i-1], results[i]
		if priorityRank[prev.Priority] > priorityRank[cur.Priority] {
			t.Errorf("tier order violated at %d: %s before %s", i, prev.Priority, cur.Priority)
		}
		if prev.Priority == cur.Priority && prev.MatchScore < cur.MatchScore {
			t.Errorf("score order violated within tier at %d: %d < %d", i, prev.MatchScore, cur.MatchScore)
		}
	}

	if results[0].Request.ID != 4 {
		t.Errorf("urgent request should rank first, got id %d", results[0].Request.ID)
	}
	if results[len(results)-1].Request.ID != 1 {
		t.Errorf("no-signal request should rank last, got id %d", results[len(results)-1].Request.ID)
	}
}

func TestRecommendMinistryAreaWithSpaces(t *testing.T) {
	// Free-form area names must resolve the underscored keyword set.
	userCtx := UserPrayerContext{MinistryAreas: []string{"Mental Health"}}
	pool := []models.PrayerRequest{
		{ID: 1, Content: "crippling anxiety every morning", PrayerCount: 50},
	}

	results := Recommend(userCtx, pool, 10)
	if results[0].MatchScore != ministryMatchPoints {
		t.Errorf("matchScore = %d, want %d from ministry alignment", results[0].MatchScore, ministryMatchPoints)
	}
	if results[0].Priority != PriorityHigh {
		t.Errorf("priority = %s, want high", results[0].Priority)
	}
}

func TestRecommendUnderServedBoost(t *testing.T) {
	userCtx := UserPrayerContext{ExperiencedTopics: []string{"healing"}}
	pool := []models.PrayerRequest{
		{ID: 1, Content: "healing needed", PrayerCount: 1},
		{ID: 2, Content: "healing needed", PrayerCount: 50},
	}

	results := Recommend(userCtx, pool, 10)
	var boosted, regular MatchResult
	for _, result := range results {
		if result.Request.ID == 1 {
			boosted = result
		} else {
			regular = result
		}
	}
	if boosted.MatchScore-regular.MatchScore != 10 {
		t.Errorf("under-served boost = %d, want 10", boosted.MatchScore-regular.MatchScore)
	}
	found := false
	for _, reason := range boosted.Reasons {
		if reason == "This request needs more prayer support" {
			found = true
		}
	}
	if !found {
		t.Errorf("missing needs-more-support reason: %v", boosted.Reasons)
	}
}

func TestRecommendDefaultReason(t *testing.T) {
	results := Recommend(UserPrayerContext{}, []models.PrayerRequest{
		{ID: 1, Content: "xyz", PrayerCount: 50},
	}, 10)

	if len(results[0].Reasons) != 1 {
		t.Fatalf("want exactly one generic reason, got %v", results[0].Reasons)
	}
	if results[0].Priority != PriorityLow {
		t.Errorf("priority = %s, want low with no signals", results[0].Priority)
	}
}

func TestRecommendLimit(t *testing.T) {
	pool := make([]models.PrayerRequest, 15)
	for i := range pool {
		pool[i] = models.PrayerRequest{ID: int64(i + 1), Content: "pray"}
	}

	if got := len(Recommend(UserPrayerContext{}, pool, 0)); got != DefaultLimit {
		t.Errorf("default limit: got %d, want %d", got, DefaultLimit)
	}
	if got := len(Recommend(UserPrayerContext{}, pool, 3)); got != 3 {
		t.Errorf("explicit limit: got %d, want 3", got)
	}
	if got := len(Recommend(UserPrayerContext{}, nil, 5)); got != 0 {
		t.Errorf("nil pool: got %d results, want 0", got)
	}
}

func TestRecommendScoreClamp(t *testing.T) {
	userCtx := UserPrayerContext{
		ExperiencedTopics: []string{"healing", "anxiety"},
		CurrentStruggles:  []string{"healing"},
		MinistryAreas:     []string{"health"},
		Location:          &models.Location{City: "Austin"},
		Demographic:       &models.Demographic{LifeStage: "married"},
		History: PrayerHistory{
			Categories:   map[string]int{"health": 10},
			TotalPrayers: 10,
			Recent: []PrayerRecord{
				{Category: "health", Date: time.Now()},
			},
		},
	}
	pool := []models.PrayerRequest{
		{
			ID:             1,
			Content:        "urgent healing for my wife, anxiety and surgery recovery",
			IsUrgent:       true,
			PrayerCount:    0,
			AuthorLocation: &models.Location{City: "Austin"},
		},
	}

	results := Recommend(userCtx, pool, 10)
	if results[0].MatchScore != 100 {
		t.Errorf("every signal plus urgency must clamp at 100, got %d", results[0].MatchScore)
	}
	if results[0].Priority != PriorityCritical {
		t.Errorf("priority = %s, want critical", results[0].Priority)
	}
}

func TestBuildUserContext(t *testing.T) {
	now := time.Now()
	history := []models.PrayerRequest{
		{Content: "anxiety about my job interview", CreatedAt: now.Add(-24 * time.Hour)},
		{Content: "healing from surgery", Category: "health", CreatedAt: now.Add(-60 * 24 * time.Hour)},
	}
	profile := models.PrayerProfile{
		MinistryAreas: []string{"health"},
		Location:      &models.Location{City: "Austin", Country: "US"},
	}

	userCtx := BuildUserContext(history, profile, now)

	if !containsTopic(userCtx.ExperiencedTopics, "healing") {
		t.Errorf("experienced topics missing healing: %v", userCtx.ExperiencedTopics)
	}
	if !containsTopic(userCtx.CurrentStruggles, "anxiety") {
		t.Errorf("current struggles missing anxiety: %v", userCtx.CurrentStruggles)
	}
	if containsTopic(userCtx.CurrentStruggles, "healing") {
		t.Errorf("sixty-day-old topic counted as current struggle: %v", userCtx.CurrentStruggles)
	}
	if userCtx.History.TotalPrayers != 2 {
		t.Errorf("totalPrayers = %d, want 2", userCtx.History.TotalPrayers)
	}
	if userCtx.History.Categories["health"] != 1 {
		t.Errorf("health category count = %d, want 1", userCtx.History.Categories["health"])
	}
	if userCtx.Location == nil || userCtx.Location.City != "Austin" {
		t.Error("profile location not carried into context")
	}
}

func containsTopic(topics []string, want string) bool {
	for _, topic := range topics {
		if topic == want {
			return true
		}
	}
	return false
}
