package recommend

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"faithfeed/storage/models"
)

const DefaultLimit = 10

// underServedThreshold is the prayer count under which a request gets
// the flat visibility boost.
const underServedThreshold = 5

type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

var priorityRank = map[Priority]int{
	PriorityCritical: 0,
	PriorityHigh:     1,
	PriorityMedium:   2,
	PriorityLow:      3,
}

// MatchResult is an ephemeral scoring output, never persisted.
type MatchResult struct {
	Request    models.PrayerRequest `json:"request"`
	MatchScore int                  `json:"matchScore"`
	Reasons    []string             `json:"reasons"`
	Priority   Priority             `json:"priority"`
}

// Signal point caps.
const (
	sharedExperiencePoints = 40
	ministryMatchPoints    = 30
	currentStrugglePoints  = 25
	locationPoints         = 15
	lifeStagePoints        = 15
	historyAffinityPoints  = 20
)

// Recommend scores every pool entry against the user's context and
// returns up to limit results, critical first, then by score. The pool
// is assumed to be pre-filtered by the caller (e.g. requests the user
// has not yet prayed for).
func Recommend(userCtx UserPrayerContext, pool []models.PrayerRequest, limit int) []MatchResult {
	if limit <= 0 {
		limit = DefaultLimit
	}

	results := make([]MatchResult, 0, len(pool))
	for _, request := range pool {
		results = append(results, scoreRequest(userCtx, request))
	}

	sort.SliceStable(results, func(i, j int) bool {
		if priorityRank[results[i].Priority] != priorityRank[results[j].Priority] {
			return priorityRank[results[i].Priority] < priorityRank[results[j].Priority]
		}
		return results[i].MatchScore > results[j].MatchScore
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

func scoreRequest(userCtx UserPrayerContext, request models.PrayerRequest) MatchResult {
	topics := ExtractTopics(request.Content, request.Category)

	score := 0.0
	reasons := make([]string, 0, 4)

	sharedExperience := false
	if topic, ok := topicsOverlap(topics, userCtx.ExperiencedTopics); ok {
		sharedExperience = true
		score += sharedExperiencePoints
		reasons = append(reasons, fmt.Sprintf("You have walked through %s yourself", topic))
	}

	ministryMatch := false
	if area, ok := ministryOverlap(topics, userCtx.MinistryAreas); ok {
		ministryMatch = true
		score += ministryMatchPoints
		reasons = append(reasons, fmt.Sprintf("Matches your %s ministry", area))
	}

	currentStruggle := false
	if topic, ok := topicsOverlap(topics, userCtx.CurrentStruggles); ok {
		currentStruggle = true
		score += currentStrugglePoints
		reasons = append(reasons, fmt.Sprintf("You are navigating %s right now too", topic))
	}

	if factor, place := locationFactor(userCtx.Location, request.AuthorLocation); factor > 0 {
		score += factor * locationPoints
		reasons = append(reasons, fmt.Sprintf("From someone near you in %s", place))
	}

	if lifeStageMatches(userCtx.Demographic, request.Content) {
		score += lifeStagePoints
		reasons = append(reasons, "Speaks to your season of life")
	}

	category := CategoryOf(request.Content, request.Category)
	if affinity := historyAffinity(userCtx.History, category); affinity > 0 {
		score += affinity * historyAffinityPoints
		reasons = append(reasons, fmt.Sprintf("You often pray for %s requests", category))
	}

	// Post-additive adjustments, in order: urgency multiplier, then the
	// under-served boost.
	urgent := request.IsUrgent || strings.EqualFold(request.Category, "critical")
	if urgent {
		score *= 1.5
		reasons = append([]string{"Urgent request needing immediate prayer"}, reasons...)
	}
	if request.PrayerCount < underServedThreshold {
		score += 10
		reasons = append(reasons, "This request needs more prayer support")
	}

	priority := PriorityLow
	switch {
	case urgent:
		priority = PriorityCritical
	case sharedExperience || ministryMatch:
		priority = PriorityHigh
	case currentStruggle:
		priority = PriorityMedium
	}

	rounded := int(math.Round(score))
	if rounded < 0 {
		rounded = 0
	} else if rounded > 100 {
		rounded = 100
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "Someone in the community is asking for prayer")
	}

	return MatchResult{
		Request:    request,
		MatchScore: rounded,
		Reasons:    reasons,
		Priority:   priority,
	}
}

// topicsOverlap returns the first pair match between the candidate's
// topics and the user's, using containment in either direction.
func topicsOverlap(topics, userTopics []string) (string, bool) {
	for _, topic := range topics {
		lowered := strings.ToLower(topic)
		for _, userTopic := range userTopics {
			if termsMatch(lowered, strings.ToLower(userTopic)) {
				return userTopic, true
			}
		}
	}
	return "", false
}

// ministryOverlap matches candidate topics against the keyword set of
// each category the user serves in. Areas are declared free-form, so
// "mental health" resolves the mental_health keyword set.
func ministryOverlap(topics, ministryAreas []string) (string, bool) {
	for _, area := range ministryAreas {
		loweredArea := strings.ToLower(area)
		keywords := TopicKeywords[strings.ReplaceAll(loweredArea, " ", "_")]
		for _, topic := range topics {
			lowered := strings.ToLower(topic)
			if termsMatch(lowered, loweredArea) {
				return area, true
			}
			for _, keyword := range keywords {
				if termsMatch(lowered, keyword) {
					return area, true
				}
			}
		}
	}
	return "", false
}

// locationFactor: same city 1.0, same state 0.7, same country 0.4.
func locationFactor(user, author *models.Location) (float64, string) {
	if user == nil || author == nil {
		return 0, ""
	}
	switch {
	case user.City != "" && strings.EqualFold(user.City, author.City):
		return 1.0, author.City
	case user.State != "" && strings.EqualFold(user.State, author.State):
		return 0.7, author.State
	case user.Country != "" && strings.EqualFold(user.Country, author.Country):
		return 0.4, author.Country
	}
	return 0, ""
}

func lifeStageMatches(demographic *models.Demographic, content string) bool {
	if demographic == nil || demographic.LifeStage == "" {
		return false
	}
	stage := strings.ToLower(strings.ReplaceAll(demographic.LifeStage, " ", "_"))
	keywords, ok := lifeStageKeywords[stage]
	if !ok {
		return false
	}
	lowered := strings.ToLower(content)
	for _, keyword := range keywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

// historyAffinity weighs the category's share of the user's whole
// history at 0.7 and of their last ten prayers at 0.3.
func historyAffinity(history PrayerHistory, category string) float64 {
	if category == "" || history.TotalPrayers == 0 {
		return 0
	}
	overallShare := float64(history.Categories[category]) / float64(history.TotalPrayers)

	recentShare := 0.0
	if len(history.Recent) > 0 {
		recentCount := 0
		for _, record := range history.Recent {
			if record.Category == category {
				recentCount++
			}
		}
		recentShare = float64(recentCount) / float64(len(history.Recent))
	}

	return 0.7*overallShare + 0.3*recentShare
}
