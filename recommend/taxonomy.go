package recommend

import (
	"sort"
	"strings"
)

// TopicKeywords is the fixed topic taxonomy. New categories are
// additive: extraction and scoring iterate the map, nothing branches on
// specific category names.
var TopicKeywords = map[string][]string{
	"health": {
		"sick", "surgery", "healing", "cancer", "hospital", "pain",
		"illness", "diagnosis", "recovery", "disease", "doctor",
	},
	"family": {
		"family", "marriage", "husband", "wife", "children", "son",
		"daughter", "parent", "divorce", "pregnancy", "adoption",
	},
	"work": {
		"job", "work", "career", "unemployed", "unemployment", "boss",
		"interview", "business", "finances", "debt", "provision",
	},
	"spiritual": {
		"faith", "doubt", "salvation", "baptism", "spiritual", "bible",
		"church", "worship", "prayer life", "backslidden",
	},
	"mental_health": {
		"anxiety", "depression", "stress", "lonely", "loneliness",
		"grief", "fear", "worry", "panic", "mental health", "suicidal",
	},
	"addiction": {
		"addiction", "addicted", "alcohol", "sober", "sobriety",
		"substance", "gambling", "pornography", "relapse",
	},
	"education": {
		"school", "exam", "student", "study", "college", "university",
		"teacher", "grades", "graduation",
	},
	"missions": {
		"mission", "missionary", "outreach", "evangelism", "unreached",
		"mission field", "church plant",
	},
	"persecution": {
		"persecution", "persecuted", "imprisoned", "oppression",
		"underground church",
	},
	"community": {
		"neighbor", "community", "friend", "friendship", "belonging",
		"small group", "congregation",
	},
}

// lifeStageKeywords maps a declared life stage to content keywords that
// make a request relevant to it.
var lifeStageKeywords = map[string][]string{
	"parenting":   {"parenting", "toddler", "newborn", "raising kids", "my children", "my son", "my daughter"},
	"student":     {"student", "school", "exam", "college", "university", "studies"},
	"young_adult": {"young adult", "first job", "moving out", "dating", "twenties"},
	"senior":      {"senior", "retirement", "aging", "grandchildren", "elderly"},
	"married":     {"marriage", "husband", "wife", "spouse", "anniversary", "newlywed"},
}

// ExtractTopics scans content plus an optional explicit category tag
// against the taxonomy. Keyword containment counts in either direction
// and results are de-duplicated. Categories are scanned in sorted order
// so identical input always yields topics in the same order.
func ExtractTopics(content, category string) []string {
	haystacks := []string{strings.ToLower(content)}
	if category != "" {
		haystacks = append(haystacks, strings.ToLower(category))
	}

	seen := make(map[string]bool)
	topics := make([]string, 0)
	for _, name := range sortedCategories() {
		for _, keyword := range TopicKeywords[name] {
			for _, haystack := range haystacks {
				if termsMatch(haystack, keyword) && !seen[keyword] {
					seen[keyword] = true
					topics = append(topics, keyword)
				}
			}
		}
	}
	return topics
}

// InferCategory picks the taxonomy category with the most keyword hits
// in the content. Empty when nothing matches.
func InferCategory(content string) string {
	lowered := strings.ToLower(content)

	best := ""
	bestHits := 0
	for category, keywords := range TopicKeywords {
		hits := 0
		for _, keyword := range keywords {
			if strings.Contains(lowered, keyword) {
				hits++
			}
		}
		if hits > bestHits || (hits == bestHits && hits > 0 && category < best) {
			best = category
			bestHits = hits
		}
	}
	return best
}

// CategoryOf returns the request's explicit category, falling back to
// inference from its content.
func CategoryOf(content, category string) string {
	if category != "" {
		return strings.ToLower(category)
	}
	return InferCategory(content)
}

func sortedCategories() []string {
	names := make([]string, 0, len(TopicKeywords))
	for name := range TopicKeywords {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// termsMatch reports case-insensitive substring containment in either
// direction. Both terms are expected lowered already.
func termsMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
