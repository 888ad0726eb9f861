package recommend

import (
	"sort"
	"testing"
)

var extractTests = []struct {
	name     string
	content  string
	category string
	want     []string
}{
	{
		"health keywords",
		"praying for healing after surgery",
		"",
		[]string{"healing", "surgery"},
	},
	{
		"multiple categories",
		"my husband lost his job and we are full of worry",
		"",
		[]string{"husband", "job", "worry"},
	},
	{
		"explicit category tag",
		"please lift this up",
		"addiction",
		[]string{"addiction"},
	},
	{
		"no matches",
		"xyz qwerty",
		"",
		[]string{},
	},
}

func TestExtractTopics(t *testing.T) {
	for _, tt := range extractTests {
		t.Run(tt.name, func(t *testing.T) {
			topics := ExtractTopics(tt.content, tt.category)
			for _, want := range tt.want {
				if !containsTopic(topics, want) {
					t.Errorf("topics %v missing %q", topics, want)
				}
			}
			if len(tt.want) == 0 && len(topics) != 0 {
				t.Errorf("expected no topics, got %v", topics)
			}
		})
	}
}

func TestExtractTopicsDeterministicOrder(t *testing.T) {
	content := "healing from anxiety while my husband looks for a job"
	first := ExtractTopics(content, "")
	if len(first) < 3 {
		t.Fatalf("expected several topics, got %v", first)
	}
	for i := 0; i < 50; i++ {
		again := ExtractTopics(content, "")
		if len(again) != len(first) {
			t.Fatalf("run %d: got %v, want %v", i, again, first)
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("run %d: topic order changed: got %v, want %v", i, again, first)
			}
		}
	}
}

func TestExtractTopicsDeduplicates(t *testing.T) {
	topics := ExtractTopics("healing healing healing", "health")
	sort.Strings(topics)
	for i := 1; i < len(topics); i++ {
		if topics[i] == topics[i-1] {
			t.Fatalf("duplicate topic %q in %v", topics[i], topics)
		}
	}
}

var inferTests = []struct {
	content string
	want    string
}{
	{"anxiety and depression are overwhelming me", "mental_health"},
	{"surgery went well, praying for recovery from the illness", "health"},
	{"job interview next week, need this career break", "work"},
	{"xyz", ""},
}

func TestInferCategory(t *testing.T) {
	for _, tt := range inferTests {
		t.Run(tt.content, func(t *testing.T) {
			if got := InferCategory(tt.content); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCategoryOf(t *testing.T) {
	if got := CategoryOf("anything", "Health"); got != "health" {
		t.Errorf("explicit category not lowered: %q", got)
	}
	if got := CategoryOf("anxiety everywhere", ""); got != "mental_health" {
		t.Errorf("inference fallback failed: %q", got)
	}
}
