package matcher

import (
	"reflect"
	"testing"
)

func TestMatch(t *testing.T) {
	var testCases = []struct {
		pattern   string
		candidate string
		matched   bool
	}{
		{"*", "anything", true},
		{"", "anything", false},

		// Exact matches
		{"analyze", "analyze", true},
		{"analysis.analyze", "analysis.analyze", true},

		// Prefix matches
		{"analysis.", "analysis.analyze", true},
		{"analy", "analyze", true},
		{"summar", "analyze", false},
	}

	for i, tc := range testCases {
		if got := Match(tc.pattern, tc.candidate); got != tc.matched {
			t.Fatalf("[%d] Match(%q, %q) = %v; expected %v", i, tc.pattern, tc.candidate, got, tc.matched)
		}
	}
}

func TestFilter(t *testing.T) {
	names := []string{"analyze", "greet", "summarize"}

	if got := Filter("", names); !reflect.DeepEqual(got, names) {
		t.Fatalf("Filter(\"\") = %v; expected all names", got)
	}
	if got := Filter("gre", names); !reflect.DeepEqual(got, []string{"greet"}) {
		t.Fatalf("Filter(\"gre\") = %v", got)
	}
	if got := Filter("none", names); len(got) != 0 {
		t.Fatalf("Filter(\"none\") = %v; expected empty", got)
	}
}
