package todo

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewFilterErrors(t *testing.T) {
	if _, err := NewFilter("", "", ""); !errors.Is(err, ErrNoInclude) {
		t.Errorf("Expected ErrNoInclude, got %v", err)
	}
	if _, err := NewFilter("INT_L\\.(", "", ""); err == nil {
		t.Error("Expected error for invalid inclusion pattern")
	}
	if _, err := NewFilter("INT_L\\..*", "[", ""); err == nil {
		t.Error("Expected error for invalid exclusion pattern")
	}
}

func TestFilterKeep(t *testing.T) {
	f, err := NewFilter(`INT_L\..*`, `.*\.GFAN`, "_S0")
	if err != nil {
		t.Fatalf("Failed to create filter: %v", err)
	}

	tests := []struct {
		tag  string
		want Reason
	}{
		{"INT_L.WW2BEG0.LOGIC_OUTS_L0", Kept},
		{"INT_R.WW2BEG0.LOGIC_OUTS_R0", NoMatch},
		{"XINT_L.A", NoMatch}, // anchored at start
		{"INT_L.WW2BEG0.SR1BEG_S0", SuffixExcluded},
		{"INT_L.A.GFAN0", PatternExcluded},
		{"INT_L.A.GFAN_S0", SuffixExcluded}, // suffix test runs first
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			if got := f.Keep(tt.tag); got != tt.want {
				t.Errorf("Keep(%s) = %v, want %v", tt.tag, got, tt.want)
			}
		})
	}
}

func TestFilterAnchoredNotFull(t *testing.T) {
	// Matching is anchored at the start only, like a prefix match
	f, err := NewFilter(`INT_L\.A`, "", "")
	if err != nil {
		t.Fatalf("Failed to create filter: %v", err)
	}
	if f.Keep("INT_L.AB.C") != Kept {
		t.Error("Expected INT_L.AB.C to be kept")
	}
}

func TestFilterAlternationAnchored(t *testing.T) {
	// Every alternative must be anchored, not just the first
	f, err := NewFilter(`INT_L\.A|INT_L\.B`, "", "")
	if err != nil {
		t.Fatalf("Failed to create filter: %v", err)
	}
	if f.Keep("XINT_L.B") != NoMatch {
		t.Error("Expected XINT_L.B not to match")
	}
	if f.Keep("INT_L.B") != Kept {
		t.Error("Expected INT_L.B to be kept")
	}
}

func TestFilterTestsAreIndependent(t *testing.T) {
	// A tag failing any single test is dropped regardless of the others
	tagName := "INT_L.A.X_S0"
	configs := []struct {
		include, exclude, suffix string
		want                     bool
	}{
		{`INT_L`, "", "", true},
		{`INT_L`, "", "_S0", false},
		{`INT_L`, `INT_L\.A`, "", false},
		{`INT_L`, `INT_L\.A`, "_S0", false},
		{`INT_R`, "", "", false},
		{`INT_L`, `INT_L\.B`, "_S1", true},
	}

	for _, c := range configs {
		f, err := NewFilter(c.include, c.exclude, c.suffix)
		if err != nil {
			t.Fatalf("Failed to create filter: %v", err)
		}
		if got := f.Keep(tagName) == Kept; got != c.want {
			t.Errorf("include=%q exclude=%q suffix=%q: kept=%v, want %v",
				c.include, c.exclude, c.suffix, got, c.want)
		}
	}
}

func TestFilterApply(t *testing.T) {
	f, err := NewFilter(`INT_L\..*`, "", "")
	if err != nil {
		t.Fatalf("Failed to create filter: %v", err)
	}

	kept, dropped := f.Apply([]string{"INT_L.A", "INT_R.B", "INT_L.C"})
	if !reflect.DeepEqual(kept, []string{"INT_L.A", "INT_L.C"}) {
		t.Errorf("Unexpected kept tags: %v", kept)
	}
	if dropped != 1 {
		t.Errorf("Expected 1 drop, got %d", dropped)
	}
}

func TestReasonString(t *testing.T) {
	if SuffixExcluded.String() != "suffix excluded" {
		t.Errorf("Unexpected string: %s", SuffixExcluded.String())
	}
	if Reason(42).String() != "Reason(42)" {
		t.Errorf("Unexpected string: %s", Reason(42).String())
	}
}
