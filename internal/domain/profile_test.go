package domain

import "testing"

func TestCounterZeroDefault(t *testing.T) {
	c := Counter{}
	if got := c.Get("Shooter"); got != 0 {
		t.Errorf("Get on empty counter = %v, want 0", got)
	}

	c.Add("Shooter", 6.4)
	c.Add("Shooter", 1.6)
	if got := c.Get("Shooter"); got != 8.0 {
		t.Errorf("accumulated weight = %v, want 8.0", got)
	}
}

func TestCounterMean(t *testing.T) {
	c := Counter{}
	if got := c.Mean(); got != 0 {
		t.Errorf("Mean of empty counter = %v, want 0", got)
	}

	c.Add("Shooter", 10)
	c.Add("Puzzle", 20)
	if got := c.Mean(); got != 15 {
		t.Errorf("Mean = %v, want 15", got)
	}
}

func TestCounterTopTieBreak(t *testing.T) {
	c := Counter{"Strategy": 5, "Adventure": 5, "Puzzle": 2}

	tag, weight := c.Top()
	if tag != "Adventure" || weight != 5 {
		t.Errorf("Top = %q/%v, want Adventure/5 (lexicographic tie-break)", tag, weight)
	}
}

func TestCounterTopN(t *testing.T) {
	c := Counter{"Shooter": 30, "Puzzle": 10, "Strategy": 20}

	top := c.TopN(2)
	if len(top) != 2 {
		t.Fatalf("TopN(2) returned %d items", len(top))
	}
	if top[0].Name != "Shooter" || top[1].Name != "Strategy" {
		t.Errorf("TopN order = %v", top)
	}

	// n larger than the counter returns everything.
	if got := len(c.TopN(10)); got != 3 {
		t.Errorf("TopN(10) returned %d items, want 3", got)
	}
}

func TestVerdictFor(t *testing.T) {
	tests := []struct {
		score float64
		want  Verdict
	}{
		{99, VerdictMustPlay},
		{86, VerdictMustPlay},
		{85.5, VerdictMustPlay}, // fractional scores band before rounding
		{85, VerdictRecommended},
		{61, VerdictRecommended},
		{60.5, VerdictRecommended},
		{60, VerdictWorthALook},
		{41, VerdictWorthALook},
		{40.2, VerdictWorthALook},
		{40, VerdictRiskyBet},
		{0, VerdictRiskyBet},
	}
	for _, tt := range tests {
		if got := VerdictFor(tt.score); got != tt.want {
			t.Errorf("VerdictFor(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}
