package paint

import (
	"math"
	"testing"
)

func TestDrawCumulativeIntervals(t *testing.T) {
	set := NewPrefabSet(
		PrefabEntry{ID: "rock", Weight: 0.2},
		PrefabEntry{ID: "bush", Weight: 0.5},
		PrefabEntry{ID: "tree", Weight: 0.3},
	)

	tests := []struct {
		name   string
		r      float64
		want   PrefabID
		wantOK bool
	}{
		{"start of first interval", 0, "rock", true},
		{"inside first interval", 0.1, "rock", true},
		{"boundary favors earlier entry", 0.2 - 1e-12, "rock", true},
		{"exact boundary goes to next entry", 0.2, "bush", true},
		{"inside second interval", 0.6, "bush", true},
		{"inside last interval", 0.95, "tree", true},
		{"total weight returns none", 1.0, "", false},
		{"beyond total returns none", 1.05, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := set.Draw(tt.r)
			if ok != tt.wantOK || got.ID != tt.want {
				t.Errorf("Draw(%v) = (%q, %v), want (%q, %v)", tt.r, got.ID, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDrawZeroWeights(t *testing.T) {
	set := NewPrefabSet(PrefabEntry{ID: "a"}, PrefabEntry{ID: "b"})
	for _, r := range []float64{0, 0.25, 0.99} {
		if e, ok := set.Draw(r); ok {
			t.Errorf("Draw(%v) with zero weights returned %q", r, e.ID)
		}
	}
}

func TestDrawEmptySet(t *testing.T) {
	var set PrefabSet
	if _, ok := set.Draw(0); ok {
		t.Error("empty set should never draw")
	}
}

func TestDrawEmptySlot(t *testing.T) {
	set := NewPrefabSet(PrefabEntry{ID: "", Weight: 0.5}, PrefabEntry{ID: "a", Weight: 0.5})
	if _, ok := set.Draw(0.1); ok {
		t.Error("draw landing on an unassigned slot should yield nothing")
	}
	if e, ok := set.Draw(0.7); !ok || e.ID != "a" {
		t.Errorf("Draw(0.7) = (%q, %v), want (a, true)", e.ID, ok)
	}
}

func TestReplaceDeduplicates(t *testing.T) {
	set := NewPrefabSet()
	set.Replace([]PrefabEntry{
		{ID: "a", Weight: 0.1},
		{ID: "b", Weight: 0.2},
		{ID: "a", Weight: 0.4},
	})

	entries := set.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != "a" || entries[0].Weight != 0.4 {
		t.Errorf("first entry = %+v, want a with weight 0.4", entries[0])
	}
	if w := set.TotalWeight(); math.Abs(w-0.6) > 1e-9 {
		t.Errorf("TotalWeight = %v, want 0.6", w)
	}
}

func TestSetKeepsOrder(t *testing.T) {
	var set PrefabSet
	set.Set("a", 0.3)
	set.Set("b", 0.3)
	set.Set("a", 0.1)

	if w, ok := set.Weight("a"); !ok || w != 0.1 {
		t.Errorf("Weight(a) = (%v, %v), want (0.1, true)", w, ok)
	}
	if e, ok := set.Draw(0.05); !ok || e.ID != "a" {
		t.Errorf("Draw(0.05) = %q, want a", e.ID)
	}
	if set.Len() != 2 {
		t.Errorf("Len = %d, want 2", set.Len())
	}
}
