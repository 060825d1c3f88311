package metrics

import "testing"

func TestTopN(t *testing.T) {
	// 5 sales across 3 sellers: A,A,B,C,C with revenues 40,40,20,10,10.
	items := []RankItem{
		{Key: "A", Label: "Seller A", Metric: 40, Secondary: 1},
		{Key: "A", Label: "Seller A", Metric: 40, Secondary: 1},
		{Key: "B", Label: "Seller B", Metric: 20, Secondary: 1},
		{Key: "C", Label: "Seller C", Metric: 10, Secondary: 1},
		{Key: "C", Label: "Seller C", Metric: 10, Secondary: 1},
	}

	got := TopN(items, 2, false)

	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Key != "A" || got[0].MetricValue != 80 {
		t.Errorf("top entry = {%s, %v}, want {A, 80}", got[0].Key, got[0].MetricValue)
	}
	if got[1].Key != "B" || got[1].MetricValue != 20 {
		t.Errorf("second entry = {%s, %v}, want {B, 20}", got[1].Key, got[1].MetricValue)
	}
	if got[0].SecondaryMetric != 2 {
		t.Errorf("secondary for A = %v, want 2", got[0].SecondaryMetric)
	}
}

func TestTopNStableTieBreak(t *testing.T) {
	items := []RankItem{
		{Key: "x", Label: "X", Metric: 10},
		{Key: "y", Label: "Y", Metric: 10},
		{Key: "z", Label: "Z", Metric: 10},
	}

	got := TopN(items, 3, false)
	// Ties keep first-seen input order.
	for i, want := range []string{"x", "y", "z"} {
		if got[i].Key != want {
			t.Errorf("entry %d = %s, want %s", i, got[i].Key, want)
		}
	}
}

func TestTopNAscending(t *testing.T) {
	items := []RankItem{
		{Key: "big", Metric: 100},
		{Key: "small", Metric: 1},
		{Key: "mid", Metric: 50},
	}

	got := TopN(items, 2, true)
	if got[0].Key != "small" || got[1].Key != "mid" {
		t.Errorf("ascending order wrong: %s, %s", got[0].Key, got[1].Key)
	}
}

func TestTopNShorterThanN(t *testing.T) {
	items := []RankItem{{Key: "only", Metric: 5}}

	got := TopN(items, 10, false)
	if len(got) != 1 {
		t.Errorf("expected min(n, distinct keys) = 1 entries, got %d", len(got))
	}
}

func TestTopNEmpty(t *testing.T) {
	if got := TopN(nil, 3, false); len(got) != 0 {
		t.Errorf("expected empty ranking, got %d entries", len(got))
	}
}

func TestTopNPrefixOfFullRanking(t *testing.T) {
	items := []RankItem{
		{Key: "a", Metric: 5}, {Key: "b", Metric: 9},
		{Key: "c", Metric: 7}, {Key: "d", Metric: 1},
	}

	full := TopN(items, -1, false)
	top2 := TopN(items, 2, false)

	for i := range top2 {
		if top2[i] != full[i] {
			t.Errorf("topN is not a prefix of the full ranking at %d", i)
		}
	}
	for i := 1; i < len(full); i++ {
		if full[i].MetricValue > full[i-1].MetricValue {
			t.Errorf("ranking not non-increasing at %d", i)
		}
	}
}
