package metrics

import "testing"

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want CanonicalStatus
	}{
		{"French resolved with diacritics", "Terminée", StatusResolved},
		{"French resolved without diacritics", "terminee", StatusResolved},
		{"English resolved", "resolved", StatusResolved},
		{"Cancelled without diacritics", "annulee", StatusCancelled},
		{"Cancelled English", "Cancelled", StatusCancelled},
		{"In progress French", "en cours", StatusInProgress},
		{"Repair shop status", "en réparation", StatusInProgress},
		{"New ticket", "nouvelle", StatusPending},
		{"Pending English", "PENDING", StatusPending},
		{"Whitespace and case", "  TERMINÉE  ", StatusResolved},
		{"Unknown defaults to in progress", "bogus", StatusInProgress},
		{"Empty defaults to in progress", "", StatusInProgress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeStatus(tt.raw); got != tt.want {
				t.Errorf("NormalizeStatus(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCountStatuses(t *testing.T) {
	tickets := []ServiceTicket{
		{Status: "Terminée"},
		{Status: "annulee"},
		{Status: "en cours"},
		{Status: "nouvelle"},
		{Status: "bogus"},
	}

	counts := CountStatuses(tickets)

	want := map[CanonicalStatus]int{
		StatusResolved:   1,
		StatusCancelled:  1,
		StatusInProgress: 2, // "en cours" plus the unknown "bogus"
		StatusPending:    1,
	}
	for status, n := range want {
		if counts[status] != n {
			t.Errorf("counts[%s] = %d, want %d", status, counts[status], n)
		}
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	if total != len(tickets) {
		t.Errorf("total counted = %d, want %d (normalization must be total)", total, len(tickets))
	}
}

func TestCountStatusesEmptyKeysPresent(t *testing.T) {
	counts := CountStatuses(nil)
	if len(counts) != len(CanonicalStatuses) {
		t.Fatalf("expected %d keys, got %d", len(CanonicalStatuses), len(counts))
	}
	for _, status := range CanonicalStatuses {
		if counts[status] != 0 {
			t.Errorf("counts[%s] = %d, want 0", status, counts[status])
		}
	}
}
