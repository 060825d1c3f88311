package alert

import (
	"testing"

	"go-retail/internal/features/metrics"
)

func TestEvaluate(t *testing.T) {
	snap := &metrics.OperationalSnapshot{
		Overview: metrics.Overview{
			TotalRevenue:  40,
			SaleCount:     2,
			AverageBasket: 20,
		},
		TicketStatus: map[metrics.CanonicalStatus]int{
			metrics.StatusPending: 5,
		},
	}

	tests := []struct {
		name      string
		script    string
		triggered bool
		message   string
	}{
		{
			"Basket threshold fires",
			`triggered = average_basket < 50.0 && sale_count > 0`,
			true, "",
		},
		{
			"Revenue threshold does not fire",
			`triggered = total_revenue > 1000.0`,
			false, "",
		},
		{
			"Message set when firing",
			`if pending_tickets > 3 { triggered = true; message = "ticket backlog" }`,
			true, "ticket backlog",
		},
		{
			"Degraded flag bound",
			`triggered = degraded`,
			false, "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evaluate(tt.script, snap)
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			if got.triggered != tt.triggered {
				t.Errorf("triggered = %v, want %v", got.triggered, tt.triggered)
			}
			if got.message != tt.message {
				t.Errorf("message = %q, want %q", got.message, tt.message)
			}
		})
	}
}

func TestEvaluateBrokenScript(t *testing.T) {
	if _, err := evaluate(`triggered = `, &metrics.OperationalSnapshot{}); err == nil {
		t.Error("expected a compile error for a broken script")
	}
}

func TestCheckScript(t *testing.T) {
	if err := checkScript(""); err == nil {
		t.Error("empty script should be rejected")
	}
	if err := checkScript(`triggered = sale_count == 0`); err != nil {
		t.Errorf("valid script rejected: %v", err)
	}
	if err := checkScript(`this is not tengo`); err == nil {
		t.Error("invalid script should be rejected at save time")
	}
}
