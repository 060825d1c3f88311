package report

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"go-retail/internal/features/metrics"
)

func sampleSnapshot() *metrics.OperationalSnapshot {
	return &metrics.OperationalSnapshot{
		Window: metrics.Window{
			Start: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2024, time.March, 8, 0, 0, 0, 0, time.UTC),
		},
		Overview: metrics.Overview{
			TotalRevenue: 150, SaleCount: 2, AverageBasket: 75,
		},
		StoreGroups: []metrics.StoreGroup{
			{GroupName: "Sillage", AggregateRevenue: 150, AggregateCount: 2},
		},
		TopSellers: []metrics.RankedEntry{
			{Key: "abc", Label: "Moussa", MetricValue: 150, SecondaryMetric: 2},
		},
		TicketStatus: map[metrics.CanonicalStatus]int{
			metrics.StatusPending:    1,
			metrics.StatusInProgress: 0,
			metrics.StatusResolved:   3,
			metrics.StatusCancelled:  0,
		},
		Degraded: []string{"sellers"},
	}
}

func TestFlattenSnapshot(t *testing.T) {
	rows := flattenSnapshot(sampleSnapshot())

	sections := make(map[string]int)
	for _, row := range rows {
		if len(row) != len(exportHeader) {
			t.Fatalf("row %v has %d columns, want %d", row, len(row), len(exportHeader))
		}
		sections[row[0]]++
	}

	if sections["filters"] != 2 {
		t.Errorf("filters rows = %d, want 2 (window start and end)", sections["filters"])
	}
	if sections["degraded"] != 1 {
		t.Errorf("degraded rows = %d, want 1", sections["degraded"])
	}
	if sections["overview"] != 7 {
		t.Errorf("overview rows = %d, want 7", sections["overview"])
	}
	if sections["ticket_status"] != len(metrics.CanonicalStatuses) {
		t.Errorf("ticket_status rows = %d, want %d", sections["ticket_status"], len(metrics.CanonicalStatuses))
	}
	if sections["top_sellers"] != 1 {
		t.Errorf("top_sellers rows = %d, want 1", sections["top_sellers"])
	}
}

func TestRenderCSV(t *testing.T) {
	data, err := renderCSV(sampleSnapshot())
	if err != nil {
		t.Fatalf("renderCSV: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("re-parsing CSV output: %v", err)
	}
	if records[0][0] != "section" {
		t.Errorf("first row = %v, want header", records[0])
	}
	if len(records) != len(flattenSnapshot(sampleSnapshot()))+1 {
		t.Errorf("record count = %d, want data rows plus header", len(records))
	}

	found := false
	for _, rec := range records {
		if rec[0] == "overview" && rec[1] == "total_revenue" && rec[3] == "150.00" {
			found = true
		}
	}
	if !found {
		t.Error("total_revenue row missing or misformatted")
	}
}

func TestRenderExcel(t *testing.T) {
	data, err := renderExcel(sampleSnapshot())
	if err != nil {
		t.Fatalf("renderExcel: %v", err)
	}
	// XLSX payloads are zip archives.
	if len(data) < 4 || data[0] != 'P' || data[1] != 'K' {
		t.Error("excel output does not look like an xlsx payload")
	}
}
