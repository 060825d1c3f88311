package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"go-retail/internal/features/metrics"

	"github.com/xuri/excelize/v2"
)

type ReportService interface {
	// ExportSnapshot builds a snapshot for the filters and renders it in the
	// requested format ("csv" or "xlsx"). Returns the payload and a filename.
	ExportSnapshot(ctx context.Context, filters metrics.SnapshotFilters, format string) ([]byte, string, error)
}

type ReportServiceImpl struct {
	MetricsService metrics.MetricsService
}

func NewReportService(metricsService metrics.MetricsService) ReportService {
	return &ReportServiceImpl{MetricsService: metricsService}
}

func (s *ReportServiceImpl) ExportSnapshot(ctx context.Context, filters metrics.SnapshotFilters, format string) ([]byte, string, error) {
	snap, err := s.MetricsService.BuildSnapshot(ctx, filters)
	if err != nil {
		return nil, "", err
	}

	stamp := time.Now().Format("20060102_150405")
	switch format {
	case "csv":
		data, err := renderCSV(snap)
		return data, fmt.Sprintf("operational_snapshot_%s.csv", stamp), err
	case "xlsx":
		data, err := renderExcel(snap)
		return data, fmt.Sprintf("operational_snapshot_%s.xlsx", stamp), err
	default:
		return nil, "", fmt.Errorf("unsupported format: %s", format)
	}
}

var exportHeader = []string{"section", "key", "label", "value", "secondary"}

// flattenSnapshot turns the snapshot sections into uniform rows. The filter
// description goes first so the reader knows what the numbers cover.
func flattenSnapshot(snap *metrics.OperationalSnapshot) [][]string {
	money := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
	count := func(v int) string { return strconv.Itoa(v) }

	rows := [][]string{
		{"filters", "window_start", "", snap.Window.Start.Format("2006-01-02"), ""},
		{"filters", "window_end", "", snap.Window.End.Format("2006-01-02"), ""},
	}
	if snap.StoreFilter != "" {
		rows = append(rows, []string{"filters", "store", "", snap.StoreFilter, ""})
	}
	for _, kind := range snap.Degraded {
		rows = append(rows, []string{"degraded", kind, "", "fetch failed, counted as empty", ""})
	}

	rows = append(rows,
		[]string{"overview", "total_revenue", "", money(snap.Overview.TotalRevenue), ""},
		[]string{"overview", "sale_count", "", count(snap.Overview.SaleCount), ""},
		[]string{"overview", "average_basket", "", money(snap.Overview.AverageBasket), ""},
		[]string{"overview", "reservation_count", "", count(snap.Overview.ReservationCount), ""},
		[]string{"overview", "reservation_value", "", money(snap.Overview.ReservationValue), ""},
		[]string{"overview", "ticket_count", "", count(snap.Overview.TicketCount), ""},
		[]string{"overview", "client_count", "", count(snap.Overview.ClientCount), ""},
	)

	for _, g := range snap.StoreGroups {
		rows = append(rows, []string{"store_groups", g.GroupName, "", money(g.AggregateRevenue), count(g.AggregateCount)})
	}
	for _, b := range snap.RevenueTrend {
		rows = append(rows, []string{"revenue_trend", b.StartInclusive.Format("2006-01-02"), b.Label, money(b.Revenue), count(b.Count)})
	}
	for _, b := range snap.TicketTrend {
		rows = append(rows, []string{"ticket_trend", b.StartInclusive.Format("2006-01-02"), b.Label, count(b.Count), ""})
	}

	ranked := []struct {
		section string
		entries []metrics.RankedEntry
	}{
		{"top_sellers", snap.TopSellers},
		{"bottom_sellers", snap.BottomSellers},
		{"top_clients", snap.TopClients},
		{"at_risk_clients", snap.AtRiskClients},
		{"top_products", snap.TopProducts},
		{"top_movers", snap.TopMovers},
		{"slow_movers", snap.SlowMovers},
		{"top_reservation_clients", snap.TopReservationClients},
		{"tickets_by_store", snap.TicketsByStore},
	}
	for _, r := range ranked {
		for _, e := range r.entries {
			rows = append(rows, []string{r.section, e.Key, e.Label, money(e.MetricValue), money(e.SecondaryMetric)})
		}
	}

	for _, status := range metrics.CanonicalStatuses {
		rows = append(rows, []string{"ticket_status", string(status), "", count(snap.TicketStatus[status]), ""})
	}

	return rows
}

func renderCSV(snap *metrics.OperationalSnapshot) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, row := range flattenSnapshot(snap) {
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderExcel(snap *metrics.OperationalSnapshot) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Snapshot"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, col := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, row := range flattenSnapshot(snap) {
		for colIdx, val := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, val)
		}
	}

	for i := range exportHeader {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 18)
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
