package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// stubPort is an in-memory CollectionPort. errs marks entity kinds whose
// fetch should fail; a failing method still returns its rows alongside the
// error, the way a cursor that partially decodes before failing does.
// salesHook, when set, runs inside the Sales fetch so tests can order
// concurrent builds.
type stubPort struct {
	sales        []SaleRecord
	items        []LineItem
	products     []Product
	stores       []Store
	clients      []Client
	sellers      []Seller
	reservations []Reservation
	tickets      []ServiceTicket

	errs      map[string]error
	salesHook func(FetchOptions)
}

func (p *stubPort) err(kind string) error {
	if p.errs == nil {
		return nil
	}
	return p.errs[kind]
}

func (p *stubPort) Sales(ctx context.Context, opts FetchOptions) ([]SaleRecord, error) {
	if p.salesHook != nil {
		p.salesHook(opts)
	}
	return p.sales, p.err(KindSales)
}

func (p *stubPort) LineItems(ctx context.Context, opts FetchOptions) ([]LineItem, error) {
	return p.items, p.err(KindLineItems)
}

func (p *stubPort) Products(ctx context.Context, opts FetchOptions) ([]Product, error) {
	return p.products, p.err(KindProducts)
}

func (p *stubPort) Stores(ctx context.Context, opts FetchOptions) ([]Store, error) {
	return p.stores, p.err(KindStores)
}

func (p *stubPort) Clients(ctx context.Context, opts FetchOptions) ([]Client, error) {
	return p.clients, p.err(KindClients)
}

func (p *stubPort) Sellers(ctx context.Context, opts FetchOptions) ([]Seller, error) {
	return p.sellers, p.err(KindSellers)
}

func (p *stubPort) Reservations(ctx context.Context, opts FetchOptions) ([]Reservation, error) {
	return p.reservations, p.err(KindReservations)
}

func (p *stubPort) Tickets(ctx context.Context, opts FetchOptions) ([]ServiceTicket, error) {
	return p.tickets, p.err(KindTickets)
}

func testFilters() SnapshotFilters {
	return SnapshotFilters{
		Start: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.March, 8, 0, 0, 0, 0, time.UTC),
	}
}

func fixturePort() *stubPort {
	store := Store{ID: primitive.NewObjectID(), Name: "Sillage Plateau"}
	client := Client{ID: primitive.NewObjectID(), Name: "Awa Diop"}
	seller := Seller{ID: primitive.NewObjectID(), Name: "Moussa"}
	product := Product{ID: primitive.NewObjectID(), Name: "Eau de Parfum"}

	saleIn := SaleRecord{
		ID: primitive.NewObjectID(), StoreID: store.ID, ClientID: client.ID,
		SellerID: seller.ID, TotalAmount: 100,
		OccurredAt: time.Date(2024, time.March, 2, 10, 0, 0, 0, time.UTC),
	}
	saleIn2 := SaleRecord{
		ID: primitive.NewObjectID(), StoreID: store.ID, ClientID: client.ID,
		SellerID: seller.ID, TotalAmount: 50,
		OccurredAt: time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC),
	}

	return &stubPort{
		sales:    []SaleRecord{saleIn, saleIn2},
		stores:   []Store{store},
		clients:  []Client{client},
		sellers:  []Seller{seller},
		products: []Product{product},
		items: []LineItem{
			{SaleID: saleIn.ID, ProductID: product.ID, Quantity: 2, UnitPrice: 55, DiscountAmount: 10},
			// Orphan line item: its sale was never fetched, so it must not rank.
			{SaleID: primitive.NewObjectID(), ProductID: product.ID, Quantity: 99, UnitPrice: 1},
		},
		reservations: []Reservation{
			{StoreID: store.ID, ClientID: client.ID, TotalAmount: 40,
				CreatedAt: time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC)},
		},
		tickets: []ServiceTicket{
			{StoreID: store.ID, Status: "Terminée",
				CreatedAt: time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)},
			{StoreID: store.ID, Status: "en cours",
				CreatedAt: time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)},
		},
	}
}

func TestBuildSnapshotOverview(t *testing.T) {
	asm := NewAssembler(fixturePort(), zap.NewNop())

	snap := asm.BuildSnapshot(context.Background(), testFilters())

	o := snap.Overview
	if o.TotalRevenue != 150 || o.SaleCount != 2 {
		t.Errorf("revenue/count = (%v, %d), want (150, 2)", o.TotalRevenue, o.SaleCount)
	}
	if o.AverageBasket != 75 {
		t.Errorf("average basket = %v, want 75", o.AverageBasket)
	}
	if o.ReservationCount != 1 || o.ReservationValue != 40 {
		t.Errorf("reservations = (%d, %v), want (1, 40)", o.ReservationCount, o.ReservationValue)
	}
	if o.TicketCount != 2 || o.ClientCount != 1 {
		t.Errorf("tickets/clients = (%d, %d), want (2, 1)", o.TicketCount, o.ClientCount)
	}
	if len(snap.Degraded) != 0 {
		t.Errorf("unexpected degraded kinds: %v", snap.Degraded)
	}
}

func TestBuildSnapshotRankings(t *testing.T) {
	asm := NewAssembler(fixturePort(), zap.NewNop())

	snap := asm.BuildSnapshot(context.Background(), testFilters())

	if len(snap.TopSellers) != 1 || snap.TopSellers[0].Label != "Moussa" || snap.TopSellers[0].MetricValue != 150 {
		t.Errorf("top sellers = %+v", snap.TopSellers)
	}
	if len(snap.TopClients) != 1 || snap.TopClients[0].Label != "Awa Diop" {
		t.Errorf("top clients = %+v", snap.TopClients)
	}
	// One in-window line item: 2 * 55 - 10 = 100. The orphan item is excluded.
	if len(snap.TopProducts) != 1 || snap.TopProducts[0].MetricValue != 100 {
		t.Errorf("top products = %+v", snap.TopProducts)
	}
	if snap.TopMovers[0].MetricValue != 2 {
		t.Errorf("top mover quantity = %v, want 2", snap.TopMovers[0].MetricValue)
	}
	if len(snap.TopReservationClients) != 1 ||
		snap.TopReservationClients[0].Label != "Awa Diop" ||
		snap.TopReservationClients[0].MetricValue != 40 {
		t.Errorf("reservation clients = %+v", snap.TopReservationClients)
	}
	if len(snap.TicketsByStore) != 1 ||
		snap.TicketsByStore[0].Label != "Sillage Plateau" ||
		snap.TicketsByStore[0].MetricValue != 2 {
		t.Errorf("tickets by store = %+v", snap.TicketsByStore)
	}
}

func TestBuildSnapshotTrendsAndStatuses(t *testing.T) {
	asm := NewAssembler(fixturePort(), zap.NewNop())

	snap := asm.BuildSnapshot(context.Background(), testFilters())

	if len(snap.RevenueTrend) != 7 {
		t.Fatalf("revenue trend has %d buckets, want 7", len(snap.RevenueTrend))
	}
	if snap.RevenueTrend[1].Revenue != 100 || snap.RevenueTrend[4].Revenue != 50 {
		t.Errorf("revenue buckets misplaced: %+v", snap.RevenueTrend)
	}
	if snap.TicketTrend[3].Count != 2 {
		t.Errorf("ticket bucket = %d, want 2", snap.TicketTrend[3].Count)
	}
	if snap.TicketStatus[StatusResolved] != 1 || snap.TicketStatus[StatusInProgress] != 1 {
		t.Errorf("ticket status = %v", snap.TicketStatus)
	}
	if len(snap.StoreGroups) != 1 || snap.StoreGroups[0].GroupName != "Sillage" || snap.StoreGroups[0].AggregateRevenue != 150 {
		t.Errorf("store groups = %+v", snap.StoreGroups)
	}
}

func TestBuildSnapshotDegradedFetch(t *testing.T) {
	port := fixturePort()
	port.errs = map[string]error{
		KindTickets: errors.New("connection reset"),
		KindSellers: errors.New("timeout"),
	}
	asm := NewAssembler(port, zap.NewNop())

	snap := asm.BuildSnapshot(context.Background(), testFilters())

	if len(snap.Degraded) != 2 || snap.Degraded[0] != KindSellers || snap.Degraded[1] != KindTickets {
		t.Errorf("degraded = %v, want sorted [sellers service_tickets]", snap.Degraded)
	}
	// The rest of the snapshot is still built from the healthy collections.
	if snap.Overview.TotalRevenue != 150 {
		t.Errorf("revenue = %v, want 150 despite degraded kinds", snap.Overview.TotalRevenue)
	}
	// The stub hands rows back alongside the error; none of them may count.
	if snap.Overview.TicketCount != 0 {
		t.Errorf("failed kind should degrade to empty, got %d tickets", snap.Overview.TicketCount)
	}
	for _, b := range snap.TicketTrend {
		if b.Count != 0 {
			t.Errorf("rows from a failed fetch leaked into the ticket trend: %+v", b)
		}
	}
	// With the sellers fetch failed, sales rank under the Unknown placeholder
	// rather than the names from the partially returned rows.
	if len(snap.TopSellers) != 1 || snap.TopSellers[0].Label != UnknownLabel {
		t.Errorf("seller ranking = %+v, want a single %s entry", snap.TopSellers, UnknownLabel)
	}
}

func TestBuildSnapshotNoSales(t *testing.T) {
	asm := NewAssembler(&stubPort{}, zap.NewNop())

	snap := asm.BuildSnapshot(context.Background(), testFilters())

	if snap.Overview.AverageBasket != 0 {
		t.Errorf("average basket with no sales = %v, want 0", snap.Overview.AverageBasket)
	}
	if snap.TicketStatus[StatusPending] != 0 || len(snap.TicketStatus) != len(CanonicalStatuses) {
		t.Errorf("ticket status keys must all be present: %v", snap.TicketStatus)
	}
}
