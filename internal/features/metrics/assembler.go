package metrics

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Ranking sizes used across the dashboard views.
const (
	sellerRankSize  = 3
	clientRankSize  = 5
	productRankSize = 5
)

// Assembler orchestrates one snapshot build: a parallel fan-out of
// independent fetches through the collection port, then a purely synchronous
// pipeline of resolution, grouping, normalization, bucketing and ranking over
// the in-memory rows. Each invocation owns its working set, so no locking is
// needed past the fetch phase.
//
// The fetches happen at slightly different wall-clock instants and no
// cross-collection consistency is attempted: the snapshot is a best-effort
// point-in-time view.
type Assembler struct {
	port CollectionPort
	log  *zap.Logger
}

func NewAssembler(port CollectionPort, log *zap.Logger) *Assembler {
	return &Assembler{port: port, log: log}
}

// fetchSet holds the raw rows of one build. Each field is written by exactly
// one fetch goroutine.
type fetchSet struct {
	sales        []SaleRecord
	items        []LineItem
	products     []Product
	stores       []Store
	clients      []Client
	sellers      []Seller
	reservations []Reservation
	tickets      []ServiceTicket

	mu       sync.Mutex
	degraded []string
}

func (f *fetchSet) fail(kind string) {
	f.mu.Lock()
	f.degraded = append(f.degraded, kind)
	f.mu.Unlock()
}

// BuildSnapshot always returns a snapshot. A failing fetch degrades that
// entity kind to an empty collection and is reported through
// snapshot.Degraded; nothing here propagates an error to the caller.
func (a *Assembler) BuildSnapshot(ctx context.Context, filters SnapshotFilters) *OperationalSnapshot {
	fetched := a.fetchAll(ctx, filters)

	lookups := BuildLookups(fetched.products, fetched.stores, fetched.clients, fetched.sellers)
	resolvedSales := lookups.ResolveSales(fetched.sales)
	resolvedItems := lookups.ResolveLineItems(fetched.items)
	resolvedReservations := lookups.ResolveReservations(fetched.reservations)
	resolvedTickets := lookups.ResolveTickets(fetched.tickets)

	groups := AggregateSales(GroupStores(fetched.stores), fetched.sales)
	statusCounts := CountStatuses(fetched.tickets)

	snap := &OperationalSnapshot{
		GeneratedAt:  time.Now(),
		Window:       Window{Start: filters.Start, End: filters.End},
		StoreGroups:  groups,
		TicketStatus: statusCounts,
		Degraded:     fetched.degraded,

		RevenueTrend: BucketPoints(salePoints(fetched.sales), filters.Start, filters.End),
		TicketTrend:  BucketPoints(ticketPoints(fetched.tickets), filters.Start, filters.End),
	}
	if filters.StoreID != nil {
		snap.StoreFilter = filters.StoreID.Hex()
	}

	sellerItems := make([]RankItem, 0, len(resolvedSales))
	clientItems := make([]RankItem, 0, len(resolvedSales))
	for _, rs := range resolvedSales {
		sellerItems = append(sellerItems, RankItem{
			Key:       rs.Seller.ID.Hex(),
			Label:     rs.Seller.Name,
			Metric:    rs.Sale.TotalAmount,
			Secondary: 1,
		})
		clientItems = append(clientItems, RankItem{
			Key:       rs.Sale.ClientID.Hex(),
			Label:     rs.ClientName,
			Metric:    rs.Sale.TotalAmount,
			Secondary: 1,
		})
	}
	snap.TopSellers = TopN(sellerItems, sellerRankSize, false)
	snap.BottomSellers = TopN(sellerItems, sellerRankSize, true)
	snap.TopClients = TopN(clientItems, clientRankSize, false)
	snap.AtRiskClients = TopN(clientItems, clientRankSize, true)

	reservationItems := make([]RankItem, 0, len(resolvedReservations))
	for _, rr := range resolvedReservations {
		reservationItems = append(reservationItems, RankItem{
			Key:       rr.Reservation.ClientID.Hex(),
			Label:     rr.ClientName,
			Metric:    rr.Reservation.TotalAmount,
			Secondary: 1,
		})
	}
	snap.TopReservationClients = TopN(reservationItems, clientRankSize, false)

	ticketStoreItems := make([]RankItem, 0, len(resolvedTickets))
	for _, rt := range resolvedTickets {
		ticketStoreItems = append(ticketStoreItems, RankItem{
			Key:    rt.Ticket.StoreID.Hex(),
			Label:  rt.StoreName,
			Metric: 1,
		})
	}
	snap.TicketsByStore = TopN(ticketStoreItems, -1, false)

	// Line items carry no timestamp of their own: restrict them to the sales
	// that fell inside the window.
	inWindow := make(map[primitive.ObjectID]struct{}, len(fetched.sales))
	for _, s := range fetched.sales {
		inWindow[s.ID] = struct{}{}
	}
	var productItems, movementItems []RankItem
	for _, ri := range resolvedItems {
		if _, ok := inWindow[ri.Item.SaleID]; !ok {
			continue
		}
		revenue := ri.Item.UnitPrice*float64(ri.Item.Quantity) - ri.Item.DiscountAmount
		productItems = append(productItems, RankItem{
			Key:       ri.Item.ProductID.Hex(),
			Label:     ri.ProductName,
			Metric:    revenue,
			Secondary: float64(ri.Item.Quantity),
		})
		movementItems = append(movementItems, RankItem{
			Key:       ri.Item.ProductID.Hex(),
			Label:     ri.ProductName,
			Metric:    float64(ri.Item.Quantity),
			Secondary: revenue,
		})
	}
	snap.TopProducts = TopN(productItems, productRankSize, false)
	snap.TopMovers = TopN(movementItems, productRankSize, false)
	snap.SlowMovers = TopN(movementItems, productRankSize, true)

	snap.Overview = buildOverview(fetched)
	return snap
}

func buildOverview(fetched *fetchSet) Overview {
	o := Overview{
		SaleCount:        len(fetched.sales),
		ReservationCount: len(fetched.reservations),
		TicketCount:      len(fetched.tickets),
		ClientCount:      len(fetched.clients),
	}
	for _, s := range fetched.sales {
		o.TotalRevenue += s.TotalAmount
	}
	for _, r := range fetched.reservations {
		o.ReservationValue += r.TotalAmount
	}
	// Guard the average: zero sales means average 0, never NaN.
	if o.SaleCount > 0 {
		o.AverageBasket = o.TotalRevenue / float64(o.SaleCount)
	}
	return o
}

// fetchAll issues all collection reads concurrently and waits for every one
// to settle. There is no ordering dependency between entity kinds and no
// retry at this layer.
func (a *Assembler) fetchAll(ctx context.Context, filters SnapshotFilters) *fetchSet {
	windowed := FetchOptions{Start: &filters.Start, End: &filters.End, StoreID: filters.StoreID}
	unfiltered := FetchOptions{}

	fetched := &fetchSet{}
	var wg sync.WaitGroup

	run := func(kind string, fetch func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fetch(); err != nil {
				a.log.Warn("collection fetch failed, degrading to empty",
					zap.String("kind", kind), zap.Error(err))
				fetched.fail(kind)
			}
		}()
	}

	// Each closure commits rows only on success: a port may hand back rows
	// alongside an error (a cursor can partially decode before failing) and a
	// degraded kind must count as empty, not as whatever arrived.
	run(KindSales, func() error {
		rows, err := a.port.Sales(ctx, windowed)
		if err != nil {
			return err
		}
		fetched.sales = rows
		return nil
	})
	run(KindLineItems, func() error {
		rows, err := a.port.LineItems(ctx, unfiltered)
		if err != nil {
			return err
		}
		fetched.items = rows
		return nil
	})
	run(KindProducts, func() error {
		rows, err := a.port.Products(ctx, unfiltered)
		if err != nil {
			return err
		}
		fetched.products = rows
		return nil
	})
	run(KindStores, func() error {
		rows, err := a.port.Stores(ctx, unfiltered)
		if err != nil {
			return err
		}
		fetched.stores = rows
		return nil
	})
	run(KindClients, func() error {
		rows, err := a.port.Clients(ctx, unfiltered)
		if err != nil {
			return err
		}
		fetched.clients = rows
		return nil
	})
	run(KindSellers, func() error {
		rows, err := a.port.Sellers(ctx, unfiltered)
		if err != nil {
			return err
		}
		fetched.sellers = rows
		return nil
	})
	run(KindReservations, func() error {
		rows, err := a.port.Reservations(ctx, windowed)
		if err != nil {
			return err
		}
		fetched.reservations = rows
		return nil
	})
	run(KindTickets, func() error {
		rows, err := a.port.Tickets(ctx, windowed)
		if err != nil {
			return err
		}
		fetched.tickets = rows
		return nil
	})

	wg.Wait()
	sort.Strings(fetched.degraded)
	return fetched
}

func salePoints(sales []SaleRecord) []TimePoint {
	points := make([]TimePoint, 0, len(sales))
	for _, s := range sales {
		points = append(points, TimePoint{At: s.OccurredAt, Amount: s.TotalAmount})
	}
	return points
}

func ticketPoints(tickets []ServiceTicket) []TimePoint {
	points := make([]TimePoint, 0, len(tickets))
	for _, t := range tickets {
		points = append(points, TimePoint{At: t.CreatedAt})
	}
	return points
}
