package metrics

import "go.mongodb.org/mongo-driver/bson/primitive"

// UnknownLabel substitutes a descriptive field whose reference did not
// resolve. Resolution is total: no lookup miss ever raises an error, the
// render must go on.
const UnknownLabel = "Unknown"

// Lookups holds the id-indexed lookup collections for one snapshot build.
// They are built once per build and passed explicitly; there is no shared
// module-level cache.
type Lookups struct {
	Products map[primitive.ObjectID]Product
	Stores   map[primitive.ObjectID]Store
	Clients  map[primitive.ObjectID]Client
	Sellers  map[primitive.ObjectID]Seller

	// sellerOrder keeps the fetch order of sellers for the fallback below.
	sellerOrder []Seller
}

// BuildLookups indexes the fetched lookup collections by id.
func BuildLookups(products []Product, stores []Store, clients []Client, sellers []Seller) Lookups {
	l := Lookups{
		Products:    make(map[primitive.ObjectID]Product, len(products)),
		Stores:      make(map[primitive.ObjectID]Store, len(stores)),
		Clients:     make(map[primitive.ObjectID]Client, len(clients)),
		Sellers:     make(map[primitive.ObjectID]Seller, len(sellers)),
		sellerOrder: sellers,
	}
	for _, p := range products {
		l.Products[p.ID] = p
	}
	for _, s := range stores {
		l.Stores[s.ID] = s
	}
	for _, c := range clients {
		l.Clients[c.ID] = c
	}
	for _, s := range sellers {
		l.Sellers[s.ID] = s
	}
	return l
}

// SellerRef is a resolved seller summary attached to a sale.
type SellerRef struct {
	ID   primitive.ObjectID `json:"id"`
	Name string             `json:"name"`
}

type ResolvedSale struct {
	Sale       SaleRecord
	ClientName string
	StoreName  string
	Seller     SellerRef
}

type ResolvedReservation struct {
	Reservation Reservation
	StoreName   string
	ClientName  string
}

type ResolvedTicket struct {
	Ticket    ServiceTicket
	StoreName string
}

type ResolvedLineItem struct {
	Item        LineItem
	ProductName string
	UnitCost    float64
}

func (l Lookups) storeName(id primitive.ObjectID) string {
	if s, ok := l.Stores[id]; ok {
		return s.Name
	}
	return UnknownLabel
}

func (l Lookups) clientName(id primitive.ObjectID) string {
	if c, ok := l.Clients[id]; ok {
		return c.Name
	}
	return UnknownLabel
}

// resolveSeller substitutes the first seller in the lookup list when the
// reference is absent or dangling, so seller rankings never show an unknown
// row. Rankings silently credit that seller with orphan sales; the behavior
// is kept for parity with the existing dashboards (see DESIGN.md).
func (l Lookups) resolveSeller(id primitive.ObjectID) SellerRef {
	if s, ok := l.Sellers[id]; ok {
		return SellerRef{ID: s.ID, Name: s.Name}
	}
	if len(l.sellerOrder) > 0 {
		first := l.sellerOrder[0]
		return SellerRef{ID: first.ID, Name: first.Name}
	}
	return SellerRef{Name: UnknownLabel}
}

// ResolveSales substitutes every foreign key on the sales with resolved
// summaries.
func (l Lookups) ResolveSales(sales []SaleRecord) []ResolvedSale {
	out := make([]ResolvedSale, 0, len(sales))
	for _, sale := range sales {
		out = append(out, ResolvedSale{
			Sale:       sale,
			ClientName: l.clientName(sale.ClientID),
			StoreName:  l.storeName(sale.StoreID),
			Seller:     l.resolveSeller(sale.SellerID),
		})
	}
	return out
}

func (l Lookups) ResolveReservations(reservations []Reservation) []ResolvedReservation {
	out := make([]ResolvedReservation, 0, len(reservations))
	for _, r := range reservations {
		out = append(out, ResolvedReservation{
			Reservation: r,
			StoreName:   l.storeName(r.StoreID),
			ClientName:  l.clientName(r.ClientID),
		})
	}
	return out
}

func (l Lookups) ResolveTickets(tickets []ServiceTicket) []ResolvedTicket {
	out := make([]ResolvedTicket, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, ResolvedTicket{
			Ticket:    t,
			StoreName: l.storeName(t.StoreID),
		})
	}
	return out
}

func (l Lookups) ResolveLineItems(items []LineItem) []ResolvedLineItem {
	out := make([]ResolvedLineItem, 0, len(items))
	for _, item := range items {
		resolved := ResolvedLineItem{Item: item, ProductName: UnknownLabel}
		if p, ok := l.Products[item.ProductID]; ok {
			resolved.ProductName = p.Name
			resolved.UnitCost = p.UnitCost
		}
		out = append(out, resolved)
	}
	return out
}
