package metrics

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Entity kind names, used for degraded-data reporting and as collection /
// table names in the port adapters.
const (
	KindSales        = "sales"
	KindLineItems    = "line_items"
	KindProducts     = "products"
	KindStores       = "stores"
	KindClients      = "clients"
	KindSellers      = "sellers"
	KindReservations = "reservations"
	KindTickets      = "service_tickets"
)

// FetchOptions narrows a collection fetch. A nil field means unfiltered.
// Adapters apply Start/End to the entity's own timestamp field (occurred_at
// for sales, created_at for reservations and tickets).
type FetchOptions struct {
	Start   *time.Time
	End     *time.Time
	StoreID *primitive.ObjectID
}

// CollectionPort is the engine's only view of the document store. It performs
// no joins and no caching; every method returns the raw matching records.
// Errors returned here never become fatal for the snapshot build: the
// assembler substitutes an empty collection and records the kind as degraded.
type CollectionPort interface {
	Sales(ctx context.Context, opts FetchOptions) ([]SaleRecord, error)
	LineItems(ctx context.Context, opts FetchOptions) ([]LineItem, error)
	Products(ctx context.Context, opts FetchOptions) ([]Product, error)
	Stores(ctx context.Context, opts FetchOptions) ([]Store, error)
	Clients(ctx context.Context, opts FetchOptions) ([]Client, error)
	Sellers(ctx context.Context, opts FetchOptions) ([]Seller, error)
	Reservations(ctx context.Context, opts FetchOptions) ([]Reservation, error)
	Tickets(ctx context.Context, opts FetchOptions) ([]ServiceTicket, error)
}
