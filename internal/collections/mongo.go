package collections

import (
	"context"

	"go-retail/internal/database"
	"go-retail/internal/features/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoPort is the primary Collection Access Port: one collection per entity
// kind, plain Find with equality and timestamp-range predicates. No joins, no
// caching.
type MongoPort struct {
	db *mongo.Database
}

func NewMongoPort(db *database.MongodbDB) *MongoPort {
	return &MongoPort{db: db.DB}
}

// filter translates FetchOptions into a bson predicate. timeField is the
// entity's own timestamp field; empty means the kind has no time axis.
func filter(opts metrics.FetchOptions, timeField string) bson.M {
	f := bson.M{}
	if timeField != "" && (opts.Start != nil || opts.End != nil) {
		window := bson.M{}
		if opts.Start != nil {
			window["$gte"] = *opts.Start
		}
		if opts.End != nil {
			window["$lt"] = *opts.End
		}
		f[timeField] = window
	}
	if opts.StoreID != nil {
		f["store_id"] = *opts.StoreID
	}
	return f
}

func (p *MongoPort) find(ctx context.Context, kind string, predicate bson.M, out interface{}) error {
	cursor, err := p.db.Collection(kind).Find(ctx, predicate)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}

func (p *MongoPort) Sales(ctx context.Context, opts metrics.FetchOptions) ([]metrics.SaleRecord, error) {
	var out []metrics.SaleRecord
	err := p.find(ctx, metrics.KindSales, filter(opts, "occurred_at"), &out)
	return out, err
}

func (p *MongoPort) LineItems(ctx context.Context, opts metrics.FetchOptions) ([]metrics.LineItem, error) {
	var out []metrics.LineItem
	err := p.find(ctx, metrics.KindLineItems, filter(opts, ""), &out)
	return out, err
}

func (p *MongoPort) Products(ctx context.Context, opts metrics.FetchOptions) ([]metrics.Product, error) {
	var out []metrics.Product
	err := p.find(ctx, metrics.KindProducts, filter(opts, ""), &out)
	return out, err
}

func (p *MongoPort) Stores(ctx context.Context, opts metrics.FetchOptions) ([]metrics.Store, error) {
	var out []metrics.Store
	// Stores are the store collection itself; the store filter does not apply.
	err := p.find(ctx, metrics.KindStores, bson.M{}, &out)
	return out, err
}

func (p *MongoPort) Clients(ctx context.Context, opts metrics.FetchOptions) ([]metrics.Client, error) {
	var out []metrics.Client
	err := p.find(ctx, metrics.KindClients, filter(opts, ""), &out)
	return out, err
}

func (p *MongoPort) Sellers(ctx context.Context, opts metrics.FetchOptions) ([]metrics.Seller, error) {
	var out []metrics.Seller
	err := p.find(ctx, metrics.KindSellers, filter(opts, ""), &out)
	return out, err
}

func (p *MongoPort) Reservations(ctx context.Context, opts metrics.FetchOptions) ([]metrics.Reservation, error) {
	var out []metrics.Reservation
	err := p.find(ctx, metrics.KindReservations, filter(opts, "created_at"), &out)
	return out, err
}

func (p *MongoPort) Tickets(ctx context.Context, opts metrics.FetchOptions) ([]metrics.ServiceTicket, error) {
	var out []metrics.ServiceTicket
	err := p.find(ctx, metrics.KindTickets, filter(opts, "created_at"), &out)
	return out, err
}
