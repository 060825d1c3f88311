package metrics

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SaleRecord is one commercial transaction as stored in the sales collection.
type SaleRecord struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ClientID    primitive.ObjectID `json:"client_id" bson:"client_id,omitempty"`
	StoreID     primitive.ObjectID `json:"store_id" bson:"store_id,omitempty"`
	SellerID    primitive.ObjectID `json:"seller_id" bson:"seller_id,omitempty"`
	TotalAmount float64            `json:"total_amount" bson:"total_amount"`
	Status      string             `json:"status" bson:"status"`
	OccurredAt  time.Time          `json:"occurred_at" bson:"occurred_at"`
}

// LineItem belongs to exactly one SaleRecord. The sum of line items need not
// reconcile with the sale's TotalAmount (sale-level discounts exist); that is
// accepted, not validated.
type LineItem struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	SaleID         primitive.ObjectID `json:"sale_id" bson:"sale_id"`
	ProductID      primitive.ObjectID `json:"product_id" bson:"product_id"`
	Quantity       int                `json:"quantity" bson:"quantity"`
	UnitPrice      float64            `json:"unit_price" bson:"unit_price"`
	DiscountAmount float64            `json:"discount_amount" bson:"discount_amount"`
}

type Product struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name       string             `json:"name" bson:"name"`
	UnitCost   float64            `json:"unit_cost" bson:"unit_cost"`
	CategoryID primitive.ObjectID `json:"category_id" bson:"category_id,omitempty"`
}

// Store carries no brand field; the brand group is derived from Name by
// substring match at aggregation time.
type Store struct {
	ID   primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name string             `json:"name" bson:"name"`
}

type Client struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name"`
	Email         string             `json:"email" bson:"email"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	LoyaltyPoints int                `json:"loyalty_points" bson:"loyalty_points"`
	TotalSpent    float64            `json:"total_spent" bson:"total_spent"`
}

type Seller struct {
	ID      primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name    string             `json:"name" bson:"name"`
	Email   string             `json:"email" bson:"email"`
	StoreID primitive.ObjectID `json:"store_id" bson:"store_id,omitempty"`
}

type Reservation struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	StoreID     primitive.ObjectID `json:"store_id" bson:"store_id,omitempty"`
	ClientID    primitive.ObjectID `json:"client_id" bson:"client_id,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	TotalAmount float64            `json:"total_amount" bson:"total_amount"`
}

// ServiceTicket status is free text at the source and must be normalized
// before counting.
type ServiceTicket struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	StoreID   primitive.ObjectID `json:"store_id" bson:"store_id,omitempty"`
	Status    string             `json:"status" bson:"status"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// StoreGroup is a brand-level roll-up of individual stores.
type StoreGroup struct {
	GroupName        string   `json:"group_name"`
	MemberStoreIDs   []string `json:"member_store_ids"`
	AggregateRevenue float64  `json:"aggregate_revenue"`
	AggregateCount   int      `json:"aggregate_count"`
}

// TimeBucket is one contiguous slice of the requested window. Buckets never
// overlap and every record inside the window falls into exactly one.
type TimeBucket struct {
	Label          string    `json:"label"`
	StartInclusive time.Time `json:"start"`
	EndExclusive   time.Time `json:"end"`
	Count          int       `json:"count"`
	Revenue        float64   `json:"revenue"`
}

// RankedEntry is one row of a top-N / bottom-N list. Ordering is
// non-increasing by MetricValue with ties broken by first-seen input order.
type RankedEntry struct {
	Key             string  `json:"key"`
	Label           string  `json:"label"`
	MetricValue     float64 `json:"metric_value"`
	SecondaryMetric float64 `json:"secondary_metric"`
}

// Window is the half-open [Start, End) interval a snapshot covers.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overview holds the scalar totals shown at the top of the dashboard.
type Overview struct {
	TotalRevenue     float64 `json:"total_revenue"`
	SaleCount        int     `json:"sale_count"`
	AverageBasket    float64 `json:"average_basket"`
	ReservationCount int     `json:"reservation_count"`
	ReservationValue float64 `json:"reservation_value"`
	TicketCount      int     `json:"ticket_count"`
	ClientCount      int     `json:"client_count"`
}

// OperationalSnapshot is the sole output contract of the engine: a plain,
// serializable structure a UI or export layer can consume without knowing how
// it was computed. It is created fresh on every build and never mutated.
type OperationalSnapshot struct {
	GeneratedAt time.Time `json:"generated_at"`
	Window      Window    `json:"window"`
	StoreFilter string    `json:"store_filter,omitempty"`

	Overview     Overview     `json:"overview"`
	StoreGroups  []StoreGroup `json:"store_groups"`
	RevenueTrend []TimeBucket `json:"revenue_trend"`
	TicketTrend  []TimeBucket `json:"ticket_trend"`

	TopSellers    []RankedEntry `json:"top_sellers"`
	BottomSellers []RankedEntry `json:"bottom_sellers"`
	TopClients    []RankedEntry `json:"top_clients"`
	AtRiskClients []RankedEntry `json:"at_risk_clients"`
	TopProducts   []RankedEntry `json:"top_products"`
	TopMovers     []RankedEntry `json:"top_movers"`
	SlowMovers    []RankedEntry `json:"slow_movers"`

	// TopReservationClients ranks clients by the value of their reservations
	// in the window; TicketsByStore counts the window's tickets per store.
	TopReservationClients []RankedEntry `json:"top_reservation_clients"`
	TicketsByStore        []RankedEntry `json:"tickets_by_store"`

	TicketStatus map[CanonicalStatus]int `json:"ticket_status"`

	// Degraded lists the entity kinds whose fetch failed and were replaced by
	// an empty collection, so the presentation layer can show a notice.
	Degraded []string `json:"degraded,omitempty"`
}

// SnapshotFilters describes one snapshot request.
type SnapshotFilters struct {
	Start   time.Time
	End     time.Time
	StoreID *primitive.ObjectID
}
