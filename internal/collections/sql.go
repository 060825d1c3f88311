package collections

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"go-retail/internal/features/metrics"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SQLPort is the secondary Collection Access Port for deployments where the
// raw collections live in an external relational system. Ids are stored as
// 24-char hex strings and mapped back onto object ids; a malformed id decodes
// to the zero id and resolves downstream like any dangling reference.
type SQLPort struct {
	dbType string // "postgresql" or "mysql"
	db     *sql.DB
}

func NewSQLPort(dbType, dsn string) (*SQLPort, error) {
	driver := dbType
	if dbType == "postgresql" {
		driver = "postgres"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return &SQLPort{dbType: dbType, db: db}, nil
}

func (p *SQLPort) Close() error {
	return p.db.Close()
}

// where builds the predicate for FetchOptions. timeField empty means the
// table has no time axis.
func (p *SQLPort) where(opts metrics.FetchOptions, timeField string) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	if timeField != "" && opts.Start != nil {
		clauses = append(clauses, timeField+" >= ?")
		args = append(args, *opts.Start)
	}
	if timeField != "" && opts.End != nil {
		clauses = append(clauses, timeField+" < ?")
		args = append(args, *opts.End)
	}
	if opts.StoreID != nil {
		clauses = append(clauses, "store_id = ?")
		args = append(args, opts.StoreID.Hex())
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// rebind rewrites ? placeholders to $1..$n for postgres.
func (p *SQLPort) rebind(query string) string {
	if p.dbType != "postgresql" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (p *SQLPort) query(ctx context.Context, query string, args []interface{}) (*sql.Rows, error) {
	rows, err := p.db.QueryContext(ctx, p.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return rows, nil
}

func hexID(raw string) primitive.ObjectID {
	oid, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID
	}
	return oid
}

func (p *SQLPort) Sales(ctx context.Context, opts metrics.FetchOptions) ([]metrics.SaleRecord, error) {
	clause, args := p.where(opts, "occurred_at")
	rows, err := p.query(ctx, "SELECT id, client_id, store_id, seller_id, total_amount, status, occurred_at FROM sales"+clause, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []metrics.SaleRecord
	for rows.Next() {
		var id, clientID, storeID, sellerID string
		var rec metrics.SaleRecord
		if err := rows.Scan(&id, &clientID, &storeID, &sellerID, &rec.TotalAmount, &rec.Status, &rec.OccurredAt); err != nil {
			return nil, err
		}
		rec.ID, rec.ClientID, rec.StoreID, rec.SellerID = hexID(id), hexID(clientID), hexID(storeID), hexID(sellerID)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (p *SQLPort) LineItems(ctx context.Context, opts metrics.FetchOptions) ([]metrics.LineItem, error) {
	clause, args := p.where(opts, "")
	rows, err := p.query(ctx, "SELECT id, sale_id, product_id, quantity, unit_price, discount_amount FROM line_items"+clause, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []metrics.LineItem
	for rows.Next() {
		var id, saleID, productID string
		var item metrics.LineItem
		if err := rows.Scan(&id, &saleID, &productID, &item.Quantity, &item.UnitPrice, &item.DiscountAmount); err != nil {
			return nil, err
		}
		item.ID, item.SaleID, item.ProductID = hexID(id), hexID(saleID), hexID(productID)
		out = append(out, item)
	}
	return out, rows.Err()
}

func (p *SQLPort) Products(ctx context.Context, opts metrics.FetchOptions) ([]metrics.Product, error) {
	rows, err := p.query(ctx, "SELECT id, name, unit_cost, category_id FROM products", nil)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []metrics.Product
	for rows.Next() {
		var id, categoryID string
		var product metrics.Product
		if err := rows.Scan(&id, &product.Name, &product.UnitCost, &categoryID); err != nil {
			return nil, err
		}
		product.ID, product.CategoryID = hexID(id), hexID(categoryID)
		out = append(out, product)
	}
	return out, rows.Err()
}

func (p *SQLPort) Stores(ctx context.Context, opts metrics.FetchOptions) ([]metrics.Store, error) {
	rows, err := p.query(ctx, "SELECT id, name FROM stores", nil)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []metrics.Store
	for rows.Next() {
		var id string
		var store metrics.Store
		if err := rows.Scan(&id, &store.Name); err != nil {
			return nil, err
		}
		store.ID = hexID(id)
		out = append(out, store)
	}
	return out, rows.Err()
}

func (p *SQLPort) Clients(ctx context.Context, opts metrics.FetchOptions) ([]metrics.Client, error) {
	rows, err := p.query(ctx, "SELECT id, name, email, created_at, loyalty_points, total_spent FROM clients", nil)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []metrics.Client
	for rows.Next() {
		var id string
		var client metrics.Client
		if err := rows.Scan(&id, &client.Name, &client.Email, &client.CreatedAt, &client.LoyaltyPoints, &client.TotalSpent); err != nil {
			return nil, err
		}
		client.ID = hexID(id)
		out = append(out, client)
	}
	return out, rows.Err()
}

func (p *SQLPort) Sellers(ctx context.Context, opts metrics.FetchOptions) ([]metrics.Seller, error) {
	rows, err := p.query(ctx, "SELECT id, name, email, store_id FROM sellers", nil)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []metrics.Seller
	for rows.Next() {
		var id, storeID string
		var seller metrics.Seller
		if err := rows.Scan(&id, &seller.Name, &seller.Email, &storeID); err != nil {
			return nil, err
		}
		seller.ID, seller.StoreID = hexID(id), hexID(storeID)
		out = append(out, seller)
	}
	return out, rows.Err()
}

func (p *SQLPort) Reservations(ctx context.Context, opts metrics.FetchOptions) ([]metrics.Reservation, error) {
	clause, args := p.where(opts, "created_at")
	rows, err := p.query(ctx, "SELECT id, store_id, client_id, created_at, total_amount FROM reservations"+clause, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []metrics.Reservation
	for rows.Next() {
		var id, storeID, clientID string
		var r metrics.Reservation
		if err := rows.Scan(&id, &storeID, &clientID, &r.CreatedAt, &r.TotalAmount); err != nil {
			return nil, err
		}
		r.ID, r.StoreID, r.ClientID = hexID(id), hexID(storeID), hexID(clientID)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (p *SQLPort) Tickets(ctx context.Context, opts metrics.FetchOptions) ([]metrics.ServiceTicket, error) {
	clause, args := p.where(opts, "created_at")
	rows, err := p.query(ctx, "SELECT id, store_id, status, created_at FROM service_tickets"+clause, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []metrics.ServiceTicket
	for rows.Next() {
		var id, storeID string
		var t metrics.ServiceTicket
		if err := rows.Scan(&id, &storeID, &t.Status, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.ID, t.StoreID = hexID(id), hexID(storeID)
		out = append(out, t)
	}
	return out, rows.Err()
}
