package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"go-retail/internal/config"
	"go-retail/internal/features/metrics"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Seeds a demo dataset across all eight raw collections so the dashboard has
// something to aggregate locally. Not idempotent: run against a fresh DB.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.DBName)
	now := time.Now()

	fmt.Println("Seeding demo data...")

	stores := []metrics.Store{
		{ID: primitive.NewObjectID(), Name: "Sillage Plateau"},
		{ID: primitive.NewObjectID(), Name: "Sillage Almadies"},
		{ID: primitive.NewObjectID(), Name: "Gemaber Sea"},
		{ID: primitive.NewObjectID(), Name: "Corner Shop Ngor"},
	}
	for _, s := range stores {
		mustInsert(ctx, db, metrics.KindStores, s)
	}

	sellers := make([]metrics.Seller, 0, 6)
	for i := 0; i < 6; i++ {
		seller := metrics.Seller{
			ID:      primitive.NewObjectID(),
			Name:    fmt.Sprintf("Seller %02d", i+1),
			Email:   fmt.Sprintf("seller%02d@go-retail.local", i+1),
			StoreID: stores[i%len(stores)].ID,
		}
		sellers = append(sellers, seller)
		mustInsert(ctx, db, metrics.KindSellers, seller)
	}

	clients := make([]metrics.Client, 0, 20)
	for i := 0; i < 20; i++ {
		c := metrics.Client{
			ID:            primitive.NewObjectID(),
			Name:          fmt.Sprintf("Client %02d", i+1),
			Email:         fmt.Sprintf("client%02d@example.com", i+1),
			CreatedAt:     now.AddDate(0, 0, -rand.Intn(365)),
			LoyaltyPoints: rand.Intn(500),
		}
		clients = append(clients, c)
		mustInsert(ctx, db, metrics.KindClients, c)
	}

	products := make([]metrics.Product, 0, 10)
	for i := 0; i < 10; i++ {
		p := metrics.Product{
			ID:       primitive.NewObjectID(),
			Name:     fmt.Sprintf("Fragrance %02d", i+1),
			UnitCost: 10 + float64(rand.Intn(90)),
		}
		products = append(products, p)
		mustInsert(ctx, db, metrics.KindProducts, p)
	}

	// Sales spread over the trailing 60 days, with line items.
	for i := 0; i < 200; i++ {
		sale := metrics.SaleRecord{
			ID:         primitive.NewObjectID(),
			ClientID:   clients[rand.Intn(len(clients))].ID,
			StoreID:    stores[rand.Intn(len(stores))].ID,
			SellerID:   sellers[rand.Intn(len(sellers))].ID,
			Status:     "paid",
			OccurredAt: now.Add(-time.Duration(rand.Intn(60*24)) * time.Hour),
		}

		lines := 1 + rand.Intn(3)
		for j := 0; j < lines; j++ {
			product := products[rand.Intn(len(products))]
			item := metrics.LineItem{
				ID:        primitive.NewObjectID(),
				SaleID:    sale.ID,
				ProductID: product.ID,
				Quantity:  1 + rand.Intn(4),
				UnitPrice: product.UnitCost * 1.6,
			}
			sale.TotalAmount += item.UnitPrice * float64(item.Quantity)
			mustInsert(ctx, db, metrics.KindLineItems, item)
		}
		mustInsert(ctx, db, metrics.KindSales, sale)
	}

	for i := 0; i < 30; i++ {
		r := metrics.Reservation{
			ID:          primitive.NewObjectID(),
			StoreID:     stores[rand.Intn(len(stores))].ID,
			ClientID:    clients[rand.Intn(len(clients))].ID,
			CreatedAt:   now.Add(-time.Duration(rand.Intn(30*24)) * time.Hour),
			TotalAmount: 20 + float64(rand.Intn(300)),
		}
		mustInsert(ctx, db, metrics.KindReservations, r)
	}

	// Ticket statuses deliberately messy: the engine normalizes them.
	rawStatuses := []string{"Terminée", "annulee", "en cours", "nouvelle", "En Attente", "resolved", "diagnostic"}
	for i := 0; i < 40; i++ {
		t := metrics.ServiceTicket{
			ID:        primitive.NewObjectID(),
			StoreID:   stores[rand.Intn(len(stores))].ID,
			Status:    rawStatuses[rand.Intn(len(rawStatuses))],
			CreatedAt: now.Add(-time.Duration(rand.Intn(30*24)) * time.Hour),
		}
		mustInsert(ctx, db, metrics.KindTickets, t)
	}

	fmt.Println("Done.")
}

func mustInsert(ctx context.Context, db *mongo.Database, collection string, doc interface{}) {
	if _, err := db.Collection(collection).InsertOne(ctx, doc); err != nil {
		log.Fatalf("failed to insert into %s: %v", collection, err)
	}
}
