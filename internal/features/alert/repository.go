package alert

import (
	"context"
	"errors"
	"time"

	"go-retail/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AlertRepository interface {
	Create(ctx context.Context, rule *AlertRule) error
	Get(ctx context.Context, id string) (*AlertRule, error)
	List(ctx context.Context, activeOnly bool) ([]AlertRule, error)
	Update(ctx context.Context, id string, rule *AlertRule) error
	Delete(ctx context.Context, id string) error

	InsertEvent(ctx context.Context, event *AlertEvent) error
	ListEvents(ctx context.Context, limit int64) ([]AlertEvent, error)
}

type AlertRepositoryImpl struct {
	rules  *mongo.Collection
	events *mongo.Collection
}

func NewAlertRepository(db *database.MongodbDB) AlertRepository {
	return &AlertRepositoryImpl{
		rules:  db.DB.Collection("alert_rules"),
		events: db.DB.Collection("alert_events"),
	}
}

func (r *AlertRepositoryImpl) Create(ctx context.Context, rule *AlertRule) error {
	if rule.ID.IsZero() {
		rule.ID = primitive.NewObjectID()
	}
	rule.CreatedAt = time.Now()
	rule.UpdatedAt = time.Now()

	_, err := r.rules.InsertOne(ctx, rule)
	return err
}

func (r *AlertRepositoryImpl) Get(ctx context.Context, id string) (*AlertRule, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var rule AlertRule
	err = r.rules.FindOne(ctx, bson.M{"_id": oid}).Decode(&rule)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New("alert rule not found")
		}
		return nil, err
	}
	return &rule, nil
}

func (r *AlertRepositoryImpl) List(ctx context.Context, activeOnly bool) ([]AlertRule, error) {
	predicate := bson.M{}
	if activeOnly {
		predicate["active"] = true
	}

	cursor, err := r.rules.Find(ctx, predicate)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rules []AlertRule
	if err = cursor.All(ctx, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *AlertRepositoryImpl) Update(ctx context.Context, id string, rule *AlertRule) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	rule.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"name":       rule.Name,
			"script":     rule.Script,
			"active":     rule.Active,
			"updated_at": rule.UpdatedAt,
		},
	}

	result, err := r.rules.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errors.New("alert rule not found")
	}
	return nil
}

func (r *AlertRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	result, err := r.rules.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return errors.New("alert rule not found")
	}
	return nil
}

func (r *AlertRepositoryImpl) InsertEvent(ctx context.Context, event *AlertEvent) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	_, err := r.events.InsertOne(ctx, event)
	return err
}

func (r *AlertRepositoryImpl) ListEvents(ctx context.Context, limit int64) ([]AlertEvent, error) {
	opts := options.Find().
		SetSort(bson.M{"triggered_at": -1}).
		SetLimit(limit)

	cursor, err := r.events.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []AlertEvent
	if err = cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
