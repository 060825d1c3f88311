package auth

import (
	"context"

	"go-retail/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type OperatorRepository interface {
	Create(ctx context.Context, operator *Operator) error
	FindByUsername(ctx context.Context, username string) (*Operator, error)
}

type OperatorRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewOperatorRepository(mongodb *database.MongodbDB) OperatorRepository {
	return &OperatorRepositoryImpl{
		Collection: mongodb.DB.Collection("operators"),
	}
}

func (r *OperatorRepositoryImpl) Create(ctx context.Context, operator *Operator) error {
	_, err := r.Collection.InsertOne(ctx, operator)
	return err
}

func (r *OperatorRepositoryImpl) FindByUsername(ctx context.Context, username string) (*Operator, error) {
	var operator Operator
	err := r.Collection.FindOne(ctx, bson.M{"username": username}).Decode(&operator)
	if err != nil {
		return nil, err
	}
	return &operator, nil
}
