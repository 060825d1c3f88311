package auth

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Operator is an account allowed to call the dashboard API. Accounts live in
// the engine's own database, never in the source-of-truth store the metrics
// are read from.
type Operator struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Username     string             `json:"username" bson:"username"`
	Email        string             `json:"email" bson:"email"`
	PasswordHash string             `json:"-" bson:"password_hash"`
	Roles        []string           `json:"roles" bson:"roles"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}
