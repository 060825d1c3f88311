package alert

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AlertRule is an operator-authored threshold script evaluated against every
// freshly built snapshot. The script sees the overview scalars as globals and
// must set `triggered` (bool); it may set `message` (string).
//
// Example: `triggered = average_basket < 50.0 && sale_count > 0`
type AlertRule struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Script    string             `json:"script" bson:"script"`
	Active    bool               `json:"active" bson:"active"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// AlertEvent records one rule firing.
type AlertEvent struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RuleID      primitive.ObjectID `json:"rule_id" bson:"rule_id"`
	RuleName    string             `json:"rule_name" bson:"rule_name"`
	Message     string             `json:"message" bson:"message"`
	TriggeredAt time.Time          `json:"triggered_at" bson:"triggered_at"`
}
