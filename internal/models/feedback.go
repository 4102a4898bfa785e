package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Overall sentiment of a feedback entry.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

func ValidSentiment(s string) bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

// Rating bounds, inclusive.
const (
	MinRating = 1
	MaxRating = 5
)

// Feedback is immutable once created; only the acknowledgement flag
// flips, exactly once, by the receiver's explicit action.
type Feedback struct {
	ID               bson.ObjectID `bson:"_id,omitempty" json:"id"`
	GiverID          bson.ObjectID `bson:"giver_id" json:"giver_id"`
	ReceiverID       bson.ObjectID `bson:"receiver_id" json:"receiver_id"`
	Strengths        string        `bson:"strengths" json:"strengths"`
	AreasToImprove   string        `bson:"areas_to_improve" json:"areas_to_improve"`
	OverallSentiment string        `bson:"overall_sentiment" json:"overall_sentiment"`
	Rating           int           `bson:"rating" json:"rating"`
	IsAcknowledged   bool          `bson:"is_acknowledged" json:"is_acknowledged"`
	AcknowledgedAt   *time.Time    `bson:"acknowledged_at,omitempty" json:"acknowledged_at,omitempty"`
	CreatedAt        time.Time     `bson:"created_at" json:"created_at"`
}
