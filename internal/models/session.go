package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Session is the server-side record behind an issued access token.
// The token itself is a JWT; its jti claim points at SessionID, so
// logout can revoke a token before its expiry.
type Session struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID string        `bson:"session_id" json:"session_id"`
	UserID    bson.ObjectID `bson:"user_id" json:"user_id"`
	ExpiresAt time.Time     `bson:"expires_at" json:"expires_at"`
	Revoked   bool          `bson:"revoked" json:"revoked"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
}

func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
