package repository

import (
	"context"
	"time"

	"teampulse-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Store contracts. Handlers depend on these so tests can swap in
// in-memory implementations; the Mongo repos in this package are the
// production ones. Lookups return (nil, nil) when the entity is absent.

type UserStore interface {
	// Create persists a new user. Returns models.ErrDuplicateUsername
	// when the username is taken.
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	ListAll(ctx context.Context) ([]models.User, error)
	ListByRole(ctx context.Context, role string) ([]models.User, error)
	// ListTeam returns the developers whose manager edge points at managerID.
	ListTeam(ctx context.Context, managerID bson.ObjectID) ([]models.User, error)
	// SetManager atomically overwrites the developer's manager edge.
	SetManager(ctx context.Context, developerID bson.ObjectID, managerID *bson.ObjectID) error
}

type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	FindBySessionID(ctx context.Context, sessionID string) (*models.Session, error)
	Revoke(ctx context.Context, sessionID string) error
}

type FeedbackStore interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Feedback, error)
	// Acknowledge flips the flag exactly once. A second call returns the
	// record unchanged; an unknown id returns (nil, nil).
	Acknowledge(ctx context.Context, id bson.ObjectID, at time.Time) (*models.Feedback, error)
	// ListByReceiver returns feedback addressed to userID, newest first.
	ListByReceiver(ctx context.Context, userID bson.ObjectID) ([]models.Feedback, error)
	// ListByGiver returns feedback written by userID, newest first.
	ListByGiver(ctx context.Context, userID bson.ObjectID) ([]models.Feedback, error)
}
