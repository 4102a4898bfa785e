package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"teampulse-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// MustCreateUser seeds a user and fails the test on error.
func MustCreateUser(t *testing.T, store *MemUserStore, username, role string, managerID *bson.ObjectID) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		FullName:     "Test " + username,
		PasswordHash: "x",
		Role:         role,
		ManagerID:    managerID,
	}
	if err := store.Create(context.Background(), user); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

// MustCreateFeedback seeds a feedback entry with an explicit creation
// time so ordering tests can control recency.
func MustCreateFeedback(t *testing.T, store *MemFeedbackStore, giver, receiver bson.ObjectID, rating int, sentiment string, createdAt time.Time) *models.Feedback {
	t.Helper()
	fb := &models.Feedback{
		GiverID:          giver,
		ReceiverID:       receiver,
		Strengths:        "Great communicator",
		AreasToImprove:   "Could delegate more",
		OverallSentiment: sentiment,
		Rating:           rating,
		CreatedAt:        createdAt,
	}
	if err := store.Create(context.Background(), fb); err != nil {
		t.Fatalf("create feedback: %v", err)
	}
	return fb
}

// CaptureNotifier records published messages for assertions.
type CaptureNotifier struct {
	mu       sync.Mutex
	Messages []string
}

func (n *CaptureNotifier) Publish(ctx context.Context, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Messages = append(n.Messages, message)
	return nil
}
