// Package testutil provides in-memory implementations of the
// repository store interfaces for handler and middleware tests.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"teampulse-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// MemUserStore is an in-memory UserStore.
type MemUserStore struct {
	mu    sync.Mutex
	users map[bson.ObjectID]models.User
}

func NewMemUserStore() *MemUserStore {
	return &MemUserStore{users: map[bson.ObjectID]models.User{}}
}

func (s *MemUserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == user.Username {
			return models.ErrDuplicateUsername
		}
	}
	user.ID = bson.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	s.users[user.ID] = *user
	return nil
}

func (s *MemUserStore) FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (s *MemUserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (s *MemUserStore) ListAll(ctx context.Context) ([]models.User, error) {
	return s.list(func(models.User) bool { return true }), nil
}

func (s *MemUserStore) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	return s.list(func(u models.User) bool { return u.Role == role }), nil
}

func (s *MemUserStore) ListTeam(ctx context.Context, managerID bson.ObjectID) ([]models.User, error) {
	return s.list(func(u models.User) bool { return u.ManagerID != nil && *u.ManagerID == managerID }), nil
}

func (s *MemUserStore) SetManager(ctx context.Context, developerID bson.ObjectID, managerID *bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[developerID]
	if !ok {
		return models.ErrUnknownUser
	}
	if managerID != nil {
		id := *managerID
		u.ManagerID = &id
	} else {
		u.ManagerID = nil
	}
	u.UpdatedAt = time.Now()
	s.users[developerID] = u
	return nil
}

func (s *MemUserStore) list(keep func(models.User) bool) []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.User{}
	for _, u := range s.users {
		if keep(u) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

// MemSessionStore is an in-memory SessionStore.
type MemSessionStore struct {
	mu       sync.Mutex
	sessions map[string]models.Session
}

func NewMemSessionStore() *MemSessionStore {
	return &MemSessionStore{sessions: map[string]models.Session{}}
}

func (s *MemSessionStore) Create(ctx context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session.ID = bson.NewObjectID()
	session.CreatedAt = time.Now()
	s.sessions[session.SessionID] = *session
	return nil
}

func (s *MemSessionStore) FindBySessionID(ctx context.Context, sessionID string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[sessionID]; ok {
		return &sess, nil
	}
	return nil, nil
}

func (s *MemSessionStore) Revoke(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[sessionID]; ok {
		sess.Revoked = true
		s.sessions[sessionID] = sess
	}
	return nil
}

// MemFeedbackStore is an in-memory FeedbackStore. Lists are returned
// newest first, matching the Mongo repo's sort.
type MemFeedbackStore struct {
	mu        sync.Mutex
	feedbacks map[bson.ObjectID]models.Feedback
}

func NewMemFeedbackStore() *MemFeedbackStore {
	return &MemFeedbackStore{feedbacks: map[bson.ObjectID]models.Feedback{}}
}

func (s *MemFeedbackStore) Create(ctx context.Context, feedback *models.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	feedback.ID = bson.NewObjectID()
	if feedback.CreatedAt.IsZero() {
		feedback.CreatedAt = time.Now()
	}
	s.feedbacks[feedback.ID] = *feedback
	return nil
}

func (s *MemFeedbackStore) FindByID(ctx context.Context, id bson.ObjectID) (*models.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fb, ok := s.feedbacks[id]; ok {
		return &fb, nil
	}
	return nil, nil
}

func (s *MemFeedbackStore) Acknowledge(ctx context.Context, id bson.ObjectID, at time.Time) (*models.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fb, ok := s.feedbacks[id]
	if !ok {
		return nil, nil
	}
	if !fb.IsAcknowledged {
		fb.IsAcknowledged = true
		fb.AcknowledgedAt = &at
		s.feedbacks[id] = fb
	}
	return &fb, nil
}

func (s *MemFeedbackStore) ListByReceiver(ctx context.Context, userID bson.ObjectID) ([]models.Feedback, error) {
	return s.list(func(fb models.Feedback) bool { return fb.ReceiverID == userID }), nil
}

func (s *MemFeedbackStore) ListByGiver(ctx context.Context, userID bson.ObjectID) ([]models.Feedback, error) {
	return s.list(func(fb models.Feedback) bool { return fb.GiverID == userID }), nil
}

func (s *MemFeedbackStore) list(keep func(models.Feedback) bool) []models.Feedback {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Feedback{}
	for _, fb := range s.feedbacks {
		if keep(fb) {
			out = append(out, fb)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
