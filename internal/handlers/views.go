package handlers

import (
	"context"

	"teampulse-backend/internal/models"
	"teampulse-backend/internal/repository"
	"teampulse-backend/internal/stats"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Response shapes for user-facing payloads. Users carry a rating — the
// average of their received feedback, defaulting to 5 — and, where the
// client shows it, their manager's card.

type ManagerView struct {
	ID       bson.ObjectID `json:"id"`
	Username string        `json:"username"`
	FullName string        `json:"full_name"`
	Rating   float64       `json:"rating"`
}

type UserView struct {
	ID       bson.ObjectID `json:"id"`
	Username string        `json:"username"`
	FullName string        `json:"full_name"`
	Role     string        `json:"role"`
	Rating   float64       `json:"rating"`
	Manager  *ManagerView  `json:"manager"`
}

type GiverInfo struct {
	ID       bson.ObjectID `json:"id"`
	FullName string        `json:"full_name"`
}

type FeedbackView struct {
	models.Feedback
	Giver *GiverInfo `json:"giver,omitempty"`
}

// ratingFor computes the profile rating for a user from their received
// feedback.
func ratingFor(ctx context.Context, feedbacks repository.FeedbackStore, userID bson.ObjectID) (float64, error) {
	received, err := feedbacks.ListByReceiver(ctx, userID)
	if err != nil {
		return 0, err
	}
	return stats.RatingOrDefault(stats.Summarize(received)), nil
}

func managerView(m *models.User, rating float64) *ManagerView {
	return &ManagerView{
		ID:       m.ID,
		Username: m.Username,
		FullName: m.FullName,
		Rating:   rating,
	}
}

func feedbackViews(ctx context.Context, users repository.UserStore, feedbacks []models.Feedback) ([]FeedbackView, error) {
	// Givers repeat across a feedback list; resolve each one once.
	givers := map[bson.ObjectID]*models.User{}
	views := make([]FeedbackView, 0, len(feedbacks))
	for _, fb := range feedbacks {
		giver, ok := givers[fb.GiverID]
		if !ok {
			var err error
			giver, err = users.FindByID(ctx, fb.GiverID)
			if err != nil {
				return nil, err
			}
			givers[fb.GiverID] = giver
		}
		view := FeedbackView{Feedback: fb}
		if giver != nil {
			view.Giver = &GiverInfo{ID: giver.ID, FullName: giver.FullName}
		}
		views = append(views, view)
	}
	return views, nil
}
