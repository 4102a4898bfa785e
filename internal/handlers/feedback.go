package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"teampulse-backend/internal/authz"
	"teampulse-backend/internal/middleware"
	"teampulse-backend/internal/models"
	"teampulse-backend/internal/notify"
	"teampulse-backend/internal/repository"
	"teampulse-backend/internal/stats"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type FeedbackHandler struct {
	feedbacks repository.FeedbackStore
	users     repository.UserStore
	notifier  notify.Notifier
}

func NewFeedbackHandler(feedbacks repository.FeedbackStore, users repository.UserStore, notifier notify.Notifier) *FeedbackHandler {
	return &FeedbackHandler{
		feedbacks: feedbacks,
		users:     users,
		notifier:  notifier,
	}
}

// --- Request types ---

type CreateFeedbackRequest struct {
	TargetUserID     string `json:"target_user_id"`
	Strengths        string `json:"strengths"`
	AreasToImprove   string `json:"areas_to_improve"`
	OverallSentiment string `json:"overall_sentiment"`
	Rating           int    `json:"rating"`
}

type AcknowledgeFeedbackRequest struct {
	FeedbackID string `json:"feedback_id"`
}

// --- POST /api/feedback/create ---

func (h *FeedbackHandler) CreateFeedback(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUser(r.Context())
	if actor == nil {
		writeError(w, http.StatusUnauthorized, models.ErrUnauthenticated.Error())
		return
	}

	var req CreateFeedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Strengths = strings.TrimSpace(req.Strengths)
	req.AreasToImprove = strings.TrimSpace(req.AreasToImprove)

	if req.Strengths == "" || req.AreasToImprove == "" {
		writeError(w, http.StatusBadRequest, "strengths and areas_to_improve are required")
		return
	}
	if req.Rating < models.MinRating || req.Rating > models.MaxRating {
		writeError(w, http.StatusBadRequest, models.ErrInvalidRating.Error())
		return
	}
	if !models.ValidSentiment(req.OverallSentiment) {
		writeError(w, http.StatusBadRequest, models.ErrInvalidSentiment.Error())
		return
	}

	targetID, err := bson.ObjectIDFromHex(req.TargetUserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid target user ID")
		return
	}

	target, err := h.users.FindByID(r.Context(), targetID)
	if err != nil {
		log.Printf("Error finding target user: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if target == nil {
		writeError(w, http.StatusNotFound, "target user not found")
		return
	}
	if !authz.CanSubmitFeedback(actor, target) {
		writeError(w, http.StatusBadRequest, models.ErrSelfFeedback.Error())
		return
	}

	feedback := &models.Feedback{
		GiverID:          actor.ID,
		ReceiverID:       target.ID,
		Strengths:        req.Strengths,
		AreasToImprove:   req.AreasToImprove,
		OverallSentiment: req.OverallSentiment,
		Rating:           req.Rating,
	}

	if err := h.feedbacks.Create(r.Context(), feedback); err != nil {
		log.Printf("Error creating feedback: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to submit feedback")
		return
	}

	// Notify the team channel in the background (non-blocking, best-effort)
	go func() {
		message := formatNotification(actor, target, feedback)
		if err := h.notifier.Publish(context.Background(), message); err != nil {
			log.Printf("Error publishing notification: %v", err)
		}
	}()

	view := FeedbackView{
		Feedback: *feedback,
		Giver:    &GiverInfo{ID: actor.ID, FullName: actor.FullName},
	}
	writeJSON(w, http.StatusCreated, view)
}

// --- POST /api/feedback/acknowledge ---

func (h *FeedbackHandler) AcknowledgeFeedback(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUser(r.Context())
	if actor == nil {
		writeError(w, http.StatusUnauthorized, models.ErrUnauthenticated.Error())
		return
	}

	var req AcknowledgeFeedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := bson.ObjectIDFromHex(req.FeedbackID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid feedback ID")
		return
	}

	feedback, err := h.feedbacks.FindByID(r.Context(), id)
	if err != nil {
		log.Printf("Error finding feedback: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if feedback == nil {
		writeError(w, http.StatusNotFound, "feedback not found")
		return
	}
	if feedback.ReceiverID != actor.ID {
		writeError(w, http.StatusForbidden, "you can only acknowledge feedback given to you")
		return
	}

	// Idempotent: a second acknowledge returns the record as stored.
	updated, err := h.feedbacks.Acknowledge(r.Context(), id, time.Now())
	if err != nil {
		log.Printf("Error acknowledging feedback: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to acknowledge feedback")
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "feedback not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Feedback acknowledged",
		"feedback": updated,
	})
}

// --- GET /api/feedback/received ---

func (h *FeedbackHandler) GetReceivedFeedback(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUser(r.Context())
	if actor == nil {
		writeError(w, http.StatusUnauthorized, models.ErrUnauthenticated.Error())
		return
	}
	h.listFeedback(w, r, actor.ID, h.feedbacks.ListByReceiver)
}

// --- GET /api/feedback/given ---

func (h *FeedbackHandler) GetGivenFeedback(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUser(r.Context())
	if actor == nil {
		writeError(w, http.StatusUnauthorized, models.ErrUnauthenticated.Error())
		return
	}
	h.listFeedback(w, r, actor.ID, h.feedbacks.ListByGiver)
}

// --- GET /api/feedback/history/{userId} ---
// Manager-only audit of a direct report's received feedback.

func (h *FeedbackHandler) GetFeedbackHistory(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUser(r.Context())
	if actor == nil {
		writeError(w, http.StatusUnauthorized, models.ErrUnauthenticated.Error())
		return
	}
	if !actor.IsManager() {
		writeError(w, http.StatusForbidden, "only managers can view feedback history for users")
		return
	}

	targetID, err := bson.ObjectIDFromHex(chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	target, err := h.users.FindByID(r.Context(), targetID)
	if err != nil {
		log.Printf("Error finding user: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if target == nil {
		writeError(w, http.StatusNotFound, models.ErrUnknownUser.Error())
		return
	}
	if !authz.CanViewTeamHistory(actor, target) {
		writeError(w, http.StatusForbidden, "you can only view feedback for your own team members")
		return
	}

	h.listFeedback(w, r, target.ID, h.feedbacks.ListByReceiver)
}

// --- GET /api/feedback/summary ---

func (h *FeedbackHandler) GetFeedbackSummary(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUser(r.Context())
	if actor == nil {
		writeError(w, http.StatusUnauthorized, models.ErrUnauthenticated.Error())
		return
	}

	received, err := h.feedbacks.ListByReceiver(r.Context(), actor.ID)
	if err != nil {
		log.Printf("Error listing feedback: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, stats.Summarize(received))
}

// --- Helpers ---

func (h *FeedbackHandler) listFeedback(w http.ResponseWriter, r *http.Request, userID bson.ObjectID, list func(context.Context, bson.ObjectID) ([]models.Feedback, error)) {
	feedbacks, err := list(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing feedback: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	views, err := feedbackViews(r.Context(), h.users, feedbacks)
	if err != nil {
		log.Printf("Error building feedback views: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, views)
}

func formatNotification(giver, receiver *models.User, fb *models.Feedback) string {
	stars := strings.Repeat("⭐", fb.Rating)
	return fmt.Sprintf("📝 New feedback received\nFrom: %s\nTo: %s\nSentiment: %s\nRating: %s",
		giver.FullName, receiver.FullName, fb.OverallSentiment, stars)
}
