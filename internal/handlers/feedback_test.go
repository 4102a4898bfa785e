package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"teampulse-backend/internal/models"
	"teampulse-backend/internal/stats"
	"teampulse-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func validCreateRequest(target bson.ObjectID) CreateFeedbackRequest {
	return CreateFeedbackRequest{
		TargetUserID:     target.Hex(),
		Strengths:        "Great communicator",
		AreasToImprove:   "Could delegate more",
		OverallSentiment: models.SentimentPositive,
		Rating:           4,
	}
}

func TestCreateFeedback(t *testing.T) {
	e := newTestEnv(t)
	mgr := testutil.MustCreateUser(t, e.users, "boss", models.RoleManager, nil)
	dev := testutil.MustCreateUser(t, e.users, "dev", models.RoleDeveloper, &mgr.ID)

	rec := e.request(t, http.MethodPost, "/api/feedback/create", validCreateRequest(dev.ID), e.loginAs(t, mgr))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var view FeedbackView
	decodeBody(t, rec, &view)
	assert.Equal(t, mgr.ID, view.GiverID)
	assert.Equal(t, dev.ID, view.ReceiverID)
	assert.False(t, view.IsAcknowledged)
	assert.False(t, view.CreatedAt.IsZero())
	require.NotNil(t, view.Giver)
	assert.Equal(t, mgr.FullName, view.Giver.FullName)

	// Notification fires from a goroutine, best-effort
	require.Eventually(t, func() bool { return len(e.notifier.Messages) == 1 }, time.Second, 10*time.Millisecond)
	assert.Contains(t, e.notifier.Messages[0], mgr.FullName)
}

func TestCreateFeedbackValidation(t *testing.T) {
	e := newTestEnv(t)
	mgr := testutil.MustCreateUser(t, e.users, "boss", models.RoleManager, nil)
	dev := testutil.MustCreateUser(t, e.users, "dev", models.RoleDeveloper, &mgr.ID)
	cookie := e.loginAs(t, mgr)

	cases := []struct {
		name   string
		mutate func(*CreateFeedbackRequest)
		status int
	}{
		{"rating too low", func(r *CreateFeedbackRequest) { r.Rating = 0 }, http.StatusBadRequest},
		{"rating too high", func(r *CreateFeedbackRequest) { r.Rating = 6 }, http.StatusBadRequest},
		{"blank strengths", func(r *CreateFeedbackRequest) { r.Strengths = "   " }, http.StatusBadRequest},
		{"blank areas", func(r *CreateFeedbackRequest) { r.AreasToImprove = "" }, http.StatusBadRequest},
		{"bad sentiment", func(r *CreateFeedbackRequest) { r.OverallSentiment = "meh" }, http.StatusBadRequest},
		{"malformed target", func(r *CreateFeedbackRequest) { r.TargetUserID = "zzz" }, http.StatusBadRequest},
		{"unknown target", func(r *CreateFeedbackRequest) { r.TargetUserID = bson.NewObjectID().Hex() }, http.StatusNotFound},
		{"self feedback", func(r *CreateFeedbackRequest) { r.TargetUserID = mgr.ID.Hex() }, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest(dev.ID)
			tc.mutate(&req)
			rec := e.request(t, http.MethodPost, "/api/feedback/create", req, cookie)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
		})
	}

	// Nothing was persisted by the rejected requests
	received, err := e.feedbacks.ListByReceiver(context.Background(), dev.ID)
	require.NoError(t, err)
	assert.Empty(t, received)
}

func TestCreateFeedbackNonIntegerRating(t *testing.T) {
	e := newTestEnv(t)
	mgr := testutil.MustCreateUser(t, e.users, "boss", models.RoleManager, nil)
	dev := testutil.MustCreateUser(t, e.users, "dev", models.RoleDeveloper, &mgr.ID)

	body := map[string]interface{}{
		"target_user_id":    dev.ID.Hex(),
		"strengths":         "x",
		"areas_to_improve":  "y",
		"overall_sentiment": models.SentimentNeutral,
		"rating":            3.5,
	}
	rec := e.request(t, http.MethodPost, "/api/feedback/create", body, e.loginAs(t, mgr))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAcknowledgeFeedback(t *testing.T) {
	e := newTestEnv(t)
	mgr := testutil.MustCreateUser(t, e.users, "boss", models.RoleManager, nil)
	dev := testutil.MustCreateUser(t, e.users, "dev", models.RoleDeveloper, &mgr.ID)
	fb := testutil.MustCreateFeedback(t, e.feedbacks, mgr.ID, dev.ID, 4, models.SentimentPositive, time.Now())

	cookie := e.loginAs(t, dev)

	rec := e.request(t, http.MethodPost, "/api/feedback/acknowledge", AcknowledgeFeedbackRequest{FeedbackID: fb.ID.Hex()}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Feedback models.Feedback `json:"feedback"`
	}
	decodeBody(t, rec, &resp)
	assert.True(t, resp.Feedback.IsAcknowledged)
	require.NotNil(t, resp.Feedback.AcknowledgedAt)
	firstAck := *resp.Feedback.AcknowledgedAt

	// Second acknowledge is an idempotent success, not an error, and
	// does not move the acknowledgement time.
	rec = e.request(t, http.MethodPost, "/api/feedback/acknowledge", AcknowledgeFeedbackRequest{FeedbackID: fb.ID.Hex()}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &resp)
	assert.True(t, resp.Feedback.IsAcknowledged)
	require.NotNil(t, resp.Feedback.AcknowledgedAt)
	assert.True(t, firstAck.Equal(*resp.Feedback.AcknowledgedAt))

	// The giver still sees the acknowledged record
	stored, err := e.feedbacks.FindByID(context.Background(), fb.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsAcknowledged)
}

func TestAcknowledgeFeedbackForbidden(t *testing.T) {
	e := newTestEnv(t)
	mgr := testutil.MustCreateUser(t, e.users, "boss", models.RoleManager, nil)
	dev := testutil.MustCreateUser(t, e.users, "dev", models.RoleDeveloper, &mgr.ID)
	fb := testutil.MustCreateFeedback(t, e.feedbacks, mgr.ID, dev.ID, 4, models.SentimentPositive, time.Now())

	// The giver is not the receiver
	rec := e.request(t, http.MethodPost, "/api/feedback/acknowledge", AcknowledgeFeedbackRequest{FeedbackID: fb.ID.Hex()}, e.loginAs(t, mgr))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Record untouched
	stored, err := e.feedbacks.FindByID(context.Background(), fb.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsAcknowledged)
	assert.Nil(t, stored.AcknowledgedAt)
}

func TestAcknowledgeFeedbackNotFound(t *testing.T) {
	e := newTestEnv(t)
	dev := testutil.MustCreateUser(t, e.users, "dev", models.RoleDeveloper, nil)

	rec := e.request(t, http.MethodPost, "/api/feedback/acknowledge", AcknowledgeFeedbackRequest{FeedbackID: bson.NewObjectID().Hex()}, e.loginAs(t, dev))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReceivedFeedbackOrdering(t *testing.T) {
	e := newTestEnv(t)
	mgr := testutil.MustCreateUser(t, e.users, "boss", models.RoleManager, nil)
	dev := testutil.MustCreateUser(t, e.users, "dev", models.RoleDeveloper, &mgr.ID)

	now := time.Now()
	// Inserted out of order on purpose
	middle := testutil.MustCreateFeedback(t, e.feedbacks, mgr.ID, dev.ID, 3, models.SentimentNeutral, now.Add(-time.Hour))
	newest := testutil.MustCreateFeedback(t, e.feedbacks, mgr.ID, dev.ID, 5, models.SentimentPositive, now)
	oldest := testutil.MustCreateFeedback(t, e.feedbacks, mgr.ID, dev.ID, 2, models.SentimentNegative, now.Add(-2*time.Hour))

	rec := e.request(t, http.MethodGet, "/api/feedback/received", nil, e.loginAs(t, dev))
	require.Equal(t, http.StatusOK, rec.Code)

	var views []FeedbackView
	decodeBody(t, rec, &views)
	require.Len(t, views, 3)
	assert.Equal(t, newest.ID, views[0].ID)
	assert.Equal(t, middle.ID, views[1].ID)
	assert.Equal(t, oldest.ID, views[2].ID)

	// Each entry carries the giver card for display
	require.NotNil(t, views[0].Giver)
	assert.Equal(t, mgr.FullName, views[0].Giver.FullName)
}

func TestGivenFeedback(t *testing.T) {
	e := newTestEnv(t)
	mgr := testutil.MustCreateUser(t, e.users, "boss", models.RoleManager, nil)
	dev := testutil.MustCreateUser(t, e.users, "dev", models.RoleDeveloper, &mgr.ID)

	testutil.MustCreateFeedback(t, e.feedbacks, mgr.ID, dev.ID, 4, models.SentimentPositive, time.Now())
	testutil.MustCreateFeedback(t, e.feedbacks, dev.ID, mgr.ID, 3, models.SentimentNeutral, time.Now())

	rec := e.request(t, http.MethodGet, "/api/feedback/given", nil, e.loginAs(t, mgr))
	require.Equal(t, http.StatusOK, rec.Code)

	var views []FeedbackView
	decodeBody(t, rec, &views)
	require.Len(t, views, 1)
	assert.Equal(t, mgr.ID, views[0].GiverID)
}

func TestFeedbackHistoryAuthorization(t *testing.T) {
	e := newTestEnv(t)
	mgr := testutil.MustCreateUser(t, e.users, "boss", models.RoleManager, nil)
	otherMgr := testutil.MustCreateUser(t, e.users, "other", models.RoleManager, nil)
	dev := testutil.MustCreateUser(t, e.users, "dev", models.RoleDeveloper, &mgr.ID)
	peer := testutil.MustCreateUser(t, e.users, "peer", models.RoleDeveloper, &mgr.ID)

	testutil.MustCreateFeedback(t, e.feedbacks, peer.ID, dev.ID, 4, models.SentimentPositive, time.Now())

	// The developer's own manager can audit
	rec := e.request(t, http.MethodGet, "/api/feedback/history/"+dev.ID.Hex(), nil, e.loginAs(t, mgr))
	require.Equal(t, http.StatusOK, rec.Code)
	var views []FeedbackView
	decodeBody(t, rec, &views)
	assert.Len(t, views, 1)

	// A different manager cannot
	rec = e.request(t, http.MethodGet, "/api/feedback/history/"+dev.ID.Hex(), nil, e.loginAs(t, otherMgr))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Developers cannot audit at all
	rec = e.request(t, http.MethodGet, "/api/feedback/history/"+dev.ID.Hex(), nil, e.loginAs(t, peer))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Unknown target
	rec = e.request(t, http.MethodGet, "/api/feedback/history/"+bson.NewObjectID().Hex(), nil, e.loginAs(t, mgr))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFeedbackSummary(t *testing.T) {
	e := newTestEnv(t)
	mgr := testutil.MustCreateUser(t, e.users, "boss", models.RoleManager, nil)
	dev := testutil.MustCreateUser(t, e.users, "dev", models.RoleDeveloper, &mgr.ID)

	cookie := e.loginAs(t, dev)

	// Empty summary is all zeros, never a division by zero
	rec := e.request(t, http.MethodGet, "/api/feedback/summary", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var empty stats.Summary
	decodeBody(t, rec, &empty)
	assert.Equal(t, stats.Summary{}, empty)

	now := time.Now()
	testutil.MustCreateFeedback(t, e.feedbacks, mgr.ID, dev.ID, 5, models.SentimentPositive, now)
	testutil.MustCreateFeedback(t, e.feedbacks, mgr.ID, dev.ID, 3, models.SentimentNeutral, now)
	testutil.MustCreateFeedback(t, e.feedbacks, mgr.ID, dev.ID, 4, models.SentimentPositive, now)

	rec = e.request(t, http.MethodGet, "/api/feedback/summary", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary stats.Summary
	decodeBody(t, rec, &summary)
	assert.Equal(t, 4.0, summary.AverageRating)
	assert.Equal(t, 3, summary.TotalCount)
	assert.Equal(t, stats.SentimentCounts{Positive: 2, Neutral: 1}, summary.SentimentCounts)
}

func TestFeedbackLifecycle(t *testing.T) {
	e := newTestEnv(t)
	mgr := testutil.MustCreateUser(t, e.users, "boss", models.RoleManager, nil)
	dev := testutil.MustCreateUser(t, e.users, "dev", models.RoleDeveloper, &mgr.ID)

	// Manager submits feedback to their report
	rec := e.request(t, http.MethodPost, "/api/feedback/create", validCreateRequest(dev.ID), e.loginAs(t, mgr))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created FeedbackView
	decodeBody(t, rec, &created)

	// Developer sees it unacknowledged
	devCookie := e.loginAs(t, dev)
	rec = e.request(t, http.MethodGet, "/api/feedback/received", nil, devCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var received []FeedbackView
	decodeBody(t, rec, &received)
	require.Len(t, received, 1)
	assert.Equal(t, created.ID, received[0].ID)
	assert.False(t, received[0].IsAcknowledged)

	// Developer acknowledges
	rec = e.request(t, http.MethodPost, "/api/feedback/acknowledge", AcknowledgeFeedbackRequest{FeedbackID: created.ID.Hex()}, devCookie)
	require.Equal(t, http.StatusOK, rec.Code)

	// Manager's audit view reflects the acknowledged state
	rec = e.request(t, http.MethodGet, "/api/feedback/history/"+dev.ID.Hex(), nil, e.loginAs(t, mgr))
	require.Equal(t, http.StatusOK, rec.Code)
	var history []FeedbackView
	decodeBody(t, rec, &history)
	require.Len(t, history, 1)
	assert.True(t, history[0].IsAcknowledged)
}

func TestFeedbackEndpointsRequireSession(t *testing.T) {
	e := newTestEnv(t)
	for _, ep := range []struct {
		method, path string
	}{
		{http.MethodPost, "/api/feedback/create"},
		{http.MethodPost, "/api/feedback/acknowledge"},
		{http.MethodGet, "/api/feedback/received"},
		{http.MethodGet, "/api/feedback/given"},
		{http.MethodGet, "/api/feedback/summary"},
		{http.MethodGet, "/api/feedback/history/" + bson.NewObjectID().Hex()},
	} {
		rec := e.request(t, ep.method, ep.path, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, ep.path)
	}
}
