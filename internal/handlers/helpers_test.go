package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"teampulse-backend/internal/auth"
	customMiddleware "teampulse-backend/internal/middleware"
	"teampulse-backend/internal/models"
	"teampulse-backend/internal/testutil"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

// testEnv wires the handlers into a router exactly like cmd/server,
// backed by the in-memory stores.
type testEnv struct {
	users     *testutil.MemUserStore
	sessions  *testutil.MemSessionStore
	feedbacks *testutil.MemFeedbackStore
	notifier  *testutil.CaptureNotifier
	router    *chi.Mux
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	e := &testEnv{
		users:     testutil.NewMemUserStore(),
		sessions:  testutil.NewMemSessionStore(),
		feedbacks: testutil.NewMemFeedbackStore(),
		notifier:  &testutil.CaptureNotifier{},
	}

	authHandler := NewAuthHandler(e.users, e.sessions, testSecret, time.Hour, false)
	userHandler := NewUserHandler(e.users, e.feedbacks)
	feedbackHandler := NewFeedbackHandler(e.feedbacks, e.users, e.notifier)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Get("/users/managers", userHandler.GetManagers)

		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.SessionAuth(testSecret, e.sessions, e.users))

			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/auth/me", authHandler.Me)

			r.Get("/users/all", userHandler.GetAllUsers)
			r.Get("/users/manager", userHandler.GetMyManager)
			r.Get("/users/team", userHandler.GetTeam)
			r.Get("/users/{id}", userHandler.GetUser)
			r.Put("/users/{id}/assign-manager", userHandler.AssignSelfAsManager)
			r.Put("/users/{id}/change-manager/{managerId}", userHandler.ChangeManager)

			r.Post("/feedback/create", feedbackHandler.CreateFeedback)
			r.Post("/feedback/acknowledge", feedbackHandler.AcknowledgeFeedback)
			r.Get("/feedback/received", feedbackHandler.GetReceivedFeedback)
			r.Get("/feedback/given", feedbackHandler.GetGivenFeedback)
			r.Get("/feedback/summary", feedbackHandler.GetFeedbackSummary)
			r.Get("/feedback/history/{userId}", feedbackHandler.GetFeedbackHistory)
		})
	})
	e.router = r
	return e
}

// loginAs mints a session for the user without going through the login
// endpoint.
func (e *testEnv) loginAs(t *testing.T, user *models.User) *http.Cookie {
	t.Helper()
	token, sessionID, expiresAt, err := auth.NewToken(testSecret, user.ID.Hex(), time.Hour)
	require.NoError(t, err)
	require.NoError(t, e.sessions.Create(context.Background(), &models.Session{
		SessionID: sessionID,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
	}))
	return &http.Cookie{Name: customMiddleware.SessionCookie, Value: token}
}

func (e *testEnv) request(t *testing.T, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}
