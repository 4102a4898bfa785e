package middleware

import (
	"context"
	"net/http"

	"teampulse-backend/internal/auth"
	"teampulse-backend/internal/models"
	"teampulse-backend/internal/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// SessionCookie is the cookie carrying the access token. Name matches
// what the browser client expects.
const SessionCookie = "access_token"

type userContextKey struct{}

// GetUser returns the authenticated user stored by SessionAuth, or nil.
func GetUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey{}).(*models.User)
	return user
}

// WithUser stores the actor in context. Exposed for handler tests.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// SessionAuth resolves the current user from the session cookie: the
// JWT must verify, the session row behind its jti must exist and be
// neither revoked nor expired, and the user must still exist. Any
// failure is a 401; handlers never see a half-authenticated request.
func SessionAuth(secret string, sessions repository.SessionStore, users repository.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				unauthorized(w)
				return
			}

			claims, err := auth.ParseToken(secret, cookie.Value)
			if err != nil {
				unauthorized(w)
				return
			}

			session, err := sessions.FindBySessionID(r.Context(), claims.SessionID)
			if err != nil || session == nil || session.Revoked || session.IsExpired() {
				unauthorized(w)
				return
			}

			userID, err := bson.ObjectIDFromHex(claims.UserID)
			if err != nil || session.UserID != userID {
				unauthorized(w)
				return
			}

			user, err := users.FindByID(r.Context(), userID)
			if err != nil || user == nil {
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"not authenticated"}`))
}
