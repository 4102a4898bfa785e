package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"teampulse-backend/internal/auth"
	"teampulse-backend/internal/middleware"
	"teampulse-backend/internal/models"
	"teampulse-backend/internal/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type AuthHandler struct {
	users      repository.UserStore
	sessions   repository.SessionStore
	jwtSecret  string
	sessionTTL time.Duration
	prod       bool
}

func NewAuthHandler(users repository.UserStore, sessions repository.SessionStore, jwtSecret string, sessionTTL time.Duration, prod bool) *AuthHandler {
	return &AuthHandler{
		users:      users,
		sessions:   sessions,
		jwtSecret:  jwtSecret,
		sessionTTL: sessionTTL,
		prod:       prod,
	}
}

// --- Request types ---

type RegisterRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FullName  string `json:"full_name"`
	Role      string `json:"role"`
	ManagerID string `json:"manager_id,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// --- POST /api/auth/register ---

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.FullName = strings.TrimSpace(req.FullName)

	if req.Username == "" || req.Password == "" || req.FullName == "" {
		writeError(w, http.StatusBadRequest, "username, password and full_name are required")
		return
	}
	if !models.ValidRole(req.Role) {
		writeError(w, http.StatusBadRequest, models.ErrInvalidRole.Error())
		return
	}

	// The reports-to edge only exists on developers; a manager_id on a
	// manager registration is rejected rather than silently dropped.
	var managerID *bson.ObjectID
	if req.ManagerID != "" {
		if req.Role != models.RoleDeveloper {
			writeError(w, http.StatusBadRequest, "only developers can have a manager")
			return
		}
		id, err := bson.ObjectIDFromHex(req.ManagerID)
		if err != nil {
			writeError(w, http.StatusBadRequest, models.ErrInvalidManagerReference.Error())
			return
		}
		manager, err := h.users.FindByID(r.Context(), id)
		if err != nil {
			log.Printf("Error resolving manager: %v", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if manager == nil || !manager.IsManager() {
			writeError(w, http.StatusBadRequest, models.ErrInvalidManagerReference.Error())
			return
		}
		managerID = &id
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	user := &models.User{
		Username:     req.Username,
		FullName:     req.FullName,
		PasswordHash: hash,
		Role:         req.Role,
		ManagerID:    managerID,
	}

	if err := h.users.Create(r.Context(), user); err != nil {
		if err == models.ErrDuplicateUsername {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		log.Printf("Error creating user: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// --- POST /api/auth/login ---

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.FindByUsername(r.Context(), req.Username)
	if err != nil {
		log.Printf("Error finding user: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	// Same error for unknown username and bad password, so the endpoint
	// cannot be used to enumerate accounts.
	if user == nil || !auth.VerifyPassword(req.Password, user.PasswordHash) {
		writeError(w, http.StatusUnauthorized, models.ErrInvalidCredentials.Error())
		return
	}

	token, sessionID, expiresAt, err := auth.NewToken(h.jwtSecret, user.ID.Hex(), h.sessionTTL)
	if err != nil {
		log.Printf("Error signing token: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	session := &models.Session{
		SessionID: sessionID,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
	}
	if err := h.sessions.Create(r.Context(), session); err != nil {
		log.Printf("Error creating session: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	http.SetCookie(w, h.sessionCookie(token, int(h.sessionTTL.Seconds())))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"user":    user,
	})
}

// --- POST /api/auth/logout ---

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	// Revoke the session row so the token dies before its expiry, then
	// clear the cookie.
	if cookie, err := r.Cookie(middleware.SessionCookie); err == nil && cookie.Value != "" {
		if claims, err := auth.ParseToken(h.jwtSecret, cookie.Value); err == nil {
			if err := h.sessions.Revoke(r.Context(), claims.SessionID); err != nil {
				log.Printf("Error revoking session: %v", err)
			}
		}
	}

	http.SetCookie(w, h.sessionCookie("", -1))

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Logged out successfully",
	})
}

// --- GET /api/auth/me ---

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, models.ErrUnauthenticated.Error())
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// sessionCookie builds the access token cookie. Secure + SameSite=None
// in production (cross-site browser client over HTTPS), Lax locally.
func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if h.prod {
		sameSite = http.SameSiteNoneMode
	}
	return &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.prod,
		SameSite: sameSite,
	}
}
