package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"teampulse-backend/internal/authz"
	"teampulse-backend/internal/middleware"
	"teampulse-backend/internal/models"
	"teampulse-backend/internal/repository"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type UserHandler struct {
	users     repository.UserStore
	feedbacks repository.FeedbackStore
}

func NewUserHandler(users repository.UserStore, feedbacks repository.FeedbackStore) *UserHandler {
	return &UserHandler{
		users:     users,
		feedbacks: feedbacks,
	}
}

// --- GET /api/users/all ---

func (h *UserHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUser(r.Context())
	if !authz.CanViewUserList(actor) {
		writeError(w, http.StatusForbidden, "only managers can list all users")
		return
	}

	users, err := h.users.ListAll(r.Context())
	if err != nil {
		log.Printf("Error listing users: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	views := make([]UserView, 0, len(users))
	for i := range users {
		view, err := h.userView(r.Context(), &users[i])
		if err != nil {
			log.Printf("Error building user view: %v", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		views = append(views, *view)
	}

	writeJSON(w, http.StatusOK, views)
}

// --- GET /api/users/managers ---
// Public: the signup form lists managers before any session exists.

func (h *UserHandler) GetManagers(w http.ResponseWriter, r *http.Request) {
	managers, err := h.users.ListByRole(r.Context(), models.RoleManager)
	if err != nil {
		log.Printf("Error listing managers: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	views := make([]ManagerView, 0, len(managers))
	for i := range managers {
		rating, err := ratingFor(r.Context(), h.feedbacks, managers[i].ID)
		if err != nil {
			log.Printf("Error computing rating: %v", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		views = append(views, *managerView(&managers[i], rating))
	}

	writeJSON(w, http.StatusOK, views)
}

// --- GET /api/users/manager ---

func (h *UserHandler) GetMyManager(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUser(r.Context())
	if actor == nil {
		writeError(w, http.StatusUnauthorized, models.ErrUnauthenticated.Error())
		return
	}

	if actor.ManagerID == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"manager": nil})
		return
	}

	manager, err := h.users.FindByID(r.Context(), *actor.ManagerID)
	if err != nil {
		log.Printf("Error finding manager: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if manager == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"manager": nil})
		return
	}

	rating, err := ratingFor(r.Context(), h.feedbacks, manager.ID)
	if err != nil {
		log.Printf("Error computing rating: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"manager": managerView(manager, rating),
	})
}

// --- GET /api/users/team ---

func (h *UserHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUser(r.Context())
	if actor == nil || !actor.IsManager() {
		writeError(w, http.StatusForbidden, "only managers can view their team")
		return
	}

	team, err := h.users.ListTeam(r.Context(), actor.ID)
	if err != nil {
		log.Printf("Error listing team: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	views := make([]UserView, 0, len(team))
	for i := range team {
		rating, err := ratingFor(r.Context(), h.feedbacks, team[i].ID)
		if err != nil {
			log.Printf("Error computing rating: %v", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		views = append(views, UserView{
			ID:       team[i].ID,
			Username: team[i].Username,
			FullName: team[i].FullName,
			Role:     team[i].Role,
			Rating:   rating,
		})
	}

	writeJSON(w, http.StatusOK, views)
}

// --- GET /api/users/{id} ---

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := bson.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	user, err := h.users.FindByID(r.Context(), id)
	if err != nil {
		log.Printf("Error finding user: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, models.ErrUnknownUser.Error())
		return
	}

	view, err := h.userView(r.Context(), user)
	if err != nil {
		log.Printf("Error building user view: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// --- PUT /api/users/{id}/assign-manager ---

func (h *UserHandler) AssignSelfAsManager(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUser(r.Context())
	if !authz.CanReassignManager(actor) {
		writeError(w, http.StatusForbidden, "only managers can assign themselves as manager")
		return
	}

	dev, ok := h.resolveDeveloper(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.users.SetManager(r.Context(), dev.ID, &actor.ID); err != nil {
		log.Printf("Error assigning manager: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to assign manager")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("%s is now managed by %s", dev.Username, actor.Username),
	})
}

// --- PUT /api/users/{id}/change-manager/{managerId} ---

func (h *UserHandler) ChangeManager(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUser(r.Context())
	if !authz.CanReassignManager(actor) {
		writeError(w, http.StatusForbidden, "only managers can reassign managers")
		return
	}

	dev, ok := h.resolveDeveloper(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	newManagerID, err := bson.ObjectIDFromHex(chi.URLParam(r, "managerId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid manager ID")
		return
	}
	if newManagerID == dev.ID {
		writeError(w, http.StatusBadRequest, models.ErrInvalidManagerReference.Error())
		return
	}

	newManager, err := h.users.FindByID(r.Context(), newManagerID)
	if err != nil {
		log.Printf("Error finding manager: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if newManager == nil || !newManager.IsManager() {
		writeError(w, http.StatusBadRequest, models.ErrInvalidManagerReference.Error())
		return
	}

	if err := h.users.SetManager(r.Context(), dev.ID, &newManager.ID); err != nil {
		log.Printf("Error changing manager: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to change manager")
		return
	}

	updated, err := h.users.FindByID(r.Context(), dev.ID)
	if err != nil || updated == nil {
		log.Printf("Error reloading user: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	view, err := h.userView(r.Context(), updated)
	if err != nil {
		log.Printf("Error building user view: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("%s is now managed by %s", updated.Username, newManager.Username),
		"user":    view,
	})
}

// --- Helpers ---

// resolveDeveloper loads the path user and enforces the developer role.
// Writes the error response itself when the target is unusable.
func (h *UserHandler) resolveDeveloper(w http.ResponseWriter, r *http.Request, idParam string) (*models.User, bool) {
	id, err := bson.ObjectIDFromHex(idParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user ID")
		return nil, false
	}

	user, err := h.users.FindByID(r.Context(), id)
	if err != nil {
		log.Printf("Error finding user: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return nil, false
	}
	if user == nil {
		writeError(w, http.StatusNotFound, models.ErrUnknownUser.Error())
		return nil, false
	}
	if user.Role != models.RoleDeveloper {
		writeError(w, http.StatusBadRequest, "target user must be a developer")
		return nil, false
	}
	return user, true
}

func (h *UserHandler) userView(ctx context.Context, user *models.User) (*UserView, error) {
	rating, err := ratingFor(ctx, h.feedbacks, user.ID)
	if err != nil {
		return nil, err
	}

	view := &UserView{
		ID:       user.ID,
		Username: user.Username,
		FullName: user.FullName,
		Role:     user.Role,
		Rating:   rating,
	}

	if user.ManagerID != nil {
		manager, err := h.users.FindByID(ctx, *user.ManagerID)
		if err != nil {
			return nil, err
		}
		if manager != nil {
			managerRating, err := ratingFor(ctx, h.feedbacks, manager.ID)
			if err != nil {
				return nil, err
			}
			view.Manager = managerView(manager, managerRating)
		}
	}

	return view, nil
}
