// Package authz holds the permission checks for the feedback exchange.
// Every check is a pure function of the actor and the resource; the
// caller resolves both from the stores before asking.
package authz

import "teampulse-backend/internal/models"

// CanSubmitFeedback allows any authenticated user to give feedback to
// any other existing user. Self-feedback is never allowed.
func CanSubmitFeedback(actor, target *models.User) bool {
	if actor == nil || target == nil {
		return false
	}
	return actor.ID != target.ID
}

// CanViewFeedback restricts a feedback entry to its giver and receiver.
func CanViewFeedback(actor *models.User, fb *models.Feedback) bool {
	if actor == nil || fb == nil {
		return false
	}
	return actor.ID == fb.GiverID || actor.ID == fb.ReceiverID
}

// CanViewTeamHistory allows a manager to audit the received feedback of
// their own direct reports only.
func CanViewTeamHistory(actor, target *models.User) bool {
	if actor == nil || target == nil || !actor.IsManager() {
		return false
	}
	return target.ReportsTo(actor.ID)
}

// CanReassignManager gates the manager-edge mutations.
func CanReassignManager(actor *models.User) bool {
	return actor != nil && actor.IsManager()
}

// CanViewUserList gates the full user directory.
func CanViewUserList(actor *models.User) bool {
	return actor != nil && actor.IsManager()
}
