package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Roles a user can hold. The model is a flat two-role hierarchy:
// developers optionally report to exactly one manager.
const (
	RoleManager   = "manager"
	RoleDeveloper = "developer"
)

func ValidRole(role string) bool {
	return role == RoleManager || role == RoleDeveloper
}

type User struct {
	ID           bson.ObjectID  `bson:"_id,omitempty" json:"id"`
	Username     string         `bson:"username" json:"username"`
	FullName     string         `bson:"full_name" json:"full_name"`
	PasswordHash string         `bson:"password_hash" json:"-"`
	Role         string         `bson:"role" json:"role"`
	ManagerID    *bson.ObjectID `bson:"manager_id,omitempty" json:"manager_id,omitempty"`
	CreatedAt    time.Time      `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `bson:"updated_at" json:"updated_at"`
}

func (u *User) IsManager() bool {
	return u.Role == RoleManager
}

// ReportsTo reports whether the user's manager edge currently points at managerID.
func (u *User) ReportsTo(managerID bson.ObjectID) bool {
	return u.ManagerID != nil && *u.ManagerID == managerID
}
