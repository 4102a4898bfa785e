package models

import "errors"

// Domain failure modes. Handlers map these onto HTTP status codes;
// repositories and services return them wrapped or bare.
var (
	ErrDuplicateUsername       = errors.New("username already exists")
	ErrInvalidManagerReference = errors.New("manager reference does not resolve to a manager")
	ErrInvalidCredentials      = errors.New("invalid username or password")
	ErrUnauthenticated         = errors.New("not authenticated")
	ErrUnknownUser             = errors.New("user not found")
	ErrInvalidRating           = errors.New("rating must be between 1 and 5")
	ErrInvalidSentiment        = errors.New("sentiment must be positive, neutral or negative")
	ErrSelfFeedback            = errors.New("cannot give feedback to yourself")
	ErrInvalidRole             = errors.New("role must be manager or developer")
)
