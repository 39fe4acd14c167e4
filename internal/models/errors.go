package models

import "errors"

// Sentinel errors for the service layer. Handlers translate these to
// HTTP status codes; everything else is a 500.
//
// The read/write asymmetry matters: mutations surface ErrUnauthenticated
// as a hard failure, while personalized queries swallow the anonymous
// case into an empty or null result instead of returning it.
var (
	ErrUnauthenticated = errors.New("unauthorized")
	ErrNotMember       = errors.New("not a member of this channel")
	ErrNotParticipant  = errors.New("not a participant in this conversation")
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrEmailTaken      = errors.New("email already registered")
)
