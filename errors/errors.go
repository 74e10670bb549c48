package errors

import "fmt"

var (
	// Not-found family: terminal, user-correctable, never retried.
	ErrChannelNotFound    = fmt.Errorf("channel not found")
	ErrMembershipNotFound = fmt.Errorf("user has no membership in this channel")
	ErrUserNotFound       = fmt.Errorf("user not found")

	// Conflict family: surfaced as-is, callers must not blindly retry.
	ErrDuplicateMembership = fmt.Errorf("user already belongs to this channel")
	ErrDuplicateChannel    = fmt.Errorf("channel name already taken")
	ErrUserAlreadyExists   = fmt.Errorf("user already exists")

	ErrInvalidChannelName = fmt.Errorf("invalid channel name")
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity requirements")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
)
