package domain

import "errors"

// Lookup errors
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrSessionNotFound      = errors.New("session not found")
	ErrGroupNotFound        = errors.New("group not found")
	ErrNotificationNotFound = errors.New("notification not found")
)

// Session lifecycle errors
var (
	ErrInvalidTransition      = errors.New("invalid stage transition")
	ErrNotEnoughParticipants  = errors.New("not enough joined participants to start")
	ErrAlreadySubmitted       = errors.New("preferences already submitted")
	ErrNotParticipant         = errors.New("actor is not a participant of this session")
	ErrVersionConflict        = errors.New("session was modified concurrently")
	ErrSessionAlreadyComplete = errors.New("session is already completed")
)

// Boundary errors
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidRecord      = errors.New("record failed validation")
)
