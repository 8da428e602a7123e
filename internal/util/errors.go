package util

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailRegistered     = errors.New("email already registered")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionCompleted    = errors.New("session already completed")
	ErrSessionNotPaused    = errors.New("session is not paused")
	ErrLoopNotFound        = errors.New("loop not found")
	ErrProgramNotFound     = errors.New("program not found")
	ErrInvalidWorkspace    = errors.New("invalid workspace")
	ErrInvalidPhase        = errors.New("invalid phase")
	ErrInvalidDurations    = errors.New("phase durations must sum to the program total")
	ErrInvitationNotFound  = errors.New("invitation not found")
	ErrInvitationExpired   = errors.New("invitation expired")
	ErrInvitationAccepted  = errors.New("invitation already accepted")
	ErrAIMalformedResponse = errors.New("AI returned malformed response")
	ErrPointsConflict      = errors.New("points update conflict, retries exhausted")
)
