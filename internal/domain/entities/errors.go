package entities

import "errors"

// Common errors
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden access")
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
)

// Auth errors
var (
	ErrInvalidToken       = errors.New("token invalid")
	ErrTokenExpired       = errors.New("token expired")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrOAuthStateMismatch = errors.New("oauth state mismatch")
)

// User errors
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserNotActive    = errors.New("user is not active")
	ErrEmailAlreadyUsed = errors.New("email already in use")
)

// Deal errors
var (
	ErrDealNotFound       = errors.New("deal not found")
	ErrContactNotFound    = errors.New("contact not found")
	ErrCompetitorNotFound = errors.New("competitor not found")
	ErrInvalidDealStage   = errors.New("invalid deal stage")
	ErrInvalidSegment     = errors.New("invalid deal segment")
)

// Scoring errors
var (
	ErrScoringConfigCorrupt = errors.New("scoring configuration is corrupt")
	ErrUnknownParameter     = errors.New("unknown scoring parameter")
)
