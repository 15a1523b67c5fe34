package booking

import "errors"

var (
	// ErrSessionNotFound is returned when the wizard session ID is unknown
	// or its TTL has lapsed.
	ErrSessionNotFound = errors.New("booking session not found or expired")
	// ErrLocationNotFound is returned when the session references a location
	// that no longer exists.
	ErrLocationNotFound = errors.New("location not found")
	// ErrIncompleteSession is returned when confirmation is attempted before
	// a date, time and student name were provided.
	ErrIncompleteSession = errors.New("booking session is missing required fields")
)
