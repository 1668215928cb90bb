package session

import "errors"

var (
	// ErrNotStarted is returned when a session is used before Start
	ErrNotStarted = errors.New("session has not started")
	// ErrAlreadyStarted is returned by a second call to Start
	ErrAlreadyStarted = errors.New("session already started")
	// ErrSessionClosed is returned once the interview has wrapped up
	ErrSessionClosed = errors.New("session is wrapped up")
	// ErrEmptyAnswer is returned when the candidate's answer is blank
	ErrEmptyAnswer = errors.New("candidate answer is empty")
)
