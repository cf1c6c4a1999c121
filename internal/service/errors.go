package service

import "errors"

var (
	// ErrSessionNotFound covers both a genuinely absent session and one
	// owned by a different user; callers cannot tell the two apart.
	ErrSessionNotFound = errors.New("session not found")

	// ErrQuestionNotFound is returned when the referenced question does
	// not exist.
	ErrQuestionNotFound = errors.New("question not found")

	// ErrSessionCompleted is returned when an answer is submitted
	// against a completed session. Completed is terminal.
	ErrSessionCompleted = errors.New("session is already completed")

	// ErrGenerationFailed wraps failures of the content-generation
	// collaborator. The caller decides whether to retry.
	ErrGenerationFailed = errors.New("question generation failed")
)
