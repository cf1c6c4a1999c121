// Package generation abstracts the external question-content collaborator
// behind a capability interface with named variants (cloud and local
// models), selected by configuration. The upstream is treated as
// unreliable and uncached; memoization is the question service's job.
package generation

import (
	"context"

	"github.com/prepdesk/prepdesk-backend/internal/model"
)

// Provider generates one practice question per call.
type Provider interface {
	// Generate produces a question for the given slot. It blocks until
	// the upstream answers, the context is cancelled, or the call fails.
	Generate(ctx context.Context, req Request) (*GeneratedQuestion, error)

	// ModelID returns the model identifier this provider is configured
	// to use.
	ModelID() string
}

// Request describes the slot a question is needed for. Subject and Topic
// are optional refinements.
type Request struct {
	ExamID     string
	Difficulty model.Difficulty
	Subject    string
	Topic      string
}

// GeneratedQuestion is the upstream's answer: a prompt, an ordered option
// set, the canonical answer label, and an explanation usable regardless
// of the submitter's outcome.
type GeneratedQuestion struct {
	Prompt        string
	Options       []model.Option
	CorrectAnswer string
	Explanation   string
	Subject       string
	Topic         string
}
