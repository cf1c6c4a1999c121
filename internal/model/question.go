package model

import (
	"time"

	"github.com/google/uuid"
)

// Question represents a single generated practice question. Immutable
// after creation except for the lazy backfill of BaseExplanation.
type Question struct {
	ID         uuid.UUID  `json:"id"`
	ExamID     string     `json:"exam_id"`
	Subject    string     `json:"subject"`
	Topic      string     `json:"topic"`
	Difficulty Difficulty `json:"difficulty"`
	Prompt     string     `json:"prompt"`
	Options    []Option   `json:"options"`
	// CorrectAnswer is the label of the correct option. Never sent to
	// the client while a question is being attempted.
	CorrectAnswer string `json:"-"`
	Explanation   string `json:"-"`
	// BaseExplanation is the precomputed, outcome-agnostic rationale
	// reused across every submission against this question.
	BaseExplanation string    `json:"-"`
	Seq             int       `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
}

// Option is one entry of a question's ordered option set.
type Option struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// NextQuestionRequest is the payload for requesting a question, possibly
// triggering generation.
type NextQuestionRequest struct {
	ExamID     string `json:"exam_id" binding:"required,min=1,max=64"`
	Difficulty string `json:"difficulty" binding:"required,oneof=Easy Medium Hard"`
	Subject    string `json:"subject" binding:"omitempty,max=64"`
	Topic      string `json:"topic" binding:"omitempty,max=64"`
}
