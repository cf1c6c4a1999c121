package model

import (
	"time"

	"github.com/google/uuid"
)

// ProgressRecord is the immutable audit entry for one answered question.
// Records are append-only; IsCorrect is derived once at scoring time and
// never recomputed.
type ProgressRecord struct {
	ID               uuid.UUID `json:"id"`
	UserID           string    `json:"user_id"`
	ExamID           string    `json:"exam_id"`
	QuestionID       uuid.UUID `json:"question_id"`
	SessionID        uuid.UUID `json:"session_id"`
	UserAnswer       string    `json:"user_answer"`
	IsCorrect        bool      `json:"is_correct"`
	TimeSpentSeconds int       `json:"time_spent_seconds"`
	AttemptedAt      time.Time `json:"attempted_at"`
}

// AttemptRow is a progress record joined with its question's subject and
// topic, the shape the analytics aggregator reads.
type AttemptRow struct {
	ExamID           string    `json:"exam_id"`
	QuestionID       uuid.UUID `json:"question_id"`
	Subject          string    `json:"subject"`
	Topic            string    `json:"topic"`
	IsCorrect        bool      `json:"is_correct"`
	TimeSpentSeconds int       `json:"time_spent_seconds"`
	AttemptedAt      time.Time `json:"attempted_at"`
}
