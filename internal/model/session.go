package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus enumerates mock test session states.
type SessionStatus string

const (
	SessionStatusInProgress SessionStatus = "in_progress"
	SessionStatusCompleted  SessionStatus = "completed"
)

// Session represents one user's attempt at a sequence of generated
// questions for an exam/difficulty pair. Counters are owned by the
// session service and only move through its operations.
type Session struct {
	ID               uuid.UUID     `json:"id"`
	UserID           string        `json:"user_id"`
	ExamID           string        `json:"exam_id"`
	Difficulty       Difficulty    `json:"difficulty"`
	AIModel          string        `json:"ai_model"`
	Status           SessionStatus `json:"status"`
	TotalQuestions   int           `json:"total_questions"`
	CorrectAnswers   int           `json:"correct_answers"`
	Score            float64       `json:"score"`
	TimeSpentSeconds int           `json:"time_spent_seconds"`
	StartedAt        time.Time     `json:"started_at"`
	CompletedAt      *time.Time    `json:"completed_at,omitempty"`
}

// Difficulty is the requested question difficulty for a session.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// CreateSessionRequest is the payload for starting a new mock test session.
type CreateSessionRequest struct {
	ExamID     string `json:"exam_id" binding:"required,min=1,max=64"`
	Difficulty string `json:"difficulty" binding:"required,oneof=Easy Medium Hard"`
	AIModel    string `json:"ai_model" binding:"omitempty,max=64"`
}

// SubmitAnswerRequest is the payload for answering a question in a session.
type SubmitAnswerRequest struct {
	QuestionID       string `json:"question_id" binding:"required,uuid"`
	UserAnswer       string `json:"user_answer" binding:"required,max=10"`
	TimeSpentSeconds int    `json:"time_spent_seconds" binding:"min=0"`
}

// AnswerResult is returned after an answer has been scored.
type AnswerResult struct {
	IsCorrect     bool     `json:"is_correct"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	Session       *Session `json:"session"`
}
