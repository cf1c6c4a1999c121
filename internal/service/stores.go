package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prepdesk/prepdesk-backend/internal/model"
)

// The services consume narrow store interfaces instead of concrete
// repositories so the scoring and analytics logic can be exercised
// against in-memory fakes. The pgx repositories satisfy these. Stores
// return repository.ErrNotFound for absent records.

// SessionStore persists sessions and supports the atomic conditional
// aggregate update the record-answer loop relies on.
type SessionStore interface {
	Create(ctx context.Context, s *model.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Session, error)
	// UpdateAggregates writes s's counters only if the stored
	// total_questions still equals expectedTotal and the session is in
	// progress. Returns false when the swap lost to a concurrent writer.
	UpdateAggregates(ctx context.Context, s *model.Session, expectedTotal int) (bool, error)
	Complete(ctx context.Context, id uuid.UUID, completedAt time.Time) (bool, error)
	ListByUser(ctx context.Context, userID string, page, perPage int) ([]model.Session, int64, error)
	AggregateByUser(ctx context.Context, userID string) (total, completed, timeSpentSeconds int, err error)
}

// QuestionStore persists generated questions.
type QuestionStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error)
	FindUnattempted(ctx context.Context, userID, examID string, difficulty model.Difficulty, subject, topic string) (*model.Question, error)
	// Create returns repository.ErrDuplicate when a concurrent insert
	// already filled the same slot sequence.
	Create(ctx context.Context, q *model.Question) error
	BackfillBaseExplanation(ctx context.Context, id uuid.UUID, baseExplanation string) error
}

// ProgressStore appends and reads the immutable answer audit trail.
type ProgressStore interface {
	Create(ctx context.Context, rec *model.ProgressRecord) error
	ListAttemptsByUser(ctx context.Context, userID string) ([]model.AttemptRow, error)
}
