package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prepdesk/prepdesk-backend/internal/model"
)

// SessionRepository handles mock test session data access.
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// Create inserts a new session with zeroed counters.
func (r *SessionRepository) Create(ctx context.Context, s *model.Session) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO sessions (user_id, exam_id, difficulty, ai_model, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, started_at`,
		s.UserID, s.ExamID, s.Difficulty, s.AIModel, model.SessionStatusInProgress,
	).Scan(&s.ID, &s.StartedAt)
	return translate(err)
}

// GetByID retrieves a session by id.
func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	s := &model.Session{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, exam_id, difficulty, ai_model, status,
		        total_questions, correct_answers, score, time_spent_seconds,
		        started_at, completed_at
		 FROM sessions
		 WHERE id = $1`, id,
	).Scan(&s.ID, &s.UserID, &s.ExamID, &s.Difficulty, &s.AIModel, &s.Status,
		&s.TotalQuestions, &s.CorrectAnswers, &s.Score, &s.TimeSpentSeconds,
		&s.StartedAt, &s.CompletedAt)
	if err != nil {
		return nil, translate(err)
	}
	return s, nil
}

// UpdateAggregates conditionally writes a session's counters. The update
// only lands when the stored total still equals expectedTotal and the
// session is in progress, which makes this the compare-and-swap leg of
// the record-answer retry loop. Reports whether the swap happened.
func (r *SessionRepository) UpdateAggregates(ctx context.Context, s *model.Session, expectedTotal int) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE sessions
		 SET total_questions = $1, correct_answers = $2, score = $3, time_spent_seconds = $4
		 WHERE id = $5 AND total_questions = $6 AND status = $7`,
		s.TotalQuestions, s.CorrectAnswers, s.Score, s.TimeSpentSeconds,
		s.ID, expectedTotal, model.SessionStatusInProgress)
	if err != nil {
		return false, translate(err)
	}
	return tag.RowsAffected() == 1, nil
}

// Complete marks a session completed and stamps completed_at. Reports
// whether this call performed the transition; false means the session
// was already completed.
func (r *SessionRepository) Complete(ctx context.Context, id uuid.UUID, completedAt time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE sessions
		 SET status = $1, completed_at = $2
		 WHERE id = $3 AND status = $4`,
		model.SessionStatusCompleted, completedAt, id, model.SessionStatusInProgress)
	if err != nil {
		return false, translate(err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListByUser retrieves a user's sessions, newest first, with pagination.
func (r *SessionRepository) ListByUser(ctx context.Context, userID string, page, perPage int) ([]model.Session, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM sessions WHERE user_id = $1`, userID,
	).Scan(&total); err != nil {
		return nil, 0, translate(err)
	}

	offset := (page - 1) * perPage
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, exam_id, difficulty, ai_model, status,
		        total_questions, correct_answers, score, time_spent_seconds,
		        started_at, completed_at
		 FROM sessions
		 WHERE user_id = $1
		 ORDER BY started_at DESC
		 LIMIT $2 OFFSET $3`, userID, perPage, offset,
	)
	if err != nil {
		return nil, 0, translate(err)
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		var s model.Session
		if err := rows.Scan(&s.ID, &s.UserID, &s.ExamID, &s.Difficulty, &s.AIModel, &s.Status,
			&s.TotalQuestions, &s.CorrectAnswers, &s.Score, &s.TimeSpentSeconds,
			&s.StartedAt, &s.CompletedAt); err != nil {
			return nil, 0, translate(err)
		}
		sessions = append(sessions, s)
	}
	return sessions, total, translate(rows.Err())
}

// AggregateByUser returns session-level counters for the analytics
// overview: total sessions, completed sessions, accumulated time.
func (r *SessionRepository) AggregateByUser(ctx context.Context, userID string) (total, completed, timeSpentSeconds int, err error) {
	err = translate(r.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE status = $2),
		        COALESCE(SUM(time_spent_seconds), 0)
		 FROM sessions
		 WHERE user_id = $1`, userID, model.SessionStatusCompleted,
	).Scan(&total, &completed, &timeSpentSeconds))
	return
}
