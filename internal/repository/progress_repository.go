package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prepdesk/prepdesk-backend/internal/model"
)

// ProgressRepository handles the append-only answer audit trail.
// Records are inserted once and never updated or deleted.
type ProgressRepository struct {
	pool *pgxpool.Pool
}

// NewProgressRepository creates a new ProgressRepository.
func NewProgressRepository(pool *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{pool: pool}
}

// Create appends one progress record.
func (r *ProgressRepository) Create(ctx context.Context, rec *model.ProgressRecord) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO progress_records
		   (user_id, exam_id, question_id, session_id, user_answer, is_correct, time_spent_seconds)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, attempted_at`,
		rec.UserID, rec.ExamID, rec.QuestionID, rec.SessionID,
		rec.UserAnswer, rec.IsCorrect, rec.TimeSpentSeconds,
	).Scan(&rec.ID, &rec.AttemptedAt)
	return translate(err)
}

// ListAttemptsByUser returns every attempt of a user joined with the
// question's subject and topic, newest first. This is the read model the
// analytics aggregator consumes.
func (r *ProgressRepository) ListAttemptsByUser(ctx context.Context, userID string) ([]model.AttemptRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT p.exam_id, p.question_id, q.subject, q.topic,
		        p.is_correct, p.time_spent_seconds, p.attempted_at
		 FROM progress_records p
		 JOIN questions q ON q.id = p.question_id
		 WHERE p.user_id = $1
		 ORDER BY p.attempted_at DESC`, userID,
	)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var attempts []model.AttemptRow
	for rows.Next() {
		var a model.AttemptRow
		if err := rows.Scan(&a.ExamID, &a.QuestionID, &a.Subject, &a.Topic,
			&a.IsCorrect, &a.TimeSpentSeconds, &a.AttemptedAt); err != nil {
			return nil, translate(err)
		}
		attempts = append(attempts, a)
	}
	return attempts, translate(rows.Err())
}
