package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prepdesk/prepdesk-backend/internal/model"
)

// QuestionRepository handles generated question data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

const questionColumns = `id, exam_id, subject, topic, difficulty, prompt, options,
	correct_answer, explanation, base_explanation, seq, created_at`

func scanQuestion(row interface{ Scan(...any) error }) (*model.Question, error) {
	q := &model.Question{}
	var optionsRaw []byte
	err := row.Scan(&q.ID, &q.ExamID, &q.Subject, &q.Topic, &q.Difficulty, &q.Prompt,
		&optionsRaw, &q.CorrectAnswer, &q.Explanation, &q.BaseExplanation, &q.Seq, &q.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	if err := json.Unmarshal(optionsRaw, &q.Options); err != nil {
		return nil, fmt.Errorf("decode options: %w", err)
	}
	return q, nil
}

// GetByID retrieves a question by id.
func (r *QuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	return scanQuestion(r.pool.QueryRow(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = $1`, id))
}

// FindUnattempted returns the oldest question in the slot that the user
// has not answered yet. Subject and topic narrow the slot when set.
func (r *QuestionRepository) FindUnattempted(ctx context.Context, userID, examID string, difficulty model.Difficulty, subject, topic string) (*model.Question, error) {
	query := `SELECT ` + questionColumns + `
		FROM questions q
		WHERE q.exam_id = $1 AND q.difficulty = $2
		  AND NOT EXISTS (
			SELECT 1 FROM progress_records p
			WHERE p.question_id = q.id AND p.user_id = $3
		  )`
	args := []any{examID, difficulty, userID}

	if subject != "" {
		args = append(args, subject)
		query += fmt.Sprintf(" AND q.subject = $%d", len(args))
	}
	if topic != "" {
		args = append(args, topic)
		query += fmt.Sprintf(" AND q.topic = $%d", len(args))
	}
	query += " ORDER BY q.seq ASC LIMIT 1"

	return scanQuestion(r.pool.QueryRow(ctx, query, args...))
}

// Create inserts a generated question, assigning the next sequence
// number within its (exam, difficulty, subject, topic) slot. A unique
// index over the slot plus seq turns a concurrent duplicate insert into
// ErrDuplicate, which callers resolve by re-reading the slot.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	optionsRaw, err := json.Marshal(q.Options)
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}

	err = r.pool.QueryRow(ctx,
		`INSERT INTO questions
		   (exam_id, subject, topic, difficulty, prompt, options,
		    correct_answer, explanation, base_explanation, seq)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9,
		   (SELECT COALESCE(MAX(seq), 0) + 1 FROM questions
		    WHERE exam_id = $1 AND subject = $2 AND topic = $3 AND difficulty = $4))
		 RETURNING id, seq, created_at`,
		q.ExamID, q.Subject, q.Topic, q.Difficulty, q.Prompt, optionsRaw,
		q.CorrectAnswer, q.Explanation, q.BaseExplanation,
	).Scan(&q.ID, &q.Seq, &q.CreatedAt)
	return translate(err)
}

// BackfillBaseExplanation lazily fills an empty base_explanation on a
// stored question. Questions with one already set are never touched.
func (r *QuestionRepository) BackfillBaseExplanation(ctx context.Context, id uuid.UUID, baseExplanation string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE questions
		 SET base_explanation = $1
		 WHERE id = $2 AND base_explanation = ''`,
		baseExplanation, id)
	return translate(err)
}
