package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/prepdesk/prepdesk-backend/internal/generation"
	"github.com/prepdesk/prepdesk-backend/internal/model"
	"github.com/prepdesk/prepdesk-backend/internal/repository"
)

// QuestionService memoizes generated question content. Stored questions
// are served before the generation collaborator is ever called, which
// keeps generation latency out of the answer hot path entirely: the
// outcome-agnostic baseline explanation is computed once here, at
// generation time.
type QuestionService struct {
	questions QuestionStore
	provider  generation.Provider

	// genTimeout bounds a single provider call. Zero means no bound
	// beyond the request context.
	genTimeout time.Duration

	log zerolog.Logger
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(questions QuestionStore, provider generation.Provider, genTimeout time.Duration, log zerolog.Logger) *QuestionService {
	return &QuestionService{
		questions:  questions,
		provider:   provider,
		genTimeout: genTimeout,
		log:        log.With().Str("component", "question_service").Logger(),
	}
}

// Supply returns a question for the requested slot that the user has not
// attempted yet, generating and persisting a new one on cache miss.
// Generation failures surface as ErrGenerationFailed; there is no
// automatic retry.
func (s *QuestionService) Supply(ctx context.Context, userID string, req model.NextQuestionRequest) (*model.Question, error) {
	difficulty := model.Difficulty(req.Difficulty)

	q, err := s.questions.FindUnattempted(ctx, userID, req.ExamID, difficulty, req.Subject, req.Topic)
	if err == nil {
		return s.withBaseExplanation(ctx, q), nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("find question: %w", err)
	}

	genCtx := ctx
	if s.genTimeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.genTimeout)
		defer cancel()
	}

	generated, err := s.provider.Generate(genCtx, generation.Request{
		ExamID:     req.ExamID,
		Difficulty: difficulty,
		Subject:    req.Subject,
		Topic:      req.Topic,
	})
	if err != nil {
		s.log.Error().Err(err).Str("exam_id", req.ExamID).Str("model", s.provider.ModelID()).Msg("generation failed")
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	q = &model.Question{
		ExamID:          req.ExamID,
		Subject:         generated.Subject,
		Topic:           generated.Topic,
		Difficulty:      difficulty,
		Prompt:          generated.Prompt,
		Options:         generated.Options,
		CorrectAnswer:   generated.CorrectAnswer,
		Explanation:     generated.Explanation,
		BaseExplanation: baseExplanation(generated.CorrectAnswer, generated.Explanation),
	}

	if err := s.questions.Create(ctx, q); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// A concurrent generation won the slot sequence. Serve the
			// winner's question instead of persisting a duplicate.
			existing, ferr := s.questions.FindUnattempted(ctx, userID, req.ExamID, difficulty, req.Subject, req.Topic)
			if ferr == nil {
				return s.withBaseExplanation(ctx, existing), nil
			}
		}
		return nil, fmt.Errorf("persist question: %w", err)
	}

	return q, nil
}

// withBaseExplanation lazily backfills an empty baseline explanation on
// a stored question. No generation call is involved; the baseline is
// derived from the question's own explanation text.
func (s *QuestionService) withBaseExplanation(ctx context.Context, q *model.Question) *model.Question {
	if q.BaseExplanation != "" {
		return q
	}
	q.BaseExplanation = baseExplanation(q.CorrectAnswer, q.Explanation)
	if err := s.questions.BackfillBaseExplanation(ctx, q.ID, q.BaseExplanation); err != nil {
		// Serving the question matters more than persisting the
		// backfill; the next serve will try again.
		s.log.Warn().Err(err).Str("question_id", q.ID.String()).Msg("base explanation backfill failed")
	}
	return q
}

// baseExplanation renders the outcome-agnostic rationale stored with a
// question and reused across all submissions against it.
func baseExplanation(correctAnswer, explanation string) string {
	return fmt.Sprintf("The correct answer is %s. %s", correctAnswer, explanation)
}
