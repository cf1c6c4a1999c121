package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prepdesk/prepdesk-backend/internal/model"
	"github.com/prepdesk/prepdesk-backend/internal/repository"
)

// SessionService owns the mock test session lifecycle and answer scoring.
type SessionService struct {
	sessions  SessionStore
	questions QuestionStore
	progress  ProgressStore
	log       zerolog.Logger
}

// NewSessionService creates a new SessionService.
func NewSessionService(sessions SessionStore, questions QuestionStore, progress ProgressStore, log zerolog.Logger) *SessionService {
	return &SessionService{
		sessions:  sessions,
		questions: questions,
		progress:  progress,
		log:       log.With().Str("component", "session_service").Logger(),
	}
}

// CreateSession starts a new in-progress session with zeroed counters.
func (s *SessionService) CreateSession(ctx context.Context, userID string, req model.CreateSessionRequest) (*model.Session, error) {
	session := &model.Session{
		UserID:     userID,
		ExamID:     req.ExamID,
		Difficulty: model.Difficulty(req.Difficulty),
		AIModel:    req.AIModel,
		Status:     model.SessionStatusInProgress,
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Str("exam_id", req.ExamID).Msg("create session failed")
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// GetSession loads a session owned by userID.
func (s *SessionService) GetSession(ctx context.Context, userID string, sessionID uuid.UUID) (*model.Session, error) {
	return s.loadOwned(ctx, userID, sessionID)
}

// ListSessions returns the user's sessions, newest first.
func (s *SessionService) ListSessions(ctx context.Context, userID string, page, perPage int) ([]model.Session, int64, error) {
	return s.sessions.ListByUser(ctx, userID, page, perPage)
}

// RecordAnswer scores one submitted answer against its question, bumps
// the session aggregate, and appends an immutable progress record.
//
// The aggregate update runs as an optimistic-concurrency loop: read the
// session, compute the new counters, then conditionally write them with
// the previously read total as the expected value. Concurrent
// submissions against the same session each land exactly once; sessions
// of other users are never blocked.
func (s *SessionService) RecordAnswer(ctx context.Context, userID string, sessionID, questionID uuid.UUID, userAnswer string, timeSpentSeconds int) (*model.AnswerResult, error) {
	question, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("load question: %w", err)
	}

	// Exact label equality. No case or whitespace normalization.
	isCorrect := userAnswer == question.CorrectAnswer

	// Every failed swap below means a concurrent submission landed, so
	// the loop always makes progress; only cancellation stops it.
	var session *model.Session
	for session == nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		current, err := s.loadOwned(ctx, userID, sessionID)
		if err != nil {
			return nil, err
		}
		if current.Status == model.SessionStatusCompleted {
			return nil, ErrSessionCompleted
		}
		// A question from another exam reads as absent; accepting it
		// would put a foreign subject/topic into this exam's analytics.
		if question.ExamID != current.ExamID {
			return nil, ErrQuestionNotFound
		}

		updated := *current
		updated.TotalQuestions = current.TotalQuestions + 1
		if isCorrect {
			updated.CorrectAnswers = current.CorrectAnswers + 1
		}
		updated.Score = percent(updated.CorrectAnswers, updated.TotalQuestions)
		updated.TimeSpentSeconds = current.TimeSpentSeconds + timeSpentSeconds

		ok, err := s.sessions.UpdateAggregates(ctx, &updated, current.TotalQuestions)
		if err != nil {
			s.log.Error().Err(err).Str("session_id", sessionID.String()).Msg("aggregate update failed")
			return nil, fmt.Errorf("update session aggregate: %w", err)
		}
		if ok {
			session = &updated
		}
		// Otherwise the swap lost to a concurrent submission; reload
		// and retry with fresh counters.
	}

	record := &model.ProgressRecord{
		UserID:           userID,
		ExamID:           session.ExamID,
		QuestionID:       question.ID,
		SessionID:        session.ID,
		UserAnswer:       userAnswer,
		IsCorrect:        isCorrect,
		TimeSpentSeconds: timeSpentSeconds,
	}
	if err := s.progress.Create(ctx, record); err != nil {
		s.log.Error().Err(err).Str("session_id", sessionID.String()).Msg("progress record write failed")
		return nil, fmt.Errorf("write progress record: %w", err)
	}

	return &model.AnswerResult{
		IsCorrect:     isCorrect,
		CorrectAnswer: question.CorrectAnswer,
		Explanation:   answerExplanation(question, isCorrect, userAnswer),
		Session:       session,
	}, nil
}

// CompleteSession transitions a session to completed and stamps
// completedAt. Completing an already completed session is a no-op that
// returns the session unchanged.
func (s *SessionService) CompleteSession(ctx context.Context, userID string, sessionID uuid.UUID) (*model.Session, error) {
	session, err := s.loadOwned(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == model.SessionStatusCompleted {
		return session, nil
	}

	now := time.Now()
	ok, err := s.sessions.Complete(ctx, sessionID, now)
	if err != nil {
		return nil, fmt.Errorf("complete session: %w", err)
	}
	if !ok {
		// A concurrent call won the transition; serve its result.
		return s.loadOwned(ctx, userID, sessionID)
	}

	session.Status = model.SessionStatusCompleted
	session.CompletedAt = &now
	return session, nil
}

func (s *SessionService) loadOwned(ctx context.Context, userID string, sessionID uuid.UUID) (*model.Session, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// answerExplanation picks the stored baseline explanation and, for a
// wrong answer, prefixes it with the submitted label. The annotation is
// per-response only; the stored explanation is never mutated.
func answerExplanation(q *model.Question, isCorrect bool, userAnswer string) string {
	explanation := q.BaseExplanation
	if explanation == "" {
		explanation = q.Explanation
	}
	if !isCorrect {
		return fmt.Sprintf("Your answer %q is not correct. %s", userAnswer, explanation)
	}
	return explanation
}

// percent returns correct/total as a percentage rounded to 2 decimal
// places, 0 when total is 0.
func percent(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(correct)/float64(total)*100*100) / 100
}
