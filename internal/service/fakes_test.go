package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prepdesk/prepdesk-backend/internal/model"
	"github.com/prepdesk/prepdesk-backend/internal/repository"
)

// In-memory stores honoring the same contracts as the pgx repositories,
// including the conditional-update semantics of the session aggregate.

type memSessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]model.Session
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[uuid.UUID]model.Session)}
}

func (m *memSessionStore) Create(_ context.Context, s *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = uuid.New()
	s.StartedAt = time.Now()
	m.sessions[s.ID] = *s
	return nil
}

func (m *memSessionStore) GetByID(_ context.Context, id uuid.UUID) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := s
	return &out, nil
}

func (m *memSessionStore) UpdateAggregates(_ context.Context, s *model.Session, expectedTotal int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.sessions[s.ID]
	if !ok || cur.Status != model.SessionStatusInProgress || cur.TotalQuestions != expectedTotal {
		return false, nil
	}
	m.sessions[s.ID] = *s
	return true, nil
}

func (m *memSessionStore) Complete(_ context.Context, id uuid.UUID, completedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.sessions[id]
	if !ok || cur.Status != model.SessionStatusInProgress {
		return false, nil
	}
	cur.Status = model.SessionStatusCompleted
	cur.CompletedAt = &completedAt
	m.sessions[id] = cur
	return true, nil
}

func (m *memSessionStore) ListByUser(_ context.Context, userID string, page, perPage int) ([]model.Session, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []model.Session
	for _, s := range m.sessions {
		if s.UserID == userID {
			all = append(all, s)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].StartedAt.After(all[j].StartedAt) })

	total := int64(len(all))
	start := (page - 1) * perPage
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + perPage
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (m *memSessionStore) AggregateByUser(_ context.Context, userID string) (int, int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total, completed, timeSpent := 0, 0, 0
	for _, s := range m.sessions {
		if s.UserID != userID {
			continue
		}
		total++
		if s.Status == model.SessionStatusCompleted {
			completed++
		}
		timeSpent += s.TimeSpentSeconds
	}
	return total, completed, timeSpent, nil
}

type memQuestionStore struct {
	mu        sync.Mutex
	questions map[uuid.UUID]model.Question
	attempted map[string]map[uuid.UUID]bool

	// dupOnce makes the next Create fail with ErrDuplicate, simulating
	// a concurrent generation winning the slot sequence.
	dupOnce bool

	backfills int
}

func newMemQuestionStore() *memQuestionStore {
	return &memQuestionStore{
		questions: make(map[uuid.UUID]model.Question),
		attempted: make(map[string]map[uuid.UUID]bool),
	}
}

func (m *memQuestionStore) GetByID(_ context.Context, id uuid.UUID) (*model.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.questions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := q
	return &out, nil
}

func (m *memQuestionStore) FindUnattempted(_ context.Context, userID, examID string, difficulty model.Difficulty, subject, topic string) (*model.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var match *model.Question
	for id, q := range m.questions {
		if q.ExamID != examID || q.Difficulty != difficulty {
			continue
		}
		if subject != "" && q.Subject != subject {
			continue
		}
		if topic != "" && q.Topic != topic {
			continue
		}
		if m.attempted[userID][id] {
			continue
		}
		if match == nil || q.Seq < match.Seq {
			out := q
			match = &out
		}
	}
	if match == nil {
		return nil, repository.ErrNotFound
	}
	return match, nil
}

func (m *memQuestionStore) Create(_ context.Context, q *model.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dupOnce {
		m.dupOnce = false
		return repository.ErrDuplicate
	}
	q.ID = uuid.New()
	q.CreatedAt = time.Now()
	maxSeq := 0
	for _, other := range m.questions {
		if other.ExamID == q.ExamID && other.Difficulty == q.Difficulty &&
			other.Subject == q.Subject && other.Topic == q.Topic && other.Seq > maxSeq {
			maxSeq = other.Seq
		}
	}
	q.Seq = maxSeq + 1
	m.questions[q.ID] = *q
	return nil
}

func (m *memQuestionStore) BackfillBaseExplanation(_ context.Context, id uuid.UUID, baseExplanation string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.questions[id]
	if !ok || q.BaseExplanation != "" {
		return nil
	}
	q.BaseExplanation = baseExplanation
	m.questions[id] = q
	m.backfills++
	return nil
}

func (m *memQuestionStore) add(q model.Question) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	m.questions[q.ID] = q
	return q.ID
}

func (m *memQuestionStore) markAttempted(userID string, id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.attempted[userID] == nil {
		m.attempted[userID] = make(map[uuid.UUID]bool)
	}
	m.attempted[userID][id] = true
}

type memProgressStore struct {
	mu       sync.Mutex
	records  []model.ProgressRecord
	attempts []model.AttemptRow
}

func newMemProgressStore() *memProgressStore {
	return &memProgressStore{}
}

func (m *memProgressStore) Create(_ context.Context, rec *model.ProgressRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.ID = uuid.New()
	rec.AttemptedAt = time.Now()
	m.records = append(m.records, *rec)
	return nil
}

func (m *memProgressStore) ListAttemptsByUser(_ context.Context, _ string) ([]model.AttemptRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.AttemptRow, len(m.attempts))
	copy(out, m.attempts)
	return out, nil
}

func (m *memProgressStore) recordCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}
