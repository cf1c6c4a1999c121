package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/prepdesk/prepdesk-backend/internal/model"
)

// AnalyticsService derives progress analytics from the answer audit
// trail and session history. It is purely read-side: every view is
// recomputed on demand, nothing derived is cached. Empty history yields
// zero-valued metrics, never an error.
type AnalyticsService struct {
	progress ProgressStore
	sessions SessionStore

	// now is swappable for streak and weekly-window tests.
	now func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(progress ProgressStore, sessions SessionStore) *AnalyticsService {
	return &AnalyticsService{
		progress: progress,
		sessions: sessions,
		now:      time.Now,
	}
}

// Overview computes the user's top-level stats: overall accuracy,
// trailing-week activity, study streak, and session counters.
func (s *AnalyticsService) Overview(ctx context.Context, userID string) (*model.OverviewStats, error) {
	attempts, err := s.progress.ListAttemptsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	sessionsTotal, sessionsCompleted, timeSpent, err := s.sessions.AggregateByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("aggregate sessions: %w", err)
	}

	correct := 0
	for _, a := range attempts {
		if a.IsCorrect {
			correct++
		}
	}

	now := s.now()
	return &model.OverviewStats{
		TotalAttempted:    len(attempts),
		TotalCorrect:      correct,
		Accuracy:          percent(correct, len(attempts)),
		WeeklyAttempts:    weeklyCount(attempts, now),
		StudyStreakDays:   streakDays(attempts, now),
		SessionsTotal:     sessionsTotal,
		SessionsCompleted: sessionsCompleted,
		TimeSpentSeconds:  timeSpent,
	}, nil
}

// ByExam rolls the user's attempts up per exam.
func (s *AnalyticsService) ByExam(ctx context.Context, userID string) ([]model.ExamStats, error) {
	attempts, err := s.progress.ListAttemptsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}

	byExam := make(map[string]*model.ExamStats)
	for _, a := range attempts {
		st, ok := byExam[a.ExamID]
		if !ok {
			st = &model.ExamStats{ExamID: a.ExamID}
			byExam[a.ExamID] = st
		}
		st.Attempted++
		if a.IsCorrect {
			st.Correct++
		}
	}

	stats := make([]model.ExamStats, 0, len(byExam))
	for _, st := range byExam {
		st.Accuracy = percent(st.Correct, st.Attempted)
		stats = append(stats, *st)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Attempted != stats[j].Attempted {
			return stats[i].Attempted > stats[j].Attempted
		}
		return stats[i].ExamID < stats[j].ExamID
	})
	return stats, nil
}

// BySubject rolls the user's attempts up per subject and topic. Subject
// accuracy is correct-sum over total-sum across its topics, not an
// average of per-topic accuracies.
func (s *AnalyticsService) BySubject(ctx context.Context, userID string) ([]model.SubjectStats, error) {
	attempts, err := s.progress.ListAttemptsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}

	type topicKey struct{ subject, topic string }
	bySubject := make(map[string]*model.SubjectStats)
	byTopic := make(map[topicKey]*model.TopicStats)

	for _, a := range attempts {
		sub, ok := bySubject[a.Subject]
		if !ok {
			sub = &model.SubjectStats{Subject: a.Subject}
			bySubject[a.Subject] = sub
		}
		sub.Attempted++
		if a.IsCorrect {
			sub.Correct++
		}

		tk := topicKey{a.Subject, a.Topic}
		top, ok := byTopic[tk]
		if !ok {
			top = &model.TopicStats{Topic: a.Topic}
			byTopic[tk] = top
		}
		top.Attempted++
		if a.IsCorrect {
			top.Correct++
		}
	}

	stats := make([]model.SubjectStats, 0, len(bySubject))
	for subject, sub := range bySubject {
		sub.Accuracy = percent(sub.Correct, sub.Attempted)
		for tk, top := range byTopic {
			if tk.subject != subject {
				continue
			}
			top.Accuracy = percent(top.Correct, top.Attempted)
			sub.Topics = append(sub.Topics, *top)
		}
		sort.Slice(sub.Topics, func(i, j int) bool {
			if sub.Topics[i].Attempted != sub.Topics[j].Attempted {
				return sub.Topics[i].Attempted > sub.Topics[j].Attempted
			}
			return sub.Topics[i].Topic < sub.Topics[j].Topic
		})
		stats = append(stats, *sub)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Attempted != stats[j].Attempted {
			return stats[i].Attempted > stats[j].Attempted
		}
		return stats[i].Subject < stats[j].Subject
	})
	return stats, nil
}

// weeklyCount counts attempts within the trailing 7 calendar days
// inclusive: everything from the start of day six days ago onward.
func weeklyCount(attempts []model.AttemptRow, now time.Time) int {
	cutoff := dateOf(now).AddDate(0, 0, -6)
	count := 0
	for _, a := range attempts {
		if !a.AttemptedAt.UTC().Before(cutoff) {
			count++
		}
	}
	return count
}

// streakDays counts consecutive calendar days with at least one attempt,
// ending today. The walk starts at day offset 0: a user whose last
// activity was the day before yesterday has a streak of 0, not 1.
func streakDays(attempts []model.AttemptRow, now time.Time) int {
	if len(attempts) == 0 {
		return 0
	}

	active := make(map[time.Time]struct{}, len(attempts))
	for _, a := range attempts {
		active[dateOf(a.AttemptedAt)] = struct{}{}
	}

	streak := 0
	for day := dateOf(now); ; day = day.AddDate(0, 0, -1) {
		if _, ok := active[day]; !ok {
			break
		}
		streak++
	}
	return streak
}

// dateOf normalizes a timestamp to its UTC calendar day. All day
// boundaries in analytics use this single definition.
func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
