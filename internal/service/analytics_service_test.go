package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepdesk/prepdesk-backend/internal/model"
)

// fixedNow is a deterministic "now" for window and streak arithmetic:
// mid-afternoon UTC so day-boundary math is unambiguous.
var fixedNow = time.Date(2026, 3, 18, 15, 30, 0, 0, time.UTC)

func newAnalyticsFixture(attempts ...model.AttemptRow) (*AnalyticsService, *memSessionStore) {
	progress := newMemProgressStore()
	progress.attempts = attempts
	sessions := newMemSessionStore()
	svc := NewAnalyticsService(progress, sessions)
	svc.now = func() time.Time { return fixedNow }
	return svc, sessions
}

func attempt(daysAgo int, subject, topic string, correct bool) model.AttemptRow {
	return model.AttemptRow{
		ExamID:      "jee-mains",
		Subject:     subject,
		Topic:       topic,
		IsCorrect:   correct,
		AttemptedAt: fixedNow.AddDate(0, 0, -daysAgo),
	}
}

func TestOverview_EmptyHistory(t *testing.T) {
	svc, _ := newAnalyticsFixture()

	stats, err := svc.Overview(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, &model.OverviewStats{}, stats)
}

func TestOverview_AccuracyAndSessions(t *testing.T) {
	svc, sessions := newAnalyticsFixture(
		attempt(0, "Physics", "Optics", true),
		attempt(0, "Physics", "Optics", true),
		attempt(1, "Chemistry", "Bonding", false),
	)

	completed := model.Session{UserID: "u1", Status: model.SessionStatusCompleted, TimeSpentSeconds: 300}
	require.NoError(t, sessions.Create(context.Background(), &completed))
	now := time.Now()
	completed.CompletedAt = &now
	sessions.sessions[completed.ID] = completed
	open := model.Session{UserID: "u1", Status: model.SessionStatusInProgress, TimeSpentSeconds: 120}
	require.NoError(t, sessions.Create(context.Background(), &open))

	stats, err := svc.Overview(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalAttempted)
	assert.Equal(t, 2, stats.TotalCorrect)
	assert.InDelta(t, 66.67, stats.Accuracy, 0.001)
	assert.Equal(t, 2, stats.SessionsTotal)
	assert.Equal(t, 1, stats.SessionsCompleted)
	assert.Equal(t, 420, stats.TimeSpentSeconds)
}

func TestOverview_WeeklyWindowBoundary(t *testing.T) {
	svc, _ := newAnalyticsFixture(
		// Start of the day six days ago: inside the window.
		model.AttemptRow{IsCorrect: true, AttemptedAt: time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)},
		// One second earlier: outside.
		model.AttemptRow{IsCorrect: true, AttemptedAt: time.Date(2026, 3, 11, 23, 59, 59, 0, time.UTC)},
		attempt(0, "Physics", "Optics", true),
	)

	stats, err := svc.Overview(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalAttempted)
	assert.Equal(t, 2, stats.WeeklyAttempts)
}

func TestOverview_Streak(t *testing.T) {
	tests := []struct {
		name    string
		daysAgo []int
		want    int
	}{
		{"three consecutive days ending today", []int{0, 1, 2}, 3},
		{"gap yesterday breaks the run", []int{0, 2}, 1},
		{"no activity today means no streak", []int{2, 3}, 0},
		{"duplicate attempts on one day count once", []int{0, 0, 1}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var attempts []model.AttemptRow
			for _, d := range tt.daysAgo {
				attempts = append(attempts, attempt(d, "Physics", "Optics", true))
			}
			svc, _ := newAnalyticsFixture(attempts...)

			stats, err := svc.Overview(context.Background(), "u1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, stats.StudyStreakDays)
		})
	}
}

func TestByExam_Rollup(t *testing.T) {
	svc, _ := newAnalyticsFixture(
		model.AttemptRow{ExamID: "jee-mains", IsCorrect: true, AttemptedAt: fixedNow},
		model.AttemptRow{ExamID: "jee-mains", IsCorrect: false, AttemptedAt: fixedNow},
		model.AttemptRow{ExamID: "jee-mains", IsCorrect: true, AttemptedAt: fixedNow},
		model.AttemptRow{ExamID: "neet", IsCorrect: true, AttemptedAt: fixedNow},
	)

	stats, err := svc.ByExam(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, stats, 2)

	// Most attempted exam first.
	assert.Equal(t, "jee-mains", stats[0].ExamID)
	assert.Equal(t, 3, stats[0].Attempted)
	assert.Equal(t, 2, stats[0].Correct)
	assert.InDelta(t, 66.67, stats[0].Accuracy, 0.001)

	assert.Equal(t, "neet", stats[1].ExamID)
	assert.InDelta(t, 100.0, stats[1].Accuracy, 0.001)
}

func TestBySubject_WeightedAccuracy(t *testing.T) {
	// Optics: 1/1 correct. Mechanics: 1/3 correct. An average of topic
	// accuracies would give 66.67; the weighted subject accuracy is 2/4.
	svc, _ := newAnalyticsFixture(
		attempt(0, "Physics", "Optics", true),
		attempt(0, "Physics", "Mechanics", true),
		attempt(0, "Physics", "Mechanics", false),
		attempt(0, "Physics", "Mechanics", false),
	)

	stats, err := svc.BySubject(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, stats, 1)

	physics := stats[0]
	assert.Equal(t, 4, physics.Attempted)
	assert.Equal(t, 2, physics.Correct)
	assert.InDelta(t, 50.0, physics.Accuracy, 0.001)

	require.Len(t, physics.Topics, 2)
	assert.Equal(t, "Mechanics", physics.Topics[0].Topic)
	assert.Equal(t, 3, physics.Topics[0].Attempted)
	assert.InDelta(t, 33.33, physics.Topics[0].Accuracy, 0.001)
	assert.Equal(t, "Optics", physics.Topics[1].Topic)
	assert.InDelta(t, 100.0, physics.Topics[1].Accuracy, 0.001)
}

func TestBySubject_TopicsSeparatedAcrossSubjects(t *testing.T) {
	// The same topic name under two subjects stays two rollups.
	svc, _ := newAnalyticsFixture(
		attempt(0, "Physics", "Waves", true),
		attempt(0, "Chemistry", "Waves", false),
	)

	stats, err := svc.BySubject(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, stats, 2)
	for _, sub := range stats {
		require.Len(t, sub.Topics, 1)
		assert.Equal(t, 1, sub.Topics[0].Attempted)
	}
}
