package model

// OverviewStats is the top-level analytics view for a user, recomputed
// on demand from progress records and sessions. Empty history yields a
// zero-valued struct, not an error.
type OverviewStats struct {
	TotalAttempted    int     `json:"total_attempted"`
	TotalCorrect      int     `json:"total_correct"`
	Accuracy          float64 `json:"accuracy"`
	WeeklyAttempts    int     `json:"weekly_attempts"`
	StudyStreakDays   int     `json:"study_streak_days"`
	SessionsTotal     int     `json:"sessions_total"`
	SessionsCompleted int     `json:"sessions_completed"`
	TimeSpentSeconds  int     `json:"time_spent_seconds"`
}

// ExamStats is the per-exam rollup of a user's attempts.
type ExamStats struct {
	ExamID    string  `json:"exam_id"`
	Attempted int     `json:"attempted"`
	Correct   int     `json:"correct"`
	Accuracy  float64 `json:"accuracy"`
}

// SubjectStats rolls up attempts by subject. Accuracy is computed as
// correct-sum over total-sum across the subject's topics, not as an
// average of per-topic accuracies.
type SubjectStats struct {
	Subject   string       `json:"subject"`
	Attempted int          `json:"attempted"`
	Correct   int          `json:"correct"`
	Accuracy  float64      `json:"accuracy"`
	Topics    []TopicStats `json:"topics"`
}

// TopicStats is the per-topic rollup within a subject.
type TopicStats struct {
	Topic     string  `json:"topic"`
	Attempted int     `json:"attempted"`
	Correct   int     `json:"correct"`
	Accuracy  float64 `json:"accuracy"`
}
