package model

// StreakState is the streak aggregate stored on a user's profile.
// LongestStreak is always >= CurrentStreak.
type StreakState struct {
	CurrentStreak int     `json:"current_streak"`
	LongestStreak int     `json:"longest_streak"`
	LastStudyDate *string `json:"last_study_date"`
}

func (s StreakState) Equal(o StreakState) bool {
	if s.CurrentStreak != o.CurrentStreak || s.LongestStreak != o.LongestStreak {
		return false
	}
	if s.LastStudyDate == nil || o.LastStudyDate == nil {
		return s.LastStudyDate == nil && o.LastStudyDate == nil
	}
	return *s.LastStudyDate == *o.LastStudyDate
}
