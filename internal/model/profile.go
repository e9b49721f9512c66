package model

import "time"

type Profile struct {
	ID       string `db:"id" json:"id"`
	UserID   string `db:"user_id" json:"user_id"`
	Name     string `db:"name" json:"name"`
	Timezone string `db:"timezone" json:"timezone"`

	// Stored streak aggregate. It goes stale once the user stops studying,
	// so it is never serialized directly; see streak.Effective.
	// StreakVersion guards concurrent read-modify-write.
	CurrentStreak int     `db:"current_streak" json:"-"`
	LongestStreak int     `db:"longest_streak" json:"-"`
	LastStudyDate *string `db:"last_study_date" json:"-"`
	StreakVersion int     `db:"streak_version" json:"-"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func (p *Profile) Streak() StreakState {
	return StreakState{
		CurrentStreak: p.CurrentStreak,
		LongestStreak: p.LongestStreak,
		LastStudyDate: p.LastStudyDate,
	}
}
