package model

import (
	"time"
)

// Goal is a daily/weekly minute target. A nil SubjectID means the goal covers
// all subjects combined.
type Goal struct {
	ID                  string    `db:"id" json:"id"`
	UserID              string    `db:"user_id" json:"user_id"`
	SubjectID           *string   `db:"subject_id" json:"subject_id"`
	SubjectName         *string   `db:"subject_name" json:"subject_name"`
	DailyTargetMinutes  int       `db:"daily_target_minutes" json:"daily_target_minutes"`
	WeeklyTargetMinutes int       `db:"weekly_target_minutes" json:"weekly_target_minutes"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

func (g *Goal) IsOverall() bool {
	return g.SubjectID == nil
}

// GoalProgress is derived from a goal and the sessions logged against it.
// It is never persisted.
type GoalProgress struct {
	Goal                  *Goal `json:"goal"`
	CurrentWeekMinutes    int   `json:"current_week_minutes"`
	WeeklyProgressPercent int   `json:"weekly_progress_percent"`
	IsMet                 bool  `json:"is_met"`

	TodayMinutes         int  `json:"today_minutes"`
	DailyProgressPercent int  `json:"daily_progress_percent"`
	IsDailyMet           bool `json:"is_daily_met"`
}
