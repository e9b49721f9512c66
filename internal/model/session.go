package model

import "time"

const (
	SessionTypeStudy = "study"
	SessionTypeBreak = "break"
)

// StudySession is one finished timer run. Date is a YYYY-MM-DD calendar date.
// Sessions are immutable once recorded.
type StudySession struct {
	ID              string    `db:"id" json:"id"`
	UserID          string    `db:"user_id" json:"user_id"`
	SubjectID       *string   `db:"subject_id" json:"subject_id"`
	SessionType     string    `db:"session_type" json:"session_type"`
	Date            string    `db:"date" json:"date"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	Note            string    `db:"note" json:"note"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

func (s *StudySession) IsStudy() bool {
	return s.SessionType == SessionTypeStudy
}

func ValidSessionType(t string) bool {
	return t == SessionTypeStudy || t == SessionTypeBreak
}

// DailyTotal is the study minutes logged on one date.
type DailyTotal struct {
	Date    string `db:"date" json:"date"`
	Minutes int    `db:"minutes" json:"minutes"`
}
