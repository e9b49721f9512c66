// Package progress evaluates minute targets against logged study sessions.
package progress

import (
	"math"

	"github.com/templui/studyhall/internal/calendar"
	"github.com/templui/studyhall/internal/model"
)

// Period anchors an evaluation: the current Sunday..Saturday week and today.
type Period struct {
	Week  calendar.Window
	Today string
}

// WeeklyMinutes sums study minutes dated inside window. A nil subjectID
// counts every subject.
func WeeklyMinutes(sessions []*model.StudySession, subjectID *string, window calendar.Window) int {
	total := 0
	for _, s := range sessions {
		if s == nil || !s.IsStudy() || !window.Contains(s.Date) {
			continue
		}
		if subjectID != nil && (s.SubjectID == nil || *s.SubjectID != *subjectID) {
			continue
		}
		total += s.DurationMinutes
	}
	return total
}

// Percent is round(minutes/target*100) clamped to [0, 100]. target must be
// positive.
func Percent(minutes, target int) int {
	p := int(math.Round(float64(minutes) / float64(target) * 100))
	return min(max(p, 0), 100)
}

// Evaluate computes one goal's progress for the period.
func Evaluate(goal *model.Goal, sessions []*model.StudySession, period Period) model.GoalProgress {
	week := WeeklyMinutes(sessions, goal.SubjectID, period.Week)
	today := WeeklyMinutes(sessions, goal.SubjectID, calendar.Window{Start: period.Today, End: period.Today})

	return model.GoalProgress{
		Goal:                  goal,
		CurrentWeekMinutes:    week,
		WeeklyProgressPercent: Percent(week, goal.WeeklyTargetMinutes),
		IsMet:                 week >= goal.WeeklyTargetMinutes,
		TodayMinutes:          today,
		DailyProgressPercent:  Percent(today, goal.DailyTargetMinutes),
		IsDailyMet:            today >= goal.DailyTargetMinutes,
	}
}

// EvaluateAll evaluates each goal independently, in input order.
func EvaluateAll(goals []*model.Goal, sessions []*model.StudySession, period Period) []model.GoalProgress {
	out := make([]model.GoalProgress, 0, len(goals))
	for _, g := range goals {
		out = append(out, Evaluate(g, sessions, period))
	}
	return out
}
