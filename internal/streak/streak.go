// Package streak derives consecutive-day study streaks.
//
// An active day is a calendar date with at least one study session. The
// current streak counts consecutive active days ending today or yesterday;
// a gap of more than one day resets it but never lowers the longest streak.
// All functions are pure and safe for concurrent use.
package streak

import (
	"sort"

	"github.com/templui/studyhall/internal/calendar"
	"github.com/templui/studyhall/internal/model"
)

// Calculate recomputes the streak state from a full session history.
// Order and duplicates in sessions do not matter; break sessions are ignored.
func Calculate(sessions []*model.StudySession, today string) model.StreakState {
	dates := activeDays(sessions)
	if len(dates) == 0 {
		return model.StreakState{}
	}

	current := 0
	if dates[0] == today || dates[0] == calendar.AddDays(today, -1) {
		current = 1
	}

	live := current == 1
	longest, run := 0, 1
	for i := 1; i < len(dates); i++ {
		if calendar.DaysBetween(dates[i], dates[i-1]) == 1 {
			run++
			if live {
				current = run
			}
			continue
		}
		longest = max(longest, run)
		run = 1
		live = false
	}
	longest = max(longest, run)

	last := dates[0]
	return model.StreakState{
		CurrentStreak: current,
		LongestStreak: longest,
		LastStudyDate: &last,
	}
}

// UpdateForNewSession applies one study session to state in O(1).
//
// Only a session dated today moves the streak. Back-dated and future-dated
// sessions leave state unchanged and need a Calculate over full history.
func UpdateForNewSession(state model.StreakState, sessionDate, today string) model.StreakState {
	if sessionDate != today {
		return state
	}
	if state.LastStudyDate != nil && *state.LastStudyDate == today {
		return state
	}

	last := today
	if state.LastStudyDate != nil && *state.LastStudyDate == calendar.AddDays(today, -1) {
		current := state.CurrentStreak + 1
		return model.StreakState{
			CurrentStreak: current,
			LongestStreak: max(state.LongestStreak, current),
			LastStudyDate: &last,
		}
	}

	// longest only moves from 0 to 1 here, for a profile that never studied
	return model.StreakState{
		CurrentStreak: 1,
		LongestStreak: max(state.LongestStreak, 1),
		LastStudyDate: &last,
	}
}

// Effective returns state as it should be shown today: a stored streak whose
// last active day is older than yesterday is already broken.
func Effective(state model.StreakState, today string) model.StreakState {
	if state.LastStudyDate == nil {
		state.CurrentStreak = 0
		return state
	}
	if calendar.DaysBetween(*state.LastStudyDate, today) > 1 {
		state.CurrentStreak = 0
	}
	return state
}

// activeDays returns the distinct study dates, most recent first.
func activeDays(sessions []*model.StudySession) []string {
	seen := make(map[string]struct{}, len(sessions))
	dates := make([]string, 0, len(sessions))
	for _, s := range sessions {
		if s == nil || !s.IsStudy() {
			continue
		}
		if _, ok := seen[s.Date]; ok {
			continue
		}
		seen[s.Date] = struct{}{}
		dates = append(dates, s.Date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates
}
