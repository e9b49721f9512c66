package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/studyhall/internal/repository"
)

func TestGoalSaveValidatesTargets(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "ada@example.com", "")

	tests := []struct {
		name  string
		input SaveGoalInput
	}{
		{"zero weekly", SaveGoalInput{DailyTargetMinutes: 30, WeeklyTargetMinutes: 0}},
		{"negative daily", SaveGoalInput{DailyTargetMinutes: -10, WeeklyTargetMinutes: 300}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.goalService.Save(user.ID, tt.input)
			assert.True(t, isValidationError(err), "unexpected error: %v", err)
		})
	}

	goals, err := env.goalService.Goals(user.ID)
	require.NoError(t, err)
	assert.Empty(t, goals)
}

func TestGoalSaveOverwritesPerSubject(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "ada@example.com", "")
	math := env.createSubject(t, user.ID, "Math")

	overall, err := env.goalService.Save(user.ID, SaveGoalInput{DailyTargetMinutes: 60, WeeklyTargetMinutes: 300})
	require.NoError(t, err)
	assert.True(t, overall.IsOverall())

	mathGoal, err := env.goalService.Save(user.ID, SaveGoalInput{SubjectID: &math.ID, DailyTargetMinutes: 20, WeeklyTargetMinutes: 100})
	require.NoError(t, err)
	require.NotNil(t, mathGoal.SubjectName)
	assert.Equal(t, "Math", *mathGoal.SubjectName)

	updated, err := env.goalService.Save(user.ID, SaveGoalInput{DailyTargetMinutes: 90, WeeklyTargetMinutes: 450})
	require.NoError(t, err)
	assert.Equal(t, overall.ID, updated.ID)

	goals, err := env.goalService.Goals(user.ID)
	require.NoError(t, err)
	require.Len(t, goals, 2)
	assert.Equal(t, 450, goals[0].WeeklyTargetMinutes)

	_, err = env.goalService.Save(user.ID, SaveGoalInput{SubjectID: ptr("missing"), DailyTargetMinutes: 1, WeeklyTargetMinutes: 1})
	assert.ErrorIs(t, err, repository.ErrSubjectNotFound)

	require.NoError(t, env.goalService.Delete(user.ID, mathGoal.ID))
	assert.ErrorIs(t, env.goalService.Delete(user.ID, mathGoal.ID), repository.ErrGoalNotFound)
}

func TestGoalProgress(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "ada@example.com", "")
	math := env.createSubject(t, user.ID, "Math")
	art := env.createSubject(t, user.ID, "Art")

	_, err := env.goalService.Save(user.ID, SaveGoalInput{DailyTargetMinutes: 60, WeeklyTargetMinutes: 300})
	require.NoError(t, err)
	_, err = env.goalService.Save(user.ID, SaveGoalInput{SubjectID: &math.ID, DailyTargetMinutes: 30, WeeklyTargetMinutes: 120})
	require.NoError(t, err)
	_, err = env.goalService.Save(user.ID, SaveGoalInput{SubjectID: &art.ID, DailyTargetMinutes: 10, WeeklyTargetMinutes: 60})
	require.NoError(t, err)

	env.record(t, user.ID, "2026-10-10", 200, &math.ID) // last week, ignored
	env.record(t, user.ID, "2026-10-12", 100, &math.ID)
	env.record(t, user.ID, "2026-10-15", 50, &math.ID)
	env.record(t, user.ID, "2026-10-15", 30, nil)

	progress, err := env.goalService.Progress(user.ID)
	require.NoError(t, err)
	require.Len(t, progress, 3)

	// overall first, then subjects by name
	overall, artProgress, mathProgress := progress[0], progress[1], progress[2]

	assert.Nil(t, overall.Goal.SubjectID)
	assert.Equal(t, 180, overall.CurrentWeekMinutes)
	assert.Equal(t, 60, overall.WeeklyProgressPercent)
	assert.False(t, overall.IsMet)
	assert.Equal(t, 80, overall.TodayMinutes)
	assert.True(t, overall.IsDailyMet)

	assert.Equal(t, "Art", *artProgress.Goal.SubjectName)
	assert.Equal(t, 0, artProgress.CurrentWeekMinutes)
	assert.Equal(t, 0, artProgress.WeeklyProgressPercent)

	assert.Equal(t, 150, mathProgress.CurrentWeekMinutes)
	assert.Equal(t, 100, mathProgress.WeeklyProgressPercent)
	assert.True(t, mathProgress.IsMet)
}

func ptr(s string) *string {
	return &s
}
