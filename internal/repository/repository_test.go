package repository

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/studyhall/internal/db"
	"github.com/templui/studyhall/internal/model"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	database, err := db.Open("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	return database
}

func createUser(t *testing.T, database *sqlx.DB) *model.User {
	t.Helper()

	user := &model.User{ID: uuid.New().String(), Email: uuid.New().String() + "@example.com", CreatedAt: time.Now()}
	require.NoError(t, NewUserRepository(database).Create(user))
	require.NoError(t, NewProfileRepository(database).Create(&model.Profile{UserID: user.ID, Name: "Ada"}))

	return user
}

func createSubject(t *testing.T, database *sqlx.DB, userID, name string) *model.Subject {
	t.Helper()

	subject := &model.Subject{ID: uuid.New().String(), UserID: userID, Name: name, CreatedAt: time.Now()}
	require.NoError(t, NewSubjectRepository(database).Create(subject))

	return subject
}

func TestUserRepository(t *testing.T) {
	database := newTestDB(t)
	repo := NewUserRepository(database)

	user := &model.User{ID: uuid.New().String(), Email: "Ada@Example.com", CreatedAt: time.Now()}
	require.NoError(t, repo.Create(user))

	got, err := repo.ByEmail("ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	err = repo.Create(&model.User{ID: uuid.New().String(), Email: "ada@example.com", CreatedAt: time.Now()})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	_, err = repo.ByID("missing")
	assert.ErrorIs(t, err, ErrUserNotFound)

	all, err := repo.All()
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.Delete(user.ID))
	assert.ErrorIs(t, repo.Delete(user.ID), ErrUserNotFound)
}

func TestProfileRepositoryStreakCAS(t *testing.T) {
	database := newTestDB(t)
	user := createUser(t, database)
	repo := NewProfileRepository(database)

	profile, err := repo.ByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "UTC", profile.Timezone)
	assert.Equal(t, 0, profile.StreakVersion)
	assert.Nil(t, profile.LastStudyDate)

	last := "2026-10-15"
	state := model.StreakState{CurrentStreak: 1, LongestStreak: 1, LastStudyDate: &last}
	require.NoError(t, repo.UpdateStreak(user.ID, state, 0))

	// stale version loses
	err = repo.UpdateStreak(user.ID, model.StreakState{CurrentStreak: 9, LongestStreak: 9}, 0)
	assert.ErrorIs(t, err, ErrStreakConflict)

	profile, err = repo.ByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, profile.StreakVersion)
	assert.True(t, state.Equal(profile.Streak()))
}

func TestProfileRepositoryUpdates(t *testing.T) {
	database := newTestDB(t)
	user := createUser(t, database)
	repo := NewProfileRepository(database)

	require.NoError(t, repo.UpdateName(user.ID, "Grace"))
	require.NoError(t, repo.UpdateTimezone(user.ID, "Europe/Berlin"))

	profile, err := repo.ByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Grace", profile.Name)
	assert.Equal(t, "Europe/Berlin", profile.Timezone)

	assert.ErrorIs(t, repo.UpdateName("missing", "x"), ErrProfileNotFound)
	_, err = repo.ByUserID("missing")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestSessionRepository(t *testing.T) {
	database := newTestDB(t)
	user := createUser(t, database)
	subject := createSubject(t, database, user.ID, "Math")
	repo := NewSessionRepository(database)

	add := func(date, sessionType string, minutes int, subjectID *string) {
		require.NoError(t, repo.Create(&model.StudySession{
			ID:              uuid.New().String(),
			UserID:          user.ID,
			SubjectID:       subjectID,
			SessionType:     sessionType,
			Date:            date,
			DurationMinutes: minutes,
			CreatedAt:       time.Now(),
		}))
	}

	add("2026-10-13", model.SessionTypeStudy, 25, &subject.ID)
	add("2026-10-13", model.SessionTypeStudy, 50, nil)
	add("2026-10-13", model.SessionTypeBreak, 5, nil)
	add("2026-10-15", model.SessionTypeStudy, 30, &subject.ID)
	add("2026-09-01", model.SessionTypeStudy, 90, nil)

	all, err := repo.Sessions(user.ID)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "2026-10-15", all[0].Date)
	assert.Equal(t, "2026-09-01", all[4].Date)

	week, err := repo.Between(user.ID, "2026-10-11", "2026-10-17")
	require.NoError(t, err)
	assert.Len(t, week, 4)

	totals, err := repo.DailyTotals(user.ID, "2026-10-11", "2026-10-17")
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, model.DailyTotal{Date: "2026-10-13", Minutes: 75}, *totals[0])
	assert.Equal(t, model.DailyTotal{Date: "2026-10-15", Minutes: 30}, *totals[1])

	count, err := repo.Count(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	got, err := repo.ByID(user.ID, all[0].ID)
	require.NoError(t, err)
	require.NotNil(t, got.SubjectID)
	assert.Equal(t, subject.ID, *got.SubjectID)

	_, err = repo.ByID("someone-else", all[0].ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionRepositoryRejectsNegativeDuration(t *testing.T) {
	database := newTestDB(t)
	user := createUser(t, database)

	err := NewSessionRepository(database).Create(&model.StudySession{
		ID:              uuid.New().String(),
		UserID:          user.ID,
		SessionType:     model.SessionTypeStudy,
		Date:            "2026-10-15",
		DurationMinutes: -1,
		CreatedAt:       time.Now(),
	})
	assert.Error(t, err)
}

func TestGoalRepositorySaveOverwrites(t *testing.T) {
	database := newTestDB(t)
	user := createUser(t, database)
	subject := createSubject(t, database, user.ID, "Math")
	repo := NewGoalRepository(database)

	newGoal := func(subjectID *string, daily, weekly int) *model.Goal {
		now := time.Now()
		return &model.Goal{
			ID:                  uuid.New().String(),
			UserID:              user.ID,
			SubjectID:           subjectID,
			DailyTargetMinutes:  daily,
			WeeklyTargetMinutes: weekly,
			CreatedAt:           now,
			UpdatedAt:           now,
		}
	}

	overall := newGoal(nil, 60, 300)
	require.NoError(t, repo.Save(overall))

	math := newGoal(&subject.ID, 30, 120)
	math.SubjectName = &subject.Name
	require.NoError(t, repo.Save(math))

	replacement := newGoal(nil, 90, 450)
	require.NoError(t, repo.Save(replacement))
	assert.Equal(t, overall.ID, replacement.ID, "overwrite keeps the original id")

	goals, err := repo.Goals(user.ID)
	require.NoError(t, err)
	require.Len(t, goals, 2)
	assert.Nil(t, goals[0].SubjectID, "overall goal is listed first")
	assert.Equal(t, 450, goals[0].WeeklyTargetMinutes)
	assert.Equal(t, "Math", *goals[1].SubjectName)

	require.NoError(t, repo.Delete(user.ID, math.ID))
	assert.ErrorIs(t, repo.Delete(user.ID, math.ID), ErrGoalNotFound)
	_, err = repo.ByID(user.ID, math.ID)
	assert.ErrorIs(t, err, ErrGoalNotFound)
}

func TestGoalRepositoryConcurrentSave(t *testing.T) {
	database := newTestDB(t)
	user := createUser(t, database)
	repo := NewGoalRepository(database)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(weekly int) {
			defer wg.Done()
			now := time.Now()
			errs <- repo.Save(&model.Goal{
				ID:                  uuid.New().String(),
				UserID:              user.ID,
				DailyTargetMinutes:  10,
				WeeklyTargetMinutes: weekly,
				CreatedAt:           now,
				UpdatedAt:           now,
			})
		}(100 + i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, ErrGoalSaveConflict)
		}
	}

	goals, err := repo.Goals(user.ID)
	require.NoError(t, err)
	assert.Len(t, goals, 1, "at most one overall goal per user")
}

func TestSubjectDeleteCascadesGoalsAndDetachesSessions(t *testing.T) {
	database := newTestDB(t)
	user := createUser(t, database)
	subject := createSubject(t, database, user.ID, "Chemistry")

	now := time.Now()
	require.NoError(t, NewGoalRepository(database).Save(&model.Goal{
		ID: uuid.New().String(), UserID: user.ID, SubjectID: &subject.ID,
		DailyTargetMinutes: 10, WeeklyTargetMinutes: 70, CreatedAt: now, UpdatedAt: now,
	}))
	sessionID := uuid.New().String()
	require.NoError(t, NewSessionRepository(database).Create(&model.StudySession{
		ID: sessionID, UserID: user.ID, SubjectID: &subject.ID, SessionType: model.SessionTypeStudy,
		Date: "2026-10-15", DurationMinutes: 40, CreatedAt: now,
	}))

	repo := NewSubjectRepository(database)
	require.NoError(t, repo.Delete(user.ID, subject.ID))
	assert.ErrorIs(t, repo.Delete(user.ID, subject.ID), ErrSubjectNotFound)

	goals, err := NewGoalRepository(database).Goals(user.ID)
	require.NoError(t, err)
	assert.Empty(t, goals)

	session, err := NewSessionRepository(database).ByID(user.ID, sessionID)
	require.NoError(t, err)
	assert.Nil(t, session.SubjectID)
	assert.Equal(t, 40, session.DurationMinutes)
}

func TestExportRepository(t *testing.T) {
	database := newTestDB(t)
	user := createUser(t, database)
	repo := NewExportRepository(database)

	first := &model.Export{ID: uuid.New().String(), UserID: user.ID, StoragePath: "exports/a.json", Size: 10, Sessions: 1, CreatedAt: time.Now().Add(-time.Hour)}
	second := &model.Export{ID: uuid.New().String(), UserID: user.ID, StoragePath: "exports/b.json", Size: 20, Sessions: 2, CreatedAt: time.Now()}
	require.NoError(t, repo.Create(first))
	require.NoError(t, repo.Create(second))

	exports, err := repo.Exports(user.ID)
	require.NoError(t, err)
	require.Len(t, exports, 2)
	assert.Equal(t, second.ID, exports[0].ID)
}
