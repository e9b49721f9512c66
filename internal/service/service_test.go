package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/templui/studyhall/internal/clock"
	"github.com/templui/studyhall/internal/db"
	"github.com/templui/studyhall/internal/markdown"
	"github.com/templui/studyhall/internal/model"
	"github.com/templui/studyhall/internal/repository"
)

// Thursday; the week runs 2026-10-11..2026-10-17.
var testNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	db    *sqlx.DB
	clock clock.Clock

	users    repository.UserRepository
	profiles repository.ProfileRepository
	subjects repository.SubjectRepository
	sessions repository.SessionRepository
	goals    repository.GoalRepository
	exports  repository.ExportRepository

	userService    *UserService
	profileService *ProfileService
	subjectService *SubjectService
	studyService   *StudyService
	goalService    *GoalService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	database, err := db.Open("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	env := &testEnv{
		db:       database,
		clock:    clock.Fixed(testNow),
		users:    repository.NewUserRepository(database),
		profiles: repository.NewProfileRepository(database),
		subjects: repository.NewSubjectRepository(database),
		sessions: repository.NewSessionRepository(database),
		goals:    repository.NewGoalRepository(database),
		exports:  repository.NewExportRepository(database),
	}
	env.wire()

	return env
}

// wire (re)builds the services from the env's repositories and clock.
func (e *testEnv) wire() {
	e.userService = NewUserService(e.users, e.profiles, "UTC", e.clock)
	e.profileService = NewProfileService(e.profiles)
	e.subjectService = NewSubjectService(e.subjects, e.clock)
	e.studyService = NewStudyService(e.sessions, e.profiles, e.subjects, e.clock, 600)
	e.goalService = NewGoalService(e.goals, e.subjects, e.sessions, e.profiles, e.clock)
}

func (e *testEnv) digestService(mailer DigestMailer) *DigestService {
	return NewDigestService(e.userService, e.profiles, e.studyService, e.goalService, mailer, markdown.NewParser(), "Studyhall", "https://studyhall.test")
}

func (e *testEnv) createUser(t *testing.T, email, timezone string) *model.User {
	t.Helper()

	user, err := e.userService.Create(email, "Ada", timezone)
	require.NoError(t, err)
	return user
}

func (e *testEnv) createSubject(t *testing.T, userID, name string) *model.Subject {
	t.Helper()

	subject, err := e.subjectService.Create(userID, name, "")
	require.NoError(t, err)
	return subject
}

func (e *testEnv) record(t *testing.T, userID, date string, minutes int, subjectID *string) *RecordSessionResult {
	t.Helper()

	result, err := e.studyService.RecordSession(userID, RecordSessionInput{
		SubjectID:       subjectID,
		SessionType:     model.SessionTypeStudy,
		Date:            date,
		DurationMinutes: minutes,
	})
	require.NoError(t, err)
	return result
}
