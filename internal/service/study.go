package service

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/templui/studyhall/internal/calendar"
	"github.com/templui/studyhall/internal/clock"
	"github.com/templui/studyhall/internal/model"
	"github.com/templui/studyhall/internal/repository"
	"github.com/templui/studyhall/internal/streak"
	"github.com/templui/studyhall/internal/validation"
)

// maxStreakAttempts bounds the read-modify-write loop on a profile's streak.
const maxStreakAttempts = 3

var ErrStreakContention = errors.New("streak is being updated concurrently, try again")

type StudyService struct {
	sessionRepo repository.SessionRepository
	profileRepo repository.ProfileRepository
	subjectRepo repository.SubjectRepository
	clock       clock.Clock
	maxMinutes  int
}

func NewStudyService(
	sessionRepo repository.SessionRepository,
	profileRepo repository.ProfileRepository,
	subjectRepo repository.SubjectRepository,
	clk clock.Clock,
	maxMinutes int,
) *StudyService {
	return &StudyService{
		sessionRepo: sessionRepo,
		profileRepo: profileRepo,
		subjectRepo: subjectRepo,
		clock:       clk,
		maxMinutes:  maxMinutes,
	}
}

// RecordSessionInput is a finished timer run. An empty Date means today in
// the user's timezone.
type RecordSessionInput struct {
	SubjectID       *string `json:"subject_id"`
	SessionType     string  `json:"session_type"`
	Date            string  `json:"date"`
	DurationMinutes int     `json:"duration_minutes"`
	Note            string  `json:"note"`
}

type RecordSessionResult struct {
	Session *model.StudySession `json:"session"`
	Streak  model.StreakState   `json:"streak"`
	// StreakStale is set when the session was stored but the streak could
	// not be written; Streak is then the state from before the session.
	StreakStale bool `json:"streak_stale,omitempty"`
}

// RecordSession stores a session and brings the user's streak up to date.
// A study session dated today takes the incremental path; a back-dated one
// recomputes the streak from the full history.
func (s *StudyService) RecordSession(userID string, input RecordSessionInput) (*RecordSessionResult, error) {
	profile, err := s.profileRepo.ByUserID(userID)
	if err != nil {
		return nil, err
	}
	today := calendar.Today(s.clock.Now(), location(profile))

	session, err := s.newSession(userID, input, today)
	if err != nil {
		return nil, err
	}

	err = s.sessionRepo.Create(session)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	day := streakDay(profile, today)
	if !session.IsStudy() {
		return &RecordSessionResult{Session: session, Streak: streak.Effective(profile.Streak(), day)}, nil
	}

	state, err := s.applyToStreak(profile, session.Date, day)
	if err != nil {
		// The session is committed; a later recompute repairs the streak.
		slog.Error("failed to update streak", "error", err, "user_id", userID, "session_id", session.ID)
		return &RecordSessionResult{
			Session:     session,
			Streak:      streak.Effective(profile.Streak(), day),
			StreakStale: true,
		}, nil
	}

	return &RecordSessionResult{Session: session, Streak: state}, nil
}

func (s *StudyService) newSession(userID string, input RecordSessionInput, today string) (*model.StudySession, error) {
	date := strings.TrimSpace(input.Date)
	if date == "" {
		date = today
	}
	sessionType := input.SessionType
	if sessionType == "" {
		sessionType = model.SessionTypeStudy
	}

	if err := validation.ValidateDate("date", date, today); err != nil {
		return nil, err
	}
	if err := validation.ValidateSessionType(sessionType); err != nil {
		return nil, err
	}
	if err := validation.ValidateDuration(input.DurationMinutes, s.maxMinutes); err != nil {
		return nil, err
	}

	subjectID := input.SubjectID
	if subjectID != nil && *subjectID == "" {
		subjectID = nil
	}
	if subjectID != nil {
		// Ownership check
		if _, err := s.subjectRepo.ByID(userID, *subjectID); err != nil {
			return nil, err
		}
	}

	return &model.StudySession{
		ID:              uuid.New().String(),
		UserID:          userID,
		SubjectID:       subjectID,
		SessionType:     sessionType,
		Date:            date,
		DurationMinutes: input.DurationMinutes,
		Note:            strings.TrimSpace(input.Note),
		CreatedAt:       s.clock.Now(),
	}, nil
}

// applyToStreak writes the streak after a study session on date, measured
// against day (see streakDay). The first attempt for a same-day session is
// incremental; every other attempt recomputes from history so a concurrent
// writer's session is counted too.
func (s *StudyService) applyToStreak(profile *model.Profile, date, today string) (model.StreakState, error) {
	for attempt := 0; attempt < maxStreakAttempts; attempt++ {
		if attempt > 0 {
			var err error
			profile, err = s.profileRepo.ByUserID(profile.UserID)
			if err != nil {
				return model.StreakState{}, err
			}
			today = streakDay(profile, today)
		}

		var next model.StreakState
		if attempt == 0 && date == today {
			next = streak.UpdateForNewSession(profile.Streak(), date, today)
		} else {
			sessions, err := s.sessionRepo.Sessions(profile.UserID)
			if err != nil {
				return model.StreakState{}, err
			}
			today = latestStudyDay(sessions, today)
			next = streak.Calculate(sessions, today)
		}

		written, err := s.writeStreak(profile, next)
		if err == nil {
			return streak.Effective(written, today), nil
		}
		if !errors.Is(err, repository.ErrStreakConflict) {
			return model.StreakState{}, err
		}
		slog.Warn("streak update conflict, retrying", "user_id", profile.UserID, "attempt", attempt+1)
	}

	return model.StreakState{}, ErrStreakContention
}

func (s *StudyService) writeStreak(profile *model.Profile, next model.StreakState) (model.StreakState, error) {
	if next.Equal(profile.Streak()) {
		return next, nil
	}
	err := s.profileRepo.UpdateStreak(profile.UserID, next, profile.StreakVersion)
	if err != nil {
		return model.StreakState{}, err
	}
	return next, nil
}

// Sessions lists a user's sessions, newest first. With both bounds empty it
// returns the whole history.
func (s *StudyService) Sessions(userID, from, to string) ([]*model.StudySession, error) {
	if from == "" && to == "" {
		return s.sessionRepo.Sessions(userID)
	}

	if !calendar.Valid(from) {
		return nil, &validation.Error{Field: "from", Message: "must be a YYYY-MM-DD date"}
	}
	if !calendar.Valid(to) {
		return nil, &validation.Error{Field: "to", Message: "must be a YYYY-MM-DD date"}
	}
	if from > to {
		return nil, &validation.Error{Field: "from", Message: "must not be after to"}
	}

	return s.sessionRepo.Between(userID, from, to)
}

// Streak returns the user's streak as of today. A streak whose last study day
// is older than yesterday reads as 0 even before it is rewritten.
func (s *StudyService) Streak(userID string) (model.StreakState, error) {
	profile, err := s.profileRepo.ByUserID(userID)
	if err != nil {
		return model.StreakState{}, err
	}
	today := calendar.Today(s.clock.Now(), location(profile))
	return streak.Effective(profile.Streak(), streakDay(profile, today)), nil
}

// RecomputeStreak rebuilds the stored streak from the full session history.
func (s *StudyService) RecomputeStreak(userID string) (model.StreakState, error) {
	for attempt := 0; attempt < maxStreakAttempts; attempt++ {
		profile, err := s.profileRepo.ByUserID(userID)
		if err != nil {
			return model.StreakState{}, err
		}
		today := calendar.Today(s.clock.Now(), location(profile))

		sessions, err := s.sessionRepo.Sessions(userID)
		if err != nil {
			return model.StreakState{}, err
		}

		day := latestStudyDay(sessions, streakDay(profile, today))

		written, err := s.writeStreak(profile, streak.Calculate(sessions, day))
		if err == nil {
			return written, nil
		}
		if !errors.Is(err, repository.ErrStreakConflict) {
			return model.StreakState{}, err
		}
	}

	return model.StreakState{}, ErrStreakContention
}

// RecomputeAllStreaks recomputes every profile's streak and returns how many
// succeeded. Failures are logged and joined into the returned error.
func (s *StudyService) RecomputeAllStreaks() (int, error) {
	userIDs, err := s.profileRepo.UserIDs()
	if err != nil {
		return 0, err
	}

	var errs []error
	done := 0
	for _, userID := range userIDs {
		if _, err := s.RecomputeStreak(userID); err != nil {
			slog.Error("failed to recompute streak", "error", err, "user_id", userID)
			errs = append(errs, fmt.Errorf("user %s: %w", userID, err))
			continue
		}
		done++
	}

	return done, errors.Join(errs...)
}

type SubjectMinutes struct {
	SubjectID *string `json:"subject_id"`
	Name      string  `json:"name"`
	Minutes   int     `json:"minutes"`
}

// Summary is the dashboard view of the current day and week.
type Summary struct {
	Today        string            `json:"today"`
	Week         calendar.Window   `json:"week"`
	TodayMinutes int               `json:"today_minutes"`
	WeekMinutes  int               `json:"week_minutes"`
	Subjects     []SubjectMinutes  `json:"subjects"`
	Streak       model.StreakState `json:"streak"`
}

func (s *StudyService) Summary(userID string) (*Summary, error) {
	profile, err := s.profileRepo.ByUserID(userID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	loc := location(profile)
	today := calendar.Today(now, loc)
	week := calendar.WeekOf(now, loc)

	sessions, err := s.sessionRepo.Between(userID, week.Start, week.End)
	if err != nil {
		return nil, err
	}
	subjects, err := s.subjectRepo.Subjects(userID)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Today:    today,
		Week:     week,
		Subjects: []SubjectMinutes{},
		Streak:   streak.Effective(profile.Streak(), streakDay(profile, today)),
	}

	names := make(map[string]string, len(subjects))
	for _, subject := range subjects {
		names[subject.ID] = subject.Name
	}

	bySubject := map[string]*SubjectMinutes{}
	for _, session := range sessions {
		if !session.IsStudy() {
			continue
		}
		summary.WeekMinutes += session.DurationMinutes
		if session.Date == today {
			summary.TodayMinutes += session.DurationMinutes
		}

		key := ""
		if session.SubjectID != nil {
			key = *session.SubjectID
		}
		entry, ok := bySubject[key]
		if !ok {
			entry = &SubjectMinutes{SubjectID: session.SubjectID, Name: "Unassigned"}
			if name, found := names[key]; found {
				entry.Name = name
			}
			bySubject[key] = entry
		}
		entry.Minutes += session.DurationMinutes
	}

	for _, entry := range bySubject {
		summary.Subjects = append(summary.Subjects, *entry)
	}
	sort.Slice(summary.Subjects, func(i, j int) bool {
		a, b := summary.Subjects[i], summary.Subjects[j]
		if a.Minutes != b.Minutes {
			return a.Minutes > b.Minutes
		}
		return a.Name < b.Name
	})

	return summary, nil
}

// DailyTotals returns study minutes per day for the last n days ending today,
// oldest first, with zero for days without study.
func (s *StudyService) DailyTotals(userID string, days int) ([]model.DailyTotal, error) {
	if days < 1 || days > 366 {
		return nil, &validation.Error{Field: "days", Message: "must be between 1 and 366"}
	}

	profile, err := s.profileRepo.ByUserID(userID)
	if err != nil {
		return nil, err
	}
	window := calendar.LastDays(calendar.Today(s.clock.Now(), location(profile)), days)

	totals, err := s.sessionRepo.DailyTotals(userID, window.Start, window.End)
	if err != nil {
		return nil, err
	}

	minutes := make(map[string]int, len(totals))
	for _, total := range totals {
		minutes[total.Date] = total.Minutes
	}

	series := make([]model.DailyTotal, 0, days)
	for _, date := range window.Days() {
		series = append(series, model.DailyTotal{Date: date, Minutes: minutes[date]})
	}

	return series, nil
}
