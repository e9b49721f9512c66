package service

import (
	"log/slog"
	"strings"
	"time"

	"github.com/templui/studyhall/internal/calendar"
	"github.com/templui/studyhall/internal/model"
	"github.com/templui/studyhall/internal/repository"
	"github.com/templui/studyhall/internal/validation"
)

type ProfileService struct {
	profileRepo repository.ProfileRepository
}

func NewProfileService(profileRepo repository.ProfileRepository) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
	}
}

func (s *ProfileService) ByUserID(userID string) (*model.Profile, error) {
	return s.profileRepo.ByUserID(userID)
}

func (s *ProfileService) UpdateName(userID, name string) error {
	name = strings.TrimSpace(name)

	err := validation.ValidateName(name)
	if err != nil {
		return err
	}

	return s.profileRepo.UpdateName(userID, name)
}

// UpdateTimezone changes where the user's day boundaries fall. Stored streaks
// are left alone; they converge on the next recorded session or recompute.
func (s *ProfileService) UpdateTimezone(userID, timezone string) error {
	timezone = strings.TrimSpace(timezone)

	err := validation.ValidateTimezone(timezone)
	if err != nil {
		return err
	}

	return s.profileRepo.UpdateTimezone(userID, timezone)
}

// location resolves the profile's timezone, falling back to UTC for values
// that no longer load (e.g. a tzdata change).
func location(profile *model.Profile) *time.Location {
	loc, err := calendar.LoadLocation(profile.Timezone)
	if err != nil {
		slog.Warn("invalid profile timezone, using UTC", "user_id", profile.UserID, "timezone", profile.Timezone, "error", err)
		return time.UTC
	}
	return loc
}

// streakDay is the day a streak is measured against. A timezone change to the
// west can leave the last active day ahead of today; the streak stays anchored
// there until the new calendar catches up.
func streakDay(profile *model.Profile, today string) string {
	if last := profile.LastStudyDate; last != nil && *last > today {
		return *last
	}
	return today
}

// latestStudyDay is the later of day and the newest study session date.
func latestStudyDay(sessions []*model.StudySession, day string) string {
	for _, session := range sessions {
		if session.IsStudy() && session.Date > day {
			day = session.Date
		}
	}
	return day
}
