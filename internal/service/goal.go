package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/templui/studyhall/internal/calendar"
	"github.com/templui/studyhall/internal/clock"
	"github.com/templui/studyhall/internal/model"
	"github.com/templui/studyhall/internal/progress"
	"github.com/templui/studyhall/internal/repository"
	"github.com/templui/studyhall/internal/validation"
)

type GoalService struct {
	goalRepo    repository.GoalRepository
	subjectRepo repository.SubjectRepository
	sessionRepo repository.SessionRepository
	profileRepo repository.ProfileRepository
	clock       clock.Clock
}

func NewGoalService(
	goalRepo repository.GoalRepository,
	subjectRepo repository.SubjectRepository,
	sessionRepo repository.SessionRepository,
	profileRepo repository.ProfileRepository,
	clk clock.Clock,
) *GoalService {
	return &GoalService{
		goalRepo:    goalRepo,
		subjectRepo: subjectRepo,
		sessionRepo: sessionRepo,
		profileRepo: profileRepo,
		clock:       clk,
	}
}

// SaveGoalInput sets the targets for one subject, or for all subjects
// combined when SubjectID is nil.
type SaveGoalInput struct {
	SubjectID           *string `json:"subject_id"`
	DailyTargetMinutes  int     `json:"daily_target_minutes"`
	WeeklyTargetMinutes int     `json:"weekly_target_minutes"`
}

// Save creates the goal for input's subject, replacing any goal the user
// already has for it.
func (s *GoalService) Save(userID string, input SaveGoalInput) (*model.Goal, error) {
	if err := validation.ValidateTarget("daily_target_minutes", input.DailyTargetMinutes); err != nil {
		return nil, err
	}
	if err := validation.ValidateTarget("weekly_target_minutes", input.WeeklyTargetMinutes); err != nil {
		return nil, err
	}

	subjectID := input.SubjectID
	if subjectID != nil && *subjectID == "" {
		subjectID = nil
	}

	var subjectName *string
	if subjectID != nil {
		subject, err := s.subjectRepo.ByID(userID, *subjectID)
		if err != nil {
			return nil, err
		}
		subjectName = &subject.Name
	}

	now := s.clock.Now()
	goal := &model.Goal{
		ID:                  uuid.New().String(),
		UserID:              userID,
		SubjectID:           subjectID,
		SubjectName:         subjectName,
		DailyTargetMinutes:  input.DailyTargetMinutes,
		WeeklyTargetMinutes: input.WeeklyTargetMinutes,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	err := s.goalRepo.Save(goal)
	if err != nil {
		return nil, fmt.Errorf("failed to save goal: %w", err)
	}

	return goal, nil
}

func (s *GoalService) Goals(userID string) ([]*model.Goal, error) {
	return s.goalRepo.Goals(userID)
}

func (s *GoalService) Delete(userID, goalID string) error {
	return s.goalRepo.Delete(userID, goalID)
}

// Progress evaluates every goal against the current Sunday..Saturday week in
// the user's timezone. Goals keep their stored order.
func (s *GoalService) Progress(userID string) ([]model.GoalProgress, error) {
	profile, err := s.profileRepo.ByUserID(userID)
	if err != nil {
		return nil, err
	}

	goals, err := s.goalRepo.Goals(userID)
	if err != nil {
		return nil, err
	}

	period := s.period(s.clock.Now(), location(profile))
	sessions, err := s.sessionRepo.Between(userID, period.Week.Start, period.Week.End)
	if err != nil {
		return nil, err
	}

	return progress.EvaluateAll(goals, sessions, period), nil
}

func (s *GoalService) period(now time.Time, loc *time.Location) progress.Period {
	return progress.Period{
		Week:  calendar.WeekOf(now, loc),
		Today: calendar.Today(now, loc),
	}
}
