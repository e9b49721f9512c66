package service

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/templui/studyhall/internal/clock"
	"github.com/templui/studyhall/internal/model"
	"github.com/templui/studyhall/internal/repository"
	"github.com/templui/studyhall/internal/validation"
)

type UserService struct {
	userRepository    repository.UserRepository
	profileRepository repository.ProfileRepository
	defaultTimezone   string
	clock             clock.Clock
}

func NewUserService(
	userRepository repository.UserRepository,
	profileRepository repository.ProfileRepository,
	defaultTimezone string,
	clk clock.Clock,
) *UserService {
	return &UserService{
		userRepository:    userRepository,
		profileRepository: profileRepository,
		defaultTimezone:   defaultTimezone,
		clock:             clk,
	}
}

// Create provisions a user and their profile. An empty timezone uses the
// configured default.
func (s *UserService) Create(email, name, timezone string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	name = strings.TrimSpace(name)
	timezone = strings.TrimSpace(timezone)
	if timezone == "" {
		timezone = s.defaultTimezone
	}

	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}
	if err := validation.ValidateTimezone(timezone); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	user := &model.User{
		ID:        uuid.New().String(),
		Email:     email,
		CreatedAt: now,
	}

	err := s.userRepository.Create(user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	err = s.profileRepository.Create(&model.Profile{
		UserID:    user.ID,
		Name:      name,
		Timezone:  timezone,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		// Rollback: a user without a profile cannot use the API
		delErr := s.userRepository.Delete(user.ID)
		if delErr != nil {
			slog.Error("failed to delete user during rollback", "error", delErr, "user_id", user.ID)
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	slog.Info("user created", "user_id", user.ID, "timezone", timezone)
	return user, nil
}

func (s *UserService) ByID(id string) (*model.User, error) {
	return s.userRepository.ByID(id)
}

func (s *UserService) All() ([]*model.User, error) {
	return s.userRepository.All()
}
