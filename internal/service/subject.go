package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/templui/studyhall/internal/clock"
	"github.com/templui/studyhall/internal/model"
	"github.com/templui/studyhall/internal/repository"
	"github.com/templui/studyhall/internal/validation"
	"golang.org/x/text/cases"
)

var ErrDuplicateSubject = errors.New("a subject with this name already exists")

type SubjectService struct {
	subjectRepo repository.SubjectRepository
	clock       clock.Clock
}

func NewSubjectService(subjectRepo repository.SubjectRepository, clk clock.Clock) *SubjectService {
	return &SubjectService{
		subjectRepo: subjectRepo,
		clock:       clk,
	}
}

// Create adds a subject. Names are unique per user under Unicode case
// folding.
func (s *SubjectService) Create(userID, name, color string) (*model.Subject, error) {
	name = strings.Join(strings.Fields(name), " ")

	if err := validation.ValidateSubjectName(name); err != nil {
		return nil, err
	}
	if err := validation.ValidateColor(color); err != nil {
		return nil, err
	}

	existing, err := s.subjectRepo.Subjects(userID)
	if err != nil {
		return nil, err
	}

	fold := cases.Fold()
	key := fold.String(name)
	for _, subject := range existing {
		if fold.String(subject.Name) == key {
			return nil, ErrDuplicateSubject
		}
	}

	subject := &model.Subject{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		Color:     color,
		CreatedAt: s.clock.Now(),
	}

	err = s.subjectRepo.Create(subject)
	if err != nil {
		return nil, fmt.Errorf("failed to create subject: %w", err)
	}

	return subject, nil
}

func (s *SubjectService) Subjects(userID string) ([]*model.Subject, error) {
	return s.subjectRepo.Subjects(userID)
}

// Delete removes a subject together with its goal. Sessions logged against it
// are kept and become unassigned.
func (s *SubjectService) Delete(userID, subjectID string) error {
	return s.subjectRepo.Delete(userID, subjectID)
}
