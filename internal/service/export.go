package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/templui/studyhall/internal/calendar"
	"github.com/templui/studyhall/internal/clock"
	"github.com/templui/studyhall/internal/model"
	"github.com/templui/studyhall/internal/repository"
	"github.com/templui/studyhall/internal/storage"
	"github.com/templui/studyhall/internal/streak"
)

var ErrExportsDisabled = errors.New("exports are not configured")

// Snapshot is the JSON document written for an export.
type Snapshot struct {
	ExportedAt time.Time             `json:"exported_at"`
	Profile    *model.Profile        `json:"profile"`
	Streak     model.StreakState     `json:"streak"`
	Subjects   []*model.Subject      `json:"subjects"`
	Goals      []*model.Goal         `json:"goals"`
	Sessions   []*model.StudySession `json:"sessions"`
}

type ExportService struct {
	storage     storage.Storage
	exportRepo  repository.ExportRepository
	profileRepo repository.ProfileRepository
	subjectRepo repository.SubjectRepository
	goalRepo    repository.GoalRepository
	sessionRepo repository.SessionRepository
	clock       clock.Clock
}

// NewExportService returns a service that refuses every call with
// ErrExportsDisabled when store is nil.
func NewExportService(
	store storage.Storage,
	exportRepo repository.ExportRepository,
	profileRepo repository.ProfileRepository,
	subjectRepo repository.SubjectRepository,
	goalRepo repository.GoalRepository,
	sessionRepo repository.SessionRepository,
	clk clock.Clock,
) *ExportService {
	return &ExportService{
		storage:     store,
		exportRepo:  exportRepo,
		profileRepo: profileRepo,
		subjectRepo: subjectRepo,
		goalRepo:    goalRepo,
		sessionRepo: sessionRepo,
		clock:       clk,
	}
}

// Export writes the user's full study history to object storage and returns
// the export record with a temporary download URL.
func (s *ExportService) Export(ctx context.Context, userID string) (*model.Export, error) {
	if s.storage == nil {
		return nil, ErrExportsDisabled
	}

	snapshot, err := s.snapshot(userID)
	if err != nil {
		return nil, err
	}

	body, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}

	id := uuid.New().String()
	export := &model.Export{
		ID:          id,
		UserID:      userID,
		StoragePath: fmt.Sprintf("exports/%s/%s.json", userID, id),
		Size:        int64(len(body)),
		Sessions:    len(snapshot.Sessions),
		CreatedAt:   snapshot.ExportedAt,
	}

	err = s.storage.Save(ctx, export.StoragePath, bytes.NewReader(body), "application/json")
	if err != nil {
		return nil, err
	}

	err = s.exportRepo.Create(export)
	if err != nil {
		// Rollback: don't leave an object nobody can list
		if delErr := s.storage.Delete(ctx, export.StoragePath); delErr != nil {
			slog.Error("failed to delete export during rollback", "error", delErr, "path", export.StoragePath)
		}
		return nil, fmt.Errorf("failed to create export record: %w", err)
	}

	export.URL, err = s.storage.PresignedURL(ctx, export.StoragePath)
	if err != nil {
		return nil, err
	}

	slog.Info("export created", "user_id", userID, "export_id", id, "sessions", export.Sessions, "size", export.Size)
	return export, nil
}

// Exports lists the user's exports, newest first, each with a fresh download URL.
func (s *ExportService) Exports(ctx context.Context, userID string) ([]*model.Export, error) {
	if s.storage == nil {
		return nil, ErrExportsDisabled
	}

	exports, err := s.exportRepo.Exports(userID)
	if err != nil {
		return nil, err
	}

	for _, export := range exports {
		url, err := s.storage.PresignedURL(ctx, export.StoragePath)
		if err != nil {
			slog.Warn("failed to presign export", "error", err, "export_id", export.ID)
			continue
		}
		export.URL = url
	}

	return exports, nil
}

func (s *ExportService) snapshot(userID string) (*Snapshot, error) {
	profile, err := s.profileRepo.ByUserID(userID)
	if err != nil {
		return nil, err
	}
	subjects, err := s.subjectRepo.Subjects(userID)
	if err != nil {
		return nil, err
	}
	goals, err := s.goalRepo.Goals(userID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.Sessions(userID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	return &Snapshot{
		ExportedAt: now.UTC(),
		Profile:    profile,
		Streak:     streak.Effective(profile.Streak(), streakDay(profile, calendar.Today(now, location(profile)))),
		Subjects:   subjects,
		Goals:      goals,
		Sessions:   sessions,
	}, nil
}
