package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/templui/studyhall/internal/model"
)

type ProfileRepository interface {
	ByUserID(userID string) (*model.Profile, error)
	Create(profile *model.Profile) error
	UpdateName(userID, name string) error
	UpdateTimezone(userID, timezone string) error
	// UpdateStreak writes state only if the stored streak_version still equals
	// expectedVersion, and bumps the version. Returns ErrStreakConflict otherwise.
	UpdateStreak(userID string, state model.StreakState, expectedVersion int) error
	UserIDs() ([]string, error)
}

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) ByUserID(userID string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.Get(&profile, `SELECT * FROM profiles WHERE user_id = $1`, userID)

	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *profileRepository) Create(profile *model.Profile) error {
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now()
	}
	if profile.UpdatedAt.IsZero() {
		profile.UpdatedAt = time.Now()
	}
	if profile.Timezone == "" {
		profile.Timezone = "UTC"
	}

	_, err := r.db.Exec(`
		INSERT INTO profiles (id, user_id, name, timezone, current_streak, longest_streak, last_study_date, streak_version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, profile.ID, profile.UserID, profile.Name, profile.Timezone,
		profile.CurrentStreak, profile.LongestStreak, profile.LastStudyDate, profile.StreakVersion,
		profile.CreatedAt, profile.UpdatedAt)

	return err
}

func (r *profileRepository) UpdateName(userID, name string) error {
	result, err := r.db.Exec(`
		UPDATE profiles
		SET name = $1, updated_at = $2
		WHERE user_id = $3
	`, name, time.Now(), userID)

	return expectOneRow(result, err, ErrProfileNotFound)
}

func (r *profileRepository) UpdateTimezone(userID, timezone string) error {
	result, err := r.db.Exec(`
		UPDATE profiles
		SET timezone = $1, updated_at = $2
		WHERE user_id = $3
	`, timezone, time.Now(), userID)

	return expectOneRow(result, err, ErrProfileNotFound)
}

func (r *profileRepository) UpdateStreak(userID string, state model.StreakState, expectedVersion int) error {
	result, err := r.db.Exec(`
		UPDATE profiles
		SET current_streak = $1, longest_streak = $2, last_study_date = $3,
		    streak_version = streak_version + 1, updated_at = $4
		WHERE user_id = $5 AND streak_version = $6
	`, state.CurrentStreak, state.LongestStreak, state.LastStudyDate, time.Now(), userID, expectedVersion)

	return expectOneRow(result, err, ErrStreakConflict)
}

func (r *profileRepository) UserIDs() ([]string, error) {
	var ids []string
	err := r.db.Select(&ids, `SELECT user_id FROM profiles ORDER BY created_at`)
	return ids, err
}

// expectOneRow turns a zero-row update into notFound.
func expectOneRow(result sql.Result, err error, notFound error) error {
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return notFound
	}

	return nil
}
