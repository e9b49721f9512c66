package repository

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/studyhall/internal/model"
)

type GoalRepository interface {
	// Save inserts the goal, or overwrites the targets of the user's existing
	// goal for the same subject (nil subject = overall). goal.ID and
	// goal.CreatedAt are replaced by the stored values on overwrite.
	Save(goal *model.Goal) error
	ByID(userID, goalID string) (*model.Goal, error)
	Goals(userID string) ([]*model.Goal, error)
	Delete(userID, goalID string) error
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Save(goal *model.Goal) error {
	// A concurrent insert for the same subject loses on the unique index;
	// the second attempt then finds the row and updates it.
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		err = r.save(goal)
		if !isUniqueViolation(err) {
			return err
		}
	}
	return ErrGoalSaveConflict
}

func (r *goalRepository) save(goal *model.Goal) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	existing := &model.Goal{}
	err = tx.Get(existing, `SELECT * FROM goals WHERE user_id = $1 AND COALESCE(subject_id, '') = $2`,
		goal.UserID, subjectKey(goal.SubjectID))

	switch {
	case err == sql.ErrNoRows:
		_, err = tx.Exec(`INSERT INTO goals (id, user_id, subject_id, subject_name, daily_target_minutes, weekly_target_minutes, created_at, updated_at)
		                  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			goal.ID,
			goal.UserID,
			goal.SubjectID,
			goal.SubjectName,
			goal.DailyTargetMinutes,
			goal.WeeklyTargetMinutes,
			goal.CreatedAt,
			goal.UpdatedAt,
		)
	case err == nil:
		goal.ID = existing.ID
		goal.CreatedAt = existing.CreatedAt
		goal.UpdatedAt = time.Now()
		_, err = tx.Exec(`UPDATE goals
		                  SET subject_name = $1, daily_target_minutes = $2, weekly_target_minutes = $3, updated_at = $4
		                  WHERE id = $5`,
			goal.SubjectName,
			goal.DailyTargetMinutes,
			goal.WeeklyTargetMinutes,
			goal.UpdatedAt,
			goal.ID,
		)
	}
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *goalRepository) ByID(userID, goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE id = $1 AND user_id = $2`

	err := r.db.Get(goal, query, goalID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	return goal, nil
}

// Goals lists the overall goal first, then subject goals by name.
func (r *goalRepository) Goals(userID string) ([]*model.Goal, error) {
	var goals []*model.Goal
	query := `SELECT * FROM goals WHERE user_id = $1
	          ORDER BY CASE WHEN subject_id IS NULL THEN 0 ELSE 1 END, LOWER(COALESCE(subject_name, '')) ASC, created_at ASC`

	err := r.db.Select(&goals, query, userID)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) Delete(userID, goalID string) error {
	query := `DELETE FROM goals WHERE id = $1 AND user_id = $2`
	result, err := r.db.Exec(query, goalID, userID)

	return expectOneRow(result, err, ErrGoalNotFound)
}

func subjectKey(subjectID *string) string {
	if subjectID == nil {
		return ""
	}
	return *subjectID
}
