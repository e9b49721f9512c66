package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/templui/studyhall/internal/model"
)

type SubjectRepository interface {
	Create(subject *model.Subject) error
	ByID(userID, subjectID string) (*model.Subject, error)
	Subjects(userID string) ([]*model.Subject, error)
	Delete(userID, subjectID string) error
}

type subjectRepository struct {
	db *sqlx.DB
}

func NewSubjectRepository(db *sqlx.DB) SubjectRepository {
	return &subjectRepository{db: db}
}

func (r *subjectRepository) Create(subject *model.Subject) error {
	query := `INSERT INTO subjects (id, user_id, name, color, created_at)
	          VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(query,
		subject.ID,
		subject.UserID,
		subject.Name,
		subject.Color,
		subject.CreatedAt,
	)

	return err
}

func (r *subjectRepository) ByID(userID, subjectID string) (*model.Subject, error) {
	subject := &model.Subject{}
	query := `SELECT * FROM subjects WHERE id = $1 AND user_id = $2`

	err := r.db.Get(subject, query, subjectID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrSubjectNotFound
	}
	if err != nil {
		return nil, err
	}

	return subject, nil
}

func (r *subjectRepository) Subjects(userID string) ([]*model.Subject, error) {
	var subjects []*model.Subject
	query := `SELECT * FROM subjects WHERE user_id = $1 ORDER BY LOWER(name) ASC`

	err := r.db.Select(&subjects, query, userID)
	if err != nil {
		return nil, err
	}

	return subjects, nil
}

// Delete removes the subject. Its goals are removed by cascade and its
// sessions keep their minutes with a NULL subject.
func (r *subjectRepository) Delete(userID, subjectID string) error {
	query := `DELETE FROM subjects WHERE id = $1 AND user_id = $2`
	result, err := r.db.Exec(query, subjectID, userID)

	return expectOneRow(result, err, ErrSubjectNotFound)
}
