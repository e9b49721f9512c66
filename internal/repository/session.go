package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/templui/studyhall/internal/model"
)

type SessionRepository interface {
	Create(session *model.StudySession) error
	ByID(userID, sessionID string) (*model.StudySession, error)
	// Sessions returns the full history, newest date first.
	Sessions(userID string) ([]*model.StudySession, error)
	// Between returns sessions dated in [from, to] inclusive, newest date first.
	Between(userID, from, to string) ([]*model.StudySession, error)
	// DailyTotals sums study minutes per date in [from, to]. Dates without
	// study sessions are omitted.
	DailyTotals(userID, from, to string) ([]*model.DailyTotal, error)
	Count(userID string) (int, error)
}

type sessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(session *model.StudySession) error {
	query := `INSERT INTO study_sessions (id, user_id, subject_id, session_type, date, duration_minutes, note, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(query,
		session.ID,
		session.UserID,
		session.SubjectID,
		session.SessionType,
		session.Date,
		session.DurationMinutes,
		session.Note,
		session.CreatedAt,
	)

	return err
}

func (r *sessionRepository) ByID(userID, sessionID string) (*model.StudySession, error) {
	session := &model.StudySession{}
	query := `SELECT * FROM study_sessions WHERE id = $1 AND user_id = $2`

	err := r.db.Get(session, query, sessionID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	return session, nil
}

func (r *sessionRepository) Sessions(userID string) ([]*model.StudySession, error) {
	var sessions []*model.StudySession
	query := `SELECT * FROM study_sessions WHERE user_id = $1 ORDER BY date DESC, created_at DESC`

	err := r.db.Select(&sessions, query, userID)
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *sessionRepository) Between(userID, from, to string) ([]*model.StudySession, error) {
	var sessions []*model.StudySession
	query := `SELECT * FROM study_sessions
	          WHERE user_id = $1 AND date >= $2 AND date <= $3
	          ORDER BY date DESC, created_at DESC`

	err := r.db.Select(&sessions, query, userID, from, to)
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *sessionRepository) DailyTotals(userID, from, to string) ([]*model.DailyTotal, error) {
	var totals []*model.DailyTotal
	query := `SELECT date, SUM(duration_minutes) AS minutes
	          FROM study_sessions
	          WHERE user_id = $1 AND session_type = $2 AND date >= $3 AND date <= $4
	          GROUP BY date
	          ORDER BY date ASC`

	err := r.db.Select(&totals, query, userID, model.SessionTypeStudy, from, to)
	if err != nil {
		return nil, err
	}

	return totals, nil
}

func (r *sessionRepository) Count(userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM study_sessions WHERE user_id = $1`
	err := r.db.QueryRow(query, userID).Scan(&count)
	return count, err
}
