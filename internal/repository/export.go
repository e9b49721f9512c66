package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/templui/studyhall/internal/model"
)

type ExportRepository interface {
	Create(export *model.Export) error
	Exports(userID string) ([]*model.Export, error)
}

type exportRepository struct {
	db *sqlx.DB
}

func NewExportRepository(db *sqlx.DB) ExportRepository {
	return &exportRepository{db: db}
}

func (r *exportRepository) Create(export *model.Export) error {
	query := `INSERT INTO exports (id, user_id, storage_path, size, sessions, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(query,
		export.ID,
		export.UserID,
		export.StoragePath,
		export.Size,
		export.Sessions,
		export.CreatedAt,
	)

	return err
}

func (r *exportRepository) Exports(userID string) ([]*model.Export, error) {
	var exports []*model.Export
	query := `SELECT * FROM exports WHERE user_id = $1 ORDER BY created_at DESC`

	err := r.db.Select(&exports, query, userID)
	if err != nil {
		return nil, err
	}

	return exports, nil
}
