package model

import "time"

// Export records a study-history snapshot written to object storage.
type Export struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	StoragePath string    `db:"storage_path" json:"storage_path"`
	Size        int64     `db:"size" json:"size"`
	Sessions    int       `db:"sessions" json:"sessions"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`

	// Computed fields (not in database)
	URL string `db:"-" json:"url,omitempty"`
}
