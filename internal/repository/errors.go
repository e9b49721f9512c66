package repository

import (
	"errors"
	"strings"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrDuplicateEmail   = errors.New("email already exists")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrStreakConflict   = errors.New("streak was modified concurrently")
	ErrSubjectNotFound  = errors.New("subject not found")
	ErrSessionNotFound  = errors.New("study session not found")
	ErrGoalNotFound     = errors.New("goal not found")
	ErrGoalSaveConflict = errors.New("goal was saved concurrently")
)

// isUniqueViolation matches unique constraint errors from both SQLite and PostgreSQL.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value")
}
