package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("Ada"))
	assert.Error(t, ValidateName("   "))
	assert.Error(t, ValidateName(strings.Repeat("a", 101)))
	assert.NoError(t, ValidateName(strings.Repeat("ü", 100)))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("ada@example.com"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("Ada <ada@example.com>"))
}

func TestValidateDate(t *testing.T) {
	today := "2026-10-15"

	tests := []struct {
		date    string
		wantErr bool
	}{
		{"2026-10-15", false},
		{"2026-01-01", false},
		{"2026-10-16", true},
		{"2026-02-30", true},
		{"10/15/2026", true},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			err := ValidateDate("date", tt.date, today)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateStudyInput(t *testing.T) {
	assert.NoError(t, ValidateSessionType("study"))
	assert.NoError(t, ValidateSessionType("break"))
	assert.Error(t, ValidateSessionType("nap"))

	assert.NoError(t, ValidateDuration(0, 600))
	assert.NoError(t, ValidateDuration(600, 600))
	assert.Error(t, ValidateDuration(-1, 600))
	assert.Error(t, ValidateDuration(601, 600))

	assert.NoError(t, ValidateTarget("weekly_target_minutes", 1))
	assert.Error(t, ValidateTarget("weekly_target_minutes", 0))

	assert.NoError(t, ValidateTimezone("America/New_York"))
	assert.Error(t, ValidateTimezone("Mars/Olympus"))
	assert.Error(t, ValidateTimezone(""))

	assert.NoError(t, ValidateColor(""))
	assert.NoError(t, ValidateColor("#1a2B3c"))
	assert.Error(t, ValidateColor("blue"))
	assert.Error(t, ValidateColor("#12345g"))
}

func TestErrorIsMatchable(t *testing.T) {
	err := ValidateTarget("daily_target_minutes", -5)

	var verr *Error
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, "daily_target_minutes", verr.Field)
	assert.Equal(t, "daily_target_minutes must be a positive number of minutes", err.Error())
}
