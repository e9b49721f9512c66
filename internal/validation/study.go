package validation

import (
	"time"

	"github.com/templui/studyhall/internal/calendar"
	"github.com/templui/studyhall/internal/model"
)

// ValidateDate checks a YYYY-MM-DD calendar date that must not be later than today.
func ValidateDate(field, date, today string) error {
	if !calendar.Valid(date) {
		return invalid(field, "must be a YYYY-MM-DD date")
	}
	if date > today {
		return invalid(field, "cannot be in the future")
	}
	return nil
}

func ValidateSessionType(sessionType string) error {
	if !model.ValidSessionType(sessionType) {
		return invalid("session_type", "must be %q or %q", model.SessionTypeStudy, model.SessionTypeBreak)
	}
	return nil
}

func ValidateDuration(minutes, max int) error {
	if minutes < 0 {
		return invalid("duration_minutes", "cannot be negative")
	}
	if minutes > max {
		return invalid("duration_minutes", "cannot exceed %d", max)
	}
	return nil
}

// ValidateTarget requires a positive minute target.
func ValidateTarget(field string, minutes int) error {
	if minutes <= 0 {
		return invalid(field, "must be a positive number of minutes")
	}
	return nil
}

// ValidateTimezone requires an IANA timezone name such as "Europe/Berlin".
func ValidateTimezone(timezone string) error {
	if timezone == "" || timezone == "Local" {
		return invalid("timezone", "must be an IANA timezone name")
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return invalid("timezone", "%q is not a known timezone", timezone)
	}
	return nil
}
