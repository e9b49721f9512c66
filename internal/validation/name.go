package validation

import (
	"strings"
	"unicode/utf8"
)

// ValidateName validates profile name
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return invalid("name", "is required")
	}

	if utf8.RuneCountInString(trimmed) > 100 {
		return invalid("name", "is too long (max 100 characters)")
	}

	return nil
}

// ValidateSubjectName validates a subject label such as "Organic Chemistry".
func ValidateSubjectName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return invalid("subject name", "is required")
	}

	if utf8.RuneCountInString(trimmed) > 60 {
		return invalid("subject name", "is too long (max 60 characters)")
	}

	return nil
}

// ValidateColor accepts an empty string or a #RRGGBB hex color.
func ValidateColor(color string) error {
	if color == "" {
		return nil
	}
	if len(color) != 7 || color[0] != '#' {
		return invalid("color", "must look like #RRGGBB")
	}
	for _, c := range color[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return invalid("color", "must look like #RRGGBB")
		}
	}
	return nil
}
