package validator

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail reports whether s looks like an email address: a single "@",
// no whitespace, and a dot somewhere after the "@".
func ValidateEmail(s string) bool {
	return emailPattern.MatchString(strings.ToLower(s))
}

// ValidateRequired returns the names of fields whose value is empty or only
// whitespace, each mapped to a message. The result is empty when every field
// is filled.
func ValidateRequired(fields map[string]string) map[string]string {
	missing := make(map[string]string)
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			missing[name] = name + " is a required field"
		}
	}
	return missing
}

// ValidateGPA reports whether v is a grade point average on the 4.0 scale.
func ValidateGPA(v float64) bool {
	return v >= 0 && v <= 4
}

// ValidateGrade reports whether v is a percentage grade.
func ValidateGrade(v float64) bool {
	return v >= 0 && v <= 100
}

// ValidateYear reports whether y is a plausible calendar year.
func ValidateYear(y int) bool {
	return y >= 1900 && y <= 2099
}
