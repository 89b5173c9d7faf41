package resource

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Notifier receives the user-facing outcome of controller operations.
type Notifier interface {
	Success(resource, message string)
	Error(resource, message string)
}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) Success(string, string) {}
func (NopNotifier) Error(string, string)   {}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func lower(s string) string {
	return strings.ToLower(s)
}
