package validation

import (
	"errors"
	"strings"
	"unicode"
)

// DefaultMaxLength bounds location input before it reaches the dataset lookup.
const DefaultMaxLength = 64

// Validation failures. All map to 400 INVALID_LOCATION at the HTTP layer.
var (
	ErrLocationEmpty        = errors.New("location is required")
	ErrLocationTooLong      = errors.New("location too long")
	ErrLocationInvalidChars = errors.New("location contains invalid characters")
)

// ValidateLocation trims the input and checks it looks like a place name: at most
// maxLen runes (DefaultMaxLength when maxLen <= 0) of letters, space, hyphen, period
// or apostrophe. Unknown-but-well-formed names pass; the dataset lookup rejects
// those with its own error.
func ValidateLocation(input string, maxLen int) (string, error) {
	if maxLen <= 0 {
		maxLen = DefaultMaxLength
	}
	s := strings.TrimSpace(input)
	r := []rune(s)
	if len(r) == 0 {
		return "", ErrLocationEmpty
	}
	if len(r) > maxLen {
		return "", ErrLocationTooLong
	}
	for _, c := range r {
		if !isAllowedLocationRune(c) {
			return "", ErrLocationInvalidChars
		}
	}
	return s, nil
}

func isAllowedLocationRune(r rune) bool {
	if unicode.IsLetter(r) {
		return true
	}
	switch r {
	case ' ', '-', '.', '\'':
		return true
	}
	return false
}
