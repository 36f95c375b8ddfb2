package validation

import (
	"errors"
	"strings"
	"unicode"

	"github.com/kjstillabower/weather-report/internal/models"
)

// Separator splits the city name from the state code in user input.
const Separator = ", "

// ErrNoInput is returned when input ends before a line is entered.
var ErrNoInput = errors.New("no input provided")

// ErrMalformedLocation is returned when input does not contain exactly one ", " separator.
var ErrMalformedLocation = errors.New(`location must be in the form "City, ST"`)

// ErrLocationEmpty is returned when the city or state is empty after trim.
var ErrLocationEmpty = errors.New("location is required")

// ErrLocationTooLong is returned when the city name exceeds the maximum length.
var ErrLocationTooLong = errors.New("location too long")

// ErrLocationInvalidChars is returned when the city or state contains disallowed characters.
var ErrLocationInvalidChars = errors.New("location contains invalid characters")

// ParseLocation splits a "City, ST" line into a LocationQuery. The line must contain
// exactly one ", " separator; anything else fails without a partial result.
// maxLen bounds the city name in runes (0 disables the check).
func ParseLocation(line string, maxLen int) (models.LocationQuery, error) {
	s := strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(s) == "" {
		return models.LocationQuery{}, ErrLocationEmpty
	}

	parts := strings.Split(s, Separator)
	if len(parts) != 2 {
		return models.LocationQuery{}, ErrMalformedLocation
	}

	city := strings.TrimSpace(parts[0])
	state := strings.TrimSpace(parts[1])
	if city == "" || state == "" {
		return models.LocationQuery{}, ErrLocationEmpty
	}
	if maxLen > 0 && len([]rune(city)) > maxLen {
		return models.LocationQuery{}, ErrLocationTooLong
	}
	if !allAllowed(city) || !allAllowed(state) {
		return models.LocationQuery{}, ErrLocationInvalidChars
	}

	return models.LocationQuery{CityName: city, StateCode: state}, nil
}

func allAllowed(s string) bool {
	for _, r := range s {
		if !isAllowedLocationRune(r) {
			return false
		}
	}
	return true
}

// isAllowedLocationRune returns true for letters (Unicode), digits, space, hyphen, period, apostrophe.
// Commas are rejected so the geocoding query keeps exactly three components.
func isAllowedLocationRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsNumber(r) {
		return true
	}
	switch r {
	case ' ', '-', '.', '\'':
		return true
	}
	return false
}
