package utils

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// DateLayout is the calendar date layout used for birth dates and date-only due dates.
const DateLayout = "2006-01-02"

var birthDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ErrInvalidBirthDate is returned when a birth date is not a real YYYY-MM-DD calendar date.
var ErrInvalidBirthDate = errors.New("invalid birthDate: expected a calendar date formatted YYYY-MM-DD")

// CalculateAge returns the age in whole years on the calendar day of today.
// The age drops by one while the birthday has not yet been reached in today's year.
func CalculateAge(birthDate string, today time.Time) (int, error) {
	if !birthDatePattern.MatchString(birthDate) {
		return 0, ErrInvalidBirthDate
	}

	birth, err := time.Parse(DateLayout, birthDate)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidBirthDate, err)
	}

	ty, tm, td := today.Date()
	if birth.After(time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)) {
		return 0, fmt.Errorf("%w: date is in the future", ErrInvalidBirthDate)
	}

	age := ty - birth.Year()
	if tm < birth.Month() || (tm == birth.Month() && td < birth.Day()) {
		age--
	}
	return age, nil
}
