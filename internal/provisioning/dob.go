package provisioning

import (
	"regexp"
	"time"

	"finance-dashboard-go/internal/apperrors"
)

const (
	dobLayout  = "2006-01-02"
	minimumAge = 18
)

var dobPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidateDateOfBirth checks the YYYY-MM-DD format and the minimum age on
// the given day. It returns the normalized date.
func ValidateDateOfBirth(value string, now time.Time) (string, error) {
	if !dobPattern.MatchString(value) {
		return "", apperrors.NewValidation("date_of_birth", "must be formatted YYYY-MM-DD")
	}
	dob, err := time.Parse(dobLayout, value)
	if err != nil {
		return "", apperrors.NewValidation("date_of_birth", "is not a calendar date")
	}

	if ageOn(dob, now) < minimumAge {
		return "", apperrors.NewValidation("date_of_birth", "user must be at least 18 years old")
	}
	return dob.Format(dobLayout), nil
}

func ageOn(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years
}
