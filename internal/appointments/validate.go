package appointments

import (
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"
)

const (
	reasonMinLength = 10
	notesMaxLength  = 500
)

const (
	msgInvalidEmail       = "Please enter a valid email address"
	msgInvalidPhone       = "Please enter a valid phone number"
	msgInvalidTime        = "Please enter a valid time (HH:MM format)"
	msgInvalidDate        = "Please enter a valid appointment date"
	msgDateInPast         = "Appointment date must be in the future"
	msgReasonTooShort     = "Reason must be at least 10 characters long"
	msgNotesTooLong       = "Notes cannot exceed 500 characters"
	msgInvalidProviderRef = "Please provide a valid provider id"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[\d\s\-\+\(\)]+$`)
	timePattern  = regexp.MustCompile(`^([0-1][0-9]|2[0-3]):[0-5][0-9]$`)
)

// Validate runs the format validators against a fully merged record. The
// future-date rule is a create-only check and lives in ValidateForCreate.
func (a *Appointment) Validate() []string {
	var errs []string
	if !emailPattern.MatchString(a.PatientEmail) {
		errs = append(errs, msgInvalidEmail)
	}
	if !phonePattern.MatchString(a.PatientPhone) {
		errs = append(errs, msgInvalidPhone)
	}
	if !timePattern.MatchString(a.AppointmentTime) {
		errs = append(errs, msgInvalidTime)
	}
	if utf8.RuneCountInString(a.Reason) < reasonMinLength {
		errs = append(errs, msgReasonTooShort)
	}
	if utf8.RuneCountInString(a.Notes) > notesMaxLength {
		errs = append(errs, msgNotesTooLong)
	}
	if !a.Status.Valid() {
		errs = append(errs, fmt.Sprintf("%s is not a valid status", a.Status))
	}
	return errs
}

// ValidateForCreate additionally rejects dates strictly before now. A zero
// date means parsing already failed and reported its own error, so the
// future-date check is skipped to keep one error per field.
func (a *Appointment) ValidateForCreate(now time.Time) []string {
	errs := a.Validate()
	if !a.AppointmentDate.IsZero() && a.AppointmentDate.Before(now) {
		errs = append(errs, msgDateInPast)
	}
	return errs
}
