package providers

import (
	"fmt"
	"regexp"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var weekdays = map[string]struct{}{
	"Monday":    {},
	"Tuesday":   {},
	"Wednesday": {},
	"Thursday":  {},
	"Friday":    {},
	"Saturday":  {},
	"Sunday":    {},
}

// Validate runs the format validators against a fully merged record and
// returns every field-level problem.
func (p *Provider) Validate() []string {
	var errs []string
	if p.Name == "" {
		errs = append(errs, "Name is required")
	}
	if p.Specialty == "" {
		errs = append(errs, "Specialty is required")
	}
	if !emailPattern.MatchString(p.Email) {
		errs = append(errs, "Please provide a valid email address")
	}
	if p.Phone == "" {
		errs = append(errs, "Phone is required")
	}
	for _, day := range p.AvailableDays {
		if _, ok := weekdays[day]; !ok {
			errs = append(errs, fmt.Sprintf("%s is not a valid available day", day))
		}
	}
	return errs
}
