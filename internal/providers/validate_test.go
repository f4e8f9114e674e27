package providers

import "testing"

func validProvider() *Provider {
	return &Provider{
		Name:           "Dr. Sarah Johnson",
		Specialty:      "Cardiology",
		Email:          "sarah.johnson@healthcare.com",
		Phone:          "+1-555-0101",
		AvailableHours: Hours{Start: "09:00", End: "17:00"},
		AvailableDays:  []string{"Monday", "Friday"},
	}
}

func TestValidateAcceptsValidProvider(t *testing.T) {
	if errs := validProvider().Validate(); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestValidateEmail(t *testing.T) {
	cases := []struct {
		email string
		ok    bool
	}{
		{"sarah.johnson@healthcare.com", true},
		{"a@b.co", true},
		{"not-an-email", false},
		{"has space@domain.com", false},
		{"missing@tld", false},
		{"", false},
	}
	for _, tc := range cases {
		p := validProvider()
		p.Email = tc.email
		errs := p.Validate()
		if tc.ok && len(errs) != 0 {
			t.Errorf("email %q: expected valid, got %v", tc.email, errs)
		}
		if !tc.ok && !contains(errs, "Please provide a valid email address") {
			t.Errorf("email %q: expected email error, got %v", tc.email, errs)
		}
	}
}

func TestValidateAvailableDays(t *testing.T) {
	p := validProvider()
	p.AvailableDays = []string{"Monday", "Funday"}
	errs := p.Validate()
	if !contains(errs, "Funday is not a valid available day") {
		t.Errorf("expected invalid day error, got %v", errs)
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	p := &Provider{}
	errs := p.Validate()
	for _, want := range []string{
		"Name is required",
		"Specialty is required",
		"Please provide a valid email address",
		"Phone is required",
	} {
		if !contains(errs, want) {
			t.Errorf("expected %q in %v", want, errs)
		}
	}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
