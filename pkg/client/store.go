package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
)

// Result reports the outcome of a mutating store operation.
type Result struct {
	Success bool
	Message string
}

// Store caches the last-fetched appointment and provider collections and
// applies mutations locally from the server's returned record, so callers
// never refetch after a write. All state is guarded by a single RWMutex.
type Store struct {
	mu           sync.RWMutex
	api          *Client
	appointments []Appointment
	providers    []Provider
	loading      bool
	lastError    string
}

// NewStore creates a store backed by the given API client.
func NewStore(api *Client) *Store {
	return &Store{api: api}
}

// Appointments returns a copy of the cached appointments.
func (s *Store) Appointments() []Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Appointment, len(s.appointments))
	copy(out, s.appointments)
	return out
}

// Providers returns a copy of the cached providers.
func (s *Store) Providers() []Provider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Provider, len(s.providers))
	copy(out, s.providers)
	return out
}

// Loading reports whether a network operation is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the message of the last failed operation, or "" after a success.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

func (s *Store) begin() {
	s.mu.Lock()
	s.loading = true
	s.lastError = ""
	s.mu.Unlock()
}

func (s *Store) fail(msg string) {
	s.mu.Lock()
	s.loading = false
	s.lastError = msg
	s.mu.Unlock()
}

func (s *Store) finish(mutate func()) {
	s.mu.Lock()
	if mutate != nil {
		mutate()
	}
	s.loading = false
	s.mu.Unlock()
}

// FetchAppointments replaces the cached appointments with the server's
// current page. The cache is untouched on failure.
func (s *Store) FetchAppointments(ctx context.Context) error {
	s.begin()
	env, err := s.api.do(ctx, http.MethodGet, "/appointments", nil)
	if err != nil {
		s.fail(err.Error())
		return err
	}
	var items []Appointment
	if err := json.Unmarshal(env.Data, &items); err != nil {
		s.fail("Server returned non-JSON response")
		return err
	}
	s.finish(func() { s.appointments = items })
	return nil
}

// FetchProviders replaces the cached providers.
func (s *Store) FetchProviders(ctx context.Context) error {
	s.begin()
	env, err := s.api.do(ctx, http.MethodGet, "/providers", nil)
	if err != nil {
		s.fail(err.Error())
		return err
	}
	var items []Provider
	if err := json.Unmarshal(env.Data, &items); err != nil {
		s.fail("Server returned non-JSON response")
		return err
	}
	s.finish(func() { s.providers = items })
	return nil
}

// AppointmentsByPatient returns all appointments for the given patient email
// without touching the cached collection.
func (s *Store) AppointmentsByPatient(ctx context.Context, email string) ([]Appointment, error) {
	s.begin()
	env, err := s.api.do(ctx, http.MethodGet, "/appointments/patient/"+url.PathEscape(email), nil)
	if err != nil {
		s.fail(err.Error())
		return nil, err
	}
	var items []Appointment
	if err := json.Unmarshal(env.Data, &items); err != nil {
		s.fail("Server returned non-JSON response")
		return nil, err
	}
	s.finish(nil)
	return items, nil
}

// CreateAppointment books an appointment and appends the server's record to
// the cache. Required fields are checked before any network traffic.
func (s *Store) CreateAppointment(ctx context.Context, input AppointmentInput) Result {
	if input.PatientName == "" || input.PatientEmail == "" || input.PatientPhone == "" ||
		input.ProviderName == "" || input.ProviderSpecialty == "" ||
		input.AppointmentDate == "" || input.AppointmentTime == "" || input.Reason == "" {
		return Result{Message: "Please fill in all required fields"}
	}

	s.begin()
	env, err := s.api.do(ctx, http.MethodPost, "/appointments", input)
	if err != nil {
		s.fail(err.Error())
		return Result{Message: err.Error()}
	}
	var created Appointment
	if err := json.Unmarshal(env.Data, &created); err != nil {
		s.fail("Server returned non-JSON response")
		return Result{Message: "Server returned non-JSON response"}
	}
	s.finish(func() { s.appointments = append(s.appointments, created) })
	return Result{Success: true, Message: "Appointment booked successfully"}
}

// UpdateAppointment updates an appointment and replaces the cached record
// with the server's version.
func (s *Store) UpdateAppointment(ctx context.Context, id string, input AppointmentInput) Result {
	s.begin()
	env, err := s.api.do(ctx, http.MethodPut, "/appointments/"+url.PathEscape(id), input)
	if err != nil {
		s.fail(err.Error())
		return Result{Message: err.Error()}
	}
	var updated Appointment
	if err := json.Unmarshal(env.Data, &updated); err != nil {
		s.fail("Server returned non-JSON response")
		return Result{Message: "Server returned non-JSON response"}
	}
	s.finish(func() {
		for i := range s.appointments {
			if s.appointments[i].ID == updated.ID {
				s.appointments[i] = updated
			}
		}
	})
	return Result{Success: true, Message: "Appointment updated successfully"}
}

// DeleteAppointment cancels an appointment and removes it from the cache.
func (s *Store) DeleteAppointment(ctx context.Context, id string) Result {
	s.begin()
	if _, err := s.api.do(ctx, http.MethodDelete, "/appointments/"+url.PathEscape(id), nil); err != nil {
		s.fail(err.Error())
		return Result{Message: err.Error()}
	}
	s.finish(func() {
		kept := s.appointments[:0]
		for _, a := range s.appointments {
			if a.ID != id {
				kept = append(kept, a)
			}
		}
		s.appointments = kept
	})
	return Result{Success: true, Message: "Appointment cancelled successfully"}
}

// CreateProvider registers a provider and appends the server's record to the
// cache.
func (s *Store) CreateProvider(ctx context.Context, input ProviderInput) Result {
	s.begin()
	env, err := s.api.do(ctx, http.MethodPost, "/providers", input)
	if err != nil {
		s.fail(err.Error())
		return Result{Message: err.Error()}
	}
	var created Provider
	if err := json.Unmarshal(env.Data, &created); err != nil {
		s.fail("Server returned non-JSON response")
		return Result{Message: "Server returned non-JSON response"}
	}
	s.finish(func() { s.providers = append(s.providers, created) })
	return Result{Success: true, Message: "Provider added successfully"}
}

// UpdateProvider updates a provider and replaces the cached record.
func (s *Store) UpdateProvider(ctx context.Context, id string, input ProviderInput) Result {
	s.begin()
	env, err := s.api.do(ctx, http.MethodPut, "/providers/"+url.PathEscape(id), input)
	if err != nil {
		s.fail(err.Error())
		return Result{Message: err.Error()}
	}
	var updated Provider
	if err := json.Unmarshal(env.Data, &updated); err != nil {
		s.fail("Server returned non-JSON response")
		return Result{Message: "Server returned non-JSON response"}
	}
	s.finish(func() {
		for i := range s.providers {
			if s.providers[i].ID == updated.ID {
				s.providers[i] = updated
			}
		}
	})
	return Result{Success: true, Message: "Provider updated successfully"}
}

// DeleteProvider removes a provider from the server and the cache.
func (s *Store) DeleteProvider(ctx context.Context, id string) Result {
	s.begin()
	if _, err := s.api.do(ctx, http.MethodDelete, "/providers/"+url.PathEscape(id), nil); err != nil {
		s.fail(err.Error())
		return Result{Message: err.Error()}
	}
	s.finish(func() {
		kept := s.providers[:0]
		for _, p := range s.providers {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		s.providers = kept
	})
	return Result{Success: true, Message: "Provider deleted successfully"}
}
