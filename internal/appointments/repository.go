package appointments

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Repository defines appointment storage.
type Repository interface {
	List(ctx context.Context, q ListQuery) ([]Appointment, int64, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*Appointment, error)
	Create(ctx context.Context, a *Appointment) error
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	ListByPatient(ctx context.Context, email string) ([]Appointment, error)
}

// InMemoryRepository keeps appointments in a map. It backs handler tests and
// mirrors the Mongo implementation's filter and sort semantics.
type InMemoryRepository struct {
	mu           sync.RWMutex
	appointments map[primitive.ObjectID]*Appointment
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{appointments: make(map[primitive.ObjectID]*Appointment)}
}

func (r *InMemoryRepository) List(ctx context.Context, q ListQuery) ([]Appointment, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]Appointment, 0, len(r.appointments))
	for _, a := range r.appointments {
		if !matches(a, q) {
			continue
		}
		matched = append(matched, *a)
	}
	sortAppointments(matched, q.SortBy, q.Descending)

	total := int64(len(matched))
	return paginate(matched, q.Skip(), q.Limit), total, nil
}

func matches(a *Appointment, q ListQuery) bool {
	if q.Status != "" && string(a.Status) != q.Status {
		return false
	}
	if q.ProviderSpecialty != "" && a.ProviderSpecialty != q.ProviderSpecialty {
		return false
	}
	if q.StartDate != nil && a.AppointmentDate.Before(*q.StartDate) {
		return false
	}
	if q.EndDate != nil && a.AppointmentDate.After(*q.EndDate) {
		return false
	}
	if q.Search != "" && !matchesSearch(a, q.Search) {
		return false
	}
	return true
}

func matchesSearch(a *Appointment, term string) bool {
	return containsFold(a.PatientName, term) ||
		containsFold(a.PatientEmail, term) ||
		containsFold(a.ProviderName, term) ||
		containsFold(a.Reason, term)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func sortAppointments(items []Appointment, sortBy string, descending bool) {
	less := func(a, b *Appointment) bool {
		switch sortBy {
		case "appointmentTime":
			return a.AppointmentTime < b.AppointmentTime
		case "patientName":
			return a.PatientName < b.PatientName
		case "patientEmail":
			return a.PatientEmail < b.PatientEmail
		case "providerName":
			return a.ProviderName < b.ProviderName
		case "providerSpecialty":
			return a.ProviderSpecialty < b.ProviderSpecialty
		case "status":
			return a.Status < b.Status
		case "reason":
			return a.Reason < b.Reason
		case "createdAt":
			return a.CreatedAt.Before(b.CreatedAt)
		default:
			return a.AppointmentDate.Before(b.AppointmentDate)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if descending {
			return less(&items[j], &items[i])
		}
		return less(&items[i], &items[j])
	})
}

func paginate(items []Appointment, skip, limit int64) []Appointment {
	if skip >= int64(len(items)) {
		return []Appointment{}
	}
	end := skip + limit
	if end > int64(len(items)) {
		end = int64(len(items))
	}
	return items[skip:end]
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *InMemoryRepository) Create(ctx context.Context, a *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	a.CreatedAt = now
	a.UpdatedAt = now
	copied := *a
	r.appointments[a.ID] = &copied
	return nil
}

func (r *InMemoryRepository) Update(ctx context.Context, a *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.appointments[a.ID]; !ok {
		return ErrNotFound
	}
	a.UpdatedAt = time.Now().UTC()
	copied := *a
	r.appointments[a.ID] = &copied
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.appointments[id]; !ok {
		return ErrNotFound
	}
	delete(r.appointments, id)
	return nil
}

func (r *InMemoryRepository) ListByPatient(ctx context.Context, email string) ([]Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Appointment{}
	for _, a := range r.appointments {
		if a.PatientEmail == email {
			out = append(out, *a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].AppointmentDate.Equal(out[j].AppointmentDate) {
			return out[i].AppointmentDate.Before(out[j].AppointmentDate)
		}
		return out[i].AppointmentTime < out[j].AppointmentTime
	})
	return out, nil
}
