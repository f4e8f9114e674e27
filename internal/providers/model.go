package providers

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Hours is a daily availability window.
type Hours struct {
	Start string `bson:"start" json:"start"`
	End   string `bson:"end" json:"end"`
}

// Provider is a bookable healthcare provider.
type Provider struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name           string             `bson:"name" json:"name"`
	Specialty      string             `bson:"specialty" json:"specialty"`
	Email          string             `bson:"email" json:"email"`
	Phone          string             `bson:"phone" json:"phone"`
	AvailableHours Hours              `bson:"availableHours" json:"availableHours"`
	AvailableDays  []string           `bson:"availableDays" json:"availableDays"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Summary is the provider enrichment attached to appointments. Availability
// fields are filled only on single-record reads.
type Summary struct {
	ID             primitive.ObjectID `json:"_id"`
	Name           string             `json:"name"`
	Specialty      string             `json:"specialty"`
	Email          string             `json:"email"`
	Phone          string             `json:"phone"`
	AvailableHours *Hours             `json:"availableHours,omitempty"`
	AvailableDays  []string           `json:"availableDays,omitempty"`
}

// Summarize shapes the provider for embedding in appointment responses.
func (p *Provider) Summarize(withAvailability bool) Summary {
	s := Summary{
		ID:        p.ID,
		Name:      p.Name,
		Specialty: p.Specialty,
		Email:     p.Email,
		Phone:     p.Phone,
	}
	if withAvailability {
		hours := p.AvailableHours
		s.AvailableHours = &hours
		s.AvailableDays = p.AvailableDays
	}
	return s
}

// CreateProviderRequest is the POST /providers body.
type CreateProviderRequest struct {
	Name           string   `json:"name"`
	Specialty      string   `json:"specialty"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	AvailableHours *Hours   `json:"availableHours"`
	AvailableDays  []string `json:"availableDays"`
}

// MissingFields lists required fields absent from the request, in schema order.
func (r *CreateProviderRequest) MissingFields() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"name", r.Name},
		{"specialty", r.Specialty},
		{"email", r.Email},
		{"phone", r.Phone},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// ToProvider builds the record to persist, applying schema defaults.
func (r *CreateProviderRequest) ToProvider() *Provider {
	p := &Provider{
		Name:           r.Name,
		Specialty:      r.Specialty,
		Email:          r.Email,
		Phone:          r.Phone,
		AvailableHours: Hours{Start: "09:00", End: "17:00"},
		AvailableDays:  []string{},
	}
	if r.AvailableHours != nil {
		if r.AvailableHours.Start != "" {
			p.AvailableHours.Start = r.AvailableHours.Start
		}
		if r.AvailableHours.End != "" {
			p.AvailableHours.End = r.AvailableHours.End
		}
	}
	if r.AvailableDays != nil {
		p.AvailableDays = r.AvailableDays
	}
	return p
}

// UpdateProviderRequest is the PUT /providers/{id} body. Nil fields keep the
// stored value.
type UpdateProviderRequest struct {
	Name           *string   `json:"name"`
	Specialty      *string   `json:"specialty"`
	Email          *string   `json:"email"`
	Phone          *string   `json:"phone"`
	AvailableHours *Hours    `json:"availableHours"`
	AvailableDays  *[]string `json:"availableDays"`
}

// Apply merges the submitted fields onto a copy of the stored record.
func (r *UpdateProviderRequest) Apply(existing *Provider) *Provider {
	merged := *existing
	if r.Name != nil {
		merged.Name = *r.Name
	}
	if r.Specialty != nil {
		merged.Specialty = *r.Specialty
	}
	if r.Email != nil {
		merged.Email = *r.Email
	}
	if r.Phone != nil {
		merged.Phone = *r.Phone
	}
	if r.AvailableHours != nil {
		merged.AvailableHours = *r.AvailableHours
	}
	if r.AvailableDays != nil {
		merged.AvailableDays = *r.AvailableDays
	}
	return &merged
}
