package appointments

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/carebook/carebook/internal/providers"
)

// Status is the appointment lifecycle label. It is a flat enum: any value may
// change to any other value, transition legality is not checked.
type Status string

const (
	StatusScheduled   Status = "scheduled"
	StatusCompleted   Status = "completed"
	StatusCancelled   Status = "cancelled"
	StatusRescheduled Status = "rescheduled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusRescheduled:
		return true
	}
	return false
}

// Appointment is a patient booking. Provider name and specialty are
// denormalized copies so the record stays self-describing if the referenced
// provider is deleted.
type Appointment struct {
	ID                primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	ProviderID        *primitive.ObjectID `bson:"provider,omitempty" json:"-"`
	Provider          *providers.Summary  `bson:"-" json:"provider,omitempty"`
	PatientName       string              `bson:"patientName" json:"patientName"`
	PatientEmail      string              `bson:"patientEmail" json:"patientEmail"`
	PatientPhone      string              `bson:"patientPhone" json:"patientPhone"`
	ProviderName      string              `bson:"providerName" json:"providerName"`
	ProviderSpecialty string              `bson:"providerSpecialty" json:"providerSpecialty"`
	AppointmentDate   time.Time           `bson:"appointmentDate" json:"appointmentDate"`
	AppointmentTime   string              `bson:"appointmentTime" json:"appointmentTime"`
	Reason            string              `bson:"reason" json:"reason"`
	Status            Status              `bson:"status" json:"status"`
	Notes             string              `bson:"notes" json:"notes"`
	CreatedAt         time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// CreateAppointmentRequest is the POST /appointments body. The date arrives
// as a string and is parsed leniently (date-only or RFC 3339 timestamps).
type CreateAppointmentRequest struct {
	Provider          string `json:"provider"`
	PatientName       string `json:"patientName"`
	PatientEmail      string `json:"patientEmail"`
	PatientPhone      string `json:"patientPhone"`
	ProviderName      string `json:"providerName"`
	ProviderSpecialty string `json:"providerSpecialty"`
	AppointmentDate   string `json:"appointmentDate"`
	AppointmentTime   string `json:"appointmentTime"`
	Reason            string `json:"reason"`
	Status            string `json:"status"`
	Notes             string `json:"notes"`
}

// MissingFields lists required fields absent from the request, in schema order.
func (r *CreateAppointmentRequest) MissingFields() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"patientName", r.PatientName},
		{"patientEmail", r.PatientEmail},
		{"patientPhone", r.PatientPhone},
		{"providerName", r.ProviderName},
		{"providerSpecialty", r.ProviderSpecialty},
		{"appointmentDate", r.AppointmentDate},
		{"appointmentTime", r.AppointmentTime},
		{"reason", r.Reason},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// ToAppointment builds the record to persist. Unparsable date or provider id
// come back as field-level errors alongside nothing else; format validation
// runs separately.
func (r *CreateAppointmentRequest) ToAppointment() (*Appointment, []string) {
	var errs []string

	a := &Appointment{
		PatientName:       r.PatientName,
		PatientEmail:      r.PatientEmail,
		PatientPhone:      r.PatientPhone,
		ProviderName:      r.ProviderName,
		ProviderSpecialty: r.ProviderSpecialty,
		AppointmentTime:   r.AppointmentTime,
		Reason:            r.Reason,
		Status:            StatusScheduled,
		Notes:             r.Notes,
	}

	if r.Status != "" {
		a.Status = Status(r.Status)
	}
	if r.Provider != "" {
		id, err := primitive.ObjectIDFromHex(r.Provider)
		if err != nil {
			errs = append(errs, msgInvalidProviderRef)
		} else {
			a.ProviderID = &id
		}
	}
	if r.AppointmentDate != "" {
		t, ok := parseDate(r.AppointmentDate)
		if !ok {
			errs = append(errs, msgInvalidDate)
		} else {
			a.AppointmentDate = t
		}
	}
	return a, errs
}

// UpdateAppointmentRequest is the PUT /appointments/{id} body. Nil fields keep
// the stored value; an explicit empty provider string clears the reference.
type UpdateAppointmentRequest struct {
	Provider          *string `json:"provider"`
	PatientName       *string `json:"patientName"`
	PatientEmail      *string `json:"patientEmail"`
	PatientPhone      *string `json:"patientPhone"`
	ProviderName      *string `json:"providerName"`
	ProviderSpecialty *string `json:"providerSpecialty"`
	AppointmentDate   *string `json:"appointmentDate"`
	AppointmentTime   *string `json:"appointmentTime"`
	Reason            *string `json:"reason"`
	Status            *string `json:"status"`
	Notes             *string `json:"notes"`
}

// Apply merges the submitted fields onto a copy of the stored record. The
// future-date rule is deliberately not re-applied here: moving an appointment
// into the past via update is accepted.
func (r *UpdateAppointmentRequest) Apply(existing *Appointment) (*Appointment, []string) {
	var errs []string
	merged := *existing

	if r.Provider != nil {
		if *r.Provider == "" {
			merged.ProviderID = nil
		} else if id, err := primitive.ObjectIDFromHex(*r.Provider); err != nil {
			errs = append(errs, msgInvalidProviderRef)
		} else {
			merged.ProviderID = &id
		}
	}
	if r.PatientName != nil {
		merged.PatientName = *r.PatientName
	}
	if r.PatientEmail != nil {
		merged.PatientEmail = *r.PatientEmail
	}
	if r.PatientPhone != nil {
		merged.PatientPhone = *r.PatientPhone
	}
	if r.ProviderName != nil {
		merged.ProviderName = *r.ProviderName
	}
	if r.ProviderSpecialty != nil {
		merged.ProviderSpecialty = *r.ProviderSpecialty
	}
	if r.AppointmentDate != nil {
		if t, ok := parseDate(*r.AppointmentDate); ok {
			merged.AppointmentDate = t
		} else {
			errs = append(errs, msgInvalidDate)
		}
	}
	if r.AppointmentTime != nil {
		merged.AppointmentTime = *r.AppointmentTime
	}
	if r.Reason != nil {
		merged.Reason = *r.Reason
	}
	if r.Status != nil {
		merged.Status = Status(*r.Status)
	}
	if r.Notes != nil {
		merged.Notes = *r.Notes
	}
	return &merged, errs
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
