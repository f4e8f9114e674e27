// Package client is the application-facing mirror of the HTTP contract: a
// thin API client plus a process-wide state store caching the last-fetched
// collections, as the frontend consumes them.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Hours mirrors the provider availability window on the wire.
type Hours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Provider mirrors the provider record on the wire.
type Provider struct {
	ID             string   `json:"_id"`
	Name           string   `json:"name"`
	Specialty      string   `json:"specialty"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	AvailableHours Hours    `json:"availableHours"`
	AvailableDays  []string `json:"availableDays"`
	CreatedAt      string   `json:"createdAt"`
	UpdatedAt      string   `json:"updatedAt"`
}

// ProviderRef is the nested provider summary on enriched appointments.
type ProviderRef struct {
	ID             string   `json:"_id"`
	Name           string   `json:"name"`
	Specialty      string   `json:"specialty"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	AvailableHours *Hours   `json:"availableHours,omitempty"`
	AvailableDays  []string `json:"availableDays,omitempty"`
}

// Appointment mirrors the appointment record on the wire.
type Appointment struct {
	ID                string       `json:"_id"`
	Provider          *ProviderRef `json:"provider,omitempty"`
	PatientName       string       `json:"patientName"`
	PatientEmail      string       `json:"patientEmail"`
	PatientPhone      string       `json:"patientPhone"`
	ProviderName      string       `json:"providerName"`
	ProviderSpecialty string       `json:"providerSpecialty"`
	AppointmentDate   string       `json:"appointmentDate"`
	AppointmentTime   string       `json:"appointmentTime"`
	Reason            string       `json:"reason"`
	Status            string       `json:"status"`
	Notes             string       `json:"notes"`
	CreatedAt         string       `json:"createdAt"`
	UpdatedAt         string       `json:"updatedAt"`
}

// AppointmentInput is the create/update payload. Empty fields are omitted so
// updates stay partial.
type AppointmentInput struct {
	Provider          string `json:"provider,omitempty"`
	PatientName       string `json:"patientName,omitempty"`
	PatientEmail      string `json:"patientEmail,omitempty"`
	PatientPhone      string `json:"patientPhone,omitempty"`
	ProviderName      string `json:"providerName,omitempty"`
	ProviderSpecialty string `json:"providerSpecialty,omitempty"`
	AppointmentDate   string `json:"appointmentDate,omitempty"`
	AppointmentTime   string `json:"appointmentTime,omitempty"`
	Reason            string `json:"reason,omitempty"`
	Status            string `json:"status,omitempty"`
	Notes             string `json:"notes,omitempty"`
}

// ProviderInput is the provider create/update payload.
type ProviderInput struct {
	Name           string   `json:"name,omitempty"`
	Specialty      string   `json:"specialty,omitempty"`
	Email          string   `json:"email,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	AvailableHours *Hours   `json:"availableHours,omitempty"`
	AvailableDays  []string `json:"availableDays,omitempty"`
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Errors  []string        `json:"errors"`
}

// Client issues requests against the API and normalizes transport, status,
// and content-type failures into descriptive errors.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the given base URL, e.g. "http://localhost:5000/api".
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*envelope, error) {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	isJSON := strings.Contains(resp.Header.Get("Content-Type"), "application/json")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if isJSON {
			var env envelope
			if err := json.NewDecoder(resp.Body).Decode(&env); err == nil && env.Message != "" {
				return nil, fmt.Errorf("%s", env.Message)
			}
		}
		return nil, fmt.Errorf("Server Error: %d", resp.StatusCode)
	}

	if !isJSON {
		return nil, fmt.Errorf("Server returned non-JSON response")
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("Server returned non-JSON response")
	}
	return &env, nil
}
