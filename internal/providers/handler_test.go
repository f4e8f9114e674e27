package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/carebook/carebook/pkg/logging"
)

type testEnvelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Errors     []string        `json:"errors"`
	Error      string          `json:"error"`
	Pagination *struct {
		Page  int64 `json:"page"`
		Limit int64 `json:"limit"`
		Total int64 `json:"total"`
		Pages int64 `json:"pages"`
	} `json:"pagination"`
}

func newProviderRouter() (*InMemoryRepository, http.Handler) {
	repo := NewInMemoryRepository()
	h := NewHandler(repo, logging.New("error"))
	r := chi.NewRouter()
	r.Route("/providers", h.Routes)
	return repo, r
}

func doRequest(t *testing.T, router http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, testEnvelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env testEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec, env
}

func seedProvider(t *testing.T, repo *InMemoryRepository, name, specialty, email string) *Provider {
	t.Helper()
	p := &Provider{
		Name:           name,
		Specialty:      specialty,
		Email:          email,
		Phone:          "+1-555-0100",
		AvailableHours: Hours{Start: "09:00", End: "17:00"},
		AvailableDays:  []string{"Monday"},
	}
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("seed provider: %v", err)
	}
	return p
}

func TestCreateProviderAppliesDefaults(t *testing.T) {
	_, router := newProviderRouter()

	rec, env := doRequest(t, router, http.MethodPost, "/providers", map[string]string{
		"name":      "Dr. Sarah Johnson",
		"specialty": "Cardiology",
		"email":     "sarah.johnson@healthcare.com",
		"phone":     "+1-555-0101",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !env.Success {
		t.Fatal("expected success envelope")
	}

	var created Provider
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if created.Email != "sarah.johnson@healthcare.com" {
		t.Errorf("email not echoed: %q", created.Email)
	}
	if created.AvailableHours.Start != "09:00" || created.AvailableHours.End != "17:00" {
		t.Errorf("default hours not applied: %+v", created.AvailableHours)
	}
	if created.AvailableDays == nil || len(created.AvailableDays) != 0 {
		t.Errorf("expected empty days slice, got %v", created.AvailableDays)
	}
	if created.ID.IsZero() {
		t.Error("expected generated id")
	}
}

func TestCreateProviderMissingFields(t *testing.T) {
	_, router := newProviderRouter()

	rec, env := doRequest(t, router, http.MethodPost, "/providers", map[string]string{
		"name": "Dr. Sarah Johnson",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if env.Message != "Missing required fields: specialty, email, phone" {
		t.Errorf("unexpected message %q", env.Message)
	}
}

func TestCreateProviderValidationError(t *testing.T) {
	_, router := newProviderRouter()

	rec, env := doRequest(t, router, http.MethodPost, "/providers", map[string]interface{}{
		"name":          "Dr. Sarah Johnson",
		"specialty":     "Cardiology",
		"email":         "not-an-email",
		"phone":         "+1-555-0101",
		"availableDays": []string{"Funday"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if env.Message != "Validation error" {
		t.Errorf("unexpected message %q", env.Message)
	}
	if !contains(env.Errors, "Please provide a valid email address") ||
		!contains(env.Errors, "Funday is not a valid available day") {
		t.Errorf("unexpected errors %v", env.Errors)
	}
}

func TestCreateProviderDuplicateEmail(t *testing.T) {
	repo, router := newProviderRouter()
	seedProvider(t, repo, "Dr. Sarah Johnson", "Cardiology", "sarah.johnson@healthcare.com")

	rec, env := doRequest(t, router, http.MethodPost, "/providers", map[string]string{
		"name":      "Dr. Impostor",
		"specialty": "Cardiology",
		"email":     "sarah.johnson@healthcare.com",
		"phone":     "+1-555-0199",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if env.Message != "Provider with this email already exists" {
		t.Errorf("unexpected message %q", env.Message)
	}
}

func TestGetProviderInvalidID(t *testing.T) {
	_, router := newProviderRouter()

	rec, env := doRequest(t, router, http.MethodGet, "/providers/not-a-hex-id", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if env.Message != "Invalid Provider Id" {
		t.Errorf("unexpected message %q", env.Message)
	}
}

func TestGetProviderNotFound(t *testing.T) {
	_, router := newProviderRouter()

	rec, env := doRequest(t, router, http.MethodGet, "/providers/"+primitive.NewObjectID().Hex(), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if env.Message != "Provider not found" {
		t.Errorf("unexpected message %q", env.Message)
	}
}

func TestUpdateProviderMergesFields(t *testing.T) {
	repo, router := newProviderRouter()
	p := seedProvider(t, repo, "Dr. Sarah Johnson", "Cardiology", "sarah.johnson@healthcare.com")

	rec, env := doRequest(t, router, http.MethodPut, "/providers/"+p.ID.Hex(), map[string]string{
		"phone": "+1-555-0202",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var updated Provider
	if err := json.Unmarshal(env.Data, &updated); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if updated.Phone != "+1-555-0202" {
		t.Errorf("phone not updated: %q", updated.Phone)
	}
	if updated.Name != "Dr. Sarah Johnson" || updated.Specialty != "Cardiology" {
		t.Errorf("untouched fields changed: %+v", updated)
	}
}

func TestUpdateProviderRejectsInvalidMerge(t *testing.T) {
	repo, router := newProviderRouter()
	p := seedProvider(t, repo, "Dr. Sarah Johnson", "Cardiology", "sarah.johnson@healthcare.com")

	rec, env := doRequest(t, router, http.MethodPut, "/providers/"+p.ID.Hex(), map[string]string{
		"email": "broken",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !contains(env.Errors, "Please provide a valid email address") {
		t.Errorf("unexpected errors %v", env.Errors)
	}
}

func TestDeleteProviderThenNotFound(t *testing.T) {
	repo, router := newProviderRouter()
	p := seedProvider(t, repo, "Dr. Sarah Johnson", "Cardiology", "sarah.johnson@healthcare.com")

	rec, env := doRequest(t, router, http.MethodDelete, "/providers/"+p.ID.Hex(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if env.Message != "Provider deleted successfully" {
		t.Errorf("unexpected message %q", env.Message)
	}

	rec, env = doRequest(t, router, http.MethodDelete, "/providers/"+p.ID.Hex(), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rec.Code)
	}
	if env.Message != "Provider not found" {
		t.Errorf("unexpected message %q", env.Message)
	}
}

func TestListProvidersFiltersAndPaginates(t *testing.T) {
	repo, router := newProviderRouter()
	seedProvider(t, repo, "Dr. Sarah Johnson", "Cardiology", "sarah.johnson@healthcare.com")
	seedProvider(t, repo, "Dr. Michael Chen", "Pediatrics", "michael.chen@healthcare.com")
	seedProvider(t, repo, "Dr. Emily Rodriguez", "Pediatric Cardiology", "emily.rodriguez@healthcare.com")

	// Case-insensitive substring on specialty.
	rec, env := doRequest(t, router, http.MethodGet, "/providers?specialty=cardio", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var items []Provider
	if err := json.Unmarshal(env.Data, &items); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 cardiology matches, got %d", len(items))
	}
	// Sorted by name ascending.
	if items[0].Name != "Dr. Emily Rodriguez" || items[1].Name != "Dr. Sarah Johnson" {
		t.Errorf("unexpected order: %s, %s", items[0].Name, items[1].Name)
	}

	rec, env = doRequest(t, router, http.MethodGet, "/providers?page=2&limit=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if env.Pagination == nil {
		t.Fatal("expected pagination block")
	}
	if env.Pagination.Total != 3 || env.Pagination.Pages != 2 || env.Pagination.Page != 2 {
		t.Errorf("unexpected pagination %+v", env.Pagination)
	}
	if err := json.Unmarshal(env.Data, &items); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("expected 1 item on page 2, got %d", len(items))
	}
}

func TestListProvidersSearch(t *testing.T) {
	repo, router := newProviderRouter()
	seedProvider(t, repo, "Dr. Sarah Johnson", "Cardiology", "sarah.johnson@healthcare.com")
	seedProvider(t, repo, "Dr. Michael Chen", "Pediatrics", "michael.chen@healthcare.com")

	rec, env := doRequest(t, router, http.MethodGet, "/providers?search=CHEN", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var items []Provider
	if err := json.Unmarshal(env.Data, &items); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(items) != 1 || !strings.Contains(items[0].Email, "chen") {
		t.Errorf("unexpected search result %+v", items)
	}
}
