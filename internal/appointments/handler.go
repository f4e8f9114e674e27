package appointments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/carebook/carebook/internal/api/respond"
	"github.com/carebook/carebook/internal/providers"
	"github.com/carebook/carebook/pkg/logging"
)

// ProviderDirectory resolves the weak provider references on appointments.
type ProviderDirectory interface {
	Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]providers.Summary, error)
	Detail(ctx context.Context, id primitive.ObjectID) (*providers.Summary, error)
}

// Handler serves the /appointments CRUD endpoints.
type Handler struct {
	repo      Repository
	directory ProviderDirectory
	logger    *logging.Logger
}

func NewHandler(repo Repository, directory ProviderDirectory, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, directory: directory, logger: logger}
}

// Routes mounts the appointment endpoints on a subrouter.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/patient/{email}", h.ListByPatient)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// GET /appointments
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := ParseListQuery(r.URL.Query())

	items, total, err := h.repo.List(r.Context(), q)
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err)
		respond.ServerError(w, err)
		return
	}
	if err := h.attachSummaries(r.Context(), items); err != nil {
		h.logger.Error("failed to enrich appointments", "error", err)
		respond.ServerError(w, err)
		return
	}
	respond.Page(w, items, respond.NewPagination(q.Page, q.Limit, total))
}

// GET /appointments/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "Invalid Appointment Id")
		return
	}

	a, err := h.repo.GetByID(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		respond.Fail(w, http.StatusNotFound, "Appointment not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to fetch appointment", "error", err, "id", id.Hex())
		respond.ServerError(w, err)
		return
	}
	if err := h.attachDetail(r.Context(), a); err != nil {
		h.logger.Error("failed to enrich appointment", "error", err, "id", id.Hex())
		respond.ServerError(w, err)
		return
	}
	respond.OK(w, a)
}

// POST /appointments
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if missing := req.MissingFields(); len(missing) > 0 {
		respond.Fail(w, http.StatusBadRequest, "Missing required fields: "+strings.Join(missing, ", "))
		return
	}

	a, errs := req.ToAppointment()
	errs = append(errs, a.ValidateForCreate(time.Now().UTC())...)
	if len(errs) > 0 {
		respond.ValidationFailed(w, errs)
		return
	}

	if err := h.repo.Create(r.Context(), a); err != nil {
		h.logger.Error("failed to create appointment", "error", err)
		respond.ServerError(w, err)
		return
	}
	if err := h.attachDetail(r.Context(), a); err != nil {
		h.logger.Error("failed to enrich appointment", "error", err, "id", a.ID.Hex())
		respond.ServerError(w, err)
		return
	}

	h.logger.Info("appointment created", "id", a.ID.Hex(), "patient", a.PatientName)
	respond.Created(w, a)
}

// PUT /appointments/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "Invalid Appointment Id")
		return
	}

	existing, err := h.repo.GetByID(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		respond.Fail(w, http.StatusNotFound, "Appointment not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to fetch appointment", "error", err, "id", id.Hex())
		respond.ServerError(w, err)
		return
	}

	var req UpdateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Format validators re-run against the merged record; the future-date
	// rule does not, so updates may move an appointment into the past.
	merged, errs := req.Apply(existing)
	errs = append(errs, merged.Validate()...)
	if len(errs) > 0 {
		respond.ValidationFailed(w, errs)
		return
	}

	if err := h.repo.Update(r.Context(), merged); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "Appointment not found")
			return
		}
		h.logger.Error("failed to update appointment", "error", err, "id", id.Hex())
		respond.ServerError(w, err)
		return
	}
	if err := h.attachDetail(r.Context(), merged); err != nil {
		h.logger.Error("failed to enrich appointment", "error", err, "id", id.Hex())
		respond.ServerError(w, err)
		return
	}
	respond.OK(w, merged)
}

// DELETE /appointments/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "Invalid Appointment Id")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "Appointment not found")
			return
		}
		h.logger.Error("failed to delete appointment", "error", err, "id", id.Hex())
		respond.ServerError(w, err)
		return
	}
	respond.Message(w, "Appointment deleted successfully")
}

// GET /appointments/patient/{email}
// The email is used as an exact match key and is not format-validated here.
func (h *Handler) ListByPatient(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	items, err := h.repo.ListByPatient(r.Context(), email)
	if err != nil {
		h.logger.Error("failed to list patient appointments", "error", err, "email", email)
		respond.ServerError(w, err)
		return
	}
	if err := h.attachSummaries(r.Context(), items); err != nil {
		h.logger.Error("failed to enrich appointments", "error", err)
		respond.ServerError(w, err)
		return
	}
	respond.OK(w, items)
}

// attachSummaries resolves provider references for a list in one lookup.
// Dangling references are left unenriched.
func (h *Handler) attachSummaries(ctx context.Context, items []Appointment) error {
	var ids []primitive.ObjectID
	seen := map[primitive.ObjectID]struct{}{}
	for i := range items {
		if items[i].ProviderID == nil {
			continue
		}
		if _, ok := seen[*items[i].ProviderID]; ok {
			continue
		}
		seen[*items[i].ProviderID] = struct{}{}
		ids = append(ids, *items[i].ProviderID)
	}
	if len(ids) == 0 {
		return nil
	}

	summaries, err := h.directory.Summaries(ctx, ids)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ProviderID == nil {
			continue
		}
		if s, ok := summaries[*items[i].ProviderID]; ok {
			summary := s
			items[i].Provider = &summary
		}
	}
	return nil
}

// attachDetail resolves a single reference including availability fields.
func (h *Handler) attachDetail(ctx context.Context, a *Appointment) error {
	if a.ProviderID == nil {
		return nil
	}
	detail, err := h.directory.Detail(ctx, *a.ProviderID)
	if err != nil {
		return err
	}
	a.Provider = detail
	return nil
}
