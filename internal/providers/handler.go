package providers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/carebook/carebook/internal/api/respond"
	"github.com/carebook/carebook/pkg/logging"
)

// Handler serves the /providers CRUD endpoints.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// Routes mounts the provider endpoints on a subrouter.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// GET /providers
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := ParseListQuery(r.URL.Query())

	items, total, err := h.repo.List(r.Context(), q)
	if err != nil {
		h.logger.Error("failed to list providers", "error", err)
		respond.ServerError(w, err)
		return
	}
	respond.Page(w, items, respond.NewPagination(q.Page, q.Limit, total))
}

// GET /providers/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "Invalid Provider Id")
		return
	}

	p, err := h.repo.GetByID(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		respond.Fail(w, http.StatusNotFound, "Provider not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to fetch provider", "error", err, "id", id.Hex())
		respond.ServerError(w, err)
		return
	}
	respond.OK(w, p)
}

// POST /providers
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProviderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if missing := req.MissingFields(); len(missing) > 0 {
		respond.Fail(w, http.StatusBadRequest, "Missing required fields: "+strings.Join(missing, ", "))
		return
	}

	p := req.ToProvider()
	if errs := p.Validate(); len(errs) > 0 {
		respond.ValidationFailed(w, errs)
		return
	}

	if err := h.repo.Create(r.Context(), p); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			respond.Fail(w, http.StatusBadRequest, "Provider with this email already exists")
			return
		}
		h.logger.Error("failed to create provider", "error", err)
		respond.ServerError(w, err)
		return
	}

	h.logger.Info("provider created", "id", p.ID.Hex(), "name", p.Name)
	respond.Created(w, p)
}

// PUT /providers/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "Invalid Provider Id")
		return
	}

	existing, err := h.repo.GetByID(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		respond.Fail(w, http.StatusNotFound, "Provider not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to fetch provider", "error", err, "id", id.Hex())
		respond.ServerError(w, err)
		return
	}

	var req UpdateProviderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	merged := req.Apply(existing)
	if errs := merged.Validate(); len(errs) > 0 {
		respond.ValidationFailed(w, errs)
		return
	}

	if err := h.repo.Update(r.Context(), merged); err != nil {
		switch {
		case errors.Is(err, ErrDuplicateEmail):
			respond.Fail(w, http.StatusBadRequest, "Provider with this email already exists")
		case errors.Is(err, ErrNotFound):
			respond.Fail(w, http.StatusNotFound, "Provider not found")
		default:
			h.logger.Error("failed to update provider", "error", err, "id", id.Hex())
			respond.ServerError(w, err)
		}
		return
	}
	respond.OK(w, merged)
}

// DELETE /providers/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "Invalid Provider Id")
		return
	}

	// No cascade: appointments keep their denormalized provider fields and a
	// dangling reference by id.
	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Fail(w, http.StatusNotFound, "Provider not found")
			return
		}
		h.logger.Error("failed to delete provider", "error", err, "id", id.Hex())
		respond.ServerError(w, err)
		return
	}
	respond.Message(w, "Provider deleted successfully")
}
