// Package respond writes the JSON envelope shared by every endpoint:
// {success, data, message, errors, error, pagination}. Non-2xx responses use
// the same shape with success=false so clients never see an unstructured body.
package respond

import (
	"encoding/json"
	"net/http"
)

// Pagination reports the window a list response covers. Pages is always
// ceil(Total/Limit).
type Pagination struct {
	Page  int64 `json:"page"`
	Limit int64 `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// NewPagination computes the page count for a result window.
func NewPagination(page, limit, total int64) *Pagination {
	pages := int64(0)
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return &Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// Envelope is the uniform response body.
type Envelope struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Errors     []string    `json:"errors,omitempty"`
	Error      string      `json:"error,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

func write(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// OK writes a 200 with data.
func OK(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 with the newly created record.
func Created(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusCreated, Envelope{Success: true, Data: data})
}

// Page writes a 200 list response with its pagination envelope.
func Page(w http.ResponseWriter, data interface{}, p *Pagination) {
	write(w, http.StatusOK, Envelope{Success: true, Data: data, Pagination: p})
}

// Message writes a 200 carrying only a confirmation message.
func Message(w http.ResponseWriter, message string) {
	write(w, http.StatusOK, Envelope{Success: true, Message: message})
}

// Fail writes a failure with the given status and message.
func Fail(w http.ResponseWriter, status int, message string) {
	write(w, status, Envelope{Success: false, Message: message})
}

// ValidationFailed writes a 400 listing every field-level problem.
func ValidationFailed(w http.ResponseWriter, errs []string) {
	write(w, http.StatusBadRequest, Envelope{Success: false, Message: "Validation error", Errors: errs})
}

// ServerError writes a 500 with the underlying cause for diagnostics.
func ServerError(w http.ResponseWriter, err error) {
	body := Envelope{Success: false, Message: "Server error"}
	if err != nil {
		body.Error = err.Error()
	}
	write(w, http.StatusInternalServerError, body)
}
