// Package api provides HTTP handlers for the chat API.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/strideworks/stride/internal/contract"
	"github.com/strideworks/stride/internal/service"
)

// Handler serves the conversational endpoints.
type Handler struct {
	router service.RouterService
}

// NewHandler creates a Handler over the turn router.
func NewHandler(router service.RouterService) *Handler {
	return &Handler{router: router}
}

// RegisterRoutes mounts the chat endpoints on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/chat", h.Chat)
}

// Chat handles one conversational turn.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req contract.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.router.Handle(r.Context(), req)
	if err != nil {
		if service.IsValidation(err) {
			Error(w, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, service.ErrUnknownIntent) {
			Error(w, http.StatusInternalServerError, "unable to route message")
			return
		}
		Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	JSON(w, http.StatusOK, resp)
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
