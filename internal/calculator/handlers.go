package calculator

import (
	"encoding/json"
	"errors"
	"net/http"

	"go-chi-calculator/internal/engine"
	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/keymap"
	"go-chi-calculator/internal/observability"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"
)

// Handler serves the calculator HTTP API on top of a Service.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// ---------------------------------------------------------------------------
// Handlers: sessions
// ---------------------------------------------------------------------------

// CreateSession handles POST /calculator/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.CreateSession(r.Context())
	if err != nil {
		h.fail(w, r, "create_session", err)
		return
	}
	handlers.WriteJSON(w, http.StatusCreated, st)
}

// GetSession handles GET /calculator/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.State(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "get_session", err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, st)
}

// DeleteSession handles DELETE /calculator/sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "delete_session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearSession handles POST /calculator/sessions/{id}/clear
func (h *Handler) ClearSession(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Clear(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "clear", err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, st)
}

// ---------------------------------------------------------------------------
// Handlers: commands
// ---------------------------------------------------------------------------

// Commands handles POST /calculator/sessions/{id}/commands
func (h *Handler) Commands(w http.ResponseWriter, r *http.Request) {
	var req CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.failMsg(w, r, "commands", "invalid request body", err, http.StatusBadRequest)
		return
	}

	cmds, err := engine.ParseCommands(req.Commands)
	if err != nil {
		h.fail(w, r, "commands", err)
		return
	}

	res, err := h.svc.Apply(r.Context(), chi.URLParam(r, "id"), cmds)
	if err != nil {
		h.fail(w, r, "commands", err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, res)
}

// Keys handles POST /calculator/sessions/{id}/keys
func (h *Handler) Keys(w http.ResponseWriter, r *http.Request) {
	var req KeysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.failMsg(w, r, "keys", "invalid request body", err, http.StatusBadRequest)
		return
	}

	res, err := h.svc.PressKeys(r.Context(), chi.URLParam(r, "id"), req.Keys)
	if err != nil {
		h.fail(w, r, "keys", err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, res)
}

// Evaluate handles POST /calculator/evaluate. It runs a command sequence on a
// throw-away engine.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.failMsg(w, r, "evaluate", "invalid request body", err, http.StatusBadRequest)
		return
	}

	cmds, err := engine.ParseCommands(req.Commands)
	if err != nil {
		h.fail(w, r, "evaluate", err)
		return
	}

	res, err := h.svc.Evaluate(r.Context(), cmds)
	if err != nil {
		h.fail(w, r, "evaluate", err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, res)
}

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, opName string, err error) {
	h.failMsg(w, r, opName, err.Error(), err, statusFor(err))
}

func (h *Handler) failMsg(w http.ResponseWriter, r *http.Request, opName, msg string, err error, status int) {
	ctx := r.Context()
	observability.RecordError(ctx, trace.SpanFromContext(ctx), observability.LoggerWithTrace(ctx),
		errorCounter, opName, msg, err, status, w)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrSessionLimit):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrNoCommands),
		errors.Is(err, engine.ErrUnknownCommand),
		errors.Is(err, keymap.ErrUnboundKey):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
