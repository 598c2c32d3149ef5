/*
handlers.go - HTTP API handlers for the contract and wage system

PURPOSE:
  Exposes the wage engine and contract workflow via REST API. Handles
  HTTP request/response, JSON serialization, and delegates to domain
  logic.

ENDPOINTS:
  Auth (public):
    POST   /api/v1/auth/register        Create account, returns token
    POST   /api/v1/auth/login           Authenticate, returns token

  Scales:
    GET    /api/v1/scales               List registered rate schedules

  Contracts (all owner-scoped by the bearer token):
    POST   /api/v1/contracts                  Create empty draft
    GET    /api/v1/contracts                  Dashboard list
    GET    /api/v1/contracts/{id}             Contract + roster + pay lines
    PUT    /api/v1/contracts/{id}/details     Step-1 save (reprices)
    PUT    /api/v1/contracts/{id}/engagement  Step-2 save: hours + roster (reprices)
    POST   /api/v1/contracts/{id}/finalize    draft -> completed
    POST   /api/v1/contracts/{id}/reopen      completed -> draft
    DELETE /api/v1/contracts/{id}             Remove contract + roster

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Contracts: contract workflow service
  - Auth/Tokens: registration, login, JWT issuing
  - Book: schedule book for the scale picker
  - Metrics: Prometheus collectors

REQUEST FLOW:
  1. Parse HTTP request
  2. Parse dates / shapes (field validation lives in the service)
  3. Call domain logic
  4. Serialize response
  5. Map errors to status codes

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 401: Missing/invalid credentials or token
  - 404: Contract not found (includes other users' contracts)
  - 409: State conflicts (completed contract edits, bad transitions,
         duplicate email)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - contract/service.go: The workflow behind these endpoints
*/
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/warp/wage-engine/auth"
	"github.com/warp/wage-engine/contract"
	"github.com/warp/wage-engine/engine"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Contracts *contract.Service
	Auth      *auth.PasswordAuthenticator
	Tokens    *auth.JWTManager
	Book      *engine.ScheduleBook
	Metrics   *Metrics
	Logger    *slog.Logger
}

// NewHandler creates a handler and wires the repricing counter into the
// contract service. A nil logger falls back to slog.Default().
func NewHandler(contracts *contract.Service, authenticator *auth.PasswordAuthenticator, tokens *auth.JWTManager, book *engine.ScheduleBook, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		Contracts: contracts,
		Auth:      authenticator,
		Tokens:    tokens,
		Book:      book,
		Metrics:   NewMetrics(),
		Logger:    logger,
	}
	contracts.ObserveRepricing(h.Metrics.ObserveRepricing)
	return h
}

// =============================================================================
// AUTH HANDLERS
// =============================================================================

// Register creates an account and returns a bearer token.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	user, err := h.Auth.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}

	token, err := h.Tokens.Generate(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to issue token", err)
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{Token: token, User: toUserDTO(user)})
}

// Login authenticates and returns a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	user, err := h.Auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}

	token, err := h.Tokens.Generate(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to issue token", err)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Token: token, User: toUserDTO(user)})
}

func (h *Handler) writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrEmailTaken):
		writeError(w, http.StatusConflict, "Email already registered", err)
	case errors.Is(err, auth.ErrWeakPassword) || errors.Is(err, auth.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "Invalid registration input", err)
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid email or password", err)
	default:
		h.Logger.Error("authentication failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Authentication failed", err)
	}
}

// =============================================================================
// SCALE HANDLERS
// =============================================================================

// ListScales returns every registered rate schedule for scale pickers.
func (h *Handler) ListScales(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toScaleDTOs(h.Book.List()))
}

// =============================================================================
// CONTRACT HANDLERS
// =============================================================================

// CreateContract opens a new empty draft for the authenticated user.
func (h *Handler) CreateContract(w http.ResponseWriter, r *http.Request) {
	c, err := h.Contracts.Create(r.Context(), GetUserID(r.Context()))
	if err != nil {
		h.writeContractError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toContractDTO(c))
}

// ListContracts returns the user's contracts, most recently saved first.
func (h *Handler) ListContracts(w http.ResponseWriter, r *http.Request) {
	contracts, err := h.Contracts.List(r.Context(), GetUserID(r.Context()))
	if err != nil {
		h.writeContractError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toContractDTOs(contracts))
}

// GetContract returns the full view: contract, roster, pay lines.
func (h *Handler) GetContract(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	view, err := h.Contracts.View(r.Context(), GetUserID(r.Context()), id)
	if err != nil {
		h.writeContractError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ContractViewDTO{
		Contract:  toContractDTO(view.Contract),
		Musicians: toMusicianDTOs(view.Musicians),
		Lines:     toPayLineDTOs(view.Lines),
	})
}

// SaveDetails handles the step-1 save: engagement details + leader.
func (h *Handler) SaveDetails(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req SaveDetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var date time.Time
	if req.EngagementDate != "" {
		var err error
		date, err = time.Parse(time.DateOnly, req.EngagementDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid engagement_date format (use YYYY-MM-DD)", err)
			return
		}
	}

	c, err := h.Contracts.SaveDetails(r.Context(), GetUserID(r.Context()), id, detailsFromRequest(req, date))
	if err != nil {
		h.writeContractError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toContractDTO(c))
}

// SaveEngagement handles the step-2 save: hours + full roster.
func (h *Handler) SaveEngagement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req SaveEngagementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	c, err := h.Contracts.SaveEngagement(r.Context(), GetUserID(r.Context()), id, engagementFromRequest(req))
	if err != nil {
		h.writeContractError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toContractDTO(c))
}

// FinalizeContract moves a draft to completed.
func (h *Handler) FinalizeContract(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	c, err := h.Contracts.Finalize(r.Context(), GetUserID(r.Context()), id)
	if err != nil {
		h.writeContractError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toContractDTO(c))
}

// ReopenContract moves a completed contract back to draft.
func (h *Handler) ReopenContract(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	c, err := h.Contracts.Reopen(r.Context(), GetUserID(r.Context()), id)
	if err != nil {
		h.writeContractError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toContractDTO(c))
}

// DeleteContract removes the contract and its roster.
func (h *Handler) DeleteContract(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Contracts.Delete(r.Context(), GetUserID(r.Context()), id); err != nil {
		h.writeContractError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) writeContractError(w http.ResponseWriter, err error) {
	switch {
	case contract.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Contract not found", err)
	case contract.IsValidation(err):
		writeError(w, http.StatusBadRequest, "Validation failed", err)
	case contract.IsConflict(err):
		writeError(w, http.StatusConflict, "Contract state conflict", err)
	default:
		h.Logger.Error("contract operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
