package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bancoimob/gamebank/internal/api/middleware"
	"github.com/bancoimob/gamebank/internal/api/request"
	"github.com/bancoimob/gamebank/internal/api/response"
	"github.com/bancoimob/gamebank/internal/model"
	"github.com/bancoimob/gamebank/internal/services/session"
)

// SessionHandler handles session-related endpoints
type SessionHandler struct {
	sessions *session.Service
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *session.Service) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Create(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SessionFromModel(sess))
}

// Get handles GET /api/v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	sess, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(sess))
}

// Resolve handles GET /api/v1/rooms/{code}
func (h *SessionHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	id, err := h.sessions.Resolve(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ResolveResponse{SessionID: string(id)})
}

// Join handles POST /api/v1/sessions/{id}/players
func (h *SessionHandler) Join(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	var req request.JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	sess, err := h.sessions.Join(r.Context(), id, req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SessionFromModel(sess))
}

// Start handles POST /api/v1/sessions/{id}/start
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])
	role := middleware.GetActingRole(r.Context())

	sess, err := h.sessions.Start(r.Context(), id, role)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(sess))
}

// Transfer handles POST /api/v1/sessions/{id}/transfers
func (h *SessionHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	var req request.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	from := model.PlayerID(req.From)
	if from == "" {
		from = middleware.GetPlayerID(r.Context())
	}
	if from == "" {
		WriteError(w, NewInvalidRequestError("from is required"))
		return
	}
	if req.To == "" {
		WriteError(w, NewInvalidRequestError("to is required"))
		return
	}

	sess, err := h.sessions.Transfer(r.Context(), id, from, model.PlayerID(req.To), req.Amount)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(sess))
}

// Disburse handles POST /api/v1/sessions/{id}/disbursements
func (h *SessionHandler) Disburse(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])
	role := middleware.GetActingRole(r.Context())

	var req request.DisburseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.To == "" {
		WriteError(w, NewInvalidRequestError("to is required"))
		return
	}

	sess, err := h.sessions.Disburse(r.Context(), id, role, model.PlayerID(req.To), req.Amount)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(sess))
}
