package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bancoimob/gamebank/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest        = "INVALID_REQUEST"
	CodeSessionNotFound       = "SESSION_NOT_FOUND"
	CodeRoomCodeCollision     = "ROOM_CODE_COLLISION"
	CodeGameAlreadyStarted    = "GAME_ALREADY_STARTED"
	CodeGameNotStarted        = "GAME_NOT_STARTED"
	CodeSessionFinished       = "SESSION_FINISHED"
	CodeDuplicatePlayer       = "DUPLICATE_PLAYER"
	CodeInvalidPlayerName     = "INVALID_PLAYER_NAME"
	CodeInsufficientPlayers   = "INSUFFICIENT_PLAYERS"
	CodeUnknownParty          = "UNKNOWN_PARTY"
	CodeInvalidAmount         = "INVALID_AMOUNT"
	CodeInsufficientFunds     = "INSUFFICIENT_FUNDS"
	CodeInsufficientBankFunds = "INSUFFICIENT_BANK_FUNDS"
	CodeNotHost               = "NOT_HOST"
	CodeContention            = "CONTENTION"
	CodeInternalError         = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSessionNotFound, "Session not found"}}
	case errors.Is(err, model.ErrCodeCollision):
		return &httpError{http.StatusConflict, APIError{CodeRoomCodeCollision, "Room code already in use"}}
	case errors.Is(err, model.ErrGameAlreadyStarted):
		return &httpError{http.StatusConflict, APIError{CodeGameAlreadyStarted, "Game has already started"}}
	case errors.Is(err, model.ErrGameNotStarted):
		return &httpError{http.StatusConflict, APIError{CodeGameNotStarted, "Game has not started yet"}}
	case errors.Is(err, model.ErrSessionFinished):
		return &httpError{http.StatusConflict, APIError{CodeSessionFinished, "Session is finished"}}
	case errors.Is(err, model.ErrDuplicatePlayer):
		return &httpError{http.StatusConflict, APIError{CodeDuplicatePlayer, "Player name already taken in this session"}}
	case errors.Is(err, model.ErrInvalidPlayerName):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidPlayerName, "Player name is invalid"}}
	case errors.Is(err, model.ErrInsufficientPlayers):
		return &httpError{http.StatusConflict, APIError{CodeInsufficientPlayers, "At least two players are required to start"}}
	case errors.Is(err, model.ErrUnknownParty):
		return &httpError{http.StatusNotFound, APIError{CodeUnknownParty, "Unknown transfer party"}}
	case errors.Is(err, model.ErrInvalidAmount):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidAmount, "Amount must be positive"}}
	case errors.Is(err, model.ErrInsufficientFunds):
		return &httpError{http.StatusConflict, APIError{CodeInsufficientFunds, "Insufficient funds"}}
	case errors.Is(err, model.ErrInsufficientBankFunds):
		return &httpError{http.StatusConflict, APIError{CodeInsufficientBankFunds, "Insufficient bank funds"}}
	case errors.Is(err, model.ErrNotHost):
		return &httpError{http.StatusForbidden, APIError{CodeNotHost, "Only the host can perform this action"}}
	case errors.Is(err, model.ErrContention):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeContention, "Session under contention, retry shortly"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
