package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/calram/skirmish/internal/model"
	"github.com/calram/skirmish/internal/services/capability"
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
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeInventoryFull       = "INVENTORY_FULL"
	CodeMissileAttached     = "MISSILE_ATTACHED"
	CodeInsufficientGold    = "INSUFFICIENT_GOLD"
	CodeInvalidReward       = "INVALID_REWARD"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeFighterNotFound     = "FIGHTER_NOT_FOUND"
	CodeMissileNotFound     = "MISSILE_NOT_FOUND"
	CodeCapabilityNotFound  = "CAPABILITY_NOT_FOUND"
	CodeOwnerTokenExists    = "OWNER_TOKEN_EXISTS"
	CodeInternalError       = "INTERNAL_ERROR"
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
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// All authorization failures map to the same response; the body never
	// says which check failed.
	case errors.Is(err, model.ErrUnauthorized):
		return &httpError{http.StatusForbidden, APIError{CodeUnauthorized, "Not authorized for this operation"}}

	case errors.Is(err, model.ErrInventoryFull):
		return &httpError{http.StatusConflict, APIError{CodeInventoryFull, "Fighter missile inventory is full"}}
	case errors.Is(err, model.ErrMissileAttached):
		return &httpError{http.StatusConflict, APIError{CodeMissileAttached, "Missile is already attached to a fighter"}}
	case errors.Is(err, model.ErrInsufficientGold):
		return &httpError{http.StatusConflict, APIError{CodeInsufficientGold, "Not enough gold"}}
	case errors.Is(err, model.ErrInvalidReward):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidReward, "Reward amount must not be negative"}}

	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrFighterNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeFighterNotFound, "Fighter not found"}}
	case errors.Is(err, model.ErrMissileNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeMissileNotFound, "Missile not found"}}
	case errors.Is(err, model.ErrCapabilityNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeCapabilityNotFound, "Capability not found"}}

	case errors.Is(err, capability.ErrOwnerCapabilityExists):
		return &httpError{http.StatusConflict, APIError{CodeOwnerTokenExists, "Player already has an ownership token"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
