package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/calram/skirmish/internal/api/middleware"
	"github.com/calram/skirmish/internal/api/request"
	"github.com/calram/skirmish/internal/api/response"
	"github.com/calram/skirmish/internal/model"
	"github.com/calram/skirmish/internal/services/account"
)

// AccountHandler handles account and player endpoints
type AccountHandler struct {
	accountService *account.Service
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountService *account.Service) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

// Create handles POST /api/v1/accounts
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	addr := model.Address(req.Address)
	if addr == "" {
		// Fall back to the identity header so a bare POST works too.
		addr = middleware.GetAddress(r.Context())
	}
	if addr == "" {
		WriteError(w, NewInvalidRequestError("address is required"))
		return
	}

	bundle, err := h.accountService.CreateAccount(r.Context(), addr)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AccountFromBundle(bundle))
}

// GetPlayer handles GET /api/v1/players/{id}
func (h *AccountHandler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["id"])

	player, err := h.accountService.GetPlayer(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// GetMe handles GET /api/v1/players/me
func (h *AccountHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	addr := middleware.MustGetAddress(r.Context())

	player, err := h.accountService.GetPlayerByAddress(r.Context(), addr)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// GetFighter handles GET /api/v1/fighters/{id}
func (h *AccountHandler) GetFighter(w http.ResponseWriter, r *http.Request) {
	id := model.FighterID(mux.Vars(r)["id"])

	fighter, err := h.accountService.GetFighter(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.FighterFromModel(fighter))
}
