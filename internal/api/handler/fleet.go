package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/calram/skirmish/internal/api/middleware"
	"github.com/calram/skirmish/internal/api/request"
	"github.com/calram/skirmish/internal/api/response"
	"github.com/calram/skirmish/internal/model"
	"github.com/calram/skirmish/internal/services/fleet"
)

// FleetHandler handles missile and fighter mutation endpoints
type FleetHandler struct {
	fleetService *fleet.Service
}

// NewFleetHandler creates a new fleet handler
func NewFleetHandler(fleetService *fleet.Service) *FleetHandler {
	return &FleetHandler{
		fleetService: fleetService,
	}
}

// MintMissile handles POST /api/v1/missiles
func (h *FleetHandler) MintMissile(w http.ResponseWriter, r *http.Request) {
	missile, err := h.fleetService.MintMissile(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.MissileFromModel(missile))
}

// GetMissile handles GET /api/v1/missiles/{id}
func (h *FleetHandler) GetMissile(w http.ResponseWriter, r *http.Request) {
	id := model.MissileID(mux.Vars(r)["id"])

	missile, err := h.fleetService.GetMissile(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MissileFromModel(missile))
}

// AttachMissile handles POST /api/v1/fighters/{id}/missiles
// Requires the owner capability token for the fighter's owner.
func (h *FleetHandler) AttachMissile(w http.ResponseWriter, r *http.Request) {
	fighterID := model.FighterID(mux.Vars(r)["id"])

	var req request.AttachMissileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.MissileID == "" {
		WriteError(w, NewInvalidRequestError("missile_id is required"))
		return
	}

	token := middleware.GetToken(r.Context())
	caller := middleware.MustGetAddress(r.Context())

	err := h.fleetService.AddMissileToFighter(r.Context(), token, caller, fighterID, model.MissileID(req.MissileID))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Upgrade handles POST /api/v1/fighters/{id}/upgrade
// Requires the administrative capability token.
func (h *FleetHandler) Upgrade(w http.ResponseWriter, r *http.Request) {
	fighterID := model.FighterID(mux.Vars(r)["id"])

	var req request.UpgradeFighterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerID == "" {
		WriteError(w, NewInvalidRequestError("player_id is required"))
		return
	}

	token := middleware.GetToken(r.Context())

	err := h.fleetService.UpgradeFighter(r.Context(), token, fighterID, model.PlayerID(req.PlayerID))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// AwardGold handles POST /api/v1/players/{id}/gold
// Requires the administrative capability token.
func (h *FleetHandler) AwardGold(w http.ResponseWriter, r *http.Request) {
	playerID := model.PlayerID(mux.Vars(r)["id"])

	var req request.AwardGoldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	token := middleware.GetToken(r.Context())

	if err := h.fleetService.AwardGold(r.Context(), token, playerID, req.Amount); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
