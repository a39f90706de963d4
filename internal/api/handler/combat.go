package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/calram/skirmish/internal/api/middleware"
	"github.com/calram/skirmish/internal/api/request"
	"github.com/calram/skirmish/internal/api/response"
	"github.com/calram/skirmish/internal/model"
	"github.com/calram/skirmish/internal/services/combat"
	"github.com/calram/skirmish/internal/services/leaderboard"
)

const defaultLeaderboardLimit = 10

// CombatHandler handles combat and leaderboard endpoints
type CombatHandler struct {
	combatService      *combat.Service
	leaderboardService *leaderboard.Service
}

// NewCombatHandler creates a new combat handler
func NewCombatHandler(combatService *combat.Service, leaderboardService *leaderboard.Service) *CombatHandler {
	return &CombatHandler{
		combatService:      combatService,
		leaderboardService: leaderboardService,
	}
}

// Resolve handles POST /api/v1/combat
// Requires the ownership capability token for the attacking player.
func (h *CombatHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req request.ResolveCombatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerID == "" {
		WriteError(w, NewInvalidRequestError("player_id is required"))
		return
	}
	if req.TargetFighterID == "" {
		WriteError(w, NewInvalidRequestError("target_fighter_id is required"))
		return
	}

	token := middleware.GetToken(r.Context())
	caller := middleware.MustGetAddress(r.Context())

	outcome, err := h.combatService.ResolveCombat(r.Context(), token, caller,
		model.PlayerID(req.PlayerID), model.FighterID(req.TargetFighterID))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CombatOutcomeFromModel(outcome))
}

// Leaderboard handles GET /api/v1/leaderboard
func (h *CombatHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := defaultLeaderboardLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			WriteError(w, NewInvalidRequestError("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	entries, err := h.leaderboardService.Top(r.Context(), limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LeaderboardFromEntries(entries))
}
