package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/calram/skirmish/internal/api/handler"
	apimiddleware "github.com/calram/skirmish/internal/api/middleware"
	"github.com/calram/skirmish/internal/events"
	"github.com/calram/skirmish/internal/middleware"
	"github.com/calram/skirmish/internal/services/account"
	"github.com/calram/skirmish/internal/services/combat"
	"github.com/calram/skirmish/internal/services/fleet"
	"github.com/calram/skirmish/internal/services/leaderboard"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger             *slog.Logger
	AccountService     *account.Service
	FleetService       *fleet.Service
	CombatService      *combat.Service
	LeaderboardService *leaderboard.Service
	Broadcaster        *events.Broadcaster
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	accountHandler := handler.NewAccountHandler(cfg.AccountService)
	fleetHandler := handler.NewFleetHandler(cfg.FleetService)
	combatHandler := handler.NewCombatHandler(cfg.CombatService, cfg.LeaderboardService)
	eventsHandler := handler.NewEventsHandler(cfg.Broadcaster, cfg.Logger)

	// Create middleware
	identityMiddleware := apimiddleware.Identity()
	tokenMiddleware := apimiddleware.RequireToken()
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Account creation (the address can come from the body, so no identity
	// middleware here)
	api.HandleFunc("/accounts", accountHandler.Create).Methods(http.MethodPost)

	// Identified self-lookup; registered before the {id} route so "me" is
	// never taken as a player id
	api.Handle("/players/me", identityMiddleware(http.HandlerFunc(accountHandler.GetMe))).Methods(http.MethodGet)

	// Read-only object lookups
	api.HandleFunc("/players/{id}", accountHandler.GetPlayer).Methods(http.MethodGet)
	api.HandleFunc("/fighters/{id}", accountHandler.GetFighter).Methods(http.MethodGet)
	api.HandleFunc("/missiles/{id}", fleetHandler.GetMissile).Methods(http.MethodGet)

	// Free-standing missile mint
	api.HandleFunc("/missiles", fleetHandler.MintMissile).Methods(http.MethodPost)

	// Capability-gated mutations: identity plus a bearer token. The service
	// layer decides whether the token actually authorizes the operation.
	gated := api.PathPrefix("/fighters").Subrouter()
	gated.Use(identityMiddleware)
	gated.Use(tokenMiddleware)
	gated.HandleFunc("/{id}/missiles", fleetHandler.AttachMissile).Methods(http.MethodPost)
	gated.HandleFunc("/{id}/upgrade", fleetHandler.Upgrade).Methods(http.MethodPost)

	// Economy and combat mutations carry the same identity plus token
	// requirements: gold awards prove the admin capability, combat proves
	// ownership of the attacking player
	api.Handle("/players/{id}/gold",
		identityMiddleware(tokenMiddleware(http.HandlerFunc(fleetHandler.AwardGold)))).Methods(http.MethodPost)
	api.Handle("/combat",
		identityMiddleware(tokenMiddleware(http.HandlerFunc(combatHandler.Resolve)))).Methods(http.MethodPost)
	api.HandleFunc("/leaderboard", combatHandler.Leaderboard).Methods(http.MethodGet)

	// Event stream
	api.HandleFunc("/events", eventsHandler.Stream).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
