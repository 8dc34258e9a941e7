package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/soundfloor/crowdmix/backend/internal/config"
	aiHandler "github.com/soundfloor/crowdmix/backend/internal/handler/ai"
	wsHandler "github.com/soundfloor/crowdmix/backend/internal/handler/ws"
	"github.com/soundfloor/crowdmix/backend/internal/hub"
	middlewarePkg "github.com/soundfloor/crowdmix/backend/internal/middleware"
	aiService "github.com/soundfloor/crowdmix/backend/internal/service/ai"
	sessionService "github.com/soundfloor/crowdmix/backend/internal/service/session"
	"github.com/soundfloor/crowdmix/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(store *sessionService.Service, h *hub.Hub, aiSvc *aiService.Service, corsCfg config.CORSConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(corsCfg.AllowedOrigin))

	start := time.Now()
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		users, suggestions := store.Counts(req.Context())
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"status":      "ok",
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"uptime":      time.Since(start).Seconds(),
			"users":       users,
			"suggestions": suggestions,
		})
	})

	wsHandler.New(h).RegisterRoutes(r)

	r.Route("/api", func(api chi.Router) {
		aiHandler.New(aiSvc).RegisterRoutes(api)
	})

	return r
}
