package ai

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/soundfloor/crowdmix/backend/internal/analysis/crowd"
	"github.com/soundfloor/crowdmix/backend/internal/model/session"
	aiservice "github.com/soundfloor/crowdmix/backend/internal/service/ai"
	"github.com/soundfloor/crowdmix/backend/pkg/utils"
)

// Handler serves the suggestion helper endpoint. The service may be nil when
// no model credentials were configured; every request then takes the canned
// fallback path.
type Handler struct {
	svc *aiservice.Service
}

// New creates the AI handler.
func New(svc *aiservice.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the suggestion endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/ai/suggest", h.handleSuggest)
}

func (h *Handler) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Category session.Category `json:"category"`
		Context  struct {
			TopWords  []string `json:"topWords"`
			AvgTempo  int      `json:"avgTempo"`
			AvgEnergy float64  `json:"avgEnergy"`
		} `json:"context"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.Category == "" {
		utils.RespondError(w, http.StatusBadRequest, "category is required")
		return
	}

	mood := aiservice.MoodContext{
		TopWords:  payload.Context.TopWords,
		AvgTempo:  payload.Context.AvgTempo,
		AvgEnergy: payload.Context.AvgEnergy,
	}
	if mood.AvgTempo == 0 {
		mood.AvgTempo = crowd.DefaultTempo
	}
	if mood.AvgEnergy == 0 {
		mood.AvgEnergy = crowd.DefaultEnergy
	}

	if h.svc != nil {
		text, err := h.svc.Suggest(r.Context(), payload.Category, mood)
		if err == nil {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"text": text})
			return
		}
		log.Printf("[ai] suggestion call failed, using canned phrase: %v", err)
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"text": aiservice.Fallback(payload.Category)})
}
