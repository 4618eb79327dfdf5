package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tapilabs/leadsim/internal/catalog"
	"github.com/tapilabs/leadsim/internal/domain"
)

// HandleCatalog handles GET /api/catalog: the topics and personas the
// shell renders at steps 1 and 2.
func (h *Handler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]interface{}{
		"topics":   catalog.Topics(),
		"personas": catalog.Personas(),
	})
}

// HandleSituations handles GET /api/catalog/topics/{topicID}/situations.
// Unknown topics yield an empty list, mirroring the catalog partition.
func (h *Handler) HandleSituations(w http.ResponseWriter, r *http.Request) {
	topicID := chi.URLParam(r, "topicID")
	situations := catalog.SituationsForTopic(topicID)
	if situations == nil {
		situations = []domain.Situation{}
	}
	JSON(w, http.StatusOK, situations)
}
