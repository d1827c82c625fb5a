package api

import (
	"net/http"

	"github.com/raushankrgupta/tryon-studio/models"
	"github.com/raushankrgupta/tryon-studio/utils"
	"go.uber.org/zap"
)

// SavedOutfitResponse is a saved outfit with its image URL resolved.
type SavedOutfitResponse struct {
	models.SavedOutfit
	DisplayURL string `json:"display_url"`
}

// OutfitsResponse represents the response structure for the saved outfits API
type OutfitsResponse struct {
	Outfits []SavedOutfitResponse `json:"outfits"`
	Total   int                   `json:"total"`
}

// OutfitsHandler lists the saved outfits, newest first
func (s *Studio) OutfitsHandler(w http.ResponseWriter, r *http.Request) {
	saved := s.Engine.SavedOutfits()
	resp := OutfitsResponse{Outfits: make([]SavedOutfitResponse, 0, len(saved)), Total: len(saved)}
	for _, o := range saved {
		resp.Outfits = append(resp.Outfits, SavedOutfitResponse{SavedOutfit: o, DisplayURL: s.mediaURL(r.Context(), o.ImageURL)})
	}
	utils.RespondJSON(w, http.StatusOK, resp)
}

// SaveOutfitHandler saves the active outfit
func (s *Studio) SaveOutfitHandler(w http.ResponseWriter, r *http.Request) {
	log := s.Logger.With(zap.String("api", "save_outfit"))

	saved, err := s.Engine.SaveActiveOutfit(r.Context())
	if err != nil {
		if statusFor(err) == http.StatusBadGateway {
			utils.RespondError(w, log, s.Engine.View().LastError, http.StatusInternalServerError)
			return
		}
		s.respondEngineError(w, log, err)
		return
	}
	log.Info("outfit saved", zap.String("id", saved.ID), zap.Int("garments", len(saved.Garments)))
	utils.RespondJSON(w, http.StatusCreated, SavedOutfitResponse{SavedOutfit: saved, DisplayURL: s.mediaURL(r.Context(), saved.ImageURL)})
}

// DeleteOutfitHandler deletes a saved outfit by id
func (s *Studio) DeleteOutfitHandler(w http.ResponseWriter, r *http.Request) {
	log := s.Logger.With(zap.String("api", "delete_outfit"))

	id := r.PathValue("id")
	if err := s.Engine.DeleteSavedOutfit(r.Context(), id); err != nil {
		if statusFor(err) == http.StatusBadGateway {
			utils.RespondError(w, log, s.Engine.View().LastError, http.StatusInternalServerError)
			return
		}
		s.respondEngineError(w, log, err)
		return
	}
	log.Info("outfit deleted", zap.String("id", id))
	w.WriteHeader(http.StatusNoContent)
}
