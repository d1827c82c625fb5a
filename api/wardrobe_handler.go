package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/raushankrgupta/tryon-studio/models"
	"github.com/raushankrgupta/tryon-studio/utils"
	"go.uber.org/zap"
)

// WardrobeItemResponse is a wardrobe item with its image URL resolved.
type WardrobeItemResponse struct {
	models.WardrobeItem
	ImageURL string `json:"image_url"`
}

func (s *Studio) wardrobeItemResponse(ctx context.Context, item models.WardrobeItem) WardrobeItemResponse {
	return WardrobeItemResponse{WardrobeItem: item, ImageURL: s.mediaURL(ctx, item.URL)}
}

// WardrobeHandler lists the working wardrobe
func (s *Studio) WardrobeHandler(w http.ResponseWriter, r *http.Request) {
	items := s.Engine.Wardrobe()
	resp := make([]WardrobeItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, s.wardrobeItemResponse(r.Context(), item))
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"items": resp})
}

// AddWardrobeItemHandler uploads a garment (multipart "image", "name",
// "category", "remove_background") into the wardrobe
func (s *Studio) AddWardrobeItemHandler(w http.ResponseWriter, r *http.Request) {
	log := s.Logger.With(zap.String("api", "add_wardrobe_item"))

	img, err := readImageUpload(w, r, "image")
	if err != nil {
		utils.RespondError(w, log, capitalize(err.Error()), http.StatusBadRequest)
		return
	}
	category, err := models.ParseCategory(r.FormValue("category"))
	if err != nil {
		utils.RespondError(w, log, err.Error(), http.StatusBadRequest)
		return
	}
	removeBackground, _ := strconv.ParseBool(r.FormValue("remove_background"))

	ctx, cancel := s.generationContext(s.GenerationTimeout)
	defer cancel()

	item, err := s.Engine.AddWardrobeItem(ctx, img, r.FormValue("name"), category, removeBackground)
	if err != nil {
		s.respondEngineError(w, log, err)
		return
	}
	log.Info("wardrobe item added", zap.String("item", item.ID), zap.Bool("remove_background", removeBackground))
	utils.RespondJSON(w, http.StatusCreated, s.wardrobeItemResponse(r.Context(), item))
}

// ImportHandler scrapes a product page ({"url": ...} or ?url=) into the wardrobe
func (s *Studio) ImportHandler(w http.ResponseWriter, r *http.Request) {
	log := s.Logger.With(zap.String("api", "import"))

	// Support both Query Params and JSON Body
	productURL := r.URL.Query().Get("url")
	if productURL == "" {
		var req struct {
			URL string `json:"url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			productURL = req.URL
		}
	}
	if productURL == "" {
		utils.RespondError(w, log, "Please provide a 'url' query parameter or JSON body", http.StatusBadRequest)
		return
	}
	log = log.With(zap.String("url", productURL))

	item, err := s.Importer.Import(r.Context(), productURL)
	if err != nil {
		utils.RespondError(w, log, fmt.Sprintf("Import failed: %v", err), http.StatusBadGateway)
		return
	}

	status := http.StatusCreated
	if !s.Engine.AddToWardrobe(*item) {
		status = http.StatusOK
	}
	log.Info("product imported", zap.String("item", item.ID))
	utils.RespondJSON(w, status, s.wardrobeItemResponse(r.Context(), *item))
}
