package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/raushankrgupta/tryon-studio/models"
	"github.com/raushankrgupta/tryon-studio/outfit"
	"github.com/raushankrgupta/tryon-studio/utils"
	"go.uber.org/zap"
)

// StudioResponse is the derived studio view with refs resolved to URLs.
type StudioResponse struct {
	outfit.View
	DisplayedImageURL            string   `json:"displayed_image_url"`
	VideoURLs                    []string `json:"video_urls"`
	Poses                        []string `json:"poses"`
	CredentialSelectionRequested bool     `json:"credential_selection_requested"`
}

func (s *Studio) studioResponse(ctx context.Context) StudioResponse {
	view := s.Engine.View()
	resp := StudioResponse{
		View:                         view,
		DisplayedImageURL:            s.mediaURL(ctx, view.DisplayedImage),
		VideoURLs:                    make([]string, 0, len(view.Videos)),
		Poses:                        outfit.PoseInstructions,
		CredentialSelectionRequested: s.Credentials.SelectionRequested(),
	}
	for _, ref := range view.Videos {
		resp.VideoURLs = append(resp.VideoURLs, s.mediaURL(ctx, ref))
	}
	return resp
}

func (s *Studio) mediaURL(ctx context.Context, ref string) string {
	if ref == "" {
		return ""
	}
	url, err := s.Media.URL(ctx, ref)
	if err != nil {
		s.Logger.Warn("failed to resolve media url", zap.String("ref", ref), zap.Error(err))
		return ref
	}
	return url
}

// StudioHandler returns the current studio view
func (s *Studio) StudioHandler(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, s.studioResponse(r.Context()))
}

// CreateModelHandler turns an uploaded photo into the base model image
func (s *Studio) CreateModelHandler(w http.ResponseWriter, r *http.Request) {
	log := s.Logger.With(zap.String("api", "create_model"))

	photo, err := readImageUpload(w, r, "image")
	if err != nil {
		utils.RespondError(w, log, capitalize(err.Error()), http.StatusBadRequest)
		return
	}

	ctx, cancel := s.generationContext(s.GenerationTimeout)
	defer cancel()

	if err := s.Engine.CreateModel(ctx, photo); err != nil {
		s.respondEngineError(w, log, err)
		return
	}
	log.Info("model created")
	utils.RespondJSON(w, http.StatusOK, s.studioResponse(r.Context()))
}

// ApplyGarmentHandler applies an uploaded garment (multipart) or a wardrobe item ({"item_id": ...})
func (s *Studio) ApplyGarmentHandler(w http.ResponseWriter, r *http.Request) {
	log := s.Logger.With(zap.String("api", "apply_garment"))

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		s.applyUploadedGarment(w, r, log)
		return
	}

	var req struct {
		ItemID string `json:"item_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ItemID == "" {
		utils.RespondError(w, log, "Provide an image upload or an item_id", http.StatusBadRequest)
		return
	}
	log = log.With(zap.String("item", req.ItemID))

	ctx, cancel := s.generationContext(s.GenerationTimeout)
	defer cancel()

	if err := s.Engine.ApplyWardrobeItem(ctx, req.ItemID); err != nil {
		s.respondEngineError(w, log, err)
		return
	}
	log.Info("garment applied")
	utils.RespondJSON(w, http.StatusOK, s.studioResponse(r.Context()))
}

func (s *Studio) applyUploadedGarment(w http.ResponseWriter, r *http.Request, log *zap.Logger) {
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

	// Checked before storing so a rejected request leaves no file behind.
	switch view := s.Engine.View(); {
	case view.Busy:
		s.respondEngineError(w, log, outfit.ErrBusy)
		return
	case !view.HasModel:
		s.respondEngineError(w, log, outfit.ErrNoModel)
		return
	}

	ref, err := s.Media.Save(r.Context(), img)
	if err != nil {
		utils.RespondError(w, log, fmt.Sprintf("Failed to store garment: %v", err), http.StatusInternalServerError)
		return
	}
	item := models.WardrobeItem{
		ID:       r.FormValue("id"),
		Name:     r.FormValue("name"),
		URL:      ref,
		Category: category,
	}
	if item.ID == "" {
		item.ID = "custom-" + uuid.New().String()
	}
	if item.Name == "" {
		item.Name = "Custom item"
	}
	log = log.With(zap.String("item", item.ID))

	ctx, cancel := s.generationContext(s.GenerationTimeout)
	defer cancel()

	if err := s.Engine.ApplyGarment(ctx, img, item); err != nil {
		s.respondEngineError(w, log, err)
		return
	}
	log.Info("garment applied")
	utils.RespondJSON(w, http.StatusOK, s.studioResponse(r.Context()))
}

// UndoHandler removes the last garment
func (s *Studio) UndoHandler(w http.ResponseWriter, r *http.Request) {
	log := s.Logger.With(zap.String("api", "undo"))
	if err := s.Engine.RemoveLastGarment(); err != nil {
		s.respondEngineError(w, log, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, s.studioResponse(r.Context()))
}

// SelectPoseHandler switches to the pose at {"index": n}
func (s *Studio) SelectPoseHandler(w http.ResponseWriter, r *http.Request) {
	log := s.Logger.With(zap.String("api", "select_pose"))

	var req struct {
		Index *int `json:"index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Index == nil {
		utils.RespondError(w, log, "index is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := s.generationContext(s.GenerationTimeout)
	defer cancel()

	if err := s.Engine.SelectPose(ctx, *req.Index); err != nil {
		s.respondEngineError(w, log, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, s.studioResponse(r.Context()))
}

// GenerateVideoHandler starts a video of the displayed image. The video is
// generated in the background unless ?wait=true is given; poll GET /studio
// for the result.
func (s *Studio) GenerateVideoHandler(w http.ResponseWriter, r *http.Request) {
	log := s.Logger.With(zap.String("api", "generate_video"))

	var req struct {
		Model string `json:"model"`
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, log, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
			return
		}
	}
	quality, err := models.ParseVideoQuality(req.Model)
	if err != nil {
		utils.RespondError(w, log, err.Error(), http.StatusBadRequest)
		return
	}
	log = log.With(zap.String("quality", string(quality)))

	if r.URL.Query().Get("wait") == "true" {
		ctx, cancel := s.generationContext(s.VideoTimeout)
		defer cancel()
		if err := s.Engine.GenerateVideo(ctx, quality); err != nil {
			s.respondEngineError(w, log, err)
			return
		}
		utils.RespondJSON(w, http.StatusOK, s.studioResponse(r.Context()))
		return
	}

	view := s.Engine.View()
	switch {
	case view.VideoBusy:
		s.respondEngineError(w, log, outfit.ErrBusy)
		return
	case !view.HasModel:
		s.respondEngineError(w, log, outfit.ErrNoModel)
		return
	case !s.Credentials.HasUsableCredential():
		s.Credentials.PromptCredentialSelection()
		utils.RespondError(w, log, "Please select an API key to generate videos.", http.StatusPreconditionRequired)
		return
	}

	go func() {
		ctx, cancel := s.generationContext(s.VideoTimeout)
		defer cancel()
		if err := s.Engine.GenerateVideo(ctx, quality); err != nil {
			log.Warn("video generation finished with error", zap.Error(err))
			return
		}
		log.Info("video generated")
	}()

	utils.RespondJSON(w, http.StatusAccepted, s.studioResponse(r.Context()))
}

// ResetHandler starts over without a model
func (s *Studio) ResetHandler(w http.ResponseWriter, r *http.Request) {
	s.Engine.Reset()
	s.Logger.Info("studio reset", zap.String("api", "reset"))
	utils.RespondJSON(w, http.StatusOK, s.studioResponse(r.Context()))
}

// PosesHandler lists the pose instructions in index order
func (s *Studio) PosesHandler(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string][]string{"poses": outfit.PoseInstructions})
}

// CredentialsHandler selects the API key used for video generation
func (s *Studio) CredentialsHandler(w http.ResponseWriter, r *http.Request) {
	log := s.Logger.With(zap.String("api", "credentials"))

	var req struct {
		APIKey string `json:"api_key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, log, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if err := s.Credentials.Select(req.APIKey); err != nil {
		utils.RespondError(w, log, capitalize(err.Error()), http.StatusBadRequest)
		return
	}
	log.Info("video credential selected")
	utils.RespondJSON(w, http.StatusOK, s.studioResponse(r.Context()))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
