// Package api exposes the try-on studio over HTTP for a single user session.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/raushankrgupta/tryon-studio/logger"
	"github.com/raushankrgupta/tryon-studio/media"
	"github.com/raushankrgupta/tryon-studio/models"
	"github.com/raushankrgupta/tryon-studio/outfit"
	"github.com/raushankrgupta/tryon-studio/utils"
	"go.uber.org/zap"
)

// Importer scrapes a product page into a wardrobe item.
type Importer interface {
	Import(ctx context.Context, url string) (*models.WardrobeItem, error)
}

// CredentialSelector stores the API key the user picked for video generation.
type CredentialSelector interface {
	Select(key string) error
	SelectionRequested() bool
	HasUsableCredential() bool
	PromptCredentialSelection()
}

// Studio holds the handlers' dependencies.
type Studio struct {
	Engine            *outfit.Engine
	Media             media.Store
	Credentials       CredentialSelector
	Importer          Importer
	Logger            *zap.Logger
	GenerationTimeout time.Duration
	VideoTimeout      time.Duration
	JWTSecret         string
}

// Handler returns the routed, CORS-enabled handler for every studio endpoint.
func (s *Studio) Handler() http.Handler {
	if s.Logger == nil {
		s.Logger = logger.OrNop(nil)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /studio", s.auth(s.StudioHandler))
	mux.HandleFunc("POST /studio/model", s.auth(s.CreateModelHandler))
	mux.HandleFunc("POST /studio/garments", s.auth(s.ApplyGarmentHandler))
	mux.HandleFunc("POST /studio/undo", s.auth(s.UndoHandler))
	mux.HandleFunc("POST /studio/pose", s.auth(s.SelectPoseHandler))
	mux.HandleFunc("POST /studio/video", s.auth(s.GenerateVideoHandler))
	mux.HandleFunc("POST /studio/reset", s.auth(s.ResetHandler))

	mux.HandleFunc("GET /wardrobe", s.auth(s.WardrobeHandler))
	mux.HandleFunc("POST /wardrobe", s.auth(s.AddWardrobeItemHandler))
	mux.HandleFunc("POST /wardrobe/import", s.auth(s.ImportHandler))

	mux.HandleFunc("GET /outfits", s.auth(s.OutfitsHandler))
	mux.HandleFunc("POST /outfits", s.auth(s.SaveOutfitHandler))
	mux.HandleFunc("DELETE /outfits/{id}", s.auth(s.DeleteOutfitHandler))

	mux.HandleFunc("POST /credentials", s.auth(s.CredentialsHandler))
	mux.HandleFunc("GET /poses", s.PosesHandler)

	return corsMiddleware(utils.LatencyMiddleware(s.Logger, mux))
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// auth requires a valid bearer token when a JWT secret is configured.
func (s *Studio) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.JWTSecret == "" {
			next(w, r)
			return
		}
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			utils.RespondError(w, s.Logger, "Authorization header required", http.StatusUnauthorized)
			return
		}
		token, err := utils.ValidateToken(s.JWTSecret, raw)
		if err != nil || !token.Valid {
			utils.RespondError(w, s.Logger, "Invalid or expired token", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// generationContext detaches a generation call from the request so a client
// disconnect doesn't abort a call that is already billed.
func (s *Studio) generationContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return context.WithTimeout(context.Background(), timeout)
}

// respondEngineError maps an engine error to a status, preferring the
// engine's user-facing message.
func (s *Studio) respondEngineError(w http.ResponseWriter, log *zap.Logger, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusBadGateway || status == http.StatusTooManyRequests || errors.Is(err, outfit.ErrCredentialRequired) {
		if last := s.Engine.View().LastError; last != "" {
			message = last
		}
	}
	if status == http.StatusTooManyRequests {
		message = "Quota exceeded. Please try again later."
	}
	utils.RespondError(w, log, message, status)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, outfit.ErrBusy), errors.Is(err, outfit.ErrStale):
		return http.StatusConflict
	case errors.Is(err, outfit.ErrNoModel), errors.Is(err, outfit.ErrNoHistory), errors.Is(err, outfit.ErrNothingToUndo):
		return http.StatusConflict
	case errors.Is(err, outfit.ErrPoseOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, outfit.ErrNotFound), errors.Is(err, media.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, outfit.ErrCredentialRequired):
		return http.StatusPreconditionRequired
	case strings.Contains(err.Error(), "429") || strings.Contains(strings.ToLower(err.Error()), "quota"):
		return http.StatusTooManyRequests
	}
	return http.StatusBadGateway
}
