package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/raushankrgupta/tryon-studio/logger"
	"github.com/raushankrgupta/tryon-studio/media"
	"github.com/raushankrgupta/tryon-studio/metrics"
	"github.com/raushankrgupta/tryon-studio/models"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

const (
	OpModelSynthesis    = "model_synthesis"
	OpBackgroundRemoval = "background_removal"
	OpCompose           = "compose"
	OpPose              = "pose"
	OpVideo             = "video"
)

// contentGenerator is the part of *genai.GenerativeModel Gemini uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiConfig configures the image generation client.
type GeminiConfig struct {
	APIKey       string
	Model        string
	RateInterval time.Duration
}

// Gemini performs the image operations of the try-on studio with a Gemini
// image model. Results are written to the media store and returned as refs.
type Gemini struct {
	client  *genai.Client
	model   contentGenerator
	store   media.Store
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewGemini creates the Gemini client. Close releases it.
func NewGemini(ctx context.Context, cfg GeminiConfig, store media.Store, log *zap.Logger) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}
	if store == nil {
		return nil, errors.New("media store is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %v", err)
	}

	return &Gemini{
		client:  client,
		model:   client.GenerativeModel(cfg.Model),
		store:   store,
		limiter: newLimiter(cfg.RateInterval),
		logger:  logger.OrNop(log).With(zap.String("model", cfg.Model)),
	}, nil
}

func newLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Every(interval), 2)
}

func (g *Gemini) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

// SynthesizeModel turns a user photo into a full-body studio model image.
func (g *Gemini) SynthesizeModel(ctx context.Context, source media.Image) (string, error) {
	if err := checkImage(source); err != nil {
		return "", err
	}
	return g.generate(ctx, OpModelSynthesis, genai.Text(modelPrompt), blob(source))
}

// RemoveBackground isolates an uploaded garment on a plain background.
func (g *Gemini) RemoveBackground(ctx context.Context, source media.Image) (string, error) {
	if err := checkImage(source); err != nil {
		return "", err
	}
	return g.generate(ctx, OpBackgroundRemoval, genai.Text(backgroundPrompt), blob(source))
}

// ComposeGarment dresses the person in baseRef with the garment.
func (g *Gemini) ComposeGarment(ctx context.Context, baseRef string, garment media.Image, category models.Category) (string, error) {
	if err := checkImage(garment); err != nil {
		return "", err
	}
	base, err := g.store.Load(ctx, baseRef)
	if err != nil {
		return "", fmt.Errorf("failed to load model image: %w", err)
	}
	return g.generate(ctx, OpCompose, genai.Text(composePrompt(category)), blob(base), blob(garment))
}

// RegeneratePose re-renders baseRef from the perspective described by instruction.
func (g *Gemini) RegeneratePose(ctx context.Context, baseRef string, instruction string) (string, error) {
	base, err := g.store.Load(ctx, baseRef)
	if err != nil {
		return "", fmt.Errorf("failed to load base image: %w", err)
	}
	return g.generate(ctx, OpPose, genai.Text(posePrompt(instruction)), blob(base))
}

func (g *Gemini) generate(ctx context.Context, op string, parts ...genai.Part) (ref string, err error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}

	start := time.Now()
	defer func() { metrics.ObserveGeneration(op, start, err) }()

	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		g.logger.Warn("generation request failed", zap.String("operation", op), zap.Error(err))
		return "", fromSDKError(err)
	}

	img, err := imageFromResponse(resp)
	if err != nil {
		g.logger.Warn("generation returned no image", zap.String("operation", op), zap.Error(err))
		return "", err
	}

	ref, err = g.store.Save(ctx, img)
	if err != nil {
		return "", fmt.Errorf("failed to store generated image: %w", err)
	}

	g.logger.Info("generation completed",
		zap.String("operation", op),
		zap.String("ref", ref),
		zap.Duration("duration", time.Since(start).Round(time.Millisecond)),
	)
	return ref, nil
}

func blob(img media.Image) genai.Blob {
	return genai.Blob{MIMEType: img.MIMEType, Data: img.Data}
}

func checkImage(img media.Image) error {
	if len(img.Data) == 0 {
		return media.ErrEmptyImage
	}
	if !img.IsImage() {
		return fmt.Errorf("%w: %s", ErrUnsupportedMIMEType, img.MIMEType)
	}
	return nil
}
