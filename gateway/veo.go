package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/raushankrgupta/tryon-studio/logger"
	"github.com/raushankrgupta/tryon-studio/media"
	"github.com/raushankrgupta/tryon-studio/metrics"
	"github.com/raushankrgupta/tryon-studio/models"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	gensdk "google.golang.org/genai"
)

const maxVideoBytes = 200 << 20

// KeyResolver returns the API key selected for video generation.
type KeyResolver interface {
	APIKey() (string, error)
}

type videoClient interface {
	GenerateVideos(ctx context.Context, model, prompt string, image *gensdk.Image) (*gensdk.GenerateVideosOperation, error)
	GetVideosOperation(ctx context.Context, op *gensdk.GenerateVideosOperation) (*gensdk.GenerateVideosOperation, error)
}

type sdkVideoClient struct {
	client *gensdk.Client
}

func newSDKVideoClient(ctx context.Context, apiKey string) (videoClient, error) {
	client, err := gensdk.NewClient(ctx, &gensdk.ClientConfig{
		APIKey:  apiKey,
		Backend: gensdk.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &sdkVideoClient{client: client}, nil
}

func (c *sdkVideoClient) GenerateVideos(ctx context.Context, model, prompt string, image *gensdk.Image) (*gensdk.GenerateVideosOperation, error) {
	return c.client.Models.GenerateVideos(ctx, model, prompt, image, nil)
}

func (c *sdkVideoClient) GetVideosOperation(ctx context.Context, op *gensdk.GenerateVideosOperation) (*gensdk.GenerateVideosOperation, error) {
	return c.client.Operations.GetVideosOperation(ctx, op, nil)
}

// VeoConfig configures video generation.
type VeoConfig struct {
	FastModel    string
	QualityModel string
	PollInterval time.Duration
	RateInterval time.Duration
}

// Veo generates short clips of the current outfit with a Veo model. The API
// key is resolved per call so a newly selected key takes effect immediately.
type Veo struct {
	cfg        VeoConfig
	keys       KeyResolver
	store      media.Store
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
	newClient  func(ctx context.Context, apiKey string) (videoClient, error)
}

func NewVeo(cfg VeoConfig, keys KeyResolver, store media.Store, log *zap.Logger) *Veo {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 10 * time.Second
	}
	return &Veo{
		cfg:        cfg,
		keys:       keys,
		store:      store,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		limiter:    newLimiter(cfg.RateInterval),
		logger:     logger.OrNop(log),
		newClient:  newSDKVideoClient,
	}
}

func (v *Veo) model(quality models.VideoQuality) string {
	if quality == models.VideoQualityQuality {
		return v.cfg.QualityModel
	}
	return v.cfg.FastModel
}

// GenerateVideo animates the image at sourceRef and returns the ref of the stored mp4.
func (v *Veo) GenerateVideo(ctx context.Context, sourceRef string, quality models.VideoQuality) (ref string, err error) {
	start := time.Now()
	defer func() { metrics.ObserveGeneration(OpVideo, start, err) }()

	apiKey, err := v.keys.APIKey()
	if err != nil {
		return "", &CredentialError{Err: err}
	}

	source, err := v.store.Load(ctx, sourceRef)
	if err != nil {
		return "", fmt.Errorf("failed to load source image: %w", err)
	}
	if err := checkImage(source); err != nil {
		return "", err
	}

	if err := v.limiter.Wait(ctx); err != nil {
		return "", err
	}

	client, err := v.newClient(ctx, apiKey)
	if err != nil {
		return "", fmt.Errorf("failed to create video client: %w", err)
	}

	model := v.model(quality)
	log := v.logger.With(zap.String("model", model))

	op, err := client.GenerateVideos(ctx, model, videoPrompt, &gensdk.Image{
		ImageBytes: source.Data,
		MIMEType:   source.MIMEType,
	})
	if err != nil {
		return "", classifyVideoError(err.Error(), err)
	}
	log.Info("video generation started", zap.String("operation", op.Name))

	op, err = v.poll(ctx, client, op)
	if err != nil {
		return "", err
	}

	video, err := videoFromOperation(op)
	if err != nil {
		return "", err
	}

	data := video.VideoBytes
	if len(data) == 0 {
		data, err = v.download(ctx, video.URI, apiKey)
		if err != nil {
			return "", err
		}
	}

	mimeType := video.MIMEType
	if mimeType == "" {
		mimeType = "video/mp4"
	}
	ref, err = v.store.Save(ctx, media.Image{MIMEType: mimeType, Data: data})
	if err != nil {
		return "", fmt.Errorf("failed to store video: %w", err)
	}

	log.Info("video generation completed",
		zap.String("ref", ref),
		zap.Duration("duration", time.Since(start).Round(time.Second)),
	)
	return ref, nil
}

func (v *Veo) poll(ctx context.Context, client videoClient, op *gensdk.GenerateVideosOperation) (*gensdk.GenerateVideosOperation, error) {
	ticker := time.NewTicker(v.cfg.PollInterval)
	defer ticker.Stop()

	for op != nil && !op.Done {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		next, err := client.GetVideosOperation(ctx, op)
		if err != nil {
			return nil, classifyVideoError(err.Error(), err)
		}
		op = next
		v.logger.Debug("polled video operation", zap.Bool("done", op != nil && op.Done))
	}
	if op == nil {
		return nil, ErrNoVideo
	}
	return op, nil
}

func videoFromOperation(op *gensdk.GenerateVideosOperation) (*gensdk.Video, error) {
	if len(op.Error) > 0 {
		msg := fmt.Sprint(op.Error["message"])
		if op.Error["message"] == nil {
			msg = fmt.Sprint(op.Error)
		}
		return nil, classifyVideoError(msg, errors.New(msg))
	}
	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 ||
		op.Response.GeneratedVideos[0] == nil || op.Response.GeneratedVideos[0].Video == nil {
		return nil, ErrNoVideo
	}
	video := op.Response.GeneratedVideos[0].Video
	if len(video.VideoBytes) == 0 && video.URI == "" {
		return nil, ErrNoVideo
	}
	return video, nil
}

// download fetches a generated file. The file service authenticates with a key query parameter.
func (v *Veo) download(ctx context.Context, uri, apiKey string) ([]byte, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid video uri: %w", err)
	}
	q := u.Query()
	q.Set("key", apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download video: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, classifyVideoError(string(body), fmt.Errorf("failed to download video: status %d", resp.StatusCode))
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxVideoBytes))
}

// classifyVideoError marks "entity not found" responses as credential failures.
// The service reports a key without video access that way.
func classifyVideoError(msg string, err error) error {
	if strings.Contains(msg, "Requested entity was not found") {
		return &CredentialError{Err: err}
	}
	return fmt.Errorf("video generation failed: %w", err)
}
