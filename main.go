package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/raushankrgupta/tryon-studio/api"
	"github.com/raushankrgupta/tryon-studio/config"
	"github.com/raushankrgupta/tryon-studio/gateway"
	"github.com/raushankrgupta/tryon-studio/logger"
	"github.com/raushankrgupta/tryon-studio/media"
	"github.com/raushankrgupta/tryon-studio/outfit"
	"github.com/raushankrgupta/tryon-studio/scrapers"
	"github.com/raushankrgupta/tryon-studio/store"
	"github.com/raushankrgupta/tryon-studio/wardrobe"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()

	log := logger.New(config.LogLevel, config.LogFormat)
	defer log.Sync()
	zap.ReplaceGlobals(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, log *zap.Logger) error {
	fetcher := media.NewFetcher(nil)
	mediaStore, err := newMediaStore(ctx, fetcher)
	if err != nil {
		return err
	}

	outfits, closeStore, err := newOutfitStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	images, err := gateway.NewGemini(ctx, gateway.GeminiConfig{
		APIKey:       config.GeminiAPIKey,
		Model:        config.ImageModel,
		RateInterval: config.RateInterval,
	}, mediaStore, log.Named("gemini"))
	if err != nil {
		return err
	}
	defer images.Close()

	keys := gateway.NewKeyStore(config.VideoAPIKey)
	videos := gateway.NewVeo(gateway.VeoConfig{
		FastModel:    config.VideoModelFast,
		QualityModel: config.VideoModelQuality,
		PollInterval: config.VideoPollInterval,
		RateInterval: config.RateInterval,
	}, keys, mediaStore, log.Named("veo"))

	catalog, err := wardrobe.LoadCatalog(config.WardrobeCatalog)
	if err != nil {
		return err
	}
	catalog = wardrobe.Prefetch(ctx, mediaStore, catalog, 4, log.Named("wardrobe"))

	engine, err := outfit.NewEngine(ctx, outfit.Options{
		Images:      images,
		Videos:      videos,
		Credentials: keys,
		Outfits:     outfits,
		Media:       mediaStore,
		Catalog:     catalog,
		Logger:      log.Named("engine"),
	})
	if err != nil {
		return err
	}

	studio := &api.Studio{
		Engine:            engine,
		Media:             mediaStore,
		Credentials:       keys,
		Importer:          scrapers.NewRegistry(config.ScraperHeadless, log.Named("scraper")),
		Logger:            log.Named("api"),
		GenerationTimeout: config.GenerationTimeout,
		VideoTimeout:      config.VideoTimeout,
		JWTSecret:         config.JWTSecret,
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	// Serve local media files
	mux.Handle("/media/", http.StripPrefix("/media/", http.FileServer(http.Dir(config.MediaDir))))
	mux.Handle("/", studio.Handler())

	srv := &http.Server{
		Addr:              ":" + config.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("port", config.Port), zap.Int("catalog_items", len(catalog)))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func newMediaStore(ctx context.Context, fetcher *media.Fetcher) (media.Store, error) {
	switch config.MediaBackend {
	case "s3":
		return media.NewS3Store(ctx, config.AWSRegion, config.AWSBucketName, fetcher)
	case "local", "":
		return media.NewLocalStore(config.MediaDir, "/media", fetcher)
	}
	return nil, fmt.Errorf("unknown MEDIA_BACKEND %q", config.MediaBackend)
}

func newOutfitStore(ctx context.Context) (outfit.OutfitStore, func(), error) {
	switch config.OutfitStoreBackend {
	case "redis":
		s, err := store.NewRedisStore(ctx, store.RedisConfig{
			Address:  config.RedisAddr,
			Password: config.RedisPassword,
			DB:       config.RedisDB,
			Key:      config.OutfitStoreKey,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	case "mongo":
		client, err := store.ConnectMongo(ctx, config.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		s := store.NewMongoStore(client, config.DBName, config.OutfitStoreKey)
		return s, func() { s.Close(context.Background()) }, nil
	case "file", "":
		s, err := store.NewFileStore(filepath.Clean(config.OutfitStorePath))
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown OUTFIT_STORE_BACKEND %q", config.OutfitStoreBackend)
}
