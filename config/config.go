package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	Port      string
	LogLevel  string
	LogFormat string
	JWTSecret string

	GeminiAPIKey      string
	VideoAPIKey       string
	ImageModel        string
	VideoModelFast    string
	VideoModelQuality string
	VideoPollInterval time.Duration
	GenerationTimeout time.Duration
	RateInterval      time.Duration

	MediaBackend  string
	MediaDir      string
	AWSRegion     string
	AWSBucketName string

	OutfitStoreBackend string
	OutfitStorePath    string
	OutfitStoreKey     string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	MongoURI           string
	DBName             string

	WardrobeCatalog string
	ScraperHeadless bool
	VideoTimeout    time.Duration
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("IMAGE_MODEL", "gemini-2.5-flash-image")
	v.SetDefault("VIDEO_MODEL_FAST", "veo-3.1-fast-generate-preview")
	v.SetDefault("VIDEO_MODEL_QUALITY", "veo-3.1-generate-preview")
	v.SetDefault("VIDEO_POLL_INTERVAL", 10*time.Second)
	v.SetDefault("GENERATION_TIMEOUT", 5*time.Minute)
	v.SetDefault("RATE_INTERVAL", 2*time.Second)
	v.SetDefault("VIDEO_TIMEOUT", 15*time.Minute)

	v.SetDefault("MEDIA_BACKEND", "local")
	v.SetDefault("MEDIA_DIR", "media")
	v.SetDefault("AWS_REGION", "ap-south-1")

	v.SetDefault("OUTFIT_STORE_BACKEND", "file")
	v.SetDefault("OUTFIT_STORE_PATH", "data/saved_outfits.json")
	v.SetDefault("OUTFIT_STORE_KEY", "tryon_saved_outfits")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017/")
	v.SetDefault("DB_NAME", "fitly")
}

// LoadConfig loads environment variables from .env file and an optional config.yaml
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default values or system environment variables")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("Error reading config file: %v", err)
		}
	}

	Port = v.GetString("PORT")
	LogLevel = v.GetString("LOG_LEVEL")
	LogFormat = v.GetString("LOG_FORMAT")
	JWTSecret = v.GetString("JWT_SECRET")

	GeminiAPIKey = v.GetString("GEMINI_API_KEY")
	// Video models are billed separately; fall back to the image key.
	VideoAPIKey = v.GetString("VIDEO_API_KEY")
	if VideoAPIKey == "" {
		VideoAPIKey = GeminiAPIKey
	}
	ImageModel = v.GetString("IMAGE_MODEL")
	VideoModelFast = v.GetString("VIDEO_MODEL_FAST")
	VideoModelQuality = v.GetString("VIDEO_MODEL_QUALITY")
	VideoPollInterval = v.GetDuration("VIDEO_POLL_INTERVAL")
	GenerationTimeout = v.GetDuration("GENERATION_TIMEOUT")
	RateInterval = v.GetDuration("RATE_INTERVAL")

	MediaBackend = v.GetString("MEDIA_BACKEND")
	MediaDir = v.GetString("MEDIA_DIR")
	AWSRegion = v.GetString("AWS_REGION")
	AWSBucketName = v.GetString("AWS_BUCKET_NAME")

	OutfitStoreBackend = v.GetString("OUTFIT_STORE_BACKEND")
	OutfitStorePath = v.GetString("OUTFIT_STORE_PATH")
	OutfitStoreKey = v.GetString("OUTFIT_STORE_KEY")
	RedisAddr = v.GetString("REDIS_ADDR")
	RedisPassword = v.GetString("REDIS_PASSWORD")
	RedisDB = v.GetInt("REDIS_DB")
	MongoURI = v.GetString("MONGO_URI")
	DBName = v.GetString("DB_NAME")

	WardrobeCatalog = v.GetString("WARDROBE_CATALOG")
	ScraperHeadless = v.GetBool("SCRAPER_HEADLESS")
	VideoTimeout = v.GetDuration("VIDEO_TIMEOUT")
}
