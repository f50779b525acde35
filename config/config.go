package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	StaticDir         string `mapstructure:"STATIC_DIR"`

	// Account storage: "memory" (lost on restart) or "mongo".
	StorageDriver string `mapstructure:"STORAGE_DRIVER"`
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	DatabaseName  string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Google Maps.
	GoogleAPIKey      string        `mapstructure:"GOOGLE_API_KEY"`
	GoogleMapsBaseURL string        `mapstructure:"GOOGLE_MAPS_BASE_URL"`
	NominatimBaseURL  string        `mapstructure:"NOMINATIM_BASE_URL"`
	PlacesCountry     string        `mapstructure:"PLACES_COUNTRY"`
	NearbyRadiusM     int           `mapstructure:"NEARBY_RADIUS_M"`
	UpstreamTimeout   time.Duration `mapstructure:"UPSTREAM_TIMEOUT"`

	// Auth.
	JWTSecret     string `mapstructure:"JWT_SECRET"`
	AdminEmail    string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`
	AdminToken    string `mapstructure:"ADMIN_TOKEN"`

	// Push notifications.
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	AdminPushTopic          string `mapstructure:"ADMIN_PUSH_TOPIC"`

	// Pricing.
	PricePerKm            float64 `mapstructure:"PRICE_PER_KM"`
	PriceMinFare          float64 `mapstructure:"PRICE_MIN_FARE"`
	PriceRoundStep        float64 `mapstructure:"PRICE_ROUND_STEP"`
	PriceMultiplierMedium float64 `mapstructure:"PRICE_MULTIPLIER_MEDIUM"`
	PriceMultiplierHigh   float64 `mapstructure:"PRICE_MULTIPLIER_HIGH"`
	PricePeakSurcharge    float64 `mapstructure:"PRICE_PEAK_SURCHARGE"`
	PriceTimezone         string  `mapstructure:"PRICE_TIMEZONE"`
	PriceCurrency         string  `mapstructure:"PRICE_CURRENCY"`
	PriceLocale           string  `mapstructure:"PRICE_LOCALE"`
}

var AppConfig Config

// SetDefaults registers the default for every key. LoadConfig calls it, tests
// may call it directly to get a usable AppConfig without a config file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "3000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	v.SetDefault("STATIC_DIR", "./public")

	v.SetDefault("STORAGE_DRIVER", "memory")
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "teleka")

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("REDIS_QUEUE_DB", 1)

	v.SetDefault("GOOGLE_API_KEY", "")
	v.SetDefault("GOOGLE_MAPS_BASE_URL", "https://maps.googleapis.com/maps/api")
	v.SetDefault("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org")
	v.SetDefault("PLACES_COUNTRY", "ug")
	v.SetDefault("NEARBY_RADIUS_M", 5000)
	v.SetDefault("UPSTREAM_TIMEOUT", "10s")

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("ADMIN_EMAIL", "admin@cablink.com")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("ADMIN_TOKEN", "")

	v.SetDefault("FIREBASE_CREDENTIALS_FILE", "")
	v.SetDefault("ADMIN_PUSH_TOPIC", "teleka-admin")

	v.SetDefault("PRICE_PER_KM", 2680)
	v.SetDefault("PRICE_MIN_FARE", 12000)
	v.SetDefault("PRICE_ROUND_STEP", 1000)
	v.SetDefault("PRICE_MULTIPLIER_MEDIUM", 1.15)
	v.SetDefault("PRICE_MULTIPLIER_HIGH", 1.3)
	v.SetDefault("PRICE_PEAK_SURCHARGE", 0.2)
	v.SetDefault("PRICE_TIMEZONE", "Africa/Kampala")
	v.SetDefault("PRICE_CURRENCY", "UGX")
	v.SetDefault("PRICE_LOCALE", "en-UG")
}

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
