package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config 应用配置
type Config struct {
	Port     string
	DBPath   string
	Timezone string

	JWTSecret string
	JWTIssuer string

	// Rate limit for the log endpoints, per client IP
	RateLimit       int
	RateLimitWindow time.Duration

	DetourThresholdMinutes float64
	AnomalyCeilingMinutes  float64

	// Ride forwarder
	TrackerURL         string
	StravaBaseURL      string
	StravaClientID     string
	StravaClientSecret string
	StravaRefreshToken string
	StravaActivityType string
	StravaPerPage      int
	HomeLat            float64
	HomeLon            float64
	HomeRadiusMeters   float64 // 0 disables the home geofence
}

// Load 加载配置
//
// Real environment variables take precedence over .env.local, which takes
// precedence over .env.
func Load() *Config {
	_ = godotenv.Load(".env.local", ".env")

	cfg := &Config{
		Port:     getEnv("PORT", ":1010"),
		DBPath:   getEnv("DB_PATH", "./data/commutetrackr.db"),
		Timezone: getEnv("TZ_NAME", "Europe/London"),

		JWTSecret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTIssuer: getEnv("JWT_ISSUER", "commutetrackr"),

		RateLimit:       getEnvInt("RATE_LIMIT", 60),
		RateLimitWindow: getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),

		DetourThresholdMinutes: getEnvFloat("DETOUR_THRESHOLD_MINUTES", 180),
		AnomalyCeilingMinutes:  getEnvFloat("ANOMALY_CEILING_MINUTES", 180),

		TrackerURL:         getEnv("TRACKER_URL", "http://192.168.0.101:1010"),
		StravaBaseURL:      getEnv("STRAVA_BASE_URL", "https://www.strava.com"),
		StravaClientID:     getEnv("STRAVA_CLIENT_ID", ""),
		StravaClientSecret: getEnv("STRAVA_CLIENT_SECRET", ""),
		StravaRefreshToken: getEnv("STRAVA_REFRESH_TOKEN", ""),
		StravaActivityType: getEnv("STRAVA_ACTIVITY_TYPE", "Ride"),
		StravaPerPage:      getEnvInt("STRAVA_PER_PAGE", 5),
		HomeLat:            getEnvFloat("HOME_LAT", 0),
		HomeLon:            getEnvFloat("HOME_LON", 0),
		HomeRadiusMeters:   getEnvFloat("HOME_RADIUS_METERS", 0),
	}

	return cfg
}

// Location resolves the configured timezone, falling back to local time
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("Warning: unknown timezone %q, using local time: %v", c.Timezone, err)
		return time.Local
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
