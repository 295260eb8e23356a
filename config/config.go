package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is built once at process start and passed into every component.
// Nothing in the codebase reads the environment after Load returns.
type Config struct {
	Port         string `envconfig:"PORT" default:"8080"`
	BaseURL      string `envconfig:"BASE_URL" default:"http://localhost:8080"`
	CORSOrigin   string `envconfig:"CORS_ORIGIN" default:"*"`
	CookieSecure bool   `envconfig:"COOKIE_SECURE" default:"true"`

	MongoURI            string        `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDB             string        `envconfig:"MONGO_DB" default:"noteflow"`
	MongoMaxPool        uint64        `envconfig:"MONGO_MAX_POOL_SIZE" default:"100"`
	MongoIdleTime       time.Duration `envconfig:"MONGO_MAX_CONN_IDLE_TIME" default:"60s"`
	MongoConnectTimeout time.Duration `envconfig:"MONGO_CONNECT_TIMEOUT" default:"10s"`

	JWTSecret  string        `envconfig:"JWT_SECRET" required:"true"`
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"168h"` // 7 days

	RedisURL string `envconfig:"REDIS_URL"`

	BrevoAPIKey string `envconfig:"BREVO_API_KEY"`
	BrevoSender string `envconfig:"BREVO_SENDER_EMAIL" default:"noreply@noteflow.app"`

	GoogleClientID      string `envconfig:"GOOGLE_CLIENT_ID"`
	FirebaseProjectID   string `envconfig:"FIREBASE_PROJECT_ID"`
	FirebaseCredentials string `envconfig:"FIREBASE_CREDENTIALS_FILE"`

	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"noteflow-uploads"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY"`
	S3PublicURL string `envconfig:"S3_PUBLIC_URL"`

	GroqAPIKey string `envconfig:"GROQ_API_KEY"`
	GroqModel  string `envconfig:"GROQ_MODEL" default:"llama-3.1-8b-instant"`

	CronSecret string `envconfig:"CRON_SECRET" required:"true"`
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}
	return &cfg, nil
}
