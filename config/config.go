package config

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string
	Env  string

	MongoURI     string
	DatabaseName string

	JWTSecret     string
	JWTExpiration time.Duration
	JWTIssuer     string

	AllowedEmailDomain string

	StorageBackend string // "local" or "b2"
	UploadDir      string
	PublicBaseURL  string

	B2ApplicationKeyID string
	B2ApplicationKey   string
	B2BucketName       string

	MaxUploadSize int64

	MatchServiceURL string
	MatchTimeout    time.Duration

	ItemRetention   time.Duration
	CleanupInterval time.Duration

	SeedFile string

	SubmitRatePerMinute int
	SubmitBurst         int

	AllowedOrigins []string
}

var AppConfig *Config

func LoadConfig() {
	AppConfig = &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DatabaseName: getEnv("DATABASE_NAME", "campusfind"),

		JWTSecret:     getEnv("JWT_SECRET", ""),
		JWTExpiration: parseDuration(getEnv("JWT_EXPIRATION", "24h")),
		JWTIssuer:     getEnv("JWT_ISSUER", "campusfind"),

		AllowedEmailDomain: getEnv("ALLOWED_EMAIL_DOMAIN", "nitrkl.ac.in"),

		StorageBackend: getEnv("STORAGE_BACKEND", "local"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		PublicBaseURL:  getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),

		B2ApplicationKeyID: getEnv("B2_APPLICATION_KEY_ID", ""),
		B2ApplicationKey:   getEnv("B2_APPLICATION_KEY", ""),
		B2BucketName:       getEnv("B2_BUCKET_NAME", ""),

		MaxUploadSize: parseInt64(getEnv("MAX_UPLOAD_SIZE", "10485760")),

		MatchServiceURL: getEnv("MATCH_SERVICE_URL", ""),
		MatchTimeout:    parseDuration(getEnv("MATCH_TIMEOUT", "3s")),

		ItemRetention:   parseDuration(getEnv("ITEM_RETENTION", "2160h")), // 90 days
		CleanupInterval: parseDuration(getEnv("CLEANUP_INTERVAL", "24h")),

		SeedFile: getEnv("SEED_FILE", ""),

		SubmitRatePerMinute: parseInt(getEnv("SUBMIT_RATE", "5")),
		SubmitBurst:         parseInt(getEnv("SUBMIT_BURST", "3")),

		AllowedOrigins: parseStringSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
	}

	logConfig()
	validateConfig()
}

func logConfig() {
	log.Println("Configuration loaded:")
	log.Printf("  Port: %s", AppConfig.Port)
	log.Printf("  Environment: %s", AppConfig.Env)
	log.Printf("  Database: %s", AppConfig.DatabaseName)
	log.Printf("  MongoDB URI: %s", maskConnectionString(AppConfig.MongoURI))
	log.Printf("  JWT Secret: %s", maskSecret(AppConfig.JWTSecret))
	log.Printf("  Allowed Email Domain: %s", AppConfig.AllowedEmailDomain)
	log.Printf("  Storage Backend: %s", AppConfig.StorageBackend)
	log.Printf("  Max Upload Size: %d bytes", AppConfig.MaxUploadSize)
	log.Printf("  Match Service: %s", valueOrUnset(AppConfig.MatchServiceURL))
	log.Printf("  Match Timeout: %v", AppConfig.MatchTimeout)
	log.Printf("  Item Retention: %v", AppConfig.ItemRetention)
	log.Printf("  Seed File: %s", valueOrUnset(AppConfig.SeedFile))
	log.Printf("  Allowed Origins: %v", AppConfig.AllowedOrigins)
}

func validateConfig() {
	var missingVars []string

	required := map[string]string{
		"MONGO_URI":  AppConfig.MongoURI,
		"JWT_SECRET": AppConfig.JWTSecret,
	}

	if AppConfig.StorageBackend == "b2" {
		required["B2_APPLICATION_KEY_ID"] = AppConfig.B2ApplicationKeyID
		required["B2_APPLICATION_KEY"] = AppConfig.B2ApplicationKey
		required["B2_BUCKET_NAME"] = AppConfig.B2BucketName
	} else if AppConfig.StorageBackend != "local" {
		log.Fatalf("STORAGE_BACKEND must be 'local' or 'b2', got %q", AppConfig.StorageBackend)
	}

	for key, value := range required {
		if value == "" {
			missingVars = append(missingVars, key)
		}
	}

	if len(missingVars) > 0 {
		log.Printf("Missing required environment variables: %v", missingVars)
		log.Fatal("Please set all required environment variables")
	}
}

func maskSecret(secret string) string {
	if secret == "" {
		return "[NOT SET]"
	}
	if len(secret) <= 8 {
		return "[HIDDEN]"
	}
	return secret[:4] + "***" + secret[len(secret)-4:]
}

func maskConnectionString(uri string) string {
	if uri == "" {
		return "[NOT SET]"
	}
	if strings.Contains(uri, "@") {
		parts := strings.Split(uri, "@")
		if len(parts) >= 2 {
			return "[CREDENTIALS_HIDDEN]@" + parts[len(parts)-1]
		}
	}
	return uri
}

func valueOrUnset(s string) string {
	if s == "" {
		return "[NOT SET]"
	}
	return s
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("Failed to parse int: %s", s)
	}
	return i
}

func parseInt64(s string) int64 {
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		log.Fatalf("Failed to parse int64: %s", s)
	}
	return i
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Fatalf("Failed to parse duration: %s", s)
	}
	return d
}

func parseStringSlice(s string) []string {
	if s == "" {
		return []string{}
	}

	parts := strings.Split(s, ",")
	var result []string
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func CreateContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}
