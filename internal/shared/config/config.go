package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const defaultUploadMaxBytes = 10 << 20 // 10MB

// Config holds application configuration.
type Config struct {
	Port               string
	CORSAllowOrigin    []string
	ObjectStoreType    string
	UploadDir          string
	UploadMaxBytes     int64
	AWSRegion          string
	S3Bucket           string
	S3Prefix           string
	SSEKMSKeyID        string
	ExtractionStrategy string
	OpenAIAPIKey       string
	LLMModel           string
	LLMTemperature     float32
	LLMMaxTokens       int
	DatabaseURL        string
	Env                string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	apiKey := os.Getenv("OPENAI_API_KEY")

	return Config{
		Port:               getEnv("PORT", "5000"),
		CORSAllowOrigin:    splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "*")),
		ObjectStoreType:    normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		UploadDir:          getEnv("UPLOAD_DIR", filepath.Join(os.TempDir(), "cv-uploads")),
		UploadMaxBytes:     getEnvInt64("UPLOAD_MAX_BYTES", defaultUploadMaxBytes),
		AWSRegion:          getEnv("AWS_REGION", ""),
		S3Bucket:           getEnv("S3_BUCKET", ""),
		S3Prefix:           getEnv("S3_PREFIX", "uploads/"),
		SSEKMSKeyID:        getEnv("SSE_KMS_KEY_ID", ""),
		ExtractionStrategy: NormalizeStrategy(getEnv("EXTRACTION_STRATEGY", ""), apiKey),
		OpenAIAPIKey:       apiKey,
		LLMModel:           getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMTemperature:     getEnvFloat32("LLM_TEMPERATURE", 0.2),
		LLMMaxTokens:       int(getEnvInt64("LLM_MAX_TOKENS", 1500)),
		DatabaseURL:        dbURL,
		Env:                env,
	}
}

// NormalizeStrategy resolves the field extraction strategy name.
// An empty value picks "llm" when an API key is available and "pattern" otherwise.
func NormalizeStrategy(raw, apiKey string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "llm", "openai", "delegated":
		return "llm"
	case "pattern", "regex":
		return "pattern"
	}
	if strings.TrimSpace(apiKey) != "" {
		return "llm"
	}
	return "pattern"
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || val <= 0 {
		log.Printf("config %s invalid int %q, using %d", key, raw, def)
		return def
	}
	return val
}

func getEnvFloat32(key string, def float32) float32 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseFloat(raw, 32)
	if err != nil || val < 0 {
		log.Printf("config %s invalid float %q, using %v", key, raw, def)
		return def
	}
	return float32(val)
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
