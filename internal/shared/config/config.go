package config

import (
	"os"
	"strconv"
	"strings"

	"resume-builder/internal/shared/telemetry"
	"resume-builder/resume/engine"
	"resume-builder/resume/keywords"
)

// Config holds application configuration.
type Config struct {
	Port               string
	CORSAllowOrigin    []string
	ObjectStoreType    string
	LocalStoreDir      string
	AWSRegion          string
	S3Bucket           string
	S3Prefix           string
	SSEKMSKeyID        string
	S3Endpoint         string
	DatabaseURL        string
	Env                string
	LogJSON            bool
	LogDebug           bool
	JWTSecret          string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	UIRedirectURL      string
	RateLimitRPS       float64
	RateLimitBurst     int
	MaxUploadBytes     int64
	Taxonomy           []string
	TaxonomyFile       string
	MaxSuggestions     int
	MatchMode          string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		telemetry.Warn("config.database_url_missing", map[string]any{"env": env})
	}

	return Config{
		Port:               getEnv("PORT", "8080"),
		CORSAllowOrigin:    splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		ObjectStoreType:    normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:      getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:          getEnv("AWS_REGION", ""),
		S3Bucket:           getEnv("S3_BUCKET", ""),
		S3Prefix:           getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:        getEnv("SSE_KMS_KEY_ID", ""),
		S3Endpoint:         getEnv("S3_ENDPOINT", ""),
		DatabaseURL:        dbURL,
		Env:                env,
		LogJSON:            getBool("LOG_JSON", env != "dev"),
		LogDebug:           getBool("LOG_DEBUG", false),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),
		UIRedirectURL:      getEnv("UI_REDIRECT_URL", ""),
		RateLimitRPS:       getFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:     getInt("RATE_LIMIT_BURST", 20),
		MaxUploadBytes:     int64(getInt("MAX_UPLOAD_BYTES", 5<<20)),
		Taxonomy:           splitAndTrim(getEnv("TAXONOMY", "")),
		TaxonomyFile:       getEnv("TAXONOMY_FILE", ""),
		MaxSuggestions:     getInt("MAX_SUGGESTIONS", 3),
		MatchMode:          getEnv("MATCH_MODE", string(keywords.MatchSubstring)),
	}
}

// EngineConfig builds the scoring engine options. TAXONOMY_FILE wins over
// TAXONOMY; with neither set the built-in taxonomy is used.
func (c Config) EngineConfig() (engine.Config, error) {
	mode, err := keywords.ParseMatchMode(c.MatchMode)
	if err != nil {
		return engine.Config{}, err
	}

	taxonomy := keywords.DefaultTaxonomy()
	switch {
	case strings.TrimSpace(c.TaxonomyFile) != "":
		taxonomy, err = LoadTaxonomyFile(c.TaxonomyFile)
		if err != nil {
			return engine.Config{}, err
		}
	case len(c.Taxonomy) > 0:
		taxonomy = keywords.NewTaxonomy(c.Taxonomy...)
	}

	return engine.Config{
		Taxonomy:       taxonomy,
		MaxSuggestions: c.MaxSuggestions,
		MatchMode:      mode,
	}, nil
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getInt(key string, def int) int { return getParsed(key, def, strconv.Atoi) }

func getFloat(key string, def float64) float64 {
	return getParsed(key, def, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

func getBool(key string, def bool) bool { return getParsed(key, def, strconv.ParseBool) }

// getParsed returns def when key is unset or fails to parse. Parse failures
// are logged.
func getParsed[T any](key string, def T, parse func(string) (T, error)) T {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		telemetry.Warn("config.invalid_value", map[string]any{"key": key, "value": raw, "default": def})
		return def
	}
	return v
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
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	if strings.EqualFold(strings.TrimSpace(raw), "s3") {
		return "s3"
	}
	return "local"
}
