package config

import (
	"os"
	"strconv"
	"strings"
)

// Storage strategies for document payloads.
const (
	// StrategyDatabase keeps the payload inside the document row (bytea).
	StrategyDatabase = "database"
	// StrategyObject keeps the payload in S3-compatible object storage and
	// only the object key inside the row.
	StrategyObject = "object"
)

// baseRegions is the default closed set of region codes accepted on document
// ingest. Exam-specific variants ("EXAM-<code>") are derived from it. The
// whole set can be replaced via the ALLOWED_REGIONS env var; it is
// configuration data, not logic.
var baseRegions = []string{
	"AC", "AL", "AM", "AP", "BA", "CE", "DF", "ES", "GO",
	"MA", "MG", "MS", "MT", "PA", "PB", "PE", "PI", "PR",
	"RJ", "RN", "RO", "RR", "RS", "SC", "SE", "SP", "TO",
}

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings. Only consulted when the
// document storage strategy is "object".
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// AuthConfig holds credential verification and token settings.
// AdminLogins is the allow-list for the restricted management endpoints.
// SeedLogin/SeedPassword, when both set, create an initial account at
// migration time if the accounts table is empty.
type AuthConfig struct {
	JWTSecret    string
	TokenTTLMin  int
	AdminLogins  []string
	SeedLogin    string
	SeedPassword string
	SeedRole     string
}

// DocumentConfig holds ingest limits and the payload storage strategy.
type DocumentConfig struct {
	MaxUploadBytes int64
	MaxRecordBytes int64
	Strategy       string
	AllowedRegions []string
}

// AppConfig is the centralized configuration struct for the application,
// populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string
	Port     string
	Database DatabaseConfig
	MinIO    MinIOConfig
	Auth     AuthConfig
	Document DocumentConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// Real environment variables take precedence over the .env file.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Auth: AuthConfig{
			JWTSecret:    getEnv("AUTH_JWT_SECRET", ""),
			TokenTTLMin:  getEnvInt("AUTH_TOKEN_TTL_MIN", 720),
			AdminLogins:  getEnvList("AUTH_ADMIN_LOGINS", nil),
			SeedLogin:    getEnv("AUTH_SEED_LOGIN", ""),
			SeedPassword: getEnv("AUTH_SEED_PASSWORD", ""),
			SeedRole:     getEnv("AUTH_SEED_ROLE", "admin"),
		},
		Document: DocumentConfig{
			MaxUploadBytes: int64(getEnvInt("DOC_MAX_UPLOAD_BYTES", 10<<20)),
			MaxRecordBytes: int64(getEnvInt("DOC_MAX_RECORD_BYTES", 16<<20)),
			Strategy:       getEnv("DOC_STORAGE_STRATEGY", StrategyDatabase),
			AllowedRegions: getEnvList("ALLOWED_REGIONS", defaultRegions()),
		},
	}
}

// defaultRegions returns the base region codes plus their exam variants.
func defaultRegions() []string {
	out := make([]string, 0, len(baseRegions)*2)
	for _, r := range baseRegions {
		out = append(out, r)
	}
	for _, r := range baseRegions {
		out = append(out, "EXAM-"+r)
	}
	return out
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

// getEnvList parses a comma-separated env var, trimming whitespace and
// dropping empty items.
func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
