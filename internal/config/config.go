package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Scrubber ScrubberConfig
	Storage  StorageConfig
	Lock     LockConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	AuditLogFilePath   string
	LogLevel           string
	CorsAllowedOrigins string
	JwtSecret          string
	NatsURL            string
	RedisURL           string
}

func (a AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

type DatabaseConfig struct {
	// Connection is a postgres DSN. Empty selects the in-memory store.
	Connection string
}

// ProviderCredentials holds one reasoning backend's settings.
type ProviderCredentials struct {
	APIKey  string
	BaseURL string
	Model   string
}

type AIConfig struct {
	ActiveLLM           string
	DeepSeek            ProviderCredentials
	OpenAI              ProviderCredentials
	Gemini              ProviderCredentials
	HuggingFace         ProviderCredentials
	Ollama              ProviderCredentials
	Timeout             time.Duration
	Temperature         *float64
	MaxTokens           int
	PromptOverridesPath string
}

// Active returns the credentials for ActiveLLM.
func (a AIConfig) Active() ProviderCredentials {
	switch strings.ToLower(a.ActiveLLM) {
	case "openai":
		return a.OpenAI
	case "gemini":
		return a.Gemini
	case "huggingface":
		return a.HuggingFace
	case "ollama":
		return a.Ollama
	default:
		return a.DeepSeek
	}
}

type ScrubberConfig struct {
	Enabled   bool
	BaseURL   string
	Model     string
	Timeout   time.Duration
	CacheSize int
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Enabled reports whether finalized encounters should be archived.
func (s StorageConfig) Enabled() bool {
	return s.Endpoint != "" && s.Bucket != ""
}

type LockConfig struct {
	Backend string // "local" or "redis"
	TTL     time.Duration
}

// lockWriteMargin covers the store transaction and lock round trips that follow
// the provider calls of a turn.
const lockWriteMargin = 30 * time.Second

// MinLockTTL is the longest a completing turn can hold its encounter lock: one
// scrub, the interview call and the summary call, then the write.
func MinLockTTL(scrubTimeout, llmTimeout time.Duration) time.Duration {
	return scrubTimeout + 2*llmTimeout + lockWriteMargin
}

type TracingConfig struct {
	Enabled  bool
	Endpoint string
}

// Load reads configuration from the environment. LOCK_TTL is raised to
// MinLockTTL when unset or shorter.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	cfg := &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			AuditLogFilePath:   getEnv("AUDIT_LOG_FILE_PATH", "logs/sanitizer_audit.log"),
			LogLevel:           getEnv("LOG_LEVEL", "info"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			JwtSecret:          getEnv("JWT_SECRET", ""),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			ActiveLLM: strings.ToLower(getEnv("ACTIVE_LLM", "deepseek")),
			DeepSeek: ProviderCredentials{
				APIKey:  getEnv("DEEPSEEK_API_KEY", ""),
				BaseURL: getEnv("DEEPSEEK_BASE_URL", ""),
				Model:   getEnv("DEEPSEEK_MODEL", "deepseek-chat"),
			},
			OpenAI: ProviderCredentials{
				APIKey:  getEnv("OPENAI_API_KEY", ""),
				BaseURL: getEnv("OPENAI_BASE_URL", ""),
				Model:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			},
			Gemini: ProviderCredentials{
				APIKey:  getEnv("GEMINI_API_KEY", ""),
				BaseURL: getEnv("GEMINI_BASE_URL", ""),
				Model:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			},
			HuggingFace: ProviderCredentials{
				APIKey: getEnv("HUGGINGFACE_API_KEY", ""),
				Model:  getEnv("HUGGINGFACE_MODEL", ""),
			},
			Ollama: ProviderCredentials{
				BaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
				Model:   getEnv("OLLAMA_MODEL", "llama3"),
			},
			Timeout:             getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
			Temperature:         getEnvAsFloatPtr("LLM_TEMPERATURE"),
			MaxTokens:           getEnvAsInt("LLM_MAX_TOKENS", 1024),
			PromptOverridesPath: getEnv("PROMPT_OVERRIDES_PATH", ""),
		},
		Scrubber: ScrubberConfig{
			Enabled:   getEnvAsBool("SCRUBBER_ENABLED", true),
			BaseURL:   getEnv("SCRUBBER_BASE_URL", "http://localhost:11434"),
			Model:     getEnv("SCRUBBER_MODEL", "llama3"),
			Timeout:   getEnvAsDuration("SCRUBBER_TIMEOUT", 10*time.Second),
			CacheSize: getEnvAsInt("SCRUBBER_CACHE_SIZE", 256),
		},
		Storage: StorageConfig{
			Endpoint:  getEnv("ARCHIVE_ENDPOINT", ""),
			AccessKey: getEnv("ARCHIVE_ACCESS_KEY", ""),
			SecretKey: getEnv("ARCHIVE_SECRET_KEY", ""),
			Bucket:    getEnv("ARCHIVE_BUCKET", "triage-archive"),
			UseSSL:    getEnvAsBool("ARCHIVE_USE_SSL", false),
		},
		Lock: LockConfig{
			Backend: strings.ToLower(getEnv("LOCK_BACKEND", "local")),
			TTL:     getEnvAsDuration("LOCK_TTL", 0),
		},
		Tracing: TracingConfig{
			Enabled:  getEnvAsBool("OTEL_ENABLED", false),
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
	}

	if floor := MinLockTTL(cfg.Scrubber.Timeout, cfg.Ai.Timeout); cfg.Lock.TTL < floor {
		cfg.Lock.TTL = floor
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("30s") or a bare number of seconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	if secs, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

// getEnvAsFloatPtr returns nil when key is unset or unparsable so callers
// can tell "not configured" from zero.
func getEnvAsFloatPtr(key string) *float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return &value
	}
	return nil
}
