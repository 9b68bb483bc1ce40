package config

import "time"

// Config is the top-level configuration.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Axiom      AxiomConfig      `yaml:"axiom"`
	Backend    BackendConfig    `yaml:"backend"`
	Breaker    BreakerConfig    `yaml:"breaker"`
	Server     ServerConfig     `yaml:"server"`
	Redis      RedisConfig      `yaml:"redis"`
	Storage    StorageConfig    `yaml:"storage"`
	Extraction ExtractionConfig `yaml:"extraction"`
}

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
	Level      string `yaml:"level"        env:"LOG_LEVEL"        env-default:"info"`
	Pretty     bool   `yaml:"pretty"       env:"LOG_PRETTY"`
	File       string `yaml:"file"         env:"LOG_FILE"         env-default:"logs/syllabusparser.log"`
	MaxSizeMB  int    `yaml:"max_size_mb"  env:"LOG_MAX_SIZE_MB"  env-default:"100"`
	MaxBackups int    `yaml:"max_backups"  env:"LOG_MAX_BACKUPS"  env-default:"10"`
	MaxAgeDays int    `yaml:"max_age_days" env:"LOG_MAX_AGE_DAYS" env-default:"30"`
	Compress   bool   `yaml:"compress"     env:"LOG_COMPRESS"     env-default:"true"`
}

// AxiomConfig holds Axiom logging configuration.
type AxiomConfig struct {
	Send          bool          `yaml:"send"           env:"SEND_LOGS_TO_AXIOM"`
	APIKey        string        `yaml:"api_key"        env:"AXIOM_API_KEY"`
	OrgID         string        `yaml:"org_id"         env:"AXIOM_ORG_ID"`
	Dataset       string        `yaml:"dataset"        env:"AXIOM_DATASET"        env-default:"dev"`
	FlushInterval time.Duration `yaml:"flush_interval" env:"AXIOM_FLUSH_INTERVAL" env-default:"10s"`
}

const (
	ProviderGateway   = "gateway"
	ProviderAnthropic = "anthropic"
	ProviderNone      = "none"
)

// BackendConfig selects the structured-output backend.
type BackendConfig struct {
	Provider        string        `yaml:"provider"          env:"AI_PROVIDER"          env-default:"gateway"`
	GatewayURL      string        `yaml:"gateway_url"       env:"AI_GATEWAY_URL"`
	Model           string        `yaml:"model"             env:"AI_MODEL"`
	APIKey          string        `yaml:"api_key"           env:"AI_API_KEY"`
	AnthropicAPIKey string        `yaml:"anthropic_api_key" env:"ANTHROPIC_API_KEY"`
	AnthropicModel  string        `yaml:"anthropic_model"   env:"ANTHROPIC_MODEL"`
	Timeout         time.Duration `yaml:"timeout"           env:"AI_TIMEOUT"           env-default:"60s"`
	MaxInputChars   int           `yaml:"max_input_chars"   env:"AI_MAX_INPUT_CHARS"   env-default:"50000"`
	StrictSchema    bool          `yaml:"strict_schema"     env:"AI_STRICT_SCHEMA"`
}

// BreakerConfig bounds the cooldown after rate-limit and quota responses.
type BreakerConfig struct {
	BaseBackoff time.Duration `yaml:"base_backoff" env:"BREAKER_BASE_BACKOFF" env-default:"30s"`
	MaxBackoff  time.Duration `yaml:"max_backoff"  env:"BREAKER_MAX_BACKOFF"  env-default:"5m"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"             env:"PORT"                    env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"30s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"120s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" env:"MAX_UPLOAD_BYTES"        env-default:"20971520"`
	MaxInflight     int           `yaml:"max_inflight"     env:"MAX_INFLIGHT_ANALYSES"   env-default:"4"`
}

// RedisConfig enables the Redis stores. An empty URL keeps everything in
// memory.
type RedisConfig struct {
	URL         string        `yaml:"url"          env:"REDIS_URL"`
	AnalysisTTL time.Duration `yaml:"analysis_ttl" env:"ANALYSIS_TTL" env-default:"24h"`
}

// StorageConfig enables the S3 archive when Bucket is set.
type StorageConfig struct {
	Bucket          string `yaml:"bucket"            env:"AWS_S3_BUCKET"`
	Region          string `yaml:"region"            env:"AWS_REGION"`
	Endpoint        string `yaml:"endpoint"          env:"AWS_ENDPOINT_URL"`
	AccessKeyID     string `yaml:"access_key_id"     env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"AWS_SECRET_ACCESS_KEY"`
	Passphrase      string `yaml:"passphrase"        env:"ARCHIVE_PASSPHRASE"`
}

type ExtractionConfig struct {
	PDFEngine string `yaml:"pdf_engine" env:"PDF_ENGINE" env-default:"fitz"`
}

// BackendKey returns the credential of the selected provider.
func (b BackendConfig) BackendKey() string {
	if b.Provider == ProviderAnthropic {
		return b.AnthropicAPIKey
	}
	return b.APIKey
}
