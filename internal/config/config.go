package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by the application
const EnvPrefix = "ATSBUILDER"

// Config holds all application configuration
// Secret precedence order:
// 1. Vault (if configured)
// 2. Config file values
// 3. Environment variables (ATSBUILDER_AI_APIKEY, etc.)
// 4. Default values
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Analysis      AnalysisConfig      `mapstructure:"analysis"`
	AI            AIConfig            `mapstructure:"ai"`
	Server        ServerConfig        `mapstructure:"server"`
	Store         StoreConfig         `mapstructure:"store"`
	Blob          BlobConfig          `mapstructure:"blob"`
	Queue         QueueConfig         `mapstructure:"queue"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxFileSize      int64    `mapstructure:"maxFileSize"`
}

// AnalysisConfig tunes the segmenter, the JD extractor and the scorer
type AnalysisConfig struct {
	// SalienceWindow is the number of leading non-empty JD lines whose terms are primary
	SalienceWindow int `mapstructure:"salienceWindow"`
	// FrequencyThreshold promotes a term to primary once it occurs this many times
	FrequencyThreshold int `mapstructure:"frequencyThreshold"`
	// MinJobDescriptionLength is enforced on pasted JD text by the API layer
	MinJobDescriptionLength int           `mapstructure:"minJobDescriptionLength"`
	Weights                 WeightsConfig `mapstructure:"weights"`
	// NeutralScore is reported when a JD yields no extractable terms
	NeutralScore int `mapstructure:"neutralScore"`
	// VocabularyFile overrides the embedded skill vocabulary
	VocabularyFile string `mapstructure:"vocabularyFile"`
	// SectionsFile overrides the embedded section heading synonyms
	SectionsFile    string `mapstructure:"sectionsFile"`
	WatchVocabulary bool   `mapstructure:"watchVocabulary"`
}

// WeightsConfig holds per-term scoring weights
type WeightsConfig struct {
	Primary   float64 `mapstructure:"primary"`
	Secondary float64 `mapstructure:"secondary"`
	Hard      float64 `mapstructure:"hard"`
	Soft      float64 `mapstructure:"soft"`
}

// AIConfig holds AI service configuration
type AIConfig struct {
	Provider    string        `mapstructure:"provider"`
	Model       string        `mapstructure:"model"`
	Timeout     time.Duration `mapstructure:"timeout"`
	APIKey      string        `mapstructure:"apiKey"`
	MaxRetries  int           `mapstructure:"maxRetries"`
	Temperature float32       `mapstructure:"temperature"`
	// UseSystemPrompts sends instructions as a system instruction instead of inlining them
	UseSystemPrompts bool         `mapstructure:"useSystemPrompts"`
	CustomPrompts    PromptConfig `mapstructure:"customPrompts"`

	Rewrite OperationAIConfig `mapstructure:"rewrite"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // Max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`         // Interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`          // Timeout for half-open to open
	MinRequests      uint32        `mapstructure:"minRequests"`      // Minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failureThreshold"` // Failure ratio threshold (0.0-1.0)
}

// OperationAIConfig holds AI configuration for a specific operation
type OperationAIConfig struct {
	Provider         string               `mapstructure:"provider"`
	Model            string               `mapstructure:"model"`
	Timeout          *time.Duration       `mapstructure:"timeout"`
	APIKey           string               `mapstructure:"apiKey"`
	MaxRetries       *int                 `mapstructure:"maxRetries"`
	Temperature      *float32             `mapstructure:"temperature"`
	UseSystemPrompts *bool                `mapstructure:"useSystemPrompts"`
	CustomPrompts    PromptConfig         `mapstructure:"customPrompts"`
	CircuitBreaker   CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// PromptConfig holds inline prompt overrides or paths to files containing them
type PromptConfig struct {
	System     string `mapstructure:"system"`
	SystemFile string `mapstructure:"systemFile"`
	User       string `mapstructure:"user"`
	UserFile   string `mapstructure:"userFile"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout  time.Duration `mapstructure:"idleTimeout"`

	// MaxUploadSize bounds multipart resume uploads
	MaxUploadSize int64 `mapstructure:"maxUploadSize"`
	// AllowRemoteFetch enables fetching job descriptions by URL
	AllowRemoteFetch bool `mapstructure:"allowRemoteFetch"`

	APIKeys   []string        `mapstructure:"apiKeys"`
	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	RequestsPerMin int           `mapstructure:"requestsPerMin"`
	BurstCapacity  int           `mapstructure:"burstCapacity"`
	ByIP           bool          `mapstructure:"byIP"`
	ByAPIKey       bool          `mapstructure:"byAPIKey"`
	Window         time.Duration `mapstructure:"window"`
}

// StoreConfig selects where resumes, job descriptions and jobs are kept
type StoreConfig struct {
	Driver string        `mapstructure:"driver"` // "memory" or "redis"
	TTL    time.Duration `mapstructure:"ttl"`
	Redis  RedisConfig   `mapstructure:"redis"`
}

// RedisConfig holds redis connection settings shared by the store and the queue
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"keyPrefix"`
}

// BlobConfig selects where uploaded originals are archived
type BlobConfig struct {
	Driver string          `mapstructure:"driver"` // "none", "local" or "minio"
	Local  LocalBlobConfig `mapstructure:"local"`
	MinIO  MinIOConfig     `mapstructure:"minio"`
}

// LocalBlobConfig holds the filesystem archive settings
type LocalBlobConfig struct {
	Dir string `mapstructure:"dir"`
}

// MinIOConfig holds S3-compatible object storage settings
type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"accessKey"`
	SecretKey string `mapstructure:"secretKey"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"useSSL"`
}

// QueueConfig selects how optimization jobs are executed
type QueueConfig struct {
	Driver      string        `mapstructure:"driver"` // "local" or "asynq"
	Concurrency int           `mapstructure:"concurrency"`
	MaxRetry    int           `mapstructure:"maxRetry"`
	Timeout     time.Duration `mapstructure:"timeout"`
	QueueName   string        `mapstructure:"queueName"`
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled         bool                `mapstructure:"enabled"`
	ServiceName     string              `mapstructure:"serviceName"`
	ServiceVersion  string              `mapstructure:"serviceVersion"`
	ServiceInstance string              `mapstructure:"serviceInstance"`
	ConsoleOutput   bool                `mapstructure:"consoleOutput"`
	SampleRate      float64             `mapstructure:"sampleRate"`
	Tracing         TracingConfig       `mapstructure:"tracing"`
	Metrics         MetricsConfig       `mapstructure:"metrics"`
	CustomMetrics   CustomMetricsConfig `mapstructure:"customMetrics"`
	Console         ConsoleConfig       `mapstructure:"console"`
	Prometheus      PrometheusConfig    `mapstructure:"prometheus"`
	OTLP            OTLPConfig          `mapstructure:"otlp"`
}

// TracingConfig holds tracing configuration
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate float64 `mapstructure:"sampleRate"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

// ConsoleConfig holds console output configuration
type ConsoleConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	PrettyPrint bool `mapstructure:"prettyPrint"`
}

// CustomMetricsConfig holds fine-grained custom metrics configuration
type CustomMetricsConfig struct {
	AIOperations    AIOperationsMetricsConfig   `mapstructure:"aiOperations"`
	BusinessMetrics BusinessMetricsConfig       `mapstructure:"businessMetrics"`
	Infrastructure  InfrastructureMetricsConfig `mapstructure:"infrastructure"`
}

// AIOperationsMetricsConfig holds AI operation metrics configuration
type AIOperationsMetricsConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	TrackDuration   bool `mapstructure:"trackDuration"`
	TrackTokenUsage bool `mapstructure:"trackTokenUsage"`
}

// BusinessMetricsConfig holds business metrics configuration
type BusinessMetricsConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	TrackScores       bool `mapstructure:"trackScores"`
	TrackContentSizes bool `mapstructure:"trackContentSizes"`
}

// InfrastructureMetricsConfig holds infrastructure metrics configuration
type InfrastructureMetricsConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	TrackRateLimits bool `mapstructure:"trackRateLimits"`
	TrackJobs       bool `mapstructure:"trackJobs"`
}

// PrometheusConfig holds Prometheus configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// LoadConfig loads configuration from environment variables and a config file
func LoadConfig() (*Config, error) {
	return load(viper.New())
}

// LoadConfigFile loads configuration from an explicit file path
func LoadConfigFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	log.Println("[CONFIG] Starting configuration loading process")

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	log.Printf("[CONFIG] Configured environment variable handling with prefix '%s'", EnvPrefix)

	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/atsbuilder/")
		v.AddConfigPath("$HOME/.atsbuilder")
		v.AddConfigPath(".")
	}

	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Println("[CONFIG] No config file found, using defaults and environment variables")
	} else {
		configFileUsed = v.ConfigFileUsed()
		log.Printf("[CONFIG] Successfully loaded config file: %s", configFileUsed)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyFallbacks()
	config.logConfigurationSources(configFileUsed)

	if err := config.loadPromptsFromFiles(); err != nil {
		return nil, fmt.Errorf("failed to load custom prompts from files: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Println("[CONFIG] Configuration loading completed successfully")
	return &config, nil
}

// Default returns the configuration produced by defaults alone, without reading
// files or the environment
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		panic(fmt.Sprintf("default configuration does not unmarshal: %v", err))
	}
	return &config
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	validFormats := make(map[string]bool)
	for _, format := range c.App.SupportedFormats {
		validFormats[format] = true
	}
	if !validFormats[c.App.DefaultFormat] {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	if err := c.Analysis.Validate(); err != nil {
		return fmt.Errorf("analysis configuration error: %w", err)
	}

	if c.AI.Timeout <= 0 {
		return fmt.Errorf("AI timeout must be positive")
	}

	switch c.Store.Driver {
	case "memory":
	case "redis":
		if c.Store.Redis.Addr == "" {
			return fmt.Errorf("store.redis.addr is required for the redis store")
		}
	default:
		return fmt.Errorf("invalid store driver: %s (must be 'memory' or 'redis')", c.Store.Driver)
	}

	switch c.Blob.Driver {
	case "none":
	case "local":
		if c.Blob.Local.Dir == "" {
			return fmt.Errorf("blob.local.dir is required for the local blob store")
		}
	case "minio":
		if c.Blob.MinIO.Endpoint == "" || c.Blob.MinIO.Bucket == "" {
			return fmt.Errorf("blob.minio.endpoint and blob.minio.bucket are required for the minio blob store")
		}
	default:
		return fmt.Errorf("invalid blob driver: %s (must be 'none', 'local' or 'minio')", c.Blob.Driver)
	}

	switch c.Queue.Driver {
	case "local":
	case "asynq":
		if c.Store.Driver != "redis" {
			return fmt.Errorf("the asynq queue requires the redis store so workers can see job state")
		}
	default:
		return fmt.Errorf("invalid queue driver: %s (must be 'local' or 'asynq')", c.Queue.Driver)
	}
	if c.Queue.Concurrency <= 0 {
		return fmt.Errorf("queue concurrency must be positive")
	}

	return nil
}

// Validate checks that the analysis parameters are usable
func (a AnalysisConfig) Validate() error {
	if a.SalienceWindow < 0 {
		return fmt.Errorf("salienceWindow must not be negative")
	}
	if a.FrequencyThreshold < 1 {
		return fmt.Errorf("frequencyThreshold must be at least 1")
	}
	if a.NeutralScore < 0 || a.NeutralScore > 100 {
		return fmt.Errorf("neutralScore must be within [0, 100]")
	}
	w := a.Weights
	if w.Primary < 0 || w.Secondary < 0 || w.Hard < 0 || w.Soft < 0 {
		return fmt.Errorf("weights must not be negative")
	}
	if w.Primary < w.Secondary {
		return fmt.Errorf("primary weight (%v) must not be lower than secondary weight (%v)", w.Primary, w.Secondary)
	}
	if w.Hard < w.Soft {
		return fmt.Errorf("hard weight (%v) must not be lower than soft weight (%v)", w.Hard, w.Soft)
	}
	return nil
}
