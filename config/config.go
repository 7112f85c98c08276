package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// UploadFailurePolicy decides whether a failed upload is shown to the user
type UploadFailurePolicy string

const (
	// PolicySilent swallows upload failures; nothing is shown to the user
	PolicySilent UploadFailurePolicy = "silent"
	// PolicySurface sets the workflow error message on upload failure
	PolicySurface UploadFailurePolicy = "surface"
)

// ParseUploadFailurePolicy validates a policy name; empty means silent
func ParseUploadFailurePolicy(s string) (UploadFailurePolicy, error) {
	switch UploadFailurePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicySilent:
		return PolicySilent, nil
	case PolicySurface:
		return PolicySurface, nil
	default:
		return "", fmt.Errorf("unknown upload failure policy %q (want %q or %q)", s, PolicySilent, PolicySurface)
	}
}

// S3Config contains minimal configuration for the S3-backed exporter.
// Values are optional and fall back to the standard AWS config/credential chain.
type S3Config struct {
	Bucket       string
	Prefix       string
	Region       string
	Profile      string
	UsePathStyle bool
	PresignTTL   time.Duration
}

// RedisConfig configures the receiver's upload store
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KafkaConfig configures upload event publishing and consumption
type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// Enabled reports whether any broker is configured
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// Config is the full runtime configuration
type Config struct {
	UploadURL     string
	UploadToken   string
	FollowUpURL   string
	TitlePrefix   string
	ExportFormat  string
	FailurePolicy UploadFailurePolicy
	ExportTimeout time.Duration
	UploadTimeout time.Duration

	APIPort      string
	ReceiverPort string
	LogLevel     string

	S3    S3Config
	Redis RedisConfig
	Kafka KafkaConfig
}

// Load reads .env (if present) and the environment into a Config
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	policy, err := ParseUploadFailurePolicy(os.Getenv("UPLOAD_FAILURE_POLICY"))
	if err != nil {
		return nil, err
	}

	exportTimeout, err := getEnvDuration("EXPORT_TIMEOUT", 0)
	if err != nil {
		return nil, err
	}
	uploadTimeout, err := getEnvDuration("UPLOAD_TIMEOUT", 0)
	if err != nil {
		return nil, err
	}
	presignTTL, err := getEnvDuration("PRESIGN_TTL", DefaultPresignTTL)
	if err != nil {
		return nil, err
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		redisDB, err = strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB %q: %w", v, err)
		}
	}

	cfg := &Config{
		UploadURL:     getEnvOrDefault("UPLOAD_URL", DefaultUploadURL),
		UploadToken:   os.Getenv("UPLOAD_TOKEN"),
		FollowUpURL:   getEnvOrDefault("FOLLOWUP_URL", DefaultFollowUpURL),
		TitlePrefix:   getEnvOrDefault("TITLE_PREFIX", DefaultTitlePrefix),
		ExportFormat:  strings.ToLower(getEnvOrDefault("EXPORT_FORMAT", DefaultExportFormat)),
		FailurePolicy: policy,
		ExportTimeout: exportTimeout,
		UploadTimeout: uploadTimeout,
		APIPort:       getEnvOrDefault("API_PORT", DefaultAPIPort),
		ReceiverPort:  getEnvOrDefault("RECEIVER_PORT", DefaultReceiverPort),
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
		S3: S3Config{
			Bucket:       strings.TrimSpace(os.Getenv("S3_BUCKET")),
			Prefix:       strings.TrimSpace(os.Getenv("S3_PREFIX")),
			Region:       strings.TrimSpace(os.Getenv("S3_REGION")),
			Profile:      strings.TrimSpace(os.Getenv("S3_PROFILE")),
			UsePathStyle: strings.EqualFold(os.Getenv("S3_USE_PATH_STYLE"), "true"),
			PresignTTL:   presignTTL,
		},
		Redis: RedisConfig{
			Addr:     getEnvOrDefault("REDIS_ADDR", DefaultRedisAddr),
			Password: os.Getenv("REDIS_PASS"),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BOOTSTRAP_SERVERS")),
			Topic:   getEnvOrDefault("KAFKA_TOPIC_UPLOADS", DefaultKafkaTopic),
			GroupID: getEnvOrDefault("KAFKA_CONSUMER_GROUP_ID", DefaultKafkaGroupID),
		},
	}

	return cfg, nil
}

// Validate checks the settings needed by the workflow itself
func (c *Config) Validate() error {
	if c.UploadURL == "" {
		return fmt.Errorf("upload URL is required")
	}
	if c.FollowUpURL == "" {
		return fmt.Errorf("follow-up URL is required")
	}
	if c.ExportFormat == "" {
		return fmt.Errorf("export format is required")
	}
	if c.ExportTimeout < 0 || c.UploadTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	return nil
}

// ValidateWorkflow checks the settings needed to upload, including the bearer token
func (c *Config) ValidateWorkflow() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.UploadToken) == "" {
		return fmt.Errorf("upload token is required (set UPLOAD_TOKEN or --token)")
	}
	return nil
}

// SetupLogging applies the configured log level to logrus
func (c *Config) SetupLogging() {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		logrus.WithError(err).Warnf("Invalid LOG_LEVEL %q, using info", c.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// getEnvOrDefault returns the value of an environment variable or a default value
func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvDuration parses a Go duration ("30s") or whole seconds ("30")
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultVal, nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
