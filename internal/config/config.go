package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// Output backends
const (
	BackendLocal = "local"
	BackendAzure = "azure"
	BackendS3    = "s3"
)

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	ImageFetchTimeout  time.Duration
	EnhanceTimeout     time.Duration
	MaxRequestBodySize int64

	// Batch
	Workers    int
	InputPaths []string
	// AllowLocalPaths lets locations name files on this machine. The batch
	// CLI enables it; the HTTP server keeps it off unless ALLOW_LOCAL_PATHS is set.
	AllowLocalPaths bool

	Output OutputConfig
	Azure  AzureConfig
	S3     S3Config

	// Analysis
	Normalization string
	RealScaling   bool
}

// OutputConfig controls where and how enhanced images are written
type OutputConfig struct {
	Backend     string
	Dir         string
	Prefix      string
	Suffix      string
	Format      string
	JPEGQuality int
}

// AzureConfig holds shared-key credentials for blob input and output
type AzureConfig struct {
	AccountName string
	AccountKey  string
	Container   string
}

// Enabled reports whether credentials are present
func (a AzureConfig) Enabled() bool {
	return a.AccountName != "" && a.AccountKey != ""
}

// S3Config holds the S3 output target
type S3Config struct {
	Bucket string
	Region string
}

func (c *Config) ServerAddress() string {
	// Trim any whitespace from host and port
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

func LoadFromEnv() (*Config, error) {
	// Set defaults
	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "8080"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 60*time.Second),
		ImageFetchTimeout:  parseDurationOrDefault("IMAGE_FETCH_TIMEOUT", 15*time.Second),
		EnhanceTimeout:     parseDurationOrDefault("ENHANCE_TIMEOUT", 45*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 10*1024*1024), // 10MB
		Workers:            int(parseIntOrDefault("WORKERS", 1)),
		InputPaths:         splitList(os.Getenv("INPUT_PATHS")),
		AllowLocalPaths:    parseBoolOrDefault("ALLOW_LOCAL_PATHS", false),
		Output: OutputConfig{
			Backend:     strings.ToLower(getEnvOrDefault("OUTPUT_BACKEND", BackendLocal)),
			Dir:         getEnvOrDefault("OUTPUT_DIR", "output"),
			Prefix:      os.Getenv("OUTPUT_PREFIX"),
			Suffix:      getEnvOrDefault("OUTPUT_SUFFIX", "_enhanced"),
			Format:      strings.ToLower(getEnvOrDefault("OUTPUT_FORMAT", "jpg")),
			JPEGQuality: int(parseIntOrDefault("JPEG_QUALITY", 95)),
		},
		Azure: AzureConfig{
			AccountName: os.Getenv("AZURE_ACCOUNT_NAME"),
			AccountKey:  os.Getenv("AZURE_ACCOUNT_KEY"),
			Container:   os.Getenv("AZURE_CONTAINER"),
		},
		S3: S3Config{
			Bucket: os.Getenv("S3_BUCKET"),
			Region: getEnvOrDefault("S3_REGION", "us-east-1"),
		},
		Normalization: strings.ToLower(getEnvOrDefault("NORMALIZATION", "full")),
		RealScaling:   parseBoolOrDefault("REAL_SCALING", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and backend requirements
func (c *Config) Validate() error {
	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid PORT: %q", c.Port)
	}
	if c.MaxRequestBodySize <= 0 {
		return fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", c.MaxRequestBodySize)
	}
	if c.RequestTimeout <= 0 || c.ImageFetchTimeout <= 0 || c.EnhanceTimeout <= 0 {
		return fmt.Errorf("timeouts must be > 0 (got request=%s, fetch=%s, enhance=%s)",
			c.RequestTimeout, c.ImageFetchTimeout, c.EnhanceTimeout)
	}
	if c.Workers < 1 {
		return fmt.Errorf("WORKERS must be >= 1 (got %d)", c.Workers)
	}

	switch c.Output.Format {
	case "jpg", "jpeg", "png":
	default:
		return fmt.Errorf("unsupported OUTPUT_FORMAT: %q", c.Output.Format)
	}
	if c.Output.JPEGQuality < 1 || c.Output.JPEGQuality > 100 {
		return fmt.Errorf("JPEG_QUALITY must be within 1..100 (got %d)", c.Output.JPEGQuality)
	}

	switch c.Output.Backend {
	case BackendLocal:
	case BackendAzure:
		if !c.Azure.Enabled() || c.Azure.Container == "" {
			return fmt.Errorf("azure backend requires AZURE_ACCOUNT_NAME, AZURE_ACCOUNT_KEY and AZURE_CONTAINER")
		}
	case BackendS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("s3 backend requires S3_BUCKET")
		}
	default:
		return fmt.Errorf("unsupported OUTPUT_BACKEND: %q", c.Output.Backend)
	}

	if c.Normalization != "full" && c.Normalization != "interior" {
		return fmt.Errorf("NORMALIZATION must be full or interior (got %q)", c.Normalization)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}

// splitList splits a comma separated list, dropping empty entries
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
