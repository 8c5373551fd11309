package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Supported values of Config.Backend.
const (
	// BackendPostgres writes submissions straight into a Postgres database.
	BackendPostgres = "postgres"
	// BackendSupabase writes submissions through a hosted Supabase project.
	BackendSupabase = "supabase"
)

// Config represents the application configuration structure.
// It contains settings for the environment, HTTP server, the submission
// backends, notifications and graceful shutdown behavior.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`

	// Backend selects where submissions are stored: "postgres" or "supabase".
	Backend string `env:"BACKEND" env-default:"supabase" yaml:"backend"`

	// HTTP contains all HTTP server related configurations
	HTTP struct {
		// Addr is the address and port the HTTP server will listen on
		Addr string `env:"HTTP_ADDR" env-default:":8080" yaml:"addr"`
		// ReadTimeout is the maximum duration for reading the entire request, including the body
		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"1m" yaml:"readTimeout"`
		// ReadHeaderTimeout is the amount of time allowed to read request headers
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// WriteTimeout is the maximum duration before timing out writes of the response
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"2m" yaml:"writeTimeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
		IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// RequestTimeout is the maximum time allowed for processing a single request
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"10s" yaml:"requestTimeout"`
		// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header
		MaxHeaderBytes int `env:"HTTP_MAX_HEADER_BYTES" env-default:"0" yaml:"maxHeaderBytes"`
		// MaxBodyBytes caps the size of a submission request body
		MaxBodyBytes int64 `env:"HTTP_MAX_BODY_BYTES" env-default:"65536" yaml:"maxBodyBytes"`
		// MetricsPath defines the URL path where metrics are exposed
		MetricsPath string `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
		// AllowedOrigins lists the origins allowed by CORS; "*" allows any
		AllowedOrigins []string `env:"HTTP_ALLOWED_ORIGINS" env-default:"*" env-separator:"," yaml:"allowedOrigins"`
		// SubmitRate is the sustained number of submissions per second allowed per client IP
		SubmitRate float64 `env:"HTTP_SUBMIT_RATE" env-default:"0.2" yaml:"submitRate"`
		// SubmitBurst is the number of submissions a client IP may send at once
		SubmitBurst int `env:"HTTP_SUBMIT_BURST" env-default:"5" yaml:"submitBurst"`
		// TrustedProxies lists proxy IPs or CIDRs whose X-Forwarded-For and X-Real-IP headers are believed
		TrustedProxies []string `env:"HTTP_TRUSTED_PROXIES" env-separator:"," yaml:"trustedProxies"`
	} `yaml:"http"`

	// Database contains all database connection related configurations
	Database struct {
		// Username for database authentication
		Username string `env:"DATABASE_USERNAME" env-default:"myuser" yaml:"username"`
		// Password for database authentication
		Password string `env:"DATABASE_PASSWORD" env-default:"mypassword" yaml:"password"`
		// Host is the database server hostname or IP address
		Host string `env:"DATABASE_HOST" env-default:"localhost" yaml:"host"`
		// Port is the database server port number
		Port int `env:"DATABASE_PORT" env-default:"5432" yaml:"port"`
		// SslMode defines the SSL mode for the database connection
		SslMode string `env:"DATABASE_SSL_MODE" env-default:"disable" yaml:"sslMode"`
		// DatabaseName is the name of the database to connect to
		DatabaseName string `env:"DATABASE_NAME" env-default:"ipms" yaml:"name"`
		// MaxOpenConnections limits the number of open connections to the database
		MaxOpenConnections int `env:"DATABASE_MAX_OPEN_CONNECTIONS" env-default:"10" yaml:"maxOpenConnections"`
		// MaxIdleConnections limits the number of connections in the idle connection pool
		MaxIdleConnections int `env:"DATABASE_MAX_IDLE_CONNECTIONS" env-default:"2" yaml:"maxIdleConnections"`
		// ConnMaxLifetime is the maximum amount of time a connection may be reused
		ConnMaxLifetime time.Duration `env:"DATABASE_CONNECTION_MAX_LIFETIME" env-default:"3m" yaml:"connMaxLifetime"`
		// ConnMaxIdleTime is the maximum amount of time a connection may be idle
		ConnMaxIdleTime time.Duration `env:"DATABASE_CONNECTION_MAX_IDLE_TIME" env-default:"3m" yaml:"connMaxIdleTime"`
	} `yaml:"database"`

	// Supabase configures the hosted datastore client.
	Supabase struct {
		// URL is the project URL
		URL string `env:"SUPABASE_URL" yaml:"url"`
		// APIKey is the project's public (anon) key, used for inserts
		APIKey string `env:"SUPABASE_ANON_KEY" yaml:"apiKey"`
		// ServiceKey, when set, is used for reads (listing submissions)
		ServiceKey string `env:"SUPABASE_SERVICE_KEY" yaml:"serviceKey"`
		// Table is the table submissions are written to
		Table string `env:"SUPABASE_TABLE" env-default:"contact_submissions" yaml:"table"`
		// Schema selects a non-default schema; empty uses the project default
		Schema string `env:"SUPABASE_SCHEMA" yaml:"schema"`
		// ReturnRepresentation asks the backend to echo inserted rows
		ReturnRepresentation bool `env:"SUPABASE_RETURN_REPRESENTATION" env-default:"false" yaml:"returnRepresentation"`
		// Timeout bounds a single request to the project
		Timeout time.Duration `env:"SUPABASE_TIMEOUT" env-default:"10s" yaml:"timeout"`
	} `yaml:"supabase"`

	// Contact configures the contact form rules.
	Contact struct {
		// MaxMessageLength is the maximum number of characters of a message
		MaxMessageLength int `env:"CONTACT_MAX_MESSAGE_LENGTH" env-default:"2000" yaml:"maxMessageLength"`
		// Notify enqueues a notification job per submission (postgres backend only)
		Notify bool `env:"CONTACT_NOTIFY" env-default:"false" yaml:"notify"`
	} `yaml:"contact"`

	// Content configures the landing content document.
	Content struct {
		// Path to a JSON content document; empty serves the embedded default
		Path string `env:"CONTENT_PATH" yaml:"path"`
	} `yaml:"content"`

	// Worker configures background notification jobs.
	Worker struct {
		// MaxWorkers is the number of concurrent notification jobs
		MaxWorkers int `env:"WORKER_MAX_WORKERS" env-default:"10" yaml:"maxWorkers"`
		// MaxAttempts is the number of delivery attempts per notification
		MaxAttempts int `env:"WORKER_MAX_ATTEMPTS" env-default:"5" yaml:"maxAttempts"`
		// WebhookURL receives a JSON POST per submission; empty disables delivery
		WebhookURL string `env:"WORKER_WEBHOOK_URL" yaml:"webhookURL"`
		// WebhookRate is the maximum number of webhook calls per second
		WebhookRate float64 `env:"WORKER_WEBHOOK_RATE" env-default:"1" yaml:"webhookRate"`
		// WebhookTimeout bounds a single webhook call
		WebhookTimeout time.Duration `env:"WORKER_WEBHOOK_TIMEOUT" env-default:"10s" yaml:"webhookTimeout"`
	} `yaml:"worker"`

	// Tracing configures OpenTelemetry tracing.
	Tracing struct {
		// SampleRatio is the fraction of new traces that are recorded, between 0 and 1
		SampleRatio float64 `env:"TRACING_SAMPLE_RATIO" env-default:"1" yaml:"sampleRatio"`
	} `yaml:"tracing"`

	// JWT configures admin authentication.
	JWT struct {
		// PublicKey is the PEM encoded RSA public key used to verify admin tokens
		PublicKey string `env:"JWT_PUBLIC_KEY" yaml:"publicKey"`
		// PrivateKey is the PEM encoded RSA private key used by the jwt command
		PrivateKey string `env:"JWT_PRIVATE_KEY" yaml:"privateKey"`
	} `yaml:"jwt"`

	// GracefulShutdownTimeout is the maximum duration to wait for ongoing requests to complete during shutdown
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Validate checks settings that cannot be expressed as defaults.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendPostgres:
	case BackendSupabase:
		if c.Supabase.URL == "" || c.Supabase.APIKey == "" {
			return errors.New("supabase backend requires SUPABASE_URL and SUPABASE_ANON_KEY")
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return errors.New("tracing sample ratio must be between 0 and 1")
	}
	if c.Contact.MaxMessageLength <= 0 {
		return errors.New("contact max message length must be positive")
	}

	return nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing files
// are ignored.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("could not load %s: %w", f, err)
		}
	}

	return nil
}

// Load receives the path for yaml config file and returns a filled Config
// struct. A missing file is not an error: defaults and environment variables
// are used instead.
func Load(configPath string) (*Config, error) {
	var cfg Config
	err := cleanenv.ReadConfig(configPath, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return &cfg, nil
}
