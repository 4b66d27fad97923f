package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata" // business dates must resolve on slim images

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Storage   StorageConfig
	WhatsApp  WhatsAppConfig
	Backup    BackupConfig
	Closing   ClosingConfig
	Printing  PrintingConfig
	Scheduler SchedulerConfig
	Swagger   SwaggerConfig
	Metrics   MetricsConfig
	Telemetry TelemetryConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name        string
	Env         string
	Port        string
	Timezone    string  // IANA zone used for business dates
	Currency    string  // ISO currency code for money values
	CountryCode string  // dialing code prefixed to local phone numbers
	TaxRate     float64 // default sales tax percentage, 0 disables tax
}

// Location resolves the configured timezone, falling back to UTC
func (a AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings. When disabled the in-memory
// stores are used instead.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret                 string
	RefreshSecret          string
	AccessTokenExpiration  time.Duration
	RefreshTokenExpiration time.Duration
	Issuer                 string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	RequestTimeout    time.Duration
	MaxHeaderBytes    int
	MaxBodySize       int64
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
	CORSAllowOrigins  []string
	CORSAllowMethods  []string
	CORSAllowHeaders  []string
	TrustedProxies    []string
}

// StorageConfig selects where backup files are written. Driver is the
// primary store; CloudDriver is the optional second copy used when a
// shop's settings ask for cloud backups.
type StorageConfig struct {
	Driver      string // local, s3, minio
	CloudDriver string // "", s3, minio
	LocalDir    string
	S3          S3Config
	MinIO       MinIOConfig
}

// S3Config holds AWS S3 (or compatible) settings
type S3Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	Prefix          string
}

// MinIOConfig holds MinIO settings
type MinIOConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
	Prefix          string
}

// WhatsAppConfig holds messaging settings
type WhatsAppConfig struct {
	DefaultHost          string
	HTTPTimeout          time.Duration
	PollLookback         time.Duration
	ChatCacheTTL         time.Duration
	ChatHistoryLimit     int
	QueueInterval        time.Duration
	QueueBatchSize       int
	SendGap              time.Duration
	NotificationsEnabled bool
	ThankYouTemplate     string
	TemplatesFile        string
	WebhookToken         string
}

// BackupConfig holds backup engine settings
type BackupConfig struct {
	StaleAfter     time.Duration // no successful backup for this long is a warning
	CheckInterval  time.Duration
	RestoreEnabled bool
}

// ClosingConfig holds daily closing settings
type ClosingConfig struct {
	MaxAttempts int
	Lockout     time.Duration
}

// PrintingConfig holds receipt rendering settings
type PrintingConfig struct {
	PDFEnabled     bool
	RenderTimeout  time.Duration
	ChromeExecPath string
	ShopName       string
	ShopAddress    string
	ShopPhone      string
	ReceiptFooter  string
}

// SchedulerConfig holds background worker configuration
type SchedulerConfig struct {
	Enabled           bool
	MaxConcurrentJobs int
	JobTimeout        time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration
}

// SwaggerConfig holds Swagger documentation endpoint configuration
type SwaggerConfig struct {
	Enabled    bool
	AllowedIPs []string // IPs or CIDRs; empty allows everyone
}

// MetricsConfig holds the Prometheus endpoint configuration
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool    // Whether to enable OpenTelemetry
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string  // Service name for traces
	Insecure          bool    // Use insecure (non-TLS) connection (development only)
	LogsEnabled       bool    // Export zap logs over OTLP
	MetricsEnabled    bool    // Export business metrics over OTLP
	// Database tracing options
	DBTraceEnabled    bool
	DBLogFullSQL      bool
	DBSlowQueryThresh time.Duration
	// Continuous profiling
	ProfilingEnabled  bool
	PyroscopeEndpoint string
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with POS_ prefix (e.g., POS_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/lats")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("POS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Boolean switches that are on unless turned off
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("metrics.enabled", true)

	cfg := &Config{
		App: AppConfig{
			Name:        v.GetString("app.name"),
			Env:         v.GetString("app.env"),
			Port:        v.GetString("app.port"),
			Timezone:    v.GetString("app.timezone"),
			Currency:    v.GetString("app.currency"),
			CountryCode: v.GetString("app.country_code"),
			TaxRate:     v.GetFloat64("app.tax_rate"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:                 v.GetString("jwt.secret"),
			RefreshSecret:          v.GetString("jwt.refresh_secret"),
			AccessTokenExpiration:  v.GetDuration("jwt.access_token_expiration"),
			RefreshTokenExpiration: v.GetDuration("jwt.refresh_token_expiration"),
			Issuer:                 v.GetString("jwt.issuer"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:       v.GetDuration("http.read_timeout"),
			WriteTimeout:      v.GetDuration("http.write_timeout"),
			IdleTimeout:       v.GetDuration("http.idle_timeout"),
			RequestTimeout:    v.GetDuration("http.request_timeout"),
			MaxHeaderBytes:    v.GetInt("http.max_header_bytes"),
			MaxBodySize:       v.GetInt64("http.max_body_size"),
			RateLimitEnabled:  v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests: v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:   v.GetDuration("http.rate_limit_window"),
			CORSAllowOrigins:  v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:  v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:  v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:    v.GetStringSlice("http.trusted_proxies"),
		},
		Storage: StorageConfig{
			Driver:      v.GetString("storage.driver"),
			CloudDriver: v.GetString("storage.cloud_driver"),
			LocalDir:    v.GetString("storage.local_dir"),
			S3: S3Config{
				Endpoint:        v.GetString("storage.s3.endpoint"),
				Region:          v.GetString("storage.s3.region"),
				Bucket:          v.GetString("storage.s3.bucket"),
				AccessKeyID:     v.GetString("storage.s3.access_key_id"),
				SecretAccessKey: v.GetString("storage.s3.secret_access_key"),
				UsePathStyle:    v.GetBool("storage.s3.use_path_style"),
				Prefix:          v.GetString("storage.s3.prefix"),
			},
			MinIO: MinIOConfig{
				Endpoint:        v.GetString("storage.minio.endpoint"),
				AccessKeyID:     v.GetString("storage.minio.access_key_id"),
				SecretAccessKey: v.GetString("storage.minio.secret_access_key"),
				Bucket:          v.GetString("storage.minio.bucket"),
				UseSSL:          v.GetBool("storage.minio.use_ssl"),
				Prefix:          v.GetString("storage.minio.prefix"),
			},
		},
		WhatsApp: WhatsAppConfig{
			DefaultHost:          v.GetString("whatsapp.default_host"),
			HTTPTimeout:          v.GetDuration("whatsapp.http_timeout"),
			PollLookback:         v.GetDuration("whatsapp.poll_lookback"),
			ChatCacheTTL:         v.GetDuration("whatsapp.chat_cache_ttl"),
			ChatHistoryLimit:     v.GetInt("whatsapp.chat_history_limit"),
			QueueInterval:        v.GetDuration("whatsapp.queue_interval"),
			QueueBatchSize:       v.GetInt("whatsapp.queue_batch_size"),
			SendGap:              v.GetDuration("whatsapp.send_gap"),
			NotificationsEnabled: v.GetBool("whatsapp.notifications_enabled"),
			ThankYouTemplate:     v.GetString("whatsapp.thank_you_template"),
			TemplatesFile:        v.GetString("whatsapp.templates_file"),
			WebhookToken:         v.GetString("whatsapp.webhook_token"),
		},
		Backup: BackupConfig{
			StaleAfter:     v.GetDuration("backup.stale_after"),
			CheckInterval:  v.GetDuration("backup.check_interval"),
			RestoreEnabled: v.GetBool("backup.restore_enabled"),
		},
		Closing: ClosingConfig{
			MaxAttempts: v.GetInt("closing.max_attempts"),
			Lockout:     v.GetDuration("closing.lockout"),
		},
		Printing: PrintingConfig{
			PDFEnabled:     v.GetBool("printing.pdf_enabled"),
			RenderTimeout:  v.GetDuration("printing.render_timeout"),
			ChromeExecPath: v.GetString("printing.chrome_exec_path"),
			ShopName:       v.GetString("printing.shop_name"),
			ShopAddress:    v.GetString("printing.shop_address"),
			ShopPhone:      v.GetString("printing.shop_phone"),
			ReceiptFooter:  v.GetString("printing.receipt_footer"),
		},
		Scheduler: SchedulerConfig{
			Enabled:           v.GetBool("scheduler.enabled"),
			MaxConcurrentJobs: v.GetInt("scheduler.max_concurrent_jobs"),
			JobTimeout:        v.GetDuration("scheduler.job_timeout"),
			RetryAttempts:     v.GetInt("scheduler.retry_attempts"),
			RetryDelay:        v.GetDuration("scheduler.retry_delay"),
		},
		Swagger: SwaggerConfig{
			Enabled:    v.GetBool("swagger.enabled"),
			AllowedIPs: v.GetStringSlice("swagger.allowed_ips"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("metrics.enabled"),
			Path:    v.GetString("metrics.path"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			DBLogFullSQL:      v.GetBool("telemetry.db_log_full_sql"),
			DBSlowQueryThresh: v.GetDuration("telemetry.db_slow_query_threshold"),
			ProfilingEnabled:  v.GetBool("telemetry.profiling_enabled"),
			PyroscopeEndpoint: v.GetString("telemetry.pyroscope_endpoint"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "lats-pos"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.App.Timezone == "" {
		cfg.App.Timezone = "Africa/Dar_es_Salaam"
	}
	if cfg.App.Currency == "" {
		cfg.App.Currency = "TZS"
	}
	if cfg.App.CountryCode == "" {
		cfg.App.CountryCode = "255"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "lats"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.JWT.AccessTokenExpiration == 0 {
		cfg.JWT.AccessTokenExpiration = 15 * time.Minute
	}
	if cfg.JWT.RefreshTokenExpiration == 0 {
		cfg.JWT.RefreshTokenExpiration = 168 * time.Hour
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "lats-pos"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 60 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.RequestTimeout == 0 {
		cfg.HTTP.RequestTimeout = 30 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 50 << 20 // restores upload whole backups
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 300
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	// CORS origins have no wildcard fallback; an empty list allows no cross-origin requests.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID", "X-Tenant-ID"}
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "local"
	}
	if cfg.Storage.LocalDir == "" {
		cfg.Storage.LocalDir = "./data/backups"
	}
	if cfg.Storage.S3.Region == "" {
		cfg.Storage.S3.Region = "us-east-1"
	}
	if cfg.WhatsApp.DefaultHost == "" {
		cfg.WhatsApp.DefaultHost = "https://api.green-api.com"
	}
	if cfg.WhatsApp.HTTPTimeout == 0 {
		cfg.WhatsApp.HTTPTimeout = 15 * time.Second
	}
	if cfg.WhatsApp.PollLookback == 0 {
		cfg.WhatsApp.PollLookback = 30 * time.Second
	}
	if cfg.WhatsApp.ChatCacheTTL == 0 {
		cfg.WhatsApp.ChatCacheTTL = 30 * time.Second
	}
	if cfg.WhatsApp.ChatHistoryLimit == 0 {
		cfg.WhatsApp.ChatHistoryLimit = 100
	}
	if cfg.WhatsApp.QueueInterval == 0 {
		cfg.WhatsApp.QueueInterval = 5 * time.Second
	}
	if cfg.WhatsApp.QueueBatchSize == 0 {
		cfg.WhatsApp.QueueBatchSize = 10
	}
	if cfg.WhatsApp.SendGap == 0 {
		cfg.WhatsApp.SendGap = 100 * time.Millisecond
	}
	if cfg.WhatsApp.ThankYouTemplate == "" {
		cfg.WhatsApp.ThankYouTemplate = "sale_thank_you"
	}
	if cfg.WhatsApp.TemplatesFile == "" {
		cfg.WhatsApp.TemplatesFile = "./configs/whatsapp_templates.yaml"
	}
	if cfg.Backup.StaleAfter == 0 {
		cfg.Backup.StaleAfter = 48 * time.Hour
	}
	if cfg.Backup.CheckInterval == 0 {
		cfg.Backup.CheckInterval = time.Minute
	}
	if cfg.Closing.MaxAttempts == 0 {
		cfg.Closing.MaxAttempts = 5
	}
	if cfg.Closing.Lockout == 0 {
		cfg.Closing.Lockout = 15 * time.Minute
	}
	if cfg.Printing.RenderTimeout == 0 {
		cfg.Printing.RenderTimeout = 30 * time.Second
	}
	if cfg.Printing.ShopName == "" {
		cfg.Printing.ShopName = "LATS"
	}
	if cfg.Scheduler.MaxConcurrentJobs == 0 {
		cfg.Scheduler.MaxConcurrentJobs = 2
	}
	if cfg.Scheduler.JobTimeout == 0 {
		cfg.Scheduler.JobTimeout = 30 * time.Minute
	}
	if cfg.Scheduler.RetryAttempts == 0 {
		cfg.Scheduler.RetryAttempts = 3
	}
	if cfg.Scheduler.RetryDelay == 0 {
		cfg.Scheduler.RetryDelay = time.Minute
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "lats-pos"
	}
	if cfg.Telemetry.DBSlowQueryThresh == 0 {
		cfg.Telemetry.DBSlowQueryThresh = 200 * time.Millisecond
	}
	if cfg.Telemetry.PyroscopeEndpoint == "" {
		cfg.Telemetry.PyroscopeEndpoint = "http://localhost:4040"
	}
}

var storageDrivers = map[string]bool{"local": true, "s3": true, "minio": true}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("app.timezone %q is not a valid IANA zone: %w", c.App.Timezone, err)
	}
	if c.App.TaxRate < 0 || c.App.TaxRate > 100 {
		return fmt.Errorf("app.tax_rate must be between 0 and 100, got %v", c.App.TaxRate)
	}

	if !storageDrivers[c.Storage.Driver] {
		return fmt.Errorf("storage.driver must be one of local, s3, minio, got %q", c.Storage.Driver)
	}
	if c.Storage.CloudDriver != "" && (c.Storage.CloudDriver == "local" || !storageDrivers[c.Storage.CloudDriver]) {
		return fmt.Errorf("storage.cloud_driver must be s3 or minio, got %q", c.Storage.CloudDriver)
	}
	if (c.Storage.Driver == "s3" || c.Storage.CloudDriver == "s3") && c.Storage.S3.Bucket == "" {
		return fmt.Errorf("storage.s3.bucket is required for the s3 driver")
	}
	if (c.Storage.Driver == "minio" || c.Storage.CloudDriver == "minio") &&
		(c.Storage.MinIO.Endpoint == "" || c.Storage.MinIO.Bucket == "") {
		return fmt.Errorf("storage.minio.endpoint and storage.minio.bucket are required for the minio driver")
	}

	if c.WhatsApp.PollLookback <= 0 || c.WhatsApp.QueueInterval <= 0 || c.WhatsApp.ChatCacheTTL <= 0 {
		return fmt.Errorf("whatsapp intervals must be positive")
	}
	if c.WhatsApp.QueueBatchSize <= 0 {
		return fmt.Errorf("whatsapp.queue_batch_size must be positive")
	}
	if c.Closing.MaxAttempts <= 0 || c.Closing.Lockout <= 0 {
		return fmt.Errorf("closing.max_attempts and closing.lockout must be positive")
	}

	if c.App.Env == "production" {
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if c.Swagger.Enabled {
			return fmt.Errorf("swagger must be disabled in production")
		}
		if c.Telemetry.DBLogFullSQL {
			return fmt.Errorf("telemetry.db_log_full_sql must be false in production to prevent sensitive data exposure in traces")
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// IsProduction reports whether the app runs in production
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
