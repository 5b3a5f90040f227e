package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix scopes every environment variable consumed by the service.
	EnvPrefix = "taptune"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	RateLimit    RateLimitConfig
	Razorpay     RazorpayConfig
	WhatsApp     WhatsAppConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TAPTUNE_APP_ENV" required:"true"`
	Port         string `envconfig:"TAPTUNE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TAPTUNE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TAPTUNE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"TAPTUNE_DB_DSN"`

	Host     string `envconfig:"TAPTUNE_DB_HOST"`
	Port     int    `envconfig:"TAPTUNE_DB_PORT" default:"5432"`
	User     string `envconfig:"TAPTUNE_DB_USER"`
	Password string `envconfig:"TAPTUNE_DB_PASSWORD"`
	Name     string `envconfig:"TAPTUNE_DB_NAME"`
	SSLMode  string `envconfig:"TAPTUNE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TAPTUNE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TAPTUNE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TAPTUNE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TAPTUNE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("either TAPTUNE_DB_DSN or host/user/name settings are required")
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"TAPTUNE_REDIS_URL"`
	Address      string        `envconfig:"TAPTUNE_REDIS_ADDR"`
	Password     string        `envconfig:"TAPTUNE_REDIS_PASSWORD"`
	DB           int           `envconfig:"TAPTUNE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TAPTUNE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TAPTUNE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TAPTUNE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TAPTUNE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TAPTUNE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"TAPTUNE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"TAPTUNE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"TAPTUNE_JWT_EXPIRATION_MINUTES" default:"60"`
}

// RateLimitConfig bounds the unauthenticated public endpoints.
type RateLimitConfig struct {
	PublicWindow     time.Duration `envconfig:"TAPTUNE_RATE_LIMIT_PUBLIC_WINDOW" default:"1m"`
	ConnectIPLimit   int           `envconfig:"TAPTUNE_RATE_LIMIT_CONNECT_IP_LIMIT" default:"20"`
	EnquiryIPLimit   int           `envconfig:"TAPTUNE_RATE_LIMIT_ENQUIRY_IP_LIMIT" default:"10"`
	DisableOnFailure bool          `envconfig:"TAPTUNE_RATE_LIMIT_DISABLE_ON_FAILURE" default:"true"`
}

type RazorpayConfig struct {
	KeyID         string        `envconfig:"TAPTUNE_RAZORPAY_KEY_ID" required:"true"`
	KeySecret     string        `envconfig:"TAPTUNE_RAZORPAY_KEY_SECRET" required:"true"`
	WebhookSecret string        `envconfig:"TAPTUNE_RAZORPAY_WEBHOOK_SECRET" required:"true"`
	BaseURL       string        `envconfig:"TAPTUNE_RAZORPAY_BASE_URL" default:"https://api.razorpay.com/v1"`
	Timeout       time.Duration `envconfig:"TAPTUNE_RAZORPAY_TIMEOUT" default:"15s"`
	CallbackURL   string        `envconfig:"TAPTUNE_RAZORPAY_CALLBACK_URL"`
	LinkExpiry    time.Duration `envconfig:"TAPTUNE_RAZORPAY_LINK_EXPIRY" default:"20m"`
}

type WhatsAppConfig struct {
	APIToken      string        `envconfig:"TAPTUNE_WHATSAPP_API_TOKEN" required:"true"`
	BaseURL       string        `envconfig:"TAPTUNE_WHATSAPP_URL" required:"true"`
	PhoneNumberID string        `envconfig:"TAPTUNE_WHATSAPP_PHONE_NO_ID" required:"true"`
	Timeout       time.Duration `envconfig:"TAPTUNE_WHATSAPP_TIMEOUT" default:"10s"`

	OrderTemplateID   string `envconfig:"TAPTUNE_WHATSAPP_ORDER_TEMPLATE_ID"`
	WelcomeTemplateID string `envconfig:"TAPTUNE_WHATSAPP_WELCOME_TEMPLATE_ID"`
	PaymentTemplateID string `envconfig:"TAPTUNE_WHATSAPP_PAYMENT_TEMPLATE_ID"`
	DefaultLabelID    string `envconfig:"TAPTUNE_WHATSAPP_DEFAULT_LABEL_ID"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"TAPTUNE_AUTO_MIGRATE" default:"false"`
}
