package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Pricing       PricingConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Mail          MailConfig
	Import        ImportConfig
	CORS          CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Pricing.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"LUXENEST_APP_ENV" required:"true"`
	Port         string `envconfig:"LUXENEST_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LUXENEST_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LUXENEST_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"LUXENEST_DB_DSN"`
	Driver string `envconfig:"LUXENEST_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"LUXENEST_DB_HOST"`
	Port     int    `envconfig:"LUXENEST_DB_PORT" default:"5432"`
	User     string `envconfig:"LUXENEST_DB_USER"`
	Password string `envconfig:"LUXENEST_DB_PASSWORD"`
	Name     string `envconfig:"LUXENEST_DB_NAME"`
	SSLMode  string `envconfig:"LUXENEST_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LUXENEST_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LUXENEST_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LUXENEST_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LUXENEST_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LUXENEST_REDIS_URL" required:"true"`
	Password     string        `envconfig:"LUXENEST_REDIS_PASSWORD"`
	DB           int           `envconfig:"LUXENEST_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LUXENEST_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LUXENEST_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LUXENEST_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LUXENEST_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LUXENEST_REDIS_WRITE_TIMEOUT" default:"5s"`
	CatalogTTL   time.Duration `envconfig:"LUXENEST_REDIS_CATALOG_TTL" default:"5m"`
}

type JWTConfig struct {
	Secret            string `envconfig:"LUXENEST_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"LUXENEST_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"LUXENEST_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"LUXENEST_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"LUXENEST_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"LUXENEST_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"LUXENEST_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"LUXENEST_ARGON_KEY_LEN" default:"32"`
}

// PricingConfig drives the checkout total calculator. Amounts are store
// currency units, not cents.
type PricingConfig struct {
	FreeShippingThreshold decimal.Decimal `envconfig:"LUXENEST_FREE_SHIPPING_THRESHOLD" default:"1000"`
	ShippingFlatFee       decimal.Decimal `envconfig:"LUXENEST_SHIPPING_FLAT_FEE" default:"100"`
	TaxRate               decimal.Decimal `envconfig:"LUXENEST_TAX_RATE" default:"0.18"`
}

func (p PricingConfig) validate() error {
	if p.FreeShippingThreshold.IsNegative() {
		return fmt.Errorf("free shipping threshold cannot be negative")
	}
	if p.ShippingFlatFee.IsNegative() {
		return fmt.Errorf("shipping flat fee cannot be negative")
	}
	if p.TaxRate.IsNegative() || p.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("tax rate must be within [0, 1]")
	}
	return nil
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"LUXENEST_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"LUXENEST_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"LUXENEST_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"LUXENEST_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"LUXENEST_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"LUXENEST_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"LUXENEST_AUTO_MIGRATE" default:"false"`
}

type MailConfig struct {
	FromAddress string `envconfig:"LUXENEST_MAIL_FROM" default:"no-reply@luxenest.example"`
	FromName    string `envconfig:"LUXENEST_MAIL_FROM_NAME" default:"LuxeNest"`
}

type ImportConfig struct {
	MaxUploadMB int `envconfig:"LUXENEST_IMPORT_MAX_UPLOAD_MB" default:"10"`
	MaxRows     int `envconfig:"LUXENEST_IMPORT_MAX_ROWS" default:"5000"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"LUXENEST_CORS_ALLOWED_ORIGINS" default:"*"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range componentDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
