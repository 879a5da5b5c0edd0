package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	Session       SessionConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Tenant        TenantConfig
	Storefront    StorefrontConfig
	AuthRateLimit AuthRateLimitConfig
	CORS          CORSConfig
	CSRF          CSRFConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Session.validate(); err != nil {
		return nil, err
	}
	cfg.Tenant.BaseDomain = normalizeDomain(cfg.Tenant.BaseDomain)
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"STOREFRONT_DB_DSN"`
	Driver string `envconfig:"STOREFRONT_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"STOREFRONT_DB_HOST"`
	Port     int    `envconfig:"STOREFRONT_DB_PORT" default:"5432"`
	User     string `envconfig:"STOREFRONT_DB_USER"`
	Password string `envconfig:"STOREFRONT_DB_PASSWORD"`
	Name     string `envconfig:"STOREFRONT_DB_NAME"`
	SSLMode  string `envconfig:"STOREFRONT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// SessionConfig drives the signed cookie carrying the shopper token, flashes and the vendor access token.
type SessionConfig struct {
	CookieName string        `envconfig:"STOREFRONT_SESSION_COOKIE" default:"storefront_session"`
	AuthKey    string        `envconfig:"STOREFRONT_SESSION_AUTH_KEY" required:"true"`
	EncryptKey string        `envconfig:"STOREFRONT_SESSION_ENCRYPT_KEY"`
	MaxAge     time.Duration `envconfig:"STOREFRONT_SESSION_MAX_AGE" default:"720h"`
	Secure     bool          `envconfig:"STOREFRONT_SESSION_SECURE" default:"false"`
	Domain     string        `envconfig:"STOREFRONT_SESSION_DOMAIN"`
}

func (s SessionConfig) validate() error {
	if len(s.AuthKey) < 32 {
		return fmt.Errorf("%s must be at least 32 bytes", EnvSessionAuthKey)
	}
	switch len(s.EncryptKey) {
	case 0, 16, 24, 32:
		return nil
	default:
		return fmt.Errorf("%s must be 16, 24 or 32 bytes", EnvSessionEncryptKey)
	}
}

type JWTConfig struct {
	Secret            string `envconfig:"STOREFRONT_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"STOREFRONT_JWT_ISSUER" default:"storefront"`
	ExpirationMinutes int    `envconfig:"STOREFRONT_JWT_EXPIRATION_MINUTES" default:"720"`
}

// SessionTTL is how long a vendor login stays valid, both in the token and in Redis.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"STOREFRONT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"STOREFRONT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"STOREFRONT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"STOREFRONT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"STOREFRONT_ARGON_KEY_LEN" default:"32"`
}

// TenantConfig controls how vendor subdomains are recognised.
type TenantConfig struct {
	BaseDomain string `envconfig:"STOREFRONT_TENANT_BASE_DOMAIN"`
	MinLabels  int    `envconfig:"STOREFRONT_TENANT_MIN_LABELS" default:"3"`
}

type StorefrontConfig struct {
	PageSize        int    `envconfig:"STOREFRONT_PAGE_SIZE" default:"12"`
	CurrencySymbol  string `envconfig:"STOREFRONT_CURRENCY_SYMBOL" default:"$"`
	WhatsAppBaseURL string `envconfig:"STOREFRONT_WHATSAPP_BASE_URL" default:"https://wa.me"`
	TemplatesReload bool   `envconfig:"STOREFRONT_TEMPLATES_RELOAD" default:"false"`
}

type AuthRateLimitConfig struct {
	SignupWindow        time.Duration `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignupIPLimit       int           `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
	SignupUsernameLimit int           `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_SIGNUP_USERNAME_LIMIT" default:"5"`
	LoginWindow         time.Duration `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"5m"`
	LoginIPLimit        int           `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"30"`
	LoginUsernameLimit  int           `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"10"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"STOREFRONT_CORS_ALLOWED_ORIGINS"`
}

type CSRFConfig struct {
	Enabled        bool     `envconfig:"STOREFRONT_CSRF_ENABLED" default:"true"`
	TrustedOrigins []string `envconfig:"STOREFRONT_CSRF_TRUSTED_ORIGINS"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"STOREFRONT_AUTO_MIGRATE" default:"false"`
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
	for _, env := range discreteDBEnvVars {
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

func normalizeDomain(domain string) string {
	return strings.Trim(strings.ToLower(strings.TrimSpace(domain)), ".")
}
