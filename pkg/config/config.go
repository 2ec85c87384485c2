package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "VERDURARIA_DB_DSN"
	EnvDBHost = "VERDURARIA_DB_HOST"
	EnvDBUser = "VERDURARIA_DB_USER"
	EnvDBName = "VERDURARIA_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	FeatureFlags FeatureFlagsConfig
	Admin        AdminConfig
	Federation   FederationConfig
	MercadoPago  MercadoPagoConfig
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
	Env          string `envconfig:"VERDURARIA_APP_ENV" required:"true"`
	Port         string `envconfig:"VERDURARIA_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"VERDURARIA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VERDURARIA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"VERDURARIA_DB_DSN"`
	Driver string `envconfig:"VERDURARIA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"VERDURARIA_DB_HOST"`
	LegacyPort     int    `envconfig:"VERDURARIA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VERDURARIA_DB_USER"`
	LegacyPassword string `envconfig:"VERDURARIA_DB_PASSWORD"`
	LegacyName     string `envconfig:"VERDURARIA_DB_NAME"`
	LegacySSLMode  string `envconfig:"VERDURARIA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VERDURARIA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VERDURARIA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VERDURARIA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VERDURARIA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VERDURARIA_REDIS_URL"`
	Address      string        `envconfig:"VERDURARIA_REDIS_ADDR"`
	Password     string        `envconfig:"VERDURARIA_REDIS_PASSWORD"`
	DB           int           `envconfig:"VERDURARIA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VERDURARIA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VERDURARIA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VERDURARIA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VERDURARIA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VERDURARIA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"VERDURARIA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"VERDURARIA_JWT_ISSUER" default:"verduraria"`
	ExpirationMinutes int    `envconfig:"VERDURARIA_JWT_EXPIRATION_MINUTES" default:"720"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"VERDURARIA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"VERDURARIA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"VERDURARIA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"VERDURARIA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"VERDURARIA_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"VERDURARIA_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"VERDURARIA_AUTO_MIGRATE" default:"false"`
}

// AdminConfig seeds the bootstrap admin account on startup.
type AdminConfig struct {
	Email    string `envconfig:"VERDURARIA_ADMIN_EMAIL" default:"admin@verduraria.local"`
	Password string `envconfig:"VERDURARIA_ADMIN_PASSWORD"`
}

// FederationConfig holds third-party identity provider credentials. Empty
// values disable the corresponding login path.
type FederationConfig struct {
	GoogleClientID    string `envconfig:"VERDURARIA_GOOGLE_CLIENT_ID"`
	FacebookAppID     string `envconfig:"VERDURARIA_FACEBOOK_APP_ID"`
	FacebookAppSecret string `envconfig:"VERDURARIA_FACEBOOK_APP_SECRET"`
}

type MercadoPagoConfig struct {
	AccessToken string        `envconfig:"VERDURARIA_MP_ACCESS_TOKEN"`
	BaseURL     string        `envconfig:"VERDURARIA_MP_BASE_URL" default:"https://api.mercadopago.com"`
	WebhookURL  string        `envconfig:"VERDURARIA_MP_WEBHOOK_URL"`
	FrontendURL string        `envconfig:"VERDURARIA_FRONTEND_URL"`
	Timeout     time.Duration `envconfig:"VERDURARIA_MP_TIMEOUT" default:"10s"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
