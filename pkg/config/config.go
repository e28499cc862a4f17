package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	FeatureFlags FeatureFlagsConfig
	Media        MediaConfig
	CORS         CORSConfig
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
	Env             string        `envconfig:"SHODIX_APP_ENV" required:"true"`
	Port            string        `envconfig:"SHODIX_APP_PORT" default:"8080"`
	LogLevel        string        `envconfig:"SHODIX_LOG_LEVEL" default:"info"`
	LogWarnStack    bool          `envconfig:"SHODIX_LOG_WARN_STACK" default:"false"`
	ShutdownTimeout time.Duration `envconfig:"SHODIX_SHUTDOWN_TIMEOUT" default:"10s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SHODIX_DB_DSN"`
	Driver string `envconfig:"SHODIX_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SHODIX_DB_HOST"`
	LegacyPort     int    `envconfig:"SHODIX_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHODIX_DB_USER"`
	LegacyPassword string `envconfig:"SHODIX_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHODIX_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHODIX_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHODIX_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHODIX_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHODIX_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHODIX_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver is the embedded sqlite one.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), "sqlite")
}

// RedisConfig is optional; an empty URL and address disables idempotency replay.
type RedisConfig struct {
	URL            string        `envconfig:"SHODIX_REDIS_URL"`
	Address        string        `envconfig:"SHODIX_REDIS_ADDR"`
	Password       string        `envconfig:"SHODIX_REDIS_PASSWORD"`
	DB             int           `envconfig:"SHODIX_REDIS_DB" default:"0"`
	PoolSize       int           `envconfig:"SHODIX_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns   int           `envconfig:"SHODIX_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout    time.Duration `envconfig:"SHODIX_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout    time.Duration `envconfig:"SHODIX_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout   time.Duration `envconfig:"SHODIX_REDIS_WRITE_TIMEOUT" default:"5s"`
	IdempotencyTTL time.Duration `envconfig:"SHODIX_IDEMPOTENCY_TTL" default:"24h"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"SHODIX_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SHODIX_JWT_ISSUER" default:"shodix"`
	ExpirationMinutes int    `envconfig:"SHODIX_JWT_EXPIRATION_MINUTES" default:"10080"`
	CookieName        string `envconfig:"SHODIX_JWT_COOKIE_NAME" default:"jwt"`
	CookieSecure      bool   `envconfig:"SHODIX_JWT_COOKIE_SECURE" default:"false"`
}

// TTL returns the token validity window.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SHODIX_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SHODIX_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SHODIX_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SHODIX_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SHODIX_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SHODIX_AUTO_MIGRATE" default:"false"`
}

type MediaConfig struct {
	UploadDir    string `envconfig:"SHODIX_UPLOAD_DIR" default:"./uploads"`
	PublicPrefix string `envconfig:"SHODIX_UPLOAD_PUBLIC_PREFIX" default:"/uploads"`
	MaxUploadMB  int    `envconfig:"SHODIX_MAX_UPLOAD_MB" default:"5"`
}

// MaxUploadBytes converts the configured megabyte limit into bytes.
func (m MediaConfig) MaxUploadBytes() int64 {
	if m.MaxUploadMB <= 0 {
		return 5 << 20
	}
	return int64(m.MaxUploadMB) << 20
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"SHODIX_CORS_ALLOWED_ORIGINS" default:"*"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = "file:shodix.db?_foreign_keys=on"
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
