package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

const (
	AuthModeJWT    = "jwt"
	AuthModeRemote = "remote"
	AuthModeDev    = "dev"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config se arma desde variables de entorno (opcionalmente desde un .env local).
// Plano a propósito: un campo por variable.
type Config struct {
	Port    string `env:"PORT,default=8080"`
	AppName string `env:"APP_NAME,default=pet-adoption"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`

	// DB_DSN vacío => store in-memory (modo dev).
	DBDriver          string        `env:"DB_DRIVER,default=pgx"`
	DBDSN             string        `env:"DB_DSN"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,default=10"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,default=5"`
	DBConnMaxIdleTime time.Duration `env:"DB_CONN_MAX_IDLE_TIME,default=5m"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,default=30m"`
	DBAutoMigrate     bool          `env:"DB_AUTO_MIGRATE,default=true"`

	AuthMode         string        `env:"AUTH_MODE,default=jwt"`
	JWTSecret        string        `env:"JWT_SECRET"`
	JWTTTL           time.Duration `env:"JWT_TTL,default=24h"`
	JWTIssuer        string        `env:"JWT_ISSUER,default=pet-adoption"`
	AuthRemoteURL    string        `env:"AUTH_REMOTE_URL"`
	AuthRemoteAPIKey string        `env:"AUTH_REMOTE_API_KEY"`

	UploadDir      string `env:"UPLOAD_DIR,default=uploads"`
	UploadMaxBytes int64  `env:"UPLOAD_MAX_BYTES,default=5242880"`

	FrontendURL string `env:"FRONTEND_URL"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS,default=5"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST,default=10"`

	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT,default=5s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT,default=10s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT,default=10s"`
}

// Load lee .env (si existe) y decodifica el entorno.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv decodifica el entorno actual sin tocar archivos.
func FromEnv() (Config, error) {
	var c Config
	if err := envdecode.Decode(&c); err != nil {
		return Config{}, fmt.Errorf("decode env: %w", err)
	}
	c.AuthMode = strings.ToLower(strings.TrimSpace(c.AuthMode))
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	switch c.AuthMode {
	case AuthModeJWT:
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("%w: JWT_SECRET is required when AUTH_MODE=jwt", ErrInvalidConfig)
		}
	case AuthModeRemote:
		if strings.TrimSpace(c.AuthRemoteURL) == "" {
			return fmt.Errorf("%w: AUTH_REMOTE_URL is required when AUTH_MODE=remote", ErrInvalidConfig)
		}
		// igual emitimos tokens locales en login/registro
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("%w: JWT_SECRET is required to issue tokens", ErrInvalidConfig)
		}
	case AuthModeDev:
	default:
		return fmt.Errorf("%w: unknown AUTH_MODE %q", ErrInvalidConfig, c.AuthMode)
	}

	switch c.DBDriver {
	case "pgx", "postgres":
	default:
		return fmt.Errorf("%w: unknown DB_DRIVER %q", ErrInvalidConfig, c.DBDriver)
	}

	if c.UploadMaxBytes <= 0 {
		return fmt.Errorf("%w: UPLOAD_MAX_BYTES must be positive", ErrInvalidConfig)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("%w: rate limit must be positive", ErrInvalidConfig)
	}
	return nil
}

func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
}
