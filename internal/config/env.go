package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const defaultJWTSecret = "change-me-in-production"

type Env struct {
	AppAddr string `validate:"required"`
	GinMode string `validate:"omitempty,oneof=debug release test"`

	DBDriver       string `validate:"required,oneof=mysql pgx"`
	DBHost         string
	DBPort         int `validate:"gte=0,lte=65535"`
	DBUser         string
	DBPassword     string
	DBName         string
	DBDSN          string
	DBMaxOpenConns int `validate:"gt=0"`
	AutoMigrate    bool

	JWTSecret string        `validate:"required,min=8"`
	JWTTTL    time.Duration `validate:"gt=0"`

	CORSAllowedOrigins []string
	PublicDir          string
	LogLevel           string `validate:"oneof=debug info warn error"`
	PNRMaxAttempts     int    `validate:"gte=1,lte=20"`
}

// LoadEnv reads the optional .env file at path (process env wins) and
// builds a validated Env.
func LoadEnv(path string) (Env, error) {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err == nil {
		if err := godotenv.Load(path); err != nil {
			return Env{}, fmt.Errorf("load %s: %w", path, err)
		}
	}

	env := Env{
		AppAddr:        getString("APP_ADDR", ":8080"),
		GinMode:        getString("GIN_MODE", ""),
		DBDriver:       strings.ToLower(getString("DB_DRIVER", "mysql")),
		DBHost:         getString("DB_HOST", "127.0.0.1"),
		DBUser:         getString("DB_USER", "root"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         getString("DB_NAME", "bus_booking"),
		DBDSN:          getString("DB_DSN", ""),
		DBMaxOpenConns: getInt("DB_MAX_OPEN_CONNS", 25),
		AutoMigrate:    getBool("AUTO_MIGRATE", false),
		JWTSecret:      getString("JWT_SECRET", defaultJWTSecret),
		JWTTTL:         getDuration("JWT_TTL", 24*time.Hour),
		PublicDir:      getString("PUBLIC_DIR", "public"),
		LogLevel:       strings.ToLower(getString("LOG_LEVEL", "info")),
		PNRMaxAttempts: getInt("PNR_MAX_ATTEMPTS", 5),
	}
	if env.DBDriver == "postgres" {
		env.DBDriver = "pgx"
	}

	defaultPort := 3306
	if env.DBDriver == "pgx" {
		defaultPort = 5432
	}
	env.DBPort = getInt("DB_PORT", defaultPort)

	if raw := getString("CORS_ALLOWED_ORIGINS", ""); raw != "" {
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				env.CORSAllowedOrigins = append(env.CORSAllowedOrigins, o)
			}
		}
	}

	if err := validator.New().Struct(env); err != nil {
		return Env{}, fmt.Errorf("invalid configuration: %w", err)
	}
	if env.GinMode == "release" && env.JWTSecret == defaultJWTSecret {
		return Env{}, fmt.Errorf("invalid configuration: JWT_SECRET must be set in release mode")
	}
	return env, nil
}

func getString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
