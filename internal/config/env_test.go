package config

import (
	"strings"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_PORT", "")
	t.Setenv("PNR_MAX_ATTEMPTS", "")

	env, err := LoadEnv(t.TempDir() + "/missing.env")
	require.NoError(t, err)

	assert.Equal(t, ":8080", env.AppAddr)
	assert.Equal(t, "mysql", env.DBDriver)
	assert.Equal(t, 3306, env.DBPort)
	assert.Equal(t, 5, env.PNRMaxAttempts)
	assert.Equal(t, 24*time.Hour, env.JWTTTL)
}

func TestLoadEnvPostgresAlias(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_USER", "bus")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "tnbus")
	t.Setenv("DB_DSN", "")

	env, err := LoadEnv(t.TempDir() + "/missing.env")
	require.NoError(t, err)

	assert.Equal(t, "pgx", env.DBDriver)
	assert.Equal(t, 5432, env.DBPort)
	assert.True(t, strings.HasPrefix(env.DSN(), "postgres://bus:secret@"))
	assert.Contains(t, env.DSN(), "/tnbus?sslmode=disable")
}

func TestLoadEnvRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")

	_, err := LoadEnv(t.TempDir() + "/missing.env")
	require.Error(t, err)
}

func TestMySQLDSN(t *testing.T) {
	env := Env{DBDriver: "mysql", DBHost: "db", DBPort: 3306, DBUser: "root", DBName: "bus_booking"}

	dsn := env.DSN()
	assert.Contains(t, dsn, "root@tcp(db:3306)/bus_booking")
	assert.Contains(t, dsn, "parseTime=true")
}

func TestMySQLDSNOverrideGetsParseTime(t *testing.T) {
	env := Env{DBDriver: "mysql", DBDSN: "bus:secret@tcp(db:3306)/bus_booking"}

	cfg, err := mysql.ParseDSN(env.DSN())
	require.NoError(t, err)
	assert.True(t, cfg.ParseTime)
	assert.Equal(t, "bus", cfg.User)
	assert.Equal(t, "db:3306", cfg.Addr)
	assert.Equal(t, "bus_booking", cfg.DBName)

	pg := Env{DBDriver: "pgx", DBDSN: "postgres://bus@db/bus_booking"}
	assert.Equal(t, "postgres://bus@db/bus_booking", pg.DSN())
}

func TestLoadEnvRejectsDefaultSecretInRelease(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("GIN_MODE", "release")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadEnv(t.TempDir() + "/missing.env")
	require.Error(t, err)

	t.Setenv("JWT_SECRET", "a-real-signing-key")
	env, err := LoadEnv(t.TempDir() + "/missing.env")
	require.NoError(t, err)
	assert.Equal(t, "release", env.GinMode)
}

func TestCORSOriginsSplit(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

	env, err := LoadEnv(t.TempDir() + "/missing.env")
	require.NoError(t, err)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, env.CORSAllowedOrigins)
}
