package config

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// DSN builds the driver-specific connection string. A DB_DSN override is
// used as given, except that MySQL overrides always get parseTime=true.
func (e Env) DSN() string {
	if e.DBDSN != "" {
		if e.DBDriver == "pgx" {
			return e.DBDSN
		}
		return MySQLParseTime(e.DBDSN)
	}
	addr := net.JoinHostPort(e.DBHost, strconv.Itoa(e.DBPort))
	if e.DBDriver == "pgx" {
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(e.DBUser, e.DBPassword),
			Host:     addr,
			Path:     "/" + e.DBName,
			RawQuery: "sslmode=disable",
		}
		return u.String()
	}

	cfg := mysql.NewConfig()
	cfg.User = e.DBUser
	cfg.Passwd = e.DBPassword
	cfg.Net = "tcp"
	cfg.Addr = addr
	cfg.DBName = e.DBName
	cfg.ParseTime = true
	cfg.Loc = time.Local
	cfg.Timeout = 5 * time.Second
	cfg.ReadTimeout = 30 * time.Second
	cfg.WriteTimeout = 30 * time.Second
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

// MySQLParseTime forces parseTime=true on a MySQL DSN so TIMESTAMP columns
// scan into time.Time. Unparseable input is returned unchanged and fails at
// open.
func MySQLParseTime(dsn string) string {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return dsn
	}
	cfg.ParseTime = true
	return cfg.FormatDSN()
}

// OpenDB opens and pings the pool. The caller owns the handle and must
// close it.
func OpenDB(ctx context.Context, e Env) (*sql.DB, error) {
	db, err := sql.Open(e.DBDriver, e.DSN())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", e.DBDriver, err)
	}

	db.SetMaxOpenConns(e.DBMaxOpenConns)
	db.SetMaxIdleConns(e.DBMaxOpenConns)
	db.SetConnMaxLifetime(10 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", e.DBDriver, err)
	}
	return db, nil
}
