package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	StoreMySQL  = "mysql"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"

	ChainRedis  = "redis"
	ChainMemory = "memory"
)

type Config struct {
	AppPort string

	StoreDriver string
	SQLitePath  string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	ChainDriver      string
	ChainStartHeight uint64
	ChainHeightKey   string

	LenderID     string
	IdempTTLSecs int

	LogLevel string
	LogFile  string

	// set by Load when an env value could not be parsed; reported by Validate
	loadErr error
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

// Load reads the environment; a .env file in the working directory is
// applied first when present. Real env vars win over .env entries.
func Load() *Config {
	_ = godotenv.Load()

	c := &Config{
		AppPort:     getenv("APP_PORT", "8080"),
		StoreDriver: getenv("STORE_DRIVER", StoreMySQL),
		SQLitePath:  getenv("SQLITE_PATH", "lending.db"),

		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "lending"),
		MySQLUser: getenv("MYSQL_USER", "lending"),
		MySQLPass: getenv("MYSQL_PASS", "lending"),

		RedisAddr: getenv("REDIS_ADDR", "redis:6379"),
		RedisDB:   getenvInt("REDIS_DB", 0),

		ChainDriver:      getenv("CHAIN_DRIVER", ChainRedis),
		ChainStartHeight: 1000,
		ChainHeightKey:   getenv("CHAIN_HEIGHT_KEY", "lend:chain:height"),

		LenderID:     getenv("LENDER_ID", "tx-sender"),
		IdempTTLSecs: getenvInt("IDEMPOTENCY_TTL_SECONDS", 300),

		LogLevel: getenv("LOG_LEVEL", "info"),
		LogFile:  os.Getenv("LOG_FILE"),
	}
	if v := os.Getenv("CHAIN_START_HEIGHT"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.loadErr = fmt.Errorf("invalid CHAIN_START_HEIGHT %q: %w", v, err)
		} else {
			c.ChainStartHeight = n
		}
	}
	return c
}

func (c *Config) Validate() error {
	if c.loadErr != nil {
		return c.loadErr
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.StoreDriver {
	case StoreMySQL:
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case StoreSQLite:
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	switch c.ChainDriver {
	case ChainRedis:
		if c.RedisAddr == "" {
			return errors.New("missing REDIS_ADDR")
		}
	case ChainMemory:
	default:
		return fmt.Errorf("unknown CHAIN_DRIVER %q", c.ChainDriver)
	}
	if c.IdempTTLSecs <= 0 {
		return fmt.Errorf("IDEMPOTENCY_TTL_SECONDS must be positive, got %d", c.IdempTTLSecs)
	}
	return nil
}

// NeedsRedis reports whether any component is backed by redis.
func (c *Config) NeedsRedis() bool { return c.ChainDriver == ChainRedis }

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
