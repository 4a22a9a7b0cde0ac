package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"Volunteer_Hub/internal/model"
	"Volunteer_Hub/internal/pkg"

	"github.com/joho/godotenv"
)

const (
	DriverMongo = "mongo"
	DriverMySQL = "mysql"
)

type Config struct {
	Port       int
	Production bool

	TokenSecret []byte
	TokenTTL    time.Duration

	StoreDriver string
	MongoURI    string
	MongoDB     string
	MySQLDSN    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	Kafka pkg.KafkaConfig
	SMTP  pkg.SMTPConfig

	CORSOrigins []string
	DedupScope  model.DedupScope
}

// Load 先读 .env（不存在不报错），再从环境变量取值
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv getenv 可注入，方便测试
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(k, def string) string {
		if v := strings.TrimSpace(getenv(k)); v != "" {
			return v
		}
		return def
	}

	var cfg Config
	var err error

	if cfg.Port, err = strconv.Atoi(get("PORT", "5000")); err != nil {
		return Config{}, errors.New("invalid PORT")
	}
	cfg.Production = get("NODE_ENV", "development") == "production"

	secret := get("ACCESS_TOKEN_SECRET", "")
	if secret == "" {
		return Config{}, errors.New("ACCESS_TOKEN_SECRET required")
	}
	cfg.TokenSecret = []byte(secret)
	if cfg.TokenTTL, err = time.ParseDuration(get("TOKEN_TTL", pkg.DefaultTokenTTL.String())); err != nil {
		return Config{}, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}

	cfg.StoreDriver = get("STORE_DRIVER", DriverMongo)
	switch cfg.StoreDriver {
	case DriverMongo:
		cfg.MongoURI = get("MONGO_URI", "")
		if cfg.MongoURI == "" {
			user, pass := get("DB_USER", ""), get("DB_PASS", "")
			if user == "" || pass == "" {
				return Config{}, errors.New("MONGO_URI or DB_USER/DB_PASS required")
			}
			cfg.MongoURI = fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority",
				url.QueryEscape(user), url.QueryEscape(pass), get("MONGO_HOST", "cluster0.mongodb.net"))
		}
		cfg.MongoDB = get("MONGO_DB", "volunteer-db")
	case DriverMySQL:
		cfg.MySQLDSN = get("MYSQL_DSN", "")
		if cfg.MySQLDSN == "" {
			return Config{}, errors.New("MYSQL_DSN required")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	cfg.RedisAddr = get("REDIS_ADDR", "")
	cfg.RedisPassword = get("REDIS_PASSWORD", "")
	if cfg.RedisDB, err = strconv.Atoi(get("REDIS_DB", "0")); err != nil {
		return Config{}, errors.New("invalid REDIS_DB")
	}
	if cfg.CacheTTL, err = time.ParseDuration(get("CACHE_TTL", "5m")); err != nil {
		return Config{}, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}

	cfg.Kafka = pkg.KafkaConfig{
		Brokers: splitList(get("KAFKA_BROKERS", "")),
		Topic:   get("KAFKA_TOPIC", "volunteer-requests"),
	}

	smtpPort, err := strconv.Atoi(get("SMTP_PORT", "587"))
	if err != nil {
		return Config{}, errors.New("invalid SMTP_PORT")
	}
	cfg.SMTP = pkg.SMTPConfig{
		Host:     get("SMTP_HOST", ""),
		Port:     smtpPort,
		Username: get("SMTP_USERNAME", ""),
		Password: get("SMTP_PASSWORD", ""),
		From:     get("SMTP_FROM", ""),
	}

	cfg.CORSOrigins = splitList(get("CORS_ORIGINS", "http://localhost:5173"))
	if cfg.DedupScope, err = model.ParseDedupScope(get("REQUEST_DEDUP_SCOPE", "")); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) CacheEnabled() bool { return c.RedisAddr != "" }
func (c Config) KafkaEnabled() bool { return len(c.Kafka.Brokers) > 0 }

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
