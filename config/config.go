package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Addr          string `split_words:"true" default:":8765"`
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:8765"`
}

type DatabaseConfig struct {
	Host     string `split_words:"true" default:"localhost"`
	Port     int    `split_words:"true" default:"5432"`
	User     string `split_words:"true" default:"postgres"`
	Password string `split_words:"true" default:"postgres"`
	Name     string `split_words:"true" default:"food_orders"`
}

type RedisConfig struct {
	Enabled  bool          `split_words:"true" default:"true"`
	Host     string        `split_words:"true" default:"localhost"`
	Port     int           `split_words:"true" default:"6379"`
	CacheTTL time.Duration `envconfig:"CACHE_TTL" default:"5m"`
}

type KafkaConfig struct {
	Enabled bool   `split_words:"true" default:"true"`
	Broker  string `split_words:"true" default:"localhost:9092"`
	Topic   string `split_words:"true" default:"order-events"`
}

type OrderConfig struct {
	DeliveryFeeCents   int64 `envconfig:"DELIVERY_FEE_CENTS" default:"4000"`
	AllowEmptyCheckout bool  `split_words:"true" default:"true"`
}

// MustLoad reads environment variables (optionally seeded from a .env
// file) into a config struct, panicking on failure.
func MustLoad[T any](prefix string) *T {
	conf, err := Load[T](prefix)
	if err != nil {
		panic(err)
	}
	return conf
}

func Load[T any](prefix string) (*T, error) {
	if err := exportEnvFileIfExists(".env"); err != nil {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	var conf T
	if err := envconfig.Process(prefix, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

func exportEnvFileIfExists(filepath string) error {
	info, err := os.Stat(filepath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}

	viper.SetConfigFile(filepath)
	if err := viper.ReadInConfig(); err != nil {
		return err
	}
	for k, v := range viper.AllSettings() {
		if err := os.Setenv(strings.ToUpper(k), fmt.Sprint(v)); err != nil {
			return err
		}
	}
	return nil
}

func MustInitPostgres(cfg DatabaseConfig) *sql.DB {
	connStr := "host=" + cfg.Host + " port=" + strconv.Itoa(cfg.Port) +
		" user=" + cfg.User + " password=" + cfg.Password +
		" dbname=" + cfg.Name + " sslmode=disable"

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err = db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis(cfg RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Host + ":" + strconv.Itoa(cfg.Port),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	return client
}

func NewKafkaWriter(cfg KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:     kafka.TCP(cfg.Broker),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
	}
}
