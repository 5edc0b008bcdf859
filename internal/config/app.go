package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type HTTPServer struct {
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DbServer struct {
	Host        string `mapstructure:"host"`
	Port        string `mapstructure:"port"`
	User        string `mapstructure:"user"`
	Pass        string `mapstructure:"pass"`
	Name        string `mapstructure:"name"`
	MaxConns    int32  `mapstructure:"max_conns"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

func (config *DbServer) GetConnectionStr() string {
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=disable pool_max_conns=10",
		config.User, config.Pass, config.Host, config.Port, config.Name,
	)
}

type HTTPClient struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

type ExchangeRateAPI struct {
	BaseURL  string        `mapstructure:"base_url"`
	APIKey   string        `mapstructure:"api_key"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type Scheduler struct {
	Interval time.Duration `mapstructure:"interval"`
}

// Basket is the allow-list of currency codes refreshed on every cycle.
type Basket struct {
	Base  string   `mapstructure:"base"`
	Codes []string `mapstructure:"codes"`
}

type Logging struct {
	Level string `mapstructure:"level"`
}

type Redis struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	LockTTL  time.Duration `mapstructure:"lock_ttl"`
}

type Kafka struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type RateLimit struct {
	Rate string `mapstructure:"rate"`
}

type AppConfig struct {
	HTTPServer      HTTPServer      `mapstructure:"http_server"`
	DbServer        DbServer        `mapstructure:"db_server"`
	HTTPClient      HTTPClient      `mapstructure:"http_client"`
	ExchangeRateAPI ExchangeRateAPI `mapstructure:"exchange_rate_api"`
	Scheduler       Scheduler       `mapstructure:"scheduler"`
	Basket          Basket          `mapstructure:"basket"`
	Logging         Logging         `mapstructure:"logging"`
	Redis           Redis           `mapstructure:"redis"`
	Kafka           Kafka           `mapstructure:"kafka"`
	RateLimit       RateLimit       `mapstructure:"rate_limit"`
}

func Init() (*AppConfig, error) {
	return Load("config.yaml")
}

// Load reads the given yaml file, then applies defaults and env overrides.
func Load(path string) (*AppConfig, error) {
	var cfg AppConfig

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	v.SetDefault("http_server.port", "8080")
	v.SetDefault("http_server.shutdown_timeout", 15*time.Second)
	v.SetDefault("db_server.max_conns", 10)
	v.SetDefault("db_server.auto_migrate", true)
	v.SetDefault("http_client.timeout_seconds", 10)
	v.SetDefault("exchange_rate_api.base_url", "https://v6.exchangerate-api.com/v6")
	v.SetDefault("exchange_rate_api.cache_ttl", time.Minute)
	v.SetDefault("scheduler.interval", 6*time.Hour)
	v.SetDefault("basket.base", "USD")
	v.SetDefault("logging.level", "info")
	v.SetDefault("redis.lock_ttl", 2*time.Minute)
	v.SetDefault("kafka.topic", "exchange-rates.upserted")
	v.SetDefault("rate_limit.rate", "30-M")

	// db server env vars
	_ = v.BindEnv("db_server.host", "DB_HOST")
	_ = v.BindEnv("db_server.port", "DB_PORT")
	_ = v.BindEnv("db_server.user", "DB_USER")
	_ = v.BindEnv("db_server.pass", "DB_PASS")
	_ = v.BindEnv("db_server.name", "DB_NAME")
	_ = v.BindEnv("db_server.max_conns", "DB_MAX_CONNS")

	// http client env vars
	_ = v.BindEnv("http_client.timeout_seconds", "HTTP_CLIENT_TIMEOUT_SECONDS")

	// provider and collaborators
	_ = v.BindEnv("exchange_rate_api.api_key", "EXCHANGE_RATE_API_KEY")
	_ = v.BindEnv("redis.addr", "REDIS_ADDRESS")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("logging.level", "LOG_LEVEL")
	_ = v.BindEnv("kafka_brokers_env", "KAFKA_BROKERS")

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// env values for lists arrive as a single comma separated string
	if brokers := strings.TrimSpace(v.GetString("kafka_brokers_env")); brokers != "" {
		cfg.Kafka.Brokers = strings.Split(brokers, ",")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) validate() error {
	if c.Scheduler.Interval <= 0 {
		return errors.New("scheduler.interval must be positive")
	}
	if strings.TrimSpace(c.Basket.Base) == "" {
		return errors.New("basket.base is required")
	}
	c.Basket.Base = strings.ToUpper(strings.TrimSpace(c.Basket.Base))
	for i, code := range c.Basket.Codes {
		c.Basket.Codes[i] = strings.ToUpper(strings.TrimSpace(code))
	}
	return nil
}
