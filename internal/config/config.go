package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type FtdConfig struct {
	Env          string `yaml:"env" env:"FTD_ENV" env-default:"local"`
	HTTPServer   `yaml:"http_server"`
	FtdDB        `yaml:"ftd_db"`
	LogConfig    `yaml:"log_config"`
	TrackingAPI  `yaml:"tracking_api"`
	KafkaService `yaml:"kafka-service"`
	Redis        `yaml:"redis"`
	Distribution `yaml:"distribution"`
}

type HTTPServer struct {
	Host           string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port           string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	AllowedOrigins []string      `yaml:"allowed_origins" env:"HTTP_ALLOWED_ORIGINS" env-default:"*"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"HTTP_REQUEST_TIMEOUT" env-default:"60s"`
}

type FtdDB struct {
	Dsn            string `yaml:"dsn" env:"FTD_DB_DSN" env-required:"true"`
	MigrationsPath string `yaml:"migrations_path" env:"FTD_DB_MIGRATIONS_PATH" env-default:"migrations"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"text"`
	LogOutput string `yaml:"log_output" env:"LOG_OUTPUT" env-default:"stdout"`
}

type TrackingAPI struct {
	URL         string        `yaml:"url" env:"TRACKING_API_URL" env-required:"true"`
	AffiliateID string        `yaml:"affiliate_id" env:"TRACKING_API_AFFILIATE_ID" env-required:"true"`
	APIKey      string        `yaml:"api_key" env:"TRACKING_API_KEY" env-required:"true"`
	Timeout     time.Duration `yaml:"timeout" env:"TRACKING_API_TIMEOUT" env-default:"30s"`
}

// KafkaService: пустой host отключает публикацию событий
type KafkaService struct {
	Host  string `yaml:"host" env:"KAFKA_HOST"`
	Port  string `yaml:"port" env:"KAFKA_PORT" env-default:"9092"`
	Topic string `yaml:"topic" env:"KAFKA_TOPIC" env-default:"ftd-events"`
}

// Redis: пустой addr - локальный мьютекс вместо распределенной блокировки
type Redis struct {
	Addr     string        `yaml:"addr" env:"REDIS_ADDR"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	LockTTL  time.Duration `yaml:"lock_ttl" env:"REDIS_LOCK_TTL" env-default:"10m"`
}

type Distribution struct {
	Schedule         string   `yaml:"schedule" env:"DISTRIBUTION_SCHEDULE" env-default:"@every 3m"`
	AllowedCountries []string `yaml:"allowed_countries" env:"DISTRIBUTION_ALLOWED_COUNTRIES" env-default:"FR,BE,CH"`
	Timezone         string   `yaml:"timezone" env:"DISTRIBUTION_TIMEZONE" env-default:"UTC"`
	OwnerWorkers     int      `yaml:"owner_workers" env:"DISTRIBUTION_OWNER_WORKERS" env-default:"4"`
	RunOnStart       bool     `yaml:"run_on_start" env:"DISTRIBUTION_RUN_ON_START" env-default:"false"`
}

func (c *FtdConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Distribution.Timezone)
}

func (c *FtdConfig) KafkaBrokers() []string {
	if c.KafkaService.Host == "" {
		return nil
	}
	return []string{fmt.Sprintf("%s:%s", c.KafkaService.Host, c.KafkaService.Port)}
}

func Load(configPath string) (*FtdConfig, error) {
	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	var cfg FtdConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if _, err := cfg.Location(); err != nil {
		return nil, fmt.Errorf("invalid distribution timezone %q: %w", cfg.Distribution.Timezone, err)
	}
	if cfg.Distribution.OwnerWorkers <= 0 {
		cfg.Distribution.OwnerWorkers = 1
	}

	return &cfg, nil
}

func MustLoad() *FtdConfig {

	// Processing env config variable and file
	configPath := os.Getenv("FTD_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("FTD_CONFIG_PATH was not found\n")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("%v", err)
	}

	return cfg
}
