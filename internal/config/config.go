package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SessionBookingService/internal/domain"
)

var (
	// ErrReadConfig ошибка чтения файла конфигурации
	ErrReadConfig = errors.New("config: failed to read config file")

	// ErrInvalidConfig конфигурация не прошла валидацию
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Переменные окружения, переопределяющие значения из файла
const (
	EnvDatabasePassword = "DATABASE_PASSWORD"
	EnvStripeSecretKey  = "STRIPE_SECRET_KEY"
	EnvPlatformFeeRate  = "PLATFORM_FEE_RATE"
)

// Config конфигурация сервиса
type Config struct {
	Server          ServerConfig          `toml:"server"`
	Database        DatabaseConfig        `toml:"database"`
	Logs            LogsConfig            `toml:"logs"`
	Metrics         MetricsConfig         `toml:"metrics"`
	OfferingService OfferingServiceConfig `toml:"offering_service"`
	Payments        PaymentsConfig        `toml:"payments"`
	Reaper          ReaperConfig          `toml:"reaper"`
}

// ServerConfig параметры HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig параметры подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// URL строка подключения для golang-migrate
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

// LogsConfig параметры логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig параметры Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// OfferingServiceConfig адрес сервиса услуг и практиков
type OfferingServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// PaymentsConfig параметры платежного провайдера и комиссии платформы
type PaymentsConfig struct {
	SecretKey         string `toml:"secret_key"`
	APIURL            string `toml:"api_url"` // пусто = боевой API провайдера
	MaxNetworkRetries int64  `toml:"max_network_retries"`
	PlatformFeeRate   string `toml:"platform_fee_rate"`
	Currency          string `toml:"currency"`
}

// FeeRate ставка комиссии платформы
func (p PaymentsConfig) FeeRate() decimal.Decimal {
	rate, err := decimal.NewFromString(p.PlatformFeeRate)
	if err != nil {
		return decimal.RequireFromString(domain.DefaultPlatformFeeRate)
	}
	return rate
}

// ReaperConfig параметры очистки брошенных бронирований
type ReaperConfig struct {
	Enabled          bool `toml:"enabled"`
	IntervalSeconds  int  `toml:"interval_seconds"`
	AbandonedMinutes int  `toml:"abandoned_minutes"`
	BatchSize        int  `toml:"batch_size"`
}

// Interval период запуска очистки
func (r ReaperConfig) Interval() time.Duration {
	return time.Duration(r.IntervalSeconds) * time.Second
}

// AbandonedAfter через сколько неоплаченное бронирование считается брошенным
func (r ReaperConfig) AbandonedAfter() time.Duration {
	return time.Duration(r.AbandonedMinutes) * time.Minute
}

// Load читает TOML файл, подгружает .env (если есть) и применяет переменные окружения
func Load(path string) (*Config, error) {
	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}

	// .env необязателен
	_ = godotenv.Load()
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "session-booking-service",
		},
		OfferingService: OfferingServiceConfig{Timeout: 5},
		Payments: PaymentsConfig{
			MaxNetworkRetries: 2,
			PlatformFeeRate:   domain.DefaultPlatformFeeRate,
			Currency:          domain.DefaultCurrency,
		},
		Reaper: ReaperConfig{
			Enabled:          true,
			IntervalSeconds:  60,
			AbandonedMinutes: domain.DefaultAbandonedMinutes,
			BatchSize:        domain.DefaultReaperBatchSize,
		},
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvDatabasePassword); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv(EnvStripeSecretKey); v != "" {
		cfg.Payments.SecretKey = v
	}
	if v := os.Getenv(EnvPlatformFeeRate); v != "" {
		cfg.Payments.PlatformFeeRate = v
	}
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	rate, err := decimal.NewFromString(c.Payments.PlatformFeeRate)
	if err != nil {
		return fmt.Errorf("%w: payments.platform_fee_rate %q: %v", ErrInvalidConfig, c.Payments.PlatformFeeRate, err)
	}
	if err := domain.ValidateFeeRate(rate); err != nil {
		return fmt.Errorf("%w: payments.platform_fee_rate: %v", ErrInvalidConfig, err)
	}
	if c.Payments.Currency == "" {
		return fmt.Errorf("%w: payments.currency is empty", ErrInvalidConfig)
	}
	if c.Payments.MaxNetworkRetries < 0 {
		return fmt.Errorf("%w: payments.max_network_retries must be >= 0", ErrInvalidConfig)
	}
	if c.Reaper.Enabled {
		if c.Reaper.IntervalSeconds <= 0 {
			return fmt.Errorf("%w: reaper.interval_seconds must be positive", ErrInvalidConfig)
		}
		if c.Reaper.AbandonedMinutes <= 0 {
			return fmt.Errorf("%w: reaper.abandoned_minutes must be positive", ErrInvalidConfig)
		}
		if c.Reaper.BatchSize <= 0 {
			return fmt.Errorf("%w: reaper.batch_size must be positive", ErrInvalidConfig)
		}
	}
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("%w: server.http_port must be positive", ErrInvalidConfig)
	}
	return nil
}
