package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix префикс переменных окружения, переопределяющих config.toml
// Например: BADCOURT_DATABASE_HOST, BADCOURT_SCHEDULER_PENDING_GRACE_PERIOD, BADCOURT_RABBIT_MQ_URL
const EnvPrefix = "BADCOURT"

var (
	ErrReadConfig    = errors.New("config: failed to read config file")
	ErrEnvOverride   = errors.New("config: failed to apply environment overrides")
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

type Config struct {
	Server          ServerConfig          `toml:"server" split_words:"true"`
	Database        DatabaseConfig        `toml:"database" split_words:"true"`
	Logs            LogsConfig            `toml:"logs" split_words:"true"`
	Metrics         MetricsConfig         `toml:"metrics" split_words:"true"`
	Tracing         TracingConfig         `toml:"tracing" split_words:"true"`
	RabbitMQ        RabbitMQConfig        `toml:"rabbitmq" split_words:"true"`
	FacilityService FacilityServiceConfig `toml:"facility_service" split_words:"true"`
	Scheduler       SchedulerConfig       `toml:"scheduler" split_words:"true"`
	Booking         BookingConfig         `toml:"booking" split_words:"true"`
}

// ServerConfig таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port" split_words:"true"`
	ReadTimeout     int `toml:"read_timeout" split_words:"true"`
	WriteTimeout    int `toml:"write_timeout" split_words:"true"`
	IdleTimeout     int `toml:"idle_timeout" split_words:"true"`
	ShutdownTimeout int `toml:"shutdown_timeout" split_words:"true"`
}

type DatabaseConfig struct {
	Host            string `toml:"host" split_words:"true"`
	Port            int    `toml:"port" split_words:"true"`
	User            string `toml:"user" split_words:"true"`
	Password        string `toml:"password" split_words:"true"`
	DBName          string `toml:"dbname" split_words:"true"`
	SSLMode         string `toml:"sslmode" split_words:"true"`
	MaxOpenConns    int    `toml:"max_open_conns" split_words:"true"`
	MaxIdleConns    int    `toml:"max_idle_conns" split_words:"true"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" split_words:"true"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, sslMode)
}

type LogsConfig struct {
	File  string `toml:"file" split_words:"true"`
	Level string `toml:"level" split_words:"true"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" split_words:"true"`
	Path        string `toml:"path" split_words:"true"`
	ServiceName string `toml:"service_name" split_words:"true"`
}

type TracingConfig struct {
	Enabled     bool    `toml:"enabled" split_words:"true"`
	Endpoint    string  `toml:"endpoint" split_words:"true"`
	Environment string  `toml:"environment" split_words:"true"`
	SampleRatio float64 `toml:"sample_ratio" split_words:"true"`
}

type RabbitMQConfig struct {
	Enabled         bool   `toml:"enabled" split_words:"true"`
	URL             string `toml:"url" split_words:"true"`
	BookingExchange string `toml:"booking_exchange" split_words:"true"`
	PaymentExchange string `toml:"payment_exchange" split_words:"true"`
	PaymentQueue    string `toml:"payment_queue" split_words:"true"`
	Prefetch        int    `toml:"prefetch" split_words:"true"`
}

// FacilityServiceConfig таймаут в секундах
type FacilityServiceConfig struct {
	URL     string `toml:"url" split_words:"true"`
	Timeout int    `toml:"timeout" split_words:"true"`
}

// SchedulerConfig интервалы фоновых воркеров ("20m", "1s", ...)
type SchedulerConfig struct {
	PendingGracePeriod   time.Duration `toml:"pending_grace_period" split_words:"true"`
	ReaperPollInterval   time.Duration `toml:"reaper_poll_interval" split_words:"true"`
	ReaperIdleProbe      time.Duration `toml:"reaper_idle_probe" split_words:"true"`
	StateAdvanceInterval time.Duration `toml:"state_advance_interval" split_words:"true"`
	ReaperDeleteExpired  bool          `toml:"reaper_delete_expired" split_words:"true"`
}

type BookingConfig struct {
	DefaultSlotMinutes int `toml:"default_slot_minutes" split_words:"true"`
}

// Default значения, используемые, если поле не задано ни в файле, ни в окружении
func Default() *Config {
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
			DBName:          "badcourt",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "badcourt-booking",
		},
		Tracing: TracingConfig{
			Endpoint:    "otel-collector:4317",
			Environment: "dev",
			SampleRatio: 1,
		},
		RabbitMQ: RabbitMQConfig{
			BookingExchange: "booking.exchange",
			PaymentExchange: "payment.exchange",
			PaymentQueue:    "booking.payment.q",
			Prefetch:        10,
		},
		FacilityService: FacilityServiceConfig{Timeout: 5},
		Scheduler: SchedulerConfig{
			PendingGracePeriod:   20 * time.Minute,
			ReaperPollInterval:   time.Second,
			ReaperIdleProbe:      time.Minute,
			StateAdvanceInterval: 5 * time.Minute,
		},
		Booking: BookingConfig{DefaultSlotMinutes: 60},
	}
}

// Load читает config.toml поверх значений по умолчанию, затем .env и переменные окружения
// Отсутствующий файл не является ошибкой
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
		}
	}

	// .env необязателен
	_ = godotenv.Load()

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEnvOverride, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет значения, без которых сервис не может работать
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port=%d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}
	if c.Scheduler.PendingGracePeriod <= 0 {
		return fmt.Errorf("%w: scheduler.pending_grace_period must be positive", ErrInvalidConfig)
	}
	if c.Scheduler.ReaperPollInterval <= 0 {
		return fmt.Errorf("%w: scheduler.reaper_poll_interval must be positive", ErrInvalidConfig)
	}
	if c.Scheduler.ReaperIdleProbe <= 0 {
		return fmt.Errorf("%w: scheduler.reaper_idle_probe must be positive", ErrInvalidConfig)
	}
	if c.Scheduler.StateAdvanceInterval <= 0 {
		return fmt.Errorf("%w: scheduler.state_advance_interval must be positive", ErrInvalidConfig)
	}
	if c.Booking.DefaultSlotMinutes <= 0 {
		return fmt.Errorf("%w: booking.default_slot_minutes must be positive", ErrInvalidConfig)
	}
	if c.RabbitMQ.Enabled && c.RabbitMQ.URL == "" {
		return fmt.Errorf("%w: rabbitmq.url is required when rabbitmq is enabled", ErrInvalidConfig)
	}
	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		return fmt.Errorf("%w: tracing.endpoint is required when tracing is enabled", ErrInvalidConfig)
	}
	return nil
}
