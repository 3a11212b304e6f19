package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App         AppConfig
	Server      ServerConfig
	DB          PostgresConfig
	Kafka       KafkaConfig
	ShipStation ShipStationConfig
	Magestack   MagestackConfig
	Eagle       EagleConfig
}

type AppConfig struct {
	Name string
	Env  string
}

type ServerConfig struct {
	Host string
	Port int
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
}

type KafkaConfig struct {
	Brokers           []string
	ShipNotifyTopic   string
	CustomerNoteTopic string
	ConsumerGroup     string
	Workers           int
}

type ShipStationConfig struct {
	BaseURL    string
	AuthHeader string
	StoreNames []string
	WSITagName string
	Timeout    time.Duration
	Retries    int
}

type MagestackConfig struct {
	BaseURL         string
	Timeout         time.Duration
	BreakerFailures int
	BreakerOpenSecs int
}

// EagleConfig holds the fixed codes stamped on every ESTU header.
type EagleConfig struct {
	StoreNumber string
	CustomerID  string
	ClerkID     string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name: getEnv("APP_NAME", "shipstation-triggers"),
			Env:  getEnv("APP_ENV", "local"),
		},
		Server: ServerConfig{
			Host: getEnv("HTTP_HOST", "0.0.0.0"),
			Port: getEnvAsInt("HTTP_PORT", 8030),
		},
		DB: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvAsInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			DBName:   getEnv("POSTGRES_DB", "postgres"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
		},
		Kafka: KafkaConfig{
			Brokers:           splitAndTrim(getEnv("KAFKA_BOOTSTRAP_SERVERS", "localhost:9092")),
			ShipNotifyTopic:   getEnv("KAFKA_SHIP_NOTIFY_TOPIC", "eagle-orders"),
			CustomerNoteTopic: getEnv("KAFKA_CUSTOMER_NOTE_TOPIC", "customer-notes"),
			ConsumerGroup:     getEnv("KAFKA_CONSUMER_GROUP", "eagle-worker"),
			Workers:           getEnvAsInt("KAFKA_WORKERS", 4),
		},
		ShipStation: ShipStationConfig{
			BaseURL:    getEnv("SHIPSTATION_BASE_URL", "https://ssapi.shipstation.com"),
			AuthHeader: getEnv("AUTH_CREDS", ""),
			StoreNames: splitAndTrim(getEnv("SHIPSTATION_STORE_NAMES", "New Amazon Store,New Magento Store")),
			WSITagName: getEnv("SHIPSTATION_WSI_TAG", "WSI"),
			Timeout:    time.Duration(getEnvAsInt("SHIPSTATION_TIMEOUT_MS", 30000)) * time.Millisecond,
			Retries:    getEnvAsInt("SHIPSTATION_RETRIES", 2),
		},
		Magestack: MagestackConfig{
			BaseURL:         getEnv("MAGESTACK_URL", ""),
			Timeout:         time.Duration(getEnvAsInt("MAGESTACK_TIMEOUT_MS", 10000)) * time.Millisecond,
			BreakerFailures: getEnvAsInt("MAGESTACK_BREAKER_FAILURES", 5),
			BreakerOpenSecs: getEnvAsInt("MAGESTACK_BREAKER_OPEN_SECS", 30),
		},
		Eagle: EagleConfig{
			StoreNumber: getEnv("EAGLE_STORE_NUMBER", "1"),
			CustomerID:  getEnv("EAGLE_CUSTOMER_ID", "145050"),
			ClerkID:     getEnv("EAGLE_CLERK_ID", "EComm"),
		},
	}

	return cfg, cfg.validate()
}

func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User,
		p.Password,
		p.Host,
		p.Port,
		p.DBName,
		p.SSLMode,
	)
}

/* ================= helpers ================= */

func (c *Config) validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("HTTP_PORT is invalid")
	}
	if c.DB.Host == "" || c.DB.User == "" || c.DB.DBName == "" {
		return fmt.Errorf("database config is incomplete")
	}
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka brokers is empty")
	}
	if c.Kafka.ShipNotifyTopic == "" || c.Kafka.CustomerNoteTopic == "" {
		return fmt.Errorf("kafka topics are incomplete")
	}
	if len(c.ShipStation.StoreNames) == 0 {
		return fmt.Errorf("SHIPSTATION_STORE_NAMES is empty")
	}
	// AUTH_CREDS and MAGESTACK_URL are checked by the binaries that call out.
	return nil
}

func getEnv(key, defaultVal string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if val := strings.TrimSpace(p); val != "" {
			out = append(out, val)
		}
	}
	return out
}
