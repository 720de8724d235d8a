package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns the keyword/value connection string used by the GORM driver.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// URL returns the connection URL used by the migration runner.
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// KafkaConfig holds event bus settings.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// RedisConfig holds cache settings.
type RedisConfig struct {
	Addr         string
	Password     string
	DashboardTTL time.Duration
}

// ServiceConfig holds all configuration for the rental service.
type ServiceConfig struct {
	Port   string
	AppEnv string

	DB    DatabaseConfig
	JWT   JWTConfig
	Kafka KafkaConfig
	Redis RedisConfig
}

// Load reads configuration from RENTAL_-prefixed environment variables
// with local-development defaults.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("RENTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", ":8080")
	v.SetDefault("app_env", "development")

	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", 5432)
	v.SetDefault("db_user", "rental")
	v.SetDefault("db_password", "rental")
	v.SetDefault("db_name", "rental")
	v.SetDefault("db_sslmode", "disable")

	v.SetDefault("jwt_access_ttl", "15m")
	v.SetDefault("jwt_refresh_ttl", "168h")

	v.SetDefault("kafka_brokers", "localhost:9092")
	v.SetDefault("kafka_group_prefix", "rental.")

	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("dashboard_cache_ttl", "60s")

	secret := v.GetString("jwt_secret")
	if secret == "" {
		if v.GetString("app_env") == "production" {
			return nil, fmt.Errorf("RENTAL_JWT_SECRET is required in production")
		}
		secret = "dev-secret-do-not-use"
	}

	port := v.GetString("port")
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	return &ServiceConfig{
		Port:   port,
		AppEnv: v.GetString("app_env"),
		DB: DatabaseConfig{
			Host:     v.GetString("db_host"),
			Port:     v.GetInt("db_port"),
			User:     v.GetString("db_user"),
			Password: v.GetString("db_password"),
			DBName:   v.GetString("db_name"),
			SSLMode:  v.GetString("db_sslmode"),
		},
		JWT: JWTConfig{
			Secret:     secret,
			AccessTTL:  v.GetDuration("jwt_access_ttl"),
			RefreshTTL: v.GetDuration("jwt_refresh_ttl"),
		},
		Kafka: KafkaConfig{
			Brokers:     splitAndTrim(v.GetString("kafka_brokers")),
			GroupPrefix: v.GetString("kafka_group_prefix"),
		},
		Redis: RedisConfig{
			Addr:         v.GetString("redis_addr"),
			Password:     v.GetString("redis_password"),
			DashboardTTL: v.GetDuration("dashboard_cache_ttl"),
		},
	}, nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
