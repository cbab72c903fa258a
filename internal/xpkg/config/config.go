package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	DB    *Postgres
	RMQ   *RabbitMQ
	Order *Order
}

type Postgres struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
}

type RabbitMQ struct {
	Host     string
	Port     string
	User     string
	Password string
	VHost    string
}

type Order struct {
	CutoffHours int
}

func Load() (*Config, error) {
	cutoffHours, err := getEnvInt("ORDER_CUTOFF_HOURS", 4)
	if err != nil {
		return nil, err
	}

	return &Config{
		DB: &Postgres{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", "postgres"),
			Database: getEnv("POSTGRES_DBNAME", "mealdesk"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		RMQ: &RabbitMQ{
			Host:     getEnv("RABBITMQ_HOST", "localhost"),
			Port:     getEnv("RABBITMQ_PORT", "5672"),
			User:     getEnv("RABBITMQ_USER", "guest"),
			Password: getEnv("RABBITMQ_PASSWORD", "guest"),
			VHost:    getEnv("RABBITMQ_VHOST", ""),
		},
		Order: &Order{
			CutoffHours: cutoffHours,
		},
	}, nil
}

// DSN builds the postgres connection string for pgx.
func (p *Postgres) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Database, p.SSLMode,
	)
}

// URL builds the amqp connection string.
func (r *RabbitMQ) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/%s",
		r.User, r.Password, r.Host, r.Port, r.VHost)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
