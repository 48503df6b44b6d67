package config

import (
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HttpServer     HttpServerConfig     `envconfig:"HTTP_SERVER"`
	Database       DatabaseConfig       `envconfig:"DATABASE"`
	Redis          RedisConfig          `envconfig:"REDIS"`
	HttpClient     HttpClientConfig     `envconfig:"HTTP_CLIENT"`
	MessageStream  MessageStreamConfig  `envconfig:"MESSAGE_STREAM"`
	PaymentGateway PaymentGatewayConfig `envconfig:"PAYMENT_GATEWAY"`
	CatalogService CatalogServiceConfig `envconfig:"CATALOG_SERVICE"`
	UserService    UserServiceConfig    `envconfig:"USER_SERVICE"`
	Booking        BookingConfig        `envconfig:"BOOKING"`
}

type HttpServerConfig struct {
	Port string `envconfig:"HTTP_SERVER_PORT" default:"3000"`
}

type DatabaseConfig struct {
	Host     string `envconfig:"DATABASE_HOST" default:"localhost"`
	Port     string `envconfig:"DATABASE_PORT" default:"5432"`
	Username string `envconfig:"DATABASE_USERNAME" default:"postgres"`
	Password string `envconfig:"DATABASE_PASSWORD" default:"postgres"`
	Name     string `envconfig:"DATABASE_NAME" default:"zero_movie"`
	SSLMode  string `envconfig:"DATABASE_SSL_MODE" default:"disable"`
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type HttpClientConfig struct {
	Type                string        `envconfig:"HTTP_CLIENT_TYPE" default:"consecutive"`
	Timeout             time.Duration `envconfig:"HTTP_CLIENT_TIMEOUT" default:"10s"`
	ConsecutiveFailures int64         `envconfig:"HTTP_CLIENT_CONSECUTIVE_FAILURES" default:"5"`
	ErrorRate           float64       `envconfig:"HTTP_CLIENT_ERROR_RATE" default:"0.65"`
	MinSamples          int64         `envconfig:"HTTP_CLIENT_MIN_SAMPLES" default:"100"`
}

type MessageStreamConfig struct {
	Host     string `envconfig:"MESSAGE_STREAM_HOST" default:"localhost"`
	Port     string `envconfig:"MESSAGE_STREAM_PORT" default:"5672"`
	Username string `envconfig:"MESSAGE_STREAM_USERNAME" default:"guest"`
	Password string `envconfig:"MESSAGE_STREAM_PASSWORD" default:"guest"`
}

type PaymentGatewayConfig struct {
	BaseURL   string `envconfig:"PAYMENT_GATEWAY_BASE_URL" default:"https://api.sandbox.paypal.com"`
	ClientID  string `envconfig:"PAYMENT_GATEWAY_CLIENT_ID"`
	SecretKey string `envconfig:"PAYMENT_GATEWAY_SECRET_KEY"`
	ReturnURL string `envconfig:"PAYMENT_GATEWAY_RETURN_URL" default:"http://localhost:3000/api/v1/bookings/resume"`
}

type CatalogServiceConfig struct {
	Host string `envconfig:"CATALOG_SERVICE_HOST" default:"localhost"`
	Port string `envconfig:"CATALOG_SERVICE_PORT" default:"8081"`
}

type UserServiceConfig struct {
	Host string `envconfig:"USER_SERVICE_HOST" default:"localhost"`
	Port string `envconfig:"USER_SERVICE_PORT" default:"8080"`
}

type BookingConfig struct {
	HoldTimeout   time.Duration `envconfig:"BOOKING_HOLD_TIMEOUT" default:"12m"`
	SweepInterval time.Duration `envconfig:"BOOKING_SWEEP_INTERVAL" default:"60s"`
	Currency      string        `envconfig:"BOOKING_CURRENCY" default:"USD"`
}

func InitConfig() *Config {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("error process env config: %v", err)
	}
	return &cfg
}
