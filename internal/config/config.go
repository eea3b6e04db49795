package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type RentalConfig struct {
	Env        string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer `yaml:"http_server"`
	RentalDB   `yaml:"rental_db"`
	Redis      `yaml:"redis"`
	Kafka      `yaml:"kafka"`
	Gateway    `yaml:"gateway"`
	Lifecycle  `yaml:"lifecycle"`
	LogConfig  `yaml:"log_config"`
}

type HTTPServer struct {
	Host string `yaml:"host" env-default:"0.0.0.0"`
	Port string `yaml:"port" env-default:"8080"`
}

type RentalDB struct {
	Dsn            string `yaml:"dsn" env:"RENTAL_DB_DSN"`
	MigrationsPath string `yaml:"migrations_path"`
}

type Redis struct {
	Addr     string        `yaml:"addr" env-default:"localhost:6379"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	TTL      time.Duration `yaml:"ttl" env-default:"30s"`
}

type Kafka struct {
	Host       string `yaml:"host"`
	Port       string `yaml:"port"`
	OrderTopic string `yaml:"order_topic" env-default:"order-lifecycle-events"`
}

type Gateway struct {
	Environment    string        `yaml:"environment" env-default:"sandbox"`
	MerchantID     string        `yaml:"merchant_id" env:"GATEWAY_MERCHANT_ID"`
	PrivateKeyPEM  string        `yaml:"private_key_pem" env:"GATEWAY_PRIVATE_KEY"`
	PublicKeyPEM   string        `yaml:"public_key_pem" env:"GATEWAY_PUBLIC_KEY"`
	CallbackURL    string        `yaml:"callback_url"`
	SignType       string        `yaml:"sign_type" env-default:"RSA2"`
	RequestTimeout time.Duration `yaml:"request_timeout" env-default:"10s"`
}

type Lifecycle struct {
	PaymentWindow time.Duration `yaml:"payment_window" env-default:"24h"`
	SweepInterval time.Duration `yaml:"sweep_interval" env-default:"60s"`
	SweepTimeout  time.Duration `yaml:"sweep_timeout" env-default:"30s"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env-default:"info"`
	LogFormat string `yaml:"log_format" env-default:"json"`
}

func MustLoad() *RentalConfig {
	configPath := os.Getenv("RENTAL_CONFIG_PATH")
	if configPath == "" {
		log.Fatalf("RENTAL_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	var cfg RentalConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
