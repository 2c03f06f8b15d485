package main

import (
	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the RELAY_* environment settings.
type Config struct {
	Addr      string `envconfig:"ADDR" default:":4000" validate:"required"`
	QueueSize int    `envconfig:"QUEUE_SIZE" default:"10" validate:"gte=1"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"INFO" validate:"required"`
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("relay", &cfg); err != nil {
		return cfg, err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
