package main

import (
	"fmt"
	"time"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"

	"github.com/omochice/relay-chat/pkg/protocol"
)

var validate = validator.New()

// Config is read from the environment, after an optional .env file.
type Config struct {
	RelayAddr   string        `env:"CHAT_RELAY_ADDR,default=ws://localhost:4000" validate:"required"`
	Identity    string        `env:"CHAT_IDENTITY,default=user1" validate:"required,max=64"`
	DialTimeout time.Duration `env:"CHAT_DIAL_TIMEOUT,default=5s" validate:"gt=0"`
	Color       bool          `env:"CHAT_COLOR,default=true"`
	LogLevel    string        `env:"LOG_LEVEL,default=ERROR" validate:"oneof=DEBUG INFO WARN ERROR debug info warn error"`
}

func loadConfig() (Config, error) {
	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return cfg, err
	}
	if err := validate.Struct(cfg); err != nil {
		return cfg, err
	}
	if err := protocol.ValidateIdentity(cfg.Identity); err != nil {
		return cfg, fmt.Errorf("invalid CHAT_IDENTITY %q: %w", cfg.Identity, err)
	}
	return cfg, nil
}
