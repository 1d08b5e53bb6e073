package e2e

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_DELIVERY_DELAY is the simulated network latency used by the scenarios
	DeliveryDelay time.Duration `envconfig:"E2E_DELIVERY_DELAY" default:"30ms"`
	// E2E_TIMEOUT bounds the wait for a message to reach a status
	Timeout time.Duration `envconfig:"E2E_TIMEOUT" default:"3s"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
