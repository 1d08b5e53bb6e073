package internal

import (
	"fmt"
	"time"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

type Config struct {
	DeliveryDelay   time.Duration `env:"DELIVERY_DELAY,default=1500ms" validate:"gt=0"`
	ForceFailure    bool          `env:"FORCE_FAILURE,default=false"`
	NumberOfWorkers int           `env:"NUMBER_OF_WORKERS,default=1" validate:"min=1"`
	BufferSize      int           `env:"BUFFER_SIZE,default=64" validate:"min=1"`
	SinkTimeout     time.Duration `env:"SINK_TIMEOUT,default=1s" validate:"gt=0"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=200ms" validate:"gte=0"`
	MetricInterval  time.Duration `env:"METRIC_INTERVAL,default=5s" validate:"gte=0"`
	// Percent of a queue capacity above which a warning is logged
	LowCapacityThreshold int    `env:"LOW_CAPACITY_THRESHOLD,default=80" validate:"min=1,max=100"`
	LogLevel             string `env:"LOG_LEVEL,default=INFO" validate:"required"`
	Colours              bool   `env:"COLOURS,default=true"`
}

// LoadConfig reads an optional .env file, then the environment.
// Variables already set in the environment win over the file.
func LoadConfig(envFiles ...string) (Config, error) {
	_ = godotenv.Load(envFiles...)
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
