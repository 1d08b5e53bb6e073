package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	req := require.New(t)

	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))

	req.NoError(err)
	req.Equal(1500*time.Millisecond, config.DeliveryDelay)
	req.False(config.ForceFailure)
	req.Equal(1, config.NumberOfWorkers)
	req.Equal(64, config.BufferSize)
	req.Equal(time.Second, config.SinkTimeout)
	req.Equal("INFO", config.LogLevel)
	req.True(config.Colours)
	req.Equal(5*time.Second, config.MetricInterval)
	req.Equal(80, config.LowCapacityThreshold)
}

func TestLoadConfig_From_Environment(t *testing.T) {
	req := require.New(t)
	t.Setenv("DELIVERY_DELAY", "250ms")
	t.Setenv("FORCE_FAILURE", "true")
	t.Setenv("NUMBER_OF_WORKERS", "4")

	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))

	req.NoError(err)
	req.Equal(250*time.Millisecond, config.DeliveryDelay)
	req.True(config.ForceFailure)
	req.Equal(4, config.NumberOfWorkers)
}

func TestLoadConfig_From_Env_File(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), ".env")
	req.NoError(os.WriteFile(path, []byte("BUFFER_SIZE=8\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("BUFFER_SIZE") })

	config, err := LoadConfig(path)

	req.NoError(err)
	req.Equal(8, config.BufferSize)
}

func TestConfig_Validate(t *testing.T) {
	req := require.New(t)
	valid := Config{
		DeliveryDelay:   time.Second,
		NumberOfWorkers: 1,
		BufferSize:      1,
		SinkTimeout:     time.Second,
		LogLevel:        "DEBUG",

		LowCapacityThreshold: 80,
	}
	req.NoError(valid.Validate())

	noDelay := valid
	noDelay.DeliveryDelay = 0
	req.Error(noDelay.Validate())

	noWorker := valid
	noWorker.NumberOfWorkers = 0
	req.Error(noWorker.Validate())
}
