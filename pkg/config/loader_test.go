package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonetlabs/notifier/pkg/config"
)

type workerConfig struct {
	Workers   int           `env:"TEST_NOTIFIER_WORKERS" envDefault:"4"`
	QueueSize int           `env:"TEST_NOTIFIER_QUEUE_SIZE" envDefault:"10000"`
	Sweep     time.Duration `env:"TEST_NOTIFIER_SWEEP" envDefault:"1s"`
}

type overrideConfig struct {
	Workers int `env:"TEST_OVERRIDE_WORKERS" envDefault:"4"`
}

type cachedConfig struct {
	Value string `env:"TEST_CACHED_VALUE" envDefault:"first"`
}

type requiredConfig struct {
	Token string `env:"TEST_REQUIRED_TOKEN,required"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg workerConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 10000, cfg.QueueSize)
	assert.Equal(t, time.Second, cfg.Sweep)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("TEST_OVERRIDE_WORKERS", "16")

	var cfg overrideConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, 16, cfg.Workers)
}

func TestLoad_CachesPerType(t *testing.T) {
	t.Setenv("TEST_CACHED_VALUE", "first")

	var first cachedConfig
	require.NoError(t, config.Load(&first))
	assert.Equal(t, "first", first.Value)

	// The type was cached; later environment changes are not observed.
	t.Setenv("TEST_CACHED_VALUE", "second")
	var second cachedConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "first", second.Value)
}

func TestLoad_NilPointer(t *testing.T) {
	t.Parallel()

	var cfg *workerConfig
	assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
}

func TestLoad_MissingRequired(t *testing.T) {
	var cfg requiredConfig
	err := config.Load(&cfg)
	assert.ErrorIs(t, err, config.ErrParsingConfig)
}

func TestMustLoad_PanicsOnError(t *testing.T) {
	assert.Panics(t, func() {
		var cfg requiredConfig
		config.MustLoad(&cfg)
	})
}
