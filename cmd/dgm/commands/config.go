package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config is the resolved CLI configuration (flags, then DGM_* env, then file).
type Config struct {
	Strategy   string
	Iterations int
	Workers    int
	Epsilon    float64
	TRWMode    string
	LogLevel   string
	LogJSON    bool

	Denoise DenoiseConfig
}

// DenoiseConfig configures the lattice denoising demo.
type DenoiseConfig struct {
	Width      int
	Height     int
	States     int
	Noise      float64
	Confidence float64
	Smoothness float64
	Seed       int64
	Conn8      bool
}

var errConfig = errors.New("dgm: invalid configuration")

func loadConfig(v *viper.Viper) Config {
	return Config{
		Strategy:   v.GetString("strategy"),
		Iterations: v.GetInt("iterations"),
		Workers:    v.GetInt("workers"),
		Epsilon:    v.GetFloat64("epsilon"),
		TRWMode:    v.GetString("trw-mode"),
		LogLevel:   v.GetString("log-level"),
		LogJSON:    v.GetBool("log-json"),
		Denoise: DenoiseConfig{
			Width:      v.GetInt("width"),
			Height:     v.GetInt("height"),
			States:     v.GetInt("states"),
			Noise:      v.GetFloat64("noise"),
			Confidence: v.GetFloat64("confidence"),
			Smoothness: v.GetFloat64("smoothness"),
			Seed:       v.GetInt64("seed"),
			Conn8:      v.GetBool("conn8"),
		},
	}
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var err error
	if _, ok := strategies[c.Strategy]; !ok {
		err = multierr.Append(err, fmt.Errorf("strategy %q: %w", c.Strategy, errConfig))
	}
	if c.Iterations < 0 {
		err = multierr.Append(err, fmt.Errorf("iterations=%d < 0: %w", c.Iterations, errConfig))
	}
	if c.Workers < 1 {
		err = multierr.Append(err, fmt.Errorf("workers=%d < 1: %w", c.Workers, errConfig))
	}
	if c.TRWMode != "trws" && c.TRWMode != "bp" {
		err = multierr.Append(err, fmt.Errorf("trw-mode %q: %w", c.TRWMode, errConfig))
	}
	if _, perr := zapcore.ParseLevel(c.LogLevel); perr != nil {
		err = multierr.Append(err, fmt.Errorf("log-level %q: %w", c.LogLevel, errConfig))
	}

	return err
}

// Validate reports every invalid denoise field at once.
func (d DenoiseConfig) Validate() error {
	var err error
	if d.Width < 1 || d.Height < 1 {
		err = multierr.Append(err, fmt.Errorf("size %dx%d: %w", d.Width, d.Height, errConfig))
	}
	if d.States < 2 || d.States > 255 {
		err = multierr.Append(err, fmt.Errorf("states=%d: %w", d.States, errConfig))
	}
	if d.Noise < 0 || d.Noise > 1 {
		err = multierr.Append(err, fmt.Errorf("noise=%g not in [0,1]: %w", d.Noise, errConfig))
	}
	if d.Confidence <= 0 || d.Confidence >= 1 {
		err = multierr.Append(err, fmt.Errorf("confidence=%g not in (0,1): %w", d.Confidence, errConfig))
	}
	if d.Smoothness < 1 {
		err = multierr.Append(err, fmt.Errorf("smoothness=%g < 1: %w", d.Smoothness, errConfig))
	}

	return err
}

func newLogger(c Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	zc := zap.NewDevelopmentConfig()
	if c.LogJSON {
		zc = zap.NewProductionConfig()
	}
	zc.Level = level
	zc.OutputPaths = []string{"stderr"}

	return zc.Build()
}
