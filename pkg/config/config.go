package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/xerrors"

	"github.com/OlehKSS/motorbike-ambulance-calls/pkg/dataprep"
)

const (
	EnvPrefix = "MOTOPREP"

	autoCategories = "auto"
)

// Config describes one selection and encoding run.
type Config struct {
	Features []string      `mapstructure:"features" validate:"required,min=1,dive,required"`
	Encoder  EncoderConfig `mapstructure:"encoder"`
	Input    InputConfig   `mapstructure:"input"`
	Output   OutputConfig  `mapstructure:"output"`
	Log      LogConfig     `mapstructure:"log"`
}

type EncoderConfig struct {
	// Categories is either "auto" or a list of {column, values}.
	Categories    any    `mapstructure:"categories"`
	HandleUnknown string `mapstructure:"handle_unknown" validate:"oneof=error ignore"`
}

type InputConfig struct {
	Path         string `mapstructure:"path"`
	InferNumbers bool   `mapstructure:"infer_numbers"`
	// TestRatio holds out a share of rows from fitting.
	TestRatio float64 `mapstructure:"test_ratio" validate:"gte=0,lt=1"`
	Seed      int64   `mapstructure:"seed"`
}

type OutputConfig struct {
	Path      string `mapstructure:"path"`
	BatchSize int    `mapstructure:"batch_size" validate:"gte=0"`
}

type LogConfig struct {
	Level       string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Development bool   `mapstructure:"development"`
}

type columnCategories struct {
	Column string `mapstructure:"column"`
	Values []any  `mapstructure:"values"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("features", []string{})
	v.SetDefault("encoder.categories", autoCategories)
	v.SetDefault("encoder.handle_unknown", dataprep.HandleUnknownError.String())
	v.SetDefault("input.path", "")
	v.SetDefault("input.infer_numbers", false)
	v.SetDefault("input.test_ratio", 0.0)
	v.SetDefault("input.seed", 0)
	v.SetDefault("output.path", "")
	v.SetDefault("output.batch_size", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// Load is Read followed by Validate.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read reads defaults, then the config file at path (if any), then
// MOTOPREP_* environment variables. The result is not validated.
func Read(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, xerrors.Errorf("unable to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, xerrors.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return xerrors.Errorf("invalid config: %w", err)
	}
	if _, err := c.Encoder.Domain(); err != nil {
		return xerrors.Errorf("invalid config: %w", err)
	}
	return nil
}

// Domain decodes the categories node.
func (c *EncoderConfig) Domain() (dataprep.CategoryDomain, error) {
	switch raw := c.Categories.(type) {
	case nil:
		return dataprep.AutoCategories(), nil
	case string:
		if raw != autoCategories {
			return dataprep.CategoryDomain{}, xerrors.Errorf("categories must be %q or a list, got %q", autoCategories, raw)
		}
		return dataprep.AutoCategories(), nil
	}

	var cols []columnCategories
	if err := mapstructure.Decode(c.Categories, &cols); err != nil {
		return dataprep.CategoryDomain{}, xerrors.Errorf("unable to decode categories: %w", err)
	}
	out := make([]dataprep.ColumnCategories, len(cols))
	for i, col := range cols {
		if col.Column == "" {
			return dataprep.CategoryDomain{}, xerrors.Errorf("categories[%d]: column is required", i)
		}
		out[i] = dataprep.ColumnCategories{Column: col.Column, Values: col.Values}
	}
	return dataprep.ExplicitCategories(out...), nil
}

func (c *EncoderConfig) UnknownPolicy() (dataprep.UnknownPolicy, error) {
	switch c.HandleUnknown {
	case "", dataprep.HandleUnknownError.String():
		return dataprep.HandleUnknownError, nil
	case dataprep.HandleUnknownIgnore.String():
		return dataprep.HandleUnknownIgnore, nil
	default:
		return 0, xerrors.Errorf("unknown handle_unknown policy %q", c.HandleUnknown)
	}
}

// EncoderOptions turns the encoder section into dataprep options.
func (c *Config) EncoderOptions(lgr *zap.Logger) ([]dataprep.Option, error) {
	domain, err := c.Encoder.Domain()
	if err != nil {
		return nil, err
	}
	policy, err := c.Encoder.UnknownPolicy()
	if err != nil {
		return nil, err
	}
	return []dataprep.Option{
		dataprep.WithCategories(domain),
		dataprep.WithHandleUnknown(policy),
		dataprep.WithLogger(lgr),
	}, nil
}

// Logger builds a zap logger at the configured level.
func (c LogConfig) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, xerrors.Errorf("invalid log level: %w", err)
	}
	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
