package tlv

import (
	"github.com/eluv-io/errors-go"
	"github.com/mitchellh/mapstructure"
)

const (
	// DefaultMaxValueLength is the default upper bound for the payload of a single node.
	DefaultMaxValueLength = 65535
	// DefaultMaxDepth is the default nesting limit for constructed values accepted by the parser.
	DefaultMaxDepth = 1 << 16
)

// Config holds the limits applied when creating and parsing nodes.
type Config struct {
	// MaxValueLength is the maximum number of payload bytes of a node.
	MaxValueLength int `json:"max_value_length"`
	// MaxDepth is the maximum nesting of constructed values the parser expands.
	MaxDepth int `json:"max_depth"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MaxValueLength: DefaultMaxValueLength,
		MaxDepth:       DefaultMaxDepth,
	}
}

// Validate checks the config for sane values.
func (c Config) Validate() error {
	e := errors.Template("Config.Validate", errors.K.Invalid)
	if c.MaxValueLength < 0 || int64(c.MaxValueLength) > MaxLength {
		return e(InvalidValueLength, "max_value_length", c.MaxValueLength)
	}
	if c.MaxDepth < 1 {
		return e(InvalidState, "reason", "max depth must be positive", "max_depth", c.MaxDepth)
	}
	return nil
}

// ConfigFromMap decodes a config from a generic map, e.g. produced by unmarshaling JSON or YAML. Missing entries keep
// their default values.
func ConfigFromMap(m map[string]interface{}) (Config, error) {
	e := errors.Template("ConfigFromMap", errors.K.Invalid)

	cfg := DefaultConfig()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           &cfg,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Config{}, e(err)
	}
	err = decoder.Decode(m)
	if err != nil {
		return Config{}, e(err)
	}
	err = cfg.Validate()
	if err != nil {
		return Config{}, e(err)
	}
	return cfg, nil
}

// Option configures the creation of nodes or the parser.
type Option func(*Config)

// WithConfig replaces the entire configuration.
func WithConfig(cfg Config) Option {
	return func(c *Config) {
		*c = cfg
	}
}

// WithMaxValueLength sets the maximum payload length.
func WithMaxValueLength(max int) Option {
	return func(c *Config) {
		c.MaxValueLength = max
	}
}

// WithMaxDepth sets the maximum nesting depth accepted by the parser.
func WithMaxDepth(max int) Option {
	return func(c *Config) {
		c.MaxDepth = max
	}
}

func resolve(opts []Option) (Config, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	err := cfg.Validate()
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}
