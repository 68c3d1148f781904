package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/NilFoundation/vvm/internal/types"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes the environment variables overriding configuration keys,
// e.g. VVM_MAX_CALL_DEPTH or VVM_SCHEDULE_CALL.
const EnvPrefix = "VVM"

type Config struct {
	// Number of nested frames allowed on top of the first one.
	MaxCallDepth uint32 `mapstructure:"max_call_depth" yaml:"max_call_depth"`
	// Largest value a contract may put into a single storage entry.
	MaxValueSize uint32 `mapstructure:"max_value_size" yaml:"max_value_size"`
	MaxCodeSize  uint32 `mapstructure:"max_code_size" yaml:"max_code_size"`

	ExistentialDeposit types.Value `mapstructure:"existential_deposit" yaml:"existential_deposit"`
	TombstoneDeposit   types.Value `mapstructure:"tombstone_deposit" yaml:"tombstone_deposit"`
	// Price of one unit of gas.
	WeightPrice types.Value `mapstructure:"weight_price" yaml:"weight_price"`
	// If set, a constructor that leaves its contract below the minimum balance fails with
	// ErrorNewContractNotFunded.
	EnforceNewContractFunding bool `mapstructure:"enforce_new_contract_funding" yaml:"enforce_new_contract_funding"`

	Schedule Schedule `mapstructure:"schedule" yaml:"schedule"`
}

func Default() *Config {
	return &Config{
		MaxCallDepth:       32,
		MaxValueSize:       16 * 1024,
		MaxCodeSize:        512 * 1024,
		ExistentialDeposit: types.NewValueFromUint64(1),
		TombstoneDeposit:   types.NewValueFromUint64(16),
		WeightPrice:        types.NewValueFromUint64(1),
		Schedule:           DefaultSchedule(),
	}
}

func (c *Config) Validate() error {
	if c.MaxCallDepth == 0 {
		return errors.New("max_call_depth must be positive")
	}
	if c.MaxValueSize == 0 {
		return errors.New("max_value_size must be positive")
	}
	if c.MaxCodeSize == 0 {
		return errors.New("max_code_size must be positive")
	}
	return nil
}

func decodeValue(f reflect.Type, t reflect.Type, data any) (any, error) {
	if t != reflect.TypeOf(types.Value{}) {
		return data, nil
	}
	switch f.Kind() {
	case reflect.String:
		s, _ := data.(string)
		return types.NewValueFromDecimal(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := reflect.ValueOf(data).Int()
		if n < 0 {
			return nil, fmt.Errorf("negative value %d", n)
		}
		return types.NewValueFromUint64(uint64(n)), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return types.NewValueFromUint64(reflect.ValueOf(data).Uint()), nil
	}
	return data, nil
}

func decodeGas(f reflect.Type, t reflect.Type, data any) (any, error) {
	if f.Kind() == reflect.String && t == reflect.TypeOf(types.Gas(0)) {
		s, _ := data.(string)
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid gas %q: %w", s, err)
		}
		return types.Gas(n), nil
	}
	return data, nil
}

func updateDecoderConfig(config *mapstructure.DecoderConfig) {
	config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
		config.DecodeHook,
		decodeValue,
		decodeGas,
	)
}

// Load reads the configuration. Keys missing from the file keep their defaults, and every
// key can be overridden from the environment. An empty path means defaults plus
// environment.
func Load(path string) (*Config, error) {
	defaults, err := Marshal(Default())
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return nil, fmt.Errorf("failed to read default config: %w", err)
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := new(Config)
	if err := v.Unmarshal(cfg, updateDecoderConfig); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func Marshal(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := Dump(&buf, cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Dump writes the configuration as YAML.
func Dump(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}
