package config

import (
	"fmt"
	"path/filepath"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"pouw.net/pkg/currency"
	"pouw.net/pkg/fixedpoint"
)

var SmartContractConfig *viper.Viper

// DbAccess describes where emitted events are persisted.
type DbAccess struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Driver  string `json:"driver" mapstructure:"driver"`
	DSN     string `json:"dsn" mapstructure:"dsn"`
	Debug   bool   `json:"debug" mapstructure:"debug"`
}

//SetupDefaultConfig - setup the default config options that can be overridden via the config file
func SetupDefaultConfig() {
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.console", false)
	viper.SetDefault("logging.dir", "log")
	viper.SetDefault("event_db.enabled", false)
	viper.SetDefault("event_db.driver", "sqlite")
	viper.SetDefault("event_db.dsn", "file::memory:?cache=shared")
	viper.SetDefault("event_db.debug", false)
	viper.SetDefault("development.check_invariants", true)
}

/*SetupConfig - setup the configuration system */
func SetupConfig() {
	viper.SetConfigName("pouw")
	viper.AddConfigPath("./config")
	err := viper.ReadInConfig() // Find and read the config file
	if err != nil {             // Handle errors reading the config file
		panic(fmt.Errorf("fatal error config file: %s", err))
	}
	setupDevConfig()
}

// ReadNodeConfig reads the node configuration from file over the defaults.
// An empty file keeps the defaults.
func ReadNodeConfig(file string) error {
	SetupDefaultConfig()
	if file != "" {
		viper.SetConfigFile(file)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file %v - %v", file, err)
		}
	}
	setupDevConfig()
	return nil
}

// ReadSmartContractConfig loads the contract configuration from file. An
// empty file keeps the defaults.
func ReadSmartContractConfig(file string) error {
	v := viper.New()
	if file != "" {
		var err error
		if v, err = ReadConfig(file); err != nil {
			return err
		}
	}
	SmartContractConfig = v
	SetupDefaultSmartContractConfig()
	return nil
}

// SetupDefaultSmartContractConfig fills the mining contract genesis defaults.
func SetupDefaultSmartContractConfig() {
	if SmartContractConfig == nil {
		SmartContractConfig = viper.New()
	}
	SmartContractConfig.SetDefault("smart_contracts.miningsc.cool_down_period", 604800)
	SmartContractConfig.SetDefault("smart_contracts.miningsc.expected_heartbeat_count", 20)
	SmartContractConfig.SetDefault("smart_contracts.miningsc.secs_per_tick", 12)
	SmartContractConfig.SetDefault("smart_contracts.miningsc.owner", "owner")
	SmartContractConfig.SetDefault("smart_contracts.miningsc.pool_account", "mining_pool")
	SmartContractConfig.SetDefault("smart_contracts.miningsc.subsidy_account", "subsidy_pool")
}

/*SetupSmartContractConfig - setup the configuration system */
func SetupSmartContractConfig() {
	SmartContractConfig = viper.New()
	SmartContractConfig.SetConfigName("sc")
	SmartContractConfig.AddConfigPath("./config")
	SetupDefaultSmartContractConfig()
	err := SmartContractConfig.ReadInConfig() // Find and read the config file
	if err != nil {                           // Handle errors reading the config file
		panic(fmt.Errorf("fatal error config file: %s", err))
	}
}

//ReadConfig - read a configuration from a file given as path/to/config/dir/config.configtype
func ReadConfig(file string) (*viper.Viper, error) {
	dir, fileName := filepath.Split(file)
	ext := filepath.Ext(fileName)
	if ext == "" {
		ext = ".yaml"
	} else {
		fileName = fileName[:len(fileName)-len(ext)]
	}
	format := ext[1:]
	if dir == "" {
		dir = "."
	}
	nodeConfig := viper.New()
	nodeConfig.AddConfigPath(dir)
	nodeConfig.SetConfigName(fileName)
	nodeConfig.SetConfigType(format)
	if err := nodeConfig.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %v - %v", file, err)
	}
	return nodeConfig, nil
}

// GetDbAccess reads the event_db section of the global configuration.
func GetDbAccess() DbAccess {
	return DbAccess{
		Enabled: viper.GetBool("event_db.enabled"),
		Driver:  viper.GetString("event_db.driver"),
		DSN:     viper.GetString("event_db.dsn"),
		Debug:   viper.GetBool("event_db.debug"),
	}
}

var (
	fixedType = reflect.TypeOf(fixedpoint.U64F64{})
	coinType  = reflect.TypeOf(currency.Coin(0))
)

// FixedPointHook decodes decimal literals ("1.5", 0.3) into fixed point values.
func FixedPointHook() mapstructure.DecodeHookFuncType {
	return func(from, to reflect.Type, data interface{}) (interface{}, error) {
		if to != fixedType {
			return data, nil
		}
		switch from.Kind() {
		case reflect.String:
			return fixedpoint.Parse(data.(string))
		case reflect.Int, reflect.Int64, reflect.Int32:
			return fixedpoint.Parse(fmt.Sprintf("%d", data))
		case reflect.Float64:
			return nil, fmt.Errorf("fixed point value %v must be quoted", data)
		}
		return data, nil
	}
}

// CoinHook decodes token amounts ("3162.27") into balances.
func CoinHook() mapstructure.DecodeHookFuncType {
	return func(from, to reflect.Type, data interface{}) (interface{}, error) {
		if to != coinType || from.Kind() != reflect.String {
			return data, nil
		}
		return currency.ParseToken(data.(string))
	}
}

func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		FixedPointHook(),
		CoinHook(),
		mapstructure.StringToTimeDurationHookFunc(),
	)
}

// UnmarshalKey decodes a configuration subtree with the fixed point and coin
// hooks installed.
func UnmarshalKey(v *viper.Viper, key string, out interface{}) error {
	return v.UnmarshalKey(key, out, viper.DecodeHook(decodeHook()))
}

// Decode overlays a loosely typed map, as read from yaml, on out using the
// same hooks as UnmarshalKey. Keys out does not know are ignored.
func Decode(input interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       decodeHook(),
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}
