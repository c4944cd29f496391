package bootstrap

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"gammon_sgf/internal/trace"
)

const DefaultReadChunkSize = 32 * 1024

type Config struct {
	TraceRealm      string `mapstructure:"TRACE_REALM"`
	StrictCubeOwner bool   `mapstructure:"STRICT_CUBE_OWNER"`
	StrictMoves     bool   `mapstructure:"STRICT_MOVES"`
	ReadChunkSize   int    `mapstructure:"READ_CHUNK_SIZE"`
	LogDevelopment  bool   `mapstructure:"LOG_DEVELOPMENT"`
}

// flagKeys maps command line flags onto configuration keys.
var flagKeys = map[string]string{
	"trace-realm":       "TRACE_REALM",
	"strict-cube-owner": "STRICT_CUBE_OWNER",
	"strict-moves":      "STRICT_MOVES",
	"read-chunk-size":   "READ_CHUNK_SIZE",
	"log-development":   "LOG_DEVELOPMENT",
}

// Setup reads the optional config file at cfgPath, SGF_* environment
// variables and the flags that are registered in flags. Flags win over the
// environment, which wins over the file.
func Setup(cfgPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault("TRACE_REALM", "")
	v.SetDefault("STRICT_CUBE_OWNER", false)
	v.SetDefault("STRICT_MOVES", false)
	v.SetDefault("READ_CHUNK_SIZE", DefaultReadChunkSize)
	v.SetDefault("LOG_DEVELOPMENT", false)

	v.SetEnvPrefix("SGF")
	v.AutomaticEnv()

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if _, err := trace.ParseRealm(cfg.TraceRealm); err != nil {
		return nil, err
	}
	if cfg.ReadChunkSize <= 0 {
		cfg.ReadChunkSize = DefaultReadChunkSize
	}

	return &cfg, nil
}

// RegisterFlags declares the flags understood by Setup.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("trace-realm", "", "enable verbose tracing for one realm (parser, cooker, match)")
	flags.Bool("strict-cube-owner", false, "do not accept CP as cube owner")
	flags.Bool("strict-moves", false, "treat moves that break the dice rules as errors")
	flags.Int("read-chunk-size", DefaultReadChunkSize, "bytes read between cancellation checks")
	flags.Bool("log-development", false, "human readable logs")
}
