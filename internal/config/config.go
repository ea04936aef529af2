package config

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/common"
	coloredcoinsconfig "github.com/gaze-network/coloredcoins-network/modules/coloredcoins/config"
	"github.com/gaze-network/coloredcoins-network/pkg/logger"
	"github.com/gaze-network/coloredcoins-network/pkg/logger/slogx"
	"github.com/gaze-network/coloredcoins-network/pkg/middleware/requestcontext"
	"github.com/gaze-network/coloredcoins-network/pkg/middleware/requestlogger"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	isInit   bool
	mu       sync.Mutex
	config   = defaultConfig()
	defaults = map[string]any{
		"logger.output":                        "TEXT",
		"network":                              common.NetworkMainnet,
		"http_server.port":                     8080,
		"http_server.logger.skip_paths":        []string{"/"},
		"modules.coloredcoins.api_handlers":    []string{"http"},
		"modules.coloredcoins.events.enabled":  true,
		"modules.coloredcoins.request_timeout": "30s",
	}
)

type Config struct {
	Logger     logger.Config  `mapstructure:"logger"`
	Network    common.Network `mapstructure:"network"`
	HTTPServer HTTPServer     `mapstructure:"http_server"`
	Modules    Modules        `mapstructure:"modules"`
}

type Modules struct {
	ColoredCoins coloredcoinsconfig.Config `mapstructure:"coloredcoins"`
}

type HTTPServer struct {
	Port      int                                `mapstructure:"port"`
	Logger    requestlogger.Config               `mapstructure:"logger"`
	RequestIP requestcontext.WithClientIPConfig `mapstructure:"requestip"`
}

func defaultConfig() *Config {
	return &Config{
		Logger: logger.Config{
			Output: "TEXT",
		},
		Network: common.NetworkMainnet,
		HTTPServer: HTTPServer{
			Port: 8080,
		},
	}
}

// Parse parse the configuration from environment variables and config file (if any).
func Parse(configFile ...string) Config {
	mu.Lock()
	defer mu.Unlock()
	return parse(configFile...)
}

func parse(configFile ...string) Config {
	ctx := logger.WithContext(context.Background(), slog.String("package", "config"))

	if len(configFile) > 0 && configFile[0] != "" {
		viper.SetConfigFile(configFile[0])
	} else {
		viper.AddConfigPath("./")
		viper.SetConfigName("config")
	}

	for key, value := range defaults {
		viper.SetDefault(key, value)
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		var errNotfound viper.ConfigFileNotFoundError
		if errors.As(err, &errNotfound) {
			logger.WarnContext(ctx, "Config file not found, use default config value", slogx.Error(err))
		} else {
			logger.PanicContext(ctx, "Invalid config file", slogx.Error(err))
		}
	}

	if err := viper.Unmarshal(config); err != nil {
		logger.PanicContext(ctx, "Something went wrong, failed to unmarshal config", slogx.Error(err))
	}

	isInit = true
	return *config
}

// Load returns the loaded configuration. Parse is called on first use.
func Load() Config {
	mu.Lock()
	defer mu.Unlock()
	if !isInit {
		return parse()
	}
	return *config
}

// BindPFlag binds a specific key to a pflag (as used by cobra).
func BindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		logger.Panic("Something went wrong, failed to bind flag for config", slog.String("package", "config"), slogx.Error(err))
	}
}
