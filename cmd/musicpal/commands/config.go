package commands

import (
	"errors"
	"fmt"
	"musicpal/lib/configutil"
	"musicpal/lib/telemetry"
	"os"
	"time"

	"github.com/spf13/cobra"
)

const (
	configEnv  = "MUSICPAL_CONFIG"
	configFile = "musicpal.json5"
)

type Config struct {
	// the hostname, host:port or base url of the device
	Host     string `json:"host"`
	Username string `json:"username"`
	Password string `json:"password"`
	// the maximum time to wait for the device to answer
	TimeoutSeconds float64 `json:"timeout_seconds"`
	// if set, every request/response pair is written into this directory
	DumpDir   string           `json:"dump_dir"`
	Debug     bool             `json:"debug"`
	Telemetry telemetry.Config `json:"telemetry"`
}

var defaultConfig = Config{
	Host:           "musicpal",
	Username:       "admin",
	Password:       "admin",
	TimeoutSeconds: 10,
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds * float64(time.Second))
}

type flagValues struct {
	configPath string
	host       string
	username   string
	password   string
	timeout    float64
	dumpDir    string
	debug      bool
}

func (f *flagValues) register(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVarP(&f.configPath, "config", "c", "", fmt.Sprintf("Path to the config file (default: $%s or <user config dir>/musicpal/%s).", configEnv, configFile))
	flags.StringVarP(&f.host, "host", "H", "", "Hostname or address of the device.")
	flags.StringVarP(&f.username, "user", "u", "", "Username for basic authentication.")
	flags.StringVarP(&f.password, "password", "p", "", "Password for basic authentication.")
	flags.Float64VarP(&f.timeout, "timeout", "t", 0, "Request timeout in seconds.")
	flags.StringVar(&f.dumpDir, "dump-dir", "", "Write every request and response into this directory.")
	flags.BoolVarP(&f.debug, "debug", "d", false, "Show debug logs and raw responses.")
}

func (f *flagValues) resolveConfigPath() (path string, explicit bool, err error) {
	if f.configPath != "" {
		return f.configPath, true, nil
	}
	if env, ok := os.LookupEnv(configEnv); ok && env != "" {
		return env, true, nil
	}
	path, err = configutil.DefaultPath("musicpal", configFile)
	return path, false, err
}

// loadConfig merges, in increasing priority, the defaults, the config file and
// the flags that were given explicitly.
func (f *flagValues) loadConfig(cmd *cobra.Command) (Config, error) {
	var config Config

	path, explicit, err := f.resolveConfigPath()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}
	if path != "" {
		config, err = configutil.ReadConfig[Config](path)
		if errors.Is(err, os.ErrNotExist) && !explicit {
			config, err = Config{}, nil
		}
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		config.Host = f.host
	}
	if flags.Changed("user") {
		config.Username = f.username
	}
	if flags.Changed("password") {
		config.Password = f.password
	}
	if flags.Changed("timeout") {
		config.TimeoutSeconds = f.timeout
	}
	if flags.Changed("dump-dir") {
		config.DumpDir = f.dumpDir
	}
	if flags.Changed("debug") {
		config.Debug = f.debug
	}

	err = configutil.MergeDefaults(&config, defaultConfig)
	if err != nil {
		return Config{}, err
	}
	if config.TimeoutSeconds <= 0 {
		return Config{}, fmt.Errorf("timeout must be positive, got %v", config.TimeoutSeconds)
	}
	return config, nil
}
