package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/GPTx-global/aecli/oracle/log"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. AECLI_NODE_URL.
	EnvPrefix = "AECLI"
	// FileName is the config file inside the home directory.
	FileName = "config.toml"

	DefaultURL          = "https://testnet.aeternity.io"
	DefaultNetworkID    = "ae_uat"
	DefaultPollInterval = "1s"
	DefaultPollAttempts = 60
	DefaultLogLevel     = "warn"
)

// Flag names that override config keys.
const (
	FlagHome      = "home"
	FlagURL       = "url"
	FlagNetworkID = "networkId"
	FlagLogLevel  = "log-level"
)

var flagKeys = map[string]string{
	FlagURL:       "node.url",
	FlagNetworkID: "node.network_id",
	FlagLogLevel:  "log.level",
}

type Config struct {
	Node NodeConfig `toml:"node" mapstructure:"node"`
	Tx   TxConfig   `toml:"tx" mapstructure:"tx"`
	Log  LogConfig  `toml:"log" mapstructure:"log"`

	home string
}

type NodeConfig struct {
	URL       string `toml:"url" mapstructure:"url"`
	NetworkID string `toml:"network_id" mapstructure:"network_id"`
}

// TxConfig bounds the wait for a transaction to be mined.
type TxConfig struct {
	PollInterval string `toml:"poll_interval" mapstructure:"poll_interval"`
	PollAttempts int    `toml:"poll_attempts" mapstructure:"poll_attempts"`
}

type LogConfig struct {
	Level string `toml:"level" mapstructure:"level"`
}

// Default returns the configuration written on first run.
func Default() Config {
	return Config{
		Node: NodeConfig{
			URL:       DefaultURL,
			NetworkID: DefaultNetworkID,
		},
		Tx: TxConfig{
			PollInterval: DefaultPollInterval,
			PollAttempts: DefaultPollAttempts,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// DefaultHome is ~/.aecli.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".aecli"
	}
	return filepath.Join(home, ".aecli")
}

// Load reads <home>/config.toml, creating it with defaults when missing.
// Environment variables and changed flags in fs take precedence over the
// file. fs may be nil.
func Load(home string, fs *pflag.FlagSet) (*Config, error) {
	if home == "" {
		home = DefaultHome()
	}
	path := filepath.Join(home, FileName)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := createDefaultConfig(path); err != nil {
			log.Warnf("Failed to create default config, using built-in defaults: %v", err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			if flag := fs.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil && fileExists(path) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.home = home

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log.Debugf("Loaded config from %s", path)
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("node.url", def.Node.URL)
	v.SetDefault("node.network_id", def.Node.NetworkID)
	v.SetDefault("tx.poll_interval", def.Tx.PollInterval)
	v.SetDefault("tx.poll_attempts", def.Tx.PollAttempts)
	v.SetDefault("log.level", def.Log.Level)
}

func createDefaultConfig(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	data, err := toml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("failed to marshal TOML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (c *Config) validate() error {
	if c.Node.URL == "" {
		return fmt.Errorf("node url is required")
	}

	if c.Node.NetworkID == "" {
		return fmt.Errorf("network id is required")
	}

	interval, err := time.ParseDuration(c.Tx.PollInterval)
	if err != nil {
		return fmt.Errorf("poll interval: %w", err)
	}
	if interval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}

	if c.Tx.PollAttempts <= 0 {
		return fmt.Errorf("poll attempts must be positive")
	}

	return nil
}

func (c *Config) Home() string {
	return c.home
}

// PollInterval is the parsed tx.poll_interval. Load has validated it.
func (c *Config) PollInterval() time.Duration {
	d, _ := time.ParseDuration(c.Tx.PollInterval)
	return d
}

func (c *Config) Print() {
	log.Infof("%-15s: %s", "Home", c.home)
	log.Infof("%-15s: %s", "Node URL", c.Node.URL)
	log.Infof("%-15s: %s", "Network ID", c.Node.NetworkID)
	log.Infof("%-15s: %s", "Poll Interval", c.Tx.PollInterval)
	log.Infof("%-15s: %d", "Poll Attempts", c.Tx.PollAttempts)
	log.Infof("%-15s: %s", "Log Level", c.Log.Level)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
