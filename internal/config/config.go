// Package config loads and validates the YAML configuration for the
// tool-change monitoring service.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values mirror the original Python service's MonitoringConfig
// defaults so an existing deployment's config.yaml keeps its behavior
// unchanged when it omits a field.
const (
	DefaultPort                     = 8193
	DefaultPollIntervalMs           = 100
	DefaultDebounceConsecutiveReads = 2
	DefaultHeartbeatIntervalS       = 2
	DefaultReconnectMinDelayS       = 0.5
	DefaultReconnectMaxDelayS       = 30.0
	DefaultMQTTPort                 = 1883
	DefaultFOCASLibraryPath         = "/usr/local/lib/libfwlib32.so"
	DefaultFOCASMacroAddress        = 4120
	DefaultFOCASMacroLength         = 10
	DefaultLogLevel                 = "info"
)

// PathConfig is one monitored CNC path.
type PathConfig struct {
	Path int `yaml:"path"`
}

// MachineConfig is a single CNC machine and the paths to monitor on it.
type MachineConfig struct {
	MachineID      string       `yaml:"machine_id"`
	IP             string       `yaml:"ip"`
	Port           int          `yaml:"port"`
	PollIntervalMs int          `yaml:"poll_interval_ms"`
	MonitoredPaths []PathConfig `yaml:"monitored_paths"`
}

func (m MachineConfig) validate() error {
	if m.MachineID == "" {
		return fmt.Errorf("machine_id is required")
	}
	if m.IP == "" {
		return fmt.Errorf("machine %s: ip is required", m.MachineID)
	}
	if len(m.MonitoredPaths) == 0 {
		return fmt.Errorf("machine %s: monitored_paths array is required", m.MachineID)
	}
	return nil
}

// FOCASConfig configures the production FOCAS client.
type FOCASConfig struct {
	LibraryPath  string `yaml:"library_path"`
	MacroAddress int    `yaml:"macro_address"`
	MacroLength  int    `yaml:"macro_length"`
}

// MQTTConfig configures the bus connection.
type MQTTConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	TLS      bool   `yaml:"tls"`
}

func (m MQTTConfig) validate() error {
	if m.Host == "" {
		return fmt.Errorf("mqtt: host is required")
	}
	return nil
}

// MonitoringConfig configures debounce, polling, heartbeat and
// reconnect behavior shared across all machines unless a machine
// overrides poll_interval_ms.
type MonitoringConfig struct {
	PollIntervalMsDefault    int     `yaml:"poll_interval_ms_default"`
	DebounceConsecutiveReads int     `yaml:"debounce_consecutive_reads"`
	HeartbeatIntervalS       int     `yaml:"heartbeat_interval_s"`
	ReconnectMinDelayS       float64 `yaml:"reconnect_min_delay_s"`
	ReconnectMaxDelayS       float64 `yaml:"reconnect_max_delay_s"`
}

// HeartbeatInterval returns the heartbeat period as a time.Duration.
func (m MonitoringConfig) HeartbeatInterval() time.Duration {
	return time.Duration(m.HeartbeatIntervalS) * time.Second
}

// ReconnectMin returns the minimum reconnect backoff as a
// time.Duration.
func (m MonitoringConfig) ReconnectMin() time.Duration {
	return time.Duration(m.ReconnectMinDelayS * float64(time.Second))
}

// ReconnectMax returns the maximum reconnect backoff as a
// time.Duration.
func (m MonitoringConfig) ReconnectMax() time.Duration {
	return time.Duration(m.ReconnectMaxDelayS * float64(time.Second))
}

// Config is the complete, validated application configuration.
type Config struct {
	Env        string           `yaml:"env"`
	LogLevel   string           `yaml:"log_level"`
	FOCAS      FOCASConfig      `yaml:"focas"`
	MQTT       MQTTConfig       `yaml:"mqtt"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Machines   []MachineConfig  `yaml:"machines"`
}

// IsProduction reports whether env selects the production FOCAS client
// over the simulated one.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads, defaults, and validates a config file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg = applyDefaults(cfg)
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyDefaults(cfg Config) Config {
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.FOCAS.LibraryPath == "" {
		cfg.FOCAS.LibraryPath = DefaultFOCASLibraryPath
	}
	if cfg.FOCAS.MacroAddress == 0 {
		cfg.FOCAS.MacroAddress = DefaultFOCASMacroAddress
	}
	if cfg.FOCAS.MacroLength == 0 {
		cfg.FOCAS.MacroLength = DefaultFOCASMacroLength
	}
	if cfg.MQTT.Port == 0 {
		cfg.MQTT.Port = DefaultMQTTPort
	}
	if cfg.Monitoring.PollIntervalMsDefault == 0 {
		cfg.Monitoring.PollIntervalMsDefault = DefaultPollIntervalMs
	}
	if cfg.Monitoring.DebounceConsecutiveReads == 0 {
		cfg.Monitoring.DebounceConsecutiveReads = DefaultDebounceConsecutiveReads
	}
	if cfg.Monitoring.HeartbeatIntervalS == 0 {
		cfg.Monitoring.HeartbeatIntervalS = DefaultHeartbeatIntervalS
	}
	if cfg.Monitoring.ReconnectMinDelayS == 0 {
		cfg.Monitoring.ReconnectMinDelayS = DefaultReconnectMinDelayS
	}
	if cfg.Monitoring.ReconnectMaxDelayS == 0 {
		cfg.Monitoring.ReconnectMaxDelayS = DefaultReconnectMaxDelayS
	}
	for i := range cfg.Machines {
		if cfg.Machines[i].Port == 0 {
			cfg.Machines[i].Port = DefaultPort
		}
	}
	return cfg
}

func (c Config) validate() error {
	if c.Env != "development" && c.Env != "production" {
		return fmt.Errorf("env must be 'development' or 'production', got %q", c.Env)
	}
	if len(c.Machines) == 0 {
		return fmt.Errorf("at least one machine must be configured")
	}
	if err := c.MQTT.validate(); err != nil {
		return err
	}
	for _, m := range c.Machines {
		if err := m.validate(); err != nil {
			return err
		}
	}
	return nil
}

// PollInterval returns the effective poll interval for a machine,
// falling back to the monitoring-wide default when unset.
func (c Config) PollInterval(m MachineConfig) time.Duration {
	ms := m.PollIntervalMs
	if ms == 0 {
		ms = c.Monitoring.PollIntervalMsDefault
	}
	return time.Duration(ms) * time.Millisecond
}
