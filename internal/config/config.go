// Package config provides configuration related utilities.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Default values for config.
const (
	defaultHost                   = "0.0.0.0"
	defaultPort                   = "3000"
	defaultRPCPort                = "3200"
	defaultStoreDir               = "goalias"
	defaultStoreFile              = "aliases.db"
	defaultStoreOpenTimeout       = time.Second
	defaultInitialMmapSizeMB      = 64
	defaultLogPath                = "app.log"
	defaultMaxLogSizeMB           = 5
	defaultMaxLogBackups          = 10
	defaultMaxLogFileLifetimeDays = 14
	defaultProbeInterval          = 10 * time.Second
)

// Default variables.
var (
	// Default store path.
	defaultStorePath = path.Join(os.TempDir(), defaultStoreDir, defaultStoreFile)
	// Default address to start server and return aliases with.
	DefaultAddress = fmt.Sprintf("%s:%s", defaultHost, defaultPort)
	// Default address to start RPC server.
	DefaultRPCAddress = fmt.Sprintf("%s:%s", defaultHost, defaultRPCPort)
)

// Config represents an application configuration.
type (
	Config struct {
		// Subconfigs.
		Server   Server   `yaml:"http_server"`
		RPC      RPC      `yaml:"rpc_server"`
		Store    Store    `yaml:"store"`
		Executor Executor `yaml:"executor"`
		Logger   Logger   `yaml:"logger"`
		// TLSEnable determines whether the server will be started in the TLS mode.
		TLSEnabled Enabled `yaml:"enable_https" env:"ENABLE_HTTPS"`
		// RPCEnabled determines whether the gRPC health server is started.
		RPCEnabled Enabled `yaml:"enable_rpc" env:"ENABLE_RPC"`
	}
	// Config for server.
	Server struct {
		// Address to run the server.
		RunAddress *NetAddress `yaml:"server_address" env:"SERVER_ADDRESS"`
		// Address to return generated aliases with.
		ReturnAddress *NetAddress `yaml:"return_address" env:"BASE_URL"`
		// Where to redirect on unknown alias. Empty means 404.
		FallbackURL string `yaml:"fallback_url" env:"FALLBACK_URL"`
		// Read header timeout.
		Timeout time.Duration `yaml:"timeout" env-default:"5s"`
		// Idle timeout.
		IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
		// Shutdown timeout.
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"30s"`
	}
	// Config for gRPC health server.
	RPC struct {
		// Address to run the server.
		Address *NetAddress `yaml:"address" env:"RPC_ADDRESS"`
		// How often the store is probed.
		ProbeInterval time.Duration `yaml:"probe_interval"`
	}
	// Config for the embedded store.
	Store struct {
		// Path to the database file.
		Path string `yaml:"path" env:"STORE_PATH"`
		// How long to wait for the file lock.
		OpenTimeout time.Duration `yaml:"open_timeout" env:"STORE_OPEN_TIMEOUT"`
		// Skip fsync on commit. Unsafe, for tests and benchmarks.
		NoSync bool `yaml:"no_sync" env:"STORE_NO_SYNC"`
		// Initial memory map size.
		InitialMmapSizeMB int `yaml:"initial_mmap_size_mb"`
	}
	// Config for transaction executor.
	Executor struct {
		// Number of read workers.
		Readers int `yaml:"readers" env:"EXECUTOR_READERS"`
	}
	// Config for application's logger.
	Logger struct {
		// Path to store log files.
		Path string `yaml:"log_path" env:"LOG_PATH"`
		// Application logging level.
		Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
		// Log files details.
		MaxSizeMB  int `yaml:"max_size_mb"`
		MaxBackups int `yaml:"max_backups"`
		MaxAgeDays int `yaml:"max_age_days"`
	}
)

// Interface implementation guards.
var (
	_ flag.Value      = (*NetAddress)(nil)
	_ cleanenv.Setter = (*NetAddress)(nil)
	_ flag.Value      = (*Enabled)(nil)
	_ cleanenv.Setter = (*Enabled)(nil)
)

// NetAddress represents a network address with a host and a port.
type NetAddress string

// NewNetAddress returns a pointer to a new NetAddress with default Host and Port.
func NewNetAddress() *NetAddress {
	a := NetAddress(DefaultAddress)
	return &a
}

// NewRPCAddress returns a pointer to a new NetAddress with default RPC Host and Port.
func NewRPCAddress() *NetAddress {
	a := NetAddress(DefaultRPCAddress)
	return &a
}

// String returns a string representation of the NetAddress in the form "host:port".
func (a *NetAddress) String() string {
	return string(*a)
}

// Set sets the host and port of the NetAddress from a string
// in the form "host:port".
func (a *NetAddress) Set(s string) error {
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "https://")

	host, port, err := net.SplitHostPort(s)
	if err != nil {
		return errors.New("need address in a form host:port")
	}

	if _, err = strconv.Atoi(port); err != nil {
		return fmt.Errorf("invalid port: %w", err)
	}

	if host == "" {
		host = defaultHost
	}

	*a = NetAddress(net.JoinHostPort(host, port))
	return nil
}

// SetValue implements cleanenv value setter.
func (a *NetAddress) SetValue(s string) error {
	return a.Set(s)
}

// Enabled implements general setter for boolean values.
// Implements cleanenv value setter.
type Enabled bool

// Set sets Enabled value from string.
func (e *Enabled) Set(s string) error {
	trueValues := []string{
		"true", "1", "t", "T", "TRUE", "True",
	}
	falseValues := []string{
		"false", "0", "f", "F", "FALSE", "False",
	}
	switch {
	case slices.Contains(trueValues, s):
		*e = true
	case slices.Contains(falseValues, s):
		*e = false
	default:
		return fmt.Errorf(
			"invalid value: %q; need boolean value in form: true: %q false: %q",
			s,
			strings.Join(trueValues, "\", \""),
			strings.Join(falseValues, "\", \""),
		)
	}
	return nil
}

// IsBoolFlag lets the flag be passed without a value.
func (e *Enabled) IsBoolFlag() bool {
	return true
}

// SetValue implements cleanenv value setter.
func (e *Enabled) SetValue(s string) error {
	return e.Set(s)
}

// String returns a string representation of the Enabled value.
func (e *Enabled) String() string {
	if e == nil {
		return "false"
	}
	return strconv.FormatBool(bool(*e))
}

// defaults returns a config populated with the default values.
func defaults() *Config {
	var cfg Config
	cfg.Server.RunAddress = NewNetAddress()
	cfg.Server.ReturnAddress = NewNetAddress()
	cfg.RPC.Address = NewRPCAddress()
	cfg.RPC.ProbeInterval = defaultProbeInterval
	cfg.Store.Path = defaultStorePath
	cfg.Store.OpenTimeout = defaultStoreOpenTimeout
	cfg.Store.InitialMmapSizeMB = defaultInitialMmapSizeMB
	cfg.Executor.Readers = runtime.NumCPU()
	cfg.Logger.Path = defaultLogPath
	cfg.Logger.MaxSizeMB = defaultMaxLogSizeMB
	cfg.Logger.MaxBackups = defaultMaxLogBackups
	cfg.Logger.MaxAgeDays = defaultMaxLogFileLifetimeDays
	return &cfg
}

// Order of loading configuration:
// 1. Config file (YAML, JSON supported)
// 2. Flags
// 3. Environment variables

// Load returns an application configuration which is populated
// from the configuration file named by CONFIG, the given command
// line arguments and environment variables.
func Load(args []string) (*Config, error) {
	cfg := defaults()

	// Configuration file path.
	if configPath, set := os.LookupEnv("CONFIG"); set {
		if err := parseFile(configPath, cfg); err != nil {
			return nil, err
		}
	}

	// Read given flags. If not provided use file values.
	fs := flag.NewFlagSet("goalias", flag.ContinueOnError)
	fs.Var(cfg.Server.RunAddress, "a", "server start address in form host:port")
	fs.Var(cfg.Server.ReturnAddress, "b", "server return address in form host:port")
	fs.Var(cfg.RPC.Address, "g", "rpc server address in form host:port")
	fs.Var(&cfg.TLSEnabled, "s", "run the server in TLS mode")
	fs.Var(&cfg.RPCEnabled, "r", "run the gRPC health server")
	fs.StringVar(&cfg.Server.FallbackURL, "u", cfg.Server.FallbackURL, "redirect target for unknown aliases")
	fs.StringVar(&cfg.Store.Path, "f", cfg.Store.Path, "store file path")
	fs.IntVar(&cfg.Executor.Readers, "w", cfg.Executor.Readers, "number of read workers")
	fs.StringVar(&cfg.Logger.Level, "l", cfg.Logger.Level, "logging level")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// Read environment variables.
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// MustLoad is like Load for the process arguments but exits on failure.
func MustLoad() *Config {
	cfg, err := Load(os.Args[1:])
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	return cfg
}

func parseFile(configPath string, cfg *Config) error {
	// Check if file exists.
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file does not exist: %w", err)
	}

	file, err := os.Open(configPath)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer file.Close()

	// Support different file extensions.
	ext := filepath.Ext(configPath)
	switch ext {
	case ".yaml", ".yml":
		err = cleanenv.ParseYAML(file, cfg)
	case ".json":
		err = cleanenv.ParseJSON(file, cfg)
	default:
		return fmt.Errorf("unsupported configuration file extension: %q", ext)
	}
	if err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	return nil
}

func (cfg *Config) validate() error {
	if cfg.Store.Path == "" {
		return errors.New("store path is empty")
	}
	if cfg.Executor.Readers < 1 {
		return fmt.Errorf("executor readers should be >= 1, got %d", cfg.Executor.Readers)
	}
	if cfg.RPC.ProbeInterval <= 0 {
		cfg.RPC.ProbeInterval = defaultProbeInterval
	}
	return nil
}

// NewForTest returns application configuration for testing.
func NewForTest() *Config {
	return &Config{
		Server: Server{
			RunAddress:      NewNetAddress(),
			ReturnAddress:   NewNetAddress(),
			Timeout:         5 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		RPC: RPC{
			Address:       NewRPCAddress(),
			ProbeInterval: defaultProbeInterval,
		},
		Store: Store{
			Path:              defaultStorePath,
			OpenTimeout:       defaultStoreOpenTimeout,
			NoSync:            true,
			InitialMmapSizeMB: 1,
		},
		Executor: Executor{Readers: 2},
		Logger:   Logger{Level: "debug"},
	}
}
