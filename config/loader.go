package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/kbukum/starpipe/errors"
)

// EnvPrefix prefixes every environment variable starpipe reads.
const EnvPrefix = "STARPIPE"

// FileNames are the config file names searched for, in order.
var FileNames = []string{"starpipe.yml", "starpipe.yaml", ".starpipe.yml"}

// FileSystem abstracts file access for the loader.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
	Getwd() (string, error)
}

// RealFileSystem implements FileSystem with the os package.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (rfs *RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

func (rfs *RealFileSystem) Getwd() (string, error) {
	return os.Getwd()
}

// Resolver finds the config and env files.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles contains the resolved config and env file paths.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles returns the explicit paths from opts when set. Otherwise it
// walks from the working directory up to the filesystem root and picks the
// nearest starpipe config file, and the .env beside it or in the working
// directory.
func (r *Resolver) ResolveFiles(opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
	}
	wd, err := r.FileSystem.Getwd()
	if err != nil {
		return resolved
	}

	if resolved.ConfigFile == "" {
		resolved.ConfigFile = r.findUp(wd, FileNames...)
	}
	if resolved.EnvFile == "" {
		dirs := []string{wd}
		if resolved.ConfigFile != "" {
			dirs = append([]string{filepath.Dir(resolved.ConfigFile)}, dirs...)
		}
		for _, dir := range dirs {
			if path := filepath.Join(dir, ".env"); r.FileSystem.Exists(path) {
				resolved.EnvFile = path
				break
			}
		}
	}
	return resolved
}

func (r *Resolver) findUp(dir string, names ...string) string {
	for {
		for _, name := range names {
			if path := filepath.Join(dir, name); r.FileSystem.Exists(path) {
				return path
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// LoaderConfig holds dependencies and optional overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string // explicit config file path (optional)
	EnvFile    string // explicit .env path (optional)
	Flags      *pflag.FlagSet
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path. The file must exist.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithFlags binds command-line flags. Only flags that were set on the
// command line override other sources.
func WithFlags(fs *pflag.FlagSet) LoaderOption {
	return func(lc *LoaderConfig) { lc.Flags = fs }
}

// FlagKeys maps flag names to configuration keys.
var FlagKeys = map[string]string{
	"placeholder": "rewrite.placeholder",
	"temp-prefix": "rewrite.temp_prefix",
	"marker":      "source.marker",
	"verify":      "source.verify",
	"workers":     "workers",
}

// Load merges every configuration source, applies defaults and validates
// the result.
func Load(opts ...LoaderOption) (*Config, error) {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}
	if lc.ConfigFile != "" && !lc.FileSystem.Exists(lc.ConfigFile) {
		return nil, errors.IO("read config", lc.ConfigFile, os.ErrNotExist)
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(lc)

	cfg, err := loadFromResolvedFiles(files, lc)
	if err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFromResolvedFiles(files ResolvedFiles, lc LoaderConfig) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	// 1. YAML file
	if files.ConfigFile != "" {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.InvalidConfig("cannot read " + files.ConfigFile).
				WithDetail("file", files.ConfigFile).WithCause(err)
		}
	}

	// 2. .env, which never overrides variables already in the environment
	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			return nil, errors.InvalidConfig("cannot load " + files.EnvFile).
				WithDetail("file", files.EnvFile).WithCause(err)
		}
	}

	// 3. STARPIPE_* environment
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. flags
	if lc.Flags != nil {
		for name, key := range FlagKeys {
			if f := lc.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.Internal(err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.InvalidConfig("cannot decode configuration").WithCause(err)
	}
	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can resolve it.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("rewrite.placeholder", d.Rewrite.Placeholder)
	v.SetDefault("rewrite.temp_prefix", d.Rewrite.TempPrefix)
	v.SetDefault("source.marker", d.Source.Marker)
	v.SetDefault("source.verify", d.Source.Verify)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("logging.service_name", d.Logging.ServiceName)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)
	v.SetDefault("logging.no_color", d.Logging.NoColor)
	v.SetDefault("logging.timestamp", d.Logging.Timestamp)
	v.SetDefault("logging.caller", d.Logging.Caller)
}
