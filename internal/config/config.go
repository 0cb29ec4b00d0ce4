// Package config loads and validates git-fame settings from flags, a config
// file and the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sinclairtarget/git-fame/internal/git"
	"github.com/sinclairtarget/git-fame/internal/tally"
)

// Sentinel validation errors.
var (
	ErrEmptyRepository    = errors.New("no git directory provided")
	ErrEmptyBranch        = errors.New("no branch provided")
	ErrInvalidParallelism = errors.New("the number of parallel blame processes must be greater than 0")
	ErrInvalidPattern     = errors.New("invalid file pattern")
	ErrInvalidAliases     = errors.New("invalid author aliases")
	ErrAliasCollision     = errors.New("author alias claimed by more than one group")
	ErrInvalidLogLevel    = errors.New("invalid log level")
)

// Default configuration values.
const (
	DefaultRepo     = "."
	DefaultBranch   = "HEAD"
	DefaultOutput   = "result.csv"
	DefaultLogLevel = "info"

	configName = ".git-fame"
	envPrefix  = "GIT_FAME"
)

// Keys shared by flags, config file and environment.
const (
	KeyRepo          = "repo"
	KeyBranch        = "branch"
	KeyInclude       = "include"
	KeyExclude       = "exclude"
	KeyParallel      = "parallel"
	KeyOutput        = "output"
	KeyVerboseOutput = "verbose-output"
	KeyMerge         = "merge"
	KeyAliases       = "aliases"
	KeyStrictAliases = "strict-aliases"
	KeyNoCache       = "no-cache"
	KeyMetricsFile   = "metrics-file"
	KeyLogLevel      = "log-level"
)

// Config holds everything needed for a run.
type Config struct {
	Repo          string     `mapstructure:"repo"`
	Branch        string     `mapstructure:"branch"`
	Include       string     `mapstructure:"include"`
	Exclude       string     `mapstructure:"exclude"`
	Parallel      int        `mapstructure:"parallel"`
	Output        string     `mapstructure:"output"`
	VerboseOutput bool       `mapstructure:"verbose-output"`
	Merge         string     `mapstructure:"merge"`
	Aliases       [][]string `mapstructure:"aliases"`
	StrictAliases bool       `mapstructure:"strict-aliases"`
	NoCache       bool       `mapstructure:"no-cache"`
	MetricsFile   string     `mapstructure:"metrics-file"`
	LogLevel      string     `mapstructure:"log-level"`
}

// Load reads configuration with the usual precedence: flags that were set,
// then environment variables (GIT_FAME_BRANCH etc.), then the config file,
// then defaults.
//
// With an empty configPath, .git-fame.yaml is looked for in the current
// directory and the home directory; not finding one is fine. flags may be nil.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("$HOME")
	}

	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viperCfg.AutomaticEnv()

	if flags != nil {
		err := viperCfg.BindPFlags(flags)
		if err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	} else {
		logger().Debug("read config file", "path", viperCfg.ConfigFileUsed())
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := Validate(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault(KeyRepo, DefaultRepo)
	viperCfg.SetDefault(KeyBranch, DefaultBranch)
	viperCfg.SetDefault(KeyInclude, "")
	viperCfg.SetDefault(KeyExclude, "")
	viperCfg.SetDefault(KeyParallel, runtime.NumCPU())
	viperCfg.SetDefault(KeyOutput, DefaultOutput)
	viperCfg.SetDefault(KeyVerboseOutput, false)
	viperCfg.SetDefault(KeyMerge, "")
	viperCfg.SetDefault(KeyStrictAliases, false)
	viperCfg.SetDefault(KeyNoCache, false)
	viperCfg.SetDefault(KeyMetricsFile, "")
	viperCfg.SetDefault(KeyLogLevel, DefaultLogLevel)
}

// Every problem found, not just the first.
type ValidationError struct {
	Errs []error
}

func (err *ValidationError) Error() string {
	msgs := make([]string, 0, len(err.Errs))
	for _, e := range err.Errs {
		msgs = append(msgs, e.Error())
	}

	return strings.Join(msgs, "; ")
}

func (err *ValidationError) Unwrap() []error {
	return err.Errs
}

// Validate checks the configuration before anything touches the repository.
func Validate(config *Config) error {
	var errs []error

	if strings.TrimSpace(config.Repo) == "" {
		errs = append(errs, ErrEmptyRepository)
	}

	if strings.TrimSpace(config.Branch) == "" {
		errs = append(errs, ErrEmptyBranch)
	}

	if config.Parallel < 1 {
		errs = append(
			errs,
			fmt.Errorf("%w: %d", ErrInvalidParallelism, config.Parallel),
		)
	}

	if _, err := config.FileFilter(); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidPattern, err))
	}

	groups, err := config.AliasGroups()
	if err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidAliases, err))
	} else if config.StrictAliases {
		for _, collision := range tally.DetectCollisions(groups) {
			errs = append(
				errs,
				fmt.Errorf("%w: %s", ErrAliasCollision, collision),
			)
		}
	}

	if _, err := config.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return &ValidationError{Errs: errs}
	}

	return nil
}

func (config *Config) FileFilter() (git.FileFilter, error) {
	return git.NewFileFilter(config.Include, config.Exclude)
}

// Alias groups from the merge spec followed by those listed under aliases in
// the config file.
func (config *Config) AliasGroups() ([]tally.AliasGroup, error) {
	groups, err := tally.ParseAliasSpec(config.Merge)
	if err != nil {
		return nil, err
	}

	for _, aliases := range config.Aliases {
		group, err := tally.NewAliasGroup(aliases...)
		if err != nil {
			continue
		}

		groups = append(groups, group)
	}

	return groups, nil
}

func (config *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level

	err := level.UnmarshalText([]byte(config.LogLevel))
	if err != nil {
		return level, fmt.Errorf("%w: \"%s\"", ErrInvalidLogLevel, config.LogLevel)
	}

	return level, nil
}

var pkgLogger *slog.Logger

func logger() *slog.Logger {
	if pkgLogger == nil {
		pkgLogger = slog.Default().With("package", "config")
	}

	return pkgLogger
}
