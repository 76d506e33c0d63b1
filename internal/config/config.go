package config

import (
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string `mapstructure:"project_path"`
	SpecsDir    string `mapstructure:"specs_dir"`
	SpecPattern string `mapstructure:"spec_pattern"`
	Filter      string `mapstructure:"filter"`

	// Runner invocation
	Script          string `mapstructure:"script"`
	Args            string `mapstructure:"args"`
	Reporter        string `mapstructure:"reporter"`
	ReporterOptions string `mapstructure:"reporter_options"`
	DefaultReporter string `mapstructure:"default_reporter"`

	// Execution settings
	Threads      int    `mapstructure:"threads"`
	Strategy     string `mapstructure:"strategy"`
	DurationMode string `mapstructure:"duration_mode"`
	Collision    string `mapstructure:"collision"`

	// Persistence
	WeightsFile            string `mapstructure:"weights_file"`
	WeightsDSN             string `mapstructure:"weights_dsn"`
	ResultsFile            string `mapstructure:"results_file"`
	UpdateWeightsOnFailure bool   `mapstructure:"update_weights_on_failure"`

	// Output
	Progress string        `mapstructure:"progress"`
	Logging  LoggingConfig `mapstructure:"log"`

	// Paths to ignore when scanning
	PathsToIgnore []string `mapstructure:"ignore"`
}

// LoggingConfig controls the structured debug log
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath:     DefaultProjectPath,
		SpecsDir:        DefaultSpecsDir,
		SpecPattern:     DefaultSpecPattern,
		DefaultReporter: DefaultReporter,
		Threads:         DefaultThreads,
		Strategy:        StrategyWeighted,
		DurationMode:    DurationCumulative,
		Collision:       CollisionOverwrite,
		WeightsFile:     DefaultWeightsFile,
		ResultsFile:     DefaultResultsFile,
		Progress:        ProgressAuto,
		Logging:         LoggingConfig{Level: "info"},
	}
	// Copy default paths to ignore
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// SetDefaults registers default values with v
func SetDefaults(v *viper.Viper) {
	defaults := New()

	v.SetDefault("project_path", defaults.ProjectPath)
	v.SetDefault("specs_dir", defaults.SpecsDir)
	v.SetDefault("spec_pattern", defaults.SpecPattern)
	v.SetDefault("filter", "")

	v.SetDefault("script", "")
	v.SetDefault("args", "")
	v.SetDefault("reporter", "")
	v.SetDefault("reporter_options", "")
	v.SetDefault("default_reporter", defaults.DefaultReporter)

	v.SetDefault("threads", defaults.Threads)
	v.SetDefault("strategy", defaults.Strategy)
	v.SetDefault("duration_mode", defaults.DurationMode)
	v.SetDefault("collision", defaults.Collision)

	v.SetDefault("weights_file", defaults.WeightsFile)
	v.SetDefault("weights_dsn", "")
	v.SetDefault("results_file", defaults.ResultsFile)
	v.SetDefault("update_weights_on_failure", defaults.UpdateWeightsOnFailure)

	v.SetDefault("progress", defaults.Progress)
	v.SetDefault("log.level", defaults.Logging.Level)
	v.SetDefault("log.file", defaults.Logging.File)

	v.SetDefault("ignore", defaults.PathsToIgnore)
}

// Setup prepares v to read defaults, an optional config file and the
// environment. The project's .env file is loaded into the process
// environment first; a missing file is not an error.
func Setup(v *viper.Viper, configFile string) error {
	SetDefaults(v)

	projectPath := v.GetString("project_path")
	_ = godotenv.Load(filepath.Join(projectPath, DefaultEnvFile))

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("cypar")
		v.SetConfigType("yaml")
		v.AddConfigPath(projectPath)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// An explicitly requested file must exist; the implicit one is optional.
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && configFile == "" {
			return nil
		}
		return err
	}
	return nil
}

// Load reads the configuration from v into a Config struct and validates it
func Load(v *viper.Viper) (*Config, error) {
	cfg := New()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, AsConfigError(ValidationErrors(errs))
	}
	return cfg, nil
}

// GetSpecsPath returns the spec directory, relative to the project unless absolute
func (c *Config) GetSpecsPath() string {
	return c.resolve(c.SpecsDir)
}

// GetWeightsLocation returns the weight file path or URL
func (c *Config) GetWeightsLocation() string {
	return c.resolve(c.WeightsFile)
}

// GetResultsLocation returns the results file path or URL
func (c *Config) GetResultsLocation() string {
	return c.resolve(c.ResultsFile)
}

// ExtraArgs splits the extra runner arguments on spaces
func (c *Config) ExtraArgs() []string {
	return strings.Fields(c.Args)
}

// Passthrough reports whether an external reporter replaces the managed protocol
func (c *Config) Passthrough() bool {
	return c.Reporter != ""
}

// ReporterName returns the reporter passed to every worker
func (c *Config) ReporterName() string {
	if c.Reporter != "" {
		return c.Reporter
	}
	return c.DefaultReporter
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || strings.Contains(p, "://") {
		return p
	}
	return filepath.Join(c.ProjectPath, p)
}
