package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        App        `mapstructure:"app"`
	AI         AI         `mapstructure:"ai"`
	Generation Generation `mapstructure:"generation"`
	Queue      Queue      `mapstructure:"queue"`
}

// App holds general application configuration
type App struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	DataDir  string `mapstructure:"data_dir"`
}

// AI holds Gemini drafting configuration. Generation works without it;
// an empty API key disables the LLM path entirely.
type AI struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Temperature float32 `mapstructure:"temperature"`
}

// Generation holds reply generation defaults
type Generation struct {
	DefaultCount     int    `mapstructure:"default_count"`
	DefaultPlatform  string `mapstructure:"default_platform"`
	DefaultBenchmark string `mapstructure:"default_benchmark"`
	DefaultUser      string `mapstructure:"default_user"`
}

// Queue holds reply queue configuration
type Queue struct {
	AutoQueue bool `mapstructure:"auto_queue"`
}

var globalConfig *Config

// Load reads configuration from the given file, or from .capturekit.yaml
// in the working directory or home directory when no file is given.
// Environment variables override file values.
func Load(configFile string) (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".capturekit")
		viper.SetConfigType("yaml")
	}

	setDefaults()
	bindEnvironmentVariables()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	config.App.DataDir = expandPath(config.App.DataDir)

	globalConfig = config
	return config, nil
}

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	if globalConfig == nil {
		config, err := Load("")
		if err != nil {
			panic(fmt.Sprintf("Failed to load configuration: %v", err))
		}
		return config
	}
	return globalConfig
}

// Reset clears the cached configuration. Used by tests.
func Reset() {
	globalConfig = nil
	viper.Reset()
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("app.debug", false)
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.data_dir", ".capturekit")

	viper.SetDefault("ai.model", "gemini-2.0-flash")
	viper.SetDefault("ai.temperature", 0.8)

	viper.SetDefault("generation.default_count", 3)
	viper.SetDefault("generation.default_platform", "twitter")
	viper.SetDefault("generation.default_benchmark", "default")
	viper.SetDefault("generation.default_user", "")

	viper.SetDefault("queue.auto_queue", false)
}

// bindEnvironmentVariables sets up flexible environment variable binding
func bindEnvironmentVariables() {
	bindEnvKeys("ai.api_key", []string{
		"GEMINI_API_KEY",
		"GOOGLE_API_KEY",
		"CAPTUREKIT_API_KEY",
	})
	bindEnvKeys("app.debug", []string{
		"CAPTUREKIT_DEBUG",
	})
	bindEnvKeys("app.data_dir", []string{
		"CAPTUREKIT_DATA_DIR",
	})
}

// bindEnvKeys binds the first found environment variable to a viper key
func bindEnvKeys(viperKey string, envKeys []string) {
	for _, envKey := range envKeys {
		if value := os.Getenv(envKey); value != "" {
			viper.Set(viperKey, value)
			return
		}
	}
}

// expandPath expands a leading ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// Convenience accessors for commonly used sections.
func GetApp() App               { return Get().App }
func GetAI() AI                 { return Get().AI }
func GetGeneration() Generation { return Get().Generation }
func GetQueue() Queue           { return Get().Queue }
