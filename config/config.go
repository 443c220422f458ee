// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	configDir      = pflag.String("config-dir", ".", "Directory to search for the config.toml file")
	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
)

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that. Every key has a workable default, so a missing config.toml
// is fine.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(*configDir)

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")

	v.BindEnv("cors.allowed_origins", "cors_allowed_origins")

	v.BindEnv("storage.input_dir", "storage_input_dir")
	v.BindEnv("storage.output_dir", "storage_output_dir")

	v.BindEnv("upload.max_size", "upload_max_size")

	v.BindEnv("tools.python_path", "tools_python_path")
	v.BindEnv("tools.script_dir", "tools_script_dir")
	v.BindEnv("tools.analyzer", "tools_analyzer")
	v.BindEnv("tools.trimmer", "tools_trimmer")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 3001)

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:5173"})

	v.SetDefault("storage.input_dir", "video_inputs")
	v.SetDefault("storage.output_dir", "video_outputs")

	// In MB, shifted to bytes after validation
	v.SetDefault("upload.max_size", 2048)

	v.SetDefault("tools.script_dir", "src")
	v.SetDefault("tools.analyzer", "unified_analyzer.py")
	v.SetDefault("tools.trimmer", "video_trimmer.py")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file, %w", err)
		}

		zap.L().Debug("No config.toml found, running on defaults")
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if v.GetInt("upload.max_size") <= 0 {
		return errors.New("upload.max_size must be bigger than 0")
	}

	if v.GetString("storage.input_dir") == "" {
		return errors.New("storage.input_dir can't be empty")
	}

	if v.GetString("storage.output_dir") == "" {
		return errors.New("storage.output_dir can't be empty")
	}

	if v.GetString("storage.input_dir") == v.GetString("storage.output_dir") {
		return errors.New("storage.input_dir and storage.output_dir must be different directories")
	}

	if v.GetString("tools.analyzer") == "" || v.GetString("tools.trimmer") == "" {
		return errors.New("tools.analyzer and tools.trimmer can't be empty")
	}

	v.Set("upload.max_size", v.GetInt64("upload.max_size")<<20)
	return nil
}
