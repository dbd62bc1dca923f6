package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/privacy-client/internal/constants"
	"github.com/fivetwenty-io/privacy-client/pkg/privacy"
	"github.com/fivetwenty-io/privacy-client/pkg/privacyclient"
)

// Config represents the CLI configuration persisted in config.yml.
type Config struct {
	APIKey      string `json:"api_key,omitempty"     yaml:"api_key,omitempty"`
	Environment string `json:"environment,omitempty" yaml:"environment,omitempty"`
	BaseURL     string `json:"base_url,omitempty"    yaml:"base_url,omitempty"`
	Output      string `json:"output,omitempty"      yaml:"output,omitempty"`
}

// loadConfig reads the effective configuration: flags, then PRIVACY_*
// variables, then the config file.
func loadConfig() *Config {
	return &Config{
		APIKey:      viper.GetString("api_key"),
		Environment: viper.GetString("environment"),
		BaseURL:     viper.GetString("base_url"),
		Output:      viper.GetString("output"),
	}
}

// configFilePath returns the file config is written to.
func configFilePath() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, constants.ConfigDirName, constants.ConfigFileName+".yml"), nil
}

func saveConfigStruct(config *Config, configFile string) error {
	err := os.MkdirAll(filepath.Dir(configFile), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// readConfigFile loads a config file without consulting flags or environment.
func readConfigFile(configFile string) (*Config, error) {
	// configFile comes from the user's own flag or home directory.
	// #nosec G304
	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}

	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// buildClientConfig turns CLI configuration into a library config.
func buildClientConfig(config *Config, verbose bool) (*privacy.Config, error) {
	if strings.TrimSpace(config.APIKey) == "" {
		return nil, constants.ErrNoAPIKeyConfigured
	}

	environment, err := privacy.ParseEnvironment(config.Environment)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", constants.ErrInvalidEnvironment, config.Environment)
	}

	clientConfig := &privacy.Config{
		APIKey:      config.APIKey,
		Environment: environment,
		BaseURL:     config.BaseURL,
	}

	if verbose {
		clientConfig.Debug = true
		clientConfig.Logger = NewStderrLogger(true)
	}

	return clientConfig, nil
}

// CreateClient builds a client from the effective configuration.
func CreateClient() (privacy.Client, error) {
	clientConfig, err := buildClientConfig(loadConfig(), viper.GetBool("verbose"))
	if err != nil {
		return nil, err
	}

	client, err := privacyclient.New(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}
