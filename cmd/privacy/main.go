package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/privacy-client/cmd/privacy/commands"
	"github.com/fivetwenty-io/privacy-client/internal/constants"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "privacy",
	Short: "Privacy card-issuing API CLI",
	Long: `A command-line interface for the Privacy card-issuing API.

This CLI manages virtual cards, lists transactions, drives the sandbox
simulation endpoints and runs a webhook receiver.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.privacy/config.yml)")
	rootCmd.PersistentFlags().StringP("api-key", "k", "", "API key")
	rootCmd.PersistentFlags().StringP("environment", "e", "", "API environment (live, sandbox)")
	rootCmd.PersistentFlags().String("base-url", "", "override the API base URL")
	rootCmd.PersistentFlags().StringP("output", "o", constants.FormatTable, "output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("api_key", rootCmd.PersistentFlags().Lookup("api-key"))
	_ = viper.BindPFlag("environment", rootCmd.PersistentFlags().Lookup("environment"))
	_ = viper.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add commands
	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewConfigureCommand())
	rootCmd.AddCommand(commands.NewCardsCommand())
	rootCmd.AddCommand(commands.NewTransactionsCommand())
	rootCmd.AddCommand(commands.NewSimulateCommand())
	rootCmd.AddCommand(commands.NewEmbedCommand())
	rootCmd.AddCommand(commands.NewWebhookCommand())
}

func initConfig() {
	// A .env file in the working directory seeds PRIVACY_* variables.
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "Warning: .env file not loaded:", err)
	}

	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in ~/.privacy/config.yml
		viper.AddConfigPath(filepath.Join(home, constants.ConfigDirName))
		viper.SetConfigType("yml")
		viper.SetConfigName(constants.ConfigFileName)
	}

	// Read in environment variables that match
	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
