package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fivetwenty-io/privacy-client/internal/constants"
	"github.com/fivetwenty-io/privacy-client/pkg/privacy"
)

// NewConfigureCommand creates the configure command
func NewConfigureCommand() *cobra.Command {
	var (
		environment string
		output      string
	)

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Store the API key and defaults",
		Long: `Store the API key, environment and output format in the config file.
The API key is taken from the global --api-key flag, or read without echo.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, err := configFilePath()
			if err != nil {
				return err
			}

			config, err := readConfigFile(configFile)
			if err != nil {
				return err
			}

			apiKey := flagValue(cmd, "api-key")
			if apiKey == "" {
				apiKey, err = promptAPIKey(cmd)
				if err != nil {
					return err
				}
			}

			if apiKey != "" {
				config.APIKey = apiKey
			}

			if config.APIKey == "" {
				return constants.ErrNoAPIKeyConfigured
			}

			if cmd.Flags().Changed("env") {
				env, err := privacy.ParseEnvironment(environment)
				if err != nil {
					return fmt.Errorf("%w: %q", constants.ErrInvalidEnvironment, environment)
				}

				config.Environment = string(env)
			}

			if cmd.Flags().Changed("default-output") {
				switch output {
				case constants.FormatTable, constants.FormatJSON, constants.FormatYAML:
					config.Output = output
				default:
					return fmt.Errorf("%w: %q", constants.ErrInvalidOutput, output)
				}
			}

			err = saveConfigStruct(config, configFile)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved to %s\n", configFile)

			return nil
		},
	}

	cmd.Flags().StringVar(&environment, "env", "live", "default environment (live, sandbox)")
	cmd.Flags().StringVar(&output, "default-output", constants.FormatTable, "default output format")

	return cmd
}

// promptAPIKey reads the key without echo on a terminal, or as a line otherwise.
func promptAPIKey(cmd *cobra.Command) (string, error) {
	_, _ = fmt.Fprint(cmd.OutOrStdout(), "API key: ")

	in, ok := cmd.InOrStdin().(*os.File)
	if ok && term.IsTerminal(int(in.Fd())) {
		key, err := term.ReadPassword(int(in.Fd()))

		_, _ = fmt.Fprintln(cmd.OutOrStdout())

		if err != nil {
			return "", fmt.Errorf("failed to read API key: %w", err)
		}

		return strings.TrimSpace(string(key)), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", nil
	}

	return strings.TrimSpace(line), nil
}

// flagValue returns the value of a local or inherited flag, or "" when the
// command is not attached to a root that defines it.
func flagValue(cmd *cobra.Command, name string) string {
	flag := cmd.Flag(name)
	if flag == nil {
		return ""
	}

	return flag.Value.String()
}
