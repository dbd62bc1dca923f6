package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/privacy-client/internal/constants"
	"github.com/fivetwenty-io/privacy-client/pkg/privacy"
)

// NewEmbedCommand creates the hosted card UI command
func NewEmbedCommand() *cobra.Command {
	var (
		css       string
		expiresIn time.Duration
		signOnly  bool
		outFile   string
	)

	cmd := &cobra.Command{
		Use:   "embed CARD_TOKEN",
		Short: "Get a hosted card UI",
		Long: `Fetch the hosted card UI iframe for a card, or print the signed
embed request so it can be used from a browser.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			request := &privacy.EmbedRequest{Token: args[0], CSS: css}
			if expiresIn > 0 {
				expiration := time.Now().Add(expiresIn).UTC()
				request.Expiration = &expiration
			}

			if signOnly {
				format, err := outputFormat()
				if err != nil {
					return err
				}

				signed, err := client.Embed().Sign(request)
				if err != nil {
					return fmt.Errorf("failed to sign embed request: %w", err)
				}

				return render(cmd.OutOrStdout(), format, signed, func(table *tablewriter.Table) {
					table.Header("Property", "Value")
					_ = table.Append("Embed Request", signed.EmbedRequest)
					_ = table.Append("HMAC", signed.HMAC)
				})
			}

			body, err := client.Embed().HostedCardUI(cmd.Context(), request)
			if err != nil {
				return fmt.Errorf("failed to get hosted card UI: %w", err)
			}

			if outFile != "" {
				err = os.WriteFile(outFile, body, constants.ConfigFilePerm)
				if err != nil {
					return fmt.Errorf("failed to write %s: %w", outFile, err)
				}

				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Hosted card UI written to %s\n", outFile)

				return nil
			}

			_, err = cmd.OutOrStdout().Write(body)

			return err
		},
	}

	cmd.Flags().StringVar(&css, "css", "", "stylesheet URL applied to the iframe")
	cmd.Flags().DurationVar(&expiresIn, "expires-in", 0, "how long the embed stays valid (e.g. 10m)")
	cmd.Flags().BoolVar(&signOnly, "sign-only", false, "print the signed request instead of fetching the iframe")
	cmd.Flags().StringVar(&outFile, "out", "", "write the iframe HTML to this file")

	return cmd
}
