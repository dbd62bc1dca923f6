package commands

import (
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/privacy-client/internal/constants"
	"github.com/fivetwenty-io/privacy-client/pkg/privacy"
)

// NewSimulateCommand creates the simulate command group
func NewSimulateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate card activity in the sandbox",
		Long:  "Drive the sandbox simulation endpoints. These commands fail on the live environment.",
	}

	cmd.AddCommand(newSimulateAuthorizeCommand())
	cmd.AddCommand(newSimulateAdjustmentCommand("void", "Void a pending authorization",
		func(client privacy.Client) adjustFunc { return client.Simulate().Void }))
	cmd.AddCommand(newSimulateAdjustmentCommand("clearing", "Clear an authorization",
		func(client privacy.Client) adjustFunc { return client.Simulate().Clearing }))
	cmd.AddCommand(newSimulateReturnCommand())

	return cmd
}

type merchantFlags struct {
	descriptor string
	pan        string
	amount     int
}

func (f *merchantFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.descriptor, "descriptor", "", "merchant descriptor")
	cmd.Flags().StringVar(&f.pan, "pan", "", "16 digit card number")
	cmd.Flags().IntVar(&f.amount, "amount", 0, "amount in cents")
}

func (f *merchantFlags) validate() error {
	switch {
	case f.descriptor == "":
		return constants.ErrDescriptorRequired
	case f.pan == "":
		return constants.ErrPANRequired
	case f.amount <= 0:
		return constants.ErrAmountRequired
	default:
		return nil
	}
}

func newSimulateAuthorizeCommand() *cobra.Command {
	flags := &merchantFlags{}

	cmd := &cobra.Command{
		Use:   "authorize",
		Short: "Simulate an authorization",
		Long:  "Simulate an authorization request from a merchant acquirer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := flags.validate()
			if err != nil {
				return err
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			resp, err := client.Simulate().Authorize(cmd.Context(), &privacy.SimulateAuthorizationRequest{
				Descriptor: flags.descriptor,
				PAN:        flags.pan,
				Amount:     flags.amount,
			})
			if err != nil {
				return fmt.Errorf("failed to simulate authorization: %w", err)
			}

			return renderSimulateResponse(cmd, resp)
		},
	}

	flags.register(cmd)

	return cmd
}

func newSimulateReturnCommand() *cobra.Command {
	flags := &merchantFlags{}

	cmd := &cobra.Command{
		Use:   "return",
		Short: "Simulate a return",
		Long:  "Simulate a refund from a merchant back to a card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := flags.validate()
			if err != nil {
				return err
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			resp, err := client.Simulate().Return(cmd.Context(), &privacy.SimulateReturnRequest{
				Descriptor: flags.descriptor,
				PAN:        flags.pan,
				Amount:     flags.amount,
			})
			if err != nil {
				return fmt.Errorf("failed to simulate return: %w", err)
			}

			return renderSimulateResponse(cmd, resp)
		},
	}

	flags.register(cmd)

	return cmd
}

type adjustFunc = func(ctx context.Context, request *privacy.SimulateAdjustmentRequest) error

func newSimulateAdjustmentCommand(name, short string, pick func(client privacy.Client) adjustFunc) *cobra.Command {
	var amount int

	cmd := &cobra.Command{
		Use:   name + " TRANSACTION_TOKEN",
		Short: short,
		Long:  short + ". The amount may be less than or equal to the original authorization.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if amount <= 0 {
				return constants.ErrAmountRequired
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			err = pick(client)(cmd.Context(), &privacy.SimulateAdjustmentRequest{Token: args[0], Amount: amount})
			if err != nil {
				return fmt.Errorf("failed to simulate %s: %w", name, err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Successfully simulated %s of %s on '%s'\n", name, formatCents(amount), args[0])

			return nil
		},
	}

	cmd.Flags().IntVar(&amount, "amount", 0, "amount in cents")

	return cmd
}

func renderSimulateResponse(cmd *cobra.Command, resp *privacy.SimulateResponse) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	return render(cmd.OutOrStdout(), format, resp, func(table *tablewriter.Table) {
		table.Header("Property", "Value")
		_ = table.Append("Transaction Token", resp.Token)
	})
}
