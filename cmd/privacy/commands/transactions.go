package commands

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/privacy-client/internal/constants"
	"github.com/fivetwenty-io/privacy-client/pkg/privacy"
)

// NewTransactionsCommand creates the transactions command group
func NewTransactionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"transaction", "txn"},
		Short:   "View transactions",
		Long:    "List and inspect card transactions",
	}

	cmd.AddCommand(newTransactionsListCommand())
	cmd.AddCommand(newTransactionsGetCommand())

	return cmd
}

func newTransactionsListCommand() *cobra.Command {
	var (
		status    string
		cardToken string
		begin     string
		end       string
		page      int
		pageSize  int
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Long:  "List transactions, optionally only approvals or declines, or only those of one card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}

			beginDate, err := parseDate("begin", begin)
			if err != nil {
				return err
			}

			endDate, err := parseDate("end", end)
			if err != nil {
				return err
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			params := &privacy.TransactionListParams{
				Status:   privacy.ApprovalStatus(status),
				Page:     page,
				PageSize: pageSize,
				Begin:    beginDate,
				End:      endDate,
				Limit:    limit,
			}

			var iter *privacy.Iterator[privacy.Transaction]

			if cardToken != "" {
				card, err := client.Cards().Get(cmd.Context(), cardToken)
				if err != nil {
					return fmt.Errorf("failed to get card: %w", err)
				}

				iter = card.Transactions(cmd.Context(), &privacy.CardTransactionParams{
					Status:   params.Status,
					Page:     params.Page,
					PageSize: params.PageSize,
					Begin:    params.Begin,
					End:      params.End,
					Limit:    params.Limit,
				})
			} else {
				iter = client.Transactions().List(cmd.Context(), params)
			}

			txns, err := iter.All()
			if err != nil {
				return fmt.Errorf("failed to list transactions: %w", err)
			}

			if txns == nil {
				txns = []privacy.Transaction{}
			}

			return render(cmd.OutOrStdout(), format, txns, func(table *tablewriter.Table) {
				table.Header("Token", "Created", "Card", "Merchant", "Amount", "Status", "Result")

				for _, txn := range txns {
					_ = table.Append(txn.Token, formatTime(txn.Created), txn.Card.Token, txn.Merchant.Descriptor,
						formatCents(txn.Amount), formatEnum(string(txn.Status)), formatEnum(string(txn.Result)))
				}
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "all", "approval status (all, approvals, declines)")
	cmd.Flags().StringVar(&cardToken, "card", "", "only transactions of this card")
	cmd.Flags().StringVar(&begin, "begin", "", "only transactions on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "only transactions before this date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&page, "page", 0, "first page to fetch")
	cmd.Flags().IntVar(&pageSize, "page-size", constants.DefaultPageSize, "records per request")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of transactions to show")

	return cmd
}

func newTransactionsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get TRANSACTION_TOKEN",
		Short: "Get transaction details",
		Long:  "Display a transaction with its events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			txn, err := client.Transactions().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get transaction: %w", err)
			}

			return render(cmd.OutOrStdout(), format, txn, func(table *tablewriter.Table) {
				table.Header("Property", "Value")

				_ = table.Append("Token", txn.Token)
				_ = table.Append("Created", formatTime(txn.Created))
				_ = table.Append("Card", txn.Card.Token)
				_ = table.Append("Merchant", txn.Merchant.Descriptor)
				_ = table.Append("Amount", formatCents(txn.Amount))
				_ = table.Append("Settled", formatCents(txn.SettledAmount))
				_ = table.Append("Status", formatEnum(string(txn.Status)))
				_ = table.Append("Result", formatEnum(string(txn.Result)))

				for i, event := range txn.Events {
					_ = table.Append(fmt.Sprintf("Event %d", i+1), fmt.Sprintf("%s %s %s",
						formatEnum(string(event.Type)), formatCents(event.Amount), formatEnum(string(event.Result))))
				}
			})
		},
	}
}
