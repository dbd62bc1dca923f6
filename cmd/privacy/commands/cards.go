package commands

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/privacy-client/internal/constants"
	"github.com/fivetwenty-io/privacy-client/pkg/privacy"
)

// NewCardsCommand creates the cards command group
func NewCardsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cards",
		Aliases: []string{"card"},
		Short:   "Manage cards",
		Long:    "List, create, update, pause and close virtual cards",
	}

	cmd.AddCommand(newCardsListCommand())
	cmd.AddCommand(newCardsGetCommand())
	cmd.AddCommand(newCardsCreateCommand())
	cmd.AddCommand(newCardsUpdateCommand())
	cmd.AddCommand(newCardsPauseCommand())
	cmd.AddCommand(newCardsCloseCommand())

	return cmd
}

func newCardsListCommand() *cobra.Command {
	var (
		begin    string
		end      string
		page     int
		pageSize int
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cards",
		Long:  "List cards on the account, walking every page unless --limit is set",
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

			params := privacy.NewCardListParams().WithDateRange(beginDate, endDate).WithPageSize(pageSize)
			params.Page = page
			params.Limit = limit

			cards, err := client.Cards().List(cmd.Context(), params).All()
			if err != nil {
				return fmt.Errorf("failed to list cards: %w", err)
			}

			if cards == nil {
				cards = []privacy.Card{}
			}

			return render(cmd.OutOrStdout(), format, cards, func(table *tablewriter.Table) {
				table.Header("Token", "Memo", "Type", "State", "Last Four", "Spend Limit", "Hostname")

				for _, card := range cards {
					_ = table.Append(card.Token, card.Memo, formatEnum(string(card.Type)), formatEnum(string(card.State)),
						card.LastFour, formatSpendLimit(card.SpendLimit, card.SpendLimitDuration), card.Hostname)
				}
			})
		},
	}

	cmd.Flags().StringVar(&begin, "begin", "", "only cards created on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "only cards created before this date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&page, "page", 0, "first page to fetch")
	cmd.Flags().IntVar(&pageSize, "page-size", constants.DefaultPageSize, "records per request")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of cards to show")

	return cmd
}

func newCardsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get CARD_TOKEN",
		Short: "Get card details",
		Long:  "Display detailed information about a specific card",
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

			card, err := client.Cards().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get card: %w", err)
			}

			return renderCard(cmd, format, card)
		},
	}
}

func newCardsCreateCommand() *cobra.Command {
	var (
		cardType     string
		memo         string
		spendLimit   int
		duration     string
		state        string
		fundingToken string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a card",
		Long:  "Create a new virtual card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cardType == "" {
				return constants.ErrCardTypeRequired
			}

			format, err := outputFormat()
			if err != nil {
				return err
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			request := &privacy.CardCreateRequest{
				Type:               privacy.CardType(normalizeEnum(cardType)),
				Memo:               memo,
				SpendLimitDuration: privacy.SpendLimitDuration(normalizeEnum(duration)),
				State:              privacy.CardState(normalizeEnum(state)),
				FundingToken:       fundingToken,
			}

			if cmd.Flags().Changed("spend-limit") {
				request.SpendLimit = &spendLimit
			}

			card, err := client.Cards().Create(cmd.Context(), request)
			if err != nil {
				return fmt.Errorf("failed to create card: %w", err)
			}

			return renderCard(cmd, format, card)
		},
	}

	cmd.Flags().StringVar(&cardType, "type", "", "card type (single_use, merchant_locked, unlocked, physical)")
	cmd.Flags().StringVar(&memo, "memo", "", "card name")
	cmd.Flags().IntVar(&spendLimit, "spend-limit", 0, "spend limit in cents")
	cmd.Flags().StringVar(&duration, "duration", "", "spend limit duration (transaction, monthly, annually, forever)")
	cmd.Flags().StringVar(&state, "state", "", "initial state (open, paused)")
	cmd.Flags().StringVar(&fundingToken, "funding-token", "", "funding account token")

	return cmd
}

func newCardsUpdateCommand() *cobra.Command {
	var (
		memo         string
		spendLimit   int
		duration     string
		state        string
		fundingToken string
	)

	cmd := &cobra.Command{
		Use:   "update CARD_TOKEN",
		Short: "Update a card",
		Long:  "Update an existing card. A closed card cannot be reopened.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request := &privacy.CardUpdateRequest{
				Memo:               memo,
				SpendLimitDuration: privacy.SpendLimitDuration(normalizeEnum(duration)),
				State:              privacy.CardState(normalizeEnum(state)),
				FundingToken:       fundingToken,
			}

			if cmd.Flags().Changed("spend-limit") {
				request.SpendLimit = &spendLimit
			}

			if *request == (privacy.CardUpdateRequest{}) {
				return constants.ErrNothingToUpdate
			}

			return updateBoundCard(cmd, args[0], func(card *privacy.Card) (*privacy.Card, error) {
				return card.Update(cmd.Context(), request)
			})
		},
	}

	cmd.Flags().StringVar(&memo, "memo", "", "new card name")
	cmd.Flags().IntVar(&spendLimit, "spend-limit", 0, "new spend limit in cents")
	cmd.Flags().StringVar(&duration, "duration", "", "new spend limit duration")
	cmd.Flags().StringVar(&state, "state", "", "new state (open, paused, closed)")
	cmd.Flags().StringVar(&fundingToken, "funding-token", "", "new funding account token")

	return cmd
}

func newCardsPauseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pause CARD_TOKEN",
		Short: "Pause a card",
		Long:  "Pause a card so new authorizations are declined",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateBoundCard(cmd, args[0], func(card *privacy.Card) (*privacy.Card, error) {
				return card.Pause(cmd.Context())
			})
		},
	}
}

func newCardsCloseCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "close CARD_TOKEN",
		Short: "Close a card",
		Long:  "Close a card permanently. This cannot be undone.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Really close card '%s'? This cannot be undone. (y/N): ", args[0])

				var response string

				_, _ = fmt.Fscanln(cmd.InOrStdin(), &response)
				if response != "y" && response != "Y" {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")

					return nil
				}
			}

			return updateBoundCard(cmd, args[0], func(card *privacy.Card) (*privacy.Card, error) {
				return card.Close(cmd.Context())
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "close without confirmation")

	return cmd
}

// updateBoundCard fetches a card and applies op through its bound operations.
func updateBoundCard(cmd *cobra.Command, token string, op func(card *privacy.Card) (*privacy.Card, error)) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	client, err := CreateClient()
	if err != nil {
		return err
	}

	card, err := client.Cards().Get(cmd.Context(), token)
	if err != nil {
		return fmt.Errorf("failed to get card: %w", err)
	}

	updated, err := op(card)
	if err != nil {
		return fmt.Errorf("failed to update card: %w", err)
	}

	return renderCard(cmd, format, updated)
}

func renderCard(cmd *cobra.Command, format string, card *privacy.Card) error {
	return render(cmd.OutOrStdout(), format, card, func(table *tablewriter.Table) {
		table.Header("Property", "Value")

		_ = table.Append("Token", card.Token)
		_ = table.Append("Memo", card.Memo)
		_ = table.Append("Type", formatEnum(string(card.Type)))
		_ = table.Append("State", formatEnum(string(card.State)))
		_ = table.Append("Last Four", card.LastFour)
		_ = table.Append("Spend Limit", formatSpendLimit(card.SpendLimit, card.SpendLimitDuration))

		if card.Hostname != "" {
			_ = table.Append("Hostname", card.Hostname)
		}

		if card.ExpMonth != "" {
			_ = table.Append("Expires", card.ExpMonth+"/"+card.ExpYear)
		}

		if card.Funding != nil {
			_ = table.Append("Funding", card.Funding.AccountName+" ("+card.Funding.LastFour+")")
		}
	})
}

func formatSpendLimit(cents int, duration privacy.SpendLimitDuration) string {
	if cents == 0 {
		return "none"
	}

	if duration == "" {
		return formatCents(cents)
	}

	return formatCents(cents) + " " + formatEnum(string(duration))
}

// normalizeEnum maps user input such as "merchant-locked" to MERCHANT_LOCKED.
func normalizeEnum(value string) string {
	return strings.ToUpper(strings.NewReplacer("-", "_", " ", "_").Replace(strings.TrimSpace(value)))
}
