package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/privacy-client/internal/constants"
)

// outputFormat returns the validated --output value.
func outputFormat() (string, error) {
	output := strings.ToLower(viper.GetString("output"))

	switch output {
	case "", constants.FormatTable:
		return constants.FormatTable, nil
	case constants.FormatJSON, constants.FormatYAML:
		return output, nil
	default:
		return "", fmt.Errorf("%w: %q", constants.ErrInvalidOutput, output)
	}
}

// render writes v as JSON or YAML, or calls fill to build a table.
func render(w io.Writer, format string, v interface{}, fill func(table *tablewriter.Table)) error {
	switch format {
	case constants.FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		return encoder.Encode(v)
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(w)
		defer func() { _ = encoder.Close() }()

		return encoder.Encode(v)
	default:
		table := tablewriter.NewWriter(w)
		fill(table)

		err := table.Render()
		if err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}

		return nil
	}
}

// formatEnum turns MERCHANT_LOCKED into "Merchant Locked".
func formatEnum(value string) string {
	if value == "" {
		return "-"
	}

	return cases.Title(language.English).String(strings.ReplaceAll(strings.ToLower(value), "_", " "))
}

// formatCents renders an amount in cents as dollars.
func formatCents(cents int) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	return t.Format("2006-01-02 15:04:05")
}

// parseDate parses a YYYY-MM-DD flag value. An empty value is the zero time.
func parseDate(flag, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse(constants.DateFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s %q, expected YYYY-MM-DD: %w", flag, value, err)
	}

	return t, nil
}
