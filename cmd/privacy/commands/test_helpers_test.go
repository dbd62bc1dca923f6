package commands

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"github.com/fivetwenty-io/privacy-client/pkg/privacy"
)

// findSubcommand finds a subcommand by name within a cobra command.
func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

// useTestAPI points the CLI configuration at handler for the duration of the test.
// Tests using it share viper's global state and must not run in parallel.
func useTestAPI(t *testing.T, output string, handler http.HandlerFunc) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("api_key", "test-key")
	viper.Set("environment", "sandbox")
	viper.Set("base_url", server.URL)
	viper.Set("output", output)
}

// execute runs cmd with args and returns what it wrote.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if args == nil {
		args = []string{}
	}

	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func writePage(t *testing.T, w http.ResponseWriter, data interface{}) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	assert.NoError(t, json.NewEncoder(w).Encode(map[string]interface{}{
		"data":          data,
		"page":          1,
		"total_entries": 1,
		"total_pages":   1,
	}))
}

func testCard(state privacy.CardState) privacy.Card {
	return privacy.Card{
		Token:              "card-1",
		Memo:               "groceries",
		Type:               privacy.CardTypeMerchantLocked,
		State:              state,
		LastFour:           "4242",
		SpendLimit:         5000,
		SpendLimitDuration: privacy.SpendLimitMonthly,
	}
}
