package commands

import (
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command
func NewVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long:  "Display detailed version information about the privacy CLI",
		RunE: func(cmd *cobra.Command, args []string) error {
			type VersionInfo struct {
				Version string `json:"version" yaml:"version"`
				Commit  string `json:"commit"  yaml:"commit"`
				Built   string `json:"built"   yaml:"built"`
			}

			format, err := outputFormat()
			if err != nil {
				return err
			}

			versionInfo := VersionInfo{
				Version: version,
				Commit:  commit,
				Built:   date,
			}

			return render(cmd.OutOrStdout(), format, versionInfo, func(table *tablewriter.Table) {
				table.Header("Property", "Value")
				_ = table.Append("Version", version)
				_ = table.Append("Commit", commit)
				_ = table.Append("Built", date)
			})
		},
	}
}
