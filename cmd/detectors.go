package cmd

import (
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"solvet.dev/pkg/solvet/internal/detectors"
	"solvet.dev/pkg/solvet/internal/model"
)

var detectorsSeverityFlag string

// detectorsCmd represents the detectors command.
var detectorsCmd = newDetectorsCmd()

func newDetectorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detectors",
		Short: "List the registered detectors",
		Long:  "Print every registered detector with its id, severity, title and protocol gate.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var only model.Severity
			filter := detectorsSeverityFlag != ""
			if filter {
				sev, err := model.ParseSeverity(detectorsSeverityFlag)
				if err != nil {
					return err
				}
				only = sev
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"ID", "Severity", "Title", "Gate"})
			table.SetBorder(false)
			table.SetCenterSeparator("")
			table.SetColumnAlignment([]int{
				tablewriter.ALIGN_LEFT,
				tablewriter.ALIGN_LEFT,
				tablewriter.ALIGN_LEFT,
				tablewriter.ALIGN_LEFT,
			})

			for _, d := range detectors.Registry().Descriptors() {
				if filter && d.Severity != only {
					continue
				}

				gate := d.Flag
				if gate == "" {
					gate = "-"
				}

				table.Append([]string{d.ID, d.Severity.String(), d.Title, gate})
			}

			table.Render()

			return nil
		},
	}

	cmd.Flags().StringVarP(&detectorsSeverityFlag, "severity", "s", "", "only show detectors of this severity")

	return cmd
}

func init() {
	rootCmd.AddCommand(detectorsCmd)
}
