package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aidanlsb/planvault/internal/ui"
)

// defaultExpireDays matches the MCP tool's default.
const defaultExpireDays = 30

var expireDays int

var expireCmd = &cobra.Command{
	Use:   "expire",
	Short: "Archive reviewed plans older than N days",
	Long: `Archive every Reviewed plan whose review_date is more than --days days
before today. Plans without a readable review_date are left alone. A plan
that fails to move does not stop the others.

Examples:
  planvault expire
  planvault expire --days 7`,
	Args: exactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadManager()
		if err != nil {
			return handleError(err)
		}

		spinner := ui.NewSpinner("Archiving old plans...")
		if !isJSONOutput() {
			spinner.Start()
		}
		count, err := m.ArchiveOldReviewed(cmd.Context(), expireDays)
		spinner.Stop()
		if err != nil && count == 0 {
			return handleError(err)
		}
		if err != nil {
			logger.Warn("some plans were not archived", zap.Error(err))
		}

		if isJSONOutput() {
			data := map[string]interface{}{"archived": count, "days_old": expireDays}
			if err != nil {
				data["errors"] = err.Error()
			}
			outputSuccess(data, &Meta{Count: count})
			return nil
		}

		fmt.Println(ui.ExpiredNotice(count, expireDays))
		if err != nil {
			fmt.Println(ui.PartialFailureNotice(err))
		}
		return nil
	},
}

func init() {
	expireCmd.Flags().IntVar(&expireDays, "days", defaultExpireDays, "Archive plans reviewed more than this many days ago")
	rootCmd.AddCommand(expireCmd)
}
