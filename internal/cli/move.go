package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/planvault/internal/plans"
	"github.com/aidanlsb/planvault/internal/ui"
)

var reviewCmd = &cobra.Command{
	Use:   "review <filename>",
	Short: "Move a plan from the Inbox to Reviewed",
	Long: `Move a plan from the Inbox to Reviewed and set its review_date to today.
Only the Inbox is searched.

Example:
  planvault review 2025-01-08_My_App_Design.md`,
	Args: exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMove(cmd, args[0], plans.Reviewed)
	},
}

var archiveCmd = &cobra.Command{
	Use:   "archive <filename>",
	Short: "Move a plan to the Archive",
	Long: `Move a plan from the Inbox or Reviewed to the Archive without changing it.
The Inbox is checked first.

Example:
  planvault archive 2025-01-08_My_App_Design.md`,
	Args: exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMove(cmd, args[0], plans.Archive)
	},
}

func runMove(cmd *cobra.Command, filename string, dest plans.Folder) error {
	m, err := loadManager()
	if err != nil {
		return handleError(err)
	}

	if dest == plans.Reviewed {
		err = m.MarkReviewed(cmd.Context(), filename)
	} else {
		err = m.ArchivePlan(cmd.Context(), filename)
	}
	if err != nil {
		return handleError(err)
	}

	path := m.Layout().PlanPath(dest, filename)
	if isJSONOutput() {
		outputSuccess(map[string]string{
			"filename": filename,
			"folder":   string(dest),
			"path":     path,
		}, nil)
		return nil
	}
	fmt.Println(ui.MovedNotice(filename, dest))
	return nil
}

func init() {
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(archiveCmd)
}
