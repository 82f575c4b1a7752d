package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/planvault/internal/ui"
)

var showRaw bool

var showCmd = &cobra.Command{
	Use:   "show <filename>",
	Short: "Show a plan",
	Long: `Show a plan's frontmatter and body. Folders are searched in the order
Inbox, Reviewed, Archive.

With --raw the document is printed exactly as stored.

Examples:
  planvault show 2025-01-08_My_App_Design.md
  planvault show 2025-01-08_My_App_Design.md --raw > plan.md`,
	Args: exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadManager()
		if err != nil {
			return handleError(err)
		}

		p, err := m.GetPlan(cmd.Context(), args[0])
		if err != nil {
			return handleError(err)
		}

		if isJSONOutput() {
			outputSuccess(p, nil)
			return nil
		}

		if showRaw {
			content, err := m.ReadPlan(cmd.Context(), p.Folder, p.Filename)
			if err != nil {
				return handleError(err)
			}
			fmt.Print(content)
			return nil
		}

		fmt.Println(ui.RenderPlanHeader(p))

		display := ui.NewDisplayContext(os.Stdout)
		if !display.IsTTY {
			fmt.Println(p.Body)
			return nil
		}
		rendered, err := ui.RenderPlanBody(p, display.AvailableWidth(4))
		if err != nil {
			logger.Debug("markdown rendering failed, printing plain body")
			fmt.Println(p.Body)
			return nil
		}
		fmt.Print(rendered)
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "Print the stored document unchanged")
	rootCmd.AddCommand(showCmd)
}
