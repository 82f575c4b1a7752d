package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/planvault/internal/plans"
	"github.com/aidanlsb/planvault/internal/ui"
)

var (
	listFolder   string
	listProject  string
	listType     string
	listPriority string
	listAll      bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List technical plans",
	Long: `List plans in one folder or all three, with their frontmatter.

A plan present in several folders, left behind by an interrupted move, is
listed once from the most advanced folder unless --all is given. Plans
whose frontmatter cannot be read are still listed.

When stdout is not a terminal, output is tab-separated:
  num<TAB>filename<TAB>title<TAB>folder

Examples:
  planvault list
  planvault list --folder inbox --priority High
  planvault list --project "My App" | fzf`,
	Args: exactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := plans.ListOptions{
			Project:           listProject,
			Type:              listType,
			Priority:          listPriority,
			IncludeDuplicates: listAll,
		}
		if listFolder != "" {
			f, err := plans.ParseFolder(listFolder)
			if err != nil {
				return handleError(err)
			}
			opts.Folder = f
		}

		m, err := loadManager()
		if err != nil {
			return handleError(err)
		}

		spinner := ui.NewSpinner("Reading plans...")
		if !isJSONOutput() {
			spinner.Start()
		}
		summaries, err := m.ListTechnicalPlans(cmd.Context(), opts)
		spinner.Stop()
		if err != nil {
			return handleError(err)
		}

		if isJSONOutput() {
			if summaries == nil {
				summaries = []plans.PlanSummary{}
			}
			outputSuccess(map[string]interface{}{"plans": summaries}, &Meta{Count: len(summaries)})
			return nil
		}

		if ShouldUsePipeFormat() {
			WritePipeableList(os.Stdout, planItems(summaries))
			return nil
		}

		if len(summaries) == 0 {
			fmt.Println(ui.Muted.Render("No plans found."))
			return nil
		}
		tbl := ui.NewPlanTable(ui.NewDisplayContext(os.Stdout), ui.PlanLayout)
		tbl.AddSummaries(summaries)
		fmt.Println(tbl.Render())
		fmt.Println(ui.PlanCount(len(summaries)))
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listFolder, "folder", "", "Limit to one folder (inbox, reviewed, archive)")
	listCmd.Flags().StringVarP(&listProject, "project", "p", "", "Filter by project")
	listCmd.Flags().StringVarP(&listType, "type", "t", "", "Filter by plan type")
	listCmd.Flags().StringVar(&listPriority, "priority", "", "Filter by priority")
	listCmd.Flags().BoolVar(&listAll, "all", false, "Show every copy of duplicated plans")
	rootCmd.AddCommand(listCmd)
}
