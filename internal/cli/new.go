package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/planvault/internal/plans"
	"github.com/aidanlsb/planvault/internal/ui"
)

var (
	newProject    string
	newType       string
	newPriority   string
	newSource     string
	newNextAction string
	newFile       string
)

var newCmd = &cobra.Command{
	Use:   "new [body...]",
	Short: "File a new technical plan in the Inbox",
	Long: `File a new technical plan in the Inbox.

The body comes from --file (use "-" for stdin), the positional arguments,
or piped stdin. The filename is {today}_{project}_{type}.md; an existing
plan with the same name is overwritten.

Types:      ` + strings.Join(plans.Types, ", ") + `
Priorities: ` + strings.Join(plans.Priorities, ", ") + `
Sources:    ` + strings.Join(plans.Sources, ", ") + `

Examples:
  planvault new --project "My App" --file plan.md
  cat plan.md | planvault new --project api --type Implementation --priority High
  planvault new --project cache "# Cache warmup" --next-action "Review with team"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := readBody(newFile, args)
		if err != nil {
			return handleError(err)
		}

		m, err := loadManager()
		if err != nil {
			return handleError(err)
		}

		path, err := m.CreateTechnicalPlan(cmd.Context(), body, plans.PlanMetadata{
			Project:    newProject,
			Type:       newType,
			Priority:   newPriority,
			Source:     newSource,
			NextAction: newNextAction,
		})
		if err != nil {
			return handleError(err)
		}

		if isJSONOutput() {
			outputSuccess(map[string]string{"path": path}, nil)
			return nil
		}
		fmt.Println(ui.FiledNotice(path))
		return nil
	},
}

func init() {
	newCmd.Flags().StringVarP(&newProject, "project", "p", "", "Project the plan belongs to (required)")
	newCmd.Flags().StringVarP(&newType, "type", "t", "", "Plan type (default Design)")
	newCmd.Flags().StringVar(&newPriority, "priority", "", "Priority (default Medium)")
	newCmd.Flags().StringVar(&newSource, "source", "", "Who wrote the plan (default Other LLM)")
	newCmd.Flags().StringVar(&newNextAction, "next-action", "", "Optional next step")
	newCmd.Flags().StringVarP(&newFile, "file", "f", "", `Read the body from a file ("-" for stdin)`)
	rootCmd.AddCommand(newCmd)
}
