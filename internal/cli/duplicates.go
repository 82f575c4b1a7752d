package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/planvault/internal/plans"
	"github.com/aidanlsb/planvault/internal/ui"
)

var duplicatesCmd = &cobra.Command{
	Use:   "duplicates",
	Short: "Report plans present in more than one folder",
	Long: `Report plans present in more than one folder. This happens when a move
wrote the destination but could not delete the source. Listings show the
copy in the most advanced folder; delete the others in Obsidian.`,
	Args: exactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadManager()
		if err != nil {
			return handleError(err)
		}

		dups, err := m.FindDuplicates(cmd.Context())
		if err != nil {
			return handleError(err)
		}

		if isJSONOutput() {
			if dups == nil {
				dups = []plans.Duplicate{}
			}
			outputSuccess(map[string]interface{}{"duplicates": dups}, &Meta{Count: len(dups)})
			return nil
		}

		fmt.Println(ui.DuplicatesNotice(len(dups)))
		fmt.Print(ui.RenderDuplicates(dups))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(duplicatesCmd)
}
