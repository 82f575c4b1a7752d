package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/planvault/internal/config"
	"github.com/aidanlsb/planvault/internal/plans"
	"github.com/aidanlsb/planvault/internal/ui"
)

var initWriteConfig bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the Inbox, Reviewed and Archive folders",
	Long: `Create the plan folders in the vault. Folders with no files get a marker
file so they show up in Obsidian. Running init again is harmless.

With --write-config, a commented config file is written first if none exists.

Examples:
  planvault init
  planvault init --write-config
  planvault init --config ./planvault.toml --write-config`,
	Args: exactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := resolvedConfigPath()
		created := false
		if initWriteConfig {
			var err error
			created, err = config.CreateDefault(path)
			if err != nil {
				return handleError(configError{err})
			}
		}

		m, err := loadManager()
		if err != nil {
			return handleError(err)
		}
		if err := m.InitializeStructure(cmd.Context()); err != nil {
			return handleError(err)
		}

		layout := m.Layout()
		folders := make([]string, len(plans.Folders))
		for i, f := range plans.Folders {
			folders[i] = layout.Dir(f)
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"config":         path,
				"config_created": created,
				"folders":        folders,
			}, nil)
			return nil
		}

		if created {
			fmt.Println(ui.ConfigWrittenNotice(path))
		}
		for i, f := range plans.Folders {
			fmt.Println(ui.FolderReadyNotice(f, folders[i]))
		}
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initWriteConfig, "write-config", false, "Write a default config file if none exists")
	rootCmd.AddCommand(initCmd)
}
