package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/planvault/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run planvault as an MCP server",
	Long: `Run planvault as an MCP (Model Context Protocol) server.

This lets LLM agents file and manage plans through a standardized protocol.
The server communicates over stdin/stdout using JSON-RPC 2.0; logs go to
stderr.

For use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "planvault": {
        "command": "planvault",
        "args": ["serve"]
      }
    }
  }`,
	Args: exactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadManager()
		if err != nil {
			return err
		}

		server := mcp.NewServer(m,
			mcp.WithLogger(logger.Named("mcp")),
			mcp.WithVersion(currentVersionInfo().Version))
		if err := server.Run(cmd.Context()); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
