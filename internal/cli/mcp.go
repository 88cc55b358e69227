package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/corex/internal/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for comment extraction",
	Long: `Start the Model Context Protocol (MCP) server that lets coding assistants
extract comments with their enclosing scopes.

The MCP server:
- Provides corex_extract_comments, corex_locate_keyword and corex_languages
- Resolves tool paths against the project directory
- Communicates via stdio (standard MCP transport)

Example:
  corex mcp`,
	RunE: func(cmd *cobra.Command, args []string) error {
		root := projectDir
		if root == "" {
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get current directory: %w", err)
			}
			root = wd
		}

		ex, err := newExtractor(cfg, nil)
		if err != nil {
			return err
		}

		server, err := mcp.NewMCPServer(ex, root)
		if err != nil {
			return fmt.Errorf("failed to create MCP server: %w", err)
		}

		fmt.Fprintf(os.Stderr, "CoRex MCP Server\nProject: %s\n\n", root)
		return server.Serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
