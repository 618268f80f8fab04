package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	boardmcp "github.com/gorewood/boardsync/internal/mcp"
)

// newServeCmd creates the serve command for running as an MCP server.
func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run boardsync as a Model Context Protocol (MCP) server over stdio.

This lets an MCP-capable agent read the board and queue replies without
touching the sync files itself. Replies go through the same queue the
watch command drains.

Configure in your agent's MCP settings:
  {
    "mcpServers": {
      "boardsync": {
        "command": "boardsync",
        "args": ["serve", "--file", "/path/to/sync.json"]
      }
    }
  }

Available tools: board, tasks, reply`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, err := buildSource(cmd)
			if err != nil {
				return err
			}
			server := boardmcp.NewServer(buildVersion(), src)
			return server.Run(commandContext(cmd), &mcp.StdioTransport{})
		},
	}
	addSourceFlags(cmd)
	return cmd
}

// buildSource resolves the sync file and reply queue the tools work on.
func buildSource(cmd *cobra.Command) (boardmcp.Source, error) {
	settings, err := resolveSettings(cmd)
	if err != nil {
		return boardmcp.Source{}, err
	}
	if err := requireSyncFile(settings); err != nil {
		return boardmcp.Source{}, err
	}
	replies, err := replyQueue(settings)
	if err != nil {
		return boardmcp.Source{}, err
	}
	return boardmcp.Source{SyncFile: settings.SyncFile, Queue: replies}, nil
}
