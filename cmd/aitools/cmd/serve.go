package cmd

import (
	"fmt"
	"log/slog"

	"github.com/mfenderov/aitools/internal/catalog"
	"github.com/mfenderov/aitools/internal/directory"
	"github.com/mfenderov/aitools/internal/mcp"
	"github.com/spf13/cobra"
)

var serveWatch bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the MCP server over the local snapshot.

The server communicates via stdio and provides four tools:
  - search_tools: Search and page through the catalog
  - get_tool: Get one tool by id or slug
  - list_categories: List categories with counts
  - featured_tools: List the most reviewed tools

With --watch (default from catalog.watch) a replaced snapshot file is
loaded without restarting.

Example:
  aitools serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Reload the snapshot when it changes (also enabled by catalog.watch)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	watch := cfg.Catalog.Watch || serveWatch

	store, _, err := catalog.LoadFile(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	holder := catalog.NewHolder(store)

	if watch {
		w, err := catalog.NewWatcher(cfg.Catalog.Path, holder)
		if err != nil {
			return fmt.Errorf("failed to watch catalog: %w", err)
		}
		if err := w.Start(); err != nil {
			w.Stop()
			return fmt.Errorf("failed to watch catalog: %w", err)
		}
		defer w.Stop()
		slog.Debug("watching catalog", "path", w.Path)
	}

	server, err := mcp.NewServer(mcp.Config{
		Name:    cfg.MCP.Name,
		Version: cfg.MCP.Version,
	}, directory.New(holder))
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Starting MCP server with %d tools...\n", store.Len())

	return server.ServeStdio()
}
