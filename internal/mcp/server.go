// Package mcp exposes the directory as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mfenderov/aitools/internal/catalog"
	"github.com/mfenderov/aitools/internal/directory"
	"github.com/mfenderov/aitools/internal/query"
	"github.com/mfenderov/aitools/pkg/models"
)

// Config holds MCP server configuration.
type Config struct {
	Name    string
	Version string
}

// Server wraps the MCP server around a directory service.
type Server struct {
	mcpServer *server.MCPServer
	directory *directory.Service
}

// NewServer creates a new MCP server with the directory tools registered.
func NewServer(config Config, dir *directory.Service) (*Server, error) {
	if dir == nil {
		return nil, fmt.Errorf("directory service is required")
	}

	mcpServer := server.NewMCPServer(
		config.Name,
		config.Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	s := &Server{
		mcpServer: mcpServer,
		directory: dir,
	}

	searchTool := mcp.NewTool("search_tools",
		mcp.WithDescription("Search the AI tools directory. Matches name, description, categories and features, ignoring case. Returns one page of results as JSON."),
		mcp.WithString("query",
			mcp.Description("Substring to search for; empty lists the whole catalog"),
		),
		mcp.WithString("category",
			mcp.Description(`Exact category name, or "All"`),
		),
		mcp.WithString("sort",
			mcp.Description("One of relevance, newest, popular, rating, name (default: relevance)"),
		),
		mcp.WithNumber("page",
			mcp.Description("1-based page number (default: 1)"),
		),
		mcp.WithNumber("page_size",
			mcp.Description(fmt.Sprintf("Results per page (default: %d)", query.DefaultPageSize)),
		),
	)
	mcpServer.AddTool(searchTool, s.searchHandler)

	getTool := mcp.NewTool("get_tool",
		mcp.WithDescription("Get one AI tool by id or name slug, with related tools"),
		mcp.WithString("slug",
			mcp.Required(),
			mcp.Description("Tool id or slug, e.g. chatgpt"),
		),
	)
	mcpServer.AddTool(getTool, s.getToolHandler)

	categoriesTool := mcp.NewTool("list_categories",
		mcp.WithDescription("List every category with the number of tools in it, largest first"),
	)
	mcpServer.AddTool(categoriesTool, s.categoriesHandler)

	featuredTool := mcp.NewTool("featured_tools",
		mcp.WithDescription("List the most reviewed tools"),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Maximum number of tools (default: %d)", directory.DefaultFeaturedLimit)),
		),
	)
	mcpServer.AddTool(featuredTool, s.featuredHandler)

	return s, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// searchHandler handles the search_tools tool call.
func (s *Server) searchHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sortKey := query.SortRelevance
	if raw := req.GetString("sort", ""); raw != "" {
		k, ok := query.ParseSortKey(raw)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown sort %q", raw)), nil
		}
		sortKey = k
	}

	p := query.Params{
		Query:    req.GetString("query", ""),
		Category: req.GetString("category", ""),
		Sort:     sortKey,
		Page:     req.GetInt("page", 1),
		PageSize: req.GetInt("page_size", query.DefaultPageSize),
	}

	return jsonResult(s.handleSearch(p))
}

type searchPayload struct {
	query.Result
	Categories []string `json:"categories"`
}

// handleSearch runs the query pipeline and attaches the category facet.
func (s *Server) handleSearch(p query.Params) searchPayload {
	return searchPayload{
		Result:     s.directory.Query(p),
		Categories: s.directory.Facets(p),
	}
}

// getToolHandler handles the get_tool tool call.
func (s *Server) getToolHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError("slug parameter is required"), nil
	}

	detail, ok := s.handleGetTool(slug)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("tool not found: %s", slug)), nil
	}
	return jsonResult(detail)
}

type toolDetail struct {
	Tool    models.Tool   `json:"tool"`
	Related []models.Tool `json:"related"`
}

// handleGetTool looks a tool up and collects its related tools.
func (s *Server) handleGetTool(slug string) (toolDetail, bool) {
	t, ok := s.directory.ToolBySlug(slug)
	if !ok {
		return toolDetail{}, false
	}
	return toolDetail{Tool: t, Related: s.directory.RelatedTools(t.ID, directory.DefaultFeaturedLimit)}, true
}

// categoriesHandler handles the list_categories tool call.
func (s *Server) categoriesHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.handleCategories())
}

func (s *Server) handleCategories() []catalog.CategoryCount {
	return s.directory.Categories()
}

// featuredHandler handles the featured_tools tool call.
func (s *Server) featuredHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.directory.FeaturedTools(req.GetInt("limit", directory.DefaultFeaturedLimit)))
}

// ServeStdio starts the MCP server using stdio transport.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
