package cmd

import (
	"context"
	"fmt"
	"net/url"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/mfenderov/aitools/internal/directory"
	"github.com/mfenderov/aitools/internal/query"
	"github.com/spf13/cobra"
)

// queryFlags are shared by search and list.
type queryFlags struct {
	category string
	sort     string
	page     int
	pageSize int
	format   string
}

func (f *queryFlags) register(cmd *cobra.Command, defaultSort query.SortKey) {
	cmd.Flags().StringVar(&f.category, "category", "", `Exact category name, or "All"`)
	cmd.Flags().StringVar(&f.sort, "sort", string(defaultSort), "Sort order: relevance, newest, popular, rating or name")
	cmd.Flags().IntVar(&f.page, "page", 1, "Page number")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0, "Results per page (default from query.page_size)")
	cmd.Flags().StringVar(&f.format, "format", "text", "Output format: text or json")
}

// params builds query params the same way a query string would be read.
func (f *queryFlags) params(q string, defaultSort query.SortKey, configPageSize int) (query.Params, error) {
	if _, ok := query.ParseSortKey(f.sort); !ok {
		return query.Params{}, fmt.Errorf("unknown sort %q", f.sort)
	}
	if err := validateFormat(f.format); err != nil {
		return query.Params{}, err
	}

	pageSize := f.pageSize
	if pageSize <= 0 {
		pageSize = configPageSize
	}

	v := url.Values{}
	v.Set("q", q)
	v.Set("category", f.category)
	v.Set("sort", f.sort)
	v.Set("page", strconv.Itoa(f.page))
	v.Set("page_size", strconv.Itoa(pageSize))
	return query.ParseParams(v, defaultSort), nil
}

var (
	searchFlags queryFlags
	searchES    bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the catalog",
	Long: `Search tool names, descriptions, categories and features. Matching is a
case-insensitive substring test.

Examples:
  # Basic search
  aitools search image

  # Restrict to a category and sort by name
  aitools search writing --category Productivity --sort name

  # Query the Elasticsearch mirror instead of the local snapshot
  aitools search image --es

  # JSON output for scripting
  aitools search chat --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchFlags.register(searchCmd, query.SortRelevance)
	searchCmd.Flags().BoolVar(&searchES, "es", false, "Search the Elasticsearch index")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := GetConfig()

	p, err := searchFlags.params(args[0], query.SortRelevance, cfg.Query.PageSize)
	if err != nil {
		return err
	}

	var res query.Result
	if searchES {
		esClient, err := newESClient(cfg.Elasticsearch)
		if err != nil {
			return err
		}
		res, err = esClient.Search(ctx, p)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
	} else {
		dir, _, err := loadDirectory(cfg.Catalog)
		if err != nil {
			return err
		}
		res = searchDirectory(dir, p)
	}

	return writeResult(cmd.OutOrStdout(), searchFlags.format, res)
}

// searchDirectory runs p against the local catalog. A query that matches
// nothing, including a blank one, yields an empty first page.
func searchDirectory(dir *directory.Service, p query.Params) query.Result {
	if len(dir.SearchTools(p.Query)) == 0 {
		return query.Run(nil, p)
	}
	return dir.Query(p)
}
