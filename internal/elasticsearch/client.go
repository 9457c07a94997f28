// Package elasticsearch mirrors the catalog into an Elasticsearch index so
// it can be queried from outside the process. Matching keeps the catalog's
// case-insensitive substring semantics.
package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/mfenderov/aitools/internal/query"
	"github.com/mfenderov/aitools/pkg/models"
)

// Config holds Elasticsearch client configuration.
type Config struct {
	Addresses []string
	Index     string
	Username  string
	Password  string
}

// Client wraps the Elasticsearch client with catalog operations.
type Client struct {
	es    *elasticsearch.Client
	index string
}

// New creates a new Elasticsearch client.
func New(config Config) (*Client, error) {
	if config.Index == "" {
		return nil, fmt.Errorf("index is required")
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: config.Addresses,
		Username:  config.Username,
		Password:  config.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ES client: %w", err)
	}

	return &Client{
		es:    es,
		index: config.Index,
	}, nil
}

// Index returns the index name.
func (c *Client) Index() string {
	return c.index
}

// Ping checks if Elasticsearch is available.
func (c *Client) Ping(ctx context.Context) bool {
	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return false
	}
	defer res.Body.Close()
	return !res.IsError()
}

// indexMapping stores searchable fields as wildcard so "*q*" matches any
// substring. The full record rides along unindexed in "tool".
const indexMapping = `{
	"mappings": {
		"properties": {
			"id": { "type": "keyword" },
			"position": { "type": "integer" },
			"name": { "type": "wildcard" },
			"name_key": { "type": "keyword" },
			"description": { "type": "wildcard" },
			"categories": { "type": "wildcard" },
			"category_exact": { "type": "keyword" },
			"features": { "type": "wildcard" },
			"launch_date": { "type": "date", "format": "strict_date_optional_time||yyyy-MM-dd", "ignore_malformed": true },
			"popularity": { "type": "double" },
			"tool": { "type": "object", "enabled": false }
		}
	}
}`

// document is the indexed form of a tool.
type document struct {
	ID            string      `json:"id"`
	Position      int         `json:"position"`
	Name          string      `json:"name"`
	NameKey       string      `json:"name_key"`
	Description   string      `json:"description"`
	Categories    []string    `json:"categories"`
	CategoryExact []string    `json:"category_exact"`
	Features      []string    `json:"features"`
	LaunchDate    string      `json:"launch_date,omitempty"`
	Popularity    float64     `json:"popularity"`
	Tool          models.Tool `json:"tool"`
}

func newDocument(t models.Tool, position int) document {
	return document{
		ID:            t.ID,
		Position:      position,
		Name:          t.Name,
		NameKey:       strings.ToLower(t.Name),
		Description:   t.Description,
		Categories:    t.Categories,
		CategoryExact: t.Categories,
		Features:      t.Features,
		LaunchDate:    t.LaunchDate,
		Popularity:    t.Popularity(),
		Tool:          t,
	}
}

// CreateIndex creates the index with proper mapping.
func (c *Client) CreateIndex(ctx context.Context) error {
	res, err := c.es.Indices.Exists([]string{c.index}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to check index: %w", err)
	}
	res.Body.Close()

	if res.StatusCode == 200 {
		return nil
	}

	res, err = c.es.Indices.Create(
		c.index,
		c.es.Indices.Create.WithContext(ctx),
		c.es.Indices.Create.WithBody(strings.NewReader(indexMapping)),
	)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error creating index: %s", res.String())
	}
	return nil
}

// DeleteIndex removes the index. A missing index is not an error.
func (c *Client) DeleteIndex(ctx context.Context) error {
	res, err := c.es.Indices.Delete(
		[]string{c.index},
		c.es.Indices.Delete.WithContext(ctx),
		c.es.Indices.Delete.WithIgnoreUnavailable(true),
	)
	if err != nil {
		return fmt.Errorf("failed to delete index: %w", err)
	}
	defer res.Body.Close()
	return nil
}

// IndexTool indexes a single tool at the given catalog position.
func (c *Client) IndexTool(ctx context.Context, t models.Tool, position int) error {
	data, err := json.Marshal(newDocument(t, position))
	if err != nil {
		return fmt.Errorf("failed to marshal tool: %w", err)
	}

	res, err := c.es.Index(
		c.index,
		bytes.NewReader(data),
		c.es.Index.WithContext(ctx),
		c.es.Index.WithDocumentID(t.ID),
	)
	if err != nil {
		return fmt.Errorf("failed to index tool: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing tool (status %d): %s", res.StatusCode, res.String())
	}
	return nil
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		ID     string `json:"_id"`
		Status int    `json:"status"`
		Error  *struct {
			Reason string `json:"reason"`
		} `json:"error"`
	} `json:"items"`
}

// IndexTools indexes tools in one bulk request, using slice order as the
// catalog position. The index is refreshed before returning.
func (c *Client) IndexTools(ctx context.Context, tools []models.Tool) error {
	if len(tools) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i, t := range tools {
		meta := map[string]any{"index": map[string]any{"_id": t.ID}}
		if err := enc.Encode(meta); err != nil {
			return fmt.Errorf("failed to encode bulk action: %w", err)
		}
		if err := enc.Encode(newDocument(t, i)); err != nil {
			return fmt.Errorf("failed to encode tool %s: %w", t.ID, err)
		}
	}

	res, err := c.es.Bulk(
		&buf,
		c.es.Bulk.WithContext(ctx),
		c.es.Bulk.WithIndex(c.index),
		c.es.Bulk.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("bulk index failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("bulk index error: %s", res.String())
	}

	var br bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&br); err != nil {
		return fmt.Errorf("failed to decode bulk response: %w", err)
	}
	if br.Errors {
		var failed []string
		for _, item := range br.Items {
			for _, r := range item {
				if r.Error != nil {
					failed = append(failed, r.ID+": "+r.Error.Reason)
				}
			}
		}
		return fmt.Errorf("bulk index rejected %d tools: %s", len(failed), strings.Join(failed, "; "))
	}
	return nil
}

// Rebuild replaces the index contents with tools.
func (c *Client) Rebuild(ctx context.Context, tools []models.Tool) error {
	if err := c.DeleteIndex(ctx); err != nil {
		return err
	}
	if err := c.CreateIndex(ctx); err != nil {
		return err
	}
	return c.IndexTools(ctx, tools)
}

// Refresh forces an index refresh.
func (c *Client) Refresh(ctx context.Context) error {
	res, err := c.es.Indices.Refresh(
		c.es.Indices.Refresh.WithContext(ctx),
		c.es.Indices.Refresh.WithIndex(c.index),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	return nil
}

// searchResponse represents ES search response structure.
type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source document `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// escapeWildcard escapes the wildcard metacharacters in s.
func escapeWildcard(s string) string {
	return strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`).Replace(s)
}

// buildQuery translates query params into a search body. p must already
// carry its defaults.
func buildQuery(p query.Params) map[string]any {
	var filter []any
	if p.Category != "" && p.Category != query.AllCategories {
		filter = append(filter, map[string]any{"term": map[string]any{"category_exact": p.Category}})
	}

	var should []any
	if q := strings.ToLower(strings.TrimSpace(p.Query)); q != "" {
		pattern := "*" + escapeWildcard(q) + "*"
		for _, field := range []string{"name", "description", "categories", "features"} {
			should = append(should, map[string]any{
				"wildcard": map[string]any{
					field: map[string]any{"value": pattern, "case_insensitive": true},
				},
			})
		}
	}

	boolQuery := map[string]any{}
	if len(filter) > 0 {
		boolQuery["filter"] = filter
	}
	if len(should) > 0 {
		boolQuery["should"] = should
		boolQuery["minimum_should_match"] = 1
	}

	return map[string]any{
		"query":            map[string]any{"bool": boolQuery},
		"sort":             sortClause(p.Sort),
		"from":             query.Offset(p.Page, p.PageSize),
		"size":             p.PageSize,
		"track_total_hits": true,
	}
}

// sortClause mirrors query.Sort. Ties and relevance fall back to catalog
// position, which is what a stable in-memory sort yields.
func sortClause(key query.SortKey) []any {
	position := map[string]any{"position": "asc"}
	switch key {
	case query.SortName:
		return []any{map[string]any{"name_key": "asc"}, position}
	case query.SortNewest:
		return []any{map[string]any{"launch_date": map[string]any{"order": "desc", "missing": "_last"}}, position}
	case query.SortPopular, query.SortRating:
		return []any{map[string]any{"popularity": "desc"}, position}
	}
	return []any{position}
}

// Search runs p against the index and returns one page of results.
func (c *Client) Search(ctx context.Context, p query.Params) (query.Result, error) {
	p = p.Normalize()

	data, err := json.Marshal(buildQuery(p))
	if err != nil {
		return query.Result{}, fmt.Errorf("failed to marshal query: %w", err)
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(bytes.NewReader(data)),
	)
	if err != nil {
		return query.Result{}, fmt.Errorf("search failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return query.Result{}, fmt.Errorf("search error: %s", res.String())
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return query.Result{}, fmt.Errorf("failed to decode response: %w", err)
	}

	items := make([]models.Tool, len(sr.Hits.Hits))
	for i, hit := range sr.Hits.Hits {
		items[i] = hit.Source.Tool
	}

	total := sr.Hits.Total.Value
	return query.Result{
		Items:      items,
		Total:      total,
		TotalPages: query.TotalPages(total, p.PageSize),
		Page:       p.Page,
		PageSize:   p.PageSize,
		Params:     p,
	}, nil
}

// getResponse represents ES get response structure.
type getResponse struct {
	Found  bool     `json:"found"`
	Source document `json:"_source"`
}

// GetTool retrieves a tool by id. It returns (nil, nil) when none exists.
func (c *Client) GetTool(ctx context.Context, id string) (*models.Tool, error) {
	res, err := c.es.Get(
		c.index,
		id,
		c.es.Get.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("get failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return nil, nil
	}

	if res.IsError() {
		return nil, fmt.Errorf("get error: %s", res.String())
	}

	var gr getResponse
	if err := json.NewDecoder(res.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if !gr.Found {
		return nil, nil
	}

	return &gr.Source.Tool, nil
}
