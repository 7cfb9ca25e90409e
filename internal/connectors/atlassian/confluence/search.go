package confluence

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/custodia-labs/worklink/internal/logger"
)

const (
	// maxSearchLimit is the hard cap Confluence puts on page sizes.
	maxSearchLimit = 200

	// defaultSearchLimit is used when the caller does not set one.
	defaultSearchLimit = 25

	// defaultExpand pulls the properties needed to build a full Page:
	// space, timestamps, rendered body for the excerpt, and labels.
	defaultExpand = "space,history,body.view,metadata.labels"
)

// SearchOptions controls a content search.
type SearchOptions struct {
	// SpaceKey limits the search to one space. When empty the client's
	// default space applies, unless NoDefaultSpace is set.
	SpaceKey string
	// ContentType filters by type: "page", "blogpost", "attachment".
	ContentType string
	// Limit caps the number of results; the API maximum of 200 is
	// enforced. Zero means 25.
	Limit int
	// Start is the 0-based offset for pagination.
	Start int
	// Expand overrides the default expansion properties.
	Expand string
	// NoDefaultSpace searches site-wide even when a default space is
	// configured.
	NoDefaultSpace bool
}

// SearchResult holds a page of search results with paging metadata.
type SearchResult struct {
	Results []Page
	Size    int
	Limit   int
	Start   int
	// CQL is the query actually sent, including space and type filters.
	CQL string
}

// SearchContent searches content by CQL query, scoped by the options.
func (c *Client) SearchContent(ctx context.Context, query string, opts SearchOptions) (*SearchResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	expand := opts.Expand
	if expand == "" {
		expand = defaultExpand
	}

	space := opts.SpaceKey
	if space == "" && !opts.NoDefaultSpace && c.cfg.DefaultSpace != "" {
		space = c.cfg.DefaultSpace
		logger.Debug("confluence: using default space %s", space)
	}

	cql := buildCQL(query, space, opts.ContentType)

	params := url.Values{}
	params.Set("cql", cql)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("start", strconv.Itoa(opts.Start))
	params.Set("expand", expand)

	var response struct {
		Results []contentItem `json:"results"`
		Size    int           `json:"size"`
		Limit   int           `json:"limit"`
		Start   int           `json:"start"`
	}
	if err := c.get(ctx, "/rest/api/content/search", params, &response); err != nil {
		return nil, fmt.Errorf("content search failed: %w", err)
	}

	result := &SearchResult{
		Size:  response.Size,
		Limit: response.Limit,
		Start: response.Start,
		CQL:   cql,
	}
	for _, item := range response.Results {
		result.Results = append(result.Results, item.toPage(c.cfg.NormalizedBaseURL()))
	}
	return result, nil
}

// SearchInSpace searches content within a specific space.
func (c *Client) SearchInSpace(ctx context.Context, spaceKey, query string, opts SearchOptions) ([]Page, error) {
	opts.SpaceKey = spaceKey
	result, err := c.SearchContent(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	return result.Results, nil
}

// SpaceContent lists the content of a space. An empty contentType lists
// pages.
func (c *Client) SpaceContent(ctx context.Context, spaceKey string, opts SearchOptions) ([]Page, error) {
	contentType := opts.ContentType
	if contentType == "" {
		contentType = "page"
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	params := url.Values{}
	params.Set("spaceKey", spaceKey)
	params.Set("type", contentType)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("start", strconv.Itoa(opts.Start))
	params.Set("expand", defaultExpand)

	var response struct {
		Results []contentItem `json:"results"`
	}
	if err := c.get(ctx, "/rest/api/content", params, &response); err != nil {
		return nil, fmt.Errorf("failed to list content of space %s: %w", spaceKey, err)
	}

	pages := make([]Page, 0, len(response.Results))
	for _, item := range response.Results {
		pages = append(pages, item.toPage(c.cfg.NormalizedBaseURL()))
	}
	return pages, nil
}

// buildCQL combines the user query with space and type filters.
func buildCQL(query, spaceKey, contentType string) string {
	parts := []string{query}
	if spaceKey != "" {
		parts = append(parts, fmt.Sprintf("space = %q", spaceKey))
	}
	if contentType != "" {
		parts = append(parts, fmt.Sprintf("type = %q", contentType))
	}
	return strings.Join(parts, " AND ")
}
