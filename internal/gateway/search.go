package gateway

import (
	"context"
	"net/url"
	"strconv"

	"github.com/plonetools/tagctl/pkg/constants"
)

// SearchPage is one batch of search results.
type SearchPage struct {
	Items []Document
	Total int
	Next  string // absolute URL of the next batch, empty on the final page
}

// Search issues one page of the catalog search scoped to a subtree.
// metadata_fields=_all asks the server to include indexed metadata, which is
// where the tag field appears on servers that expose it at all. An empty
// scope searches the whole site.
func (c *Client) Search(ctx context.Context, scope string, start int) (*SearchPage, error) {
	params := url.Values{}
	params.Set("b_size", strconv.Itoa(constants.SearchPageSize))
	params.Set("metadata_fields", "_all")
	if start > 0 {
		params.Set("b_start", strconv.Itoa(start))
	}
	if scope != "" {
		params.Set("path", scope)
	}

	doc, err := c.getJSON(ctx, c.ResolveURL("@search"), params)
	if err != nil {
		return nil, err
	}
	return parseSearchPage(doc), nil
}

// SearchBySubject returns the summary documents of every item carrying the
// given tag, within scope.
func (c *Client) SearchBySubject(ctx context.Context, subject, scope string) ([]Document, error) {
	params := url.Values{}
	params.Set("Subject", subject)
	params.Set("b_size", strconv.Itoa(constants.SearchPageSize))
	if scope != "" {
		params.Set("path", scope)
	}

	doc, err := c.getJSON(ctx, c.ResolveURL("@search"), params)
	if err != nil {
		return nil, err
	}
	return Items(doc), nil
}

// parseSearchPage extracts items, total, and the next-batch link.
func parseSearchPage(doc Document) *SearchPage {
	page := &SearchPage{Items: Items(doc)}

	switch total := doc["items_total"].(type) {
	case float64:
		page.Total = int(total)
	case int:
		page.Total = total
	default:
		page.Total = len(page.Items)
	}

	if batching, ok := doc["batching"].(map[string]any); ok {
		page.Next = StringField(batching, "next")
	}
	return page
}
