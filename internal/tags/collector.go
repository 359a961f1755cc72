package tags

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/plonetools/tagctl/internal/gateway"
	"github.com/plonetools/tagctl/pkg/constants"
	"github.com/plonetools/tagctl/pkg/logging"
)

// Collector walks a scope and builds the tag index. The search endpoint is
// tried first; when it yields no tags at all (older servers omit the tag
// field from search metadata, or the endpoint is missing) the collector
// falls back to an exhaustive recursive browse of the subtree.
type Collector struct {
	gw Gateway
}

// NewCollector creates a collector reading through gw.
func NewCollector(gw Gateway) *Collector {
	return &Collector{gw: gw}
}

// Collect builds a fresh index of every tag under scope. An empty scope
// covers the whole site. With debug set, each extraction decision is logged.
// The returned index is a snapshot; it is not kept current.
func (c *Collector) Collect(ctx context.Context, scope string, debug bool) (*Index, error) {
	log := logging.FromContext(ctx)

	index := NewIndex()
	searchErr := c.collectViaSearch(ctx, scope, debug, index)
	if searchErr == nil && index.Len() > 0 {
		return index, nil
	}

	if searchErr != nil {
		log.Debug().Err(searchErr).Msg("search-based collection failed")
	}
	// The browse fallback issues one request per container, which is far
	// more traffic than the paginated search over the same scope.
	log.Warn().Str("scope", scope).
		Msg("search endpoint returned no tags; falling back to recursive browse (slow on large sites)")

	if err := c.collectViaBrowse(ctx, scope, debug, index); err != nil {
		return nil, err
	}
	return index, nil
}

// collectViaSearch accumulates tags page by page until the gateway reports
// no further batches, a page comes back short, or the page cap trips. The
// cap guarantees termination when the server-side total disagrees with
// actual page delivery.
func (c *Collector) collectViaSearch(ctx context.Context, scope string, debug bool, index *Index) error {
	log := logging.FromContext(ctx)

	start := 0
	for page := 0; page < constants.MaxSearchPages; page++ {
		result, err := c.gw.Search(ctx, scope, start)
		if err != nil {
			return err
		}
		if len(result.Items) == 0 {
			return nil
		}

		for _, item := range result.Items {
			c.record(item, index, debug, log)
		}

		start += len(result.Items)
		if result.Next == "" && (len(result.Items) < constants.SearchPageSize || start >= result.Total) {
			return nil
		}
	}

	log.Warn().Int("pages", constants.MaxSearchPages).
		Msg("pagination cap reached before the server reported a final page")
	return nil
}

// collectViaBrowse reads one container, records its direct children's tags,
// and recurses into children that are themselves containers. Reads are
// memoized for the duration of this one pass so a path reachable twice is
// fetched once.
func (c *Collector) collectViaBrowse(ctx context.Context, scope string, debug bool, index *Index) error {
	log := logging.FromContext(ctx)

	visited := make(map[string]struct{})
	memo := make(map[string][]gateway.Document)

	var walk func(path string, depth int) error
	walk = func(path string, depth int) error {
		if depth > constants.MaxBrowseDepth {
			return nil
		}
		if _, seen := visited[path]; seen {
			return nil
		}
		visited[path] = struct{}{}

		children, ok := memo[path]
		if !ok {
			var err error
			children, err = c.gw.Children(ctx, path)
			if err != nil {
				if depth == 0 {
					return err
				}
				// Inaccessible subtrees are skipped, not fatal.
				log.Debug().Err(err).Str("path", path).Msg("skipping unreadable container")
				return nil
			}
			memo[path] = children
		}

		for _, child := range children {
			c.record(child, index, debug, log)
			if gateway.IsContainer(child) {
				childPath := c.gw.PathFor(gateway.StringField(child, "@id"))
				if childPath != "" {
					if err := walk(childPath, depth+1); err != nil {
						return err
					}
				}
			}
		}
		return nil
	}

	return walk(scope, 0)
}

// record extracts the tag field from one document and adds it to the index.
// Extraction reports requested via debug go out at info level; the caller
// asked for them explicitly, so they must not depend on the logger's
// verbosity setting.
func (c *Collector) record(doc gateway.Document, index *Index, debug bool, log *zerolog.Logger) {
	itemTags, strategy := ExtractTags(doc)
	path := c.gw.PathFor(gateway.StringField(doc, "@id"))

	if debug {
		if strategy == "" {
			log.Info().Str("path", path).Strs("keys", documentKeys(doc)).
				Msg("no tag field found in any known location")
		} else {
			log.Info().Str("path", path).Str("field", strategy).Strs("tags", itemTags).
				Msg("tag field matched")
		}
	}

	for _, tag := range itemTags {
		index.Add(tag, path)
	}
}

func documentKeys(doc gateway.Document) []string {
	keys := make([]string, 0, len(doc))
	for key := range doc {
		keys = append(keys, key)
	}
	return keys
}
