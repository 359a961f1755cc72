package tags

import (
	"github.com/plonetools/tagctl/internal/gateway"
)

// Tag field extraction. The field the repository carries tags in varies by
// server version: summary documents may expose "Subject", full objects
// "subjects", and some deployments nest it under @components or metadata.
// Extraction is a fixed, ordered list of strategies tried against the
// generic document; the first one yielding a non-empty list wins. New shapes
// get a new strategy, not a new parsing branch at the call sites.

// extractStrategy names one known location of the tag field.
type extractStrategy struct {
	name string
	read func(doc gateway.Document) (any, bool)
}

func topLevel(key string) extractStrategy {
	return extractStrategy{
		name: key,
		read: func(doc gateway.Document) (any, bool) {
			v, ok := doc[key]
			return v, ok
		},
	}
}

func nested(outer, key string) extractStrategy {
	return extractStrategy{
		name: outer + "." + key,
		read: func(doc gateway.Document) (any, bool) {
			inner, ok := doc[outer].(map[string]any)
			if !ok {
				return nil, false
			}
			v, ok := inner[key]
			return v, ok
		},
	}
}

// extractStrategies is the priority order. "Subject" is the catalog's
// standard field name; the rest cover lowercase variants, nesting, and
// alternate vocabularies observed in the wild.
var extractStrategies = []extractStrategy{
	topLevel("Subject"),
	topLevel("subject"),
	nested("@components", "Subject"),
	nested("metadata", "Subject"),
	topLevel("subjects"),
	topLevel("keywords"),
	topLevel("Keywords"),
	topLevel("tags"),
	topLevel("Tags"),
}

// ExtractTags returns the item's tag list and the name of the strategy that
// matched, or (nil, "") when no known location holds tags. Tag strings are
// returned verbatim; empty strings are dropped, order and duplicates are
// preserved.
func ExtractTags(doc gateway.Document) ([]string, string) {
	for _, strategy := range extractStrategies {
		raw, ok := strategy.read(doc)
		if !ok {
			continue
		}
		if tags := coerceTags(raw); len(tags) > 0 {
			return tags, strategy.name
		}
	}
	return nil, ""
}

// coerceTags normalizes the wire value into a string list. Single strings
// become one-element lists; non-string entries are skipped.
func coerceTags(raw any) []string {
	switch v := raw.(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []string:
		return dropEmpty(v)
	case []any:
		tags := make([]string, 0, len(v))
		for _, entry := range v {
			if s, ok := entry.(string); ok && s != "" {
				tags = append(tags, s)
			}
		}
		return tags
	default:
		return nil
	}
}

func dropEmpty(list []string) []string {
	tags := make([]string, 0, len(list))
	for _, s := range list {
		if s != "" {
			tags = append(tags, s)
		}
	}
	return tags
}
