// Package tags implements the tag reconciliation engine: discovery of the
// tag vocabulary across a repository subtree, fuzzy grouping of
// near-duplicate tags, and multi-item merge/rename/remove operations with
// per-item write verification.
//
// The engine is stateless across invocations. Every structure here (index,
// plan, report) is built at the start of one reconciliation run and
// discarded at its end; the only durable state is whatever the remote
// repository reflects.
package tags

import (
	"context"
	"sort"

	"github.com/plonetools/tagctl/internal/gateway"
)

// Gateway is the engine's window onto the remote repository. It is the only
// collaborator that performs network I/O.
type Gateway interface {
	// ReadItem fetches the full document at path.
	ReadItem(ctx context.Context, path string) (gateway.Document, error)

	// Search issues one page of the scoped catalog search.
	Search(ctx context.Context, scope string, start int) (*gateway.SearchPage, error)

	// SearchBySubject lists summary documents of items carrying one tag.
	SearchBySubject(ctx context.Context, subject, scope string) ([]gateway.Document, error)

	// Children lists the direct children of a container.
	Children(ctx context.Context, path string) ([]gateway.Document, error)

	// UpdateTags replaces the tag field of one item, sending nothing else.
	UpdateTags(ctx context.Context, path string, subjects []string) error

	// PathFor converts an item's absolute @id URL into a repository path.
	PathFor(id string) string
}

// Index is the snapshot of the tag vocabulary for one scope: which item
// paths carry each tag, and how often each tag occurs. Tag strings are
// byte-exact; two tags differing only by case are distinct entries.
// Frequencies count (item, occurrence) pairs, so a duplicate tag within one
// item counts twice.
type Index struct {
	paths  map[string]map[string]struct{}
	counts map[string]int
}

// NewIndex creates an empty tag index.
func NewIndex() *Index {
	return &Index{
		paths:  make(map[string]map[string]struct{}),
		counts: make(map[string]int),
	}
}

// Add records one occurrence of tag on the item at path. Empty tags are
// ignored; they carry no vocabulary information.
func (ix *Index) Add(tag, path string) {
	if tag == "" {
		return
	}
	set, ok := ix.paths[tag]
	if !ok {
		set = make(map[string]struct{})
		ix.paths[tag] = set
	}
	set[path] = struct{}{}
	ix.counts[tag]++
}

// Len returns the number of distinct tags.
func (ix *Index) Len() int {
	return len(ix.counts)
}

// Frequency returns the occurrence count for tag, zero when unknown.
func (ix *Index) Frequency(tag string) int {
	return ix.counts[tag]
}

// ItemCount returns the number of distinct items carrying tag.
func (ix *Index) ItemCount(tag string) int {
	return len(ix.paths[tag])
}

// Paths returns the sorted item paths carrying tag.
func (ix *Index) Paths(tag string) []string {
	set := ix.paths[tag]
	paths := make([]string, 0, len(set))
	for path := range set {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Tags returns all distinct tags in ascending order.
func (ix *Index) Tags() []string {
	tags := make([]string, 0, len(ix.counts))
	for tag := range ix.counts {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Union returns the deduplicated, sorted item paths touched by at least one
// of the given tags.
func (ix *Index) Union(tags []string) []string {
	seen := make(map[string]struct{})
	for _, tag := range tags {
		for path := range ix.paths[tag] {
			seen[path] = struct{}{}
		}
	}
	paths := make([]string, 0, len(seen))
	for path := range seen {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// TagCount is one row of a vocabulary listing.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Counts returns the vocabulary ordered by frequency descending, then tag
// ascending, for deterministic listings.
func (ix *Index) Counts() []TagCount {
	counts := make([]TagCount, 0, len(ix.counts))
	for tag, count := range ix.counts {
		counts = append(counts, TagCount{Tag: tag, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Tag < counts[j].Tag
	})
	return counts
}
