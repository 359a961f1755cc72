package tags

import (
	"context"

	"github.com/plonetools/tagctl/internal/gateway"
	"github.com/plonetools/tagctl/pkg/errors"
	"github.com/plonetools/tagctl/pkg/logging"
)

// Operation names a reconciliation operation in reports.
type Operation string

// Reconciliation operations.
const (
	OpMerge  Operation = "merge"
	OpRename Operation = "rename"
	OpRemove Operation = "remove"
)

// Report is the run-level result of one reconciliation.
type Report struct {
	Operation    Operation      `json:"operation"`
	Scope        string         `json:"scope,omitempty"`
	Sources      []string       `json:"sources"`
	Target       string         `json:"target,omitempty"`
	DryRun       bool           `json:"dry_run"`
	SourceCounts map[string]int `json:"source_counts"`
	Affected     int            `json:"affected"`
	Outcomes     []Outcome      `json:"outcomes"`
}

// Count returns how many outcomes have the given kind.
func (r *Report) Count(kind OutcomeKind) int {
	n := 0
	for _, outcome := range r.Outcomes {
		if outcome.Kind == kind {
			n++
		}
	}
	return n
}

// Failed returns how many items ended in a failure outcome.
func (r *Report) Failed() int {
	return r.Count(OutcomeWriteFailed) + r.Count(OutcomeVerifyFailed)
}

// Similar is the result of a similarity query: Candidates for a targeted
// query, Pairs for the all-pairs survey.
type Similar struct {
	Query      string      `json:"query,omitempty"`
	Threshold  int         `json:"threshold"`
	Candidates []Candidate `json:"candidates,omitempty"`
	Pairs      []Pair      `json:"pairs,omitempty"`
}

// ItemRef is a summary reference to one content item.
type ItemRef struct {
	Path  string `json:"path"`
	Title string `json:"title,omitempty"`
	Type  string `json:"type,omitempty"`
}

// Coordinator orchestrates collector, grouper and mutator for one run. It
// owns a per-scope index cache that lives no longer than the coordinator
// itself and is dropped on any successful mutation. Discovery queries
// (ListTags, FindSimilar, TagItems) never write.
type Coordinator struct {
	gw        Gateway
	collector *Collector
	mutator   *Mutator
	indexes   map[string]*Index
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithRetryPolicy overrides the mutator's verification retry policy.
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(c *Coordinator) {
		c.mutator = NewMutator(c.gw, policy)
	}
}

// NewCoordinator creates a coordinator over gw.
func NewCoordinator(gw Gateway, opts ...Option) *Coordinator {
	c := &Coordinator{
		gw:        gw,
		collector: NewCollector(gw),
		mutator:   NewMutator(gw, DefaultRetryPolicy()),
		indexes:   make(map[string]*Index),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Invalidate drops every cached index. Mutations call this themselves;
// callers reconnecting to a different repository should call it too.
func (c *Coordinator) Invalidate() {
	c.indexes = make(map[string]*Index)
}

// index returns the cached index for scope, collecting it on first use.
func (c *Coordinator) index(ctx context.Context, scope string, debug bool) (*Index, error) {
	if cached, ok := c.indexes[scope]; ok {
		return cached, nil
	}
	index, err := c.collector.Collect(ctx, scope, debug)
	if err != nil {
		return nil, err
	}
	c.indexes[scope] = index
	return index, nil
}

// ListTags returns the tag vocabulary under scope ordered by frequency
// descending, tag ascending.
func (c *Coordinator) ListTags(ctx context.Context, scope string, debug bool) ([]TagCount, error) {
	index, err := c.index(ctx, scope, debug)
	if err != nil {
		return nil, err
	}
	return index.Counts(), nil
}

// FindSimilar runs a similarity query under scope. With a non-empty tag it
// returns candidates similar to that tag; with an empty tag it surveys all
// pairs.
func (c *Coordinator) FindSimilar(ctx context.Context, scope, tag string, threshold int) (*Similar, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return nil, err
	}
	index, err := c.index(ctx, scope, false)
	if err != nil {
		return nil, err
	}

	similar := &Similar{Query: tag, Threshold: threshold}
	if tag != "" {
		similar.Candidates, err = SimilarTo(tag, index, threshold)
	} else {
		similar.Pairs, err = AllSimilarPairs(index, threshold)
	}
	if err != nil {
		return nil, err
	}
	return similar, nil
}

// TagItems lists the items carrying tag under scope. Read-only; goes
// through the subject search rather than the index so it needs no full
// collection pass.
func (c *Coordinator) TagItems(ctx context.Context, scope, tag string) ([]ItemRef, error) {
	if tag == "" {
		return nil, errors.NewValidationError("tag", tag, "must not be empty")
	}
	docs, err := c.gw.SearchBySubject(ctx, tag, scope)
	if err != nil {
		return nil, err
	}

	refs := make([]ItemRef, 0, len(docs))
	for _, doc := range docs {
		refs = append(refs, ItemRef{
			Path:  c.gw.PathFor(gateway.StringField(doc, "@id")),
			Title: gateway.StringField(doc, "title"),
			Type:  gateway.StringField(doc, "@type"),
		})
	}
	return refs, nil
}

// Merge folds every source tag into target across scope.
func (c *Coordinator) Merge(ctx context.Context, scope string, sources []string, target string, dryRun bool) (*Report, error) {
	if target == "" {
		return nil, errors.NewValidationError("target", target, "must not be empty; use remove to delete a tag")
	}
	return c.reconcile(ctx, OpMerge, scope, sources, target, dryRun)
}

// Rename renames one tag. It is a single-source merge.
func (c *Coordinator) Rename(ctx context.Context, scope, oldTag, newTag string, dryRun bool) (*Report, error) {
	if newTag == "" {
		return nil, errors.NewValidationError("target", newTag, "must not be empty; use remove to delete a tag")
	}
	return c.reconcile(ctx, OpRename, scope, []string{oldTag}, newTag, dryRun)
}

// Remove strips a tag from every item carrying it. Removal is an explicit
// operation, not a merge with an empty target string, so an empty target
// can never be mistaken for a legitimate tag value.
func (c *Coordinator) Remove(ctx context.Context, scope, tag string, dryRun bool) (*Report, error) {
	return c.reconcile(ctx, OpRemove, scope, []string{tag}, "", dryRun)
}

// reconcile builds the plan from a fresh or cached index and dispatches to
// the mutator.
func (c *Coordinator) reconcile(ctx context.Context, op Operation, scope string, sources []string, target string, dryRun bool) (*Report, error) {
	if len(sources) == 0 {
		return nil, errors.NewValidationError("sources", sources, "at least one source tag is required")
	}
	for _, source := range sources {
		if source == "" {
			return nil, errors.NewValidationError("sources", sources, "source tags must not be empty")
		}
	}

	index, err := c.index(ctx, scope, false)
	if err != nil {
		return nil, err
	}

	sourceCounts := make(map[string]int, len(sources))
	for _, source := range sources {
		sourceCounts[source] = index.ItemCount(source)
	}

	plan := &Plan{
		Sources: sources,
		Target:  target,
		Paths:   index.Union(sources),
	}

	logging.FromContext(ctx).Info().
		Str("operation", string(op)).
		Strs("sources", sources).
		Str("target", target).
		Int("items", len(plan.Paths)).
		Bool("dry_run", dryRun).
		Msg("applying reconciliation plan")

	report := &Report{
		Operation:    op,
		Scope:        scope,
		Sources:      sources,
		Target:       target,
		DryRun:       dryRun,
		SourceCounts: sourceCounts,
		Affected:     len(plan.Paths),
		Outcomes:     c.mutator.Apply(ctx, plan, dryRun),
	}

	// The snapshot no longer matches the repository after a real write.
	if !dryRun && report.Count(OutcomeUpdated) > 0 {
		c.Invalidate()
	}
	return report, nil
}
