package tags

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plonetools/tagctl/internal/gateway"
	"github.com/plonetools/tagctl/pkg/errors"
)

// seedSite loads a small repository into the fake: three items tagged with
// two spellings of "swimming" plus an unrelated tag.
func seedSite(fake *fakeGateway) {
	fake.docs["doc-a"] = item("doc-a", "swiming", "beach")
	fake.docs["doc-b"] = item("doc-b", "swimming")
	fake.docs["doc-c"] = item("doc-c", "swiming")
	fake.pages = []*gateway.SearchPage{{
		Items: []gateway.Document{
			summary("doc-a", "swiming", "beach"),
			summary("doc-b", "swimming"),
			summary("doc-c", "swiming"),
		},
		Total: 3,
	}}
}

func TestCoordinatorListTags(t *testing.T) {
	fake := newFakeGateway()
	seedSite(fake)
	coordinator := NewCoordinator(fake, WithRetryPolicy(noDelay))

	counts, err := coordinator.ListTags(context.Background(), "", false)
	require.NoError(t, err)
	assert.Equal(t, []TagCount{
		{Tag: "swiming", Count: 2},
		{Tag: "beach", Count: 1},
		{Tag: "swimming", Count: 1},
	}, counts, "frequency descending, tag ascending")
}

func TestCoordinatorIndexCache(t *testing.T) {
	t.Run("repeat queries reuse the snapshot", func(t *testing.T) {
		fake := newFakeGateway()
		seedSite(fake)
		coordinator := NewCoordinator(fake, WithRetryPolicy(noDelay))
		ctx := context.Background()

		_, err := coordinator.ListTags(ctx, "", false)
		require.NoError(t, err)
		_, err = coordinator.FindSimilar(ctx, "", "swimming", 70)
		require.NoError(t, err)
		assert.Equal(t, 1, fake.searchCalls)
	})

	t.Run("scopes are cached independently", func(t *testing.T) {
		fake := newFakeGateway()
		seedSite(fake)
		coordinator := NewCoordinator(fake, WithRetryPolicy(noDelay))
		ctx := context.Background()

		_, err := coordinator.ListTags(ctx, "", false)
		require.NoError(t, err)
		_, err = coordinator.ListTags(ctx, "events", false)
		require.NoError(t, err)
		assert.Equal(t, 2, fake.searchCalls)
	})

	t.Run("successful mutation drops the snapshot", func(t *testing.T) {
		fake := newFakeGateway()
		seedSite(fake)
		coordinator := NewCoordinator(fake, WithRetryPolicy(noDelay))
		ctx := context.Background()

		report, err := coordinator.Merge(ctx, "", []string{"swiming"}, "swimming", false)
		require.NoError(t, err)
		require.Positive(t, report.Count(OutcomeUpdated))
		calls := fake.searchCalls

		_, err = coordinator.ListTags(ctx, "", false)
		require.NoError(t, err)
		assert.Greater(t, fake.searchCalls, calls, "the stale snapshot must not be served")
	})

	t.Run("dry run keeps the snapshot", func(t *testing.T) {
		fake := newFakeGateway()
		seedSite(fake)
		coordinator := NewCoordinator(fake, WithRetryPolicy(noDelay))
		ctx := context.Background()

		_, err := coordinator.Merge(ctx, "", []string{"swiming"}, "swimming", true)
		require.NoError(t, err)
		calls := fake.searchCalls

		_, err = coordinator.ListTags(ctx, "", false)
		require.NoError(t, err)
		assert.Equal(t, calls, fake.searchCalls)
	})
}

func TestCoordinatorFindSimilar(t *testing.T) {
	fake := newFakeGateway()
	seedSite(fake)
	coordinator := NewCoordinator(fake, WithRetryPolicy(noDelay))
	ctx := context.Background()

	t.Run("targeted query", func(t *testing.T) {
		similar, err := coordinator.FindSimilar(ctx, "", "swimming", 70)
		require.NoError(t, err)
		assert.Equal(t, "swimming", similar.Query)
		require.NotEmpty(t, similar.Candidates)
		assert.Equal(t, "swiming", similar.Candidates[0].Tag)
		assert.Empty(t, similar.Pairs)
	})

	t.Run("all pairs survey", func(t *testing.T) {
		similar, err := coordinator.FindSimilar(ctx, "", "", 85)
		require.NoError(t, err)
		require.Len(t, similar.Pairs, 1)
		assert.Equal(t, "swiming", similar.Pairs[0].A, "more frequent spelling leads")
		assert.Equal(t, "swimming", similar.Pairs[0].B)
	})

	t.Run("invalid threshold", func(t *testing.T) {
		_, err := coordinator.FindSimilar(ctx, "", "swimming", 200)
		assert.True(t, errors.IsValidation(err))
	})
}

func TestCoordinatorMerge(t *testing.T) {
	ctx := context.Background()

	t.Run("full merge", func(t *testing.T) {
		fake := newFakeGateway()
		seedSite(fake)
		coordinator := NewCoordinator(fake, WithRetryPolicy(noDelay))

		report, err := coordinator.Merge(ctx, "", []string{"swiming"}, "swimming", false)
		require.NoError(t, err)

		assert.Equal(t, OpMerge, report.Operation)
		assert.Equal(t, map[string]int{"swiming": 2}, report.SourceCounts)
		assert.Equal(t, 2, report.Affected)
		require.Len(t, report.Outcomes, 2)
		assert.Equal(t, 2, report.Count(OutcomeUpdated))
		assert.Zero(t, report.Failed())

		assert.Equal(t, []string{"beach", "swimming"}, fake.writes["doc-a"][0])
		assert.Equal(t, []string{"swimming"}, fake.writes["doc-c"][0])
		assert.Empty(t, fake.writes["doc-b"], "items without a source tag are untouched")
	})

	t.Run("multi source merge unions the affected items", func(t *testing.T) {
		fake := newFakeGateway()
		seedSite(fake)
		coordinator := NewCoordinator(fake, WithRetryPolicy(noDelay))

		report, err := coordinator.Merge(ctx, "", []string{"swiming", "beach"}, "swimming", false)
		require.NoError(t, err)
		assert.Equal(t, 2, report.Affected, "doc-a carries both sources but counts once")
		assert.Equal(t, map[string]int{"swiming": 2, "beach": 1}, report.SourceCounts)
	})

	t.Run("dry run reports previews", func(t *testing.T) {
		fake := newFakeGateway()
		seedSite(fake)
		coordinator := NewCoordinator(fake, WithRetryPolicy(noDelay))

		report, err := coordinator.Merge(ctx, "", []string{"swiming"}, "swimming", true)
		require.NoError(t, err)
		assert.True(t, report.DryRun)
		assert.Equal(t, 2, report.Count(OutcomeWouldUpdate))
		assert.Empty(t, fake.writes)
	})

	t.Run("empty target rejected", func(t *testing.T) {
		fake := newFakeGateway()
		coordinator := NewCoordinator(fake, WithRetryPolicy(noDelay))

		_, err := coordinator.Merge(ctx, "", []string{"swiming"}, "", false)
		assert.True(t, errors.IsValidation(err))
		assert.Zero(t, fake.searchCalls, "validation precedes collection")
	})

	t.Run("empty sources rejected", func(t *testing.T) {
		fake := newFakeGateway()
		coordinator := NewCoordinator(fake, WithRetryPolicy(noDelay))

		_, err := coordinator.Merge(ctx, "", nil, "swimming", false)
		assert.True(t, errors.IsValidation(err))

		_, err = coordinator.Merge(ctx, "", []string{"swiming", ""}, "swimming", false)
		assert.True(t, errors.IsValidation(err))
	})

	t.Run("unknown source affects nothing", func(t *testing.T) {
		fake := newFakeGateway()
		seedSite(fake)
		coordinator := NewCoordinator(fake, WithRetryPolicy(noDelay))

		report, err := coordinator.Merge(ctx, "", []string{"no-such-tag"}, "swimming", false)
		require.NoError(t, err)
		assert.Zero(t, report.Affected)
		assert.Empty(t, report.Outcomes)
		assert.Equal(t, map[string]int{"no-such-tag": 0}, report.SourceCounts)
	})
}

func TestCoordinatorRename(t *testing.T) {
	ctx := context.Background()

	t.Run("renames every occurrence", func(t *testing.T) {
		fake := newFakeGateway()
		seedSite(fake)
		coordinator := NewCoordinator(fake, WithRetryPolicy(noDelay))

		report, err := coordinator.Rename(ctx, "", "swiming", "swimming", false)
		require.NoError(t, err)
		assert.Equal(t, OpRename, report.Operation)
		assert.Equal(t, 2, report.Count(OutcomeUpdated))
	})

	t.Run("rename to self is a no-op", func(t *testing.T) {
		fake := newFakeGateway()
		seedSite(fake)
		coordinator := NewCoordinator(fake, WithRetryPolicy(noDelay))

		report, err := coordinator.Rename(ctx, "", "swimming", "swimming", false)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Count(OutcomeUnchanged))
		assert.Empty(t, fake.writes)
	})

	t.Run("empty new name rejected", func(t *testing.T) {
		coordinator := NewCoordinator(newFakeGateway(), WithRetryPolicy(noDelay))
		_, err := coordinator.Rename(ctx, "", "swiming", "", false)
		assert.True(t, errors.IsValidation(err))
	})
}

func TestCoordinatorRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("strips the tag everywhere", func(t *testing.T) {
		fake := newFakeGateway()
		seedSite(fake)
		coordinator := NewCoordinator(fake, WithRetryPolicy(noDelay))

		report, err := coordinator.Remove(ctx, "", "swiming", false)
		require.NoError(t, err)
		assert.Equal(t, OpRemove, report.Operation)
		assert.Equal(t, 2, report.Count(OutcomeUpdated))
		assert.Equal(t, []string{"beach"}, fake.writes["doc-a"][0])
		assert.Empty(t, fake.writes["doc-c"][0])
	})

	t.Run("empty tag rejected", func(t *testing.T) {
		coordinator := NewCoordinator(newFakeGateway(), WithRetryPolicy(noDelay))
		_, err := coordinator.Remove(ctx, "", "", false)
		assert.True(t, errors.IsValidation(err))
	})
}

// seedLiveSite seeds the fake like seedSite but also exposes the stored
// documents through the browse fallback, so collections after a mutation
// observe the written state instead of the original search fixture.
func seedLiveSite(fake *fakeGateway) {
	seedSite(fake)
	fake.children[""] = []gateway.Document{
		fake.docs["doc-a"],
		fake.docs["doc-b"],
		fake.docs["doc-c"],
	}
}

func TestCoordinatorRenameRoundTrip(t *testing.T) {
	fake := newFakeGateway()
	seedLiveSite(fake)
	coordinator := NewCoordinator(fake, WithRetryPolicy(noDelay))
	ctx := context.Background()

	report, err := coordinator.Rename(ctx, "", "swiming", "swimming", false)
	require.NoError(t, err)
	require.Equal(t, 2, report.Count(OutcomeUpdated))

	report, err = coordinator.Rename(ctx, "", "swimming", "swiming", false)
	require.NoError(t, err)
	require.Zero(t, report.Failed())

	assert.Equal(t, []string{"beach", "swiming"}, fake.docs["doc-a"]["subjects"],
		"untouched tag keeps its slot; the renamed tag returns at the end")
	assert.Equal(t, []string{"swiming"}, fake.docs["doc-c"]["subjects"])
}

func TestCoordinatorRemoveThenDiscover(t *testing.T) {
	fake := newFakeGateway()
	seedLiveSite(fake)
	coordinator := NewCoordinator(fake, WithRetryPolicy(noDelay))
	ctx := context.Background()

	report, err := coordinator.Remove(ctx, "", "swiming", false)
	require.NoError(t, err)
	require.Equal(t, 2, report.Count(OutcomeUpdated))
	require.Zero(t, report.Failed())

	counts, err := coordinator.ListTags(ctx, "", false)
	require.NoError(t, err)
	assert.Equal(t, []TagCount{
		{Tag: "beach", Count: 1},
		{Tag: "swimming", Count: 1},
	}, counts, "the removed tag is gone at every frequency")
}

func TestCoordinatorTagItems(t *testing.T) {
	ctx := context.Background()

	t.Run("lists carrying items", func(t *testing.T) {
		fake := newFakeGateway()
		fake.subjects["beach"] = []gateway.Document{
			{"@id": fakeBase + "doc-a", "title": "A day out", "@type": "Document"},
		}
		coordinator := NewCoordinator(fake, WithRetryPolicy(noDelay))

		refs, err := coordinator.TagItems(ctx, "", "beach")
		require.NoError(t, err)
		require.Len(t, refs, 1)
		assert.Equal(t, ItemRef{Path: "doc-a", Title: "A day out", Type: "Document"}, refs[0])
	})

	t.Run("unknown tag yields an empty list", func(t *testing.T) {
		coordinator := NewCoordinator(newFakeGateway(), WithRetryPolicy(noDelay))
		refs, err := coordinator.TagItems(ctx, "", "nobody-uses-this")
		require.NoError(t, err)
		assert.Empty(t, refs)
	})

	t.Run("empty tag rejected", func(t *testing.T) {
		coordinator := NewCoordinator(newFakeGateway(), WithRetryPolicy(noDelay))
		_, err := coordinator.TagItems(ctx, "", "")
		assert.True(t, errors.IsValidation(err))
	})
}
