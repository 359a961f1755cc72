package tags

import (
	"context"
	"slices"
	"time"

	"github.com/plonetools/tagctl/pkg/constants"
	"github.com/plonetools/tagctl/pkg/errors"
	"github.com/plonetools/tagctl/pkg/logging"
)

// OutcomeKind classifies what happened to one item during a mutation batch.
type OutcomeKind string

// Mutation outcome kinds.
const (
	// OutcomeUpdated means the write was applied and verified.
	OutcomeUpdated OutcomeKind = "updated"

	// OutcomeUnchanged means the item already had the target state; no
	// write was issued.
	OutcomeUnchanged OutcomeKind = "unchanged"

	// OutcomeWouldUpdate is the dry-run preview of an OutcomeUpdated.
	OutcomeWouldUpdate OutcomeKind = "would-update"

	// OutcomeWriteFailed means a transport-level failure on read or write.
	OutcomeWriteFailed OutcomeKind = "write-failed"

	// OutcomeVerifyFailed means the write went through but the re-read
	// still disagreed after the bounded retry.
	OutcomeVerifyFailed OutcomeKind = "verify-failed"
)

// Outcome records the result for one item. Before and After hold the tag
// list as read and as computed; After is meaningful for updated,
// would-update and verify-failed outcomes.
type Outcome struct {
	Path   string      `json:"path"`
	Kind   OutcomeKind `json:"outcome"`
	Before []string    `json:"before,omitempty"`
	After  []string    `json:"after,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// Plan is one reconciliation: every occurrence of a source tag on the
// affected items is replaced by the target tag. An empty target removes the
// sources without replacement.
type Plan struct {
	Sources []string
	Target  string
	Paths   []string
}

// RetryPolicy bounds the re-write attempts after a failed verification.
type RetryPolicy struct {
	MaxRetries int
	Delay      time.Duration
}

// DefaultRetryPolicy retries once after a short delay, enough to absorb
// read-after-write staleness on the server side.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: constants.MaxVerifyRetries,
		Delay:      constants.VerifyRetryDelay,
	}
}

// Mutator applies reconciliation plans item by item, sequentially, with a
// fresh read before and a verification read after every write. One item's
// failure never aborts the batch.
type Mutator struct {
	gw    Gateway
	retry RetryPolicy
}

// NewMutator creates a mutator writing through gw.
func NewMutator(gw Gateway, retry RetryPolicy) *Mutator {
	return &Mutator{gw: gw, retry: retry}
}

// Apply executes the plan and returns one outcome per planned path, in plan
// order. With dryRun set, no write or verification read is issued. Every
// planned item appears in the result exactly once.
func (m *Mutator) Apply(ctx context.Context, plan *Plan, dryRun bool) []Outcome {
	outcomes := make([]Outcome, 0, len(plan.Paths))
	for _, path := range plan.Paths {
		if err := ctx.Err(); err != nil {
			outcomes = append(outcomes, Outcome{
				Path:  path,
				Kind:  OutcomeWriteFailed,
				Error: errors.ErrCanceled.Error(),
			})
			continue
		}
		outcomes = append(outcomes, m.applyOne(ctx, plan, path, dryRun))
	}
	return outcomes
}

// applyOne reconciles a single item.
func (m *Mutator) applyOne(ctx context.Context, plan *Plan, path string, dryRun bool) Outcome {
	log := logging.FromContext(ctx)

	// Always read fresh; another actor may have touched the item since the
	// index snapshot was built.
	doc, err := m.gw.ReadItem(ctx, path)
	if err != nil {
		return Outcome{Path: path, Kind: OutcomeWriteFailed, Error: err.Error()}
	}
	current, _ := ExtractTags(doc)

	rewritten := RewriteTags(current, plan.Sources, plan.Target)
	if slices.Equal(current, rewritten) {
		return Outcome{Path: path, Kind: OutcomeUnchanged, Before: current, After: current}
	}

	if dryRun {
		return Outcome{Path: path, Kind: OutcomeWouldUpdate, Before: current, After: rewritten}
	}

	if err := m.gw.UpdateTags(ctx, path, rewritten); err != nil {
		return Outcome{Path: path, Kind: OutcomeWriteFailed, Before: current, After: rewritten, Error: err.Error()}
	}

	verifyErr, transportErr := m.verify(ctx, plan, path)
	for attempt := 0; verifyErr != nil && transportErr == nil && attempt < m.retry.MaxRetries; attempt++ {
		log.Debug().Str("path", path).Int("attempt", attempt+1).
			Msg("verification disagreed; re-issuing write")
		if !sleepContext(ctx, m.retry.Delay) {
			break
		}
		if err := m.gw.UpdateTags(ctx, path, rewritten); err != nil {
			return Outcome{Path: path, Kind: OutcomeWriteFailed, Before: current, After: rewritten, Error: err.Error()}
		}
		verifyErr, transportErr = m.verify(ctx, plan, path)
	}

	if transportErr != nil {
		return Outcome{Path: path, Kind: OutcomeWriteFailed, Before: current, After: rewritten, Error: transportErr.Error()}
	}
	if verifyErr != nil {
		return Outcome{Path: path, Kind: OutcomeVerifyFailed, Before: current, After: rewritten, Error: verifyErr.Error()}
	}
	return Outcome{Path: path, Kind: OutcomeUpdated, Before: current, After: rewritten}
}

// verify re-reads the item and checks that no source tag remains and that a
// non-empty target is present. The read is always a fresh request; the
// collector's browse memo is never consulted here.
func (m *Mutator) verify(ctx context.Context, plan *Plan, path string) (verifyErr, transportErr error) {
	doc, err := m.gw.ReadItem(ctx, path)
	if err != nil {
		return nil, err
	}
	after, _ := ExtractTags(doc)

	var remaining []string
	for _, tag := range after {
		if slices.Contains(plan.Sources, tag) && tag != plan.Target {
			remaining = append(remaining, tag)
		}
	}
	if len(remaining) > 0 {
		return &errors.VerificationError{Path: path, Remaining: remaining}, nil
	}
	if plan.Target != "" && !slices.Contains(after, plan.Target) {
		return &errors.VerificationError{Path: path, Missing: plan.Target}, nil
	}
	return nil, nil
}

// RewriteTags computes an item's new tag list: every source occurrence is
// removed and a non-empty target is appended unless already present. The
// relative order of untouched tags is preserved. A source equal to the
// target is left in place, which makes rename-to-self a no-op rather than a
// reorder.
func RewriteTags(current, sources []string, target string) []string {
	rewritten := make([]string, 0, len(current))
	for _, tag := range current {
		if slices.Contains(sources, tag) && tag != target {
			continue
		}
		rewritten = append(rewritten, tag)
	}
	if target != "" && !slices.Contains(rewritten, target) {
		rewritten = append(rewritten, target)
	}
	return rewritten
}

// sleepContext pauses for d, returning false when ctx ends first.
func sleepContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
