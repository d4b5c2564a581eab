package extract

// BalanceTracker maintains the running account-balance checkpoint across the
// blocks of one document. Statements print "Kontostand" checkpoints between
// transactions; credit entries that omit an explicit amount are recovered by
// differencing the checkpoint before and after the entry.
//
// One tracker is constructed per engine invocation and never shared across
// documents: the diff invariant depends on strict document order.
type BalanceTracker struct {
	previous *float64
	current  *float64
}

// Observe records a checkpoint balance found in the current block. Called
// regardless of the block's transaction type, since checkpoints may be
// embedded inside credit blocks.
func (t *BalanceTracker) Observe(v float64) {
	t.current = &v
}

// Inferred returns current − previous when a checkpoint was observed in the
// current block and an earlier checkpoint exists. Otherwise ok is false and
// the amount stays unset.
func (t *BalanceTracker) Inferred() (float64, bool) {
	if t.previous == nil || t.current == nil {
		return 0, false
	}
	return *t.current - *t.previous, true
}

// EndBlock advances the previous checkpoint to the one observed in the block
// just processed, if any, so the next block diffs against the most recent
// checkpoint. Never resets mid-document.
func (t *BalanceTracker) EndBlock() {
	if t.current != nil {
		t.previous = t.current
		t.current = nil
	}
}

// Previous exposes the last advanced checkpoint, mainly for diagnostics.
func (t *BalanceTracker) Previous() (float64, bool) {
	if t.previous == nil {
		return 0, false
	}
	return *t.previous, true
}
