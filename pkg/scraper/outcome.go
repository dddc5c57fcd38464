package scraper

// TargetStatus is the terminal state of one configured target.
type TargetStatus string

const (
	// StatusDone means the target's listing was drained to exhaustion.
	StatusDone TargetStatus = "done"
	// StatusFailed means a fatal error stopped this target.
	StatusFailed TargetStatus = "failed"
	// StatusNotAttempted means the run aborted before reaching this target.
	StatusNotAttempted TargetStatus = "not_attempted"
)

// TargetResult carries the per-target counters of a run.
type TargetResult struct {
	URL    string
	Status TargetStatus
	Err    error

	Pages      int
	Found      int
	Filtered   int
	Downloaded int
	Skipped    int
	Errors     int
}

// RunOutcome aggregates the results of a whole run.
type RunOutcome struct {
	Targets []TargetResult
}

// Totals holds run-wide counter sums.
type Totals struct {
	Pages      int
	Found      int
	Filtered   int
	Downloaded int
	Skipped    int
	Errors     int
}

// Totals sums the counters across all targets.
func (o *RunOutcome) Totals() Totals {
	var t Totals
	for _, res := range o.Targets {
		t.Pages += res.Pages
		t.Found += res.Found
		t.Filtered += res.Filtered
		t.Downloaded += res.Downloaded
		t.Skipped += res.Skipped
		t.Errors += res.Errors
	}
	return t
}

// Completed counts targets that finished normally.
func (o *RunOutcome) Completed() int {
	n := 0
	for _, res := range o.Targets {
		if res.Status == StatusDone {
			n++
		}
	}
	return n
}
