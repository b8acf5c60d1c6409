package model

import "time"

// Run outcomes.
const (
	OutcomeNoItems      = "no_items"
	OutcomeNoUsedItems  = "no_used_items"
	OutcomeNoCandidates = "no_candidates"
	OutcomeDispatched   = "dispatched"
	OutcomeError        = "error"
)

// RunReport summarizes a single execution for logging and exit-code decisions.
type RunReport struct {
	RunID              string    `json:"run_id"`
	WindowStart        time.Time `json:"window_start"`
	WindowEnd          time.Time `json:"window_end"`
	PickEvents         int       `json:"pick_events"`
	Enriched           int       `json:"enriched"`
	EnrichmentFailures int       `json:"enrichment_failures"`
	Candidates         int       `json:"candidates"`
	LedgerFailures     int       `json:"ledger_failures"`
	Outcome            string    `json:"outcome"`
}
