package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"surplus-restock-notifier/internal/card"
	"surplus-restock-notifier/internal/enrich"
	"surplus-restock-notifier/internal/model"
	"surplus-restock-notifier/internal/repository"
	"surplus-restock-notifier/internal/state"
	"surplus-restock-notifier/pkg/joberror"
	"surplus-restock-notifier/pkg/numfmt"
	"surplus-restock-notifier/pkg/uid"
)

const (
	skuVaultURL = "https://app.skuvault.com/products/product/list?term="

	descNoItems      = "No Pick Transactions matching query found in the date range"
	descNoUsedItems  = "No Used Components found"
	descNoCandidates = "No Items to restock from"
	descFoundItems   = "*The following items had all on hand quantity in refurbished condition picked, These items have Used inventory available to be refurbished.*"

	dateRangeLayout = "Mon Jan 02 2006"
)

// Runner sequences one batch run: window management, fetch, enrichment,
// classification, assembly, dispatch. All branching lives here.
type Runner struct {
	store      state.Store
	source     repository.PickEventRepository
	enricher   *enrich.Enricher
	dispatcher *Dispatcher
	grid       card.GridOptions
	now        func() time.Time

	// run-mode flags, populated from the loaded state
	debug  bool
	dryRun bool
}

// NewRunner creates a runner over the injected collaborators.
func NewRunner(store state.Store, source repository.PickEventRepository, enricher *enrich.Enricher, dispatcher *Dispatcher) *Runner {
	return &Runner{
		store:      store,
		source:     source,
		enricher:   enricher,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// Run executes one batch run. Any stage failure reaches this top-level handler,
// which attempts exactly one best-effort error notification and swallows its
// failure. A human watching the chat destination sees a results card, a status
// card, or an error message; a silent run means both deliveries failed.
func (r *Runner) Run(ctx context.Context) (*model.RunReport, error) {
	report := &model.RunReport{RunID: uid.New()}
	log.Printf("[Runner] Starting run %s", report.RunID)

	if err := r.run(ctx, report); err != nil {
		report.Outcome = model.OutcomeError
		log.Printf("[Runner] Run %s failed: %v", report.RunID, err)
		r.reportError(ctx, err)
		return report, err
	}

	log.Printf("[Runner] Run %s finished: outcome=%s picks=%d enriched=%d candidates=%d",
		report.RunID, report.Outcome, report.PickEvents, report.Enriched, report.Candidates)
	return report, nil
}

func (r *Runner) run(ctx context.Context, report *model.RunReport) error {
	st, err := r.loadState(ctx)
	if err != nil {
		return err
	}
	r.debug = st.Debug
	r.dryRun = st.DryRun

	window, next := state.Advance(st.LastRun)
	report.WindowStart = window.Start
	report.WindowEnd = window.End
	log.Printf("[Runner] Querying Pick Transactions for: %s upto %s",
		window.Start.Format(dateRangeLayout), window.End.Format(dateRangeLayout))

	overrides := card.Overrides{
		Title: card.String(st.BaseMessage),
		DateRange: card.String(fmt.Sprintf("%s to %s",
			window.Start.Format(dateRangeLayout), window.End.Format(dateRangeLayout))),
	}

	events, err := r.source.PickEvents(ctx, window.Start, window.End)
	if err != nil {
		return joberror.Query("").Wrap(err)
	}
	report.PickEvents = len(events)

	// The watermark is persisted as soon as the query window is fixed, before
	// any downstream stage. A later failure cannot create an unbounded backlog;
	// the flip side is that a failed run cannot be retried without resetting
	// the stored watermark by hand.
	st.LastRun = next
	if r.debug || r.dryRun {
		log.Printf("[Runner] Skipping watermark save (debug=%v dryRun=%v)", r.debug, r.dryRun)
	} else if err := r.store.Save(ctx, st); err != nil {
		return fmt.Errorf("failed to save watermark: %w", err)
	}

	if len(events) == 0 {
		report.Outcome = model.OutcomeNoItems
		overrides.Status = card.String(st.Messages.NoItems)
		overrides.Description = card.String(descNoItems)
		return r.deliver(ctx, card.Assemble(overrides, nil, r.grid))
	}

	items := []card.Item{
		card.FactItem("Pick Transactions", numfmt.Int(int64(len(events)))),
	}

	results, failures, err := r.enricher.Enrich(ctx, events)
	if err != nil {
		return err
	}
	report.EnrichmentFailures = len(failures)

	economics := enrich.Successes(results, failures)
	report.Enriched = len(economics)
	if len(economics) == 0 {
		report.Outcome = model.OutcomeNoUsedItems
		overrides.Status = card.String(st.Messages.NoUsedItems)
		overrides.Description = card.String(descNoUsedItems)
		return r.deliver(ctx, card.Assemble(overrides, items, r.grid))
	}

	items = append(items, card.FactItem("Used Condition Skus", numfmt.Int(int64(len(economics)))))
	if len(failures) > 0 {
		items = append(items, card.FactItem("Lookup Failures", numfmt.Int(int64(len(failures)))))
	}

	candidates := enrich.Classify(economics)
	report.Candidates = len(candidates)
	if len(candidates) == 0 {
		report.Outcome = model.OutcomeNoCandidates
		overrides.Status = card.String(st.Messages.NoCandidates)
		overrides.Description = card.String(descNoCandidates)
		return r.deliver(ctx, card.Assemble(overrides, items, r.grid))
	}

	overrides.Status = card.String(st.Messages.FoundItems)
	overrides.Description = card.String(descFoundItems)

	blocks := make([]string, len(candidates))
	for i, c := range candidates {
		blocks[i] = restockMessage(c)
	}
	items = append(items, card.TextItem(strings.Join(blocks, "\n")))
	items = append(items, card.FactItem("Items for Restock", numfmt.Int(int64(len(candidates)))))

	if r.debug || r.dryRun {
		log.Printf("[Runner] Skipping ledger writes for %d candidates (debug=%v dryRun=%v)",
			len(candidates), r.debug, r.dryRun)
	} else {
		report.LedgerFailures = r.dispatcher.Record(ctx, report.RunID, candidates)
	}

	report.Outcome = model.OutcomeDispatched
	return r.deliver(ctx, card.Assemble(overrides, items, r.grid))
}

// loadState loads the persisted run state, falling back to the first-run
// defaults when nothing has been saved yet.
func (r *Runner) loadState(ctx context.Context) (state.RunState, error) {
	st, err := r.store.Load(ctx)
	if errors.Is(err, state.ErrNotFound) {
		log.Printf("[Runner] No run state found, defaulting watermark to yesterday")
		return state.DefaultState(r.now()), nil
	}
	if err != nil {
		return state.RunState{}, joberror.Config("").Wrap(err)
	}
	return st, nil
}

// deliver sends the document unless a run-mode flag suppresses it. Debug logs
// the document inline; dry-run just notes the skip.
func (r *Runner) deliver(ctx context.Context, doc card.Document) error {
	if r.debug {
		raw, _ := json.MarshalIndent(doc, "", "  ")
		log.Printf("[Runner] Debug mode, notification not sent:\n%s", raw)
		return nil
	}
	if r.dryRun {
		log.Printf("[Runner] Dry run, notification not sent")
		return nil
	}
	return r.dispatcher.Deliver(ctx, doc)
}

// reportError attempts the one best-effort error notification. Its own failure
// is logged and swallowed.
func (r *Runner) reportError(ctx context.Context, runErr error) {
	if r.debug || r.dryRun {
		log.Printf("[Runner] Error notification suppressed (debug=%v dryRun=%v)", r.debug, r.dryRun)
		return
	}
	text := "Restock notifier run failed: " + runErr.Error()
	if err := r.dispatcher.DeliverText(ctx, text); err != nil {
		log.Printf("[Runner] Error notification failed: %v", err)
	}
}

// restockMessage renders one candidate as the markdown block embedded in the
// card description, linking the sku to its SkuVault product page.
func restockMessage(c model.ComponentEconomics) string {
	return fmt.Sprintf(`* Sku: [%s](%s%s)
    * Quantity In Stock: %s
    * Used Retail Price: %s
    * Refurbished Retail Price: %s
    * Potential Revenue Per Item: %s
`,
		c.Sku, skuVaultURL, url.QueryEscape(c.Sku),
		numfmt.Int(c.Quantity),
		numfmt.Currency(c.RetailPrice),
		numfmt.Currency(c.RefurbishedRetailPrice),
		numfmt.Currency(c.PotentialRevenuePerItem))
}
