package service

import (
	"context"
	"log"

	"surplus-restock-notifier/internal/card"
	"surplus-restock-notifier/internal/model"
	"surplus-restock-notifier/internal/pool"
	"surplus-restock-notifier/internal/repository"
	"surplus-restock-notifier/internal/ringcentral"
)

// ChatSender is the slice of the chat client the dispatcher needs. Every send
// establishes a fresh session; tokens are never reused across runs.
type ChatSender interface {
	Login(ctx context.Context) (*ringcentral.Session, error)
	PostText(ctx context.Context, s *ringcentral.Session, text string) error
	PostCard(ctx context.Context, s *ringcentral.Session, doc card.Document) (string, error)
}

// Dispatcher persists ledger rows and delivers notification documents.
type Dispatcher struct {
	ledger repository.RestockLedger
	chat   ChatSender
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(ledger repository.RestockLedger, chat ChatSender) *Dispatcher {
	return &Dispatcher{ledger: ledger, chat: chat}
}

// Record writes one ledger row per candidate with the same worker cap as the
// enrichment stage. Each insert is best effort: a failed row is logged and
// counted, never blocking the others or the delivery that follows.
func (d *Dispatcher) Record(ctx context.Context, runID string, candidates []model.ComponentEconomics) int {
	_, failures := pool.Map(ctx, candidates, pool.DefaultLimit,
		func(ctx context.Context, i int, c model.ComponentEconomics) (struct{}, error) {
			entry := model.RestockEntry{
				Sku:              c.Sku,
				RefurbishedPrice: c.RefurbishedRetailPrice,
				UsedPrice:        c.RetailPrice,
			}
			return struct{}{}, d.ledger.InsertRestock(ctx, runID, entry)
		})

	for _, f := range failures {
		log.Printf("[Dispatcher] Ledger insert failed for %s: %v", candidates[f.Index].Sku, f.Err)
	}
	return len(failures)
}

// Deliver posts the assembled document to the destination chat under a fresh
// session.
func (d *Dispatcher) Deliver(ctx context.Context, doc card.Document) error {
	s, err := d.chat.Login(ctx)
	if err != nil {
		return err
	}
	cardID, err := d.chat.PostCard(ctx, s, doc)
	if err != nil {
		return err
	}
	log.Printf("[Dispatcher] Posted card %s", cardID)
	return nil
}

// DeliverText posts a plain-text message under a fresh session. Used for the
// best-effort error notification.
func (d *Dispatcher) DeliverText(ctx context.Context, text string) error {
	s, err := d.chat.Login(ctx)
	if err != nil {
		return err
	}
	return d.chat.PostText(ctx, s, text)
}
