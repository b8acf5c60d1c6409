package state

import (
	"context"
	"time"
)

// StateError is a typed error for store operations.
type StateError string

func (e StateError) Error() string { return string(e) }

const (
	// ErrNotFound indicates no run state has been persisted yet.
	ErrNotFound StateError = "run state not found"
)

// StatusMessages holds one status string per short-circuit branch of a run.
type StatusMessages struct {
	NoItems      string `json:"ErrorNoItems"`
	NoUsedItems  string `json:"ErrorNoUsedItems"`
	NoCandidates string `json:"ErrorNoItemsInStock"`
	FoundItems   string `json:"MessageFoundItems"`
}

// RunState is the durable state shared across runs: the watermark, the message
// templates, and the run-mode flags. Single writer, single reader, no concurrent
// runs supported.
type RunState struct {
	LastRun     time.Time      `json:"lastRun"`
	BaseMessage string         `json:"baseMessage"`
	Debug       bool           `json:"debug"`
	DryRun      bool           `json:"dryRun"`
	Messages    StatusMessages `json:"messages"`
}

// Store persists run state between executions.
type Store interface {
	// Load retrieves the persisted run state. Returns ErrNotFound when nothing
	// has been saved yet.
	Load(ctx context.Context) (RunState, error)

	// Save overwrites the persisted run state.
	Save(ctx context.Context, s RunState) error

	// Close releases any underlying resources.
	Close() error
}

// DefaultMessages returns the fallback status strings used when the persisted
// state leaves them empty.
func DefaultMessages() StatusMessages {
	return StatusMessages{
		NoItems:      "No Pick Transactions Found",
		NoUsedItems:  "No Used Components Found",
		NoCandidates: "No Items In Stock To Restock From",
		FoundItems:   "Restock Opportunities Found",
	}
}

// DefaultState returns the state used on first run: the watermark defaults to
// yesterday at local midnight, so the very first run processes exactly one day
// instead of replaying arbitrary history.
func DefaultState(now time.Time) RunState {
	return RunState{
		LastRun:     DefaultWatermark(now),
		BaseMessage: "Refurbished Sku Restock Report",
		Messages:    DefaultMessages(),
	}
}

// DefaultWatermark returns yesterday at 00:00:00.000 local time.
func DefaultWatermark(now time.Time) time.Time {
	y := now.AddDate(0, 0, -1)
	return time.Date(y.Year(), y.Month(), y.Day(), 0, 0, 0, 0, now.Location())
}

// applyDefaults fills empty message templates after a load.
func applyDefaults(s *RunState) {
	def := DefaultMessages()
	if s.Messages.NoItems == "" {
		s.Messages.NoItems = def.NoItems
	}
	if s.Messages.NoUsedItems == "" {
		s.Messages.NoUsedItems = def.NoUsedItems
	}
	if s.Messages.NoCandidates == "" {
		s.Messages.NoCandidates = def.NoCandidates
	}
	if s.Messages.FoundItems == "" {
		s.Messages.FoundItems = def.FoundItems
	}
	if s.BaseMessage == "" {
		s.BaseMessage = DefaultState(time.Now()).BaseMessage
	}
}
