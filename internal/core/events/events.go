// Package events carries ledger change notifications to in-process
// subscribers. Side effects that used to hang off persistence hooks (balance
// status propagation, channel-manager notification) subscribe here instead of
// being baked into the ledger itself.
package events

import (
	"context"
	"sync"
	"time"
)

// Kind identifies what happened to the ledger.
type Kind string

const (
	TransactionAppended Kind = "TRANSACTION_APPENDED"
	TransactionVoided   Kind = "TRANSACTION_VOIDED"
	TransferCreated     Kind = "TRANSFER_CREATED"
)

// Event describes one ledger change. It carries identifiers only; subscribers
// that need the full record read it back through the public contracts.
type Event struct {
	Kind          Kind
	HotelID       string
	FolioID       string
	TransactionID string
	OccurredAt    time.Time
}

// Subscriber receives ledger events. Subscribers run synchronously after the
// originating unit of work has committed and must not block.
type Subscriber func(ctx context.Context, ev Event)

// Publisher fans ledger events out to subscribers.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
	Subscribe(s Subscriber)
}

// InProcPublisher is a synchronous in-process Publisher. Registration is
// expected at startup; Publish may be called from any goroutine.
type InProcPublisher struct {
	mu   sync.RWMutex
	subs []Subscriber
}

// NewInProcPublisher creates an empty publisher.
func NewInProcPublisher() *InProcPublisher {
	return &InProcPublisher{}
}

// Subscribe registers a subscriber.
func (p *InProcPublisher) Subscribe(s Subscriber) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subs = append(p.subs, s)
}

// Publish delivers the event to every subscriber in registration order.
func (p *InProcPublisher) Publish(ctx context.Context, ev Event) {
	p.mu.RLock()
	subs := make([]Subscriber, len(p.subs))
	copy(subs, p.subs)
	p.mu.RUnlock()
	for _, s := range subs {
		s(ctx, ev)
	}
}

// NopPublisher discards all events. Useful in tests and batch jobs.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) {}
func (NopPublisher) Subscribe(Subscriber)           {}
