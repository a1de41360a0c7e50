// Package analytics wraps the posthog client so callers never have to care
// whether it was initialized.
package analytics

import (
	"context"
	"log/slog"
	"strings"

	"github.com/posthog/posthog-go"

	"github.com/openstay/folio-engine/internal/core/events"
)

type PosthogClientWrapper struct {
	posthogClient posthog.Client
	logger        *slog.Logger
}

func InitializePosthogClient(apiKey string, logger *slog.Logger) *PosthogClientWrapper {
	if apiKey == "" {
		logger.Warn("Posthog API key is empty, not initializing posthog client.")
		return &PosthogClientWrapper{}
	}
	wrapper := PosthogClientWrapper{}
	wrapper.posthogClient, _ = posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: "https://eu.i.posthog.com"})
	wrapper.logger = logger
	return &wrapper
}

func (w *PosthogClientWrapper) IsInitialized() bool {
	return w.posthogClient != nil
}

func (w *PosthogClientWrapper) Enqueue(distinctId string, event string, properties map[string]any) {
	if w.posthogClient == nil {
		return
	}
	w.posthogClient.Enqueue(posthog.Capture{
		DistinctId: distinctId,
		Event:      event,
		Properties: properties,
	})
}

// LedgerSubscriber adapts the wrapper into a ledger event subscriber. Events
// are keyed by hotel so product analytics aggregate per property.
func (w *PosthogClientWrapper) LedgerSubscriber() events.Subscriber {
	return func(_ context.Context, ev events.Event) {
		w.Enqueue(ev.HotelID, "ledger_"+strings.ToLower(string(ev.Kind)), map[string]any{
			"folio_id":       ev.FolioID,
			"transaction_id": ev.TransactionID,
			"occurred_at":    ev.OccurredAt,
		})
	}
}

func (w *PosthogClientWrapper) Close() {
	if w.posthogClient == nil {
		return
	}
	w.posthogClient.Close()
}
