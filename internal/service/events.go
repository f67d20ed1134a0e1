package service

import (
	"context"

	"skin-marketplace/internal/core/domain"
	"skin-marketplace/internal/core/ports"

	"github.com/rs/zerolog"
)

// publishCommitted sends an event for a committed change. Delivery failures are logged, never returned.
func publishCommitted(ctx context.Context, publisher ports.EventPublisher, log zerolog.Logger, event domain.MarketEvent) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		log.Warn().Err(err).
			Str("event_type", string(event.Type)).
			Str("key", event.Key()).
			Msg("failed to publish market event")
	}
}
