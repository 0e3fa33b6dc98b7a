package usecase

import (
	"context"
	"time"

	"github.com/serenewealth/ledger/internal/domain"
)

// emitEvent writes an outbox event inside tx. A nil repository disables the outbox.
func emitEvent(
	ctx context.Context,
	tx Transaction,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	aggregateType, aggregateID, eventType string,
	payload map[string]any,
	now time.Time,
) error {
	if outboxRepo == nil {
		return nil
	}

	return outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            idGen.Generate(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     now,
		Published:     false,
	})
}
