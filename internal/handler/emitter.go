package handler

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/medora-health/emr-admin-api/internal/model"
	"github.com/medora-health/emr-admin-api/internal/repository"
)

// Emitter writes domain events to the outbox table. Failures are logged
// but never fail the request; the mutation already committed.
type Emitter struct {
	outboxRepo repository.OutboxRepository
}

func NewEmitter(outboxRepo repository.OutboxRepository) *Emitter {
	return &Emitter{outboxRepo: outboxRepo}
}

func (e *Emitter) Emit(ctx context.Context, eventType string, payload interface{}) {
	if e == nil || e.outboxRepo == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("failed to marshal event payload")
		return
	}

	event := &model.OutboxEvent{
		EventType: eventType,
		Payload:   data,
	}
	if err := e.outboxRepo.Create(ctx, event); err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("failed to write outbox event")
	}
}
