package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-triage-be/internal/constant"
	"ai-triage-be/internal/dto"
	"ai-triage-be/internal/pkg/logger"
	"ai-triage-be/internal/repository/unitofwork"
	"ai-triage-be/pkg/archive"
	"ai-triage-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber  message.Subscriber
	topicName   string
	uowFactory  unitofwork.RepositoryFactory
	archiver    archive.Archiver
	auditLogger logger.ILogger
	logger      logger.ILogger
}

// NewConsumerService handles in-process lifecycle events. archiver may be nil,
// in which case finalized encounters are not archived.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	archiver archive.Archiver,
	auditLogger logger.ILogger,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:  subscriber,
		topicName:   topicName,
		uowFactory:  uowFactory,
		archiver:    archiver,
		auditLogger: auditLogger,
		logger:      logger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage always acks. gochannel redelivers nacked messages
// immediately, so a persistent failure would spin.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	event, err := events.Unmarshal(msg.Payload)
	if err != nil {
		cs.logger.Error("CONSUMER", "Dropping undecodable event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	switch event.EventType() {
	case constant.EventSanitizerPathUsed:
		cs.auditLogger.Info("SANITIZER", "Sanitizer path used", event.Payload())
	case constant.EventSummaryFinalized:
		if err := cs.archiveEncounter(ctx, event); err != nil {
			cs.logger.Error("CONSUMER", "Failed to archive finalized encounter", map[string]interface{}{
				"encounter_id": event.Payload()["encounter_id"],
				"error":        err.Error(),
			})
		}
	default:
		cs.logger.Debug("CONSUMER", "Lifecycle event", map[string]interface{}{
			"type": event.EventType(),
			"data": event.Payload(),
		})
	}
}

func (cs *consumerService) archiveEncounter(ctx context.Context, event events.Event) error {
	if cs.archiver == nil {
		return nil
	}

	raw, _ := event.Payload()["encounter_id"].(string)
	encounterId, err := uuid.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid encounter_id %q: %w", raw, err)
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	encounter, err := uow.EncounterRepository().FindById(ctx, encounterId)
	if err != nil {
		return err
	}
	if encounter == nil {
		return fmt.Errorf("encounter %s not found", encounterId)
	}
	turns, err := uow.TurnRepository().ListByEncounter(ctx, encounterId)
	if err != nil {
		return err
	}
	summary, err := uow.SummaryRepository().FindByEncounterId(ctx, encounterId)
	if err != nil {
		return err
	}
	if summary == nil {
		return fmt.Errorf("encounter %s has no summary", encounterId)
	}

	record := dto.EncounterArchiveRecord{
		Transcript: toTranscriptResponse(encounter, turns),
		Summary:    toSummaryResponse(summary),
		ArchivedAt: time.Now().UTC(),
	}
	content, err := json.Marshal(record)
	if err != nil {
		return err
	}

	name := fmt.Sprintf("summary-v%d.json", summary.Version)
	if err := cs.archiver.Put(ctx, encounterId.String(), name, content); err != nil {
		return err
	}

	cs.logger.Info("CONSUMER", "Encounter archived", map[string]interface{}{
		"encounter_id": encounterId,
		"object":       name,
	})
	return nil
}
