package service

import (
	"context"

	"ai-triage-be/internal/constant"
	"ai-triage-be/internal/pkg/logger"
	"ai-triage-be/pkg/ai/scrubber"
	"ai-triage-be/pkg/events"
	pktNats "ai-triage-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// IEventPublisher delivers lifecycle events. Publishing never fails the
// caller; delivery problems are logged.
type IEventPublisher interface {
	Publish(ctx context.Context, event events.Event)
}

type eventPublisher struct {
	topicName string
	pubSub    message.Publisher
	nats      *pktNats.Publisher
	logger    logger.ILogger
}

// NewEventPublisher publishes to the in-process topic and, when natsPub is
// non-nil, to JetStream for other services.
func NewEventPublisher(topicName string, pubSub message.Publisher, natsPub *pktNats.Publisher, logger logger.ILogger) IEventPublisher {
	return &eventPublisher{
		topicName: topicName,
		pubSub:    pubSub,
		nats:      natsPub,
		logger:    logger,
	}
}

func (p *eventPublisher) Publish(ctx context.Context, event events.Event) {
	payload, err := events.Marshal(event)
	if err != nil {
		p.logger.Error("EVENTS", "Failed to encode event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
		return
	}

	if p.pubSub != nil {
		msg := message.NewMessage(watermill.NewUUID(), payload)
		msg.Metadata.Set("type", event.EventType())
		if err := p.pubSub.Publish(p.topicName, msg); err != nil {
			p.logger.Error("EVENTS", "Failed to publish event locally", map[string]interface{}{
				"type":  event.EventType(),
				"error": err.Error(),
			})
		}
	}

	if err := p.nats.Publish(ctx, event); err != nil {
		p.logger.Error("EVENTS", "Failed to publish event to NATS", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}

// ScrubAuditSink turns sanitizer audit records into SANITIZER_PATH_USED
// events. Only the path metadata is forwarded.
type ScrubAuditSink struct {
	publisher IEventPublisher
}

func NewScrubAuditSink(publisher IEventPublisher) *ScrubAuditSink {
	return &ScrubAuditSink{publisher: publisher}
}

func (s *ScrubAuditSink) RecordScrub(ctx context.Context, rec scrubber.Record) {
	data := map[string]interface{}{
		"path":    rec.Path,
		"changed": rec.Changed,
		"cached":  rec.Cached,
	}
	if rec.Reason != "" {
		data["reason"] = rec.Reason
	}
	s.publisher.Publish(ctx, events.New(constant.EventSanitizerPathUsed, data))
}
