// Package event publishes the activity feed: collection changes, try-ons and
// feedback submissions.
package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bansalKrishna311/tryo/internal/collection"
	"github.com/bansalKrishna311/tryo/internal/feedback"
	"github.com/bansalKrishna311/tryo/internal/history"
	pkgkafka "github.com/bansalKrishna311/tryo/pkg/kafka"
	"github.com/bansalKrishna311/tryo/pkg/logger"
)

// Activity topics.
var (
	TopicCollectionChanged = pkgkafka.Topic("collection", "changed")
	TopicTryOnRecorded     = pkgkafka.Topic("tryon", "recorded")
	TopicFeedbackSubmitted = pkgkafka.Topic("feedback", "submitted")
)

// Subject types.
const (
	SubjectTypeCollection = "collection"
	SubjectTypeFeedback   = "feedback"
)

// SourceTryo identifies events written by this process.
const SourceTryo = "tryo"

// kafkaPublisher is the part of *pkgkafka.Producer used here.
type kafkaPublisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer turns domain notifications into event envelopes. With no kafka
// producer every publish is a no-op.
type Producer struct {
	kafka  kafkaPublisher
	logger *slog.Logger
}

var (
	_ collection.Publisher = (*Producer)(nil)
	_ history.Publisher    = (*Producer)(nil)
	_ feedback.Publisher   = (*Producer)(nil)
)

// NewProducer creates an event producer. kafka may be nil.
func NewProducer(kafka *pkgkafka.Producer, log *slog.Logger) *Producer {
	p := &Producer{logger: log}
	if kafka != nil {
		p.kafka = kafka
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Enabled reports whether events reach a broker.
func (p *Producer) Enabled() bool { return p.kafka != nil }

// PublishCollectionChanged publishes a collection.changed event.
func (p *Producer) PublishCollectionChanged(ctx context.Context, ev collection.ChangeEvent) error {
	return p.publish(ctx, TopicCollectionChanged, ev.Key, SubjectTypeCollection, ev)
}

// PublishTryOnRecorded publishes a tryon.recorded event.
func (p *Producer) PublishTryOnRecorded(ctx context.Context, r history.Recorded) error {
	return p.publish(ctx, TopicTryOnRecorded, r.Key, SubjectTypeCollection, r)
}

// PublishFeedbackSubmitted publishes a feedback.submitted event.
func (p *Producer) PublishFeedbackSubmitted(ctx context.Context, s feedback.Submission) error {
	return p.publish(ctx, TopicFeedbackSubmitted, s.ID, SubjectTypeFeedback, s)
}

func (p *Producer) publish(ctx context.Context, topic, subject, subjectType string, data any) error {
	if p.kafka == nil {
		return nil
	}

	event, err := pkgkafka.NewEvent(topic, subject, subjectType, SourceTryo, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		event.WithCorrelationID(id)
	}
	if origin := logger.OriginFromContext(ctx); origin != "" {
		event.WithMetadata("screen", origin)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published activity event",
		slog.String("topic", topic),
		slog.String("subject", subject),
	)
	return nil
}
