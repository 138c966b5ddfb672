package quotestore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/jiaming2012/quote-builder/src/eventmodels"
	"github.com/jiaming2012/quote-builder/src/utils"
)

const SpanContextHeader = "span_context"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaGroupMessage struct {
	SessionID string              `json:"session_id,omitempty"`
	GroupID   string              `json:"group_id"`
	Legs      []eventmodels.Quote `json:"legs"`
}

// KafkaSink publishes each group as one message keyed by its group id, so both legs land on the same partition.
type KafkaSink struct {
	writer messageWriter
}

func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
		},
	}
}

func (s *KafkaSink) SubmitQuotes(ctx context.Context, quotes []eventmodels.Quote) error {
	groups, err := groupLegs(quotes)
	if err != nil {
		return fmt.Errorf("KafkaSink.SubmitQuotes: %w", err)
	}

	var sessionID string
	if id, ok := sessionIDFromContext(ctx); ok {
		sessionID = id.String()
	}

	var headers []kafka.Header
	if data, err := utils.EncodeSpanContext(trace.SpanContextFromContext(ctx)); err == nil {
		headers = append(headers, kafka.Header{Key: SpanContextHeader, Value: data})
	}

	messages := make([]kafka.Message, 0, len(groups))
	for _, g := range groups {
		data, err := json.Marshal(kafkaGroupMessage{
			SessionID: sessionID,
			GroupID:   g.GroupID.String(),
			Legs:      g.Legs,
		})
		if err != nil {
			return fmt.Errorf("KafkaSink.SubmitQuotes: failed to marshal group %s: %w", g.GroupID, err)
		}

		messages = append(messages, kafka.Message{
			Key:     []byte(g.GroupID.String()),
			Value:   data,
			Headers: headers,
		})
	}

	if err := s.writer.WriteMessages(ctx, messages...); err != nil {
		return fmt.Errorf("KafkaSink.SubmitQuotes: failed to write %d messages: %w", len(messages), err)
	}

	log.WithContext(ctx).Infof("KafkaSink: published %d groups", len(messages))

	return nil
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
