package quotestore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/EventStore/EventStore-Client-Go/v4/esdb"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/quote-builder/src/eventmodels"
)

const (
	QuotesSubmittedEventType = "QuotesSubmitted"
	DefaultQuotesStream      = "quotes-submitted"
)

type streamAppender interface {
	AppendToStream(ctx context.Context, streamID string, opts esdb.AppendToStreamOptions, events ...esdb.EventData) (*esdb.WriteResult, error)
}

// EventStoreSink appends one QuotesSubmitted event per batch.
type EventStoreSink struct {
	db     streamAppender
	stream string
	now    func() time.Time
}

func NewEventStoreSink(db *esdb.Client, stream string) *EventStoreSink {
	return newEventStoreSink(db, stream)
}

func newEventStoreSink(db streamAppender, stream string) *EventStoreSink {
	if stream == "" {
		stream = DefaultQuotesStream
	}

	return &EventStoreSink{db: db, stream: stream, now: time.Now}
}

func (s *EventStoreSink) SubmitQuotes(ctx context.Context, quotes []eventmodels.Quote) error {
	if _, err := groupLegs(quotes); err != nil {
		return fmt.Errorf("EventStoreSink.SubmitQuotes: %w", err)
	}

	event := eventmodels.QuotesSubmittedEvent{
		Quotes:      quotes,
		SubmittedAt: s.now().UTC(),
	}

	if sessionID, ok := sessionIDFromContext(ctx); ok {
		event.SessionID = sessionID
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("EventStoreSink.SubmitQuotes: failed to marshal event: %w", err)
	}

	eventData := esdb.EventData{
		ContentType: esdb.ContentTypeJson,
		EventType:   QuotesSubmittedEventType,
		Data:        data,
	}

	if _, err := s.db.AppendToStream(ctx, s.stream, esdb.AppendToStreamOptions{}, eventData); err != nil {
		return fmt.Errorf("EventStoreSink.SubmitQuotes: failed to append event to stream: %w", err)
	}

	log.WithContext(ctx).WithFields(log.Fields{
		"stream": s.stream,
		"quotes": len(quotes),
	}).Info("appended quotes to stream")

	return nil
}
