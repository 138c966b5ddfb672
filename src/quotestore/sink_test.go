package quotestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/EventStore/EventStore-Client-Go/v4/esdb"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/jiaming2012/quote-builder/src/eventmodels"
)

func newLegs(n int) []eventmodels.Quote {
	dealer := eventmodels.Quote{
		TempID:          uuid.MustParse(fmt.Sprintf("00000000-0000-4000-8000-%012d", n*10+1)),
		CounterpartyID:  1,
		PairID:          7,
		CcyID:           1,
		Kind:            eventmodels.QuoteKindOption,
		Amount:          3.33,
		OptionKind:      eventmodels.OptionKindCall,
		Strike:          62034.7,
		PxInBaseCcy:     0.0123,
		PxInQuoteCcy:    740.67,
		Side:            eventmodels.QuoteSideBuy,
		QuoteStatus:     eventmodels.QuoteStatusActive,
		QuoteOrigin:     "JabraAdminGUI",
		InstrumentName:  "BTC-14MAR23-62034-C",
		QuoteExpiry:     "2023-03-07T12:15:00",
		GroupID:         uuid.MustParse(fmt.Sprintf("00000000-0000-4000-9000-%012d", n)),
		PartyA:          1,
		PartyB:          42,
		Delta:           0.52,
		PayoutCcy:       eventmodels.PayoutCcyBase,
		ExpiryTimestamp: "2023-03-14T08:00:00",
	}

	return []eventmodels.Quote{dealer, dealer.Mirror(42, uuid.MustParse(fmt.Sprintf("00000000-0000-4000-8000-%012d", n*10+2)))}
}

func TestGroupLegs(t *testing.T) {
	t.Run("keeps first seen order", func(t *testing.T) {
		batch := append(newLegs(2), newLegs(1)...)

		groups, err := groupLegs(batch)
		require.NoError(t, err)
		require.Len(t, groups, 2)
		assert.Equal(t, batch[0].GroupID, groups[0].GroupID)
		assert.Len(t, groups[1].Legs, 2)
	})

	t.Run("rejects a lone leg", func(t *testing.T) {
		batch := append(newLegs(1), newLegs(2)[0])

		_, err := groupLegs(batch)
		assert.True(t, errors.Is(err, eventmodels.ErrIncompletePair))
	})
}

func TestCSVSink(t *testing.T) {
	ctx := context.Background()

	t.Run("writes the header once", func(t *testing.T) {
		var buf bytes.Buffer
		sink := NewCSVSink(&buf)

		require.NoError(t, sink.SubmitQuotes(ctx, newLegs(1)))
		require.NoError(t, sink.SubmitQuotes(ctx, newLegs(2)))

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 5)
		assert.True(t, strings.HasPrefix(lines[0], "group_id,temp_id,counterparty_id"))
		assert.Contains(t, lines[1], "BTC-14MAR23-62034-C")
		assert.Contains(t, lines[2], "-3.33")
		assert.Equal(t, 1, strings.Count(buf.String(), "group_id"))
	})

	t.Run("rejects incomplete groups without writing", func(t *testing.T) {
		var buf bytes.Buffer
		err := NewCSVSink(&buf).SubmitQuotes(ctx, newLegs(1)[:1])

		assert.True(t, errors.Is(err, eventmodels.ErrIncompletePair))
		assert.Empty(t, buf.String())
	})

	t.Run("file sink continues an existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "quotes.csv")

		sink, f, err := NewCSVFileSink(path)
		require.NoError(t, err)
		require.NoError(t, sink.SubmitQuotes(ctx, newLegs(1)))
		require.NoError(t, f.Close())

		sink, f, err = NewCSVFileSink(path)
		require.NoError(t, err)
		require.NoError(t, sink.SubmitQuotes(ctx, newLegs(2)))
		require.NoError(t, f.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(string(data), "group_id"))
		assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 5)
	})
}

func TestQuoteRecord(t *testing.T) {
	for _, q := range newLegs(1) {
		assert.Equal(t, q, NewQuoteRecord(q).ToQuote())
	}
}

func TestPostgresSinkRejectsIncompleteGroups(t *testing.T) {
	err := NewPostgresSink(nil).SubmitQuotes(context.Background(), newLegs(1)[1:])
	assert.True(t, errors.Is(err, eventmodels.ErrIncompletePair))
}

type fakeAppender struct {
	stream string
	events []esdb.EventData
	err    error
}

func (f *fakeAppender) AppendToStream(ctx context.Context, streamID string, opts esdb.AppendToStreamOptions, events ...esdb.EventData) (*esdb.WriteResult, error) {
	if f.err != nil {
		return nil, f.err
	}

	f.stream = streamID
	f.events = append(f.events, events...)
	return &esdb.WriteResult{}, nil
}

func TestEventStoreSink(t *testing.T) {
	sessionID := uuid.MustParse("00000000-0000-4000-a000-000000000001")
	ctx := WithSessionID(context.Background(), sessionID)

	t.Run("one event per batch", func(t *testing.T) {
		db := &fakeAppender{}
		sink := newEventStoreSink(db, "")

		batch := append(newLegs(1), newLegs(2)...)
		require.NoError(t, sink.SubmitQuotes(ctx, batch))

		require.Len(t, db.events, 1)
		assert.Equal(t, DefaultQuotesStream, db.stream)
		assert.Equal(t, QuotesSubmittedEventType, db.events[0].EventType)
		assert.Equal(t, esdb.ContentTypeJson, db.events[0].ContentType)

		var event eventmodels.QuotesSubmittedEvent
		require.NoError(t, json.Unmarshal(db.events[0].Data, &event))
		assert.Equal(t, sessionID, event.SessionID)
		assert.Equal(t, batch, event.Quotes)
		assert.Len(t, event.GroupIDs(), 2)
	})

	t.Run("append failure", func(t *testing.T) {
		sink := newEventStoreSink(&fakeAppender{err: errors.New("not leader")}, "quotes")
		assert.Error(t, sink.SubmitQuotes(ctx, newLegs(1)))
	})

	t.Run("incomplete group never reaches the stream", func(t *testing.T) {
		db := &fakeAppender{}
		err := newEventStoreSink(db, "quotes").SubmitQuotes(ctx, newLegs(1)[:1])

		assert.True(t, errors.Is(err, eventmodels.ErrIncompletePair))
		assert.Empty(t, db.events)
	})
}

type fakeWriter struct {
	messages []kafka.Message
	closed   bool
	err      error
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}

	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaSink(t *testing.T) {
	ctx := context.Background()

	t.Run("one message per group keyed by group id", func(t *testing.T) {
		w := &fakeWriter{}
		sink := &KafkaSink{writer: w}

		batch := append(newLegs(1), newLegs(2)...)
		require.NoError(t, sink.SubmitQuotes(ctx, batch))

		require.Len(t, w.messages, 2)
		for i, msg := range w.messages {
			group := batch[i*2].GroupID
			assert.Equal(t, group.String(), string(msg.Key))

			var payload kafkaGroupMessage
			require.NoError(t, json.Unmarshal(msg.Value, &payload))
			assert.Equal(t, batch[i*2:i*2+2], payload.Legs)
		}

		require.NoError(t, sink.Close())
		assert.True(t, w.closed)
	})

	t.Run("forwards the span context", func(t *testing.T) {
		traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
		spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
		spanCtx := trace.ContextWithSpanContext(ctx, trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID}))

		w := &fakeWriter{}
		require.NoError(t, (&KafkaSink{writer: w}).SubmitQuotes(spanCtx, newLegs(1)))

		require.Len(t, w.messages, 1)
		require.Len(t, w.messages[0].Headers, 1)
		assert.Equal(t, SpanContextHeader, w.messages[0].Headers[0].Key)
		assert.Contains(t, string(w.messages[0].Headers[0].Value), traceID.String())
	})

	t.Run("no span context, no header", func(t *testing.T) {
		w := &fakeWriter{}
		require.NoError(t, (&KafkaSink{writer: w}).SubmitQuotes(ctx, newLegs(1)))
		assert.Empty(t, w.messages[0].Headers)
	})

	t.Run("write failure", func(t *testing.T) {
		sink := &KafkaSink{writer: &fakeWriter{err: errors.New("leader not available")}}
		assert.Error(t, sink.SubmitQuotes(ctx, newLegs(1)))
	})
}

type recordingSink struct {
	calls   int
	err     error
	batches [][]eventmodels.Quote
}

func (r *recordingSink) SubmitQuotes(ctx context.Context, quotes []eventmodels.Quote) error {
	r.calls++
	if r.err != nil {
		return r.err
	}

	r.batches = append(r.batches, quotes)
	return nil
}

func TestMultiSink(t *testing.T) {
	ctx := context.Background()

	t.Run("stops at the first failure", func(t *testing.T) {
		first := &recordingSink{}
		failing := &recordingSink{err: errors.New("down")}
		last := &recordingSink{}

		err := NewMultiSink(first, failing, last).SubmitQuotes(ctx, newLegs(1))
		assert.Error(t, err)
		assert.Equal(t, 1, first.calls)
		assert.Equal(t, 1, failing.calls)
		assert.Equal(t, 0, last.calls)
	})

	t.Run("a retry after a partial failure does not book twice", func(t *testing.T) {
		var out strings.Builder
		csvSink := NewCSVSink(&out)
		flaky := &recordingSink{err: errors.New("down")}
		multi := NewMultiSink(csvSink, flaky)

		batch := append(newLegs(1), newLegs(2)...)

		require.Error(t, multi.SubmitQuotes(ctx, batch))
		assert.Len(t, strings.Split(strings.TrimSpace(out.String()), "\n"), 5)

		flaky.err = nil
		require.NoError(t, multi.SubmitQuotes(ctx, batch))

		assert.Len(t, strings.Split(strings.TrimSpace(out.String()), "\n"), 5)
		require.Len(t, flaky.batches, 1)
		assert.Equal(t, batch, flaky.batches[0])
	})

	t.Run("forgets delivered groups once every sink has them", func(t *testing.T) {
		sink := &recordingSink{}
		multi := NewMultiSink(sink)

		require.NoError(t, multi.SubmitQuotes(ctx, newLegs(3)))
		require.NoError(t, multi.SubmitQuotes(ctx, newLegs(3)))
		assert.Equal(t, 2, sink.calls)
	})

	t.Run("rejects an incomplete group before any sink runs", func(t *testing.T) {
		sink := &recordingSink{}

		err := NewMultiSink(sink).SubmitQuotes(ctx, newLegs(4)[:1])
		assert.True(t, errors.Is(err, eventmodels.ErrIncompletePair))
		assert.Equal(t, 0, sink.calls)
	})
}
