package quotestore

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/jiaming2012/quote-builder/src/eventmodels"
)

// QuoteSink persists a submitted batch. A batch is accepted or rejected as a whole.
type QuoteSink interface {
	SubmitQuotes(ctx context.Context, quotes []eventmodels.Quote) error
}

type legGroup struct {
	GroupID uuid.UUID
	Legs    []eventmodels.Quote
}

// groupLegs splits a batch into its groups in first-seen order. Every group must carry exactly two legs.
func groupLegs(quotes []eventmodels.Quote) ([]legGroup, error) {
	index := map[uuid.UUID]int{}
	var groups []legGroup

	for _, q := range quotes {
		i, found := index[q.GroupID]
		if !found {
			i = len(groups)
			index[q.GroupID] = i
			groups = append(groups, legGroup{GroupID: q.GroupID})
		}

		groups[i].Legs = append(groups[i].Legs, q)
	}

	for _, g := range groups {
		if len(g.Legs) != 2 {
			return nil, fmt.Errorf("group %s has %d legs: %w", g.GroupID, len(g.Legs), eventmodels.ErrIncompletePair)
		}
	}

	return groups, nil
}

// MultiSink hands the batch to each sink in turn and stops at the first failure. It remembers which
// groups every sink has already accepted, so resubmitting a batch after a failure only delivers the
// groups a sink is still missing.
type MultiSink struct {
	mu        sync.Mutex
	sinks     []QuoteSink
	delivered []map[uuid.UUID]struct{}
}

func NewMultiSink(sinks ...QuoteSink) *MultiSink {
	delivered := make([]map[uuid.UUID]struct{}, len(sinks))
	for i := range delivered {
		delivered[i] = map[uuid.UUID]struct{}{}
	}

	return &MultiSink{
		sinks:     sinks,
		delivered: delivered,
	}
}

func (m *MultiSink) Len() int {
	return len(m.sinks)
}

func (m *MultiSink) SubmitQuotes(ctx context.Context, quotes []eventmodels.Quote) error {
	groups, err := groupLegs(quotes)
	if err != nil {
		return fmt.Errorf("MultiSink.SubmitQuotes: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sink := range m.sinks {
		var pending []eventmodels.Quote
		for _, q := range quotes {
			if _, found := m.delivered[i][q.GroupID]; !found {
				pending = append(pending, q)
			}
		}

		if len(pending) == 0 {
			continue
		}

		if err := sink.SubmitQuotes(ctx, pending); err != nil {
			return fmt.Errorf("MultiSink.SubmitQuotes: %T: %w", sink, err)
		}

		for _, q := range pending {
			m.delivered[i][q.GroupID] = struct{}{}
		}
	}

	// every sink holds the batch now; group ids are never reused
	for _, g := range groups {
		for i := range m.delivered {
			delete(m.delivered[i], g.GroupID)
		}
	}

	return nil
}
