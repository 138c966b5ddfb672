package eventmodels

import (
	"time"

	"github.com/google/uuid"
)

type QuotePairAddedEvent struct {
	SessionID uuid.UUID  `json:"session_id"`
	Pair      *QuotePair `json:"pair"`
}

type QuotesSubmittedEvent struct {
	SessionID   uuid.UUID `json:"session_id"`
	Quotes      []Quote   `json:"quotes"`
	SubmittedAt time.Time `json:"submitted_at"`
}

func (e QuotesSubmittedEvent) GroupIDs() []uuid.UUID {
	seen := map[uuid.UUID]struct{}{}
	var ids []uuid.UUID
	for _, q := range e.Quotes {
		if _, ok := seen[q.GroupID]; ok {
			continue
		}

		seen[q.GroupID] = struct{}{}
		ids = append(ids, q.GroupID)
	}

	return ids
}
