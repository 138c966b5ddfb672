package eventpubsub

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishSubscribe(t *testing.T) {
	Init()

	var mu sync.Mutex
	var received []string

	require.NoError(t, Subscribe(QuotesSubmitted, func(msg string) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, msg)
	}))

	Publish(QuotesSubmitted, "first")
	Publish(QuotePairAdded, "ignored")
	Publish(QuotesSubmitted, "second")
	WaitAsync()

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"first", "second"}, received)
}
