package eventpubsub

import (
	"fmt"
	"sync"

	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"
)

var (
	mu  sync.RWMutex
	bus EventBus.Bus
)

func Init() {
	mu.Lock()
	defer mu.Unlock()

	bus = EventBus.New()
}

func current() EventBus.Bus {
	mu.RLock()
	defer mu.RUnlock()

	return bus
}

// Publish is a no-op until Init has been called.
func Publish(topic string, event interface{}) {
	b := current()
	if b == nil {
		return
	}

	b.Publish(topic, event)
}

func Subscribe(topic string, callbackFn interface{}) error {
	b := current()
	if b == nil {
		return fmt.Errorf("eventpubsub.Subscribe: bus not initialized")
	}

	if err := b.SubscribeAsync(topic, callbackFn, false); err != nil {
		return err
	}

	log.Infof("Subscribed to topic %s", topic)
	return nil
}

// WaitAsync blocks until every asynchronous subscriber has returned.
func WaitAsync() {
	if b := current(); b != nil {
		b.WaitAsync()
	}
}
