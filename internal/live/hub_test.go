package live

import (
	"testing"
)

func TestHubPublishReachesAllSubscribers(t *testing.T) {
	hub := NewHub()
	a := hub.Subscribe()
	b := hub.Subscribe()

	hub.Publish([]byte("snapshot"))

	for _, sub := range []*Subscriber{a, b} {
		select {
		case msg := <-sub.Messages():
			if string(msg) != "snapshot" {
				t.Errorf("unexpected message %q", msg)
			}
		default:
			t.Error("expected a queued message")
		}
	}
}

func TestHubDropsOldestWhenFull(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe()

	for i := 0; i < subscriberBuffer; i++ {
		hub.Publish([]byte{byte(i)})
	}
	// Buffer is full; the next publish evicts message 0.
	hub.Publish([]byte{99})

	first := <-sub.Messages()
	if first[0] != 1 {
		t.Errorf("expected oldest message dropped, head is %d", first[0])
	}

	var last []byte
	for i := 0; i < subscriberBuffer-1; i++ {
		last = <-sub.Messages()
	}
	if last[0] != 99 {
		t.Errorf("expected newest message retained, tail is %d", last[0])
	}
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe()
	hub.Unsubscribe(sub)

	if _, ok := <-sub.Messages(); ok {
		t.Error("expected closed channel after unsubscribe")
	}
	if hub.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers, got %d", hub.SubscriberCount())
	}

	// Double unsubscribe must not panic.
	hub.Unsubscribe(sub)
	// Publishing to an empty hub must not panic either.
	hub.Publish([]byte("x"))
}
