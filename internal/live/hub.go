package live

import "sync"

// subscriberBuffer bounds each subscriber's queue. A subscriber that falls
// behind loses the oldest queued snapshot, never blocks a publisher; every
// message is a full board snapshot, so a dropped one is superseded by the
// next.
const subscriberBuffer = 16

// Hub fans encoded server messages out to every subscriber of one board.
type Hub struct {
	mu   sync.Mutex
	subs map[*Subscriber]struct{}
}

type Subscriber struct {
	ch chan []byte
}

// Messages returns the channel the write pump drains. It is closed by
// Unsubscribe.
func (s *Subscriber) Messages() <-chan []byte {
	return s.ch
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscriber]struct{})}
}

func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{ch: make(chan []byte, subscriberBuffer)}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	if _, ok := h.subs[sub]; ok {
		delete(h.subs, sub)
		close(sub.ch)
	}
	h.mu.Unlock()
}

// Publish delivers data to every subscriber, dropping the oldest queued
// message for any subscriber whose buffer is full.
func (h *Hub) Publish(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		select {
		case sub.ch <- data:
		default:
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- data:
			default:
			}
		}
	}
}

func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
