package service

import (
	"sync"

	"timeclock/internal/model"
)

// Broker fans notifications out to live subscribers (SSE streams).
// Publish never blocks: a subscriber whose buffer is full misses the message.
type Broker struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]*subscription
	closed bool
}

type subscription struct {
	user *model.User
	ch   chan *model.Notification
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[int]*subscription)}
}

// Subscribe registers u and returns its channel and a cancel func that closes it.
// After Close the channel comes back already closed.
func (b *Broker) Subscribe(u *model.User, buffer int) (<-chan *model.Notification, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan *model.Notification, buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	b.nextID++
	id := b.nextID
	b.subs[id] = &subscription{user: u, ch: ch}

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.drop(id)
	}
}

// Close ends every open subscription so long-lived streams return.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for id := range b.subs {
		b.drop(id)
	}
}

// drop must be called with mu held.
func (b *Broker) drop(id int) {
	if sub, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(sub.ch)
	}
}

func (b *Broker) Publish(n *model.Notification) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subs {
		if !Addressed(n, sub.user) {
			continue
		}
		select {
		case sub.ch <- n:
		default:
		}
	}
}

func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
