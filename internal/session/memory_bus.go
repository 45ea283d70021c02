package session

import (
	"context"
	"sync"
)

// MemoryBus is an in-process Bus for single-instance runs and tests
type MemoryBus struct {
	mu   sync.Mutex
	subs map[*memorySubscription]struct{}
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: make(map[*memorySubscription]struct{})}
}

func (b *MemoryBus) Publish(ctx context.Context, evt Event) error {
	b.mu.Lock()
	subs := make([]*memorySubscription, 0, len(b.subs))
	for sub := range b.subs {
		subs = append(subs, sub)
	}
	b.mu.Unlock()

	for _, sub := range subs {
		if err := sub.deliver(ctx, evt); err != nil {
			return err
		}
	}
	return nil
}

func (b *MemoryBus) Subscribe(ctx context.Context) (Subscription, error) {
	sub := &memorySubscription{bus: b, ch: make(chan Event, 16), closed: make(chan struct{})}
	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()
	return sub, nil
}

type memorySubscription struct {
	bus    *MemoryBus
	ch     chan Event
	once   sync.Once
	closed chan struct{}
}

func (s *memorySubscription) deliver(ctx context.Context, evt Event) error {
	select {
	case <-s.closed:
		return nil
	default:
	}
	select {
	case s.ch <- evt:
		return nil
	case <-s.closed:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *memorySubscription) Events() <-chan Event {
	return s.ch
}

func (s *memorySubscription) Close() error {
	s.once.Do(func() {
		s.bus.mu.Lock()
		delete(s.bus.subs, s)
		s.bus.mu.Unlock()
		close(s.closed)
	})
	return nil
}
