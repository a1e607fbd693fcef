package store

import (
	"sync"

	"portfolio-backend/internal/domain"
)

// Feed fans store changes out to subscribers. Several stores may share one
// feed so a transport can follow every collection with a single subscription.
type Feed struct {
	mu   sync.RWMutex
	next int
	subs map[int]func(domain.ChangeEvent)
}

func NewFeed() *Feed {
	return &Feed{subs: make(map[int]func(domain.ChangeEvent))}
}

// Subscribe registers fn and returns a func that removes it
func (f *Feed) Subscribe(fn func(domain.ChangeEvent)) func() {
	f.mu.Lock()
	id := f.next
	f.next++
	f.subs[id] = fn
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
		})
	}
}

// Publish calls every subscriber synchronously, outside the feed lock
func (f *Feed) Publish(ev domain.ChangeEvent) {
	f.mu.RLock()
	fns := make([]func(domain.ChangeEvent), 0, len(f.subs))
	for _, fn := range f.subs {
		fns = append(fns, fn)
	}
	f.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// subscribeKey filters a shared feed down to one storage key
func subscribeKey(f *Feed, key string, fn func(domain.ChangeEvent)) func() {
	return f.Subscribe(func(ev domain.ChangeEvent) {
		if ev.Key == key {
			fn(ev)
		}
	})
}
