package config

import "sync"

// Change describes a single configuration write.
type Change struct {
	Key   string
	Value interface{}
}

// Notifier broadcasts configuration changes to subscribers so that one
// component's write (e.g. the workflow enabling auto-sync on first publish)
// is observed by independently-constructed components like the scheduler.
type Notifier struct {
	mu   sync.Mutex
	subs []func(Change)
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Subscribe registers a callback invoked on every published change.
// Callbacks run synchronously on the publisher's goroutine.
func (n *Notifier) Subscribe(fn func(Change)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subs = append(n.subs, fn)
}

// Publish delivers a change to all subscribers.
func (n *Notifier) Publish(change Change) {
	n.mu.Lock()
	subs := make([]func(Change), len(n.subs))
	copy(subs, n.subs)
	n.mu.Unlock()

	for _, fn := range subs {
		fn(change)
	}
}
