// Package notifier broadcasts dataset-generation changes to SSE listeners.
package notifier

import "sync"

// Notifier fans a snapshot ID out to all subscribed listeners. A listener
// receives the ID of the generation that just became available and decides
// for itself whether to re-render.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan string]struct{}
}

// New creates an empty Notifier.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan string]struct{}),
	}
}

// Subscribe returns a channel receiving snapshot IDs. The caller must
// Unsubscribe when done to avoid leaking the channel.
func (n *Notifier) Subscribe() chan string {
	ch := make(chan string, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a listener channel.
func (n *Notifier) Unsubscribe(ch chan string) {
	n.mu.Lock()
	delete(n.listeners, ch)
	n.mu.Unlock()
	close(ch)
}

// Broadcast delivers snapshotID to every listener without blocking; a
// listener with a full buffer misses this generation and catches up on the
// next one.
func (n *Notifier) Broadcast(snapshotID string) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.listeners {
		select {
		case ch <- snapshotID:
		default:
		}
	}
}
