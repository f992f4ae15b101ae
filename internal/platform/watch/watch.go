package watch

import (
	"context"
	"strings"
	"sync"

	"spacedrep/internal/platform/logger"
)

// Channels used by the SQLite adapters to announce committed writes.
const (
	Topics   = "topics"
	Reviews  = "reviews"
	Sessions = "sessions"
)

type subscriber struct {
	signal chan struct{}
}

// Hub fans change notifications out to live subscriptions. Signals coalesce: a
// subscriber that is still reloading sees at most one pending refresh.
type Hub struct {
	mu            sync.RWMutex
	log           *logger.Logger
	subscriptions map[string]map[*subscriber]bool
}

func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.NewNop()
	}
	return &Hub{
		log:           log.With("component", "WatchHub"),
		subscriptions: make(map[string]map[*subscriber]bool),
	}
}

func (h *Hub) add(sub *subscriber, channels []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range channels {
		ch = strings.TrimSpace(ch)
		if ch == "" {
			continue
		}
		subs, ok := h.subscriptions[ch]
		if !ok {
			subs = make(map[*subscriber]bool)
			h.subscriptions[ch] = subs
		}
		subs[sub] = true
	}
}

func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch, subs := range h.subscriptions {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.subscriptions, ch)
		}
	}
}

// Notify wakes every subscription listening on channel. It never blocks.
func (h *Hub) Notify(channel string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subscriptions[channel] {
		select {
		case sub.signal <- struct{}{}:
		default:
		}
	}
}

// Subscribers reports how many live subscriptions listen on channel.
func (h *Hub) Subscribers(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscriptions[channel])
}

// Subscribe evaluates load once synchronously and returns a stream that starts
// with that snapshot and re-evaluates load after every Notify on one of channels.
// The stream closes when ctx is cancelled. A failed reload is logged and skipped;
// the previous snapshot stays the latest value.
func Subscribe[T any](ctx context.Context, h *Hub, channels []string, load func(context.Context) (T, error)) (<-chan T, error) {
	// Registered before the first load so a write racing it still signals a refresh.
	sub := &subscriber{signal: make(chan struct{}, 1)}
	h.add(sub, channels)
	initial, err := load(ctx)
	if err != nil {
		h.remove(sub)
		return nil, err
	}

	out := make(chan T, 1)
	out <- initial
	go func() {
		defer close(out)
		defer h.remove(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case <-sub.signal:
			}
			snapshot, err := load(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				h.log.Warn("subscription refresh failed", "channels", channels, "error", err)
				continue
			}
			select {
			case out <- snapshot:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
