package eventbus

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

type binding struct {
	pattern  string
	consumer EventConsumer
}

// ConsumerRegistry routes consumed events to the consumers whose topic
// patterns match the routing key. "*" matches one word and "#" matches zero
// or more words.
type ConsumerRegistry struct {
	mu       sync.RWMutex
	bindings []binding
	logger   *slog.Logger
}

// NewConsumerRegistry creates an empty registry.
func NewConsumerRegistry(logger *slog.Logger) *ConsumerRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsumerRegistry{logger: logger}
}

// Register binds consumer to each of its event types.
func (r *ConsumerRegistry) Register(consumer EventConsumer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, pattern := range consumer.EventTypes() {
		r.bindings = append(r.bindings, binding{pattern: pattern, consumer: consumer})
		r.logger.Debug("consumer bound", "pattern", pattern)
	}
}

// Match returns the consumers bound to a pattern matching routingKey, in
// registration order and without duplicates.
func (r *ConsumerRegistry) Match(routingKey string) []EventConsumer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []EventConsumer
	seen := make(map[EventConsumer]struct{})
	for _, b := range r.bindings {
		if _, dup := seen[b.consumer]; dup || !MatchRoutingKey(b.pattern, routingKey) {
			continue
		}
		seen[b.consumer] = struct{}{}
		matched = append(matched, b.consumer)
	}
	return matched
}

// Patterns returns the distinct bound patterns, sorted.
func (r *ConsumerRegistry) Patterns() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := make(map[string]struct{}, len(r.bindings))
	for _, b := range r.bindings {
		set[b.pattern] = struct{}{}
	}
	patterns := make([]string, 0, len(set))
	for p := range set {
		patterns = append(patterns, p)
	}
	sort.Strings(patterns)
	return patterns
}

// Len returns the number of bindings.
func (r *ConsumerRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bindings)
}

// Dispatch hands event to every matching consumer. A failing consumer does
// not stop the others; all failures are joined.
func (r *ConsumerRegistry) Dispatch(ctx context.Context, event *ConsumedEvent) error {
	consumers := r.Match(event.RoutingKey)
	if len(consumers) == 0 {
		r.logger.Debug("no consumers for event", "routing_key", event.RoutingKey)
		return nil
	}

	var errs []error
	for _, consumer := range consumers {
		if err := consumer.Handle(ctx, event); err != nil {
			r.logger.Error("consumer failed to handle event",
				"routing_key", event.RoutingKey,
				"event_id", event.EventID,
				"error", err,
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// MatchRoutingKey reports whether key matches the topic pattern.
func MatchRoutingKey(pattern, key string) bool {
	if pattern == key {
		return true
	}
	return matchWords(strings.Split(pattern, "."), strings.Split(key, "."))
}

func matchWords(pattern, key []string) bool {
	if len(pattern) == 0 {
		return len(key) == 0
	}
	switch pattern[0] {
	case "#":
		for i := 0; i <= len(key); i++ {
			if matchWords(pattern[1:], key[i:]) {
				return true
			}
		}
		return false
	case "*":
		return len(key) > 0 && matchWords(pattern[1:], key[1:])
	default:
		return len(key) > 0 && pattern[0] == key[0] && matchWords(pattern[1:], key[1:])
	}
}
