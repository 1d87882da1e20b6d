package recordstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Store provides namespace-scoped record operations backed by Redis.
// All keys and channels are automatically namespaced, and every instance
// carries a unique origin ID so subscriptions can filter out self-writes.
// The store is safe for concurrent use from multiple goroutines.
type Store struct {
	rdb       *redis.Client
	namespace string
	originID  string

	mu    sync.Mutex
	cache map[string]json.RawMessage
}

// Event is a record change notification. Value holds the new serialized
// document, or is empty when the key was cleared. Origin identifies the store
// instance that performed the write.
type Event struct {
	Key    string          `json:"key"`
	Value  json.RawMessage `json:"value,omitempty"`
	Origin string          `json:"origin"`
}

// NewStore creates a record store for the given namespace.
//
// Parameters:
//   - redisOpts: Redis connection options (address, password, DB, etc.)
//   - namespace: data-set identifier (must not be empty)
//
// Returns an error if namespace is empty.
func NewStore(redisOpts *redis.Options, namespace string) (*Store, error) {
	if namespace == "" {
		return nil, fmt.Errorf("namespace cannot be empty")
	}

	return &Store{
		rdb:       redis.NewClient(redisOpts),
		namespace: namespace,
		originID:  uuid.New().String(),
		cache:     make(map[string]json.RawMessage),
	}, nil
}

// Close closes the Redis connection. Implements io.Closer.
// After calling Close(), the store should not be used.
func (s *Store) Close() error {
	return s.rdb.Close()
}

// Ping verifies Redis connectivity. Useful for health checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Read returns the stored value for key, or def when no value exists or the
// stored content does not parse. It never fails: medium and parse errors are
// logged and read as "absent". Reads are served from the in-process cache
// once a value has been fetched or written in this process.
func Read[T any](ctx context.Context, s *Store, key string, def T) T {
	s.mu.Lock()
	data, ok := s.cache[key]
	s.mu.Unlock()

	if !ok {
		raw, err := s.rdb.Get(ctx, RecordKey(s.namespace, key)).Bytes()
		if err == redis.Nil {
			return def
		}
		if err != nil {
			log.Printf("recordstore: read %q: %v", key, err)
			return def
		}
		data = raw
	}

	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		log.Printf("recordstore: parse %q: %v (treating as absent)", key, err)
		return def
	}

	if !ok {
		s.mu.Lock()
		s.cache[key] = data
		s.mu.Unlock()
	}

	return out
}

// Write serializes value and persists it under key, replacing prior content
// entirely. The in-process cache is updated before the medium is touched, so
// a subsequent Read in this process observes the new value even if persistence
// failed. Medium failures are logged, not returned; the cache may therefore
// run ahead of what is durable.
//
// Other store instances watching the same namespace are notified via a change
// event. The writing instance's own subscriptions do not fire.
func (s *Store) Write(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("recordstore: serialize %q: %v (write skipped)", key, err)
		return
	}

	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()

	if err := s.rdb.Set(ctx, RecordKey(s.namespace, key), data, 0).Err(); err != nil {
		log.Printf("recordstore: write %q: %v (in-process value kept)", key, err)
		return
	}

	s.publish(ctx, Event{Key: key, Value: data, Origin: s.originID})
}

// Clear removes the stored content for key and drops it from the cache.
// Like Write, failures are logged rather than returned. A clear event with an
// empty value is published so other instances fall back to their defaults.
func (s *Store) Clear(ctx context.Context, key string) {
	s.mu.Lock()
	delete(s.cache, key)
	s.mu.Unlock()

	if err := s.rdb.Del(ctx, RecordKey(s.namespace, key)).Err(); err != nil {
		log.Printf("recordstore: clear %q: %v", key, err)
		return
	}

	s.publish(ctx, Event{Key: key, Origin: s.originID})
}

func (s *Store) publish(ctx context.Context, ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("recordstore: marshal event for %q: %v", ev.Key, err)
		return
	}
	if err := s.rdb.Publish(ctx, EventsChannel(s.namespace), payload).Err(); err != nil {
		log.Printf("recordstore: publish event for %q: %v", ev.Key, err)
	}
}

// Subscription represents an active Pub/Sub subscription to record changes for
// a single key. Caller must call Close() when done to clean up resources.
type Subscription struct {
	events <-chan Event
	errors <-chan error
	cancel func()
	once   sync.Once
}

// Events returns the channel of change events.
// The channel is closed when the subscription is closed or the context is
// cancelled.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Errors returns the channel of subscription errors.
// Errors include JSON unmarshaling failures of event payloads and other
// non-fatal issues. The subscription continues after errors - messages are
// skipped.
func (s *Subscription) Errors() <-chan error {
	return s.errors
}

// Close stops the subscription and cleans up resources. Implements io.Closer.
// Safe to call multiple times - subsequent calls are no-ops.
func (s *Subscription) Close() error {
	s.once.Do(s.cancel)
	return nil
}

// Subscribe watches key for changes made by other store instances in the same
// namespace. Writes performed through this store do not fire the returned
// subscription; self-writes are observed via the synchronous Read path.
// Caller must call subscription.Close() when done. Context cancellation also
// stops the subscription.
//
// Events are delivered on a buffered channel (size 10) to prevent blocking.
// If the subscriber is too slow, events may be dropped by Redis Pub/Sub
// (at-most-once delivery).
func (s *Store) Subscribe(ctx context.Context, key string) (*Subscription, error) {
	pubsub := s.rdb.Subscribe(ctx, EventsChannel(s.namespace))

	eventsChan := make(chan Event, 10)
	errorsChan := make(chan error, 10)

	subCtx, cancelFunc := context.WithCancel(ctx)

	go func() {
		defer close(eventsChan)
		defer close(errorsChan)
		defer pubsub.Close()

		ch := pubsub.Channel()

		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					select {
					case errorsChan <- fmt.Errorf("failed to unmarshal record event: %w", err):
					case <-subCtx.Done():
						return
					}
					continue
				}

				// Not ours to deliver: different key, or our own write.
				if ev.Key != key || ev.Origin == s.originID {
					continue
				}

				select {
				case eventsChan <- ev:
				case <-subCtx.Done():
					return
				}
			}
		}
	}()

	return &Subscription{
		events: eventsChan,
		errors: errorsChan,
		cancel: cancelFunc,
	}, nil
}

// DecodeEvent parses an event's value into T, returning def when the value is
// empty (key cleared) or does not parse. Mirrors the forgiving Read contract:
// a subscriber always gets a usable value.
func DecodeEvent[T any](ev Event, def T) T {
	if len(ev.Value) == 0 {
		return def
	}
	var out T
	if err := json.Unmarshal(ev.Value, &out); err != nil {
		log.Printf("recordstore: parse event for %q: %v (using default)", ev.Key, err)
		return def
	}
	return out
}
