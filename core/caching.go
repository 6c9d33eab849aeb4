package core

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/huangsam/ridestats/internal/contract"
	"github.com/huangsam/ridestats/internal/signal"
)

// currentCacheVersion defines the version of the cache schema
const currentCacheVersion = 1

// Memoizer caches query results until the ride signal moves on or the TTL passes.
// Concurrent misses on the same key may compute twice; the last write wins.
type Memoizer struct {
	signal *signal.Signal
	cache  contract.CacheStore // optional persistent layer
	rides  contract.RideStore  // optional generation source
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]memoEntry
}

// memoEntry is an in-process result tied to the token current when it was computed.
type memoEntry struct {
	token  *signal.Token
	stored time.Time
	value  any
}

// envelope is the persisted form of a memoized value.
type envelope struct {
	Generation uint64          `json:"generation"`
	Value      json.RawMessage `json:"value"`
}

// NewMemoizer creates a memoizer over sig. Either store may be nil.
func NewMemoizer(sig *signal.Signal, cache contract.CacheStore, rides contract.RideStore, ttl time.Duration) *Memoizer {
	if ttl <= 0 {
		ttl = contract.DefaultCacheTTL
	}
	return &Memoizer{
		signal:  sig,
		cache:   cache,
		rides:   rides,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoEntry),
	}
}

// Signal returns the signal the memoizer follows.
func (m *Memoizer) Signal() *signal.Signal {
	return m.signal
}

// Invalidate drops every memoized result by resetting the signal.
func (m *Memoizer) Invalidate() {
	tok := m.signal.Reset()
	contract.Log().Debug().Uint64("generation", tok.Generation()).Msg("memo invalidated")
}

// syncGeneration advances the signal to the ride store's generation so that
// ingests made by other processes expire this process's entries.
func (m *Memoizer) syncGeneration() {
	if m.rides == nil {
		return
	}
	gen, err := m.rides.Generation()
	if err != nil {
		contract.Log().Warn().Err(err).Msg("unable to read ride generation")
		return
	}
	if gen > 0 && m.signal.Advance(uint64(gen)) {
		contract.Log().Debug().Int64("generation", gen).Msg("memo advanced to store generation")
	}
}

// GetOrCompute returns the memoized value for name or computes and stores it.
// Errors are never memoized.
func GetOrCompute[T any](m *Memoizer, name string, compute func() (T, error)) (T, error) {
	m.syncGeneration()
	token := m.signal.Token()
	key := generateCacheKey(name)

	if v, ok := m.lookup(key, token); ok {
		if result, ok := v.(T); ok {
			return result, nil
		}
	}
	if result, ok := checkCacheHit[T](m, key, token.Generation()); ok {
		m.remember(key, token, result)
		return result, nil
	}

	contract.Log().Debug().Str("name", name).Uint64("generation", token.Generation()).Msg("cache miss")
	result, err := compute()
	if err != nil {
		var zero T
		return zero, err
	}
	m.remember(key, token, result)
	storeResult(m, key, token.Generation(), result)
	return result, nil
}

// lookup returns a live in-process entry for key.
func (m *Memoizer) lookup(key string, token *signal.Token) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if entry.token != token || entry.token.Expired() || m.now().Sub(entry.stored) > m.ttl {
		delete(m.entries, key)
		return nil, false
	}
	return entry.value, true
}

func (m *Memoizer) remember(key string, token *signal.Token, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoEntry{token: token, stored: m.now(), value: value}
}

// checkCacheHit attempts to retrieve and validate a persisted result
func checkCacheHit[T any](m *Memoizer, key string, generation uint64) (T, bool) {
	var result T
	if m.cache == nil {
		return result, false
	}

	data, version, ts, err := m.cache.Get(key)
	if err != nil {
		return result, false // Cache miss
	}

	// Validate version, generation and staleness
	if version != currentCacheVersion || m.now().Sub(time.Unix(ts, 0)) > m.ttl {
		return result, false
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil || env.Generation != generation {
		return result, false
	}
	if err := json.Unmarshal(env.Value, &result); err != nil {
		return result, false
	}
	return result, true
}

// storeResult persists a computed result. Failures are logged and otherwise ignored
func storeResult[T any](m *Memoizer, key string, generation uint64, result T) {
	if m.cache == nil {
		return
	}
	value, err := json.Marshal(result)
	if err != nil {
		return
	}
	data, err := json.Marshal(envelope{Generation: generation, Value: value})
	if err != nil {
		return
	}
	if err := m.cache.Set(key, data, currentCacheVersion, m.now().Unix()); err != nil {
		contract.Log().Warn().Err(err).Str("key", key).Msg("unable to persist result")
	}
}

// generateCacheKey creates a unique key for a named query shape
func generateCacheKey(name string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte("ridestats:"+name)))
}
