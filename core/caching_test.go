package core

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/huangsam/ridestats/internal/iocache"
	"github.com/huangsam/ridestats/internal/signal"
	"github.com/huangsam/ridestats/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// counter returns a compute func that counts its invocations.
func counter(calls *atomic.Int32, value int) func() (int, error) {
	return func() (int, error) {
		calls.Add(1)
		return value, nil
	}
}

func TestGetOrComputeMemoizes(t *testing.T) {
	m := NewMemoizer(signal.New(), nil, nil, time.Minute)
	var calls atomic.Int32

	for range 3 {
		v, err := GetOrCompute(m, "answer", counter(&calls, 42))
		require.NoError(t, err)
		assert.Equal(t, 42, v)
	}
	assert.Equal(t, int32(1), calls.Load())

	// Distinct names are distinct entries
	_, err := GetOrCompute(m, "other", counter(&calls, 7))
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGetOrComputeInvalidate(t *testing.T) {
	sig := signal.New()
	m := NewMemoizer(sig, nil, nil, time.Minute)
	var calls atomic.Int32

	_, err := GetOrCompute(m, "answer", counter(&calls, 1))
	require.NoError(t, err)

	m.Invalidate()
	assert.Equal(t, uint64(1), sig.Generation())

	v, err := GetOrCompute(m, "answer", counter(&calls, 2))
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.Equal(t, int32(2), calls.Load())

	// Advancing the signal directly also expires entries
	require.True(t, sig.Advance(10))
	v, err = GetOrCompute(m, "answer", counter(&calls, 3))
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestGetOrComputeTTL(t *testing.T) {
	m := NewMemoizer(signal.New(), nil, nil, time.Minute)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	var calls atomic.Int32

	_, err := GetOrCompute(m, "answer", counter(&calls, 1))
	require.NoError(t, err)

	now = now.Add(59 * time.Second)
	_, err = GetOrCompute(m, "answer", counter(&calls, 1))
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	now = now.Add(2 * time.Second)
	_, err = GetOrCompute(m, "answer", counter(&calls, 1))
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGetOrComputeErrorsNotMemoized(t *testing.T) {
	m := NewMemoizer(signal.New(), nil, nil, time.Minute)
	boom := errors.New("boom")

	_, err := GetOrCompute(m, "flaky", func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	v, err := GetOrCompute(m, "flaky", func() (int, error) { return 5, nil })
	require.NoError(t, err)
	assert.Equal(t, 5, v)
}

func TestGetOrComputeConcurrent(t *testing.T) {
	m := NewMemoizer(signal.New(), nil, nil, time.Minute)
	var calls atomic.Int32
	var wg sync.WaitGroup

	for range 16 {
		wg.Go(func() {
			v, err := GetOrCompute(m, "shared", counter(&calls, 9))
			assert.NoError(t, err)
			assert.Equal(t, 9, v)
		})
	}
	wg.Wait()
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
}

func envelopeBytes(t *testing.T, generation uint64, value any) []byte {
	t.Helper()
	raw, err := json.Marshal(value)
	require.NoError(t, err)
	data, err := json.Marshal(envelope{Generation: generation, Value: raw})
	require.NoError(t, err)
	return data
}

func TestGetOrComputePersistentHit(t *testing.T) {
	store := &iocache.MockCacheStore{}
	key := generateCacheKey("answer")
	store.On("Get", key).Return(envelopeBytes(t, 4, 42), currentCacheVersion, time.Now().Unix(), nil)

	m := NewMemoizer(signal.NewAt(4), store, nil, time.Minute)
	v, err := GetOrCompute(m, "answer", func() (int, error) {
		t.Fatal("compute should not run on a persistent hit")
		return 0, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	// The hit is kept in process
	v, err = GetOrCompute(m, "answer", func() (int, error) { return 0, errors.New("unexpected") })
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	store.AssertNumberOfCalls(t, "Get", 1)
}

func TestGetOrComputePersistentMiss(t *testing.T) {
	tests := []struct {
		name    string
		data    func(t *testing.T) []byte
		version int
		age     time.Duration
	}{
		{"stale generation", func(t *testing.T) []byte { return envelopeBytes(t, 3, 1) }, currentCacheVersion, 0},
		{"old version", func(t *testing.T) []byte { return envelopeBytes(t, 4, 1) }, currentCacheVersion + 1, 0},
		{"expired", func(t *testing.T) []byte { return envelopeBytes(t, 4, 1) }, currentCacheVersion, time.Hour},
		{"corrupt", func(*testing.T) []byte { return []byte("{not json") }, currentCacheVersion, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &iocache.MockCacheStore{}
			key := generateCacheKey("answer")
			store.On("Get", key).Return(tt.data(t), tt.version, time.Now().Add(-tt.age).Unix(), nil)
			store.On("Set", key, mock.Anything, currentCacheVersion, mock.Anything).Return(nil)

			m := NewMemoizer(signal.NewAt(4), store, nil, time.Minute)
			v, err := GetOrCompute(m, "answer", func() (int, error) { return 99, nil })
			require.NoError(t, err)
			assert.Equal(t, 99, v)
			store.AssertExpectations(t)
		})
	}
}

func TestGetOrComputeStoresEnvelope(t *testing.T) {
	store := &iocache.MockCacheStore{}
	key := generateCacheKey("answer")
	store.On("Get", key).Return(nil, 0, int64(0), errors.New("no rows"))

	var stored []byte
	store.On("Set", key, mock.Anything, currentCacheVersion, mock.Anything).
		Run(func(args mock.Arguments) { stored = args.Get(1).([]byte) }).
		Return(nil)

	m := NewMemoizer(signal.NewAt(2), store, nil, time.Minute)
	_, err := GetOrCompute(m, "answer", func() (int, error) { return 7, nil })
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(stored, &env))
	assert.Equal(t, uint64(2), env.Generation)
	assert.JSONEq(t, "7", string(env.Value))
}

func TestGetOrComputeSyncsStoreGeneration(t *testing.T) {
	rides := &iocache.MockRideStore{}
	rides.On("Generation").Return(int64(5), nil)

	sig := signal.New()
	m := NewMemoizer(sig, nil, rides, time.Minute)
	var calls atomic.Int32

	_, err := GetOrCompute(m, "answer", counter(&calls, 1))
	require.NoError(t, err)
	assert.Equal(t, uint64(5), sig.Generation())

	// Same generation on the next read keeps the entry
	_, err = GetOrCompute(m, "answer", counter(&calls, 1))
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGenerateCacheKey(t *testing.T) {
	key := generateCacheKey("rides_summary")
	assert.Len(t, key, 64)
	assert.Equal(t, key, generateCacheKey("rides_summary"))
	assert.NotEqual(t, key, generateCacheKey("rides_total_count"))
}

func TestGetOrComputeAfterRideStoreRecreated(t *testing.T) {
	dir := t.TempDir()
	ridePath := filepath.Join(dir, "rides.db")
	cache, err := iocache.NewCacheStore("results", schema.SQLiteBackend, filepath.Join(dir, "cache.db"))
	require.NoError(t, err)
	defer func() { _ = cache.Close() }()

	rides, err := iocache.NewRideStore(schema.SQLiteBackend, ridePath)
	require.NoError(t, err)
	_, _, err = rides.SaveRides([]schema.Ride{{Label: "a.gpx", Start: time.Now(), End: time.Now()}})
	require.NoError(t, err)

	v, err := GetOrCompute(NewMemoizer(signal.New(), cache, rides, time.Minute), "answer", func() (int, error) { return 10, nil })
	require.NoError(t, err)
	assert.Equal(t, 10, v)
	require.NoError(t, rides.Close())

	require.NoError(t, iocache.ClearRides(schema.SQLiteBackend, ridePath, ""))
	rides, err = iocache.NewRideStore(schema.SQLiteBackend, ridePath)
	require.NoError(t, err)
	defer func() { _ = rides.Close() }()
	_, _, err = rides.SaveRides([]schema.Ride{{Label: "b.gpx", Start: time.Now(), End: time.Now()}})
	require.NoError(t, err)

	// A new process sees the recreated store, not the persisted result
	v, err = GetOrCompute(NewMemoizer(signal.New(), cache, rides, time.Minute), "answer", func() (int, error) { return 99, nil })
	require.NoError(t, err)
	assert.Equal(t, 99, v)
}

func TestSignalResetDoesNotBlockLaterBatch(t *testing.T) {
	rides, err := iocache.NewRideStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "rides.db"))
	require.NoError(t, err)
	defer func() { _ = rides.Close() }()

	first, _, err := rides.SaveRides([]schema.Ride{{Label: "a.gpx", Start: time.Now(), End: time.Now()}})
	require.NoError(t, err)
	sig := signal.New()
	require.True(t, sig.Advance(uint64(first)))

	// Invalidate bumps the signal by one, which a later batch must still pass
	NewMemoizer(sig, nil, rides, time.Minute).Invalidate()

	second, _, err := rides.SaveRides([]schema.Ride{{Label: "b.gpx", Start: time.Now(), End: time.Now()}})
	require.NoError(t, err)
	assert.True(t, sig.Advance(uint64(second)))
	assert.Equal(t, uint64(second), sig.Generation())
}
