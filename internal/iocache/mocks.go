package iocache

import (
	"github.com/huangsam/ridestats/internal/contract"
	"github.com/huangsam/ridestats/schema"
	"github.com/stretchr/testify/mock"
)

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	mock.Mock
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// GetCacheStore implements the CacheManager interface.
func (m *MockCacheManager) GetCacheStore() contract.CacheStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.CacheStore)
	return store
}

// GetRideStore implements the CacheManager interface.
func (m *MockCacheManager) GetRideStore() contract.RideStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.RideStore)
	return store
}

// MockCacheStore is a mock implementation of CacheStore for testing.
type MockCacheStore struct {
	mock.Mock
}

var _ contract.CacheStore = &MockCacheStore{} // Compile-time check

// Get implements the CacheStore interface.
func (m *MockCacheStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	return data, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the CacheStore interface.
func (m *MockCacheStore) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// Close implements the CacheStore interface.
func (m *MockCacheStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the CacheStore interface.
func (m *MockCacheStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// MockRideStore is a mock implementation of RideStore for testing.
type MockRideStore struct {
	mock.Mock
}

var _ contract.RideStore = &MockRideStore{} // Compile-time check

// SaveRides implements the RideStore interface.
func (m *MockRideStore) SaveRides(rides []schema.Ride) (int64, []schema.Ride, error) {
	args := m.Called(rides)
	saved, _ := args.Get(1).([]schema.Ride)
	return args.Get(0).(int64), saved, args.Error(2)
}

// ListRides implements the RideStore interface.
func (m *MockRideStore) ListRides(withPoints bool) ([]schema.Ride, error) {
	args := m.Called(withPoints)
	rides, _ := args.Get(0).([]schema.Ride)
	return rides, args.Error(1)
}

// ListRidesPage implements the RideStore interface.
func (m *MockRideStore) ListRidesPage(page, size int) ([]schema.Ride, error) {
	args := m.Called(page, size)
	rides, _ := args.Get(0).([]schema.Ride)
	return rides, args.Error(1)
}

// GetRide implements the RideStore interface.
func (m *MockRideStore) GetRide(id string, withPoints bool) (schema.Ride, error) {
	args := m.Called(id, withPoints)
	return args.Get(0).(schema.Ride), args.Error(1)
}

// CountRides implements the RideStore interface.
func (m *MockRideStore) CountRides() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

// Totals implements the RideStore interface.
func (m *MockRideStore) Totals() (schema.RideTotals, error) {
	args := m.Called()
	return args.Get(0).(schema.RideTotals), args.Error(1)
}

// Generation implements the RideStore interface.
func (m *MockRideStore) Generation() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

// GetStatus implements the RideStore interface.
func (m *MockRideStore) GetStatus() (schema.RideStoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.RideStoreStatus), args.Error(1)
}

// Close implements the RideStore interface.
func (m *MockRideStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
