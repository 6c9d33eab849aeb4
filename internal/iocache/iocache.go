// Package iocache persists rides and memoized query results.
package iocache

import (
	"sync"

	"github.com/huangsam/ridestats/internal/contract"
)

// CacheStoreManager manages the cache and ride store instances.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	cache        contract.CacheStore
	rides        contract.RideStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetCacheStore returns the memoization CacheStore.
func (mgr *CacheStoreManager) GetCacheStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.cache
}

// GetRideStore returns the RideStore.
func (mgr *CacheStoreManager) GetRideStore() contract.RideStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.rides
}
