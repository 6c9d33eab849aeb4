package core

import (
	"sync"

	"github.com/huangsam/ridestats/internal/contract"
	"github.com/huangsam/ridestats/internal/signal"
)

// RideSignal is the process-wide signal bumped whenever rides are ingested.
var RideSignal = signal.New()

var (
	memoMu     sync.Mutex
	memoGlobal *Memoizer
	memoMgr    contract.CacheManager
)

// memoizerFor returns the shared memoizer for mgr, creating a new one when the
// manager changes. The TTL of the first caller wins for a given manager.
func memoizerFor(cfg *contract.Config, mgr contract.CacheManager) *Memoizer {
	memoMu.Lock()
	defer memoMu.Unlock()

	if memoGlobal == nil || memoMgr != mgr {
		var cache contract.CacheStore
		var rides contract.RideStore
		if mgr != nil {
			cache = mgr.GetCacheStore()
			rides = mgr.GetRideStore()
		}
		memoGlobal = NewMemoizer(RideSignal, cache, rides, cfg.CacheTTL)
		memoMgr = mgr
	}
	return memoGlobal
}
