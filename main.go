// main is the entry point for the ridestats CLI.
package main

import (
	"github.com/huangsam/ridestats/cmd"
	"github.com/huangsam/ridestats/internal/contract"
	"github.com/huangsam/ridestats/internal/iocache"
)

func main() {
	defer iocache.CloseStores()

	cmd.SetCacheManager(iocache.Manager)
	if err := cmd.Execute(); err != nil {
		// LogFatal exits, so deferred calls would not run
		iocache.CloseStores()
		contract.LogFatal("Command failed", err)
	}
	if err := cmd.StopProfiling(); err != nil {
		contract.LogWarn("Failed to stop profiling", err)
	}
}
