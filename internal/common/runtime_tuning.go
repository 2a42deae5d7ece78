package common

import (
	"os"
	"runtime"
	"runtime/debug"

	"github.com/rs/zerolog/log"
)

// Runtime profiles for different server configurations
const (
	// Small server: 2 vCPU, 4GB RAM
	SmallServerGOGC     = 200
	SmallServerMemLimit = 2.5 * 1024 * 1024 * 1024 // 2.5GB

	// Medium server: 4-8 vCPU, 8-16GB RAM
	MediumServerGOGC     = 300
	MediumServerMemLimit = 6 * 1024 * 1024 * 1024 // 6GB

	// Large server: 16+ vCPU
	LargeServerGOGC     = 400
	LargeServerMemLimit = 12 * 1024 * 1024 * 1024 // 12GB
)

// detectServerProfile picks GC settings from the CPU count.
// The path search is CPU bound and allocation heavy, so every core is used.
func detectServerProfile() (gogc int, memLimit int64) {
	switch cpu := runtime.NumCPU(); {
	case cpu <= 2:
		return SmallServerGOGC, int64(SmallServerMemLimit)
	case cpu <= 8:
		return MediumServerGOGC, int64(MediumServerMemLimit)
	default:
		return LargeServerGOGC, int64(LargeServerMemLimit)
	}
}

// InitRuntime applies the detected GC profile.
// GOGC and GOMEMLIMIT from the environment take precedence.
func InitRuntime() {
	gogc, memLimit := detectServerProfile()

	if os.Getenv("GOGC") == "" {
		debug.SetGCPercent(gogc)
		log.Info().Int("GOGC", gogc).Msg("[runtime] Set GOGC")
	}

	if os.Getenv("GOMEMLIMIT") == "" {
		debug.SetMemoryLimit(memLimit)
		log.Info().
			Int64("GOMEMLIMIT_bytes", memLimit).
			Float64("GOMEMLIMIT_GB", float64(memLimit)/1024/1024/1024).
			Msg("[runtime] Set memory limit")
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	log.Info().
		Int("num_cpu", runtime.NumCPU()).
		Int("gomaxprocs", runtime.GOMAXPROCS(0)).
		Uint64("heap_alloc_mb", memStats.HeapAlloc/1024/1024).
		Str("go_version", runtime.Version()).
		Msg("[runtime] Current runtime settings")
}
