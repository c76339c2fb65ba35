package analyzer

import (
	"sync"
	"sync/atomic"

	"github.com/penwyp/go-flight-monitor/internal/data/cache"
	"github.com/penwyp/go-flight-monitor/internal/util"
)

// CacheStats counts cache outcomes while recordings are summarized.
type CacheStats struct {
	totalFiles  int64
	cacheHits   int64
	cacheMisses int64
	failures    int64
	mu          sync.Mutex
	missDetails []MissDetail
}

// MissDetail records details of a cache miss
type MissDetail struct {
	FilePath string
	Reason   cache.CacheMissReason
}

func NewCacheStats() *CacheStats {
	return &CacheStats{}
}

func (cs *CacheStats) IncrementTotal() { atomic.AddInt64(&cs.totalFiles, 1) }

func (cs *CacheStats) IncrementHit() { atomic.AddInt64(&cs.cacheHits, 1) }

func (cs *CacheStats) IncrementFailure() { atomic.AddInt64(&cs.failures, 1) }

// IncrementMiss counts a miss and remembers its reason.
func (cs *CacheStats) IncrementMiss(filePath string, reason cache.CacheMissReason) {
	atomic.AddInt64(&cs.cacheMisses, 1)

	cs.mu.Lock()
	cs.missDetails = append(cs.missDetails, MissDetail{FilePath: filePath, Reason: reason})
	cs.mu.Unlock()
}

// GetStats returns the current counters and the hit rate in percent.
func (cs *CacheStats) GetStats() (total, hits, misses, failures int64, hitRate float64) {
	total = atomic.LoadInt64(&cs.totalFiles)
	hits = atomic.LoadInt64(&cs.cacheHits)
	misses = atomic.LoadInt64(&cs.cacheMisses)
	failures = atomic.LoadInt64(&cs.failures)

	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	return
}

// MissReasons counts misses per reason.
func (cs *CacheStats) MissReasons() map[cache.CacheMissReason]int {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	counts := make(map[cache.CacheMissReason]int)
	for _, d := range cs.missDetails {
		counts[d.Reason]++
	}
	return counts
}

// PrintFinalStats logs the totals and, at debug level, the miss reasons.
func (cs *CacheStats) PrintFinalStats() {
	total, hits, misses, failures, hitRate := cs.GetStats()

	util.LogInfof("Cache statistics: %d recordings, hit rate %.1f%% (%d hits/%d misses/%d failures)",
		total, hitRate, hits, misses, failures)

	for reason, count := range cs.MissReasons() {
		util.LogDebugf("  %s: %d recordings", reason, count)
	}
}
