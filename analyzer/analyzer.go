package analyzer

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/seo-optimizer/contentscore/stats"
)

const (
	DefaultBaseURL    = "https://example.com/blog/"
	DefaultSiteDomain = "example.com"
)

// Options configures preview generation, link classification and memoization
type Options struct {
	BaseURL         string
	SiteDomain      string
	CacheTTL        time.Duration
	MaxCacheSize    int
	CleanupInterval time.Duration
	Logger          *zap.Logger
	Stats           *stats.Storage
}

// DefaultOptions returns the options used when none are given
func DefaultOptions() Options {
	return Options{
		BaseURL:         DefaultBaseURL,
		SiteDomain:      DefaultSiteDomain,
		CacheTTL:        30 * time.Minute,
		MaxCacheSize:    1000,
		CleanupInterval: 5 * time.Minute,
	}
}

// Cache entry with expiration
type cacheEntry struct {
	report    *Report
	timestamp time.Time
}

// CacheStats provides statistics about the analyzer's cache
type CacheStats struct {
	Entries    int           `json:"entries"`
	Hits       int           `json:"hits"`
	Misses     int           `json:"misses"`
	TTL        time.Duration `json:"ttl"`
	MaxEntries int           `json:"maxEntries"`
	Analyses   int           `json:"analyses"`
	AvgScore   float64       `json:"averageScore"`
}

// Analyzer memoizes Evaluate. Reports are shared between callers and must be
// treated as read-only.
type Analyzer struct {
	opts         Options
	logger       *zap.Logger
	cache        map[string]cacheEntry
	cacheMutex   sync.RWMutex
	cacheTTL     time.Duration
	maxCacheSize int
	lastCleanup  time.Time
	stats        *stats.Storage
	stop         chan struct{}
	stopOnce     sync.Once
}

// New creates a new Analyzer instance
func New(opts Options) *Analyzer {
	defaults := DefaultOptions()
	if opts.BaseURL == "" {
		opts.BaseURL = defaults.BaseURL
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaults.CacheTTL
	}
	if opts.MaxCacheSize <= 0 {
		opts.MaxCacheSize = defaults.MaxCacheSize
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaults.CleanupInterval
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Stats == nil {
		opts.Stats = stats.NewStorage()
	}

	a := &Analyzer{
		opts:         opts,
		logger:       opts.Logger,
		cache:        make(map[string]cacheEntry),
		cacheTTL:     opts.CacheTTL,
		maxCacheSize: opts.MaxCacheSize,
		lastCleanup:  time.Now(),
		stats:        opts.Stats,
		stop:         make(chan struct{}),
	}

	go a.periodicCleanup(opts.CleanupInterval)

	return a
}

// Options returns the options the analyzer was built with
func (a *Analyzer) Options() Options {
	return a.opts
}

// periodicCleanup removes expired entries until Shutdown
func (a *Analyzer) periodicCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.cleanup()
		case <-a.stop:
			return
		}
	}
}

// cleanup removes expired entries and enforces the size limit
func (a *Analyzer) cleanup() {
	a.cacheMutex.Lock()
	defer a.cacheMutex.Unlock()
	a.cleanupLocked()
}

// cleanupLocked must be called with cacheMutex held for writing
func (a *Analyzer) cleanupLocked() {
	now := time.Now()
	for key, entry := range a.cache {
		if now.Sub(entry.timestamp) > a.cacheTTL {
			delete(a.cache, key)
		}
	}

	if len(a.cache) > a.maxCacheSize {
		type aged struct {
			key       string
			timestamp time.Time
		}
		entries := make([]aged, 0, len(a.cache))
		for key, entry := range a.cache {
			entries = append(entries, aged{key, entry.timestamp})
		}
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].timestamp.Before(entries[j].timestamp)
		})
		for i := 0; i < len(entries)-a.maxCacheSize; i++ {
			delete(a.cache, entries[i].key)
		}
	}

	a.lastCleanup = now
}

// SetMaxCacheSize sets the maximum number of cached reports
func (a *Analyzer) SetMaxCacheSize(size int) {
	a.cacheMutex.Lock()
	defer a.cacheMutex.Unlock()
	a.maxCacheSize = size
	a.cleanupLocked()
}

// SetCacheTTL sets the cache TTL
func (a *Analyzer) SetCacheTTL(ttl time.Duration) {
	a.cacheMutex.Lock()
	defer a.cacheMutex.Unlock()
	a.cacheTTL = ttl
}

// ClearCache clears the report cache
func (a *Analyzer) ClearCache() {
	a.cacheMutex.Lock()
	defer a.cacheMutex.Unlock()
	a.cache = make(map[string]cacheEntry)
}

// generateCacheKey hashes the canonical form of an input
func generateCacheKey(in Input) string {
	in.SecondaryKeywords = NormalizeKeywords(in.SecondaryKeywords)
	data, err := json.Marshal(in)
	if err != nil {
		// Input holds only strings; this cannot happen.
		data = []byte(in.Title + "\x00" + in.Content)
	}
	hash := md5.Sum(data)
	return hex.EncodeToString(hash[:])
}

// GetCacheStats returns statistics about the cache
func (a *Analyzer) GetCacheStats() CacheStats {
	current := a.stats.GetCurrentStats()

	a.cacheMutex.RLock()
	defer a.cacheMutex.RUnlock()

	return CacheStats{
		Entries:    len(a.cache),
		Hits:       current.CacheHits,
		Misses:     current.CacheMisses,
		TTL:        a.cacheTTL,
		MaxEntries: a.maxCacheSize,
		Analyses:   current.Analyses,
		AvgScore:   current.AverageScore,
	}
}

// IsCached checks if a report for the input is cached and not expired
func (a *Analyzer) IsCached(in Input) bool {
	cacheKey := generateCacheKey(in)
	a.cacheMutex.RLock()
	defer a.cacheMutex.RUnlock()

	entry, found := a.cache[cacheKey]
	return found && time.Since(entry.timestamp) < a.cacheTTL
}

// Analyze returns the report for an input, computing it only on a cache miss
func (a *Analyzer) Analyze(in Input) *Report {
	cacheKey := generateCacheKey(in)

	a.cacheMutex.RLock()
	if entry, found := a.cache[cacheKey]; found && time.Since(entry.timestamp) < a.cacheTTL {
		a.cacheMutex.RUnlock()
		a.stats.IncrementStats(1, 0)
		return entry.report
	}
	a.cacheMutex.RUnlock()

	a.stats.IncrementStats(0, 1)

	start := time.Now()
	report := EvaluateWithOptions(in, a.opts)
	a.stats.RecordAnalysis(report.Score)

	a.logger.Debug("content analyzed",
		zap.String("cache_key", cacheKey),
		zap.Int("score", report.Score),
		zap.Int("words", report.Text.WordCount),
		zap.Duration("duration", time.Since(start)))

	a.cacheMutex.Lock()
	if a.cache != nil {
		a.cache[cacheKey] = cacheEntry{report: report, timestamp: time.Now()}
		if len(a.cache) > a.maxCacheSize {
			a.cleanupLocked()
		}
	}
	a.cacheMutex.Unlock()

	return report
}

// GetStats returns the statistics storage instance
func (a *Analyzer) GetStats() *stats.Storage {
	return a.stats
}

// Shutdown stops background cleanup and drops cached reports
func (a *Analyzer) Shutdown() {
	if a == nil {
		return
	}
	a.stopOnce.Do(func() { close(a.stop) })

	a.cacheMutex.Lock()
	a.cache = nil
	a.cacheMutex.Unlock()
}
