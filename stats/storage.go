package stats

import (
	"sort"
	"sync"
	"time"
)

// MonthlyStats represents engine statistics for a specific month
type MonthlyStats struct {
	Analyses       int       `json:"analyses"`
	CacheHits      int       `json:"cache_hits"`
	CacheMisses    int       `json:"cache_misses"`
	ScoreTotal     int       `json:"-"`
	AverageScore   float64   `json:"average_score"`
	PerfectReports int       `json:"perfect_reports"`
	EmptyReports   int       `json:"empty_reports"`
	LastUpdated    time.Time `json:"last_updated"`
}

// Storage keeps monthly counters in memory. Nothing is written to disk.
type Storage struct {
	mutex sync.RWMutex
	stats map[string]*MonthlyStats // key: "YYYY-MM"
	now   func() time.Time
}

// NewStorage creates a new statistics storage instance
func NewStorage() *Storage {
	return &Storage{
		stats: make(map[string]*MonthlyStats),
		now:   time.Now,
	}
}

// monthKey returns the month key in YYYY-MM format
func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

// current returns the entry for the current month, creating it if needed.
// Caller must hold the write lock.
func (s *Storage) current() *MonthlyStats {
	month := monthKey(s.now())
	stats, exists := s.stats[month]
	if !exists {
		stats = &MonthlyStats{}
		s.stats[month] = stats
	}
	stats.LastUpdated = s.now()
	return stats
}

// IncrementStats increments the cache counters
func (s *Storage) IncrementStats(cacheHits, cacheMisses int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	stats := s.current()
	stats.CacheHits += cacheHits
	stats.CacheMisses += cacheMisses
}

// RecordAnalysis adds a computed report score to the current month
func (s *Storage) RecordAnalysis(score int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	stats := s.current()
	stats.Analyses++
	stats.ScoreTotal += score
	stats.AverageScore = float64(stats.ScoreTotal) / float64(stats.Analyses)
	switch score {
	case 100:
		stats.PerfectReports++
	case 0:
		stats.EmptyReports++
	}
}

// GetCurrentStats returns statistics for the current month
func (s *Storage) GetCurrentStats() MonthlyStats {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if stats, exists := s.stats[monthKey(s.now())]; exists {
		return *stats
	}
	return MonthlyStats{}
}

// Cleanup removes statistics older than the given number of months, keeping
// at least the current month
func (s *Storage) Cleanup(retainMonths int) {
	if retainMonths < 1 {
		retainMonths = 1
	}
	now := s.now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	keep := make(map[string]bool, retainMonths)
	for i := 0; i < retainMonths; i++ {
		keep[monthKey(first.AddDate(0, -i, 0))] = true
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	for key := range s.stats {
		if !keep[key] {
			delete(s.stats, key)
		}
	}
}

// GetMonthlyStats returns statistics for a specific month
func (s *Storage) GetMonthlyStats(yearMonth string) (MonthlyStats, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if stats, exists := s.stats[yearMonth]; exists {
		return *stats, true
	}
	return MonthlyStats{}, false
}

// GetAllMonths returns a sorted list of all months that have statistics
func (s *Storage) GetAllMonths() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	months := make([]string, 0, len(s.stats))
	for month := range s.stats {
		months = append(months, month)
	}

	// Newest first
	sort.Sort(sort.Reverse(sort.StringSlice(months)))

	return months
}
