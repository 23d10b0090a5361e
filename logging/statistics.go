package logging

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// Statistics represents the collected request statistics. Everything is kept
// in memory and lost on restart.
type Statistics struct {
	UniqueVisitors   map[string]time.Time `json:"uniqueVisitors"`   // IP -> Last Visit Time
	AnalysisRequests int                  `json:"analysisRequests"` // Total number of analysis requests
	ErrorCount       int                  `json:"errorCount"`       // Number of failed analysis requests
	PopularKeywords  map[string]int       `json:"popularKeywords"`  // Primary keyword -> Count
	AverageLoadTime  float64              `json:"averageLoadTime"`  // Average load time in milliseconds
	TotalLoadTime    float64              `json:"-"`                // Used to calculate average
	RequestCount     int                  `json:"-"`                // Used to calculate average
	StartedAt        time.Time            `json:"startedAt"`
	devMode          bool
	now              func() time.Time
	mutex            sync.RWMutex
}

// NewStatistics creates empty statistics. In dev mode GetStatistics also
// exposes the most popular keywords.
func NewStatistics(devMode bool) *Statistics {
	return &Statistics{
		UniqueVisitors:  make(map[string]time.Time),
		PopularKeywords: make(map[string]int),
		StartedAt:       time.Now(),
		devMode:         devMode,
		now:             time.Now,
	}
}

// TrackVisitor records a unique visitor
func (s *Statistics) TrackVisitor(ip string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.UniqueVisitors[ip] = s.now()
}

// cleanKeyword folds case and whitespace so variants count together
func cleanKeyword(keyword string) string {
	return strings.ToLower(strings.Join(strings.Fields(keyword), " "))
}

// TrackAnalysis records an analysis request
func (s *Statistics) TrackAnalysis(primaryKeyword string, loadTime float64, hasError bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.AnalysisRequests++

	if keyword := cleanKeyword(primaryKeyword); keyword != "" {
		s.PopularKeywords[keyword]++
	}

	if hasError {
		s.ErrorCount++
	}

	// Update average load time
	s.TotalLoadTime += loadTime
	s.RequestCount++
	s.AverageLoadTime = s.TotalLoadTime / float64(s.RequestCount)
}

// GetUniqueVisitorsCount returns the number of unique visitors in the last 24 hours
func (s *Statistics) GetUniqueVisitorsCount() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.uniqueVisitorsLocked()
}

func (s *Statistics) uniqueVisitorsLocked() int {
	count := 0
	cutoff := s.now().Add(-24 * time.Hour)

	for _, lastVisit := range s.UniqueVisitors {
		if lastVisit.After(cutoff) {
			count++
		}
	}

	return count
}

// PruneVisitors forgets visitors not seen in the last 24 hours
func (s *Statistics) PruneVisitors() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cutoff := s.now().Add(-24 * time.Hour)
	removed := 0
	for ip, lastVisit := range s.UniqueVisitors {
		if !lastVisit.After(cutoff) {
			delete(s.UniqueVisitors, ip)
			removed++
		}
	}
	return removed
}

// KeywordCount is a keyword and how often it was analyzed
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// GetPopularKeywords returns the top N most analyzed primary keywords
func (s *Statistics) GetPopularKeywords(n int) []KeywordCount {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.popularKeywordsLocked(n)
}

func (s *Statistics) popularKeywordsLocked(n int) []KeywordCount {
	result := make([]KeywordCount, 0, len(s.PopularKeywords))
	for keyword, freq := range s.PopularKeywords {
		result = append(result, KeywordCount{Keyword: keyword, Count: freq})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Keyword < result[j].Keyword
	})
	if n >= 0 && len(result) > n {
		result = result[:n]
	}
	return result
}

// GetErrorRate returns the error rate as a percentage
func (s *Statistics) GetErrorRate() float64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.errorRateLocked()
}

func (s *Statistics) errorRateLocked() float64 {
	if s.AnalysisRequests == 0 {
		return 0
	}
	return (float64(s.ErrorCount) / float64(s.AnalysisRequests)) * 100
}

// GetStatistics returns a copy of the current statistics. Keyword popularity
// is only included in development mode.
func (s *Statistics) GetStatistics() map[string]interface{} {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	result := map[string]interface{}{
		"uniqueVisitors24h": s.uniqueVisitorsLocked(),
		"totalRequests":     s.AnalysisRequests,
		"errorRate":         s.errorRateLocked(),
		"averageLoadTime":   s.AverageLoadTime,
		"uptime":            s.now().Sub(s.StartedAt).Round(time.Second).String(),
	}

	if s.devMode {
		result["popularKeywords"] = s.popularKeywordsLocked(5) // Top 5 keywords only shown in dev mode
	}

	return result
}
