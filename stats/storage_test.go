package stats

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage(t *testing.T) {
	storage := NewStorage()

	t.Run("IncrementStats", func(t *testing.T) {
		storage.IncrementStats(1, 2)
		stats := storage.GetCurrentStats()

		assert.Equal(t, 1, stats.CacheHits)
		assert.Equal(t, 2, stats.CacheMisses)
	})

	t.Run("RecordAnalysis", func(t *testing.T) {
		storage.RecordAnalysis(100)
		storage.RecordAnalysis(0)
		storage.RecordAnalysis(50)
		stats := storage.GetCurrentStats()

		assert.Equal(t, 3, stats.Analyses)
		assert.Equal(t, 1, stats.PerfectReports)
		assert.Equal(t, 1, stats.EmptyReports)
		assert.InDelta(t, 50.0, stats.AverageScore, 0.001)
	})

	t.Run("Cleanup", func(t *testing.T) {
		oldMonth := time.Now().AddDate(0, -2, 0).Format("2006-01")
		storage.stats[oldMonth] = &MonthlyStats{Analyses: 100}

		storage.Cleanup(1)

		_, exists := storage.GetMonthlyStats(oldMonth)
		assert.False(t, exists, "old stats should have been cleaned up")
		assert.Equal(t, 3, storage.GetCurrentStats().Analyses)
	})

	t.Run("ConcurrentAccess", func(t *testing.T) {
		before := storage.GetCurrentStats()

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					storage.IncrementStats(1, 1)
					storage.GetCurrentStats()
				}
			}()
		}
		wg.Wait()

		stats := storage.GetCurrentStats()
		assert.Equal(t, before.CacheHits+1000, stats.CacheHits)
		assert.Equal(t, before.CacheMisses+1000, stats.CacheMisses)
	})
}

func TestGetAllMonths(t *testing.T) {
	storage := NewStorage()
	storage.stats["2025-01"] = &MonthlyStats{}
	storage.stats["2026-03"] = &MonthlyStats{}
	storage.stats["2025-11"] = &MonthlyStats{}

	months := storage.GetAllMonths()
	require.Len(t, months, 3)
	assert.Equal(t, []string{"2026-03", "2025-11", "2025-01"}, months)
}

func TestMonthRollover(t *testing.T) {
	storage := NewStorage()
	clock := time.Date(2026, 1, 31, 23, 0, 0, 0, time.UTC)
	storage.now = func() time.Time { return clock }

	storage.RecordAnalysis(40)
	clock = clock.Add(2 * time.Hour)
	storage.RecordAnalysis(80)

	jan, ok := storage.GetMonthlyStats("2026-01")
	require.True(t, ok)
	assert.Equal(t, 1, jan.Analyses)

	feb, ok := storage.GetMonthlyStats("2026-02")
	require.True(t, ok)
	assert.Equal(t, 1, feb.Analyses)
	assert.InDelta(t, 80.0, feb.AverageScore, 0.001)
}
