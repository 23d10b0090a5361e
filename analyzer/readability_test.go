package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountSentences(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{"empty", "", 0},
		{"whitespace", "   ", 0},
		{"no terminator", "just some words", 1},
		{"three sentences", "First one here. Second one here! Third one here?", 3},
		{"punctuation runs", "Wait... What?! Really.", 3},
		{"short fragments ignored", "Hi. Ok. This one counts.", 1},
		{"only short fragments floors at one", "Hi. Ok.", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CountSentences(tt.text))
		})
	}
}

func TestCountSyllables(t *testing.T) {
	tests := []struct {
		word     string
		expected int
	}{
		{"the", 1},
		{"cat", 1},
		{"hello", 2},
		{"table", 2},
		{"cake", 1},
		{"beautiful", 3},
		{"rhythm", 2},
		{"making", 2},
		{"Yellow", 2},
		{"don't", 1},
		{"2025", 1},
		{"", 1},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			assert.Equal(t, tt.expected, CountSyllables(tt.word))
		})
	}
}

func TestFleschReadingEase(t *testing.T) {
	t.Run("zero words", func(t *testing.T) {
		assert.Equal(t, 0.0, FleschReadingEase(0, 1, 0))
	})

	t.Run("zero sentences", func(t *testing.T) {
		assert.Equal(t, 0.0, FleschReadingEase(10, 0, 12))
	})

	t.Run("clamped to 100", func(t *testing.T) {
		assert.Equal(t, 100.0, FleschReadingEase(6, 1, 6))
	})

	t.Run("clamped to 0", func(t *testing.T) {
		assert.Equal(t, 0.0, FleschReadingEase(100, 1, 400))
	})

	t.Run("rounded to one decimal", func(t *testing.T) {
		// 206.835 - 1.015*10 - 84.6*1.5 = 69.785
		assert.Equal(t, 69.8, FleschReadingEase(20, 2, 30))
	})
}

func TestClassifyReadability(t *testing.T) {
	tests := []struct {
		score  float64
		level  ReadabilityLevel
		grade  string
		status Status
	}{
		{100, LevelVeryEasy, "5th grade", StatusGood},
		{90.0, LevelVeryEasy, "5th grade", StatusGood},
		{89.9, LevelEasy, "6th grade", StatusGood},
		{80, LevelEasy, "6th grade", StatusGood},
		{79.9, LevelFairlyEasy, "7th grade", StatusGood},
		{70, LevelFairlyEasy, "7th grade", StatusGood},
		{65, LevelStandard, "8th-9th grade", StatusWarning},
		{55, LevelFairlyDifficult, "10th-12th grade", StatusWarning},
		{30, LevelDifficult, "College", StatusError},
		{29.9, LevelVeryDifficult, "College graduate", StatusError},
		{0, LevelVeryDifficult, "College graduate", StatusError},
	}

	for _, tt := range tests {
		got := ClassifyReadability(tt.score)
		assert.Equal(t, tt.level, got.Level, "score %.1f", tt.score)
		assert.Equal(t, tt.grade, got.GradeLabel, "score %.1f", tt.score)
		assert.Equal(t, tt.status, got.Status, "score %.1f", tt.score)
		assert.Equal(t, tt.score, got.FleschScore)
	}
}

// sentence builds a sentence of one-syllable and two-syllable words
func sentence(short, long int) string {
	words := append(strings.Fields(strings.Repeat("cat ", short)), strings.Fields(strings.Repeat("water ", long))...)
	return strings.Join(words, " ") + ". "
}

func TestReadabilityBoundaryFromText(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		words     int
		syllables int
		score     float64
		level     ReadabilityLevel
	}{
		// 206.835 - 1.015*14.5 - 84.6*35/29 = 90.014
		{"exactly very easy", sentence(12, 3) + sentence(11, 3), 29, 35, 90.0, LevelVeryEasy},
		// 206.835 - 1.015*14 - 84.6*34/28 = 89.896
		{"just below very easy", sentence(11, 3) + sentence(11, 3), 28, 34, 89.9, LevelEasy},
		// 206.835 - 1.015*10 - 84.6*1 = 112.085, clamped
		{"clamped to 100", strings.Repeat("The cat sat on the mat and the dog ran. ", 2), 20, 20, 100.0, LevelVeryEasy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := MeasureText(NormalizeText(tt.text))
			require.Equal(t, tt.words, m.WordCount)
			require.Equal(t, 2, m.SentenceCount)
			require.Equal(t, tt.syllables, m.SyllableCount)

			r := AnalyzeReadability(m)
			assert.Equal(t, tt.score, r.FleschScore)
			assert.Equal(t, tt.level, r.Level)
		})
	}
}

func TestMeasureText(t *testing.T) {
	m := MeasureText("")
	assert.Equal(t, 0, m.WordCount)
	assert.Equal(t, 0, m.SentenceCount)
	assert.Equal(t, 0.0, m.AvgSentenceLength)

	m = MeasureText("One two three four. Five six seven eight nine ten.")
	assert.Equal(t, 10, m.WordCount)
	assert.Equal(t, 2, m.SentenceCount)
	assert.Equal(t, 5.0, m.AvgSentenceLength)
}
