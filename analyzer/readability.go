package analyzer

import (
	"math"
	"regexp"
	"strings"
)

var (
	sentenceSplitRe   = regexp.MustCompile(`[.!?]+`)
	nonLetterRe       = regexp.MustCompile(`[^a-z]`)
	inflectionRe      = regexp.MustCompile(`(?:[^laeiouy]es|ed|[^laeiouy]e)$`)
	leadingYRe        = regexp.MustCompile(`^y`)
	vowelRunRe        = regexp.MustCompile(`[aeiouy]+`)
	consonantLeRe     = regexp.MustCompile(`[^aeiouy]le$`)
	loneYConsonantsRe = regexp.MustCompile(`^[^aeiouy]*y[^aeiouy]*$`)
)

// readabilityBand maps a minimum Flesch score to its classification
type readabilityBand struct {
	min    float64
	level  ReadabilityLevel
	grade  string
	status Status
}

var readabilityBands = []readabilityBand{
	{90, LevelVeryEasy, "5th grade", StatusGood},
	{80, LevelEasy, "6th grade", StatusGood},
	{70, LevelFairlyEasy, "7th grade", StatusGood},
	{60, LevelStandard, "8th-9th grade", StatusWarning},
	{50, LevelFairlyDifficult, "10th-12th grade", StatusWarning},
	{30, LevelDifficult, "College", StatusError},
	{math.Inf(-1), LevelVeryDifficult, "College graduate", StatusError},
}

// CountSentences counts fragments between terminal punctuation that are long
// enough to be a sentence. Non-empty text always has at least one.
func CountSentences(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	count := 0
	for _, fragment := range sentenceSplitRe.Split(text, -1) {
		if len(strings.TrimSpace(fragment)) > 3 {
			count++
		}
	}
	if count == 0 {
		count = 1
	}
	return count
}

// CountSyllables estimates the syllables in a single English word
func CountSyllables(word string) int {
	word = nonLetterRe.ReplaceAllString(strings.ToLower(word), "")
	if len(word) <= 3 {
		return 1
	}

	word = inflectionRe.ReplaceAllString(word, "")
	word = leadingYRe.ReplaceAllString(word, "")

	count := len(vowelRunRe.FindAllString(word, -1))
	if consonantLeRe.MatchString(word) {
		count++
	}
	if strings.Count(word, "y") == 1 && loneYConsonantsRe.MatchString(word) {
		count++
	}
	if strings.HasSuffix(word, "e") && count > 1 {
		count--
	}
	if count < 1 {
		count = 1
	}
	return count
}

// FleschReadingEase computes the Flesch Reading Ease score, rounded to one
// decimal and clamped to [0,100]
func FleschReadingEase(words, sentences, syllables int) float64 {
	if words == 0 || sentences == 0 {
		return 0
	}
	score := 206.835 -
		1.015*(float64(words)/float64(sentences)) -
		84.6*(float64(syllables)/float64(words))
	score = math.Round(score*10) / 10
	return math.Max(0, math.Min(100, score))
}

// ClassifyReadability returns the level, grade and status for a Flesch score
func ClassifyReadability(score float64) ReadabilityResult {
	for _, band := range readabilityBands {
		if score >= band.min {
			return ReadabilityResult{
				FleschScore: score,
				Level:       band.level,
				GradeLabel:  band.grade,
				Status:      band.status,
			}
		}
	}
	// unreachable: the last band has no lower bound
	last := readabilityBands[len(readabilityBands)-1]
	return ReadabilityResult{FleschScore: score, Level: last.level, GradeLabel: last.grade, Status: last.status}
}

// MeasureText computes the lexical counts for already normalized text
func MeasureText(plain string) TextMetrics {
	words := strings.Fields(plain)
	metrics := TextMetrics{
		PlainText:     plain,
		WordCount:     len(words),
		SentenceCount: CountSentences(plain),
	}
	for _, w := range words {
		metrics.SyllableCount += CountSyllables(w)
	}
	if metrics.SentenceCount > 0 {
		metrics.AvgSentenceLength = math.Round(float64(metrics.WordCount)/float64(metrics.SentenceCount)*10) / 10
	}
	return metrics
}

// AnalyzeReadability scores the measured text
func AnalyzeReadability(m TextMetrics) ReadabilityResult {
	return ClassifyReadability(FleschReadingEase(m.WordCount, m.SentenceCount, m.SyllableCount))
}
