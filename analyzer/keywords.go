package analyzer

import (
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// semanticSaturation caps how many occurrences of one secondary keyword count
// toward the semantic score
const semanticSaturation = 3

// keywordPattern compiles a case-insensitive matcher for a keyword. Special
// characters are escaped, inner whitespace matches any whitespace run and
// word-character edges are anchored on word boundaries.
func keywordPattern(keyword string) *regexp.Regexp {
	parts := strings.Fields(keyword)
	if len(parts) == 0 {
		return nil
	}
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	expr := strings.Join(parts, `\s+`)

	first, _ := utf8.DecodeRuneInString(parts[0])
	last, _ := utf8.DecodeLastRuneInString(parts[len(parts)-1])
	if isWordRune(first) {
		expr = `\b` + expr
	}
	if isWordRune(last) {
		expr += `\b`
	}

	re, err := regexp.Compile(`(?i)` + expr)
	if err != nil {
		return nil
	}
	return re
}

func isWordRune(r rune) bool {
	return r == '_' || (r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)))
}

// CountKeyword counts case-insensitive occurrences of keyword in text
func CountKeyword(text, keyword string) int {
	re := keywordPattern(keyword)
	if re == nil || text == "" {
		return 0
	}
	return len(re.FindAllStringIndex(text, -1))
}

// ContainsKeyword reports whether keyword occurs in text at least once
func ContainsKeyword(text, keyword string) bool {
	re := keywordPattern(keyword)
	return re != nil && re.MatchString(text)
}

// AnalyzeKeywords measures how the primary and secondary keywords are used
// across the normalized text and its paragraphs
func AnalyzeKeywords(plain string, paragraphs []string, primary string, secondary []string) KeywordAnalysis {
	result := KeywordAnalysis{}
	wordCount := len(strings.Fields(plain))

	if re := keywordPattern(primary); re != nil && wordCount > 0 {
		result.PrimaryCount = len(re.FindAllStringIndex(plain, -1))
		result.Density = float64(result.PrimaryCount) / float64(wordCount) * 100

		if len(paragraphs) > 0 {
			withKeyword := 0
			for _, p := range paragraphs {
				if re.MatchString(p) {
					withKeyword++
				}
			}
			result.Distribution = float64(withKeyword) / float64(len(paragraphs)) * 100
		}
	}

	if len(secondary) > 0 {
		semantic := 0.0
		for _, kw := range secondary {
			n := CountKeyword(plain, kw)
			result.SecondaryCount += n
			if n > 0 {
				result.SecondaryUsed++
			}
			semantic += float64(min(n, semanticSaturation)) / semanticSaturation
		}
		result.SecondaryRatio = float64(result.SecondaryUsed) / float64(len(secondary))
		result.SemanticScore = int(math.Round(semantic / float64(len(secondary)) * 100))
	}

	return result
}

// keywordSlug is the URL form of a keyword
func keywordSlug(keyword string) string {
	return strings.Join(strings.Fields(strings.ToLower(keyword)), "-")
}
