package analyzer

import (
	"errors"
	"fmt"
	"strings"
)

// MaxSecondaryKeywords is the most secondary keywords an article may carry
const MaxSecondaryKeywords = 5

var (
	ErrEmptyKeyword     = errors.New("keyword is empty")
	ErrKeywordLimit     = fmt.Errorf("at most %d secondary keywords allowed", MaxSecondaryKeywords)
	ErrDuplicateKeyword = errors.New("keyword already added")
)

// KeywordSet is an ordered, case-insensitively unique list of secondary keywords
type KeywordSet struct {
	keywords []string
}

// NewKeywordSet builds a set from an untrusted list, dropping what Add would reject
func NewKeywordSet(keywords ...string) *KeywordSet {
	s := &KeywordSet{}
	for _, kw := range keywords {
		_ = s.Add(kw)
	}
	return s
}

// Add appends a keyword, rejecting empty values, duplicates and overflow
func (s *KeywordSet) Add(keyword string) error {
	keyword = strings.Join(strings.Fields(keyword), " ")
	if keyword == "" {
		return ErrEmptyKeyword
	}
	if s.Contains(keyword) {
		return fmt.Errorf("%q: %w", keyword, ErrDuplicateKeyword)
	}
	if len(s.keywords) >= MaxSecondaryKeywords {
		return fmt.Errorf("%q: %w", keyword, ErrKeywordLimit)
	}
	s.keywords = append(s.keywords, keyword)
	return nil
}

// Remove deletes a keyword, reporting whether it was present
func (s *KeywordSet) Remove(keyword string) bool {
	keyword = strings.Join(strings.Fields(keyword), " ")
	for i, kw := range s.keywords {
		if strings.EqualFold(kw, keyword) {
			s.keywords = append(s.keywords[:i], s.keywords[i+1:]...)
			return true
		}
	}
	return false
}

func (s *KeywordSet) Contains(keyword string) bool {
	keyword = strings.Join(strings.Fields(keyword), " ")
	for _, kw := range s.keywords {
		if strings.EqualFold(kw, keyword) {
			return true
		}
	}
	return false
}

// List returns a copy of the keywords in insertion order
func (s *KeywordSet) List() []string {
	out := make([]string, len(s.keywords))
	copy(out, s.keywords)
	return out
}

func (s *KeywordSet) Len() int {
	return len(s.keywords)
}

// NormalizeKeywords trims, de-duplicates and caps a secondary keyword list
func NormalizeKeywords(keywords []string) []string {
	return NewKeywordSet(keywords...).List()
}
