package analyzer

// Status is the outcome of a single check
type Status string

const (
	StatusGood    Status = "good"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

// Input is everything the engine needs to score an article
type Input struct {
	Title             string   `json:"title" yaml:"title"`
	Content           string   `json:"content" yaml:"content"`
	PrimaryKeyword    string   `json:"primaryKeyword" yaml:"primary_keyword"`
	SecondaryKeywords []string `json:"secondaryKeywords" yaml:"secondary_keywords"`
	Override          *Preview `json:"override,omitempty" yaml:"override,omitempty"`
}

// Report represents the complete analysis of an article
type Report struct {
	Score       int               `json:"score"`
	Groups      []CheckGroup      `json:"groups"`
	Preview     Preview           `json:"preview"`
	Readability ReadabilityResult `json:"readability"`
	Keywords    KeywordAnalysis   `json:"keywords"`
	Text        TextMetrics       `json:"text"`
	Breakdown   []RuleScore       `json:"breakdown"`
}

// Group returns the named check group, or nil
func (r *Report) Group(name string) *CheckGroup {
	for i := range r.Groups {
		if r.Groups[i].Name == name {
			return &r.Groups[i]
		}
	}
	return nil
}

type Check struct {
	Message string `json:"message"`
	Status  Status `json:"status"`
}

type CheckGroup struct {
	Name   string  `json:"name"`
	Checks []Check `json:"checks"`
}

// Counts returns the number of good, warning and error checks in the group
func (g CheckGroup) Counts() (good, warning, failed int) {
	for _, c := range g.Checks {
		switch c.Status {
		case StatusGood:
			good++
		case StatusWarning:
			warning++
		default:
			failed++
		}
	}
	return good, warning, failed
}

// RuleScore is the contribution of one scored rule
type RuleScore struct {
	Rule   string `json:"rule"`
	Points int    `json:"points"`
	Max    int    `json:"max"`
}

type Preview struct {
	Title             string `json:"title" yaml:"title"`
	Description       string `json:"description" yaml:"description"`
	URL               string `json:"url" yaml:"url"`
	TitleLength       int    `json:"titleLength" yaml:"-"`
	DescriptionLength int    `json:"descriptionLength" yaml:"-"`
	Overridden        bool   `json:"overridden" yaml:"-"`
}

// ReadabilityLevel is a Flesch Reading Ease band
type ReadabilityLevel string

const (
	LevelVeryEasy        ReadabilityLevel = "Very Easy"
	LevelEasy            ReadabilityLevel = "Easy"
	LevelFairlyEasy      ReadabilityLevel = "Fairly Easy"
	LevelStandard        ReadabilityLevel = "Standard"
	LevelFairlyDifficult ReadabilityLevel = "Fairly Difficult"
	LevelDifficult       ReadabilityLevel = "Difficult"
	LevelVeryDifficult   ReadabilityLevel = "Very Difficult"
)

type ReadabilityResult struct {
	FleschScore float64          `json:"fleschScore"`
	Level       ReadabilityLevel `json:"level"`
	GradeLabel  string           `json:"gradeLabel"`
	Status      Status           `json:"status"`
}

// TextMetrics holds the lexical counts of the normalized text
type TextMetrics struct {
	PlainText         string  `json:"-"`
	WordCount         int     `json:"wordCount"`
	SentenceCount     int     `json:"sentenceCount"`
	SyllableCount     int     `json:"syllableCount"`
	ParagraphCount    int     `json:"paragraphCount"`
	AvgSentenceLength float64 `json:"avgSentenceLength"`
}

type KeywordAnalysis struct {
	Density        float64 `json:"density"`
	Distribution   float64 `json:"distribution"`
	PrimaryCount   int     `json:"primaryCount"`
	SecondaryCount int     `json:"secondaryCount"`
	SecondaryUsed  int     `json:"secondaryUsed"`
	SecondaryRatio float64 `json:"secondaryRatio"`
	// SemanticScore is reported for diagnostics and feeds no scored rule.
	SemanticScore int `json:"semanticScore"`
}
