package analyzer

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 130 characters, mentions the primary keyword
const reactHooksLead = "React Hooks let you use state and other React features in plain function components without writing a single class component here."

// filler is 144 words without any keyword
var filler = strings.TrimSpace(strings.Repeat("Teams ship small components and test them often. ", 18))

// reactHooksArticle builds a ~900 word article with the primary keyword used
// 8 times across 5 of its 6 body paragraphs, one H1, three H2s and four links.
func reactHooksArticle() string {
	var b strings.Builder
	b.WriteString("<h1>Getting Started</h1>\n")
	b.WriteString("<p>" + reactHooksLead + " " + filler + " Teams adopt React Hooks quickly.</p>\n")
	b.WriteString("<h2>State</h2>\n")
	b.WriteString("<p>React Hooks such as useState hold local state. " + filler + " React Hooks stay small.</p>\n")
	b.WriteString("<h2>Effects</h2>\n")
	b.WriteString("<p>Side effects belong in useEffect with React Hooks. " + filler + " Prefer React Hooks here.</p>\n")
	b.WriteString("<h2>Testing</h2>\n")
	b.WriteString("<p>Testing React Hooks needs a renderer. " + filler + "</p>\n")
	b.WriteString("<p>Custom React Hooks share logic. " + filler + "</p>\n")
	b.WriteString(`<p>Further reading: <a href="https://example.com/blog/state">state</a>, ` +
		`<a href="/blog/effects">effects</a>, <a href="https://react.dev">docs</a> and ` +
		`<a href="https://github.com/facebook/react">source</a>. ` + filler + "</p>\n")
	return b.String()
}

func reactHooksInput() Input {
	return Input{
		Title:             "React Hooks",
		Content:           reactHooksArticle(),
		PrimaryKeyword:    "React Hooks",
		SecondaryKeywords: []string{"useState", "useEffect"},
	}
}

func breakdown(r *Report) map[string]int {
	out := make(map[string]int, len(r.Breakdown))
	for _, rs := range r.Breakdown {
		out[rs.Rule] = rs.Points
	}
	return out
}

func statuses(g *CheckGroup) []Status {
	out := make([]Status, len(g.Checks))
	for i, c := range g.Checks {
		out[i] = c.Status
	}
	return out
}

func TestScenarioWellOptimizedArticle(t *testing.T) {
	report := Evaluate(reactHooksInput())

	require.Equal(t, 8, report.Keywords.PrimaryCount)
	require.GreaterOrEqual(t, report.Text.WordCount, 800)
	require.LessOrEqual(t, report.Text.WordCount, 2500)
	require.Equal(t, reactHooksLead, report.Preview.Description)
	require.Equal(t, 130, report.Preview.DescriptionLength)

	points := breakdown(report)
	assert.Equal(t, 25, points[RuleTitleKeyword])
	assert.Equal(t, 20, points[RuleKeywordDensity])
	assert.Equal(t, 15, points[RuleSecondary])
	assert.Equal(t, 20, points[RuleContentLength])
	assert.Equal(t, 10, points[RuleMeta])
	assert.Equal(t, 10, points[RuleURL])
	assert.Contains(t, report.Preview.URL, "react-hooks")
	assert.Equal(t, 100, report.Score)

	core := report.Group(GroupCore)
	require.NotNil(t, core)
	assert.Equal(t, []Status{StatusGood, StatusGood, StatusGood, StatusGood, StatusGood, StatusGood}, statuses(core))

	technical := report.Group(GroupTechnical)
	require.NotNil(t, technical)
	assert.Equal(t, []Status{StatusGood, StatusGood, StatusGood}, statuses(technical))
	assert.Equal(t, "4 links (2 internal, 2 external)", technical.Checks[2].Message)
}

func TestScenarioEmptyArticle(t *testing.T) {
	var report *Report
	require.NotPanics(t, func() { report = Evaluate(Input{}) })

	assert.Equal(t, 0, report.Score)
	for _, rs := range report.Breakdown {
		assert.Zero(t, rs.Points, rs.Rule)
	}

	require.Len(t, report.Groups, 4)
	for _, g := range report.Groups {
		require.NotEmpty(t, g.Checks, g.Name)
		for _, c := range g.Checks {
			assert.Equal(t, StatusError, c.Status, "%s: %s", g.Name, c.Message)
		}
	}

	core := report.Group(GroupCore)
	assert.Contains(t, core.Checks[0].Message, "Add a primary keyword")
	assert.Contains(t, core.Checks[3].Message, "Add content")

	assert.Equal(t, PlaceholderTitle, report.Preview.Title)
	assert.Equal(t, FallbackDescription, report.Preview.Description)
	assert.Equal(t, DefaultBaseURL+PlaceholderSlug, report.Preview.URL)
}

func TestGroupOrder(t *testing.T) {
	report := Evaluate(reactHooksInput())
	names := make([]string, len(report.Groups))
	for i, g := range report.Groups {
		names[i] = g.Name
	}
	assert.Equal(t, []string{GroupCore, GroupTechnical, GroupTitle, GroupContent}, names)

	rules := make([]string, len(report.Breakdown))
	for i, rs := range report.Breakdown {
		rules[i] = rs.Rule
	}
	assert.Equal(t, []string{RuleTitleKeyword, RuleKeywordDensity, RuleSecondary, RuleContentLength, RuleMeta, RuleURL}, rules)
}

func TestEvaluateIsIdempotent(t *testing.T) {
	in := reactHooksInput()
	first := Evaluate(in)
	second := Evaluate(in)
	assert.True(t, reflect.DeepEqual(first, second))
}

func TestTitleKeywordMonotonicity(t *testing.T) {
	in := reactHooksInput()

	in.Title = "A Complete Guide"
	assert.Equal(t, 0, breakdown(Evaluate(in))[RuleTitleKeyword])

	in.Title = "A Complete Guide to React Hooks"
	assert.Equal(t, 20, breakdown(Evaluate(in))[RuleTitleKeyword])

	in.Title = "React Hooks: A Complete Guide"
	assert.Equal(t, 25, breakdown(Evaluate(in))[RuleTitleKeyword])
}

func TestScoreTitleKeyword(t *testing.T) {
	tests := []struct {
		title, keyword string
		points         int
	}{
		{"react hooks guide", "React Hooks", 25},
		{"  REACT   HOOKS guide", "react hooks", 25},
		{"Guide to react hooks", "React Hooks", 20},
		{"Guide to React", "React Hooks", 0},
		{"", "React Hooks", 0},
		{"React Hooks", "", 0},
		{"React Hooks: A Complete Guide", "React Hooks", 25},
		{"Reactive Patterns", "React", 0},
		{"Patterns for Reactive apps", "React", 0},
		{"Reactive apps built with React", "React", 20},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.points, scoreTitleKeyword(tt.title, tt.keyword).points, "%q / %q", tt.title, tt.keyword)
	}
}

func TestScoreKeywordUsage(t *testing.T) {
	tests := []struct {
		name         string
		density      float64
		distribution float64
		points       int
	}{
		{"both", 1.2, 45, 20},
		{"lower density bound", 0.5, 30, 20},
		{"upper density bound", 2.5, 30, 20},
		{"density only", 1.0, 10, 12},
		{"distribution only", 4.0, 80, 12},
		{"neither", 0.1, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kw := KeywordAnalysis{Density: tt.density, Distribution: tt.distribution}
			assert.Equal(t, tt.points, scoreKeywordUsage(kw, "go", 500).points)
		})
	}

	assert.Zero(t, scoreKeywordUsage(KeywordAnalysis{Density: 1, Distribution: 50}, "", 500).points)
	assert.Zero(t, scoreKeywordUsage(KeywordAnalysis{}, "go", 0).points)
}

func TestScoreSecondary(t *testing.T) {
	assert.Equal(t, 15, scoreSecondary(KeywordAnalysis{SecondaryRatio: 0.8, SecondaryUsed: 4}, 5).points)
	assert.Equal(t, 15, scoreSecondary(KeywordAnalysis{SecondaryRatio: 0.7}, 10).points)
	assert.Equal(t, 10, scoreSecondary(KeywordAnalysis{SecondaryRatio: 0.4}, 5).points)
	assert.Equal(t, 0, scoreSecondary(KeywordAnalysis{SecondaryRatio: 0.2}, 5).points)

	none := scoreSecondary(KeywordAnalysis{}, 0)
	assert.Zero(t, none.points)
	assert.Contains(t, none.message, "Add secondary keywords")
}

func TestScoreContentLength(t *testing.T) {
	tests := []struct {
		words  int
		points int
	}{
		{0, 0},
		{299, 0},
		{300, 10},
		{499, 10},
		{500, 15},
		{799, 15},
		{800, 20},
		{2500, 20},
		{2501, 12},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.words), func(t *testing.T) {
			assert.Equal(t, tt.points, scoreContentLength(tt.words).points)
		})
	}

	t.Run("messages", func(t *testing.T) {
		assert.Equal(t, "Content length is 1 word (800-2500 recommended)", scoreContentLength(1).message)
		assert.Equal(t, "Content length is 450 words (800-2500 recommended)", scoreContentLength(450).message)
		assert.Equal(t, "Content length is 1200 words, within the recommended 800-2500", scoreContentLength(1200).message)
	})
}

func TestCustomElementsDoNotTruncateContent(t *testing.T) {
	paragraph := "<p>React Hooks keep component state simple and readable in every modern app you build.</p>"
	in := Input{
		Title:          "React Hooks",
		Content:        "<h1>Guide</h1><p>Use the <style-switcher> widget.</p>" + strings.Repeat(paragraph, 60),
		PrimaryKeyword: "React Hooks",
	}

	report := Evaluate(in)
	assert.Equal(t, 844, report.Text.WordCount)
	assert.Equal(t, 62, report.Text.ParagraphCount)
	assert.Equal(t, 60, report.Keywords.PrimaryCount)
	assert.Equal(t, 20, breakdown(report)[RuleContentLength])
}

func TestScoreMeta(t *testing.T) {
	withKeyword := "Go " + strings.Repeat("x", 117) // 120 chars
	tooLong := "Go " + strings.Repeat("x", 156)     // 159 chars
	withoutKeyword := strings.Repeat("y", 130)

	assert.Equal(t, 10, scoreMeta(withKeyword, "go").points)
	assert.Equal(t, 6, scoreMeta(tooLong, "go").points)
	assert.Equal(t, 6, scoreMeta(withoutKeyword, "go").points)
	assert.Equal(t, 0, scoreMeta("short", "go").points)
	assert.Equal(t, 6, scoreMeta(withoutKeyword, "").points)
}

func TestScoreURL(t *testing.T) {
	assert.Equal(t, 10, scoreURL("https://example.com/blog/react-hooks-guide", "React Hooks").points)
	assert.Equal(t, 0, scoreURL("https://example.com/blog/react-guide", "React Hooks").points)
	assert.Equal(t, 0, scoreURL("https://example.com/blog/anything", "").points)
}

func TestOverrideFeedsScoredRules(t *testing.T) {
	in := reactHooksInput()
	in.Override = &Preview{
		URL:         "https://example.com/blog/unrelated",
		Description: "Too short.",
	}
	report := Evaluate(in)
	points := breakdown(report)
	assert.Equal(t, 0, points[RuleURL])
	assert.Equal(t, 0, points[RuleMeta])
	assert.Equal(t, 80, report.Score)
	assert.True(t, report.Preview.Overridden)
}

func TestTechnicalChecks(t *testing.T) {
	t.Run("heading and link problems", func(t *testing.T) {
		checks := technicalChecks(`<h1>a</h1><h1>b</h1><h2>c</h2><a href="https://other.org">x</a>`, "example.com")
		require.Len(t, checks, 3)
		assert.Equal(t, StatusError, checks[0].Status)
		assert.Contains(t, checks[0].Message, "Multiple H1")
		assert.Equal(t, StatusWarning, checks[1].Status)
		assert.Equal(t, StatusError, checks[2].Status)
		assert.Equal(t, "Only 1 links (0 internal, 1 external); add at least 3", checks[2].Message)
	})

	t.Run("images without alt", func(t *testing.T) {
		checks := technicalChecks(`<img src="a.png" alt="A chart"><img src="b.png" alt="  "><img src="c.png">`, "example.com")
		require.Len(t, checks, 4)
		assert.Equal(t, StatusError, checks[3].Status)
		assert.Equal(t, "2 of 3 images are missing alt text", checks[3].Message)
	})

	t.Run("images with alt", func(t *testing.T) {
		checks := technicalChecks(`<img src="a.png" alt="A chart">`, "example.com")
		require.Len(t, checks, 4)
		assert.Equal(t, StatusGood, checks[3].Status)
	})

	t.Run("no images skips alt check", func(t *testing.T) {
		assert.Len(t, technicalChecks("<p>text</p>", "example.com"), 3)
	})
}

func TestTitleChecks(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected []Status
	}{
		{"ideal", "How to Build the Ultimate Go Service in 10 Simple Steps", []Status{StatusGood, StatusGood}},
		{"acceptable length, hook only", "The Essential Guide to Go Services Today", []Status{StatusWarning, StatusWarning}},
		{"action only", "Learn Go", []Status{StatusError, StatusWarning}},
		{"digit counts as hook", "Why 7 teams moved to Go", []Status{StatusError, StatusGood}},
		{"words must be whole", "Showcase of bestsellers", []Status{StatusError, StatusError}},
		{"empty", "", []Status{StatusError, StatusError}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checks := titleChecks(tt.title)
			got := make([]Status, len(checks))
			for i, c := range checks {
				got[i] = c.Status
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestContentChecks(t *testing.T) {
	t.Run("long sentences and no transitions", func(t *testing.T) {
		text := strings.Repeat("word ", 30) + "end."
		m := MeasureText(text)
		checks := contentChecks(m, AnalyzeReadability(m))
		require.Len(t, checks, 3)
		assert.Equal(t, StatusError, checks[1].Status)
		assert.Equal(t, StatusWarning, checks[2].Status)
	})

	t.Run("short sentences with transitions", func(t *testing.T) {
		text := "The plan worked well. However, costs rose fast. As a result, we cut scope. Thus it shipped."
		m := MeasureText(text)
		checks := contentChecks(m, AnalyzeReadability(m))
		require.Len(t, checks, 3)
		assert.Equal(t, StatusGood, checks[1].Status)
		assert.Equal(t, StatusGood, checks[2].Status)
		assert.Equal(t, "3 transition words connect your sentences", checks[2].Message)
	})
}

func TestScoreIsClamped(t *testing.T) {
	inputs := []Input{
		{},
		reactHooksInput(),
		{Title: "((((", Content: "<<<>>>&&&;;;", PrimaryKeyword: "[", SecondaryKeywords: []string{"*", "+", "?"}},
		{Title: strings.Repeat("long ", 200), Content: strings.Repeat("<p>text</p>", 500), PrimaryKeyword: "text"},
	}
	for _, in := range inputs {
		report := Evaluate(in)
		assert.GreaterOrEqual(t, report.Score, 0)
		assert.LessOrEqual(t, report.Score, 100)
	}
}
