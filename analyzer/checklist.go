package analyzer

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/cloudflare/ahocorasick"
)

// Check group names, in report order
const (
	GroupCore      = "Core SEO"
	GroupTechnical = "Technical"
	GroupTitle     = "Title Optimization"
	GroupContent   = "Content Quality"
)

// Scored rule names and their maximum points
const (
	RuleTitleKeyword   = "title_keyword"
	RuleKeywordDensity = "keyword_density"
	RuleSecondary      = "secondary_keywords"
	RuleContentLength  = "content_length"
	RuleMeta           = "meta_description"
	RuleURL            = "url_keyword"

	maxTotalScore = 100
)

var (
	powerWords = []string{
		"best", "top", "ultimate", "complete", "guide", "essential", "proven",
		"expert", "advanced", "professional", "master", "comprehensive",
	}
	actionWords = []string{
		"how", "why", "what", "when", "where", "learn", "discover", "build", "create", "improve",
	}
	transitionWords = []string{
		"however", "therefore", "furthermore", "moreover", "additionally", "consequently",
		"meanwhile", "nonetheless", "nevertheless", "thus", "hence", "accordingly",
		"for example", "in addition", "as a result",
	}

	powerMatcher  = newWordMatcher(powerWords)
	actionMatcher = newWordMatcher(actionWords)
	transitionRe  = regexp.MustCompile(`(?i)\b(?:` + strings.Join(transitionWords, "|") + `)\b`)
	digitRe       = regexp.MustCompile(`[0-9]`)
	titleTokenRe  = regexp.MustCompile(`[^a-z0-9]+`)
)

// wordMatcher finds whole dictionary words in a phrase with one Aho-Corasick pass
type wordMatcher struct {
	matcher *ahocorasick.Matcher
}

func newWordMatcher(words []string) *wordMatcher {
	padded := make([]string, len(words))
	for i, w := range words {
		padded[i] = " " + w + " "
	}
	return &wordMatcher{matcher: ahocorasick.NewStringMatcher(padded)}
}

// MatchAny reports whether any dictionary word occurs as a whole word in s
func (m *wordMatcher) MatchAny(s string) bool {
	tokens := strings.Fields(titleTokenRe.ReplaceAllString(strings.ToLower(s), " "))
	if len(tokens) == 0 {
		return false
	}
	haystack := " " + strings.Join(tokens, " ") + " "
	return len(m.matcher.MatchThreadSafe([]byte(haystack))) > 0
}

// ruleOutcome maps earned points onto a check status
func ruleOutcome(points, max int) Status {
	switch {
	case points >= max:
		return StatusGood
	case points > 0:
		return StatusWarning
	default:
		return StatusError
	}
}

type scoredCheck struct {
	rule    string
	max     int
	points  int
	message string
}

func scoreTitleKeyword(title, keyword string) scoredCheck {
	sc := scoredCheck{rule: RuleTitleKeyword, max: 25}
	title = strings.Join(strings.Fields(title), " ")
	re := keywordPattern(keyword)
	switch {
	case re == nil:
		sc.message = "Add a primary keyword to check its placement in the title"
	case title == "":
		sc.message = "Add a title that starts with your primary keyword"
	default:
		// matched on word boundaries, like keyword density
		loc := re.FindStringIndex(title)
		switch {
		case loc == nil:
			sc.message = "Primary keyword is missing from the title"
		case loc[0] == 0:
			sc.points = 25
			sc.message = "Primary keyword appears at the beginning of the title"
		default:
			sc.points = 20
			sc.message = "Primary keyword is in the title; move it to the beginning"
		}
	}
	return sc
}

func scoreKeywordUsage(kw KeywordAnalysis, keyword string, words int) scoredCheck {
	sc := scoredCheck{rule: RuleKeywordDensity, max: 20}
	if strings.TrimSpace(keyword) == "" {
		sc.message = "Add a primary keyword to measure keyword density"
		return sc
	}
	if words == 0 {
		sc.message = "Add content to measure keyword density"
		return sc
	}

	densityOK := kw.Density >= 0.5 && kw.Density <= 2.5
	distributionOK := kw.Distribution >= 30
	switch {
	case densityOK && distributionOK:
		sc.points = 20
		sc.message = fmt.Sprintf("Keyword density is %.1f%% and the keyword appears in %.0f%% of paragraphs", kw.Density, kw.Distribution)
	case densityOK:
		sc.points = 12
		sc.message = fmt.Sprintf("Keyword density is %.1f%%, but the keyword appears in only %.0f%% of paragraphs (aim for 30%%+)", kw.Density, kw.Distribution)
	case distributionOK:
		sc.points = 12
		sc.message = fmt.Sprintf("Keyword is well distributed, but density is %.1f%% (aim for 0.5-2.5%%)", kw.Density)
	default:
		sc.message = fmt.Sprintf("Keyword density is %.1f%% across %.0f%% of paragraphs (aim for 0.5-2.5%% in 30%%+ of paragraphs)", kw.Density, kw.Distribution)
	}
	return sc
}

func scoreSecondary(kw KeywordAnalysis, configured int) scoredCheck {
	sc := scoredCheck{rule: RuleSecondary, max: 15}
	if configured == 0 {
		sc.message = "Add secondary keywords to broaden topical coverage"
		return sc
	}
	switch {
	case kw.SecondaryRatio >= 0.7:
		sc.points = 15
	case kw.SecondaryRatio >= 0.4:
		sc.points = 10
	}
	sc.message = fmt.Sprintf("%d of %d secondary keywords used in the content", kw.SecondaryUsed, configured)
	return sc
}

func scoreContentLength(words int) scoredCheck {
	sc := scoredCheck{rule: RuleContentLength, max: 20}
	switch {
	case words == 0:
		sc.message = "Add content to your article"
		return sc
	case words >= 800 && words <= 2500:
		sc.points = 20
		sc.message = fmt.Sprintf("Content length is %d words, within the recommended 800-2500", words)
		return sc
	case words > 2500:
		sc.points = 12
		sc.message = fmt.Sprintf("Content is %d words; consider splitting articles over 2500 words", words)
		return sc
	case words >= 500:
		sc.points = 15
	case words >= 300:
		sc.points = 10
	}
	sc.message = fmt.Sprintf("Content length is %s (800-2500 recommended)", pluralWords(words))
	return sc
}

func pluralWords(n int) string {
	if n == 1 {
		return "1 word"
	}
	return fmt.Sprintf("%d words", n)
}

func scoreMeta(description, keyword string) scoredCheck {
	sc := scoredCheck{rule: RuleMeta, max: 10}
	length := utf8.RuneCountInString(description)
	lengthOK := length >= 120 && length <= 158
	keywordOK := ContainsKeyword(description, keyword)
	switch {
	case lengthOK && keywordOK:
		sc.points = 10
		sc.message = fmt.Sprintf("Meta description is %d characters and includes the primary keyword", length)
	case lengthOK:
		sc.points = 6
		sc.message = fmt.Sprintf("Meta description is %d characters but is missing the primary keyword", length)
	case keywordOK:
		sc.points = 6
		sc.message = fmt.Sprintf("Meta description includes the primary keyword but is %d characters (aim for 120-158)", length)
	default:
		sc.message = fmt.Sprintf("Meta description is %d characters without the primary keyword (aim for 120-158)", length)
	}
	return sc
}

func scoreURL(url, keyword string) scoredCheck {
	sc := scoredCheck{rule: RuleURL, max: 10}
	slug := keywordSlug(keyword)
	switch {
	case slug == "":
		sc.message = "Add a primary keyword to check the URL"
	case strings.Contains(strings.ToLower(url), slug):
		sc.points = 10
		sc.message = "URL contains the primary keyword"
	default:
		sc.message = "URL does not contain the primary keyword"
	}
	return sc
}

// technicalChecks inspects the document structure of the content
func technicalChecks(content, siteDomain string) []Check {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return []Check{{"Content markup could not be parsed", StatusError}}
	}

	var checks []Check

	switch h1 := doc.Find("h1").Length(); {
	case h1 == 1:
		checks = append(checks, Check{"One H1 heading found", StatusGood})
	case h1 == 0:
		checks = append(checks, Check{"Add an H1 heading", StatusError})
	default:
		checks = append(checks, Check{fmt.Sprintf("Multiple H1 headings found (%d); use only one", h1), StatusError})
	}

	switch h2 := doc.Find("h2").Length(); {
	case h2 >= 2:
		checks = append(checks, Check{fmt.Sprintf("%d H2 subheadings structure the content", h2), StatusGood})
	case h2 == 1:
		checks = append(checks, Check{"Only one H2 subheading; add more to structure the content", StatusWarning})
	default:
		checks = append(checks, Check{"Add H2 subheadings to structure the content", StatusError})
	}

	internal, external := 0, 0
	domain := strings.ToLower(strings.TrimSpace(siteDomain))
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.ToLower(strings.TrimSpace(s.AttrOr("href", "")))
		if (domain != "" && strings.Contains(href, domain)) ||
			(strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "//")) {
			internal++
		} else {
			external++
		}
	})
	if total := internal + external; total >= 3 {
		checks = append(checks, Check{fmt.Sprintf("%d links (%d internal, %d external)", total, internal, external), StatusGood})
	} else {
		checks = append(checks, Check{fmt.Sprintf("Only %d links (%d internal, %d external); add at least 3", total, internal, external), StatusError})
	}

	images := doc.Find("img")
	if total := images.Length(); total > 0 {
		missing := 0
		images.Each(func(_ int, s *goquery.Selection) {
			if strings.TrimSpace(s.AttrOr("alt", "")) == "" {
				missing++
			}
		})
		if missing == 0 {
			checks = append(checks, Check{"All images have alt text", StatusGood})
		} else {
			checks = append(checks, Check{fmt.Sprintf("%d of %d images are missing alt text", missing, total), StatusError})
		}
	}

	return checks
}

func titleChecks(title string) []Check {
	title = strings.TrimSpace(title)
	length := utf8.RuneCountInString(title)

	var checks []Check
	switch {
	case length == 0:
		checks = append(checks, Check{"Add a title (50-60 characters)", StatusError})
	case length >= 50 && length <= 60:
		checks = append(checks, Check{fmt.Sprintf("Title length is %d characters", length), StatusGood})
	case length >= 40 && length <= 70:
		checks = append(checks, Check{fmt.Sprintf("Title length is %d characters (50-60 is ideal)", length), StatusWarning})
	default:
		checks = append(checks, Check{fmt.Sprintf("Title length is %d characters (aim for 50-60)", length), StatusError})
	}

	hook := digitRe.MatchString(title) || powerMatcher.MatchAny(title)
	action := actionMatcher.MatchAny(title)
	switch {
	case hook && action:
		checks = append(checks, Check{"Title uses a number or power word and an action word", StatusGood})
	case hook:
		checks = append(checks, Check{"Title has a number or power word; add an action word like how or learn", StatusWarning})
	case action:
		checks = append(checks, Check{"Title has an action word; add a number or power word like guide or best", StatusWarning})
	default:
		checks = append(checks, Check{"Add a number, power word or action word to the title", StatusError})
	}
	return checks
}

func contentChecks(m TextMetrics, r ReadabilityResult) []Check {
	if m.WordCount == 0 {
		return []Check{
			{"Add content to measure readability", StatusError},
			{"Add content to measure sentence length", StatusError},
			{"Add content to measure transition word usage", StatusError},
		}
	}

	checks := []Check{{
		Message: fmt.Sprintf("Readability is %s (%s), Flesch score %.1f", r.Level, r.GradeLabel, r.FleschScore),
		Status:  r.Status,
	}}

	avg := float64(m.WordCount) / float64(m.SentenceCount)
	if avg <= 20 {
		checks = append(checks, Check{fmt.Sprintf("Average sentence length is %.1f words", avg), StatusGood})
	} else {
		checks = append(checks, Check{fmt.Sprintf("Average sentence length is %.1f words; keep it under 20", avg), StatusError})
	}

	transitions := len(transitionRe.FindAllStringIndex(m.PlainText, -1))
	if float64(transitions)/float64(m.SentenceCount) >= 0.1 {
		checks = append(checks, Check{fmt.Sprintf("%d transition words connect your sentences", transitions), StatusGood})
	} else {
		checks = append(checks, Check{fmt.Sprintf("Only %d transition words; use more to connect ideas", transitions), StatusWarning})
	}
	return checks
}

// Evaluate runs the full pipeline with default options
func Evaluate(in Input) *Report {
	return EvaluateWithOptions(in, DefaultOptions())
}

// EvaluateWithOptions scores an article. It is a pure function of its
// arguments and never fails; missing input degrades to failing checks.
func EvaluateWithOptions(in Input, opts Options) *Report {
	in.PrimaryKeyword = strings.Join(strings.Fields(in.PrimaryKeyword), " ")
	in.SecondaryKeywords = NormalizeKeywords(in.SecondaryKeywords)
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}

	plain := NormalizeText(in.Content)
	paragraphs := SplitParagraphs(in.Content)

	metrics := MeasureText(plain)
	metrics.ParagraphCount = len(paragraphs)
	readability := AnalyzeReadability(metrics)
	keywords := AnalyzeKeywords(plain, paragraphs, in.PrimaryKeyword, in.SecondaryKeywords)
	preview := GeneratePreview(in, paragraphs, plain, opts)

	scored := []scoredCheck{
		scoreTitleKeyword(in.Title, in.PrimaryKeyword),
		scoreKeywordUsage(keywords, in.PrimaryKeyword, metrics.WordCount),
		scoreSecondary(keywords, len(in.SecondaryKeywords)),
		scoreContentLength(metrics.WordCount),
		scoreMeta(preview.Description, in.PrimaryKeyword),
		scoreURL(preview.URL, in.PrimaryKeyword),
	}

	report := &Report{
		Preview:     preview,
		Readability: readability,
		Keywords:    keywords,
		Text:        metrics,
	}

	core := CheckGroup{Name: GroupCore}
	total := 0
	for _, sc := range scored {
		total += sc.points
		report.Breakdown = append(report.Breakdown, RuleScore{Rule: sc.rule, Points: sc.points, Max: sc.max})
		core.Checks = append(core.Checks, Check{Message: sc.message, Status: ruleOutcome(sc.points, sc.max)})
	}
	report.Score = max(0, min(total, maxTotalScore))

	report.Groups = []CheckGroup{
		core,
		{Name: GroupTechnical, Checks: technicalChecks(in.Content, opts.SiteDomain)},
		{Name: GroupTitle, Checks: titleChecks(in.Title)},
		{Name: GroupContent, Checks: contentChecks(metrics, readability)},
	}
	return report
}
