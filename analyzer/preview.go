package analyzer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	maxSlugLength        = 60
	maxDescriptionLength = 155
	descriptionCutLength = 152
	minDescriptionChars  = 30
	fallbackExcerptWords = 25
	PlaceholderSlug      = "your-article-slug"
	PlaceholderTitle     = "Your Article Title"
	FallbackDescription  = "Add content to your article to generate a meta description for search results."
)

var (
	slugStripRe     = regexp.MustCompile(`[^\w\s-]`)
	slugSpaceRe     = regexp.MustCompile(`\s+`)
	slugHyphenRe    = regexp.MustCompile(`-+`)
	sentenceChunkRe = regexp.MustCompile(`[^.!?]+[.!?]*`)
)

// Slugify derives a lower-case, hyphenated URL path segment from a title
func Slugify(title string) string {
	s := transliterate(strings.ToLower(title))
	s = slugStripRe.ReplaceAllString(s, "")
	s = slugSpaceRe.ReplaceAllString(strings.TrimSpace(s), "-")
	s = slugHyphenRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLength {
		s = strings.TrimRight(s[:maxSlugLength], "-")
	}
	return s
}

// transliterate folds accented letters to their ASCII base
func transliterate(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}

// truncateDescription cuts anything longer than a search snippet
func truncateDescription(s string) string {
	if utf8.RuneCountInString(s) <= maxDescriptionLength {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:descriptionCutLength])) + "..."
}

// splitSentences returns the sentences of a normalized paragraph with their punctuation
func splitSentences(paragraph string) []string {
	var sentences []string
	for _, chunk := range sentenceChunkRe.FindAllString(paragraph, -1) {
		if s := strings.TrimSpace(chunk); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// GenerateDescription picks the first substantial sentence that mentions a
// keyword, falling back to an excerpt of the opening words
func GenerateDescription(paragraphs []string, plain, primary string, secondary []string) string {
	if strings.TrimSpace(plain) == "" {
		return FallbackDescription
	}

	keywords := make([]*regexp.Regexp, 0, len(secondary)+1)
	for _, kw := range append([]string{primary}, secondary...) {
		if re := keywordPattern(kw); re != nil {
			keywords = append(keywords, re)
		}
	}

	for _, p := range paragraphs {
		for _, sentence := range splitSentences(p) {
			if utf8.RuneCountInString(sentence) <= minDescriptionChars {
				continue
			}
			for _, re := range keywords {
				if re.MatchString(sentence) {
					return truncateDescription(sentence)
				}
			}
		}
	}

	words := strings.Fields(plain)
	if len(words) > fallbackExcerptWords {
		words = words[:fallbackExcerptWords]
	}
	excerpt := strings.Join(words, " ")
	if primary = strings.TrimSpace(primary); primary != "" && !ContainsKeyword(excerpt, primary) {
		excerpt = primary + " - " + excerpt
	}
	return truncateDescription(excerpt)
}

// GenerateURL joins the base path and the title slug
func GenerateURL(title, baseURL string) string {
	slug := Slugify(title)
	if slug == "" {
		slug = PlaceholderSlug
	}
	return baseURL + slug
}

// GeneratePreview builds the search-result preview, honoring a manual override
func GeneratePreview(in Input, paragraphs []string, plain string, opts Options) Preview {
	preview := Preview{
		Title:       strings.TrimSpace(in.Title),
		Description: GenerateDescription(paragraphs, plain, in.PrimaryKeyword, in.SecondaryKeywords),
		URL:         GenerateURL(in.Title, opts.BaseURL),
	}
	if preview.Title == "" {
		preview.Title = PlaceholderTitle
	}

	if o := in.Override; o != nil {
		if t := strings.TrimSpace(o.Title); t != "" {
			preview.Title = t
			preview.Overridden = true
		}
		if d := strings.TrimSpace(o.Description); d != "" {
			preview.Description = d
			preview.Overridden = true
		}
		if u := strings.TrimSpace(o.URL); u != "" {
			preview.URL = u
			preview.Overridden = true
		}
	}

	preview.TitleLength = utf8.RuneCountInString(preview.Title)
	preview.DescriptionLength = utf8.RuneCountInString(preview.Description)
	return preview
}
