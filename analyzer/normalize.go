package analyzer

import (
	"regexp"
	"strings"
)

var (
	// Tag names end at whitespace, '/' or '>' so custom elements such as
	// <style-switcher> are treated as ordinary tags.
	scriptBlockRe = regexp.MustCompile(`(?is)<script(?:[\s/][^>]*)?>.*?</script\s*>`)
	styleBlockRe  = regexp.MustCompile(`(?is)<style(?:[\s/][^>]*)?>.*?</style\s*>`)
	// Unterminated blocks swallow the rest of the document.
	openScriptRe = regexp.MustCompile(`(?is)<(?:script|style)(?:[\s/>]|$).*$`)
	tagRe        = regexp.MustCompile(`<[^>]*>`)
	entityRe     = regexp.MustCompile(`&(#[0-9]+|#[xX][0-9a-fA-F]+|[a-zA-Z][a-zA-Z0-9]*);`)
	spaceRe      = regexp.MustCompile(`\s+`)

	blockBoundaryRe = regexp.MustCompile(`(?i)<\s*(/\s*)?(p|div|h[1-6]|li|ul|ol|blockquote|pre|section|article|header|footer|table|tr)\b[^>]*>|<\s*br\s*/?\s*>`)
	blankLineRe     = regexp.MustCompile(`\n\s*\n`)
)

// stripBlocks removes script and style elements together with their payload
func stripBlocks(markup string) string {
	markup = scriptBlockRe.ReplaceAllString(markup, " ")
	markup = styleBlockRe.ReplaceAllString(markup, " ")
	return openScriptRe.ReplaceAllString(markup, " ")
}

// NormalizeText flattens markup into plain analyzable text
func NormalizeText(markup string) string {
	if markup == "" {
		return ""
	}
	text := stripBlocks(markup)
	text = tagRe.ReplaceAllString(text, " ")
	text = entityRe.ReplaceAllString(text, " ")
	text = spaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// SplitParagraphs breaks markup into normalized paragraphs. Block-level tags and
// blank lines both end a paragraph; empty paragraphs are dropped.
func SplitParagraphs(markup string) []string {
	if strings.TrimSpace(markup) == "" {
		return nil
	}
	text := stripBlocks(markup)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = blockBoundaryRe.ReplaceAllString(text, "\n\n")

	var paragraphs []string
	for _, chunk := range blankLineRe.Split(text, -1) {
		if p := NormalizeText(chunk); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}
