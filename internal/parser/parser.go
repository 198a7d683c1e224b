// Package parser extracts report metadata from the semi-structured markdown
// written for each consumed piece of content.
//
// Reports are hand-edited, so parsing is best effort: fields that do not match
// their expected pattern are left empty and no error is ever returned.
package parser

import (
	"regexp"
	"strings"
	"time"
)

// DateLayout is the layout of the **Date** field and of filename date prefixes.
const DateLayout = "2006-01-02"

// SummaryMaxLen bounds the extracted summary, in characters.
const SummaryMaxLen = 500

var (
	sourcePattern   = regexp.MustCompile(`\*\*Source\*\*:\s*(.+)`)
	datePattern     = regexp.MustCompile(`\*\*Date\*\*:\s*(\d{4}-\d{2}-\d{2})`)
	typePattern     = regexp.MustCompile(`\*\*Type\*\*:\s*(.+)`)
	summaryHeading  = regexp.MustCompile(`(?i)##\s*(?:1\.\s*)?Summary\s*\n+`)
	linkPattern     = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	markupPattern   = regexp.MustCompile("[*_`#>]")
	spacePattern    = regexp.MustCompile(`\s+`)
	filenamePattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})_`)

	// htmlPattern matches script and style blocks and single tags of common
	// HTML elements. A tag must close on its own line, so a stray "<" in prose
	// never swallows the text after it.
	htmlPattern = regexp.MustCompile(`(?is)<(?:script|style)\b[^>]*>.*?</(?:script|style)[ \t]*>` +
		`|</?(?:a|abbr|audio|b|blockquote|br|code|del|details|div|em|figcaption|figure|h[1-6]|hr|i|iframe|img|ins|kbd|li|mark|ol|p|pre|s|small|source|span|strong|sub|summary|sup|table|tbody|td|th|thead|tr|u|ul|video)` +
		`(?:[ \t]+[a-z_:][-a-z0-9_:.]*(?:[ \t]*=[ \t]*(?:"[^"\n]*"|'[^'\n]*'|[^ \t\n"'<>=]+))?)*[ \t]*/?>`)
)

// Result holds the fields extracted from a report. Empty strings mean the
// field was not present.
type Result struct {
	Title       string
	Source      string
	Date        string
	Type        string
	Summary     string
	TextContent string
}

// ParsedDate returns the **Date** field as a local-midnight time.
func (r Result) ParsedDate() (time.Time, bool) {
	if r.Date == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DateLayout, r.Date, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Parse extracts metadata and flattened search text from report markdown.
func Parse(content string) Result {
	var result Result

	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "# ") {
			result.Title = strings.TrimSpace(line[2:])
			break
		}
	}

	if m := sourcePattern.FindStringSubmatch(content); m != nil {
		result.Source = strings.TrimSpace(m[1])
	}

	if m := datePattern.FindStringSubmatch(content); m != nil {
		if _, err := time.Parse(DateLayout, m[1]); err == nil {
			result.Date = m[1]
		}
	}

	if m := typePattern.FindStringSubmatch(content); m != nil {
		result.Type = strings.TrimSpace(m[1])
	}

	result.Summary = extractSummary(content)
	result.TextContent = flatten(content)

	return result
}

func extractSummary(content string) string {
	loc := summaryHeading.FindStringIndex(content)
	if loc == nil {
		return ""
	}

	section := content[loc[1]:]
	for _, stop := range []string{"\n##", "\n---"} {
		if idx := strings.Index(section, stop); idx >= 0 {
			section = section[:idx]
		}
	}

	para, _, _ := strings.Cut(strings.TrimSpace(section), "\n\n")
	return truncate(para, SummaryMaxLen)
}

func flatten(content string) string {
	text := linkPattern.ReplaceAllString(content, "$1")
	text = htmlPattern.ReplaceAllString(text, "")
	text = markupPattern.ReplaceAllString(text, "")
	text = spacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// ParseDateFromFilename extracts the leading YYYY-MM-DD_ prefix of a report
// filename as a local-midnight time.
func ParseDateFromFilename(filename string) (time.Time, bool) {
	m := filenamePattern.FindStringSubmatch(filename)
	if m == nil {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DateLayout, m[1], time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// WordCount returns the number of whitespace-separated tokens in content.
func WordCount(content string) int {
	return len(strings.Fields(content))
}
