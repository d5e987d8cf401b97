package answer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fwojciec/recall"
)

// Targeted-intent shortcuts: pattern-match the query for intents that are
// better answered by direct evidence lookup than by general synthesis.
// A shortcut returns nil when it doesn't match or finds no evidence, in
// which case the caller falls through to general synthesis.

var (
	contactQueryRe  = regexp.MustCompile(`(?i)\b(contact|email|e-mail|phone|reach|linkedin|github)\b`)
	presenceQueryRe = regexp.MustCompile(`(?i)\b(?:is there|are there|do i have|does .* exist)\b\s*(?:a|an|any|some)?\s*(.*?)\??$`)

	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phoneRe = regexp.MustCompile(`\+?\d[\d\s().\-]{7,}\d`)
)

// contactShortcut answers contact-info queries from evidence in the
// retrieved chunk text.
func contactShortcut(results []recall.RetrievalResult, query string) *recall.Answer {
	if !contactQueryRe.MatchString(query) {
		return nil
	}

	text := concatChunkText(results)

	var lines []string
	if email := emailRe.FindString(text); email != "" {
		lines = append(lines, fmt.Sprintf("Email: %s", email))
	}
	if phone := phoneRe.FindString(text); phone != "" {
		lines = append(lines, fmt.Sprintf("Phone: %s", strings.Join(strings.Fields(phone), " ")))
	}
	for _, site := range []string{"linkedin.com/", "github.com/"} {
		if profile := findProfileToken(text, site); profile != "" {
			lines = append(lines, fmt.Sprintf("Profile: %s", profile))
		}
	}

	if len(lines) == 0 {
		return nil
	}

	return &recall.Answer{
		Text:    strings.Join(lines, "\n"),
		Sources: collectSources(results, 10),
	}
}

// presenceShortcut answers yes/no document-presence queries ("is there a
// resume?") from evidence in the retrieved chunk text. No evidence means
// fall through, not "no": general synthesis may still find something.
func presenceShortcut(results []recall.RetrievalResult, query string) *recall.Answer {
	m := presenceQueryRe.FindStringSubmatch(query)
	if m == nil {
		return nil
	}

	subject := strings.TrimSpace(strings.TrimSuffix(m[1], "?"))
	if subject == "" {
		return nil
	}

	text := strings.ToLower(concatChunkText(results))
	for _, res := range results {
		haystack := strings.ToLower(res.Content + " " + res.Source.Title)
		if containsAllTokens(haystack, subject) {
			return &recall.Answer{
				Text:    fmt.Sprintf("Yes: %q appears in %s.", subject, res.Source.Title),
				Sources: []recall.SourceRef{res.Source},
			}
		}
	}
	if containsAllTokens(text, subject) {
		return &recall.Answer{
			Text:    fmt.Sprintf("Yes: %q appears in your saved content.", subject),
			Sources: collectSources(results, 3),
		}
	}
	return nil
}

// findProfileToken extracts a profile URL token (e.g. linkedin.com/in/x)
// from concatenated chunk text.
func findProfileToken(text, site string) string {
	idx := strings.Index(strings.ToLower(text), site)
	if idx < 0 {
		return ""
	}
	end := idx
	for end < len(text) && !isTokenBoundary(text[end]) {
		end++
	}
	return text[idx:end]
}

func isTokenBoundary(b byte) bool {
	switch b {
	case ' ', '\n', '\t', '\r', ')', ']', '"', '\'', ',', ';', '>':
		return true
	}
	return false
}

// containsAllTokens reports whether every whitespace token of needle
// occurs in haystack.
func containsAllTokens(haystack, needle string) bool {
	tokens := strings.Fields(strings.ToLower(needle))
	if len(tokens) == 0 {
		return false
	}
	for _, tok := range tokens {
		if !strings.Contains(haystack, tok) {
			return false
		}
	}
	return true
}

func concatChunkText(results []recall.RetrievalResult) string {
	var sb strings.Builder
	for _, r := range results {
		sb.WriteString(r.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}
