package answer

import (
	"regexp"
	"strings"
	"unicode"
)

// Candidate sentence bounds after normalization.
const (
	minSentenceChars = 20
	maxSentenceChars = 400
	minSentenceWords = 6
	maxSentenceWords = 40
)

var sentenceSplitRe = regexp.MustCompile(`[.!?]+\s+`)

// boilerplatePhrases reject sentences that are site chrome rather than
// content: navigation text, legal footers, calls to action.
var boilerplatePhrases = []string{
	"all rights reserved",
	"click here",
	"cookie policy",
	"copyright",
	"download resume",
	"download cv",
	"follow us",
	"log in",
	"powered by",
	"privacy policy",
	"read more",
	"sign up",
	"skip to content",
	"skip to main",
	"subscribe to",
	"terms of service",
	"terms of use",
	"toggle navigation",
}

// commonVerbs is a coarse check that a candidate is a sentence rather than
// a list fragment or heading.
var commonVerbs = map[string]bool{
	"am": true, "is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "being": true,
	"has": true, "have": true, "had": true,
	"do": true, "does": true, "did": true,
	"can": true, "could": true, "will": true, "would": true,
	"shall": true, "should": true, "may": true, "might": true, "must": true,
	"built": true, "created": true, "designed": true, "developed": true,
	"helps": true, "includes": true, "led": true, "made": true, "makes": true,
	"managed": true, "offers": true, "provides": true, "requires": true,
	"shows": true, "supports": true, "uses": true, "works": true, "worked": true,
}

// extractSentences splits text into candidate sentences, normalizes each,
// and returns up to max that pass the bounds and readability checks.
func extractSentences(text string, max int) []string {
	if max <= 0 {
		return nil
	}

	var out []string
	for _, raw := range sentenceSplitRe.Split(text, -1) {
		s := normalizeSentence(raw)
		if len(s) < minSentenceChars || len(s) > maxSentenceChars {
			continue
		}
		if !isReadable(s) {
			continue
		}
		out = append(out, s)
		if len(out) >= max {
			break
		}
	}
	return out
}

// normalizeSentence strips newlines, bullets and pipes, collapses
// whitespace, capitalizes the first letter and ensures terminal
// punctuation.
func normalizeSentence(s string) string {
	replacer := strings.NewReplacer(
		"\n", " ", "\r", " ", "\t", " ",
		"|", " ", "•", " ", "·", " ",
		"- ", " ", "* ", " ", "# ", " ",
	)
	s = replacer.Replace(s)
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}

	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	s = string(runes)

	switch s[len(s)-1] {
	case '.', '!', '?', ':':
	default:
		s += "."
	}
	return s
}

// isReadable applies the readability filter: word-count bounds, boilerplate
// rejection, fragment-heading rejection, a verb requirement, and a
// letters-vs-digits ratio.
func isReadable(s string) bool {
	words := strings.Fields(s)
	if len(words) < minSentenceWords || len(words) > maxSentenceWords {
		return false
	}

	lower := strings.ToLower(s)
	for _, phrase := range boilerplatePhrases {
		if strings.Contains(lower, phrase) {
			return false
		}
	}

	if looksLikeHeadingFragment(words) {
		return false
	}

	hasVerb := false
	for _, w := range words {
		if commonVerbs[strings.ToLower(strings.Trim(w, ".,;:!?"))] {
			hasVerb = true
			break
		}
	}
	if !hasVerb {
		return false
	}

	var letters, digits int
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsDigit(r):
			digits++
		}
	}
	return letters > 2*digits
}

// looksLikeHeadingFragment reports whether the first two words look like a
// section heading that leaked into running text: an all-caps short word
// followed by a present-participle word (e.g. "SKILLS Building ...").
func looksLikeHeadingFragment(words []string) bool {
	if len(words) < 2 {
		return false
	}
	first := words[0]
	if len(first) < 2 || len(first) > 12 || first != strings.ToUpper(first) {
		return false
	}
	hasLetter := false
	for _, r := range first {
		if unicode.IsLetter(r) {
			hasLetter = true
			break
		}
	}
	if !hasLetter {
		return false
	}
	return strings.HasSuffix(strings.ToLower(words[1]), "ing")
}
