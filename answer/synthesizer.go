// Package answer turns ranked retrieval results into a cited,
// confidence-gated natural-language answer. The baseline path is fully
// deterministic; an optional generator augments it but can never be
// required for correctness.
package answer

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/fwojciec/recall"
)

// NoContentMessage is the fixed response for an empty result set.
const NoContentMessage = "I couldn't find anything relevant in your knowledge base."

const (
	maxAnswerSources   = 10
	maxLeadSentences   = 2
	maxKeyPoints       = 7
	candidatesPerChunk = 4
	dedupePrefixChars  = 100
)

// Compile-time interface verification.
var _ recall.Synthesizer = (*Synthesizer)(nil)

// Synthesizer implements recall.Synthesizer.
type Synthesizer struct {
	generator recall.Generator // optional; nil disables augmentation
	config    recall.Config
}

// NewSynthesizer creates a new Synthesizer. A nil generator disables the
// augmentation path entirely.
func NewSynthesizer(generator recall.Generator, config recall.Config) *Synthesizer {
	return &Synthesizer{generator: generator, config: config}
}

// Generate produces an answer for the query from the given results.
func (s *Synthesizer) Generate(ctx context.Context, results []recall.RetrievalResult, query string) (*recall.Answer, error) {
	if len(results) == 0 {
		return &recall.Answer{Text: NoContentMessage, Sources: []recall.SourceRef{}}, nil
	}

	// Targeted-intent shortcuts answer directly from evidence and return
	// immediately when matched.
	if ans := contactShortcut(results, query); ans != nil {
		return ans, nil
	}
	if ans := presenceShortcut(results, query); ans != nil {
		return ans, nil
	}

	filtered := filterByRelevance(results, query, s.config.ScoreGap)
	filtered = dedupeChunks(filtered)

	var ans *recall.Answer
	if best(results) < s.config.ConfidenceThreshold {
		ans = s.hedgedAnswer(filtered)
	} else {
		ans = s.confidentAnswer(filtered, query)
	}

	return s.augment(ctx, ans, results, query), nil
}

// augment optionally replaces the extractive answer text with generated
// text while keeping the extractive source list. Every failure is soft: a
// generator error, timeout or empty response leaves the deterministic
// answer untouched.
func (s *Synthesizer) augment(ctx context.Context, ans *recall.Answer, results []recall.RetrievalResult, query string) *recall.Answer {
	if s.generator == nil {
		return ans
	}

	timeout := s.config.LLMTimeout
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	system, prompt := ComposePrompt(results, query)
	text, err := s.generator.Generate(ctx, system, prompt)
	if err != nil || strings.TrimSpace(text) == "" {
		return ans
	}

	return &recall.Answer{Text: strings.TrimSpace(text), Sources: ans.Sources}
}

// hedgedAnswer builds the low-confidence response: up to two short
// excerpts from the top filtered chunks, or the closest source titles when
// no excerpt qualifies.
func (s *Synthesizer) hedgedAnswer(filtered []recall.RetrievalResult) *recall.Answer {
	var excerpts []string
	top := filtered
	if len(top) > 3 {
		top = top[:3]
	}
	for _, res := range top {
		if len(excerpts) >= 2 {
			break
		}
		if sents := extractSentences(res.Content, 1); len(sents) > 0 {
			excerpts = append(excerpts, "> "+sents[0])
		}
	}

	var sb strings.Builder
	sb.WriteString("I'm not very confident, but here is the closest match I found:\n\n")
	if len(excerpts) > 0 {
		sb.WriteString(strings.Join(excerpts, "\n\n"))
	} else {
		titles := make([]string, 0, len(top))
		for _, ref := range collectSources(top, 3) {
			titles = append(titles, ref.Title)
		}
		fmt.Fprintf(&sb, "The closest sources are: %s.", strings.Join(titles, ", "))
	}

	return &recall.Answer{
		Text:    sb.String(),
		Sources: collectSources(filtered, maxAnswerSources),
	}
}

// confidentAnswer builds the high-confidence response: a short lead
// summary followed by a numbered key-points list.
func (s *Synthesizer) confidentAnswer(filtered []recall.RetrievalResult, query string) *recall.Answer {
	candidates := rankCandidates(filtered, query)
	if len(candidates) == 0 {
		return s.hedgedAnswer(filtered)
	}

	lead := candidates
	if len(lead) > maxLeadSentences {
		lead = lead[:maxLeadSentences]
	}
	points := candidates[len(lead):]
	if len(points) > maxKeyPoints {
		points = points[:maxKeyPoints]
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(lead, " "))
	if len(points) > 0 {
		sb.WriteString("\n\nKey points:\n")
		for i, p := range points {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, p)
		}
	}

	return &recall.Answer{
		Text:    strings.TrimRight(sb.String(), "\n"),
		Sources: collectSources(filtered, maxAnswerSources),
	}
}

// rankCandidates extracts candidate sentences from each chunk (most
// relevant chunk first), scores them by query keyword overlap and source
// rank, and deduplicates by lowercase exact match.
func rankCandidates(filtered []recall.RetrievalResult, query string) []string {
	tokens := significantTokens(query)

	type candidate struct {
		text  string
		score int
	}
	var candidates []candidate
	seen := make(map[string]bool)

	for rank, res := range filtered {
		for _, sent := range extractSentences(res.Content, candidatesPerChunk) {
			key := strings.ToLower(sent)
			if seen[key] {
				continue
			}
			seen[key] = true

			overlap := 0
			lower := key
			for _, tok := range tokens {
				if strings.Contains(lower, tok) {
					overlap++
				}
			}
			rankBonus := 20 - rank
			if rankBonus < 0 {
				rankBonus = 0
			}
			candidates = append(candidates, candidate{text: sent, score: overlap*10 + rankBonus})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.text
	}
	return out
}

// filterByRelevance applies the source-relevance filter: only chunks from
// items whose own best score is within gap of the overall best stay, which
// prevents blending topically distinct sources into one answer. An item
// whose title or source label matches the query is kept regardless:
// explicit metadata is stronger evidence than embedding proximity.
func filterByRelevance(results []recall.RetrievalResult, query string, gap float64) []recall.RetrievalResult {
	if len(results) == 0 {
		return nil
	}

	itemBest := make(map[string]float64)
	for _, r := range results {
		if s, ok := itemBest[r.ItemID]; !ok || r.Score > s {
			itemBest[r.ItemID] = r.Score
		}
	}

	cutoff := best(results) - gap
	var kept []recall.RetrievalResult
	for _, r := range results {
		if itemBest[r.ItemID] >= cutoff || sourceMatches(r.Source, query) {
			kept = append(kept, r)
		}
	}
	return kept
}

// sourceMatches reports whether the query matches the source's title or
// its label (for web items, the host the page came from).
func sourceMatches(src recall.SourceRef, query string) bool {
	return titleMatches(src.Title, query) || titleMatches(src.Label, query)
}

// titleMatches reports whether the query's normalized text appears as a
// substring of the title, or the full set of query tokens is a subset of
// the title tokens.
func titleMatches(title, query string) bool {
	if title == "" {
		return false
	}

	normTitle := normalizeAlnum(title)
	normQuery := normalizeAlnum(query)
	if normQuery != "" && strings.Contains(normTitle, normQuery) {
		return true
	}

	queryTokens := significantTokens(query)
	if len(queryTokens) == 0 {
		return false
	}
	titleTokens := make(map[string]bool)
	for _, tok := range significantTokens(title) {
		titleTokens[tok] = true
	}
	for _, tok := range queryTokens {
		if !titleTokens[tok] {
			return false
		}
	}
	return true
}

// dedupeChunks deduplicates results by item id plus the first 100
// characters of chunk text, preserving order.
func dedupeChunks(results []recall.RetrievalResult) []recall.RetrievalResult {
	seen := make(map[string]bool)
	var out []recall.RetrievalResult
	for _, r := range results {
		prefix := r.Content
		if len(prefix) > dedupePrefixChars {
			prefix = prefix[:dedupePrefixChars]
		}
		key := r.ItemID + "|" + prefix
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

// collectSources returns up to max distinct source references in
// first-seen order.
func collectSources(results []recall.RetrievalResult, max int) []recall.SourceRef {
	seen := make(map[string]bool)
	var refs []recall.SourceRef
	for _, r := range results {
		if seen[r.ItemID] {
			continue
		}
		seen[r.ItemID] = true
		refs = append(refs, r.Source)
		if len(refs) >= max {
			break
		}
	}
	return refs
}

// best returns the highest score across all results.
func best(results []recall.RetrievalResult) float64 {
	b := results[0].Score
	for _, r := range results[1:] {
		if r.Score > b {
			b = r.Score
		}
	}
	return b
}

// normalizeAlnum lowercases and strips everything but letters and digits.
func normalizeAlnum(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// stopWords for keyword-overlap scoring.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "that": true,
	"this": true, "what": true, "who": true, "how": true, "where": true,
	"when": true, "why": true, "does": true, "did": true, "are": true,
	"was": true, "can": true, "about": true, "from": true,
}

// significantTokens returns the lowercased query tokens longer than two
// characters that are not stop words.
func significantTokens(s string) []string {
	var out []string
	for _, w := range strings.Fields(strings.ToLower(s)) {
		w = strings.Trim(w, ".,;:!?\"'()[]{}")
		if len(w) > 2 && !stopWords[w] {
			out = append(out, w)
		}
	}
	return out
}
