package recall

import "strings"

// SplitChunks splits markdown text into chunks for embedding. Paragraphs
// are packed greedily up to targetChars; a paragraph longer than maxChars
// is split on sentence-ish boundaries so no chunk exceeds maxChars.
// Paragraph boundaries are preserved inside a chunk.
func SplitChunks(text string, targetChars, maxChars int) []string {
	if targetChars <= 0 {
		targetChars = 1200
	}
	if maxChars < targetChars {
		maxChars = targetChars
	}

	var chunks []string
	var cur strings.Builder

	flush := func() {
		s := strings.TrimSpace(cur.String())
		if s != "" {
			chunks = append(chunks, s)
		}
		cur.Reset()
	}

	for _, para := range splitParagraphs(text) {
		if len(para) > maxChars {
			flush()
			for _, piece := range splitLong(para, maxChars) {
				chunks = append(chunks, piece)
			}
			continue
		}
		if cur.Len() > 0 && cur.Len()+len(para)+2 > targetChars {
			flush()
		}
		if cur.Len() > 0 {
			cur.WriteString("\n\n")
		}
		cur.WriteString(para)
	}
	flush()

	return chunks
}

// splitParagraphs splits text on blank lines, trimming each paragraph and
// dropping empties.
func splitParagraphs(text string) []string {
	var paras []string
	for _, p := range strings.Split(text, "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			paras = append(paras, p)
		}
	}
	return paras
}

// splitLong breaks an oversized paragraph at sentence boundaries where
// possible, falling back to word boundaries, then to a hard cut.
func splitLong(para string, maxChars int) []string {
	var pieces []string
	rest := para
	for len(rest) > maxChars {
		cut := lastBoundary(rest[:maxChars])
		if cut <= 0 {
			cut = maxChars
		}
		pieces = append(pieces, strings.TrimSpace(rest[:cut]))
		rest = strings.TrimSpace(rest[cut:])
	}
	if rest != "" {
		pieces = append(pieces, rest)
	}
	return pieces
}

// lastBoundary finds the best split point in s: the last sentence end if
// one exists past the midpoint, otherwise the last space.
func lastBoundary(s string) int {
	best := -1
	for i := 0; i < len(s)-1; i++ {
		switch s[i] {
		case '.', '!', '?':
			if s[i+1] == ' ' || s[i+1] == '\n' {
				best = i + 1
			}
		}
	}
	if best > len(s)/2 {
		return best
	}
	if idx := strings.LastIndexAny(s, " \n"); idx > 0 {
		return idx
	}
	return best
}
