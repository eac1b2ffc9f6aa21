package signals

import (
	"regexp"
	"strings"
)

const (
	minSentenceLen  = 10
	maxSentenceLen  = 400
	truncateAt      = 200
	maxEvidenceHits = 2
)

var sentenceSplit = regexp.MustCompile(`(?m)([.!?])\s+`)

// EvidenceExtractor pulls the sentences that triggered a detection out of
// analysis text so the UI can show why a signal was set.
type EvidenceExtractor struct{}

// NewEvidenceExtractor creates a new evidence extractor
func NewEvidenceExtractor() *EvidenceExtractor {
	return &EvidenceExtractor{}
}

// splitSentences breaks text on terminal punctuation followed by whitespace,
// keeping the punctuation with its sentence.
func splitSentences(text string) []string {
	marked := sentenceSplit.ReplaceAllString(text, "$1\x00")
	parts := strings.Split(marked, "\x00")

	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if len(p) < minSentenceLen || len(p) > maxSentenceLen {
			continue
		}
		sentences = append(sentences, p)
	}
	return sentences
}

// Extract returns up to two matching sentences for a pattern, joined with an
// ellipsis separator. Returns empty when nothing matches.
func (e *EvidenceExtractor) Extract(text string, pattern *regexp.Regexp) string {
	var hits []string
	for _, sentence := range splitSentences(text) {
		if pattern.MatchString(sentence) {
			hits = append(hits, truncateSentence(sentence))
			if len(hits) == maxEvidenceHits {
				break
			}
		}
	}
	return strings.Join(hits, " … ")
}

// ExtractSurroundingSentence returns the first sentence containing the literal
// term, matched case-insensitively. Returns empty when the term never appears
// in a usable sentence.
func (e *EvidenceExtractor) ExtractSurroundingSentence(text, term string) string {
	if term == "" {
		return ""
	}
	lowered := strings.ToLower(term)
	for _, sentence := range splitSentences(text) {
		if strings.Contains(strings.ToLower(sentence), lowered) {
			return truncateSentence(sentence)
		}
	}
	return ""
}

func truncateSentence(s string) string {
	if len(s) <= truncateAt {
		return s
	}
	runes := []rune(s)
	if len(runes) <= truncateAt {
		return s
	}
	return string(runes[:truncateAt]) + "…"
}
