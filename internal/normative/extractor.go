// Package normative implements the per-statement evaluation stages:
// statement extraction, modality detection, ground matching, license
// derivation and axiom checking.
//
// Every stage is stateless and operates on the form of the text only. The
// marker vocabularies are fixed; detection is deterministic substring
// matching, not semantic analysis.
package normative

import (
	"strings"
	"unicode"

	"github.com/olegische/normcore/internal/domain"
)

// Markers that signal potential normative participation. If none are
// present the output is treated as protocol-only speech and dropped before
// evaluation.
var normativeGateMarkers = []string{
	"should",
	"must",
	"recommend",
	"prioritize",
	"block",
	"depends on",
	"is blocked",
	"is better",
	"better for you",
	"if ",
	"cannot determine",
	"not enough information",
	"i would not",
	"i won't",
	"for you",
	"given your",
	"based on your",
}

// Per-sentence markers used while stripping the protocol prefix.
// Personalization framing counts as normative participation but is not
// strong enough on its own to rescue a protocol-looking sentence.
var (
	sentenceNormativeMarkers = []string{
		"should",
		"must",
		"recommend",
		"prioritize",
		"blocks",
		"is blocked",
		"depends on",
		"if ",
		"for you",
		"given your",
		"based on your",
		"i would not",
		"cannot determine",
	}
	sentenceStrongNormativeMarkers = []string{
		"should",
		"must",
		"recommend",
		"prioritize",
		"blocks",
		"depends on",
		"if ",
	}
	sentenceProtocolMarkers = []string{
		"i can",
		"how can i",
		"what can i",
		"thanks for",
		"let me know",
		"feel free",
		"hope you",
	}
)

// Protocol tails are often cascaded ("...(e.g., X) I can help with Y"), so
// suffix stripping iterates, bounded to keep termination visible.
var protocolSuffixMarkers = []string{
	"i can help",
	"let me know if",
	"feel free to ask",
	"how can i help",
	"would you like",
}

const maxSuffixStripPasses = 5

var greetingPrefixes = []string{
	"hello",
	"hi",
	"hey",
	"greetings",
	"good morning",
	"good afternoon",
	"good evening",
	"thanks for asking",
	"i'm doing well",
	"i am doing well",
	"i'm ready",
	"i am ready",
	"i'm here",
	"i am here",
	"hope you're doing well",
	"hope you are doing well",
}

var questionTailNormativeMarkers = []string{"should", "must", "recommend", "if "}

// StatementExtractor isolates normative participation from raw agent text.
//
// The final output is treated as one speech act: extraction returns either
// a single generic Statement (subject "agent", predicate "participation")
// or nothing, which signals that the evaluator has no jurisdiction.
type StatementExtractor struct{}

func (e StatementExtractor) Extract(text string) []domain.Statement {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	cleaned := e.stripProtocolSpeech(text)
	if strings.TrimSpace(cleaned) == "" {
		return nil
	}
	return []domain.Statement{{
		ID:        "final_response",
		Subject:   "agent",
		Predicate: "participation",
		RawText:   cleaned,
	}}
}

// stripProtocolSpeech performs boundary-based filtering: suffix first
// (capability offers), then protocol prefix sentences, then greeting
// tokens, then the question-tail guard. No semantic interpretation.
func (e StatementExtractor) stripProtocolSpeech(text string) string {
	cleaned := strings.TrimSpace(text)

	if !containsAny(strings.ToLower(cleaned), normativeGateMarkers) {
		return ""
	}

	cleaned = e.stripProtocolSuffix(cleaned)
	cleaned = e.stripProtocolPrefixSentences(cleaned)

	lowered := strings.ToLower(cleaned)
	for _, p := range greetingPrefixes {
		if strings.HasPrefix(lowered, p) {
			cleaned = strings.TrimLeftFunc(cleaned[len(p):], func(r rune) bool {
				return unicode.IsSpace(r) || strings.ContainsRune(",.!-—", r)
			})
			break
		}
	}

	// Questions are protocol speech (continuation invites) unless they carry
	// normative markers; otherwise "add a question mark" would be a cheap
	// evasion channel.
	if strings.HasSuffix(strings.TrimRight(cleaned, " \t\n"), "?") &&
		!containsAny(strings.ToLower(cleaned), questionTailNormativeMarkers) {
		return ""
	}
	return strings.TrimSpace(cleaned)
}

func (e StatementExtractor) stripProtocolSuffix(text string) string {
	out := strings.TrimSpace(text)
	for pass := 0; pass < maxSuffixStripPasses; pass++ {
		lower := strings.ToLower(out)
		changed := false
		for _, marker := range protocolSuffixMarkers {
			if idx := strings.LastIndex(lower, marker); idx >= 0 {
				out = strings.TrimRight(strings.TrimSpace(out[:idx]), ".,;")
				changed = true
				break
			}
		}
		if !changed {
			break
		}
	}
	return out
}

// stripProtocolPrefixSentences walks sentences from the start, discarding
// protocol-looking ones until the first normative sentence, which is kept
// together with everything after it.
func (e StatementExtractor) stripProtocolPrefixSentences(text string) string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return text
	}

	var kept []string
	for idx, sentence := range sentences {
		lower := strings.ToLower(sentence)
		hasAnyNormative := containsAny(lower, sentenceNormativeMarkers)
		hasStrongNormative := containsAny(lower, sentenceStrongNormativeMarkers)
		looksProtocol := containsAny(lower, sentenceProtocolMarkers) ||
			(strings.HasSuffix(strings.TrimSpace(lower), "?") && !hasAnyNormative)

		if looksProtocol && !hasStrongNormative {
			continue
		}
		if hasAnyNormative {
			kept = append(kept, sentences[idx:]...)
			break
		}
		// Neither clearly protocol nor clearly normative: keep it.
		kept = append(kept, sentence)
	}
	return strings.TrimSpace(strings.Join(kept, " "))
}

// splitSentences splits on . ! ? keeping the delimiter with its sentence.
func splitSentences(text string) []string {
	var out []string
	var buf strings.Builder
	for _, r := range text {
		buf.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(buf.String()); s != "" {
				out = append(out, s)
			}
			buf.Reset()
		}
	}
	if s := strings.TrimSpace(buf.String()); s != "" {
		out = append(out, s)
	}
	return out
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
