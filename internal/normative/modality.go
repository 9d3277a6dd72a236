package normative

import (
	"strings"

	"github.com/olegische/normcore/internal/domain"
)

var refusalMarkers = []string{
	"cannot determine",
	"cannot decide",
	"cannot choose",
	"need more",
	"require more",
	"insufficient",
	"please provide",
	"please clarify",
	"i don't know",
	"i do not know",
	"hard to say",
	"hard to determine",
	"i would not",
	"i won't",
}

// Goal-scoped framing only counts at the start of the core assertion.
var goalConditionalPrefixes = []string{
	"if your goal is",
	"if you want",
	"assuming you want",
	"if you're optimizing",
	"if you are optimizing",
	"if you're aiming",
}

var personalizationMarkers = []string{
	"for you",
	"given your",
	"based on your",
	"according to your",
	"with your preferences",
	"with your constraints",
}

var recommendationMarkers = []string{
	" is better",
	" are better",
	"should be prioritiz",
	"recommend ",
	"suggest you",
	"best choice",
	"best option",
	"prioritize ",
	" first",
}

var conditionalMarkers = []string{
	"if ",
	"unless ",
	"assuming ",
	"given that",
	"provided ",
	"depends on",
	" might ",
	" could ",
}

var descriptiveMarkers = []string{
	"blocks",
	"is blocked by",
	"depends on",
	"has status",
	"due date is",
	"is blocked",
}

var descriptiveNormativeMarkers = []string{
	"should",
	"must",
	"need to",
	"needs to",
	"recommend",
	"suggest",
	"advise",
}

const coreAssertionMaxLen = 500

// ModalityDetector classifies the speech-act form of a statement from
// surface markers alone. Detection runs against the core assertion (the
// leading claim) so that trailing hedges and elaboration do not override
// the primary commitment.
type ModalityDetector struct{}

// Detect returns a copy of the statement with Modality set, and Conditions
// populated when the form is conditional.
func (d ModalityDetector) Detect(stmt domain.Statement) domain.Statement {
	text := strings.ToLower(stmt.RawText)
	core := coreAssertion(text)

	stmt.Modality = classify(core)
	if stmt.Modality == domain.ModalityConditional {
		stmt.Conditions = extractConditions(text)
	}
	return stmt
}

// coreAssertion narrows lowered text to its leading claim: the first
// paragraph when paragraphs exist, otherwise the first sentence, otherwise
// the first line, otherwise a fixed-length head.
func coreAssertion(text string) string {
	if idx := strings.Index(text, "\n\n"); idx >= 0 {
		return strings.TrimSpace(text[:idx])
	}
	if idx := strings.Index(text, ". "); idx >= 0 {
		return strings.TrimSpace(text[:idx+1])
	}
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return strings.TrimSpace(text[:idx])
	}
	runes := []rune(text)
	if len(runes) > coreAssertionMaxLen {
		runes = runes[:coreAssertionMaxLen]
	}
	return strings.TrimSpace(string(runes))
}

// classify applies the marker groups in priority order: refusal wins over
// conditional framing, which wins over recommendation, which wins over
// generic conditional markers, then descriptive, then the assertive
// default.
func classify(core string) domain.Modality {
	if containsAny(core, refusalMarkers) {
		return domain.ModalityRefusal
	}
	for _, p := range goalConditionalPrefixes {
		if strings.HasPrefix(core, p) {
			return domain.ModalityConditional
		}
	}
	if containsAny(core, personalizationMarkers) {
		return domain.ModalityConditional
	}
	if containsAny(core, recommendationMarkers) {
		return domain.ModalityAssertive
	}
	if containsAny(core, conditionalMarkers) {
		return domain.ModalityConditional
	}
	if containsAny(core, descriptiveMarkers) && !containsAny(core, descriptiveNormativeMarkers) {
		return domain.ModalityDescriptive
	}
	return domain.ModalityAssertive
}

// extractConditions pulls declared condition clauses from the full lowered
// text. A conditional statement with no recoverable clause still gets a
// placeholder so the declared-conditions axiom can distinguish "conditional
// with conditions" from bare hedging.
func extractConditions(text string) []string {
	var conditions []string
	if c := clauseAfter(text, "if "); c != "" {
		conditions = append(conditions, c)
	}
	if c := clauseAfter(text, "unless "); c != "" {
		conditions = append(conditions, "NOT "+c)
	}
	if c := clauseAfter(text, "assuming "); c != "" {
		conditions = append(conditions, c)
	}
	if c := clauseAfter(text, "given that "); c != "" {
		conditions = append(conditions, c)
	}
	if c := clauseAfter(text, "given your "); c != "" {
		conditions = append(conditions, "given your "+c)
	}
	if c := clauseAfter(text, "based on your "); c != "" {
		conditions = append(conditions, "based on your "+c)
	}
	if strings.Contains(text, "for you") {
		conditions = append(conditions, "for you")
	}
	if len(conditions) == 0 {
		conditions = []string{"unspecified"}
	}
	return conditions
}

// clauseAfter returns the clause following marker, cut at the first clause
// delimiter.
func clauseAfter(text, marker string) string {
	idx := strings.Index(text, marker)
	if idx < 0 {
		return ""
	}
	clause := text[idx+len(marker):]
	if end := strings.IndexAny(clause, ",.;"); end >= 0 {
		clause = clause[:end]
	}
	return strings.TrimSpace(clause)
}
