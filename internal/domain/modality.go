package domain

// Modality is the speech-act form of a statement. It is derived from the
// statement text, never supplied by callers.
type Modality string

const (
	ModalityAssertive   Modality = "assertive"
	ModalityConditional Modality = "conditional"
	ModalityRefusal     Modality = "refusal"
	ModalityDescriptive Modality = "descriptive"
)

func ValidModality(m string) bool {
	switch Modality(m) {
	case ModalityAssertive, ModalityConditional, ModalityRefusal, ModalityDescriptive:
		return true
	}
	return false
}

// Source indicates where a knowledge node originated.
type Source string

const (
	SourceObserved Source = "observed"
	SourceExplicit Source = "explicit"
	SourceInferred Source = "inferred"
	SourceRepeated Source = "repeated"
)

// Status is the epistemic status of a knowledge node.
type Status string

const (
	StatusHypothesis Status = "hypothesis"
	StatusCandidate  Status = "candidate"
	StatusConfirmed  Status = "confirmed"
)

// Scope determines which statements a knowledge node can ground.
type Scope string

const (
	ScopeFactual    Scope = "factual"
	ScopeContextual Scope = "contextual"
)
