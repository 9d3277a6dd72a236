package domain

// LinkRole describes how a cited ground relates to a statement.
type LinkRole string

const (
	RoleSupports       LinkRole = "supports"
	RoleDisambiguates  LinkRole = "disambiguates"
	RoleContextualizes LinkRole = "contextualizes"
)

func ValidLinkRole(r string) bool {
	switch LinkRole(r) {
	case RoleSupports, RoleDisambiguates, RoleContextualizes:
		return true
	}
	return false
}

// CreatorType identifies who minted a ground or link.
type CreatorType string

const (
	CreatorHuman            CreatorType = "human"
	CreatorToolObserver     CreatorType = "tool_observer"
	CreatorAgentDeclaration CreatorType = "agent_declaration"
	CreatorUpstreamPipeline CreatorType = "upstream_pipeline"
)

// EvidenceKind classifies the kind of evidence a ground carries.
type EvidenceKind string

const (
	EvidenceObservation EvidenceKind = "observation"
	EvidenceExplicit    EvidenceKind = "explicit"
	EvidenceStructural  EvidenceKind = "structural"
	EvidenceValidation  EvidenceKind = "validation"
)

// Ground is an external, citable unit of evidence supplied alongside the
// conversation, or synthesized from a tool-call reference. A citation marker
// [@<citation_key>] in the agent text points at all grounds sharing that key.
type Ground struct {
	CitationKey     string
	GroundID        string
	Role            LinkRole
	Creator         CreatorType
	EvidenceKind    EvidenceKind
	EvidenceContent string
	Signature       string
}

// Provenance records where a statement-ground link came from.
type Provenance struct {
	Creator         CreatorType
	EvidenceKind    EvidenceKind
	EvidenceContent string
	Signature       string
}

// StatementGroundLink is a citation relationship from a statement to a
// ground, built purely from the co-occurrence of a citation marker in text
// and a ground sharing that citation key.
type StatementGroundLink struct {
	StatementID string
	GroundID    string
	Role        LinkRole
	Provenance  Provenance
}

type LinkSet struct {
	Links []StatementGroundLink
}
