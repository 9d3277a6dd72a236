package normative

import "github.com/olegische/normcore/internal/domain"

// GroundMatcher selects the knowledge nodes eligible to license a
// statement, based on modality alone.
//
// Descriptive statements may only lean on factual knowledge; assertive and
// conditional statements may additionally take contextual support. Refusals
// need no grounds, so they match nothing.
type GroundMatcher struct{}

func (m GroundMatcher) Match(stmt domain.Statement, nodes []domain.KnowledgeNode) domain.GroundSet {
	var scopes []domain.Scope
	switch stmt.Modality {
	case domain.ModalityDescriptive:
		scopes = []domain.Scope{domain.ScopeFactual}
	case domain.ModalityAssertive, domain.ModalityConditional:
		scopes = []domain.Scope{domain.ScopeFactual, domain.ScopeContextual}
	default:
		return domain.GroundSet{}
	}

	var matched []domain.KnowledgeNode
	for _, node := range nodes {
		for _, scope := range scopes {
			if node.Scope == scope {
				matched = append(matched, node)
				break
			}
		}
	}
	return domain.GroundSet{Nodes: matched}
}
