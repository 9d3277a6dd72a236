package domain

import "fmt"

// Evidence strength. Strong nodes come from direct tool observation and
// can license assertive claims; weak nodes only license conditional ones.
const (
	StrengthStrong = "strong"
	StrengthWeak   = "weak"
)

// KnowledgeNode is an internally minted evidentiary record, derived from an
// observed tool result or materialized from an external ground.
//
// The id is canonical and content-derived; the semantic id is a
// human-meaningful alias (e.g. "issue_AGENT-8") used for citation
// resolution. Resolve tries both.
type KnowledgeNode struct {
	ID         string
	Source     Source
	Status     Status
	Confidence float64
	Scope      Scope
	Strength   string
	SemanticID string
}

// NewKnowledgeNode validates the confidence and strength invariants.
// Construction is the only place these are checked; everything downstream
// trusts the fields.
func NewKnowledgeNode(id string, source Source, status Status, confidence float64, scope Scope, strength, semanticID string) (KnowledgeNode, error) {
	if confidence < 0.0 || confidence > 1.0 {
		return KnowledgeNode{}, fmt.Errorf("confidence must be in [0.0, 1.0], got %v", confidence)
	}
	if strength != StrengthStrong && strength != StrengthWeak {
		return KnowledgeNode{}, fmt.Errorf("strength must be %q or %q, got %q", StrengthStrong, StrengthWeak, strength)
	}
	return KnowledgeNode{
		ID:         id,
		Source:     source,
		Status:     status,
		Confidence: confidence,
		Scope:      scope,
		Strength:   strength,
		SemanticID: semanticID,
	}, nil
}

// ObservedNode builds the node shape used for everything actually observed
// via tool execution: maximal-strength factual evidence. How that evidence
// may be used is decided by the license and axiom layers, not here.
func ObservedNode(id, semanticID string) KnowledgeNode {
	return KnowledgeNode{
		ID:         id,
		Source:     SourceObserved,
		Status:     StatusConfirmed,
		Confidence: 1.0,
		Scope:      ScopeFactual,
		Strength:   StrengthStrong,
		SemanticID: semanticID,
	}
}

// GroundSet is the subset of knowledge nodes relevant to one statement.
//
// It must be queried via scope-aware methods only: weakest-link applies
// between scopes, while within a scope the strongest evidence wins.
type GroundSet struct {
	Nodes []KnowledgeNode
}

func (g GroundSet) IsEmpty() bool {
	return len(g.Nodes) == 0
}

// HasFactual reports whether any factual-scope node is present. Reporting
// only; licensing logic goes through ScopeStrength.
func (g GroundSet) HasFactual() bool {
	return g.HasScope(ScopeFactual)
}

func (g GroundSet) HasScope(scope Scope) bool {
	for _, k := range g.Nodes {
		if k.Scope == scope {
			return true
		}
	}
	return false
}

// ScopeStrength returns the aggregated strength within a scope: strong if
// any strong node exists, weak if only weak nodes, ok=false if the scope is
// unpopulated.
func (g GroundSet) ScopeStrength(scope Scope) (string, bool) {
	foundAny := false
	for _, k := range g.Nodes {
		if k.Scope != scope {
			continue
		}
		foundAny = true
		if k.Strength == StrengthStrong {
			return StrengthStrong, true
		}
	}
	if foundAny {
		return StrengthWeak, true
	}
	return "", false
}

func (g GroundSet) HasStrongInScope(scope Scope) bool {
	for _, k := range g.Nodes {
		if k.Scope == scope && k.Strength == StrengthStrong {
			return true
		}
	}
	return false
}

// Resolve looks a ground id up by canonical id first, then by semantic id.
// Citation links carry either form.
func (g GroundSet) Resolve(groundID string) (KnowledgeNode, bool) {
	for _, k := range g.Nodes {
		if k.ID == groundID {
			return k, true
		}
	}
	for _, k := range g.Nodes {
		if k.SemanticID != "" && k.SemanticID == groundID {
			return k, true
		}
	}
	return KnowledgeNode{}, false
}
