package domain

import "testing"

func TestNewKnowledgeNode_Valid(t *testing.T) {
	node, err := NewKnowledgeNode("n1", SourceExplicit, StatusCandidate, 0.8, ScopeContextual, StrengthWeak, "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if node.ID != "n1" || node.Strength != StrengthWeak {
		t.Fatalf("unexpected node: %+v", node)
	}
}

func TestNewKnowledgeNode_ConfidenceOutOfRange(t *testing.T) {
	if _, err := NewKnowledgeNode("n1", SourceObserved, StatusConfirmed, 1.5, ScopeFactual, StrengthStrong, ""); err == nil {
		t.Fatal("expected error for confidence > 1")
	}
	if _, err := NewKnowledgeNode("n1", SourceObserved, StatusConfirmed, -0.1, ScopeFactual, StrengthStrong, ""); err == nil {
		t.Fatal("expected error for confidence < 0")
	}
}

func TestNewKnowledgeNode_InvalidStrength(t *testing.T) {
	if _, err := NewKnowledgeNode("n1", SourceObserved, StatusConfirmed, 1.0, ScopeFactual, "medium", ""); err == nil {
		t.Fatal("expected error for unknown strength")
	}
}

func TestObservedNode_Defaults(t *testing.T) {
	node := ObservedNode("tool_x_123", "task_42")
	if node.Source != SourceObserved {
		t.Fatalf("expected observed source, got %s", node.Source)
	}
	if node.Status != StatusConfirmed {
		t.Fatalf("expected confirmed status, got %s", node.Status)
	}
	if node.Confidence != 1.0 {
		t.Fatalf("expected confidence 1.0, got %f", node.Confidence)
	}
	if node.Scope != ScopeFactual || node.Strength != StrengthStrong {
		t.Fatalf("unexpected scope/strength: %+v", node)
	}
	if node.SemanticID != "task_42" {
		t.Fatalf("expected semantic id task_42, got %q", node.SemanticID)
	}
}

func TestGroundSet_ScopeStrength(t *testing.T) {
	weak, _ := NewKnowledgeNode("w", SourceInferred, StatusHypothesis, 0.4, ScopeFactual, StrengthWeak, "")
	strong := ObservedNode("s", "")

	set := GroundSet{Nodes: []KnowledgeNode{weak}}
	strength, ok := set.ScopeStrength(ScopeFactual)
	if !ok || strength != StrengthWeak {
		t.Fatalf("expected weak, got %q ok=%v", strength, ok)
	}

	// Strong dominates weak within a scope.
	set.Nodes = append(set.Nodes, strong)
	strength, ok = set.ScopeStrength(ScopeFactual)
	if !ok || strength != StrengthStrong {
		t.Fatalf("expected strong, got %q ok=%v", strength, ok)
	}

	if _, ok := set.ScopeStrength(ScopeContextual); ok {
		t.Fatal("expected no contextual strength")
	}
}

func TestGroundSet_Queries(t *testing.T) {
	empty := GroundSet{}
	if !empty.IsEmpty() || empty.HasFactual() {
		t.Fatal("empty set must be empty and non-factual")
	}

	contextual, _ := NewKnowledgeNode("c", SourceExplicit, StatusCandidate, 0.6, ScopeContextual, StrengthWeak, "")
	set := GroundSet{Nodes: []KnowledgeNode{contextual}}
	if set.HasFactual() {
		t.Fatal("contextual-only set must not report factual")
	}
	if !set.HasScope(ScopeContextual) {
		t.Fatal("expected contextual scope present")
	}
	if set.HasStrongInScope(ScopeContextual) {
		t.Fatal("weak node must not report strong")
	}
}

func TestGroundSet_Resolve(t *testing.T) {
	node := ObservedNode("tool_tasks_item0_abc", "task_42")
	set := GroundSet{Nodes: []KnowledgeNode{node}}

	if _, ok := set.Resolve("missing"); ok {
		t.Fatal("expected no resolution for unknown id")
	}
	got, ok := set.Resolve("tool_tasks_item0_abc")
	if !ok || got.ID != node.ID {
		t.Fatal("expected resolution by canonical id")
	}
	got, ok = set.Resolve("task_42")
	if !ok || got.ID != node.ID {
		t.Fatal("expected resolution by semantic id")
	}
}

func TestGroundSet_ResolvePrefersCanonicalID(t *testing.T) {
	a := ObservedNode("node_a", "shared")
	b := ObservedNode("shared", "")
	set := GroundSet{Nodes: []KnowledgeNode{a, b}}

	got, ok := set.Resolve("shared")
	if !ok || got.ID != "shared" {
		t.Fatalf("expected canonical id match to win, got %+v", got)
	}
}
