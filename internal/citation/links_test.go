package citation

import (
	"testing"

	"github.com/olegische/normcore/internal/domain"
)

func TestBuildLinks_MatchesCitedKeysOnly(t *testing.T) {
	grounds := []domain.Ground{
		{CitationKey: "cited", GroundID: "g1", Role: domain.RoleSupports, Creator: domain.CreatorHuman, EvidenceKind: domain.EvidenceExplicit},
		{CitationKey: "uncited", GroundID: "g2", Role: domain.RoleSupports, Creator: domain.CreatorHuman, EvidenceKind: domain.EvidenceExplicit},
	}

	links := BuildLinks("The answer is here [@cited].", grounds, "final_response")
	if len(links.Links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(links.Links))
	}
	link := links.Links[0]
	if link.GroundID != "g1" || link.StatementID != "final_response" {
		t.Fatalf("unexpected link: %+v", link)
	}
	if link.Provenance.EvidenceContent != "citation_key=cited" {
		t.Fatalf("expected default evidence content, got %q", link.Provenance.EvidenceContent)
	}
}

func TestBuildLinks_MultipleGroundsPerKey(t *testing.T) {
	grounds := []domain.Ground{
		{CitationKey: "k", GroundID: "g1", Role: domain.RoleSupports, EvidenceContent: "first"},
		{CitationKey: "k", GroundID: "g2", Role: domain.RoleContextualizes, EvidenceContent: "second"},
	}

	links := BuildLinks("[@k]", grounds, "final_response")
	if len(links.Links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(links.Links))
	}
	if links.Links[0].Role != domain.RoleSupports || links.Links[1].Role != domain.RoleContextualizes {
		t.Fatalf("roles must carry over from grounds: %+v", links.Links)
	}
	if links.Links[0].Provenance.EvidenceContent != "first" {
		t.Fatal("explicit evidence content must be preserved")
	}
}

func TestBuildLinks_NoCitations(t *testing.T) {
	grounds := []domain.Ground{{CitationKey: "k", GroundID: "g1"}}
	links := BuildLinks("no citations here", grounds, "final_response")
	if len(links.Links) != 0 {
		t.Fatalf("expected no links, got %d", len(links.Links))
	}
}

func TestGroundsFromToolCallRefs_SortedAndShaped(t *testing.T) {
	refs := map[string][]string{
		"callB": {"tool_b_1"},
		"callA": {"tool_a_1", "tool_a_2"},
	}

	grounds := GroundsFromToolCallRefs(refs)
	if len(grounds) != 3 {
		t.Fatalf("expected 3 grounds, got %d", len(grounds))
	}
	if grounds[0].CitationKey != "callA" || grounds[2].CitationKey != "callB" {
		t.Fatalf("expected call ids in sorted order, got %+v", grounds)
	}
	g := grounds[0]
	if g.Role != domain.RoleSupports || g.Creator != domain.CreatorToolObserver || g.EvidenceKind != domain.EvidenceObservation {
		t.Fatalf("unexpected ground shape: %+v", g)
	}
	if g.EvidenceContent != "tool_call_id=callA" {
		t.Fatalf("unexpected evidence content: %q", g.EvidenceContent)
	}
}
