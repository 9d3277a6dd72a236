package citation

import (
	"fmt"
	"sort"

	"github.com/olegische/normcore/internal/domain"
)

// BuildLinks emits one statement-ground link per ground whose citation key
// appears in the text, in citation-extraction order. Keys with no matching
// ground produce no links; that is the agent citing something unknown, not
// an error here.
func BuildLinks(text string, grounds []domain.Ground, statementID string) domain.LinkSet {
	byKey := make(map[string][]domain.Ground)
	for _, g := range grounds {
		byKey[g.CitationKey] = append(byKey[g.CitationKey], g)
	}

	var links []domain.StatementGroundLink
	for _, key := range ExtractKeys(text) {
		for _, g := range byKey[key] {
			evidence := g.EvidenceContent
			if evidence == "" {
				evidence = fmt.Sprintf("citation_key=%s", key)
			}
			links = append(links, domain.StatementGroundLink{
				StatementID: statementID,
				GroundID:    g.GroundID,
				Role:        g.Role,
				Provenance: domain.Provenance{
					Creator:         g.Creator,
					EvidenceKind:    g.EvidenceKind,
					EvidenceContent: evidence,
					Signature:       g.Signature,
				},
			})
		}
	}

	return domain.LinkSet{Links: links}
}

// GroundsFromToolCallRefs synthesizes grounds for the knowledge nodes each
// tool call produced, keyed by the tool call id, so a statement may cite a
// tool call directly. Iteration is sorted for deterministic output.
func GroundsFromToolCallRefs(refs map[string][]string) []domain.Ground {
	callIDs := make([]string, 0, len(refs))
	for id := range refs {
		callIDs = append(callIDs, id)
	}
	sort.Strings(callIDs)

	var out []domain.Ground
	for _, callID := range callIDs {
		for _, groundID := range refs[callID] {
			out = append(out, domain.Ground{
				CitationKey:     callID,
				GroundID:        groundID,
				Role:            domain.RoleSupports,
				Creator:         domain.CreatorToolObserver,
				EvidenceKind:    domain.EvidenceObservation,
				EvidenceContent: fmt.Sprintf("tool_call_id=%s", callID),
			})
		}
	}
	return out
}
