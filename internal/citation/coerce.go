package citation

import (
	"encoding/json"
	"fmt"

	"github.com/olegische/normcore/internal/domain"
)

// ParseGrounds validates an explicit grounds array object-by-object.
// Entries that are not objects or that lack citation_key/ground_id are
// dropped silently; they are noise in an ancillary payload, not structural
// violations of the input.
func ParseGrounds(items []json.RawMessage) []domain.Ground {
	var grounds []domain.Ground
	for _, item := range items {
		obj, ok := decodeObject(item)
		if !ok {
			continue
		}
		citationKey, ok := stringField(obj, "citation_key")
		if !ok {
			continue
		}
		groundID, ok := stringField(obj, "ground_id")
		if !ok {
			continue
		}
		evidence, _ := stringField(obj, "evidence_content")
		signature, _ := stringField(obj, "signature")
		grounds = append(grounds, domain.Ground{
			CitationKey:     citationKey,
			GroundID:        groundID,
			Role:            domain.RoleSupports,
			Creator:         domain.CreatorUpstreamPipeline,
			EvidenceKind:    domain.EvidenceObservation,
			EvidenceContent: evidence,
			Signature:       signature,
		})
	}
	return grounds
}

// FilterTypedCitations keeps only the legacy typed citation objects that
// carry the required identifier for their kind: file_citation,
// container_file_citation and file_path need a file_id, url_citation needs
// a url. Unknown kinds are discarded.
func FilterTypedCitations(items []json.RawMessage) []json.RawMessage {
	var out []json.RawMessage
	for _, item := range items {
		if _, ok := typedCitationGroundID(item); ok {
			out = append(out, item)
		}
	}
	return out
}

// GroundsFromTypedCitations coerces typed citation objects into grounds,
// using the file id or URL as both the citation key and the ground id.
func GroundsFromTypedCitations(items []json.RawMessage) []domain.Ground {
	var grounds []domain.Ground
	for _, item := range items {
		groundID, ok := typedCitationGroundID(item)
		if !ok {
			continue
		}
		grounds = append(grounds, domain.Ground{
			CitationKey:     groundID,
			GroundID:        groundID,
			Role:            domain.RoleSupports,
			Creator:         domain.CreatorUpstreamPipeline,
			EvidenceKind:    domain.EvidenceObservation,
			EvidenceContent: "typed_citation",
		})
	}
	return grounds
}

// LinkSetFromTypedCitations builds supports-links directly from typed
// citations, for callers that already know which statement cites them.
func LinkSetFromTypedCitations(items []json.RawMessage, statementID string) domain.LinkSet {
	var links []domain.StatementGroundLink
	for idx, item := range items {
		groundID, ok := typedCitationGroundID(item)
		if !ok {
			continue
		}
		links = append(links, domain.StatementGroundLink{
			StatementID: statementID,
			GroundID:    groundID,
			Role:        domain.RoleSupports,
			Provenance: domain.Provenance{
				Creator:         domain.CreatorUpstreamPipeline,
				EvidenceKind:    domain.EvidenceObservation,
				EvidenceContent: fmt.Sprintf("typed_citation[%d]", idx),
			},
		})
	}
	return domain.LinkSet{Links: links}
}

// CoerceGroundsInput accepts either payload shape for the grounds array:
// explicit ground objects take precedence; if none parse, the array is
// retried as typed citations.
func CoerceGroundsInput(items []json.RawMessage) []domain.Ground {
	explicit := ParseGrounds(items)
	if len(explicit) > 0 {
		return explicit
	}
	return GroundsFromTypedCitations(FilterTypedCitations(items))
}

func typedCitationGroundID(item json.RawMessage) (string, bool) {
	obj, ok := decodeObject(item)
	if !ok {
		return "", false
	}
	kind, ok := stringField(obj, "type")
	if !ok {
		return "", false
	}
	switch kind {
	case "file_citation", "container_file_citation", "file_path":
		return stringField(obj, "file_id")
	case "url_citation":
		return stringField(obj, "url")
	}
	return "", false
}

func decodeObject(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false
	}
	return obj, true
}

func stringField(obj map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := obj[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
