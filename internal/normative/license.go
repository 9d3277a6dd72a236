package normative

import "github.com/olegische/normcore/internal/domain"

// LicenseDeriver maps a statement's ground set to the set of permitted
// modalities. Refusal is always permitted: an agent may decline regardless
// of what it knows.
type LicenseDeriver struct{}

// Derive picks the link-aware rule when an explicit link set is present,
// otherwise falls back to the conservative whole-ground-set rule.
func (d LicenseDeriver) Derive(grounds domain.GroundSet, links *domain.LinkSet) domain.License {
	if links != nil {
		return d.deriveWithLinks(grounds, *links)
	}
	return d.deriveConservative(grounds)
}

// deriveConservative: strong factual grounding licenses assertive speech,
// weak factual grounding licenses only conditional speech, anything less
// licenses refusal alone.
func (d LicenseDeriver) deriveConservative(grounds domain.GroundSet) domain.License {
	if grounds.IsEmpty() {
		return domain.NewLicense(domain.ModalityRefusal)
	}
	strength, ok := grounds.ScopeStrength(domain.ScopeFactual)
	if !ok {
		return domain.NewLicense(domain.ModalityRefusal)
	}
	if strength == domain.StrengthStrong {
		return domain.NewLicense(domain.ModalityAssertive, domain.ModalityConditional, domain.ModalityRefusal)
	}
	return domain.NewLicense(domain.ModalityConditional, domain.ModalityRefusal)
}

// deriveWithLinks considers only grounds the statement explicitly cites
// with the supports role. Disambiguation and context links never carry
// licensing weight.
func (d LicenseDeriver) deriveWithLinks(grounds domain.GroundSet, links domain.LinkSet) domain.License {
	var supports []domain.KnowledgeNode
	for _, link := range links.Links {
		if link.Role != domain.RoleSupports {
			continue
		}
		if node, ok := grounds.Resolve(link.GroundID); ok {
			supports = append(supports, node)
		}
	}

	hasFactual := false
	hasStrongFactual := false
	for _, node := range supports {
		if node.Scope != domain.ScopeFactual {
			continue
		}
		hasFactual = true
		if node.Strength == domain.StrengthStrong {
			hasStrongFactual = true
		}
	}

	if !hasFactual {
		return domain.NewLicense(domain.ModalityRefusal)
	}
	if hasStrongFactual {
		return domain.NewLicense(domain.ModalityAssertive, domain.ModalityConditional, domain.ModalityRefusal)
	}
	return domain.NewLicense(domain.ModalityConditional, domain.ModalityRefusal)
}

// FactualTrace summarizes the factual slice of a ground set.
type FactualTrace struct {
	Present   bool    `json:"present"`
	Strength  *string `json:"strength"`
	HasStrong bool    `json:"has_strong"`
}

// DerivationTrace records how a license was derived, for diagnostics.
type DerivationTrace struct {
	Mode                string       `json:"mode"`
	GroundSetSize       int          `json:"ground_set_size"`
	IsEmpty             bool         `json:"is_empty"`
	Factual             FactualTrace `json:"factual"`
	PermittedModalities []string     `json:"permitted_modalities"`
	SupportsLinksCount  *int         `json:"supports_links_count,omitempty"`
}

// DeriveWithTrace derives a license and reports the intermediate facts the
// decision rested on.
func (d LicenseDeriver) DeriveWithTrace(grounds domain.GroundSet, links *domain.LinkSet) (domain.License, DerivationTrace) {
	license := d.Derive(grounds, links)

	mode := "conservative"
	var supportsCount *int
	if links != nil {
		mode = "links"
		n := 0
		for _, link := range links.Links {
			if link.Role == domain.RoleSupports {
				n++
			}
		}
		supportsCount = &n
	}

	var strength *string
	if s, ok := grounds.ScopeStrength(domain.ScopeFactual); ok {
		strength = &s
	}

	return license, DerivationTrace{
		Mode:          mode,
		GroundSetSize: len(grounds.Nodes),
		IsEmpty:       grounds.IsEmpty(),
		Factual: FactualTrace{
			Present:   grounds.HasScope(domain.ScopeFactual),
			Strength:  strength,
			HasStrong: grounds.HasStrongInScope(domain.ScopeFactual),
		},
		PermittedModalities: license.Modalities(),
		SupportsLinksCount:  supportsCount,
	}
}
