package domain

import "sort"

// License is the set of modalities a statement is permitted to use. It is
// always derived from grounding (see the license deriver); callers never
// assemble one field by field.
type License struct {
	permitted map[Modality]bool
}

func NewLicense(modalities ...Modality) License {
	permitted := make(map[Modality]bool, len(modalities))
	for _, m := range modalities {
		permitted[m] = true
	}
	return License{permitted: permitted}
}

func (l License) Permits(m Modality) bool {
	return l.permitted[m]
}

// Modalities returns the permitted modalities as sorted strings, for
// deterministic rendering.
func (l License) Modalities() []string {
	out := make([]string, 0, len(l.permitted))
	for m := range l.permitted {
		out = append(out, string(m))
	}
	sort.Strings(out)
	return out
}
