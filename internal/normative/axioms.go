package normative

import (
	"fmt"
	"strings"

	"github.com/olegische/normcore/internal/domain"
)

// Axiom identifiers reported on violations.
const (
	AxiomGrounding    = "A4"
	AxiomCategoricity = "A5"
	AxiomRefusal      = "A6"
	AxiomConditions   = "A7"
)

// AxiomChecker judges a single statement against its license and ground
// set. Rules are ordered; the first applicable rule decides.
type AxiomChecker struct{}

func (c AxiomChecker) Check(stmt domain.Statement, license domain.License, grounds domain.GroundSet) domain.AxiomCheckResult {
	if stmt.Modality == domain.ModalityRefusal {
		return domain.AxiomCheckResult{
			Status:      domain.StatusAcceptable,
			Explanation: "Explicit refusal is always admissible (A6)",
		}
	}

	if stmt.Modality == domain.ModalityAssertive && !license.Permits(domain.ModalityAssertive) {
		return domain.AxiomCheckResult{
			Status:        domain.StatusViolatesNorm,
			ViolatedAxiom: AxiomCategoricity,
			Explanation:   "Assertive statement without sufficient grounding (categoricity ban)",
		}
	}

	if stmt.Modality == domain.ModalityConditional {
		if license.Permits(domain.ModalityAssertive) {
			return domain.AxiomCheckResult{
				Status:      domain.StatusConditionallyAcceptable,
				Explanation: "Conditional form chosen by agent (ASSERTIVE also permitted by grounding)",
			}
		}
		if len(stmt.Conditions) > 0 {
			return domain.AxiomCheckResult{
				Status:      domain.StatusConditionallyAcceptable,
				Explanation: "Conditional statement with declared conditions: " + strings.Join(stmt.Conditions, ", "),
			}
		}
		return domain.AxiomCheckResult{
			Status:        domain.StatusUnsupported,
			ViolatedAxiom: AxiomConditions,
			Explanation:   "Conditional statement without declared conditions",
		}
	}

	isNormative := stmt.Modality == domain.ModalityAssertive || stmt.Modality == domain.ModalityConditional
	if isNormative && grounds.IsEmpty() {
		return domain.AxiomCheckResult{
			Status:        domain.StatusUnsupported,
			ViolatedAxiom: AxiomGrounding,
			Explanation:   "Normative claim without grounding",
		}
	}

	if stmt.Modality == domain.ModalityDescriptive {
		if grounds.HasFactual() {
			return domain.AxiomCheckResult{
				Status:      domain.StatusAcceptable,
				Explanation: "Descriptive statement grounded in factual knowledge",
			}
		}
		return domain.AxiomCheckResult{
			Status:        domain.StatusUnsupported,
			ViolatedAxiom: AxiomGrounding,
			Explanation:   "Descriptive statement without factual grounding",
		}
	}

	if stmt.Modality != "" {
		if license.Permits(stmt.Modality) {
			return domain.AxiomCheckResult{
				Status:      domain.StatusAcceptable,
				Explanation: fmt.Sprintf("Statement modality (%s) permitted by license", stmt.Modality),
			}
		}
		return domain.AxiomCheckResult{
			Status: domain.StatusUnderdetermined,
			Explanation: fmt.Sprintf("Cannot determine status (modality=%s, license=%s)",
				stmt.Modality, strings.Join(license.Modalities(), ", ")),
		}
	}

	return domain.AxiomCheckResult{
		Status:      domain.StatusUnderdetermined,
		Explanation: "Cannot determine status (modality=None)",
	}
}
