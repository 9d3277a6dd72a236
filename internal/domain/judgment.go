package domain

// EvaluationStatus is the admissibility outcome for a statement or for the
// whole response. The seven values are closed: aggregation and axiom
// checking enumerate all of them explicitly.
type EvaluationStatus string

const (
	StatusAcceptable              EvaluationStatus = "acceptable"
	StatusConditionallyAcceptable EvaluationStatus = "conditionally_acceptable"
	StatusViolatesNorm            EvaluationStatus = "violates_norm"
	StatusUnsupported             EvaluationStatus = "unsupported"
	StatusIllFormed               EvaluationStatus = "ill_formed"
	StatusUnderdetermined         EvaluationStatus = "underdetermined"
	StatusNoNormativeContent      EvaluationStatus = "no_normative_content"
)

// AxiomCheckResult is the outcome of applying the axiom rule set to one
// statement. ViolatedAxiom is empty when no axiom is attributed.
type AxiomCheckResult struct {
	Status        EvaluationStatus
	ViolatedAxiom string
	Explanation   string
}

// StatementValidationResult carries the full per-statement evaluation,
// including the license and ground set that produced it.
type StatementValidationResult struct {
	Statement     Statement
	Status        EvaluationStatus
	License       License
	GroundSet     GroundSet
	ViolatedAxiom string
	Explanation   string
}

// ValidationResult is the internal aggregate over all statements of one
// response. The external AdmissibilityJudgment is rendered from it.
type ValidationResult struct {
	Status           EvaluationStatus
	Licensed         bool
	CanRetry         bool
	FeedbackHint     string
	ViolatedAxioms   []string
	StatementResults []StatementValidationResult
	Explanation      string
	NumStatements    int
	NumAcceptable    int
	GroundsAccepted  int
	GroundsCited     int
}

// GroundRef is one resolved ground in a statement's grounding trace.
type GroundRef struct {
	ID         string  `json:"id"`
	Scope      string  `json:"scope"`
	Source     string  `json:"source"`
	Status     string  `json:"status"`
	Confidence float64 `json:"confidence"`
	Strength   string  `json:"strength"`
	SemanticID *string `json:"semantic_id"`
}

// StatementEvaluation is the externally visible per-statement result.
// Optional fields are pointers so they serialize as explicit null rather
// than being omitted.
type StatementEvaluation struct {
	StatementID    string           `json:"statement_id"`
	Statement      string           `json:"statement"`
	Modality       string           `json:"modality"`
	License        []string         `json:"license"`
	Status         EvaluationStatus `json:"status"`
	ViolatedAxiom  *string          `json:"violated_axiom"`
	Explanation    string           `json:"explanation"`
	GroundingTrace []GroundRef      `json:"grounding_trace"`
	Subject        *string          `json:"subject"`
	Predicate      *string          `json:"predicate"`
}

// AdmissibilityJudgment is the aggregate verdict for one agent response.
// Every documented field is always present in the serialized form.
type AdmissibilityJudgment struct {
	Status               EvaluationStatus      `json:"status"`
	Licensed             bool                  `json:"licensed"`
	CanRetry             bool                  `json:"can_retry"`
	StatementEvaluations []StatementEvaluation `json:"statement_evaluations"`
	FeedbackHint         *string               `json:"feedback_hint"`
	ViolatedAxioms       []string              `json:"violated_axioms"`
	Explanation          string                `json:"explanation"`
	NumStatements        int                   `json:"num_statements"`
	NumAcceptable        int                   `json:"num_acceptable"`
	GroundsAccepted      int                   `json:"grounds_accepted"`
	GroundsCited         int                   `json:"grounds_cited"`
}
