// Package service wires the evaluation stages into the admissibility
// pipeline and owns input validation for every entry point (API, CLI,
// embedded use).
package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/olegische/normcore/internal/citation"
	"github.com/olegische/normcore/internal/domain"
	"github.com/olegische/normcore/internal/knowledge"
	"github.com/olegische/normcore/internal/normative"
)

const finalStatementID = "final_response"

// EvaluateInput is the full evaluation request. AgentOutput and
// Conversation are each optional but at least one must be present; when
// both are given, AgentOutput must match the last assistant message and
// serves as an integrity check. A nil Conversation means absent; an empty
// non-nil one is invalid.
type EvaluateInput struct {
	AgentOutput  *string
	Conversation []domain.ConversationMessage
	Grounds      []domain.Ground
}

// Evaluator runs the admissibility pipeline: tool results become knowledge
// nodes, the final assistant message becomes a statement, and axiom checks
// over the statement's license and grounds produce the judgment.
type Evaluator struct {
	logger    *zap.Logger
	extractor normative.StatementExtractor
	detector  normative.ModalityDetector
	builder   *knowledge.Builder
	matcher   normative.GroundMatcher
	deriver   normative.LicenseDeriver
	checker   normative.AxiomChecker
}

func NewEvaluator(logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{
		logger:  logger,
		builder: knowledge.NewBuilder(logger),
	}
}

// Evaluate validates the input and judges the final assistant message.
func (e *Evaluator) Evaluate(input EvaluateInput) (*domain.AdmissibilityJudgment, error) {
	if input.AgentOutput == nil && input.Conversation == nil {
		return nil, ErrMissingInput
	}

	var agentMessage domain.ConversationMessage
	var trajectory []domain.ConversationMessage

	if input.Conversation != nil {
		if len(input.Conversation) == 0 {
			return nil, ErrInvalidConversation
		}
		last := input.Conversation[len(input.Conversation)-1]
		if last.Role != "assistant" {
			return nil, ErrLastMessageNotAssistant
		}
		if input.AgentOutput != nil {
			actual, err := ExtractTextContent(last.Content)
			if err != nil {
				return nil, err
			}
			if actual != *input.AgentOutput {
				return nil, ErrAgentOutputMismatch
			}
		}
		agentMessage = last
		trajectory = input.Conversation
	} else {
		content, err := json.Marshal(*input.AgentOutput)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidJSON, err)
		}
		agentMessage = domain.ConversationMessage{Role: "assistant", Content: content}
		trajectory = []domain.ConversationMessage{agentMessage}
	}

	return e.evaluateMessage(agentMessage, trajectory, input.Grounds)
}

// EvaluateJSON parses a {agent_output, conversation, grounds} payload and
// evaluates it. Field type errors are reported as ErrInvalidJSON with
// detail; a non-string agent_output is ignored rather than rejected.
func (e *Evaluator) EvaluateJSON(payload []byte) (*domain.AdmissibilityJudgment, error) {
	obj, ok := decodeObject(payload)
	if !ok {
		return nil, fmt.Errorf("%w: payload must be object", ErrInvalidJSON)
	}

	input := EvaluateInput{}
	if s, ok := stringField(obj, "agent_output"); ok {
		input.AgentOutput = &s
	}

	if raw, present := obj["conversation"]; present && !isAbsent(raw) {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("%w: conversation must be an array", ErrInvalidJSON)
		}
		conversation, err := ParseConversation(items)
		if err != nil {
			return nil, err
		}
		if conversation == nil {
			conversation = []domain.ConversationMessage{}
		}
		input.Conversation = conversation
	}

	if raw, present := obj["grounds"]; present && !isAbsent(raw) {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("%w: grounds must be an array", ErrInvalidJSON)
		}
		input.Grounds = citation.CoerceGroundsInput(items)
	}

	return e.Evaluate(input)
}

func (e *Evaluator) evaluateMessage(agentMessage domain.ConversationMessage, trajectory []domain.ConversationMessage, grounds []domain.Ground) (*domain.AdmissibilityJudgment, error) {
	toolResults, err := e.extractToolResults(trajectory)
	if err != nil {
		return nil, err
	}
	nodes, toolCallRefs := e.builder.BuildWithReferences(toolResults)

	text, err := ExtractTextContent(agentMessage.Content)
	if err != nil {
		return nil, err
	}

	nodes = e.builder.MaterializeExternalGrounds(nodes, grounds)

	combined := make([]domain.Ground, 0, len(grounds))
	combined = append(combined, grounds...)
	combined = append(combined, citation.GroundsFromToolCallRefs(toolCallRefs)...)

	links := citation.BuildLinks(text, combined, finalStatementID)

	accepted := make(map[string]struct{}, len(combined))
	for _, g := range combined {
		accepted[g.GroundID] = struct{}{}
	}
	cited := make(map[string]struct{}, len(links.Links))
	for _, link := range links.Links {
		cited[link.GroundID] = struct{}{}
	}

	result := e.evaluateCore(text, nodes, &links)
	result.GroundsAccepted = len(accepted)
	result.GroundsCited = len(cited)

	judgment := e.toJudgment(result)
	e.logger.Debug("evaluated message",
		zap.String("status", string(judgment.Status)),
		zap.Bool("licensed", judgment.Licensed),
		zap.Int("num_statements", judgment.NumStatements),
		zap.Int("grounds_accepted", judgment.GroundsAccepted),
		zap.Int("grounds_cited", judgment.GroundsCited))
	return judgment, nil
}

// evaluateCore judges bare agent text against already-built knowledge.
// A nil link set selects the conservative licensing rule.
func (e *Evaluator) evaluateCore(agentOutput string, nodes []domain.KnowledgeNode, links *domain.LinkSet) domain.ValidationResult {
	if agentOutput == "" {
		return domain.ValidationResult{
			Status:      domain.StatusUnderdetermined,
			Explanation: "No content to validate",
		}
	}

	statements := e.extractor.Extract(agentOutput)
	if len(statements) == 0 {
		return domain.ValidationResult{
			Status:      domain.StatusNoNormativeContent,
			Explanation: "Protocol-only output (greetings/offers) - no normative claims to evaluate",
		}
	}

	var statementResults []domain.StatementValidationResult
	var axiomResults []domain.AxiomCheckResult

	for _, stmt := range statements {
		stmt = e.detector.Detect(stmt)
		groundSet := e.matcher.Match(stmt, nodes)

		var license domain.License
		if stmt.Modality == domain.ModalityDescriptive {
			// Descriptive statements are judged on factual grounding alone;
			// they carry no modality license.
			license = domain.NewLicense()
		} else {
			license = e.deriver.Derive(groundSet, links)
		}

		result := e.checker.Check(stmt, license, groundSet)
		axiomResults = append(axiomResults, result)
		statementResults = append(statementResults, domain.StatementValidationResult{
			Statement:     stmt,
			Status:        result.Status,
			License:       license,
			GroundSet:     groundSet,
			ViolatedAxiom: result.ViolatedAxiom,
			Explanation:   result.Explanation,
		})
	}

	return e.aggregate(axiomResults, statementResults)
}

// aggregate folds per-statement results into one verdict. Precedence:
// violation, then ill-formed, then underdetermined, then unsupported,
// then conditional, then acceptable.
func (e *Evaluator) aggregate(axiomResults []domain.AxiomCheckResult, statementResults []domain.StatementValidationResult) domain.ValidationResult {
	var violations []string
	for _, r := range axiomResults {
		if r.ViolatedAxiom != "" {
			violations = append(violations, r.ViolatedAxiom)
		}
	}

	anyStatus := func(status domain.EvaluationStatus) bool {
		for _, r := range axiomResults {
			if r.Status == status {
				return true
			}
		}
		return false
	}
	allStatus := func(status domain.EvaluationStatus) bool {
		for _, r := range axiomResults {
			if r.Status != status {
				return false
			}
		}
		return len(axiomResults) > 0
	}

	result := domain.ValidationResult{
		ViolatedAxioms:   violations,
		StatementResults: statementResults,
		NumStatements:    len(statementResults),
	}

	switch {
	case anyStatus(domain.StatusViolatesNorm):
		result.Status = domain.StatusViolatesNorm
		result.CanRetry = true
		result.FeedbackHint = fmt.Sprintf(
			"Your response violates normative axioms: %s. Please revise or refuse to answer if you lack required context.",
			strings.Join(violations, ", "))
		result.Explanation = fmt.Sprintf("Violated axioms: %v", violations)
	case anyStatus(domain.StatusIllFormed):
		result.Status = domain.StatusIllFormed
		result.CanRetry = true
		result.FeedbackHint = "Your response is structurally ill-formed. Please rephrase with clear subject-predicate statements."
		result.Explanation = "Structurally ill-formed statements detected"
	case anyStatus(domain.StatusUnderdetermined):
		result.Status = domain.StatusUnderdetermined
		result.Explanation = "Validator has no jurisdiction to judge"
	case anyStatus(domain.StatusUnsupported):
		result.Status = domain.StatusUnsupported
		result.Licensed = true
		result.CanRetry = true
		result.FeedbackHint = "Your statements lack required grounding. Consider asking for more context or using conditional phrasing."
		result.Explanation = "Statements lack required grounding (A4)"
	case allStatus(domain.StatusConditionallyAcceptable):
		result.Status = domain.StatusConditionallyAcceptable
		result.Licensed = true
		result.Explanation = "All statements are conditionally acceptable"
	case anyStatus(domain.StatusConditionallyAcceptable):
		result.Status = domain.StatusConditionallyAcceptable
		result.Licensed = true
		result.Explanation = "Mix of conditional and acceptable statements"
	default:
		result.Status = domain.StatusAcceptable
		result.Licensed = true
		result.Explanation = "All statements are normatively acceptable"
	}

	for _, r := range axiomResults {
		if r.Status == domain.StatusAcceptable || r.Status == domain.StatusConditionallyAcceptable {
			result.NumAcceptable++
		}
	}
	return result
}

func (e *Evaluator) toJudgment(result domain.ValidationResult) *domain.AdmissibilityJudgment {
	evaluations := make([]domain.StatementEvaluation, 0, len(result.StatementResults))
	violatedAxioms := make([]string, 0)

	for _, stmt := range result.StatementResults {
		modality := "unknown"
		if stmt.Statement.Modality != "" {
			modality = string(stmt.Statement.Modality)
		}

		trace := make([]domain.GroundRef, 0, len(stmt.GroundSet.Nodes))
		for _, node := range stmt.GroundSet.Nodes {
			ref := domain.GroundRef{
				ID:         node.ID,
				Scope:      string(node.Scope),
				Source:     string(node.Source),
				Status:     string(node.Status),
				Confidence: node.Confidence,
				Strength:   node.Strength,
			}
			if node.SemanticID != "" {
				semanticID := node.SemanticID
				ref.SemanticID = &semanticID
			}
			trace = append(trace, ref)
		}

		eval := domain.StatementEvaluation{
			StatementID:    stmt.Statement.ID,
			Statement:      stmt.Statement.RawText,
			Modality:       modality,
			License:        stmt.License.Modalities(),
			Status:         stmt.Status,
			Explanation:    stmt.Explanation,
			GroundingTrace: trace,
		}
		subject, predicate := stmt.Statement.Subject, stmt.Statement.Predicate
		eval.Subject = &subject
		eval.Predicate = &predicate
		if stmt.ViolatedAxiom != "" {
			axiom := stmt.ViolatedAxiom
			eval.ViolatedAxiom = &axiom
			violatedAxioms = append(violatedAxioms, axiom)
		}
		evaluations = append(evaluations, eval)
	}

	judgment := &domain.AdmissibilityJudgment{
		Status:               result.Status,
		Licensed:             result.Licensed,
		CanRetry:             result.CanRetry,
		StatementEvaluations: evaluations,
		ViolatedAxioms:       violatedAxioms,
		Explanation:          result.Explanation,
		NumStatements:        result.NumStatements,
		NumAcceptable:        result.NumAcceptable,
		GroundsAccepted:      result.GroundsAccepted,
		GroundsCited:         result.GroundsCited,
	}
	if result.FeedbackHint != "" {
		hint := result.FeedbackHint
		judgment.FeedbackHint = &hint
	}
	return judgment
}

// extractToolResults pairs tool-role messages with the assistant tool
// calls that produced them. Tool messages with no matching call are kept
// under the name "unknown"; legacy function-role messages are accepted
// when they carry a name.
func (e *Evaluator) extractToolResults(trajectory []domain.ConversationMessage) ([]domain.ToolResult, error) {
	type callInfo struct {
		name string
		args map[string]json.RawMessage
	}
	callByID := make(map[string]callInfo)
	for _, message := range trajectory {
		if message.Role != "assistant" {
			continue
		}
		for _, call := range message.ToolCalls {
			if call.Kind != "function" {
				continue
			}
			name := call.FunctionName
			if name == "" {
				name = "unknown"
			}
			callByID[call.ID] = callInfo{name: name, args: parseToolArgs(call.FunctionArguments)}
		}
	}

	var results []domain.ToolResult
	for _, message := range trajectory {
		switch message.Role {
		case "tool":
			info, ok := callByID[message.ToolCallID]
			if !ok {
				info = callInfo{name: "unknown", args: map[string]json.RawMessage{}}
			}
			content, err := ExtractTextContent(message.Content)
			if err != nil {
				return nil, err
			}
			results = append(results, domain.ToolResult{
				ToolName:   info.name,
				ToolCallID: message.ToolCallID,
				Arguments:  info.args,
				ResultText: content,
			})
		case "function":
			if message.FunctionName == "" {
				continue
			}
			content, err := ExtractTextContent(message.Content)
			if err != nil {
				return nil, err
			}
			results = append(results, domain.ToolResult{
				ToolName:   message.FunctionName,
				Arguments:  map[string]json.RawMessage{},
				ResultText: content,
			})
		}
	}
	return results, nil
}
