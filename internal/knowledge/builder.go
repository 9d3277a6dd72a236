// Package knowledge converts tool-call results into knowledge nodes.
//
// Only externally verifiable observer tools may contribute evidence;
// personalization and memory artifacts are filtered out so the agent cannot
// license its own claims through the tool boundary. The builder does not
// interpret meaning or infer new knowledge — it only admits or rejects
// candidate atoms for normative use.
package knowledge

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/olegische/normcore/internal/domain"
)

type Builder struct {
	logger *zap.Logger
}

func NewBuilder(logger *zap.Logger) *Builder {
	return &Builder{logger: logger}
}

func (b *Builder) Build(toolResults []domain.ToolResult) []domain.KnowledgeNode {
	nodes, _ := b.BuildWithReferences(toolResults)
	return nodes
}

// BuildWithReferences builds knowledge nodes and, per tool-call id, the list
// of node ids (semantic when available) it produced. The reference map lets
// later stages synthesize citation grounds when the agent cites a tool call
// id directly.
func (b *Builder) BuildWithReferences(toolResults []domain.ToolResult) ([]domain.KnowledgeNode, map[string][]string) {
	var nodes []domain.KnowledgeNode
	refs := make(map[string][]string)

	for _, result := range toolResults {
		produced := b.toolResultToKnowledge(result)
		if len(produced) == 0 {
			continue
		}
		if result.ToolCallID != "" {
			ids := make([]string, 0, len(produced))
			for _, node := range produced {
				if node.SemanticID != "" {
					ids = append(ids, node.SemanticID)
				} else {
					ids = append(ids, node.ID)
				}
			}
			refs[result.ToolCallID] = ids
		}
		nodes = append(nodes, produced...)
	}

	b.logger.Debug("built knowledge nodes from tool results",
		zap.Int("nodes", len(nodes)),
		zap.Int("tool_results", len(toolResults)),
	)
	return nodes, refs
}

// MaterializeExternalGrounds adds an observed node for every ground id not
// already present as a node id or semantic id. Existing nodes are never
// overwritten or duplicated.
func (b *Builder) MaterializeExternalGrounds(nodes []domain.KnowledgeNode, grounds []domain.Ground) []domain.KnowledgeNode {
	if len(grounds) == 0 {
		return nodes
	}

	existing := make(map[string]bool, len(nodes)*2)
	for _, node := range nodes {
		existing[node.ID] = true
		if node.SemanticID != "" {
			existing[node.SemanticID] = true
		}
	}

	expanded := nodes
	for _, ground := range grounds {
		if existing[ground.GroundID] {
			continue
		}
		expanded = append(expanded, domain.ObservedNode(ground.GroundID, ground.GroundID))
	}
	return expanded
}

func (b *Builder) toolResultToKnowledge(result domain.ToolResult) []domain.KnowledgeNode {
	toolName := result.ToolName
	if toolName == "" {
		toolName = "unknown"
	}
	if IsNonEpistemicTool(toolName) {
		b.logger.Debug("filtered non-epistemic tool result", zap.String("tool", toolName))
		return nil
	}

	if many, ok := extractSemanticIDs(result.ResultText); ok {
		nodes := make([]domain.KnowledgeNode, 0, len(many))
		for idx, semanticID := range many {
			stable := stableIDFragment(fmt.Sprintf("%s:%s", toolName, semanticID))
			id := fmt.Sprintf("tool_%s_item%d_%s", toolName, idx, stable)
			nodes = append(nodes, domain.ObservedNode(id, semanticID))
		}
		return nodes
	}

	semanticID := extractSingleSemanticID(result.ResultText)
	stable := stableIDFragment(fmt.Sprintf("%s:%s:%s", toolName, result.ResultText, result.ToolCallID))
	id := fmt.Sprintf("tool_%s_%s", toolName, stable)
	return []domain.KnowledgeNode{domain.ObservedNode(id, semanticID)}
}

// IsNonEpistemicTool reports whether a tool name belongs to the
// personalization/memory/profile/preference families that must not mint
// evidence. The match is a fixed, case-insensitive keyword denylist; any
// name it does not match is treated as evidentiary.
func IsNonEpistemicTool(toolName string) bool {
	name := strings.ToLower(toolName)

	if name == "get_user_cognitive_context" {
		return true
	}
	if strings.Contains(name, "personalization") || strings.Contains(name, "personal_context") {
		return true
	}
	if strings.Contains(name, "memory") && containsAny(name, "save", "note", "notes", "load", "consolidat", "distill", "state") {
		return true
	}
	if strings.Contains(name, "profile") && containsAny(name, "save", "set", "update", "load", "consolidat") {
		return true
	}
	return containsAny(name, "remember", "preference", "preferences", "setting", "settings")
}

func containsAny(name string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(name, n) {
			return true
		}
	}
	return false
}

// extractSemanticIDs parses the result text as a JSON array of objects and
// collects one semantic id per item that carries an entity field. ok is
// false when the text is not such an array or no item matched.
func extractSemanticIDs(resultText string) ([]string, bool) {
	if strings.TrimSpace(resultText) == "" {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(resultText), &items); err != nil {
		return nil, false
	}
	var ids []string
	for _, item := range items {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(item, &obj); err != nil {
			continue
		}
		if id, ok := extractEntityID(obj); ok {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, false
	}
	return ids, true
}

func extractSingleSemanticID(resultText string) string {
	if strings.TrimSpace(resultText) == "" {
		return ""
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(resultText), &obj); err != nil {
		return ""
	}
	id, _ := extractEntityID(obj)
	return id
}

// extractEntityID applies the entity-id convention: a field ending in _key
// wins over one ending in _id, fields checked in lexicographic order so the
// result is independent of map iteration order. Only string values count.
func extractEntityID(obj map[string]json.RawMessage) (string, bool) {
	fields := make([]string, 0, len(obj))
	for field := range obj {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, suffix := range []string{"_key", "_id"} {
		for _, field := range fields {
			prefix, ok := strings.CutSuffix(field, suffix)
			if !ok {
				continue
			}
			var value string
			if err := json.Unmarshal(obj[field], &value); err != nil {
				continue
			}
			return fmt.Sprintf("%s_%s", prefix, value), true
		}
	}
	return "", false
}

// stableIDFragment derives the deterministic id suffix: FNV-1a 64 over the
// input, rendered as 16 lowercase hex digits, truncated to 10.
func stableIDFragment(value string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(value))
	return fmt.Sprintf("%016x", h.Sum64())[:10]
}
