package knowledge

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/olegische/normcore/internal/domain"
)

func testBuilder() *Builder {
	return NewBuilder(zap.NewNop())
}

func toolResult(name, callID, text string) domain.ToolResult {
	return domain.ToolResult{
		ToolName:   name,
		ToolCallID: callID,
		Arguments:  map[string]json.RawMessage{},
		ResultText: text,
	}
}

func TestBuild_ArrayResultMintsPerItemNodes(t *testing.T) {
	b := testBuilder()
	text := `[{"task_id":"42","title":"a"},{"task_id":"43","title":"b"}]`

	nodes := b.Build([]domain.ToolResult{toolResult("get_tasks", "call1", text)})
	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(nodes))
	}
	if nodes[0].SemanticID != "task_42" || nodes[1].SemanticID != "task_43" {
		t.Fatalf("unexpected semantic ids: %+v", nodes)
	}
	if !strings.HasPrefix(nodes[0].ID, "tool_get_tasks_item0_") {
		t.Fatalf("unexpected node id: %s", nodes[0].ID)
	}
	if nodes[0].Source != domain.SourceObserved || nodes[0].Strength != domain.StrengthStrong {
		t.Fatalf("unexpected node shape: %+v", nodes[0])
	}
}

func TestBuild_ArrayItemsWithoutEntityIDSkipped(t *testing.T) {
	b := testBuilder()
	text := `[{"task_id":"42"},{"title":"no id"}]`

	nodes := b.Build([]domain.ToolResult{toolResult("get_tasks", "call1", text)})
	if len(nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(nodes))
	}
	if nodes[0].SemanticID != "task_42" {
		t.Fatalf("unexpected semantic id: %s", nodes[0].SemanticID)
	}
}

func TestBuild_SingleObjectResult(t *testing.T) {
	b := testBuilder()
	text := `{"weather_id":"nyc_2026-02-07","temp":12}`

	nodes := b.Build([]domain.ToolResult{toolResult("get_weather", "callWeatherNYC", text)})
	if len(nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(nodes))
	}
	if nodes[0].SemanticID != "weather_nyc_2026-02-07" {
		t.Fatalf("unexpected semantic id: %s", nodes[0].SemanticID)
	}
	if !strings.HasPrefix(nodes[0].ID, "tool_get_weather_") {
		t.Fatalf("unexpected node id: %s", nodes[0].ID)
	}
}

func TestBuild_OpaqueTextResult(t *testing.T) {
	b := testBuilder()
	nodes := b.Build([]domain.ToolResult{toolResult("search", "call1", "plain text result")})
	if len(nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(nodes))
	}
	if nodes[0].SemanticID != "" {
		t.Fatalf("expected no semantic id, got %q", nodes[0].SemanticID)
	}
}

func TestBuild_EmptyToolNameBecomesUnknown(t *testing.T) {
	b := testBuilder()
	nodes := b.Build([]domain.ToolResult{toolResult("", "call1", "whatever")})
	if len(nodes) != 1 || !strings.HasPrefix(nodes[0].ID, "tool_unknown_") {
		t.Fatalf("unexpected nodes: %+v", nodes)
	}
}

func TestBuild_NonEpistemicToolsFiltered(t *testing.T) {
	b := testBuilder()
	results := []domain.ToolResult{
		toolResult("memory_save", "c1", "saved"),
		toolResult("get_user_cognitive_context", "c2", "ctx"),
		toolResult("update_profile", "c3", "done"),
		toolResult("get_user_preferences", "c4", "prefs"),
		toolResult("get_tasks", "c5", `{"task_id":"1"}`),
	}

	nodes := b.Build(results)
	if len(nodes) != 1 {
		t.Fatalf("expected only the observer tool to mint a node, got %d", len(nodes))
	}
	if nodes[0].SemanticID != "task_1" {
		t.Fatalf("unexpected node: %+v", nodes[0])
	}
}

func TestIsNonEpistemicTool_Families(t *testing.T) {
	denied := []string{
		"get_user_cognitive_context",
		"personalization_engine",
		"load_personal_context",
		"memory_save", "memory_notes", "load_memory_state", "memory_consolidation",
		"profile_update", "save_profile",
		"remember_this", "user_preference", "app_settings",
	}
	for _, name := range denied {
		if !IsNonEpistemicTool(name) {
			t.Fatalf("expected %q to be non-epistemic", name)
		}
	}

	allowed := []string{"get_weather", "get_tasks", "search", "memory_graph_query", "profile_lookup"}
	for _, name := range allowed {
		if IsNonEpistemicTool(name) {
			t.Fatalf("expected %q to be epistemic", name)
		}
	}
}

func TestBuildWithReferences_PrefersSemanticIDs(t *testing.T) {
	b := testBuilder()
	results := []domain.ToolResult{
		toolResult("get_tasks", "callA", `[{"task_id":"1"},{"task_id":"2"}]`),
		toolResult("search", "callB", "opaque"),
		toolResult("search", "", "no call id"),
	}

	_, refs := b.BuildWithReferences(results)
	if !reflect.DeepEqual(refs["callA"], []string{"task_1", "task_2"}) {
		t.Fatalf("unexpected refs for callA: %v", refs["callA"])
	}
	if len(refs["callB"]) != 1 || !strings.HasPrefix(refs["callB"][0], "tool_search_") {
		t.Fatalf("expected canonical id fallback for callB, got %v", refs["callB"])
	}
	if _, ok := refs[""]; ok {
		t.Fatal("results without a call id must not appear in refs")
	}
}

func TestMaterializeExternalGrounds_NoDuplicates(t *testing.T) {
	b := testBuilder()
	nodes := b.Build([]domain.ToolResult{toolResult("get_tasks", "c1", `{"task_id":"42"}`)})

	grounds := []domain.Ground{
		{CitationKey: "k1", GroundID: "task_42"},          // collides with semantic id
		{CitationKey: "k2", GroundID: nodes[0].ID},        // collides with canonical id
		{CitationKey: "k3", GroundID: "file_weather_feb"}, // new
	}

	expanded := b.MaterializeExternalGrounds(nodes, grounds)
	if len(expanded) != 2 {
		t.Fatalf("expected 2 nodes after materialization, got %d", len(expanded))
	}
	added := expanded[1]
	if added.ID != "file_weather_feb" || added.SemanticID != "file_weather_feb" {
		t.Fatalf("unexpected materialized node: %+v", added)
	}
	if added.Scope != domain.ScopeFactual || added.Strength != domain.StrengthStrong {
		t.Fatalf("materialized node must be strong factual: %+v", added)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	b := testBuilder()
	results := []domain.ToolResult{
		toolResult("get_tasks", "c1", `[{"item_key":"a"},{"item_key":"b"}]`),
		toolResult("get_weather", "c2", `{"weather_id":"x"}`),
		toolResult("search", "c3", "opaque text"),
	}

	first := b.Build(results)
	second := b.Build(results)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("expected identical node lists across builds")
	}
}

func TestExtractEntityID_KeySuffixWinsOverID(t *testing.T) {
	obj := map[string]json.RawMessage{
		"task_id":  json.RawMessage(`"42"`),
		"item_key": json.RawMessage(`"abc"`),
	}
	id, ok := extractEntityID(obj)
	if !ok || id != "item_abc" {
		t.Fatalf("expected item_abc, got %q ok=%v", id, ok)
	}
}

func TestExtractEntityID_NonStringValuesSkipped(t *testing.T) {
	obj := map[string]json.RawMessage{
		"task_id": json.RawMessage(`42`),
	}
	if _, ok := extractEntityID(obj); ok {
		t.Fatal("numeric id values must not produce an entity id")
	}
}

func TestStableIDFragment_Shape(t *testing.T) {
	frag := stableIDFragment("get_weather:{}:call1")
	if len(frag) != 10 {
		t.Fatalf("expected 10 hex chars, got %q", frag)
	}
	if frag != stableIDFragment("get_weather:{}:call1") {
		t.Fatal("fragment must be deterministic")
	}
	if frag == stableIDFragment("get_weather:{}:call2") {
		t.Fatal("different inputs must not collide on this input pair")
	}
}
