package service

import (
	"encoding/json"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/olegische/normcore/internal/domain"
)

func TestParseConversation_RolesAndToolCalls(t *testing.T) {
	messages := []json.RawMessage{
		json.RawMessage(`{"role": "user", "content": "what is the weather?"}`),
		json.RawMessage(`{"role": "assistant", "content": null, "tool_calls": [
			{"id": "call1", "type": "function", "function": {"name": "get_weather", "arguments": "{\"city\":\"NYC\"}"}},
			{"id": "call2", "custom": {"name": "lookup", "input": "plain text"}},
			{"type": "function", "function": {"name": "no_id_dropped"}},
			"not-an-object"
		]}`),
		json.RawMessage(`{"role": "tool", "tool_call_id": "call1", "content": "sunny"}`),
		json.RawMessage(`{"role": "function", "name": "legacy_search", "content": "ok"}`),
	}

	parsed, err := ParseConversation(messages)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(parsed) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(parsed))
	}

	assistant := parsed[1]
	if len(assistant.ToolCalls) != 2 {
		t.Fatalf("expected 2 tool calls (missing id and non-object dropped), got %d", len(assistant.ToolCalls))
	}
	first := assistant.ToolCalls[0]
	if first.ID != "call1" || first.Kind != "function" || first.FunctionName != "get_weather" {
		t.Fatalf("unexpected first tool call: %+v", first)
	}
	second := assistant.ToolCalls[1]
	if second.ID != "call2" || second.Kind != "function" || second.CustomName != "lookup" || second.CustomInput != "plain text" {
		t.Fatalf("unexpected second tool call: %+v", second)
	}

	if parsed[2].ToolCallID != "call1" {
		t.Fatalf("expected tool_call_id call1, got %q", parsed[2].ToolCallID)
	}
	if parsed[3].FunctionName != "legacy_search" {
		t.Fatalf("expected function name legacy_search, got %q", parsed[3].FunctionName)
	}
}

func TestParseConversation_NonObjectMessage(t *testing.T) {
	_, err := ParseConversation([]json.RawMessage{json.RawMessage(`"just a string"`)})
	if !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage, got %v", err)
	}
}

func TestParseConversation_MissingRole(t *testing.T) {
	_, err := ParseConversation([]json.RawMessage{json.RawMessage(`{"content": "hi"}`)})
	if err == nil || !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage, got %v", err)
	}
}

func TestParseConversation_ToolCallsNotArray(t *testing.T) {
	_, err := ParseConversation([]json.RawMessage{
		json.RawMessage(`{"role": "assistant", "tool_calls": {"id": "call1"}}`),
	})
	if !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage, got %v", err)
	}
}

func TestExtractTextContent_Variants(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"absent", "", ""},
		{"null", "null", ""},
		{"plain string", `"hello world"`, "hello world"},
		{"text parts", `[{"type": "text", "text": "first "}, {"type": "text", "text": "second"}]`, "first second"},
		{"refusal parts", `[{"type": "refusal", "refusal": "I won't answer."}]`, "I won't answer."},
		{"unknown parts ignored", `[{"type": "image_url", "image_url": "x"}, {"type": "text", "text": "kept"}]`, "kept"},
	}
	for _, tc := range cases {
		got, err := ExtractTextContent(json.RawMessage(tc.content))
		if err != nil {
			t.Fatalf("%s: expected no error, got %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestExtractTextContent_MixedPartsRejected(t *testing.T) {
	content := json.RawMessage(`[{"type": "text", "text": "sure"}, {"type": "refusal", "refusal": "no"}]`)
	_, err := ExtractTextContent(content)
	if !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage, got %v", err)
	}
}

func TestExtractTextContent_NotText(t *testing.T) {
	_, err := ExtractTextContent(json.RawMessage(`{"nested": true}`))
	if !errors.Is(err, ErrContentNotText) {
		t.Fatalf("expected ErrContentNotText, got %v", err)
	}
}

func TestParseToolArgs_Variants(t *testing.T) {
	if args := parseToolArgs(json.RawMessage(`{"city": "NYC"}`)); len(args) != 1 {
		t.Fatalf("expected 1 arg from object form, got %d", len(args))
	}
	if args := parseToolArgs(json.RawMessage(`"{\"city\": \"NYC\"}"`)); len(args) != 1 {
		t.Fatalf("expected 1 arg from string form, got %d", len(args))
	}
	if args := parseToolArgs(json.RawMessage(`"not json"`)); len(args) != 0 {
		t.Fatalf("expected empty args from garbage string, got %d", len(args))
	}
	if args := parseToolArgs(nil); len(args) != 0 {
		t.Fatalf("expected empty args from absent value, got %d", len(args))
	}
}

func TestExtractToolResults_FromTrajectory(t *testing.T) {
	trajectory := []domain.ConversationMessage{
		{
			Role:    "assistant",
			Content: json.RawMessage(`""`),
			ToolCalls: []domain.ToolCall{{
				ID:                "call1",
				Kind:              "function",
				FunctionName:      "search",
				FunctionArguments: json.RawMessage(`{"query": "tasks"}`),
			}},
		},
		{Role: "tool", ToolCallID: "call1", Content: json.RawMessage(`"found 2 tasks"`)},
		{Role: "tool", ToolCallID: "orphan", Content: json.RawMessage(`"stray result"`)},
		{Role: "function", FunctionName: "legacy", Content: json.RawMessage(`"legacy result"`)},
		{Role: "function", Content: json.RawMessage(`"nameless, skipped"`)},
	}

	results, err := NewEvaluator(zap.NewNop()).extractToolResults(trajectory)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	if results[0].ToolName != "search" || results[0].ToolCallID != "call1" || results[0].ResultText != "found 2 tasks" {
		t.Fatalf("unexpected matched result: %+v", results[0])
	}
	if len(results[0].Arguments) != 1 {
		t.Fatalf("expected parsed arguments, got %+v", results[0].Arguments)
	}
	if results[1].ToolName != "unknown" {
		t.Fatalf("unmatched tool message should be named unknown, got %q", results[1].ToolName)
	}
	if results[2].ToolName != "legacy" || results[2].ToolCallID != "" {
		t.Fatalf("unexpected legacy result: %+v", results[2])
	}
}
