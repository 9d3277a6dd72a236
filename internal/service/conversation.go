package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/olegische/normcore/internal/domain"
)

// ParseConversation decodes raw OpenAI-style chat messages into
// conversation messages. Unknown fields are ignored; malformed tool calls
// inside a message are skipped rather than failing the message.
func ParseConversation(messages []json.RawMessage) ([]domain.ConversationMessage, error) {
	out := make([]domain.ConversationMessage, 0, len(messages))
	for _, raw := range messages {
		obj, ok := decodeObject(raw)
		if !ok {
			return nil, fmt.Errorf("%w: message must be object", ErrInvalidMessage)
		}
		role, ok := stringField(obj, "role")
		if !ok {
			return nil, fmt.Errorf("%w: message.role is required", ErrInvalidMessage)
		}

		toolCalls, err := parseToolCalls(obj["tool_calls"])
		if err != nil {
			return nil, err
		}

		msg := domain.ConversationMessage{
			Role:      role,
			Content:   obj["content"],
			ToolCalls: toolCalls,
		}
		msg.ToolCallID, _ = stringField(obj, "tool_call_id")
		msg.FunctionName, _ = stringField(obj, "name")
		out = append(out, msg)
	}
	return out, nil
}

func parseToolCalls(raw json.RawMessage) ([]domain.ToolCall, error) {
	if isAbsent(raw) {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: tool_calls must be an array", ErrInvalidMessage)
	}

	var out []domain.ToolCall
	for _, item := range items {
		obj, ok := decodeObject(item)
		if !ok {
			continue
		}
		id, ok := stringField(obj, "id")
		if !ok {
			continue
		}
		call := domain.ToolCall{ID: id, Kind: "function"}
		if kind, ok := stringField(obj, "type"); ok {
			call.Kind = kind
		}
		if fn, ok := decodeObject(obj["function"]); ok {
			call.FunctionName, _ = stringField(fn, "name")
			call.FunctionArguments = fn["arguments"]
		}
		if custom, ok := decodeObject(obj["custom"]); ok {
			call.CustomName, _ = stringField(custom, "name")
			call.CustomInput, _ = stringField(custom, "input")
		}
		out = append(out, call)
	}
	return out, nil
}

// ExtractTextContent reads assistant or tool message content as plain
// text. Absent content is empty text. Structured content is accepted only
// as an array of text parts or an array of refusal parts; mixing the two
// hides a refusal inside normal prose, so it is rejected.
func ExtractTextContent(content json.RawMessage) (string, error) {
	if isAbsent(content) {
		return "", nil
	}

	var text string
	if err := json.Unmarshal(content, &text); err == nil {
		return text, nil
	}

	var parts []json.RawMessage
	if err := json.Unmarshal(content, &parts); err != nil {
		return "", ErrContentNotText
	}

	var textParts, refusalParts []string
	for _, part := range parts {
		obj, ok := decodeObject(part)
		if !ok {
			continue
		}
		kind, _ := stringField(obj, "type")
		switch kind {
		case "text":
			if s, ok := stringField(obj, "text"); ok {
				textParts = append(textParts, s)
			}
		case "refusal":
			if s, ok := stringField(obj, "refusal"); ok {
				refusalParts = append(refusalParts, s)
			}
		}
	}

	if len(refusalParts) > 0 && len(textParts) > 0 {
		return "", fmt.Errorf("%w: assistant content cannot mix text and refusal parts", ErrInvalidMessage)
	}
	if len(refusalParts) > 0 {
		return joinTrimmed(refusalParts), nil
	}
	return joinTrimmed(textParts), nil
}

// parseToolArgs accepts tool-call arguments either as a JSON object or as
// a string containing a JSON object, the two encodings chat APIs emit.
func parseToolArgs(raw json.RawMessage) map[string]json.RawMessage {
	if isAbsent(raw) {
		return map[string]json.RawMessage{}
	}
	if obj, ok := decodeObject(raw); ok {
		return obj
	}
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		if obj, ok := decodeObject(json.RawMessage(encoded)); ok {
			return obj
		}
	}
	return map[string]json.RawMessage{}
}

func decodeObject(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	if isAbsent(raw) {
		return nil, false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
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

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func joinTrimmed(parts []string) string {
	return strings.TrimSpace(strings.Join(parts, ""))
}
