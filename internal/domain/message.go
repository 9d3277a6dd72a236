package domain

import "encoding/json"

// ConversationMessage is one message of the conversation under evaluation.
// Content is kept raw: it may be a plain string or a list of typed parts,
// and the evaluator decodes it through typed accessors. The core only reads
// these; it never mutates a conversation.
type ConversationMessage struct {
	Role         string
	Content      json.RawMessage
	ToolCallID   string
	ToolCalls    []ToolCall
	FunctionName string
}

// ToolCall is an assistant-declared tool invocation. Arguments stay raw for
// the same reason as message content: they may be an object or a string of
// embedded JSON.
type ToolCall struct {
	ID                string
	Kind              string
	FunctionName      string
	FunctionArguments json.RawMessage
	CustomName        string
	CustomInput       string
}

// ToolResult pairs an assistant tool call with the tool/function-role
// message that answered it.
type ToolResult struct {
	ToolName   string
	ToolCallID string
	Arguments  map[string]json.RawMessage
	ResultText string
}
