package service

import "errors"

// Structural input errors. All are reported before any evaluation runs;
// an error here means the input could not be judged, not that it was judged
// inadmissible.
var (
	ErrMissingInput            = errors.New("agent_output or conversation is required")
	ErrInvalidConversation     = errors.New("conversation must be a non-empty array")
	ErrLastMessageNotAssistant = errors.New("last conversation message must have role assistant")
	ErrContentNotText          = errors.New("assistant content is not textual")
	ErrAgentOutputMismatch     = errors.New("agent_output does not match last assistant message")
	ErrInvalidJSON             = errors.New("invalid json payload")
	ErrInvalidMessage          = errors.New("invalid conversation message")
)
