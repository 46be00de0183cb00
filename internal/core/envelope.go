package core

// ContentTypeText is the only content block type the tools produce.
const ContentTypeText = "text"

// ToolResult is the standard response wrapper for all tool calls.
// Used by the stdio, TCP and HTTP transports.
type ToolResult struct {
	IsError bool      `json:"isError"`
	Content []Content `json:"content"`

	// Kind classifies failures for metrics, audit and the HTTP transport.
	// It is never serialized.
	Kind ErrorKind `json:"-"`
}

// Content is a single display block of a ToolResult.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// NewSuccess wraps message into a successful result.
func NewSuccess(message string) *ToolResult {
	return &ToolResult{
		IsError: false,
		Content: []Content{{Type: ContentTypeText, Text: message}},
	}
}

// NewFailure wraps message into a failed result of kind ErrorKindRemote.
func NewFailure(message string) *ToolResult {
	return NewKindFailure(ErrorKindRemote, message)
}

// NewKindFailure wraps message into a failed result of the given kind.
func NewKindFailure(kind ErrorKind, message string) *ToolResult {
	return &ToolResult{
		IsError: true,
		Content: []Content{{Type: ContentTypeText, Text: message}},
		Kind:    kind,
	}
}

// Text returns the text of the first content block.
func (r *ToolResult) Text() string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	return r.Content[0].Text
}

// Status is the audit/metrics status label of the result.
func (r *ToolResult) Status() string {
	if r.IsError {
		return "fail"
	}
	return "ok"
}
