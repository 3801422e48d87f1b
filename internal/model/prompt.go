package model

// PromptType identifies the kind of prompt: a writing suggestion or a
// drawing suggestion.
type PromptType string

const (
	PromptWriting PromptType = "writing"
	PromptDrawing PromptType = "drawing"
)

// Valid reports whether t is a known prompt type.
func (t PromptType) Valid() bool {
	return t == PromptWriting || t == PromptDrawing
}

// Prompt is a short suggestion served to inspire correspondence.
type Prompt struct {
	ID   int64      `json:"id"`
	Type PromptType `json:"type"`
	Text string     `json:"text"`
}
