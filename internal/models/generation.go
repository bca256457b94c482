package models

// GenerationRequest is a single prompt sent to an LLM provider
type GenerationRequest struct {
	RequestID    string
	Operation    string // "questions" | "evaluation"
	SystemPrompt string
	Prompt       string
	MaxTokens    int
	Temperature  float64
}

type GenerationResponse struct {
	Content   string             `json:"content"`
	RequestID string             `json:"request_id"`
	Metadata  GenerationMetadata `json:"metadata"`
}

type GenerationMetadata struct {
	ProcessingTime int    `json:"processing_time_ms"`
	Provider       string `json:"provider"`
	Model          string `json:"model"`
}

// Prompt is a rendered system + user prompt pair
type Prompt struct {
	System string
	User   string
}
