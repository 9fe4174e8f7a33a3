package domain

import "time"

type ResponseKind string

const (
	ResponseKindAnalysis   ResponseKind = "analysis"
	ResponseKindGeneration ResponseKind = "generation"
)

type SavedResponse struct {
	ID        int64        `json:"id"`
	Kind      ResponseKind `json:"type"`
	ImageName string       `json:"image,omitempty"`
	Prompt    string       `json:"prompt,omitempty"`
	Result    string       `json:"result"`
	CreatedAt time.Time    `json:"created_at"`
}

func NewAnalysis(imageName, description string) SavedResponse {
	return SavedResponse{
		Kind:      ResponseKindAnalysis,
		ImageName: imageName,
		Result:    description,
	}
}

func NewGeneration(prompt, imageURL string) SavedResponse {
	return SavedResponse{
		Kind:   ResponseKindGeneration,
		Prompt: prompt,
		Result: imageURL,
	}
}
