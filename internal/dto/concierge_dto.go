package dto

import (
	"ai-concierge-be/pkg/query"
)

type AskRequest struct {
	SessionId string `json:"session_id" validate:"required"`
	Text      string `json:"text" validate:"required"`
	// Language pins the response language for the session ("ja"/"en").
	// Empty means detect per turn.
	Language string `json:"language,omitempty"`
}

type AskResponse struct {
	SessionId string                 `json:"session_id"`
	Reply     *query.UnifiedResponse `json:"reply"`
}

type HistoryTurn struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

type HistoryResponse struct {
	SessionId string        `json:"session_id"`
	Turns     []HistoryTurn `json:"turns"`
}
