package dto

type ChatTurn struct {
	Role    string `json:"role" validate:"oneof=user assistant"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Message string     `json:"message" validate:"required"`
	History []ChatTurn `json:"history,omitempty"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}
