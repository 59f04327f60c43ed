package dto

type GenerateRequest struct {
	SessionId  string `json:"session_id"`
	UserPrompt string `json:"user_prompt" validate:"required"`
}

type GenerateResult struct {
	RunId          string
	SessionId      string
	ExpandedPrompt string
	FileName       string
	Model          []byte
}
