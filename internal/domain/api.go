package domain

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Query string `json:"query"`
}

// ChatReply is the answer to a ChatRequest.
type ChatReply struct {
	Message
	Intent IntentKey `json:"intent"`
}

// IntroPayload is served at session start.
type IntroPayload struct {
	Intro       Message      `json:"intro"`
	Notice      *Message     `json:"notice,omitempty"`
	QuickTags   []QuickTag   `json:"quickTags"`
	InfoBubbles []InfoBubble `json:"infoBubbles"`
}

// ErrorPayload is the JSON body of every non-2xx response.
type ErrorPayload struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
}
