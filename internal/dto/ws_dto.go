package dto

// ChatInbound is a single user turn on the chat socket. URL is optional once
// the session already knows its video.
type ChatInbound struct {
	Message string `json:"message" validate:"required"`
	URL     string `json:"url,omitempty"`
}

const (
	WsEventThought = "thought"
	WsEventResult  = "result"
	WsEventError   = "error"
)

// WsEvent is the envelope for every outbound chat socket frame. Thought
// frames carry only Data; the terminal result frame adds suggestions and
// scoring metadata.
type WsEvent struct {
	Type        string                 `json:"type"`
	Data        string                 `json:"data"`
	Suggestions []string               `json:"suggestions,omitempty"`
	Meta        map[string]interface{} `json:"meta,omitempty"`
}
