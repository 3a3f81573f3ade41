package store

import "tubemind-be/pkg/llm"

// Session is the in-memory state of one chat session between turns. It lives
// in the session cache, not the database: losing it only costs the warm
// history window, which is reloaded from persisted turns on reconnect.
type Session struct {
	ID      string // ChatSessionID
	UserID  string
	VideoID string // Video currently bound to the conversation, "" if none

	// Rolling conversation window used to build prompts. Most recent last.
	History []llm.Message

	// Route chosen for the last completed turn, for observability.
	LastRoute string
}

// AppendTurn records a completed user/assistant exchange, keeping the window
// bounded.
func (s *Session) AppendTurn(userMsg, aiMsg string) {
	s.History = append(s.History,
		llm.Message{Role: "user", Content: userMsg},
		llm.Message{Role: "assistant", Content: aiMsg},
	)
	const maxMessages = 10
	if len(s.History) > maxMessages {
		s.History = s.History[len(s.History)-maxMessages:]
	}
}
