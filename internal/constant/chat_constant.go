package constant

const (
	ChatMessageRoleUser  = "user"
	ChatMessageRoleModel = "model"

	// HistoryWindow is how many persisted turns a session keeps in memory.
	HistoryWindow = 10

	// TranscriptChunkSize / TranscriptChunkOverlap drive transcript splitting.
	TranscriptChunkSize    = 1000
	TranscriptChunkOverlap = 100

	// TranscriptWordsPerSecond estimates a chunk's position in the video
	// from how many words precede it.
	TranscriptWordsPerSecond = 2.5

	// Groq Configuration
	GroqDefaultBaseURL = "https://api.groq.com/openai/v1"
	GroqDefaultModel   = "llama-3.3-70b-versatile"

	// Ollama Configuration
	OllamaDefaultBaseURL = "http://localhost:11434"
	OllamaDefaultModel   = "llama3.1:8b"
)
