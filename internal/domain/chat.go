package domain

import "time"

// Chat message senders.
const (
	MessageTypeUser      = "user"
	MessageTypeAssistant = "assistant"
)

// ChatMessage is a single turn in a tutoring conversation. History is owned
// by the client; the server never stores it.
type ChatMessage struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	Content         string    `json:"content"`
	Timestamp       time.Time `json:"timestamp"`
	SuggestedTopics []string  `json:"suggestedTopics,omitempty"`
}

// ChatRequest is what the client sends to the tutor.
type ChatRequest struct {
	UserMessage    string `json:"user_message"`
	AgeGroup       string `json:"age_group"`
	KnowledgeLevel string `json:"knowledge_level"`
	Language       string `json:"language"`
	Subject        string `json:"subject"`
	Location       string `json:"location"`
}

// ChatReply is the tutor's answer.
type ChatReply struct {
	Reply           string   `json:"reply"`
	SuggestedTopics []string `json:"suggested_topics"`
}
