package monitor

import (
	"fmt"
	"time"

	"palette-hq/scout/pkg/classifier"
)

// ChatMessage is one message observed in a chat channel.
type ChatMessage struct {
	ID        string    `json:"id"`
	Channel   string    `json:"channel,omitempty"`
	Author    string    `json:"author,omitempty"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Result is published for every processed message.
type Result struct {
	Message     ChatMessage                `json:"message"`
	RecordID    string                     `json:"record_id,omitempty"`
	Analysis    classifier.MessageAnalysis `json:"analysis"`
	Brief       string                     `json:"brief,omitempty"`
	BriefError  string                     `json:"brief_error,omitempty"`
	ProcessedAt time.Time                  `json:"processed_at"`
}

// DecodeError reports a malformed input message. Run logs and skips it.
type DecodeError struct {
	Source string
	Offset int64
	Cause  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error [source=%s, offset=%d]: %v", e.Source, e.Offset, e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}
