package core

import "context"

// InboundMessage is one message fetched from the chat backend.
// SenderID is 0 for backend-internal messages that carry no author,
// and Text is empty for non-text content.
type InboundMessage struct {
	SequenceID int64
	ChatID     int64
	SenderID   int64
	Text       string
}

// MessageHandler produces the reply text for one inbound message.
// An empty return means no reply is sent.
type MessageHandler func(ctx context.Context, msg InboundMessage) string

// Transport is the narrow slice of a chat backend the poller needs:
// a long-poll fetch of messages past a cursor, and a plain-text reply
// into a chat.
type Transport interface {
	// FetchBatch returns messages with sequence ID at or after cursor,
	// in increasing order. A zero cursor fetches everything the
	// backend still buffers. The call may block up to the backend's
	// long-poll wait before returning an empty batch.
	FetchBatch(ctx context.Context, cursor int64) ([]InboundMessage, error)

	// SendReply delivers text into the given chat.
	SendReply(ctx context.Context, chatID int64, text string) error
}
