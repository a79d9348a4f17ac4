package domain

import "context"

// ConversationStore is append-only and ordered per session.
type ConversationStore interface {
	Append(ctx context.Context, sessionID string, msgs ...Message) error
	List(ctx context.Context, sessionID string) ([]Message, error)
	Get(ctx context.Context, sessionID, messageID string) (Message, error)
}

// AssistantClient delivers one raw, untyped assistant response per prompt.
type AssistantClient interface {
	Ask(ctx context.Context, sessionID, prompt string) (any, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
