package redisad

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"tapas_chat/internal/domain"
)

// Store keeps each session as a Redis list of JSON messages, oldest first.
// Every append refreshes the session TTL.
type Store struct {
	c   *redis.Client
	ttl time.Duration
}

func NewStore(c *redis.Client, ttl time.Duration) *Store {
	return &Store{c: c, ttl: ttl}
}

func sessionKey(sessionID string) string { return "session:" + sessionID + ":messages" }

func (s *Store) Append(ctx context.Context, sessionID string, msgs ...domain.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	if err := domain.ValidateAll(msgs); err != nil {
		return fmt.Errorf("append to %s: %w", sessionID, err)
	}
	vals := make([]any, 0, len(msgs))
	for _, m := range msgs {
		b, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("encode message %s: %w", m.ID, err)
		}
		vals = append(vals, b)
	}
	key := sessionKey(sessionID)
	_, err := s.c.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.RPush(ctx, key, vals...)
		if s.ttl > 0 {
			p.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	return err
}

func (s *Store) List(ctx context.Context, sessionID string) ([]domain.Message, error) {
	raw, err := s.c.LRange(ctx, sessionKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Message, 0, len(raw))
	for _, r := range raw {
		var m domain.Message
		if err := json.Unmarshal([]byte(r), &m); err != nil {
			return nil, fmt.Errorf("decode session %s: %w", sessionID, err)
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, sessionID, messageID string) (domain.Message, error) {
	msgs, err := s.List(ctx, sessionID)
	if err != nil {
		return domain.Message{}, err
	}
	for _, m := range msgs {
		if m.ID == messageID {
			return m, nil
		}
	}
	return domain.Message{}, fmt.Errorf("message %s in session %s: %w", messageID, sessionID, domain.ErrNotFound)
}
