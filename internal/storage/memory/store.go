// Package memory keeps conversations in process memory.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"tapas_chat/internal/domain"
)

type Store struct {
	mu       sync.RWMutex
	sessions map[string][]domain.Message
}

func New() *Store {
	return &Store{sessions: make(map[string][]domain.Message)}
}

func (s *Store) Append(ctx context.Context, sessionID string, msgs ...domain.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := domain.ValidateAll(msgs); err != nil {
		return fmt.Errorf("append to %s: %w", sessionID, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], msgs...)
	return nil
}

// List returns a copy; callers cannot reorder the stored history.
func (s *Store) List(ctx context.Context, sessionID string) ([]domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.sessions[sessionID]), nil
}

func (s *Store) Get(ctx context.Context, sessionID, messageID string) (domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return domain.Message{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.sessions[sessionID] {
		if m.ID == messageID {
			return m, nil
		}
	}
	return domain.Message{}, fmt.Errorf("message %s in session %s: %w", messageID, sessionID, domain.ErrNotFound)
}
