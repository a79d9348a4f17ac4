package app

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"tapas_chat/internal/adapters/observability"
	"tapas_chat/internal/classify"
	"tapas_chat/internal/domain"
)

const FallbackText = "I'm having trouble reaching the server right now. Please try again."

var (
	GreetingReplies = []string{"Book Flight", "Find Hotels", "Trip planning"}
	FallbackReplies = []string{"Book Flight", "Find Hotels", "Cancel Ticket"}
)

// ChatService runs one prompt through the assistant and records both sides of the exchange.
type ChatService struct {
	store      domain.ConversationStore
	client     domain.AssistantClient
	classifier *classify.Classifier
	botName    string
	newID      func() string

	mu       sync.Mutex
	inflight map[string]int
}

func NewChatService(store domain.ConversationStore, client domain.AssistantClient, c *classify.Classifier, botName string) *ChatService {
	if botName == "" {
		botName = "TAPAS"
	}
	return &ChatService{
		store:      store,
		client:     client,
		classifier: c,
		botName:    botName,
		newID:      uuid.NewString,
		inflight:   map[string]int{},
	}
}

// WithIDFunc replaces the id generator for sessions and user/fallback messages.
func (s *ChatService) WithIDFunc(f func() string) *ChatService {
	s.newID = f
	return s
}

func (s *ChatService) greeting() domain.Message {
	text := fmt.Sprintf("Hi! I'm %s, your travel assistant. I can help you book flights and hotels or manage your trips.", s.botName)
	return domain.NewText(s.newID(), domain.SenderBot, text, GreetingReplies...)
}

// Start opens a session. An empty id gets a fresh one. A session with history is
// returned as is; a new one is seeded with the greeting.
func (s *ChatService) Start(ctx context.Context, sessionID string) (string, []domain.Message, error) {
	if sessionID == "" {
		sessionID = s.newID()
	}
	existing, err := s.store.List(ctx, sessionID)
	if err != nil {
		return "", nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	if len(existing) > 0 {
		return sessionID, existing, nil
	}
	g := s.greeting()
	if err := s.store.Append(ctx, sessionID, g); err != nil {
		return "", nil, fmt.Errorf("seed session %s: %w", sessionID, err)
	}
	return sessionID, []domain.Message{g}, nil
}

// Send records the user's text, asks the assistant and records the classified reply.
// Transport failures never surface; they become the fallback message.
// Returned messages are the bot's new messages, in order.
func (s *ChatService) Send(ctx context.Context, sessionID, text string) ([]domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrEmptyPrompt
	}
	if err := s.store.Append(ctx, sessionID, domain.NewText(s.newID(), domain.SenderUser, text)); err != nil {
		return nil, fmt.Errorf("append prompt: %w", err)
	}

	s.begin(sessionID)
	defer s.end(sessionID)

	var out []domain.Message
	payload, err := s.client.Ask(ctx, sessionID, text)
	if err != nil {
		log.Warn().Err(err).Str("session", sessionID).Msg("assistant unavailable; replying with fallback")
		observability.ObserveFallback(err)
		out = []domain.Message{domain.NewText(s.newID(), domain.SenderBot, FallbackText, FallbackReplies...)}
	} else {
		out = s.classifier.Classify(payload)
	}
	if len(out) == 0 {
		return []domain.Message{}, nil
	}
	if err := s.store.Append(ctx, sessionID, out...); err != nil {
		return nil, fmt.Errorf("append reply: %w", err)
	}
	return out, nil
}

// Awaiting reports whether a reply is still pending for the session.
func (s *ChatService) Awaiting(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight[sessionID] > 0
}

func (s *ChatService) begin(sessionID string) {
	s.mu.Lock()
	s.inflight[sessionID]++
	s.mu.Unlock()
}

func (s *ChatService) end(sessionID string) {
	s.mu.Lock()
	if s.inflight[sessionID]--; s.inflight[sessionID] <= 0 {
		delete(s.inflight, sessionID)
	}
	s.mu.Unlock()
}
