package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"tapas_chat/internal/domain"
)

// Repo is the durable conversation archive. Each message is stored whole as JSON.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Append(ctx context.Context, sessionID string, msgs ...domain.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	if err := domain.ValidateAll(msgs); err != nil {
		return fmt.Errorf("append to %s: %w", sessionID, err)
	}
	values := make([]string, 0, len(msgs))
	args := make([]any, 0, len(msgs)*6)
	for _, m := range msgs {
		payload, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("encode message %s: %w", m.ID, err)
		}
		values = append(values, "(?,?,?,?,?,?)")
		args = append(args, m.ID, sessionID, string(m.Sender), string(m.Kind), string(payload), m.CreatedAt.UTC())
	}
	_, err := r.db.ExecContext(ctx, insertMessagePrefix+strings.Join(values, ","), args...)
	return err
}

func (r *Repo) List(ctx context.Context, sessionID string) ([]domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, listMessagesSQL, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Message{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var m domain.Message
		if err := json.Unmarshal(payload, &m); err != nil {
			return nil, fmt.Errorf("decode session %s: %w", sessionID, err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, sessionID, messageID string) (domain.Message, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx, getMessageSQL, sessionID, messageID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Message{}, fmt.Errorf("message %s in session %s: %w", messageID, sessionID, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Message{}, err
	}
	var m domain.Message
	return m, json.Unmarshal(payload, &m)
}

type SessionSummary struct {
	SessionID string    `json:"sessionId"`
	Messages  int       `json:"messages"`
	LastAt    time.Time `json:"lastAt"`
}

// Sessions lists the most recently active sessions, newest first.
func (r *Repo) Sessions(ctx context.Context, limit int) ([]SessionSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, listSessionsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		var s SessionSummary
		if err := rows.Scan(&s.SessionID, &s.Messages, &s.LastAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
