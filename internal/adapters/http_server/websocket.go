package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"tapas_chat/internal/adapters/observability"
	"tapas_chat/internal/app"
	"tapas_chat/internal/domain"
)

// Outbound frame types.
const (
	wsConnected = "connected"
	wsTyping    = "typing"
	wsMessage   = "message"
	wsIdle      = "idle"
	wsError     = "error"
)

type wsIncoming struct {
	Text string `json:"text"`
}

type wsResponse struct {
	Type      string            `json:"type"`
	SessionID string            `json:"sessionId,omitempty"`
	Text      string            `json:"text,omitempty"`
	Message   *app.MessageView  `json:"message,omitempty"`
	History   []app.MessageView `json:"history,omitempty"`
}

type WSHandler struct {
	chat           *app.ChatService
	allowedOrigins map[string]bool
	upgrader       websocket.Upgrader
}

func NewWSHandler(chat *app.ChatService, allowedOrigins []string) *WSHandler {
	origins := make(map[string]bool)
	for _, o := range allowedOrigins {
		origins[o] = true
	}
	h := &WSHandler{chat: chat, allowedOrigins: origins}
	h.upgrader = websocket.Upgrader{CheckOrigin: h.checkOrigin}
	return h
}

func (h *WSHandler) checkOrigin(r *http.Request) bool {
	if len(h.allowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true // non-browser clients
	}
	return h.allowedOrigins[origin]
}

// ServeHTTP runs one chat over a socket. Frames are written only from this
// goroutine, so replies for one session stay in order.
func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()
	observability.WSConnections.Inc()
	defer observability.WSConnections.Dec()

	ctx := r.Context()
	sessionID, history, err := h.chat.Start(ctx, r.URL.Query().Get("session_id"))
	if err != nil {
		log.Error().Err(err).Msg("websocket session start failed")
		_ = conn.WriteJSON(wsResponse{Type: wsError, Text: "Could not open the conversation."})
		return
	}
	if err := conn.WriteJSON(wsResponse{Type: wsConnected, SessionID: sessionID, History: app.ToViews(history)}); err != nil {
		log.Warn().Err(err).Msg("failed to send connected frame")
		return
	}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("session", sessionID).Msg("websocket closed unexpectedly")
			}
			return
		}

		var in wsIncoming
		if err := json.Unmarshal(raw, &in); err != nil {
			_ = conn.WriteJSON(wsResponse{Type: wsError, Text: "Invalid message format. Send JSON with a 'text' field."})
			continue
		}

		if err := conn.WriteJSON(wsResponse{Type: wsTyping, SessionID: sessionID}); err != nil {
			return
		}
		msgs, err := h.chat.Send(ctx, sessionID, in.Text)
		switch {
		case errors.Is(err, domain.ErrEmptyPrompt):
		case err != nil:
			log.Error().Err(err).Str("session", sessionID).Msg("websocket send failed")
			_ = conn.WriteJSON(wsResponse{Type: wsError, Text: "Sorry, I'm having trouble processing your message. Please try again."})
		default:
			for _, m := range msgs {
				v := app.ToView(m)
				if err := conn.WriteJSON(wsResponse{Type: wsMessage, SessionID: sessionID, Message: &v}); err != nil {
					return
				}
			}
		}
		if err := conn.WriteJSON(wsResponse{Type: wsIdle, SessionID: sessionID}); err != nil {
			return
		}
	}
}
