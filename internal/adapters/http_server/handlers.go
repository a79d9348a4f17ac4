package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"tapas_chat/internal/app"
	"tapas_chat/internal/domain"
	"tapas_chat/internal/markup"
)

const maxBody = 1 << 20

type Handlers struct {
	Chat *app.ChatService
	Q    *app.QueryService
	WS   http.Handler
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type sessionRequest struct {
	SessionID string `json:"sessionId"`
}

type chatRequest struct {
	SessionID string `json:"sessionId"`
	Text      string `json:"text"`
}

type chatResponse struct {
	SessionID string            `json:"sessionId"`
	Messages  []app.MessageView `json:"messages"`
}

type renderRequest struct {
	Text string `json:"text"`
}

type renderResponse struct {
	HTML    string `json:"html"`
	Preview string `json:"preview"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	if h.WS != nil {
		s.mux.Handle("/v1/ws", h.WS)
	}
	s.mux.Group(func(r chi.Router) {
		r.Use(Timeout(requestTimeout))
		r.Post("/v1/sessions", h.startSession)
		r.Post("/v1/chat", h.chat)
		r.Post("/v1/render", h.render)
		r.Route("/v1/sessions/{sid}", func(r chi.Router) {
			r.Get("/status", h.status)
			r.Get("/messages", h.listMessages)
			r.Get("/messages/{mid}", h.getMessage)
			r.Get("/messages/{mid}/view", h.getView)
			r.Post("/messages/{mid}/view", h.applyView)
			r.Get("/messages/{mid}/itinerary.ics", h.itineraryICS)
		})
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeErr maps service errors onto problem responses.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrEmptyPrompt):
		writeProblem(w, http.StatusBadRequest, "Empty Prompt", "text must not be blank")
	case errors.Is(err, domain.ErrNotBrowsable):
		writeProblem(w, http.StatusUnprocessableEntity, "Not Browsable", err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// decode reads a JSON body. An empty body leaves dst untouched.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(dst)
	if err != nil && !errors.Is(err, io.EOF) {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return false
	}
	return true
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeWithETag(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write body")
	}
}

func (h *Handlers) startSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if !decode(w, r, &req) {
		return
	}
	sid, msgs, err := h.Chat.Start(r.Context(), req.SessionID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, chatResponse{SessionID: sid, Messages: app.ToViews(msgs)})
}

func (h *Handlers) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decode(w, r, &req) {
		return
	}
	if req.SessionID == "" {
		writeProblem(w, http.StatusBadRequest, "Missing Session", "sessionId is required")
		return
	}
	msgs, err := h.Chat.Send(r.Context(), req.SessionID, req.Text)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{SessionID: req.SessionID, Messages: app.ToViews(msgs)})
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, renderResponse{HTML: markup.Render(req.Text), Preview: markup.Preview(req.Text, 140)})
}

func (h *Handlers) status(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	writeJSON(w, http.StatusOK, map[string]any{"sessionId": sid, "awaiting": h.Chat.Awaiting(sid)})
}

func (h *Handlers) listMessages(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.ListMessages(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeWithETag(w, r, out)
}

func (h *Handlers) getMessage(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.GetMessage(r.Context(), chi.URLParam(r, "sid"), chi.URLParam(r, "mid"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeWithETag(w, r, out)
}

func (h *Handlers) getView(w http.ResponseWriter, r *http.Request) {
	v, err := h.Q.View(r.Context(), chi.URLParam(r, "sid"), chi.URLParam(r, "mid"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handlers) applyView(w http.ResponseWriter, r *http.Request) {
	var ev app.ViewEvent
	if !decode(w, r, &ev) {
		return
	}
	v, err := h.Q.ApplyViewEvent(r.Context(), chi.URLParam(r, "sid"), chi.URLParam(r, "mid"), ev)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handlers) itineraryICS(w http.ResponseWriter, r *http.Request) {
	mid := chi.URLParam(r, "mid")
	cal, err := h.Q.ItineraryICS(r.Context(), chi.URLParam(r, "sid"), mid)
	if err != nil {
		writeErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="itinerary-`+mid+`.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, cal); err != nil {
		log.Error().Err(err).Msg("failed to write itinerary")
	}
}
