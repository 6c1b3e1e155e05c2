package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/pengviz/internal/penguin"
	"github.com/san-kum/pengviz/internal/render"
	"github.com/san-kum/pengviz/internal/session"
)

// session returns the caller's session, creating one and setting the
// cookie when the request carries no live id.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *session.Session {
	var id string
	if c, err := r.Cookie(sessionCookie); err == nil {
		id = c.Value
	}
	sess, created := s.sessions.GetOrCreate(id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    sess.ID(),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, newPage(sess)); err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

type sessionResponse struct {
	ID     string            `json:"id"`
	Inputs map[string]string `json:"inputs"`
	Rows   int               `json:"rows"`
	Runs   map[string]int    `json:"runs"`
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	writeJSON(w, http.StatusOK, sessionResponse{
		ID:     sess.ID(),
		Inputs: sess.Inputs().Strings(),
		Rows:   sess.Filtered().Len(),
		Runs:   sess.Runs(),
	})
}

type inputResponse struct {
	Input   string `json:"input"`
	Value   string `json:"value"`
	Changed bool   `json:"changed"`
}

func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	sess := s.session(w, r)
	name := r.PostForm.Get("name")
	value := r.PostForm.Get("value")
	if vs, ok := r.PostForm["value[]"]; ok {
		value = joinValues(vs)
	}

	changed, err := sess.Set(name, value)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.logger.Debug("input", zap.String("session", sess.ID()), zap.String("input", name),
		zap.String("value", value), zap.Bool("changed", changed))
	writeJSON(w, http.StatusOK, inputResponse{Input: name, Value: value, Changed: changed})
}

func joinValues(vs []string) string {
	var buf bytes.Buffer
	for i, v := range vs {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(v)
	}
	return buf.String()
}

func (s *Server) handleOutput(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	q := r.URL.Query()
	format, err := render.ParseFormat(q.Get("format"))
	if err != nil {
		s.fail(w, err)
		return
	}
	size := s.cfg.ImageSize
	if format == render.FormatText {
		size = render.DefaultTextSize
	}
	if v, err := strconv.Atoi(q.Get("width")); err == nil && v > 0 {
		size.Width = v
	}
	if v, err := strconv.Atoi(q.Get("height")); err == nil && v > 0 {
		size.Height = v
	}

	sess := s.session(w, r)
	a, err := sess.Output(name)
	if err != nil {
		s.fail(w, err)
		return
	}
	var buf bytes.Buffer
	if err := render.Encode(&buf, a, format, size); err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

// handleEvents streams the names of invalidated outputs until the client
// goes away or the session closes.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, errors.New("streaming unsupported"))
		return
	}
	sess := s.session(w, r)
	events, cancel := sess.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	sendEvent(w, "ready", sess.ID())
	flusher.Flush()

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case outputs, ok := <-events:
			if !ok {
				return
			}
			data, _ := json.Marshal(outputs)
			sendEvent(w, "invalidate", string(data))
			flusher.Flush()
		case <-ticker.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}

func sendEvent(w http.ResponseWriter, event, data string) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
}

// fail maps boundary errors to 4xx and everything else to 500.
func (s *Server) fail(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}
	writeError(w, status, err)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, render.ErrUnknownOutput):
		return http.StatusNotFound
	case errors.Is(err, session.ErrUnknownInput),
		errors.Is(err, penguin.ErrUnknownSpecies),
		errors.Is(err, penguin.ErrUnknownColumn),
		errors.Is(err, render.ErrUnknownFormat),
		errors.Is(err, render.ErrUnsupported):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrClosed):
		return http.StatusGone
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
