package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/five82/vitrine/internal/forms"
	"github.com/five82/vitrine/internal/posts"
	"github.com/five82/vitrine/internal/state"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	maxBody    = 64 << 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type slideshowStatus struct {
	Index   int    `json:"index"`
	Count   int    `json:"count"`
	Image   string `json:"image"`
	Playing bool   `json:"playing"`
}

type postsPage struct {
	Page     int          `json:"page"`
	Category string       `json:"category"`
	HasMore  bool         `json:"has_more"`
	Posts    []posts.Post `json:"posts"`
}

type formResult struct {
	Status  string             `json:"status"`
	Message string             `json:"message,omitempty"`
	Errors  []forms.FieldError `json:"errors,omitempty"`
}

type formInfo struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Fields []string `json:"fields"`
}

func (s *Server) handleImages(w http.ResponseWriter, r *http.Request) {
	images := s.deps.Images
	if images == nil {
		images = []string{}
	}
	writeJSON(w, http.StatusOK, images)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Store.Snapshot())
}

func (s *Server) slideshowStatus() slideshowStatus {
	show := s.deps.Slideshow
	return slideshowStatus{
		Index:   show.Index(),
		Count:   show.Len(),
		Image:   show.Current(),
		Playing: show.Playing(),
	}
}

func (s *Server) handleSlideshowStatus(w http.ResponseWriter, r *http.Request) {
	if s.deps.Slideshow == nil {
		writeError(w, http.StatusServiceUnavailable, "no images")
		return
	}
	writeJSON(w, http.StatusOK, s.slideshowStatus())
}

func (s *Server) handleSlideshowAction(w http.ResponseWriter, r *http.Request) {
	show := s.deps.Slideshow
	if show == nil {
		writeError(w, http.StatusServiceUnavailable, "no images")
		return
	}

	switch action := chi.URLParam(r, "action"); action {
	case "next":
		show.Next()
	case "previous":
		show.Previous()
	case "pause":
		show.Pause()
	case "resume":
		show.Resume()
	case "toggle":
		show.TogglePlay()
	case "goto":
		index, err := strconv.Atoi(r.URL.Query().Get("index"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "index must be an integer")
			return
		}
		if index < 0 || index >= show.Len() {
			writeError(w, http.StatusBadRequest, "index out of range")
			return
		}
		show.GoTo(index)
	default:
		writeError(w, http.StatusNotFound, "unknown action "+strconv.Quote(action))
		return
	}
	writeJSON(w, http.StatusOK, s.slideshowStatus())
}

func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	category, err := posts.ParseCategory(r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if page, err = strconv.Atoi(raw); err != nil || page < 1 {
			writeError(w, http.StatusBadRequest, "page must be a positive integer")
			return
		}
	}

	items, err := s.deps.Feed.Page(r.Context(), page)
	if err != nil {
		if errors.Is(err, posts.ErrExhausted) {
			writeError(w, http.StatusNotFound, "no more posts")
			return
		}
		s.logger.Warn("server: load posts failed", "page", page, "error", err)
		writeError(w, http.StatusServiceUnavailable, "could not load posts")
		return
	}

	filtered := posts.Filter(items, category)
	if filtered == nil {
		filtered = []posts.Post{}
	}
	writeJSON(w, http.StatusOK, postsPage{
		Page:     page,
		Category: string(category),
		HasMore:  s.deps.Feed.HasMore() || page < s.deps.Feed.Pages(),
		Posts:    filtered,
	})
}

func (s *Server) handleFormList(w http.ResponseWriter, r *http.Request) {
	var out []formInfo
	for _, f := range forms.Catalog() {
		info := formInfo{ID: f.ID, Title: f.Title}
		for _, field := range f.Fields {
			info.Fields = append(info.Fields, field.Name)
		}
		out = append(out, info)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleFormSubmit(w http.ResponseWriter, r *http.Request) {
	form, ok := forms.Lookup(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown form")
		return
	}
	var values forms.Values
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&values); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	res := forms.Submit(r.Context(), s.deps.Submitter, form, values)
	out := formResult{Status: res.Status.String(), Message: res.Message, Errors: res.Errors}
	switch res.Status {
	case forms.StatusInvalid:
		writeJSON(w, http.StatusUnprocessableEntity, out)
	case forms.StatusError:
		s.logger.Warn("forms: submit failed", "form", form.ID, "error", res.Err)
		writeJSON(w, http.StatusBadGateway, out)
	default:
		s.logger.Info("forms: submitted", "form", form.ID)
		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("server: websocket upgrade", "error", err)
		return
	}
	c := s.hub.subscribe()
	if c == nil {
		_ = conn.Close()
		return
	}

	go s.writePump(conn, c, s.deps.Store.Snapshot())

	defer s.hub.unsubscribe(c)
	conn.SetReadLimit(maxBody)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("server: websocket read", "client", c.id, "error", err)
			}
			return
		}
	}
}

// writePump sends the snapshot, then queued events, until the hub closes
// the client's channel.
func (s *Server) writePump(conn *websocket.Conn, c *client, snapshot map[string]any) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	keys := make([]string, 0, len(snapshot))
	for k := range snapshot {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := writeEvent(conn, state.Event{Key: k, New: snapshot[k]}); err != nil {
			return
		}
	}

	for {
		select {
		case ev, ok := <-c.send:
			if !ok {
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := writeEvent(conn, ev); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func writeEvent(conn *websocket.Conn, ev state.Event) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(ev)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
