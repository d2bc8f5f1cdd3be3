package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/cliffyan/go-site-search/internal/session"
	"github.com/cliffyan/go-site-search/internal/view"
)

// 事件类型
const (
	EventEditURL   = "edit_url"
	EventEditQuery = "edit_query"
	EventTrigger   = "trigger"
)

// EventRequest 浏览器发来的会话事件
type EventRequest struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// toEvent 转换为会话事件
func (r EventRequest) toEvent() (session.Event, error) {
	switch r.Type {
	case EventEditURL:
		return session.EditURL{Text: r.Text}, nil
	case EventEditQuery:
		return session.EditQuery{Text: r.Text}, nil
	case EventTrigger:
		return session.TriggerSearch{}, nil
	default:
		return nil, fmt.Errorf("unknown event type: %q", r.Type)
	}
}

// CreateSessionResponse 新建会话的响应
type CreateSessionResponse struct {
	ID    string     `json:"id"`
	Frame view.Frame `json:"view"`
}

// handleCreateSession 新建会话
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.newSession()
	st := sess.Search.State()

	frame, err := view.BuildFrame(st)
	if err != nil {
		log.Errorf("❌ %v", err)
		s.sendError(w, http.StatusInternalServerError, "render failed")
		return
	}
	writeJSON(w, http.StatusCreated, CreateSessionResponse{ID: sess.ID, Frame: frame})
}

// handleGetSession 返回当前视图
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(mux.Vars(r)["id"])
	if !ok {
		s.sendError(w, http.StatusNotFound, "session not found")
		return
	}
	s.writeFrame(w, http.StatusOK, sess.Search.State())
}

// handleDeleteSession 关闭会话
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !s.remove(mux.Vars(r)["id"]) {
		s.sendError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleEvent 应用一个事件并返回应用后的视图
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(mux.Vars(r)["id"])
	if !ok {
		s.sendError(w, http.StatusNotFound, "session not found")
		return
	}

	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "parse error: "+err.Error())
		return
	}

	ev, err := req.toEvent()
	if err != nil {
		s.sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	st := sess.Search.Dispatch(ev)
	s.writeFrame(w, http.StatusOK, st)
}

// handleStream 以 SSE 推送状态变化
//
// 最后一条流断开时会话只被标记为断开，浏览器自动重连可以继续使用；
// 超过 orphanTTL 仍未重连的会话由 reap 清理，页面卸载时由 DELETE 立即删除。
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	sess, ok := s.lookup(id)
	if !ok {
		s.sendError(w, http.StatusNotFound, "session not found")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	s.sessionsMu.Lock()
	sess.streams++
	sess.streamed = true
	sess.detachedAt = time.Time{}
	s.sessionsMu.Unlock()

	states, cancel := sess.Search.Subscribe()
	defer func() {
		cancel()
		s.sessionsMu.Lock()
		sess.streams--
		if sess.streams == 0 {
			sess.detachedAt = s.now()
		}
		s.sessionsMu.Unlock()
		log.Debugf("📡 Stream closed: %s", id)
	}()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	log.Debugf("📡 Stream established: %s", id)

	ticker := time.NewTicker(keepaliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case st, ok := <-states:
			if !ok {
				return
			}
			frame, err := sseFrame(st)
			if err != nil {
				log.Errorf("❌ %v", err)
				continue
			}
			fmt.Fprint(w, frame)
			flusher.Flush()
		case <-ticker.C:
			fmt.Fprintf(w, ": keepalive\n\n")
			flusher.Flush()
		}
	}
}
