package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"

	"github.com/cliffyan/go-site-search/internal/backend"
	"github.com/cliffyan/go-site-search/internal/config"
	"github.com/cliffyan/go-site-search/internal/session"
	"github.com/cliffyan/go-site-search/internal/view"
)

const (
	// keepaliveInterval SSE 心跳间隔
	keepaliveInterval = 30 * time.Second
	// orphanTTL 未建立状态流或状态流断开后会话的保留时间
	orphanTTL = 2 * time.Minute
)

// Server 网页前端 HTTP 服务器，每次页面加载对应一个会话
type Server struct {
	config     *config.Config
	searcher   backend.Searcher
	sessions   map[string]*Session
	sessionsMu sync.RWMutex
	now        func() time.Time
}

// Session 会话信息
type Session struct {
	ID        string
	CreatedAt time.Time
	Search    *session.Session

	// streams 当前打开的状态流数量
	streams int
	// streamed 是否曾经建立过状态流
	streamed bool
	// detachedAt 最后一条状态流断开的时间，重连后清零
	detachedAt time.Time
}

// New 创建新的服务器实例
func New(cfg *config.Config, searcher backend.Searcher) *Server {
	return &Server{
		config:   cfg,
		searcher: searcher,
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Handler 构建路由
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := router.PathPrefix("/api/sessions").Subrouter()
	api.HandleFunc("", s.handleCreateSession).Methods(http.MethodPost)
	api.HandleFunc("/{id}", s.handleGetSession).Methods(http.MethodGet)
	api.HandleFunc("/{id}", s.handleDeleteSession).Methods(http.MethodDelete)
	api.HandleFunc("/{id}/events", s.handleEvent).Methods(http.MethodPost)
	api.HandleFunc("/{id}/stream", s.handleStream).Methods(http.MethodGet)

	var handler http.Handler = router
	if s.config.IsEnableCORS() {
		c := cors.New(cors.Options{
			AllowedOrigins: []string{s.config.GetCORSOrigin()},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type"},
		})
		handler = c.Handler(router)
	}
	return handler
}

// Start 启动 HTTP 服务器
func (s *Server) Start() error {
	go s.reapLoop()

	addr := s.config.Addr()
	log.Infof("🚀 Starting web client on http://%s", addr)
	log.Infof("📡 Session API: http://%s/api/sessions", addr)
	log.Infof("❤️ Health check: http://%s/health", addr)

	return http.ListenAndServe(addr, s.Handler())
}

// newSession 创建并登记一个新会话
func (s *Server) newSession() *Session {
	sess := &Session{
		ID:        uuid.New().String(),
		CreatedAt: s.now(),
		Search:    session.New(s.searcher),
	}
	s.sessionsMu.Lock()
	s.sessions[sess.ID] = sess
	s.sessionsMu.Unlock()

	log.Debugf("📝 Created new session: %s", sess.ID)
	return sess
}

// lookup 按 ID 查找会话
func (s *Server) lookup(id string) (*Session, bool) {
	s.sessionsMu.RLock()
	defer s.sessionsMu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// remove 删除会话；在途请求仍会完成，但结果不再被观察
func (s *Server) remove(id string) bool {
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	log.Debugf("🗑️ Deleted session: %s", id)
	return true
}

// SessionCount 当前会话数
func (s *Server) SessionCount() int {
	s.sessionsMu.RLock()
	defer s.sessionsMu.RUnlock()
	return len(s.sessions)
}

// reapLoop 定期清理无人观察的会话
func (s *Server) reapLoop() {
	ticker := time.NewTicker(orphanTTL)
	defer ticker.Stop()
	for range ticker.C {
		if n := s.reap(); n > 0 {
			log.Debugf("🧹 Reaped %d orphaned session(s)", n)
		}
	}
}

func (s *Server) reap() int {
	cutoff := s.now().Add(-orphanTTL)

	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()

	n := 0
	for id, sess := range s.sessions {
		if sess.streams > 0 {
			continue
		}
		since := sess.CreatedAt
		if sess.streamed {
			since = sess.detachedAt
		}
		if since.Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// handleIndex 页面加载：新建会话并渲染整页
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.newSession()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := view.RenderPage(w, view.NewPage(sess.ID, sess.Search.State())); err != nil {
		log.Errorf("❌ Failed to render page: %v", err)
	}
}

// handleHealth 健康检查端点
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"backend":  s.config.Backend.Endpoint,
		"sessions": s.SessionCount(),
	})
}

// sendError 发送错误响应
func (s *Server) sendError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("❌ Failed to encode response: %v", err)
	}
}

// writeFrame 把状态渲染为帧返回
func (s *Server) writeFrame(w http.ResponseWriter, status int, st session.State) {
	frame, err := view.BuildFrame(st)
	if err != nil {
		log.Errorf("❌ %v", err)
		s.sendError(w, http.StatusInternalServerError, "render failed")
		return
	}
	writeJSON(w, status, frame)
}

// sseFrame 格式化一条 SSE 状态事件
func sseFrame(st session.State) (string, error) {
	frame, err := view.BuildFrame(st)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(frame)
	if err != nil {
		return "", fmt.Errorf("encode frame failed: %w", err)
	}
	return fmt.Sprintf("event: state\ndata: %s\n\n", data), nil
}
