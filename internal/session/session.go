package session

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/cliffyan/go-site-search/internal/backend"
)

// Session 串行地应用事件，并为每次被接受的触发发出一个后端请求
type Session struct {
	searcher backend.Searcher

	mu     sync.Mutex
	state  State
	subs   map[int]chan State
	nextID int

	inflight sync.WaitGroup
}

// New 创建初始状态的会话
func New(searcher backend.Searcher) *Session {
	return &Session{
		searcher: searcher,
		subs:     make(map[int]chan State),
	}
}

// State 返回当前状态快照
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch 应用事件并返回应用后的状态
func (s *Session) Dispatch(ev Event) State {
	s.mu.Lock()
	next, req := Reduce(s.state, ev)
	next.Rev = s.state.Rev + 1
	s.state = next
	s.publish(next)
	if req != nil {
		s.inflight.Add(1)
	}
	s.mu.Unlock()

	if req != nil {
		log.Infof("🔍 Search #%d: url=%q query=%q", req.Seq, req.Input.URL, req.Input.Query)
		go s.run(*req)
	}
	return next
}

// run 执行请求，结果作为事件回到会话；不设超时也不可取消
func (s *Session) run(req Request) {
	defer s.inflight.Done()

	results, err := s.searcher.Search(context.Background(), req.Input)
	if err != nil {
		log.Warnf("❌ Search #%d failed (%s): %v", req.Seq, backend.Kind(err), err)
		s.Dispatch(SearchFailed{Seq: req.Seq, Err: err})
		return
	}

	log.Infof("✅ Search #%d returned %d result(s)", req.Seq, len(results))
	s.Dispatch(SearchSucceeded{Seq: req.Seq, Results: results})
}

// Wait 阻塞到所有在途请求结束
func (s *Session) Wait() {
	s.inflight.Wait()
}

// Subscribe 订阅状态变化；通道只保留最新状态，取消函数关闭通道
func (s *Session) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan State, 1)
	ch <- s.state
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// publish 需持有 mu
func (s *Session) publish(st State) {
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- st
	}
}
