package session

import (
	"github.com/cliffyan/go-site-search/internal/backend"
)

// FailureMessage 所有失败统一展示的提示
const FailureMessage = "Failed to fetch results. Ensure backend is running and the URL is valid."

// Mode 由状态推导出的展示模式
type Mode int

const (
	ModeIdle Mode = iota
	ModeLoading
	ModeResults
	ModeError
)

func (m Mode) String() string {
	switch m {
	case ModeLoading:
		return "loading"
	case ModeResults:
		return "results"
	case ModeError:
		return "error"
	default:
		return "idle"
	}
}

// State 会话状态，Error 为空表示没有错误
type State struct {
	URL     string
	Query   string
	Results []backend.SearchResult
	Loading bool
	Error   string

	// Seq 最近一次发出请求的序号
	Seq uint64
	// Rev 由 Session 在每次应用事件后递增，供观察者丢弃过期快照
	Rev uint64
}

// Mode 推导当前展示模式
func (s State) Mode() Mode {
	switch {
	case s.Loading:
		return ModeLoading
	case s.Error != "":
		return ModeError
	case len(s.Results) > 0:
		return ModeResults
	default:
		return ModeIdle
	}
}

// CanSearch 两个输入都非空且没有请求在途
//
// 只包含空白的输入也算非空。
func (s State) CanSearch() bool {
	return s.URL != "" && s.Query != "" && !s.Loading
}

// Input 当前输入组成的请求体
func (s State) Input() backend.SearchInput {
	return backend.SearchInput{URL: s.URL, Query: s.Query}
}

// Event 会话事件
type Event interface {
	isEvent()
}

// EditURL 覆盖 URL 输入
type EditURL struct {
	Text string
}

// EditQuery 覆盖查询输入
type EditQuery struct {
	Text string
}

// TriggerSearch 点击搜索按钮或在查询框按下回车
type TriggerSearch struct{}

// SearchSucceeded 后端成功返回
type SearchSucceeded struct {
	Seq     uint64
	Results []backend.SearchResult
}

// SearchFailed 请求失败，Err 只用于日志
type SearchFailed struct {
	Seq uint64
	Err error
}

func (EditURL) isEvent()         {}
func (EditQuery) isEvent()       {}
func (TriggerSearch) isEvent()   {}
func (SearchSucceeded) isEvent() {}
func (SearchFailed) isEvent()    {}

// Request 被接受的搜索触发所要发出的请求
type Request struct {
	Seq   uint64
	Input backend.SearchInput
}

// Reduce 应用一个事件，返回新状态；只有被接受的 TriggerSearch 返回非 nil 的 Request
func Reduce(s State, ev Event) (State, *Request) {
	switch ev := ev.(type) {
	case EditURL:
		s.URL = ev.Text
	case EditQuery:
		s.Query = ev.Text
	case TriggerSearch:
		if !s.CanSearch() {
			return s, nil
		}
		s.Seq++
		s.Loading = true
		s.Error = ""
		s.Results = nil
		return s, &Request{Seq: s.Seq, Input: s.Input()}
	case SearchSucceeded:
		if !s.accepts(ev.Seq) {
			return s, nil
		}
		s.Results = ev.Results
		s.Error = ""
		s.Loading = false
	case SearchFailed:
		if !s.accepts(ev.Seq) {
			return s, nil
		}
		s.Results = nil
		s.Error = FailureMessage
		s.Loading = false
	}
	return s, nil
}

// accepts 只接受当前在途请求的结果
func (s State) accepts(seq uint64) bool {
	return s.Loading && seq == s.Seq
}
