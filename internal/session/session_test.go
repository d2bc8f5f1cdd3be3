package session

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cliffyan/go-site-search/internal/backend"
)

// blockingSearcher 在 release 关闭前挂起所有请求
type blockingSearcher struct {
	calls   atomic.Int32
	release chan struct{}
	results []backend.SearchResult
	err     error
}

func newBlockingSearcher() *blockingSearcher {
	return &blockingSearcher{release: make(chan struct{})}
}

func (b *blockingSearcher) Search(_ context.Context, _ backend.SearchInput) ([]backend.SearchResult, error) {
	b.calls.Add(1)
	<-b.release
	return b.results, b.err
}

func readySession(s backend.Searcher) *Session {
	sess := New(s)
	sess.Dispatch(EditURL{Text: "https://example.com"})
	sess.Dispatch(EditQuery{Text: "pricing"})
	return sess
}

func TestSessionSuccess(t *testing.T) {
	b := newBlockingSearcher()
	b.results = []backend.SearchResult{{Content: "hit"}}
	sess := readySession(b)

	st := sess.Dispatch(TriggerSearch{})
	assert.Equal(t, ModeLoading, st.Mode())
	assert.Empty(t, st.Results)
	assert.Empty(t, st.Error)

	close(b.release)
	sess.Wait()

	st = sess.State()
	assert.False(t, st.Loading)
	assert.Equal(t, b.results, st.Results)
	assert.Equal(t, int32(1), b.calls.Load())
}

func TestSessionFailure(t *testing.T) {
	sess := readySession(backend.SearcherFunc(func(context.Context, backend.SearchInput) ([]backend.SearchResult, error) {
		return nil, &backend.StatusError{StatusCode: 500}
	}))

	sess.Dispatch(TriggerSearch{})
	sess.Wait()

	st := sess.State()
	assert.False(t, st.Loading)
	assert.Empty(t, st.Results)
	assert.Equal(t, FailureMessage, st.Error)
}

func TestSessionNoOverlap(t *testing.T) {
	b := newBlockingSearcher()
	sess := readySession(b)

	first := sess.Dispatch(TriggerSearch{})
	second := sess.Dispatch(TriggerSearch{})
	assert.True(t, second.Loading)
	assert.Equal(t, first.Seq, second.Seq)
	assert.Greater(t, second.Rev, first.Rev)

	close(b.release)
	sess.Wait()
	assert.Equal(t, int32(1), b.calls.Load())
}

func TestSessionGuardWithoutInput(t *testing.T) {
	var calls atomic.Int32
	sess := New(backend.SearcherFunc(func(context.Context, backend.SearchInput) ([]backend.SearchResult, error) {
		calls.Add(1)
		return nil, nil
	}))

	sess.Dispatch(EditURL{Text: "https://example.com"})
	st := sess.Dispatch(TriggerSearch{})
	sess.Wait()

	assert.Equal(t, ModeIdle, st.Mode())
	assert.Zero(t, calls.Load())
}

func TestSessionEditsWhileLoading(t *testing.T) {
	b := newBlockingSearcher()
	b.err = errors.New("connection refused")
	sess := readySession(b)

	sess.Dispatch(TriggerSearch{})
	st := sess.Dispatch(EditQuery{Text: "changed"})
	assert.True(t, st.Loading)
	assert.Equal(t, "changed", st.Query)

	close(b.release)
	sess.Wait()

	st = sess.State()
	assert.Equal(t, "changed", st.Query)
	assert.Equal(t, FailureMessage, st.Error)
}

func TestSubscribeReceivesLatestState(t *testing.T) {
	b := newBlockingSearcher()
	b.results = []backend.SearchResult{{Content: "hit"}}
	sess := readySession(b)

	ch, cancel := sess.Subscribe()
	defer cancel()

	initial := <-ch
	assert.Equal(t, "pricing", initial.Query)

	sess.Dispatch(TriggerSearch{})
	loading := <-ch
	assert.True(t, loading.Loading)

	close(b.release)
	select {
	case st := <-ch:
		assert.Equal(t, ModeResults, st.Mode())
	case <-time.After(2 * time.Second):
		t.Fatal("no state published after resolution")
	}
}

func TestSubscribeCancelClosesChannel(t *testing.T) {
	sess := New(backend.SearcherFunc(func(context.Context, backend.SearchInput) ([]backend.SearchResult, error) {
		return nil, nil
	}))
	ch, cancel := sess.Subscribe()
	<-ch
	cancel()
	cancel()

	_, ok := <-ch
	require.False(t, ok)

	// 取消订阅后再派发事件不能向已关闭的通道发送
	sess.Dispatch(EditURL{Text: "x"})
}
