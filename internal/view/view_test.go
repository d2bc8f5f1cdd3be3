package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cliffyan/go-site-search/internal/backend"
	"github.com/cliffyan/go-site-search/internal/session"
)

func TestExcerpt(t *testing.T) {
	long := strings.Repeat("A", 500)
	assert.Equal(t, strings.Repeat("A", 300)+"...", Excerpt(long))
	assert.Equal(t, "short...", Excerpt("short"))
	assert.Equal(t, "...", Excerpt(""))
	assert.Equal(t, strings.Repeat("B", 300)+"...", Excerpt(strings.Repeat("B", 300)))
}

func TestExcerptCountsCharactersNotBytes(t *testing.T) {
	content := strings.Repeat("é", 400)
	got := Excerpt(content)
	assert.Equal(t, strings.Repeat("é", 300)+"...", got)
}

func TestBuildIdle(t *testing.T) {
	v := Build(session.State{})
	assert.Equal(t, "idle", v.Mode)
	assert.False(t, v.CanSearch)
	assert.Equal(t, SearchLabel, v.ButtonLabel)
	assert.Empty(t, v.CountLine)
	assert.Empty(t, v.Items)
	assert.True(t, v.ShowEmpty)
}

func TestBuildLoading(t *testing.T) {
	v := Build(session.State{URL: "u", Query: "q", Loading: true})
	assert.Equal(t, "loading", v.Mode)
	assert.False(t, v.CanSearch)
	assert.True(t, v.Loading)
	assert.Equal(t, SearchingLabel, v.ButtonLabel)
	assert.False(t, v.ShowEmpty)
}

func TestBuildResults(t *testing.T) {
	v := Build(session.State{
		URL:   "u",
		Query: "q",
		Results: []backend.SearchResult{
			{Content: strings.Repeat("A", 500)},
			{Content: "second"},
		},
	})
	assert.Equal(t, "results", v.Mode)
	assert.True(t, v.CanSearch)
	assert.Equal(t, "About 2 results", v.CountLine)
	require.Len(t, v.Items, 2)
	assert.Equal(t, Item{Label: "Result 1", Subtitle: ExcerptLabel, Excerpt: strings.Repeat("A", 300) + "..."}, v.Items[0])
	assert.Equal(t, "Result 2", v.Items[1].Label)
	assert.Equal(t, "second...", v.Items[1].Excerpt)
	assert.False(t, v.ShowEmpty)
}

func TestBuildError(t *testing.T) {
	v := Build(session.State{URL: "u", Query: "q", Error: session.FailureMessage})
	assert.Equal(t, "error", v.Mode)
	assert.Equal(t, session.FailureMessage, v.Error)
	assert.Empty(t, v.CountLine)
	assert.False(t, v.ShowEmpty)
}

func TestRenderResultsSections(t *testing.T) {
	tests := []struct {
		name                     string
		state                    session.State
		wantError, wantCount     int
		wantResults, wantEmpties int
	}{
		{"idle", session.State{}, 0, 0, 0, 1},
		{"loading", session.State{URL: "u", Query: "q", Loading: true}, 0, 0, 0, 0},
		{"error", session.State{Error: session.FailureMessage}, 1, 0, 0, 0},
		{"results", session.State{Results: []backend.SearchResult{{Content: "a"}, {Content: "b"}, {Content: "c"}}}, 0, 1, 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html, err := RenderResults(Build(tt.state))
			require.NoError(t, err)
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
			require.NoError(t, err)

			assert.Equal(t, tt.wantError, doc.Find(".error").Length())
			assert.Equal(t, tt.wantCount, doc.Find(".count").Length())
			assert.Equal(t, tt.wantResults, doc.Find(".result").Length())
			assert.Equal(t, tt.wantEmpties, doc.Find(".empty").Length())
		})
	}
}

func TestRenderResultsContent(t *testing.T) {
	html, err := RenderResults(Build(session.State{Results: []backend.SearchResult{{Content: "<b>bold</b> text"}}}))
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	assert.Equal(t, "About 1 results", strings.TrimSpace(doc.Find(".count").Text()))
	assert.Equal(t, "Result 1", doc.Find(".result-label").Text())
	assert.Equal(t, ExcerptLabel, doc.Find(".result-subtitle").Text())
	// 内容被转义，不会作为标记解析
	assert.Equal(t, "<b>bold</b> text...", doc.Find(".result-excerpt").Text())
	assert.Zero(t, doc.Find(".result-excerpt b").Length())
}

func TestRenderErrorBanner(t *testing.T) {
	html, err := RenderResults(Build(session.State{Error: session.FailureMessage}))
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	assert.Equal(t, session.FailureMessage, doc.Find(".error-text").Text())
}

func TestRenderPage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderPage(&buf, NewPage("abc-123", session.State{})))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)

	sid, ok := doc.Find("body").Attr("data-session")
	require.True(t, ok)
	assert.Equal(t, "abc-123", sid)
	assert.Equal(t, Title, doc.Find("h1").Text())

	placeholder, _ := doc.Find("#url").Attr("placeholder")
	assert.Equal(t, URLPlaceholder, placeholder)
	placeholder, _ = doc.Find("#query").Attr("placeholder")
	assert.Equal(t, QueryPlaceholder, placeholder)

	_, disabled := doc.Find("#search").Attr("disabled")
	assert.True(t, disabled, "search button starts disabled")
	assert.Equal(t, SearchLabel, doc.Find("#search").Text())
	assert.Equal(t, EmptyText, doc.Find("#output .empty-text").Text())
}

func TestRenderPageScriptHandlesRejectedEvents(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderPage(&buf, NewPage("id", session.State{})))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	script := doc.Find("script").Text()

	// 非 2xx 的错误体不能进入 apply；会话过期时重新加载页面
	assert.Contains(t, script, `if (r.status === 404) { expired(); return; }`)
	assert.Contains(t, script, `if (!r.ok) {`)
	assert.Contains(t, script, `typeof frame.rev !== "number"`)
	assert.Contains(t, script, `stream.addEventListener("error"`)
	assert.Contains(t, script, `"pagehide"`)
}

func TestRenderPageEnabledButton(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderPage(&buf, NewPage("id", session.State{URL: "u", Query: "q"})))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	_, disabled := doc.Find("#search").Attr("disabled")
	assert.False(t, disabled)
	value, _ := doc.Find("#url").Attr("value")
	assert.Equal(t, "u", value)
}

func TestBuildFrame(t *testing.T) {
	f, err := BuildFrame(session.State{Error: session.FailureMessage})
	require.NoError(t, err)
	assert.Equal(t, "error", f.Mode)
	assert.Contains(t, f.HTML, session.FailureMessage)
}
