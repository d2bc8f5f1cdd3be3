package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/cliffyan/go-site-search/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("view").Funcs(template.FuncMap{
	"emptyText": func() string { return EmptyText },
}).ParseFS(templateFS, "templates/*.html"))

// Frame 推送给浏览器的一帧：视图字段加上渲染好的结果区 HTML
type Frame struct {
	View
	HTML string `json:"html"`
}

// Page 整页渲染所需数据
type Page struct {
	SessionID        string
	Title            string
	URLPlaceholder   string
	QueryPlaceholder string
	View             View
}

// NewPage 为新会话构造页面数据
func NewPage(sessionID string, s session.State) Page {
	return Page{
		SessionID:        sessionID,
		Title:            Title,
		URLPlaceholder:   URLPlaceholder,
		QueryPlaceholder: QueryPlaceholder,
		View:             Build(s),
	}
}

// RenderPage 渲染完整页面
func RenderPage(w io.Writer, p Page) error {
	if err := templates.ExecuteTemplate(w, "page", p); err != nil {
		return fmt.Errorf("render page failed: %w", err)
	}
	return nil
}

// RenderResults 渲染结果区（错误横幅、结果列表、空状态）
func RenderResults(v View) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "results", v); err != nil {
		return "", fmt.Errorf("render results failed: %w", err)
	}
	return buf.String(), nil
}

// BuildFrame 从状态构造推送帧
func BuildFrame(s session.State) (Frame, error) {
	v := Build(s)
	html, err := RenderResults(v)
	if err != nil {
		return Frame{}, err
	}
	return Frame{View: v, HTML: html}, nil
}
