package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"

	"github.com/cliffyan/go-site-search/internal/backend"
	"github.com/cliffyan/go-site-search/internal/session"
	"github.com/cliffyan/go-site-search/internal/view"
)

const defaultWidth = 72

type focus int

const (
	focusURL focus = iota
	focusQuery
	focusButton
	focusCount
)

// Model 终端界面的根模型；状态只通过 session.Reduce 变化
type Model struct {
	searcher backend.Searcher
	state    session.State

	url     textinput.Model
	query   textinput.Model
	spinner spinner.Model
	focus   focus

	width    int
	quitting bool
}

// New 创建初始模型，焦点在 URL 输入框
func New(searcher backend.Searcher) Model {
	url := newInput(view.URLPlaceholder, "🌐 ")
	url.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorOnBlue).Background(colorBlue)

	return Model{
		searcher: searcher,
		url:      url,
		query:    newInput(view.QueryPlaceholder, "🔍 "),
		spinner:  s,
		focus:    focusURL,
		width:    defaultWidth,
	}
}

func newInput(placeholder, prompt string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = prompt
	ti.CharLimit = 0
	ti.Width = defaultWidth - 12
	return ti
}

// State 当前会话状态
func (m Model) State() session.State {
	return m.state
}

// Init 启动光标闪烁与加载动画
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Update 处理按键、搜索结果与动画消息
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.url.Width = max(msg.Width-12, 10)
		m.query.Width = max(msg.Width-24, 10)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case session.SearchSucceeded:
		m.state, _ = session.Reduce(m.state, msg)
		return m, nil

	case session.SearchFailed:
		m.state, _ = session.Reduce(m.state, msg)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateInputs(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyTab, tea.KeyDown:
		return m.setFocus((m.focus + 1) % focusCount)
	case tea.KeyShiftTab, tea.KeyUp:
		return m.setFocus((m.focus + focusCount - 1) % focusCount)
	case tea.KeyEnter:
		// URL 框中回车只切换焦点
		if m.focus == focusURL {
			return m.setFocus(focusQuery)
		}
		return m.trigger()
	case tea.KeySpace:
		if m.focus == focusButton {
			return m.trigger()
		}
	}

	if m.focus == focusButton {
		return m, nil
	}
	return m.updateInputs(msg)
}

// updateInputs 把消息交给输入框，内容变化时产生编辑事件
//
// 加载期间输入框仍可编辑。
func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var urlCmd, queryCmd tea.Cmd
	m.url, urlCmd = m.url.Update(msg)
	m.query, queryCmd = m.query.Update(msg)

	if v := m.url.Value(); v != m.state.URL {
		m.state, _ = session.Reduce(m.state, session.EditURL{Text: v})
	}
	if v := m.query.Value(); v != m.state.Query {
		m.state, _ = session.Reduce(m.state, session.EditQuery{Text: v})
	}
	return m, tea.Batch(urlCmd, queryCmd)
}

func (m Model) setFocus(f focus) (tea.Model, tea.Cmd) {
	m.focus = f
	m.url.Blur()
	m.query.Blur()

	var cmd tea.Cmd
	switch f {
	case focusURL:
		cmd = m.url.Focus()
	case focusQuery:
		cmd = m.query.Focus()
	}
	return m, cmd
}

// trigger 应用 TriggerSearch；被守卫拒绝时不发请求
func (m Model) trigger() (tea.Model, tea.Cmd) {
	next, req := session.Reduce(m.state, session.TriggerSearch{})
	m.state = next
	if req == nil {
		return m, nil
	}
	log.Infof("🔍 Search #%d: url=%q query=%q", req.Seq, req.Input.URL, req.Input.Query)
	return m, searchCmd(m.searcher, *req)
}

// searchCmd 在 Bubble Tea 的命令协程中执行请求，结果作为事件消息返回
func searchCmd(searcher backend.Searcher, req session.Request) tea.Cmd {
	return func() tea.Msg {
		results, err := searcher.Search(context.Background(), req.Input)
		if err != nil {
			log.Warnf("❌ Search #%d failed (%s): %v", req.Seq, backend.Kind(err), err)
			return session.SearchFailed{Seq: req.Seq, Err: err}
		}
		log.Infof("✅ Search #%d returned %d result(s)", req.Seq, len(results))
		return session.SearchSucceeded{Seq: req.Seq, Results: results}
	}
}

// View 渲染整个界面
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	v := view.Build(m.state)
	var b strings.Builder

	b.WriteString(renderTitle())
	b.WriteString("\n\n")
	b.WriteString(m.renderField(m.url.View(), m.focus == focusURL))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center,
		m.renderField(m.query.View(), m.focus == focusQuery),
		" ",
		m.renderButton(v),
	))
	b.WriteString("\n\n")

	if v.Error != "" {
		b.WriteString(errorStyle.Width(m.width - 2).Render("! " + v.Error))
		b.WriteString("\n\n")
	}

	if v.CountLine != "" {
		b.WriteString(countStyle.Render(v.CountLine))
		b.WriteString("\n\n")
		excerpt := excerptStyle.Width(m.width)
		for _, item := range v.Items {
			b.WriteString(labelStyle.Render(item.Label))
			b.WriteString("\n")
			b.WriteString(subtitleStyle.Render(item.Subtitle))
			b.WriteString("\n")
			b.WriteString(excerpt.Render(item.Excerpt))
			b.WriteString("\n\n")
		}
	}

	if v.ShowEmpty {
		b.WriteString(emptyStyle.Render(view.EmptyText))
		b.WriteString("\n\n")
	}

	b.WriteString(hintStyle.Render("tab: next field • enter: search • esc: quit"))
	b.WriteString("\n")
	return b.String()
}

func renderTitle() string {
	const colored = "WebSite"
	var b strings.Builder
	for i, r := range colored {
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(titleColors[i%len(titleColors)]).Render(string(r)))
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(strings.TrimPrefix(view.Title, colored)))
	return b.String()
}

func (m Model) renderField(content string, focused bool) string {
	if focused {
		return fieldFocusedStyle.Render(content)
	}
	return fieldStyle.Render(content)
}

func (m Model) renderButton(v view.View) string {
	label := v.ButtonLabel
	if v.Loading {
		label = m.spinner.View() + " " + label
	}
	switch {
	case !v.CanSearch:
		return buttonDisabledStyle.Render(label)
	case m.focus == focusButton:
		return buttonFocusedStyle.Render(label)
	default:
		return buttonStyle.Render(label)
	}
}
