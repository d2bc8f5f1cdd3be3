package view

import (
	"fmt"

	"github.com/cliffyan/go-site-search/internal/session"
)

// 固定文案
const (
	Title            = "WebSite Content Search"
	URLPlaceholder   = "Enter website URL"
	QueryPlaceholder = "Search for content..."
	SearchLabel      = "Search"
	SearchingLabel   = "Searching"
	ExcerptLabel     = "Content excerpt"
	EmptyText        = "Enter a website URL and search query to find relevant content"

	// ExcerptLength 摘要保留的字符数
	ExcerptLength = 300
	// Ellipsis 摘要后总是追加的省略号
	Ellipsis = "..."
)

// Item 单条结果的展示内容
type Item struct {
	Label    string `json:"label"`
	Subtitle string `json:"subtitle"`
	Excerpt  string `json:"excerpt"`
}

// View 一帧界面所需的全部数据
type View struct {
	Mode        string `json:"mode"`
	URL         string `json:"url"`
	Query       string `json:"query"`
	Loading     bool   `json:"loading"`
	CanSearch   bool   `json:"canSearch"`
	ButtonLabel string `json:"buttonLabel"`
	CountLine   string `json:"countLine,omitempty"`
	Items       []Item `json:"items"`
	Error       string `json:"error,omitempty"`
	ShowEmpty   bool   `json:"showEmpty"`
	Rev         uint64 `json:"rev"`
}

// Build 从状态推导视图
func Build(s session.State) View {
	v := View{
		Mode:        s.Mode().String(),
		URL:         s.URL,
		Query:       s.Query,
		Loading:     s.Loading,
		CanSearch:   s.CanSearch(),
		ButtonLabel: SearchLabel,
		Items:       []Item{},
		Error:       s.Error,
		ShowEmpty:   !s.Loading && len(s.Results) == 0 && s.Error == "",
		Rev:         s.Rev,
	}
	if s.Loading {
		v.ButtonLabel = SearchingLabel
	}

	if len(s.Results) > 0 {
		v.CountLine = CountLine(len(s.Results))
		for i, r := range s.Results {
			v.Items = append(v.Items, Item{
				Label:    ResultLabel(i),
				Subtitle: ExcerptLabel,
				Excerpt:  Excerpt(r.Content),
			})
		}
	}
	return v
}

// CountLine 结果数量行
func CountLine(n int) string {
	return fmt.Sprintf("About %d results", n)
}

// ResultLabel 第 i 条（从 0 开始）结果的标题
func ResultLabel(i int) string {
	return fmt.Sprintf("Result %d", i+1)
}

// Excerpt 截取前 ExcerptLength 个字符并追加省略号，短内容同样追加
func Excerpt(content string) string {
	runes := []rune(content)
	if len(runes) > ExcerptLength {
		runes = runes[:ExcerptLength]
	}
	return string(runes) + Ellipsis
}
