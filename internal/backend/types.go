package backend

import "context"

// SearchInput 搜索请求体，字段均为用户原样输入
type SearchInput struct {
	URL   string `json:"url"`
	Query string `json:"query"`
}

// SearchResult 后端返回的单条匹配，客户端只读取 content
type SearchResult struct {
	Content string `json:"content"`
}

// Searcher 搜索后端接口
type Searcher interface {
	// Search 提交一次搜索，结果顺序与后端返回一致
	Search(ctx context.Context, in SearchInput) ([]SearchResult, error)
}

// SearcherFunc 把普通函数适配为 Searcher
type SearcherFunc func(ctx context.Context, in SearchInput) ([]SearchResult, error)

// Search 调用 f
func (f SearcherFunc) Search(ctx context.Context, in SearchInput) ([]SearchResult, error) {
	return f(ctx, in)
}
