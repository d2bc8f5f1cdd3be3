package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	log "github.com/sirupsen/logrus"
)

// DefaultEndpoint 后端搜索接口的默认地址
const DefaultEndpoint = "http://127.0.0.1:8000/search"

// Client 通过 HTTP 调用远端搜索后端
type Client struct {
	client   *http.Client
	endpoint string
}

// NewClient 创建后端客户端，proxyURL 为空时直连
//
// 不设置超时，请求只受传输层默认行为约束。
func NewClient(endpoint, proxyURL string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if proxyURL != "" {
		if proxy, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(proxy)
		} else {
			log.Warnf("⚠️ Invalid proxy url %q ignored: %v", proxyURL, err)
		}
	}

	return &Client{
		client:   &http.Client{Transport: transport},
		endpoint: endpoint,
	}
}

// Endpoint 返回请求地址
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Search 向后端 POST {url, query} 并解析结果数组
func (c *Client) Search(ctx context.Context, in SearchInput) ([]SearchResult, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encode request failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w: %w", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w: %w", ErrTransport, err)
	}

	results, err := decodeResults(body)
	if err != nil {
		return nil, err
	}

	log.Debugf("🔍 Backend: %d result(s) for query '%s' on %s", len(results), in.Query, in.URL)
	return results, nil
}

// rawResult 用指针区分缺失的 content 与空字符串
type rawResult struct {
	Content *string `json:"content"`
}

// decodeResults 解析结果数组，null、非数组或缺少字符串 content 的元素都视为格式错误
func decodeResults(body []byte) ([]SearchResult, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: expected a JSON array", ErrMalformed)
	}

	var raw []rawResult
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	results := make([]SearchResult, 0, len(raw))
	for i, r := range raw {
		if r.Content == nil {
			return nil, fmt.Errorf("%w: result %d has no content", ErrMalformed, i)
		}
		results = append(results, SearchResult{Content: *r.Content})
	}
	return results, nil
}
