package search

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/daodao97/xgo/xrequest"
	"github.com/tidwall/gjson"
)

// 浏览器 UA, 部分站点会拒绝默认的 Go UA
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Fetcher 统一的出站 GET 入口, 连接器和深度抓取都走这里,
// 便于测试时替换为离线实现
type Fetcher interface {
	// GetJSON 请求 JSON 接口, 返回 gjson 结果
	GetJSON(ctx context.Context, rawURL string, params url.Values) (gjson.Result, error)
	// GetHTML 请求 HTML 页面, 返回 goquery 文档
	GetHTML(ctx context.Context, rawURL string) (*goquery.Document, error)
	// GetText 请求任意文本内容 (RSS/原始页面)
	GetText(ctx context.Context, rawURL string) (string, error)
}

type HTTPFetcher struct {
	UserAgent string
	Timeout   time.Duration
}

func NewHTTPFetcher(userAgent string, timeout time.Duration) *HTTPFetcher {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPFetcher{UserAgent: userAgent, Timeout: timeout}
}

func (f *HTTPFetcher) get(ctx context.Context, rawURL string) (*xrequest.Response, error) {
	// 取消信号在每次出站调用前检查, 取消不算失败, 由调用方决定如何收尾
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := xrequest.New().
		SetDebug(false).
		SetTimeout(f.Timeout).
		SetHeader("User-Agent", f.UserAgent).
		Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("请求 %s 失败: %w", hostOf(rawURL), err)
	}
	if err := resp.Error(); err != nil {
		return nil, fmt.Errorf("请求 %s 返回错误: %w", hostOf(rawURL), err)
	}
	return resp, nil
}

func (f *HTTPFetcher) GetJSON(ctx context.Context, rawURL string, params url.Values) (gjson.Result, error) {
	if len(params) > 0 {
		rawURL = rawURL + "?" + params.Encode()
	}
	resp, err := f.get(ctx, rawURL)
	if err != nil {
		return gjson.Result{}, err
	}
	return gjson.Parse(resp.String()), nil
}

func (f *HTTPFetcher) GetHTML(ctx context.Context, rawURL string) (*goquery.Document, error) {
	text, err := f.GetText(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("解析 %s 页面失败: %w", hostOf(rawURL), err)
	}
	return doc, nil
}

func (f *HTTPFetcher) GetText(ctx context.Context, rawURL string) (string, error) {
	resp, err := f.get(ctx, rawURL)
	if err != nil {
		return "", err
	}
	return resp.String(), nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}
