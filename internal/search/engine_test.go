package search

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"

	"philos/internal/pkg/xllm"
)

// stubFetcher 离线的 Fetcher 实现, 按 URL 前缀返回预置响应
type stubFetcher struct {
	json map[string]string // URL 前缀 -> JSON 响应体
	html map[string]string // URL 前缀 -> HTML 响应体
}

func (f *stubFetcher) GetJSON(ctx context.Context, rawURL string, params url.Values) (gjson.Result, error) {
	if err := ctx.Err(); err != nil {
		return gjson.Result{}, err
	}
	for prefix, body := range f.json {
		if strings.HasPrefix(rawURL, prefix) {
			return gjson.Parse(body), nil
		}
	}
	return gjson.Parse("{}"), nil
}

func (f *stubFetcher) GetHTML(ctx context.Context, rawURL string) (*goquery.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for prefix, body := range f.html {
		if strings.HasPrefix(rawURL, prefix) {
			return goquery.NewDocumentFromReader(strings.NewReader(body))
		}
	}
	return nil, fmt.Errorf("offline")
}

func (f *stubFetcher) GetText(ctx context.Context, rawURL string) (string, error) {
	return "", fmt.Errorf("offline")
}

// fakeLLM 固定回复的 LLM 实现
type fakeLLM struct {
	reply string
	err   error
	calls int
}

func (f *fakeLLM) Chat(ctx context.Context, req xllm.Request) (*xllm.Response, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &xllm.Response{Content: f.reply}, nil
}

func newTestEngine(fetcher Fetcher, opts ...Option) *Engine {
	base := []Option{
		WithFetcher(fetcher),
		WithMinInterval(time.Millisecond),
	}
	return NewEngine(append(base, opts...)...)
}

func TestSearchWebSynthesizesStatusInference(t *testing.T) {
	e := newTestEngine(&stubFetcher{})

	outcome := e.SearchWeb(context.Background(), "is john smith dead or alive", 5, false)

	if !outcome.Success {
		t.Fatalf("检索应当成功, 错误: %s", outcome.Error)
	}
	if outcome.ResultCount != 1 {
		t.Fatalf("期望恰好 1 条合成结果, 实际 %d", outcome.ResultCount)
	}
	r := outcome.Results[0]
	if r.Type != TypeStatusInference {
		t.Errorf("结果类型 = %s, 期望 %s", r.Type, TypeStatusInference)
	}
	if !strings.Contains(r.Content, "John Smith") {
		t.Errorf("推断内容应包含人名, 实际: %s", r.Content)
	}
	if !strings.Contains(strings.ToLower(r.Content), "low-confidence") {
		t.Errorf("推断内容应标明低置信度, 实际: %s", r.Content)
	}
	if outcome.Method != MethodStandard {
		t.Errorf("Method = %s, 期望 %s", outcome.Method, MethodStandard)
	}
}

func TestSearchWebNoInferenceWithDefinitiveEvidence(t *testing.T) {
	e := newTestEngine(&stubFetcher{
		json: map[string]string{
			duckduckgoAPI: `{"Abstract":"John Smith (1900-1980) was an English explorer.","Heading":"John Smith","AbstractURL":"https://example.com/john"}`,
		},
	})

	outcome := e.SearchWeb(context.Background(), "is john smith dead or alive", 5, false)

	if !outcome.Success {
		t.Fatalf("检索应当成功, 错误: %s", outcome.Error)
	}
	for _, r := range outcome.Results {
		if r.Type == TypeStatusInference {
			t.Errorf("已有生卒年份证据时不应再合成推断结果")
		}
	}
	if outcome.ResultCount != 1 {
		t.Errorf("期望 1 条摘要结果, 实际 %d", outcome.ResultCount)
	}
	if outcome.Results[0].Type != TypeAbstract {
		t.Errorf("结果类型 = %s, 期望 %s", outcome.Results[0].Type, TypeAbstract)
	}
}

func TestSearchWebEmptyQuery(t *testing.T) {
	e := newTestEngine(&stubFetcher{})

	outcome := e.SearchWeb(context.Background(), "   ", 5, false)

	if outcome.Success {
		t.Errorf("空查询不应成功")
	}
	if outcome.Error == "" {
		t.Errorf("空查询应当携带错误说明")
	}
}

func TestSearchWebStoresFollowupCache(t *testing.T) {
	e := newTestEngine(&stubFetcher{
		json: map[string]string{
			duckduckgoAPI: `{"Answer":"42 is the answer","AnswerURL":"https://example.com/42"}`,
		},
	})

	e.SearchWeb(context.Background(), "answer to everything", 5, false)

	query, results, ok := e.cache.Recall()
	if !ok {
		t.Fatalf("检索完成后缓存应当存在")
	}
	if query != "answer to everything" {
		t.Errorf("缓存的查询 = %q, 期望原始查询", query)
	}
	if len(results) == 0 {
		t.Errorf("缓存的结果不应为空")
	}

	// 第二次检索整体覆盖
	e.SearchWeb(context.Background(), "another topic", 5, false)
	query, _, _ = e.cache.Recall()
	if query != "another topic" {
		t.Errorf("缓存应当被第二次检索覆盖, 实际 %q", query)
	}
}

func TestSearchWebCancelledContext(t *testing.T) {
	e := newTestEngine(&stubFetcher{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome := e.SearchWeb(ctx, "some topic", 5, false)

	if outcome.Success {
		t.Errorf("取消且无结果时 Success 应为 false")
	}
	if outcome.Error == "" {
		t.Errorf("取消时应当携带错误说明")
	}
}

func TestSearchWebDeepFetch(t *testing.T) {
	e := newTestEngine(&stubFetcher{
		json: map[string]string{
			duckduckgoAPI: `{"Answer":"short answer","AnswerURL":"https://example.com/page"}`,
		},
		html: map[string]string{
			"https://example.com/page": `<html><body><main>` + strings.Repeat("Full article text. ", 20) + `</main></body></html>`,
		},
	})

	outcome := e.SearchWeb(context.Background(), "some topic", 5, true)

	if !outcome.Success {
		t.Fatalf("检索应当成功, 错误: %s", outcome.Error)
	}
	found := false
	for _, r := range outcome.Results {
		if r.Type == TypeFullContent {
			found = true
			if !strings.Contains(r.Content, "Full article text.") {
				t.Errorf("整页内容未被抓取: %s", r.Content[:50])
			}
		}
	}
	if !found {
		t.Errorf("deep=true 时应当产出 full_content 结果")
	}
	if outcome.Method != MethodComprehensive {
		t.Errorf("深度检索的 Method = %s, 期望 %s", outcome.Method, MethodComprehensive)
	}
}

func TestSearchWebCapsResults(t *testing.T) {
	e := newTestEngine(&stubFetcher{
		json: map[string]string{
			duckduckgoAPI: `{"Answer":"a1","Abstract":"long abstract text","Heading":"Topic","RelatedTopics":[{"Text":"r1","FirstURL":"https://ddg.gg/a"},{"Text":"r2","FirstURL":"https://ddg.gg/b"},{"Text":"r3","FirstURL":"https://ddg.gg/c"}]}`,
		},
	})

	outcome := e.SearchWeb(context.Background(), "some topic", 2, false)

	if outcome.ResultCount > 2 {
		t.Errorf("结果数 %d 超出上限 2", outcome.ResultCount)
	}
}

func TestClearSearchCache(t *testing.T) {
	e := newTestEngine(&stubFetcher{
		json: map[string]string{
			duckduckgoAPI: `{"Answer":"cached"}`,
		},
	})

	e.SearchWeb(context.Background(), "topic", 5, false)
	e.ClearSearchCache()

	if _, _, ok := e.cache.Recall(); ok {
		t.Errorf("ClearSearchCache 后缓存应当为空")
	}
}

func TestCollectNewsFeedsBeforeBreakingNews(t *testing.T) {
	// 死讯 + 时效双重特征的查询, 新闻源必须排在突发专项之前
	e := newTestEngine(&stubFetcher{
		json: map[string]string{
			duckduckgoAPI: `{"Answer":"status unclear","RelatedTopics":[{"Text":"Charlie Kirk reportedly died this year","FirstURL":"https://example.com/ck"}]}`,
		},
	})

	results := e.collect(context.Background(), "is charlie kirk dead or alive today", 5)

	newsIdx, breakingIdx := -1, -1
	for i, r := range results {
		if newsIdx == -1 && (r.Type == TypeRSSNews || r.Type == TypeSearchStatus) {
			newsIdx = i
		}
		if breakingIdx == -1 && (r.Type == TypeBreakingNews || r.Type == TypeDeathNotice) {
			breakingIdx = i
		}
	}

	if newsIdx == -1 {
		t.Fatalf("时效性查询应当产出新闻源结果, 实际: %v", results)
	}
	if breakingIdx == -1 {
		t.Fatalf("死讯查询应当产出突发专项结果, 实际: %v", results)
	}
	if newsIdx > breakingIdx {
		t.Errorf("新闻源结果位于 %d, 晚于突发专项的 %d", newsIdx, breakingIdx)
	}
}

func TestSearchWebFailureKeepsPriorCache(t *testing.T) {
	e := newTestEngine(&stubFetcher{})
	e.cache.Store("prior topic", []Result{{Title: "Prior"}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	outcome := e.SearchWeb(ctx, "new topic", 5, false)

	if outcome.Success {
		t.Fatalf("取消且无结果时 Success 应为 false")
	}
	query, _, ok := e.cache.Recall()
	if !ok {
		t.Fatalf("失败的检索不应清掉追问缓存")
	}
	if query != "prior topic" {
		t.Errorf("失败的检索不应覆盖追问缓存, 实际 %q", query)
	}
}
