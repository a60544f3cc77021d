package search

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/tidwall/gjson"
)

func TestGenerateRefinedQueries(t *testing.T) {
	year := strconv.Itoa(time.Now().Year())

	tests := []struct {
		name          string
		query         string
		wantContains  []string // 至少有一条改写包含这些子串之一
		wantEmptyNone bool
	}{
		{"死讯改写", "is charlie kirk dead or alive", []string{"Charlie Kirk death", "Charlie Kirk Wikipedia"}, true},
		{"政治改写带年份", "who is the current president", []string{year}, true},
		{"通用改写带年份", "quantum computing", []string{year}, true},
		{"时效改写", "latest election news", []string{"latest news"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queries := generateRefinedQueries(tt.query)
			if len(queries) == 0 {
				t.Fatalf("改写不应为空")
			}
			if len(queries) > maxRefinedQueries {
				t.Fatalf("改写数 %d 超出上限 %d", len(queries), maxRefinedQueries)
			}
			for _, q := range queries {
				if strings.EqualFold(q, tt.query) {
					t.Errorf("改写不应与原查询相同: %q", q)
				}
			}
			found := false
			for _, q := range queries {
				for _, want := range tt.wantContains {
					if strings.Contains(q, want) {
						found = true
					}
				}
			}
			if !found {
				t.Errorf("改写 %v 中没有包含期望子串 %v", queries, tt.wantContains)
			}
		})
	}
}

func TestSearchWithRefinementWeakResults(t *testing.T) {
	// 首轮无结果, 改写后的查询能命中即时应答
	fetcher := &refiningFetcher{
		answers: map[string]string{
			"quantum computing": "", // 原查询无结果
		},
		fallback: `{"Answer":"Refined answer found","AnswerURL":"https://example.com/r"}`,
	}
	e := newTestEngine(fetcher)

	outcome := e.SearchWithRefinement(context.Background(), "quantum computing", 5, false)

	if !outcome.Success {
		t.Fatalf("补搜后应当成功, 错误: %s", outcome.Error)
	}
	if outcome.Method != MethodRefined {
		t.Errorf("Method = %s, 期望 %s", outcome.Method, MethodRefined)
	}
	if outcome.RefinedQuery == "" {
		t.Errorf("应当记录实际生效的改写查询")
	}
	if outcome.ResultCount == 0 {
		t.Errorf("补搜应当产出结果")
	}
}

func TestSearchWithRefinementStrongResultsUntouched(t *testing.T) {
	e := newTestEngine(&stubFetcher{
		json: map[string]string{
			duckduckgoAPI: `{"Answer":"a","Abstract":"long enough abstract","Heading":"Topic"}`,
		},
	})

	outcome := e.SearchWithRefinement(context.Background(), "some topic", 5, false)

	if outcome.Method != MethodStandard {
		t.Errorf("结果充足时不应触发补搜, Method = %s", outcome.Method)
	}
	if outcome.RefinedQuery != "" {
		t.Errorf("结果充足时 RefinedQuery 应为空")
	}
}

// refiningFetcher 按查询词区分即时应答响应: answers 命中的查询返回对应
// JSON (空串表示无结果), 未命中的返回 fallback
type refiningFetcher struct {
	stubFetcher
	answers  map[string]string
	fallback string
}

func (f *refiningFetcher) GetJSON(ctx context.Context, rawURL string, params url.Values) (gjson.Result, error) {
	if !strings.HasPrefix(rawURL, duckduckgoAPI) {
		return gjson.Parse("{}"), nil
	}
	query := params.Get("q")
	if body, ok := f.answers[query]; ok {
		if body == "" {
			return gjson.Parse("{}"), nil
		}
		return gjson.Parse(body), nil
	}
	return gjson.Parse(f.fallback), nil
}
