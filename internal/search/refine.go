package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/daodao97/xgo/xlog"
	"github.com/tidwall/gjson"

	"philos/internal/pkg/xllm"
)

const maxRefinedQueries = 3

// 改写时的同义词替换
var querySynonyms = map[string]string{
	"passed away": "died",
	"dead":        "death",
	"famous for":  "known for",
	"net worth":   "wealth",
}

const refinePrompt = `You improve weak web search queries.
Original query: %q
It returned too few results. Produce up to 3 alternative search queries, one per line.
Classify first: if the query is about a person's status, include their name plus "death" or "Wikipedia".
If it is about current events or politics, include the current month and year.
Output ONLY the queries as JSON: {"queries": ["...", "..."]}`

// aiEnhancedSearch 结果太少时让 LLM 产出改写查询并用快速连接器重试
// LLM 不可用或解析失败时退回确定性改写
func (e *Engine) aiEnhancedSearch(ctx context.Context, query string, cap int) []Result {
	queries := e.llmRefinedQueries(ctx, query)
	if len(queries) == 0 {
		queries = generateRefinedQueries(query)
	}

	var results []Result
	for _, q := range queries {
		if ctx.Err() != nil {
			break
		}
		e.notifier.Status("Retrying with refined query: %s", q)
		results = append(results, e.searchInstantAnswers(ctx, q, cap)...)
		if len(results) >= cap {
			break
		}
		results = append(results, e.searchOpenWeb(ctx, q, cap-len(results))...)
		if len(results) >= cap {
			break
		}
	}
	return results
}

func (e *Engine) llmRefinedQueries(ctx context.Context, query string) []string {
	if e.llm == nil {
		return nil
	}

	resp, err := e.llm.Chat(ctx, xllm.Request{
		Messages:  []xllm.Message{xllm.NewUserMessage(fmt.Sprintf(refinePrompt, query))},
		MaxTokens: 120,
	})
	if err != nil {
		xlog.Debug("LLM 改写查询失败", xlog.Err(err))
		return nil
	}

	var queries []string
	gjson.Get(resp.Content, "queries").ForEach(func(_, v gjson.Result) bool {
		q := strings.TrimSpace(v.String())
		if q != "" && !strings.EqualFold(q, query) {
			queries = append(queries, q)
		}
		return len(queries) < maxRefinedQueries
	})
	return queries
}

// generateRefinedQueries 确定性的查询改写级联, 最多产出 3 条
func generateRefinedQueries(query string) []string {
	var queries []string
	add := func(q string) {
		q = strings.TrimSpace(q)
		if q == "" || strings.EqualFold(q, query) {
			return
		}
		for _, seen := range queries {
			if strings.EqualFold(seen, q) {
				return
			}
		}
		if len(queries) < maxRefinedQueries {
			queries = append(queries, q)
		}
	}

	now := time.Now()
	year := strconv.Itoa(now.Year())

	// 政治类问题改写成带时间限定的事实性查询
	if isPoliticalQuery(query) {
		name := extractPersonName(query)
		if name != "" {
			add(titleCase(name) + " " + year)
		}
		add(query + " " + now.Month().String() + " " + year)
	}

	// 死讯类问题定向到人名 + death / Wikipedia
	if isDeathQuery(query) {
		name := extractPersonName(query)
		if name != "" {
			add(titleCase(name) + " death")
			add(titleCase(name) + " Wikipedia")
		}
	}

	// 同义词替换
	lower := strings.ToLower(query)
	for from, to := range querySynonyms {
		if strings.Contains(lower, from) {
			add(strings.ReplaceAll(lower, from, to))
		}
	}

	// 剥掉疑问词的裸主题
	bare := stripPhrases(query, questionWordPhrases)
	bare = strings.Trim(bare, "?.,! ")
	add(bare)

	// 时效性限定
	if isCurrentEventsQuery(query) {
		add(query + " latest news")
	} else {
		add(query + " " + year)
	}

	return queries
}

// SearchWithRefinement 标准检索结果太弱时自动用改写查询补一轮
// 补搜的结果与原结果合并去重, Method 标记为 refined
func (e *Engine) SearchWithRefinement(ctx context.Context, query string, maxResults int, deep bool) *Outcome {
	outcome := e.SearchWeb(ctx, query, maxResults, deep)
	if !weakOutcome(outcome) {
		return outcome
	}

	e.notifier.Status("Results look thin, refining the query...")
	refined := generateRefinedQueries(query)
	if llmQueries := e.llmRefinedQueries(ctx, query); len(llmQueries) > 0 {
		refined = llmQueries
	}

	merged := outcome.Results
	var usedQuery string
	for _, q := range refined {
		if ctx.Err() != nil {
			break
		}
		extra := e.collect(ctx, q, maxResults)
		if len(extra) == 0 {
			continue
		}
		if usedQuery == "" {
			usedQuery = q
		}
		merged = append(merged, extra...)
		if len(Deduplicate(merged, e.distinct)) >= maxResults {
			break
		}
	}

	if usedQuery == "" {
		return outcome
	}

	merged = Deduplicate(merged, e.distinct)
	merged = dropSyntheticStatus(merged)
	if len(merged) > maxResults {
		merged = merged[:maxResults]
	}

	outcome.Results = merged
	outcome.ResultCount = len(merged)
	outcome.RefinedQuery = usedQuery
	outcome.Method = MethodRefined
	outcome.Summary = buildSummary(merged, query)
	outcome.Success = true
	e.cache.Store(query, merged)
	return outcome
}

// weakOutcome 失败, 空结果, 或只有占位/推断结果都算弱
func weakOutcome(o *Outcome) bool {
	if !o.Success {
		return true
	}
	real := 0
	for _, r := range o.Results {
		if r.Type != TypeSearchStatus && r.Type != TypeStatusInference {
			real++
		}
	}
	return real < 2
}

// dropSyntheticStatus 补搜拿到真实结果后不再保留合成的推断条目
func dropSyntheticStatus(results []Result) []Result {
	real := 0
	for _, r := range results {
		if r.Type != TypeSearchStatus && r.Type != TypeStatusInference {
			real++
		}
	}
	if real == 0 {
		return results
	}
	out := results[:0:0]
	for _, r := range results {
		if r.Type == TypeSearchStatus || r.Type == TypeStatusInference {
			continue
		}
		out = append(out, r)
	}
	return out
}
