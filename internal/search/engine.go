package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/daodao97/xgo/xlog"
	"github.com/google/uuid"

	"philos/internal/conf"
	"philos/internal/pkg/xllm"
)

const (
	// DefaultMaxResults 单次检索返回的结果上限
	DefaultMaxResults = 5
	// DefaultMinInterval 两次顶层检索之间的最小间隔
	DefaultMinInterval = time.Second
	// DefaultDeepFetchLimit 深度抓取的结果条数上限
	DefaultDeepFetchLimit = 3
)

// Engine 多信息源的检索聚合器
// 所有状态 (缓存, 限流) 都挂在实例上, 没有包级可变状态
type Engine struct {
	llm      xllm.LLM
	fetcher  Fetcher
	cache    *FollowupCache
	limiter  *RateLimiter
	notifier *Notifier
	distinct DistinctFn

	newsFeeds      []string
	maxResults     int
	deepFetchLimit int
}

type Option func(*Engine)

// WithLLM 注入判定和改写用的模型, 不注入则全部走确定性规则
func WithLLM(llm xllm.LLM) Option {
	return func(e *Engine) { e.llm = llm }
}

func WithFetcher(f Fetcher) Option {
	return func(e *Engine) { e.fetcher = f }
}

func WithNotifier(n *Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

func WithNewsFeeds(feeds []string) Option {
	return func(e *Engine) { e.newsFeeds = feeds }
}

func WithFollowupTTL(ttl time.Duration) Option {
	return func(e *Engine) { e.cache = NewFollowupCache(ttl) }
}

func WithMinInterval(d time.Duration) Option {
	return func(e *Engine) { e.limiter = NewRateLimiter(d) }
}

func WithMaxResults(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxResults = n
		}
	}
}

func WithDeepFetchLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.deepFetchLimit = n
		}
	}
}

// WithDistinctFn 覆盖去重时的特异性判断
func WithDistinctFn(fn DistinctFn) Option {
	return func(e *Engine) { e.distinct = fn }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		cache:          NewFollowupCache(DefaultFollowupTTL),
		limiter:        NewRateLimiter(DefaultMinInterval),
		notifier:       &Notifier{},
		distinct:       DeathSpecificity,
		newsFeeds:      defaultNewsFeeds,
		maxResults:     DefaultMaxResults,
		deepFetchLimit: DefaultDeepFetchLimit,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.fetcher == nil {
		e.fetcher = NewHTTPFetcher(defaultUserAgent, 10*time.Second)
	}
	return e
}

// NewEngineFromConf 按配置文件组装引擎
func NewEngineFromConf(cfg conf.SearchConfig, llm xllm.LLM, notifier *Notifier) *Engine {
	opts := []Option{
		WithLLM(llm),
		WithNotifier(notifier),
		WithFetcher(NewHTTPFetcher(cfg.UserAgent, cfg.Timeout())),
		WithFollowupTTL(cfg.CacheTTL()),
		WithMinInterval(cfg.MinInterval()),
		WithMaxResults(cfg.MaxResults),
		WithDeepFetchLimit(cfg.DeepFetchLimit),
	}
	if len(cfg.NewsFeeds) > 0 {
		opts = append(opts, WithNewsFeeds(cfg.NewsFeeds))
	}
	return NewEngine(opts...)
}

// SearchWeb 顶层检索入口: 按序走各信息源, 去重, 按需深抓, 兜底推断
// 永不 panic; 顶层失败时返回 Success=false 的 Outcome 而非 error
func (e *Engine) SearchWeb(ctx context.Context, query string, maxResults int, deep bool) *Outcome {
	query = strings.TrimSpace(query)
	outcome := &Outcome{
		Query:     query,
		TaskID:    uuid.NewString(),
		Timestamp: time.Now(),
		Method:    MethodStandard,
	}
	if query == "" {
		outcome.Error = "empty query"
		outcome.Summary = "No results found for ''"
		return outcome
	}
	if maxResults <= 0 {
		maxResults = e.maxResults
	}

	// 限流只在顶层入口生效一次, 改写补搜不再排队
	e.limiter.Wait(ctx)
	e.notifier.Status("Searching the web for '%s'...", query)
	xlog.Debug("开始检索", xlog.String("query", query), xlog.Any("deep", deep))

	if deep {
		outcome.Method = MethodComprehensive
	}

	results := e.collect(ctx, query, maxResults)

	unique := Deduplicate(results, e.distinct)

	// 结果太少或显式要求时抓取页面全文
	if deep || len(unique) < 2 {
		unique = e.enhanceWithFullContent(ctx, unique)
	}

	// 死讯类查询无法给出结论时合成恰好一条低置信度推断
	if isDeathQuery(query) && len(unique) < 2 && !hasDefinitiveDeathEvidence(unique) {
		unique = append([]Result{e.inferStatus(query, unique)}, unique...)
	}

	if len(unique) > maxResults {
		unique = unique[:maxResults]
	}

	outcome.Results = unique
	outcome.ResultCount = len(unique)
	outcome.Summary = buildSummary(unique, query)
	outcome.Success = true
	if err := ctx.Err(); err != nil && len(unique) == 0 {
		outcome.Success = false
		outcome.Error = err.Error()
	}

	// 只有成功的检索才覆盖追问缓存, 失败不应抹掉上一轮话题
	if outcome.Success {
		e.cache.Store(query, unique)
	}
	e.limiter.Mark()
	e.notifier.Status("Found %d results", len(unique))
	return outcome
}

// collect 依次走各连接器, 单个连接器失败只影响自己
// 中途取消时返回已经拿到的结果
func (e *Engine) collect(ctx context.Context, query string, maxResults int) []Result {
	var results []Result

	step := func(fn func(context.Context, string, int) []Result) bool {
		if ctx.Err() != nil {
			return false
		}
		results = append(results, fn(ctx, query, maxResults)...)
		return true
	}

	if !step(e.searchInstantAnswers) {
		return results
	}
	if !step(e.searchWikipedia) {
		return results
	}

	if isCurrentEventsQuery(query) {
		if !step(e.searchNewsFeeds) {
			return results
		}
	}
	if isDeathQuery(query) {
		if !step(e.searchBreakingNews) {
			return results
		}
	}
	if isPoliticalQuery(query) {
		if !step(e.searchCurrentPolitics) {
			return results
		}
	}

	// 社区信息源只在结果不足时访问
	if len(results) < maxResults {
		if !step(e.searchReddit) {
			return results
		}
	}
	if len(results) < maxResults {
		if !step(e.searchQuora) {
			return results
		}
	}

	// 仍然太少时让 LLM 改写后重试
	if len(results) < 3 && e.llm != nil {
		if !step(e.aiEnhancedSearch) {
			return results
		}
	}

	// 兜底的开放网页抓取
	if len(results) == 0 {
		step(e.searchOpenWeb)
	}

	return results
}

// inferStatus 合成低置信度的生死状态推断, 整次检索至多一条
func (e *Engine) inferStatus(query string, results []Result) Result {
	name := titleCase(extractPersonName(query))
	if name == "" {
		name = query
	}

	content := fmt.Sprintf(
		"No widely reported death announcement was found for %s. "+
			"Based on available sources they appear to be alive, but this is a low-confidence inference, not a confirmed fact.",
		name)
	if len(results) == 1 {
		content += " Only a single source was available: " + results[0].Title + "."
	}

	e.notifier.Decision("status_inference", "synthesized low-confidence status for "+name)
	return Result{
		Title:     fmt.Sprintf("Status check: %s", name),
		Content:   content,
		Type:      TypeStatusInference,
		Source:    "inference",
		Timestamp: time.Now(),
	}
}

// ClearSearchCache 清空追问缓存, 会话结束时调用
func (e *Engine) ClearSearchCache() {
	e.cache.Clear()
	e.notifier.Decision("cache", "followup cache cleared")
}
