package search

import (
	"context"
	"sync"
	"time"
)

// DefaultFollowupTTL 追问缓存的有效期, 超时后视为不存在
const DefaultFollowupTTL = 120 * time.Second

// FollowupCache 记录最近一次检索, 用于识别会话中的追问
// 整个进程只有一个槽位, 并发会话是 last-write-wins 语义 (构造隔离的
// Engine 可以得到每会话独立的缓存)
type FollowupCache struct {
	mu          sync.Mutex
	lastQuery   string
	lastResults []Result
	lastTime    time.Time
	ttl         time.Duration

	now func() time.Time // 测试可替换
}

func NewFollowupCache(ttl time.Duration) *FollowupCache {
	if ttl <= 0 {
		ttl = DefaultFollowupTTL
	}
	return &FollowupCache{ttl: ttl, now: time.Now}
}

// Recall 返回缓存的检索, 过期时清空缓存并报告不存在
// 过期清理只发生在这里, 没有独立的定时器
func (c *FollowupCache) Recall() (query string, results []Result, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lastQuery == "" {
		return "", nil, false
	}
	if c.now().Sub(c.lastTime) > c.ttl {
		c.lastQuery = ""
		c.lastResults = nil
		c.lastTime = time.Time{}
		return "", nil, false
	}
	return c.lastQuery, c.lastResults, true
}

// Store 在每次成功的顶层检索后整体覆盖
func (c *FollowupCache) Store(query string, results []Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastQuery = query
	c.lastResults = results
	c.lastTime = c.now()
}

// Clear 会话边界的显式失效
func (c *FollowupCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastQuery = ""
	c.lastResults = nil
	c.lastTime = time.Time{}
}

// RateLimiter 顶层检索的最小间隔限制, 每次 SearchWeb 入口处生效一次
type RateLimiter struct {
	mu          sync.Mutex
	last        time.Time
	minInterval time.Duration

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration)
}

func NewRateLimiter(minInterval time.Duration) *RateLimiter {
	return &RateLimiter{
		minInterval: minInterval,
		now:         time.Now,
		sleep:       sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Wait 距上次完成不足最小间隔时补足等待
func (r *RateLimiter) Wait(ctx context.Context) {
	r.mu.Lock()
	wait := time.Duration(0)
	if !r.last.IsZero() {
		if since := r.now().Sub(r.last); since < r.minInterval {
			wait = r.minInterval - since
		}
	}
	r.mu.Unlock()

	if wait > 0 {
		r.sleep(ctx, wait)
	}
}

// Mark 在检索完成时记录时间
func (r *RateLimiter) Mark() {
	r.mu.Lock()
	r.last = r.now()
	r.mu.Unlock()
}
