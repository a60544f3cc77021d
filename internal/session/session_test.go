package session

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"

	"philos/internal/search"
)

// offlineFetcher 离线 Fetcher, JSON 返回空对象, 页面抓取一律失败
type offlineFetcher struct{}

func (offlineFetcher) GetJSON(ctx context.Context, rawURL string, params url.Values) (gjson.Result, error) {
	return gjson.Parse("{}"), nil
}

func (offlineFetcher) GetHTML(ctx context.Context, rawURL string) (*goquery.Document, error) {
	return nil, fmt.Errorf("offline")
}

func (offlineFetcher) GetText(ctx context.Context, rawURL string) (string, error) {
	return "", fmt.Errorf("offline")
}

func newTestSession() *Session {
	engine := search.NewEngine(
		search.WithFetcher(offlineFetcher{}),
		search.WithMinInterval(time.Millisecond),
	)
	return NewWithEngine(engine)
}

func collectEvents(events chan Event) []Event {
	var out []Event
	for event := range events {
		out = append(out, event)
	}
	return out
}

func TestRunCasualUtteranceSkipsSearch(t *testing.T) {
	sess := newTestSession()

	events := collectEvents(sess.Run(context.Background(), "I love pizza", "That's great!", 5, false))

	for _, event := range events {
		if event.Kind() == "outcome" {
			t.Errorf("闲聊不应产出检索结果")
		}
	}

	// 应当有一条说明不需要检索的决策事件
	found := false
	for _, event := range events {
		if d, ok := event.(DecisionEvent); ok && d.Detail == "no search needed" {
			found = true
		}
	}
	if !found {
		t.Errorf("缺少跳过检索的决策事件, 实际事件: %v", events)
	}
}

func TestRunExplicitSearchProducesOutcome(t *testing.T) {
	sess := newTestSession()

	events := collectEvents(sess.Run(context.Background(), "search up Charles Darwin", "", 5, false))

	var outcome *search.Outcome
	chunks := 0
	for _, event := range events {
		switch v := event.(type) {
		case OutcomeEvent:
			outcome = v.Outcome
		case ChunkEvent:
			chunks++
		}
	}

	if outcome == nil {
		t.Fatalf("显式检索请求应当产出 Outcome 事件")
	}
	if outcome.Query != "Charles Darwin" {
		t.Errorf("提取的查询 = %q, 期望 Charles Darwin", outcome.Query)
	}
	if !outcome.Success {
		t.Errorf("离线环境下检索也应当成功返回空结果, 错误: %s", outcome.Error)
	}
	if chunks == 0 {
		t.Errorf("摘要应当以分块事件推送")
	}
}

func TestSessionCloseClearsCache(t *testing.T) {
	sess := newTestSession()

	collectEvents(sess.Run(context.Background(), "search up Charles Darwin", "", 5, false))
	sess.Close()

	// 缓存清掉后, 追问不再被当作延续话题
	events := collectEvents(sess.Run(context.Background(), "tell me more", "", 5, false))
	for _, event := range events {
		if event.Kind() == "outcome" {
			t.Errorf("缓存清空后的追问不应触发检索")
		}
	}
}

// gatedFetcher 按到达顺序给前几次 JSON 请求设闸, 用于制造两轮同时在途的工作流
type gatedFetcher struct {
	mu      sync.Mutex
	calls   int
	gates   []chan struct{}
	entered chan int
}

func (f *gatedFetcher) GetJSON(ctx context.Context, rawURL string, params url.Values) (gjson.Result, error) {
	f.mu.Lock()
	n := f.calls
	f.calls++
	var gate chan struct{}
	if n < len(f.gates) {
		gate = f.gates[n]
	}
	f.mu.Unlock()

	if gate != nil {
		f.entered <- n
		<-gate
	}
	return gjson.Parse("{}"), nil
}

func (f *gatedFetcher) GetHTML(ctx context.Context, rawURL string) (*goquery.Document, error) {
	return nil, fmt.Errorf("offline")
}

func (f *gatedFetcher) GetText(ctx context.Context, rawURL string) (string, error) {
	return "", fmt.Errorf("offline")
}

func TestRunOverlappingRunsKeepLatestStream(t *testing.T) {
	fetcher := &gatedFetcher{
		gates:   []chan struct{}{make(chan struct{}), make(chan struct{})},
		entered: make(chan int, 2),
	}
	engine := search.NewEngine(
		search.WithFetcher(fetcher),
		search.WithMinInterval(time.Millisecond),
	)
	sess := NewWithEngine(engine)

	ch1 := sess.Run(context.Background(), "search up solar eclipses", "", 5, false)
	<-fetcher.entered // 第一轮已在检索途中

	ch2 := sess.Run(context.Background(), "search up quantum computing", "", 5, false)
	<-fetcher.entered // 第二轮也已在检索途中

	// 先放行并结束第一轮, 它的收尾不应夺走第二轮的事件流
	close(fetcher.gates[0])
	collectEvents(ch1)

	close(fetcher.gates[1])
	events := collectEvents(ch2)

	found := false
	for _, event := range events {
		if v, ok := event.(OutcomeEvent); ok && v.Outcome != nil && v.Outcome.Query == "quantum computing" {
			found = true
		}
	}
	if !found {
		t.Errorf("第二轮的 Outcome 事件被丢弃, 实际事件数 %d", len(events))
	}
}
