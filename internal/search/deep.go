package search

import (
	"context"
	"strings"

	"github.com/daodao97/xgo/xlog"
	"golang.org/x/sync/errgroup"
)

// 正文容器的候选位置, 命中第一个即用
var mainContentSelectors = []string{"main", "article", ".content", "#content", ".post-content"}

const deepContentLimit = 2000

// enhanceWithFullContent 对前几条结果抓取整页正文
// 百科摘要已经是高质量文本, 原样保留; 任何一条失败都不影响其余结果
func (e *Engine) enhanceWithFullContent(ctx context.Context, results []Result) []Result {
	limit := e.deepFetchLimit
	if limit <= 0 {
		limit = 3
	}
	if limit > len(results) {
		limit = len(results)
	}

	enhanced := make([]Result, len(results))
	copy(enhanced, results)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i := 0; i < limit; i++ {
		i := i
		r := enhanced[i]
		if r.URL == "" || r.Type == TypeFullContent || r.Type == TypeWikipedia {
			continue
		}
		g.Go(func() error {
			e.notifier.Status("Reading full content from %s...", r.Title)
			content, err := e.fetchPageContent(gctx, r.URL)
			if err != nil {
				xlog.Debug("整页抓取失败", xlog.String("url", r.URL), xlog.Err(err))
				return nil // 保留原结果
			}
			if content == "" {
				return nil
			}
			upgraded := r
			upgraded.Content = content
			upgraded.Type = TypeFullContent
			enhanced[i] = upgraded
			return nil
		})
	}
	_ = g.Wait()

	return enhanced
}

func (e *Engine) fetchPageContent(ctx context.Context, pageURL string) (string, error) {
	doc, err := e.fetcher.GetHTML(ctx, pageURL)
	if err != nil {
		return "", err
	}

	doc.Find("script, style").Remove()

	body := doc.Find("body")
	for _, selector := range mainContentSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			body = sel.First()
			break
		}
	}

	text := strings.Join(strings.Fields(body.Text()), " ")
	if len(text) > deepContentLimit {
		text = truncateRunes(text, deepContentLimit) + "..."
	}
	return text, nil
}
