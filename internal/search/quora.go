package search

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/daodao97/xgo/xlog"
)

// Quora 的 class 名会随版本漂移, 按候选顺序逐个尝试
var quoraSelectors = []string{
	"a.question_link span",
	"span.qu-userSelect--text",
	"div.q-box a[href*='/']",
	"a[class*='question']",
}

// searchQuora 问答站抓取, 第一个命中的选择器生效
func (e *Engine) searchQuora(ctx context.Context, query string, cap int) []Result {
	e.notifier.SourceAccessed("quora", query)

	target := "https://www.quora.com/search?q=" + url.QueryEscape(query)
	doc, err := e.fetcher.GetHTML(ctx, target)
	if err != nil {
		xlog.Debug("Quora 检索页抓取失败", xlog.Err(err))
		return nil
	}

	if cap <= 0 {
		cap = 3
	}

	var results []Result
	for _, selector := range quoraSelectors {
		doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			title := strings.TrimSpace(s.Text())
			if len(title) < 15 {
				return true
			}

			href, ok := s.Attr("href")
			if !ok {
				href, _ = s.Closest("a").Attr("href")
			}

			r := Result{
				Title:     title,
				Content:   "Q&A discussion: " + title,
				URL:       absoluteURL(href, "https://www.quora.com"),
				Type:      TypeQuoraQA,
				Source:    "quora",
				Timestamp: time.Now(),
			}
			e.notifier.ResultFound(r)
			results = append(results, r)
			return len(results) < cap
		})
		if len(results) > 0 {
			break
		}
	}
	return results
}
