package search

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/daodao97/xgo/xlog"
	"github.com/spf13/cast"
)

// searchReddit 社区讨论抓取, 逐条解析标题/板块/热度/预览
// 页面结构变化只会导致空结果, 不会让流程中断
func (e *Engine) searchReddit(ctx context.Context, query string, cap int) []Result {
	e.notifier.SourceAccessed("reddit", query)

	target := "https://old.reddit.com/search?q=" + url.QueryEscape(query)
	doc, err := e.fetcher.GetHTML(ctx, target)
	if err != nil {
		xlog.Debug("Reddit 检索页抓取失败", xlog.Err(err))
		return nil
	}

	if cap <= 0 {
		cap = 3
	}

	var results []Result
	doc.Find("div.search-result").EachWithBreak(func(_ int, post *goquery.Selection) bool {
		titleEl := post.Find("a.search-title").First()
		title := strings.TrimSpace(titleEl.Text())
		if title == "" {
			return true
		}
		href, _ := titleEl.Attr("href")

		subreddit := strings.TrimSpace(post.Find("a.search-subreddit-link").First().Text())
		preview := strings.TrimSpace(post.Find("div.search-result-body").First().Text())
		if len(preview) > 300 {
			preview = truncateRunes(preview, 300)
		}
		if preview == "" {
			preview = "Discussion about " + query
		}

		// 形如 "128 points", 只取数字部分
		score := 0
		if fields := strings.Fields(post.Find("span.search-score").First().Text()); len(fields) > 0 {
			score = cast.ToInt(fields[0])
		}

		r := Result{
			Title:     title,
			Content:   preview,
			URL:       absoluteURL(href, "https://old.reddit.com"),
			Type:      TypeRedditPost,
			Score:     score,
			Source:    subreddit,
			Timestamp: time.Now(),
		}
		e.notifier.ResultFound(r)
		results = append(results, r)
		return len(results) < cap
	})
	return results
}

func absoluteURL(href, base string) string {
	switch {
	case href == "":
		return ""
	case strings.HasPrefix(href, "http"):
		return href
	case strings.HasPrefix(href, "//"):
		return "https:" + href
	case strings.HasPrefix(href, "/"):
		return base + href
	default:
		return href
	}
}
