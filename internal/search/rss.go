package search

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/daodao97/xgo/xlog"
	"github.com/mmcdole/gofeed"
)

// 主流媒体的 RSS 源, 可通过配置覆盖
var defaultNewsFeeds = []string{
	"https://feeds.bbci.co.uk/news/rss.xml",
	"https://rss.cnn.com/rss/edition.rss",
	"https://feeds.reuters.com/reuters/topNews",
	"https://rss.politico.com/politics-news.xml",
	"https://feeds.npr.org/1001/rss.xml",
}

// searchNewsFeeds 时效性查询走新闻源: RSS 关键词匹配 -> 站点抓取兜底 ->
// 合成占位结果, 保证至少返回一条有信息量的结果
func (e *Engine) searchNewsFeeds(ctx context.Context, query string, cap int) []Result {
	e.notifier.Status("Searching real-time news sources...")

	if cap <= 0 {
		cap = 3
	}

	results := e.scanFeeds(ctx, query, cap)

	// RSS 没有命中时直接抓新闻检索页
	if len(results) < cap {
		results = append(results, e.scrapeNewsSearch(ctx, query, cap-len(results))...)
	}

	// 仍然一无所获时给出占位说明, 而不是空列表
	if len(results) == 0 {
		results = append(results, Result{
			Title: "News Search Attempted",
			Content: fmt.Sprintf(
				"Searched multiple news sources for current information about %s. "+
					"No recent news found in available feeds, which could indicate either no recent developments "+
					"or limited access to real-time news data.", query),
			Type:      TypeSearchStatus,
			Source:    "system",
			Timestamp: time.Now(),
		})
	}

	if len(results) > cap {
		results = results[:cap]
	}
	return results
}

func (e *Engine) scanFeeds(ctx context.Context, query string, cap int) []Result {
	keywords := queryKeywords(query)
	parser := gofeed.NewParser()

	var results []Result
	for _, feedURL := range e.newsFeeds {
		host := hostOf(feedURL)
		e.notifier.Status("Checking %s news feed...", host)
		e.notifier.SourceAccessed("rss:"+host, query)

		raw, err := e.fetcher.GetText(ctx, feedURL)
		if err != nil {
			xlog.Debug("RSS 源拉取失败", xlog.String("feed", feedURL), xlog.Err(err))
			continue
		}
		feed, err := parser.ParseString(raw)
		if err != nil {
			xlog.Debug("RSS 源解析失败", xlog.String("feed", feedURL), xlog.Err(err))
			continue
		}

		for i, entry := range feed.Items {
			if i >= 5 {
				break
			}
			content := entry.Title + " " + entry.Description
			if !matchesKeywords(content, keywords) {
				continue
			}

			snippet := entry.Description
			if snippet == "" {
				snippet = "News about " + query
			}
			if len(snippet) > 300 {
				snippet = truncateRunes(snippet, 300)
			}

			r := Result{
				Title:     entry.Title,
				Content:   snippet,
				URL:       entry.Link,
				Type:      TypeRSSNews,
				Source:    host,
				Published: entry.Published,
				Timestamp: time.Now(),
			}
			e.notifier.ResultFound(r)
			results = append(results, r)
		}

		if len(results) >= cap {
			break
		}
	}
	return results
}

// scrapeNewsSearch 直接抓 Bing 新闻检索页, 选择器按顺序尝试
func (e *Engine) scrapeNewsSearch(ctx context.Context, query string, cap int) []Result {
	if cap <= 0 {
		return nil
	}
	e.notifier.Status("Searching news websites directly...")

	target := "https://www.bing.com/news/search?q=" + url.QueryEscape(targetedNewsQuery(query))
	doc, err := e.fetcher.GetHTML(ctx, target)
	if err != nil {
		xlog.Debug("新闻检索页抓取失败", xlog.Err(err))
		return nil
	}

	selectors := []string{"a.title", "div.news-card a.title", "h2 a", "h3 a"}

	var results []Result
	for _, selector := range selectors {
		doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			title := strings.TrimSpace(s.Text())
			if len(title) < 20 || strings.HasPrefix(title, "http") {
				return true
			}
			href, _ := s.Attr("href")
			r := Result{
				Title:     title,
				Content:   "Current news: " + title,
				URL:       href,
				Type:      TypeRSSNews,
				Source:    "bing_news",
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

// targetedNewsQuery 按查询类型补充时间限定词
func targetedNewsQuery(query string) string {
	now := time.Now()
	q := strings.ToLower(query)
	switch {
	case containsAny(q, []string{"president", "election", "government", "political"}):
		return fmt.Sprintf("%s %d %s current", query, now.Year(), now.Month())
	case isDeathQuery(query):
		return fmt.Sprintf("%q %d", query, now.Year())
	default:
		return fmt.Sprintf("%s news recent %d", query, now.Year())
	}
}
