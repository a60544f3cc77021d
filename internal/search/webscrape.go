package search

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/daodao97/xgo/xlog"
)

// 通用检索结果页的标题选择器候选, 按顺序尝试
var webResultSelectors = []string{
	".result__title a",
	"h2 a",
	"h3 a",
	".result-title",
	".web-result h3",
}

// searchOpenWeb 兜底的通用检索页抓取, 仍然没有结果时
// 补一次事实核查式的即时应答查询
func (e *Engine) searchOpenWeb(ctx context.Context, query string, cap int) []Result {
	e.notifier.Status("Searching multiple engines for current information...")
	e.notifier.SourceAccessed("duckduckgo_html", query)

	if cap <= 0 {
		cap = 3
	}

	results := e.scrapeSearchPage(ctx, query, cap)
	if len(results) == 0 {
		results = e.factCheckFallback(ctx, query)
	}
	return results
}

func (e *Engine) scrapeSearchPage(ctx context.Context, query string, cap int) []Result {
	target := "https://html.duckduckgo.com/html/?q=" +
		url.QueryEscape(fmt.Sprintf("%s %d", query, time.Now().Year()))
	doc, err := e.fetcher.GetHTML(ctx, target)
	if err != nil {
		xlog.Debug("通用检索页抓取失败", xlog.Err(err))
		return nil
	}

	var results []Result
	for _, selector := range webResultSelectors {
		doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			title := strings.TrimSpace(s.Text())
			if len(title) < 10 {
				return true
			}
			href, _ := s.Attr("href")

			// 条目的摘要通常在同级容器里
			snippet := ""
			if parent := s.Closest("div, li, article"); parent.Length() > 0 {
				snippet = strings.TrimSpace(parent.Find(".result__snippet, .snippet, p").First().Text())
				if len(snippet) > 300 {
					snippet = truncateRunes(snippet, 300)
				}
			}
			if snippet == "" {
				snippet = "Search result about " + query
			}

			r := Result{
				Title:     title,
				Content:   snippet,
				URL:       absoluteURL(href, "https://duckduckgo.com"),
				Type:      TypeWebResult,
				Source:    "duckduckgo_html",
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

// factCheckFallback 针对 "dead or alive" 一类问题构造非常具体的查询
func (e *Engine) factCheckFallback(ctx context.Context, query string) []Result {
	e.notifier.Status("Trying direct fact checking...")

	factQuery := query
	if isDeathQuery(query) {
		person := extractPersonName(query)
		factQuery = fmt.Sprintf("%q %q %d", person, "died", time.Now().Year())
	}

	data, err := e.instantAnswer(ctx, factQuery)
	if err != nil {
		xlog.Debug("事实核查查询失败", xlog.Err(err))
		return nil
	}

	var results []Result
	if answer := data.Get("Answer").String(); answer != "" {
		results = append(results, Result{
			Title:     "Direct Answer",
			Content:   answer,
			URL:       data.Get("AnswerURL").String(),
			Type:      TypeFactCheck,
			Source:    "direct_query",
			Timestamp: time.Now(),
		})
	}
	if abstract := data.Get("Abstract").String(); abstract != "" {
		results = append(results, Result{
			Title:     "Biographical Information",
			Content:   abstract,
			URL:       data.Get("AbstractURL").String(),
			Type:      TypeBiography,
			Source:    "direct_query",
			Timestamp: time.Now(),
		})
	}
	for _, r := range results {
		e.notifier.ResultFound(r)
	}
	return results
}
