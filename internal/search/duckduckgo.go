package search

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/daodao97/xgo/xlog"
	"github.com/tidwall/gjson"
)

const duckduckgoAPI = "https://api.duckduckgo.com/"

// searchInstantAnswers DuckDuckGo 即时应答: 直接答案 / 摘要 / 最多 3 条相关条目
func (e *Engine) searchInstantAnswers(ctx context.Context, query string, cap int) []Result {
	e.notifier.SourceAccessed("duckduckgo", query)

	data, err := e.instantAnswer(ctx, query)
	if err != nil {
		xlog.Warn("DuckDuckGo 即时应答失败", xlog.Err(err))
		return nil
	}

	var results []Result

	if answer := data.Get("Answer").String(); answer != "" {
		results = append(results, Result{
			Title:     "Direct Answer",
			Content:   answer,
			URL:       data.Get("AnswerURL").String(),
			Type:      TypeInstantAnswer,
			Timestamp: time.Now(),
		})
	}

	if abstract := data.Get("Abstract").String(); abstract != "" {
		title := data.Get("Heading").String()
		if title == "" {
			title = "Information"
		}
		results = append(results, Result{
			Title:     title,
			Content:   abstract,
			URL:       data.Get("AbstractURL").String(),
			Type:      TypeAbstract,
			Timestamp: time.Now(),
		})
	}

	related := data.Get("RelatedTopics").Array()
	for i, topic := range related {
		if i >= 3 {
			break
		}
		text := topic.Get("Text").String()
		if text == "" {
			continue
		}
		firstURL := topic.Get("FirstURL").String()
		results = append(results, Result{
			Title:     relatedTopicTitle(firstURL),
			Content:   text,
			URL:       firstURL,
			Type:      TypeRelated,
			Timestamp: time.Now(),
		})
	}

	if cap > 0 && len(results) > cap {
		results = results[:cap]
	}
	for _, r := range results {
		e.notifier.ResultFound(r)
	}
	return results
}

// instantAnswer 发起一次即时应答查询, 供多个连接器复用
func (e *Engine) instantAnswer(ctx context.Context, query string) (gjson.Result, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("no_html", "1")
	params.Set("skip_disambig", "1")
	return e.fetcher.GetJSON(ctx, duckduckgoAPI, params)
}

// relatedTopicTitle 相关条目没有标题, 取 URL 最后一段还原
func relatedTopicTitle(firstURL string) string {
	if firstURL == "" {
		return "Related Topic"
	}
	segments := strings.Split(strings.TrimRight(firstURL, "/"), "/")
	last := segments[len(segments)-1]
	if last == "" {
		return "Related Topic"
	}
	return strings.ReplaceAll(last, "_", " ")
}
