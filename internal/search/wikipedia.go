package search

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/daodao97/xgo/xlog"
	"github.com/tidwall/gjson"
)

const wikipediaAPI = "https://en.wikipedia.org/w/api.php"

// searchWikipedia 百科检索: 先搜标题再逐条取摘要
// 多词查询要求标题包含全部查询词, 避免 "Charlie Kirk" 匹配到无关的 Charlie
func (e *Engine) searchWikipedia(ctx context.Context, query string, cap int) []Result {
	e.notifier.SourceAccessed("wikipedia", query)

	searchQuery := query
	// "is X dead or alive" 这类问法先还原出人名, 否则检索目标是整句话
	if isDeathQuery(query) || strings.Contains(strings.ToLower(query), "current president") {
		if name := extractPersonName(query); name != "" {
			searchQuery = name
		}
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("list", "search")
	params.Set("srsearch", searchQuery)
	params.Set("srlimit", "5")

	data, err := e.fetcher.GetJSON(ctx, wikipediaAPI, params)
	if err != nil {
		xlog.Warn("Wikipedia 标题检索失败", xlog.Err(err))
		return nil
	}

	searchTerms := strings.Fields(strings.ToLower(searchQuery))
	limit := cap
	if limit <= 0 || limit > 3 {
		limit = 3
	}

	var results []Result
	for _, item := range data.Get("query.search").Array() {
		title := item.Get("title").String()
		titleLower := strings.ToLower(title)

		if len(searchTerms) >= 2 && !containsAllTerms(titleLower, searchTerms) {
			continue
		}

		extract, err := e.wikipediaExtract(ctx, title)
		if err != nil {
			xlog.Warn("Wikipedia 摘要获取失败", xlog.String("title", title), xlog.Err(err))
			continue
		}
		if len(extract) <= 50 {
			continue
		}

		content := extract
		if len(content) > 500 {
			content = truncateRunes(content, 500) + "..."
		}

		r := Result{
			Title:     title,
			Content:   content,
			URL:       "https://en.wikipedia.org/wiki/" + strings.ReplaceAll(title, " ", "_"),
			Type:      TypeWikipedia,
			Timestamp: time.Now(),
		}
		e.notifier.ResultFound(r)
		results = append(results, r)

		if len(results) >= limit {
			break
		}
	}
	return results
}

func (e *Engine) wikipediaExtract(ctx context.Context, title string) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("prop", "extracts")
	params.Set("exintro", "1")
	params.Set("explaintext", "1")
	params.Set("titles", title)

	data, err := e.fetcher.GetJSON(ctx, wikipediaAPI, params)
	if err != nil {
		return "", err
	}

	var extract string
	data.Get("query.pages").ForEach(func(_, page gjson.Result) bool {
		extract = page.Get("extract").String()
		return extract == "" // 取到第一个非空摘要即停止
	})
	return extract, nil
}

func containsAllTerms(text string, terms []string) bool {
	for _, term := range terms {
		if !strings.Contains(text, term) {
			return false
		}
	}
	return true
}
