package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/daodao97/xgo/xlog"
)

// 相关条目里出现这些词时认为是讣告类内容
var deathIndicatorWords = []string{"died", "death", "obituary", "passed away", "funeral"}

// searchBreakingNews 死讯类查询的专项检索: 用带日期限定的即时应答查询
// 扫描相关条目里的死亡指示词
func (e *Engine) searchBreakingNews(ctx context.Context, query string, cap int) []Result {
	if !isDeathQuery(query) {
		return nil
	}
	e.notifier.Status("Checking for recent announcements...")

	personName := extractPersonName(query)
	now := time.Now()
	breakingQueries := []string{
		fmt.Sprintf("%q died %d", personName, now.Year()),
		fmt.Sprintf("%q death announcement", personName),
	}

	var results []Result
	for _, breakingQuery := range breakingQueries {
		data, err := e.instantAnswer(ctx, breakingQuery)
		if err != nil {
			xlog.Debug("突发新闻查询失败", xlog.String("query", breakingQuery), xlog.Err(err))
			continue
		}

		if answer := data.Get("Answer").String(); answer != "" {
			r := Result{
				Title:     "Status Information",
				Content:   answer,
				URL:       data.Get("AnswerURL").String(),
				Type:      TypeBreakingNews,
				Source:    "instant_answer",
				Timestamp: time.Now(),
			}
			e.notifier.ResultFound(r)
			results = append(results, r)
		}

		for i, topic := range data.Get("RelatedTopics").Array() {
			if i >= 3 {
				break
			}
			text := topic.Get("Text").String()
			if text == "" || !containsAny(strings.ToLower(text), deathIndicatorWords) {
				continue
			}
			r := Result{
				Title:     "Breaking: " + titleCase(personName),
				Content:   text,
				URL:       topic.Get("FirstURL").String(),
				Type:      TypeDeathNotice,
				Source:    "breaking_news",
				Timestamp: time.Now(),
			}
			e.notifier.ResultFound(r)
			results = append(results, r)
		}

		if cap > 0 && len(results) >= cap {
			results = results[:cap]
			break
		}
	}
	return results
}

// searchCurrentPolitics 领导人类查询的专项检索, 命中即止
func (e *Engine) searchCurrentPolitics(ctx context.Context, query string, cap int) []Result {
	if !isPoliticalQuery(query) {
		return nil
	}
	e.notifier.Status("Searching for current political information...")

	now := time.Now()
	dateTag := fmt.Sprintf("%s %d", now.Month(), now.Year())
	politicalQueries := []string{
		fmt.Sprintf("%s %s", query, dateTag),
		fmt.Sprintf("current US president %s", dateTag),
		fmt.Sprintf("who is president united states %s", dateTag),
	}

	var results []Result
	for _, politicalQuery := range politicalQueries {
		e.notifier.Status("Trying political search: %s", politicalQuery)

		data, err := e.instantAnswer(ctx, politicalQuery)
		if err != nil {
			xlog.Debug("时政查询失败", xlog.String("query", politicalQuery), xlog.Err(err))
			continue
		}

		if answer := data.Get("Answer").String(); answer != "" {
			results = append(results, Result{
				Title:     "Current Political Information",
				Content:   answer,
				URL:       data.Get("AnswerURL").String(),
				Type:      TypePolitical,
				Timestamp: time.Now(),
			})
		}

		// 摘要里带当前年份才认为是现势信息
		if abstract := data.Get("Abstract").String(); abstract != "" && strings.Contains(abstract, fmt.Sprint(now.Year())) {
			results = append(results, Result{
				Title:     fmt.Sprintf("Political Update %d", now.Year()),
				Content:   abstract,
				URL:       data.Get("AbstractURL").String(),
				Type:      TypePolitical,
				Timestamp: time.Now(),
			})
		}

		if len(results) > 0 {
			break
		}
	}

	if cap > 0 && len(results) > cap {
		results = results[:cap]
	}
	for _, r := range results {
		e.notifier.ResultFound(r)
	}
	return results
}
