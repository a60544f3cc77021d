package search

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// 共享的查询特征判断, 连接器的启用门控都基于这里

var currentEventWords = []string{
	"today", "yesterday", "this week", "this month", "recent", "latest",
	"current", "now", "happening", "breaking", "news",
}

var politicalWords = []string{
	"president", "prime minister", "leader", "governor", "mayor",
	"who is the current", "who's the current", "current president", "current pm",
}

var deathWords = []string{
	"dead or alive", "dead", "alive", "died", "death", "obituary",
}

// 死亡相关的确定性证据, 出现这些说明结果已经给出了明确结论
var definitiveDeathPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(19|20)\d{2}\s*[-–—]\s*(19|20)\d{2}\b`), // 生卒年份区间
	regexp.MustCompile(`(?i)\bobituary\b`),
	regexp.MustCompile(`(?i)\bpassed away\b`),
	regexp.MustCompile(`(?i)\bdied on\b`),
	regexp.MustCompile(`(?i)\bwas (killed|assassinated)\b`),
}

func isCurrentEventsQuery(query string) bool {
	q := strings.ToLower(query)
	if containsAny(q, politicalWords) {
		return true
	}
	if containsAny(q, currentEventWords) {
		return true
	}
	// 近两年的年份也视为时效性查询
	year := time.Now().Year()
	for _, y := range []int{year - 1, year} {
		if strings.Contains(q, strconv.Itoa(y)) {
			return true
		}
	}
	return false
}

func isDeathQuery(query string) bool {
	return containsAny(strings.ToLower(query), deathWords)
}

func isPoliticalQuery(query string) bool {
	return containsAny(strings.ToLower(query), politicalWords)
}

func hasDefinitiveDeathEvidence(results []Result) bool {
	for _, r := range results {
		text := r.Title + " " + r.Content
		for _, p := range definitiveDeathPatterns {
			if p.MatchString(text) {
				return true
			}
		}
	}
	return false
}

// 从 "is X dead or alive" 一类的问法里还原人名本身
var personNameStrips = []string{
	" dead or alive", " dead", " alive", " died", " death", " is ", "is ",
	" current", " status", " president of", " the ",
}

func extractPersonName(query string) string {
	name := strings.ToLower(strings.TrimSpace(query))
	for _, phrase := range personNameStrips {
		name = strings.ReplaceAll(name, phrase, " ")
	}
	return strings.Join(strings.Fields(name), " ")
}

// titleCase 简单的首字母大写, 用于人名展示
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if r == utf8.RuneError {
			continue
		}
		words[i] = strings.ToUpper(string(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

// queryKeywords 过滤掉短词后的关键词集合, 用于判断内容与查询的相关性
func queryKeywords(query string) []string {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if len(w) > 3 {
			words = append(words, w)
		}
	}
	return words
}

func matchesKeywords(text string, keywords []string) bool {
	text = strings.ToLower(text)
	for _, w := range keywords {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
