package search

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	chunkThreshold = 1000 // 超过这个长度的内容才分块
	chunkMaxSize   = 1500 // 单块上限, 在句子边界截断
	chunkMaxParts  = 3    // 最多输出的分块数
)

// buildSummary 把最终结果拼成编号的摘要文本
func buildSummary(results []Result, query string) string {
	if len(results) == 0 {
		return fmt.Sprintf("No results found for '%s'", query)
	}

	parts := []string{fmt.Sprintf("Search Results for '%s':\n", query)}
	for i, r := range results {
		content := strings.TrimSpace(r.Content)
		if content == "" {
			continue
		}
		if len(content) > 200 {
			content = truncateRunes(content, 200) + "..."
		}
		parts = append(parts, fmt.Sprintf("%d. [%s] %s", i+1, strings.ToUpper(string(r.Type)), r.Title))
		parts = append(parts, fmt.Sprintf("   %s\n", content))
	}
	return strings.Join(parts, "\n")
}

// ChunkContent 长内容按句子边界切块, 输出带 [Part i/n] 标签的片段
// 短内容原样返回单元素切片; 超出部分只以计数说明, 不会无界输出
func ChunkContent(content string, maxSize int) []string {
	if maxSize <= 0 {
		maxSize = chunkMaxSize
	}
	if len(content) <= chunkThreshold && len(content) <= maxSize {
		return []string{content}
	}

	chunks := splitAtSentences(content, maxSize)
	total := len(chunks)
	if total == 1 {
		return chunks
	}

	shown := total
	if shown > chunkMaxParts {
		shown = chunkMaxParts
	}

	out := make([]string, 0, shown+1)
	for i := 0; i < shown; i++ {
		out = append(out, fmt.Sprintf("[Part %d/%d] %s", i+1, total, chunks[i]))
	}
	if total > shown {
		out = append(out, fmt.Sprintf("(%d more parts omitted)", total-shown))
	}
	return out
}

// NeedsChunking 百科摘要和超长内容都需要分块
func NeedsChunking(r Result) bool {
	return len(r.Content) > chunkThreshold || r.Type == TypeWikipedia
}

func splitAtSentences(content string, maxSize int) []string {
	var chunks []string
	rest := content
	for len(rest) > maxSize {
		window := truncateRunes(rest, maxSize)
		cut := len(window)
		// 往回找最近的句子结束位置
		if idx := lastSentenceEnd(window); idx > 0 {
			cut = idx
		}
		chunks = append(chunks, strings.TrimSpace(rest[:cut]))
		rest = strings.TrimSpace(rest[cut:])
	}
	if rest != "" {
		chunks = append(chunks, rest)
	}
	return chunks
}

// truncateRunes 在不超过 max 字节的前提下于符文边界截断, 不会切出半个多字节字符
func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func lastSentenceEnd(s string) int {
	best := -1
	for _, sep := range []string{". ", "! ", "? ", ".\n"} {
		if idx := strings.LastIndex(s, sep); idx > best {
			best = idx + len(sep)
		}
	}
	if best <= 0 {
		return -1
	}
	return best
}
