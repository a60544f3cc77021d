package search

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/daodao97/xgo/xlog"

	"philos/internal/pkg/xllm"
)

// 纯寒暄, 不值得检索
var casualPhrases = []string{
	"hello", "hi there", "how are you", "good morning", "good night",
	"thanks", "thank you", "lol", "haha", "ok", "okay", "bye",
}

// 提取查询时剥掉的口语成分
var extractStripPhrases = []string{
	"testing your ability to search things up", "testing your ability to search",
	"test your search", "testing you", "testing your",
	"search for", "search up", "look up", "find information about",
	"can you search", "look it up", "find out about", "find out",
	"google", "actually,", "actually",
	"based off of the most recent news,", "based on the most recent news,",
	"according to recent news,",
}

var questionWordPhrases = []string{
	"what is", "what's", "who is", "who's", "where is", "when did",
	"how does", "why did", "tell me about", "do you know",
}

// "<name>'s death" / "is <name> dead or alive" 类问法
var deathQueryRe = regexp.MustCompile(`(?i)(?:is\s+)?([a-z][a-z .'-]+?)(?:'s)?\s+(?:death|dead or alive|died|dead|alive)\b`)

// "wikipedia page for X" / "X wikipedia page" 类问法
var wikipediaQueryRe = regexp.MustCompile(`(?i)(?:wikipedia page (?:for|about|on)\s+([a-z][a-z .'-]+?)|([a-z][a-z .'-]+?)(?:'s)?\s+wikipedia(?:\s+page)?)\s*[?.!]*\s*$`)

const extractPrompt = `Rewrite the user's message into a terse web search topic (a few words, no question words).
User said: %q
Draft reply: %q
If nothing in the message is worth searching, answer with exactly the word SKIP.
Answer with the topic only.`

// ExtractSearchQuery 把自由对话压缩成检索词
// 不会失败, 永远返回字符串; 返回空串表示不需要检索
func (e *Engine) ExtractSearchQuery(ctx context.Context, utterance, draftReply string) string {
	trimmed := strings.TrimSpace(utterance)
	if trimmed == "" {
		return ""
	}

	// 1. 寒暄直接拒绝
	lower := strings.ToLower(strings.Trim(trimmed, "?.,! "))
	for _, phrase := range casualPhrases {
		if lower == phrase {
			return ""
		}
	}

	// 2. 追问沿用上一次的查询
	if e.isContextualFollowup(ctx, utterance, draftReply) {
		query, _, ok := e.cache.Recall()
		if !ok {
			return ""
		}
		e.notifier.Decision("extract_query", "reuse cached query: "+query)
		return query
	}

	// 3. LLM 改写, SKIP/超长/空回答都回落到规则
	if e.llm != nil {
		resp, err := e.llm.Chat(ctx, xllm.Request{
			Messages:  []xllm.Message{xllm.NewUserMessage(fmt.Sprintf(extractPrompt, utterance, draftReply))},
			MaxTokens: 30,
		})
		if err == nil {
			rewritten := strings.TrimSpace(resp.Content)
			if rewritten != "" && rewritten != "SKIP" && len(rewritten) <= 100 {
				e.notifier.Decision("extract_query", "llm rewrite: "+rewritten)
				return rewritten
			}
		} else {
			xlog.Debug("LLM 改写失败, 回落到规则", xlog.Err(err))
		}
	}

	return fallbackExtract(trimmed)
}

// fallbackExtract 确定性的规则级联
func fallbackExtract(utterance string) string {
	// 死讯类问法定向到 "<人名> death"
	if m := deathQueryRe.FindStringSubmatch(utterance); m != nil {
		name := strings.TrimSpace(m[1])
		if name != "" {
			return titleCase(strings.ToLower(name)) + " death"
		}
	}

	// 百科类问法定向到 "<人名> Wikipedia"
	if m := wikipediaQueryRe.FindStringSubmatch(utterance); m != nil {
		name := m[1]
		if name == "" {
			name = m[2]
		}
		name = strings.TrimSpace(name)
		if name != "" {
			return titleCase(strings.ToLower(name)) + " Wikipedia"
		}
	}

	// 通用路径: 剥掉固定短语和疑问词, 保留原有大小写
	cleaned := stripPhrases(utterance, extractStripPhrases)
	cleaned = stripPhrases(cleaned, questionWordPhrases)
	cleaned = strings.Trim(cleaned, "?.,! ")
	cleaned = strings.Join(strings.Fields(cleaned), " ")

	if len(cleaned) < 3 {
		return ""
	}
	return cleaned
}

// stripPhrases 大小写不敏感地移除短语, 但保留剩余文本的原始大小写
func stripPhrases(s string, phrases []string) string {
	lower := strings.ToLower(s)
	for _, phrase := range phrases {
		for {
			idx := strings.Index(lower, phrase)
			if idx < 0 {
				break
			}
			s = s[:idx] + s[idx+len(phrase):]
			lower = lower[:idx] + lower[idx+len(phrase):]
		}
	}
	return s
}
