package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/daodao97/xgo/xlog"

	"philos/internal/pkg/xllm"
)

// 明确要求检索的祈使短语
var searchTriggers = []string{
	"search for", "search up", "look up", "google", "bing",
	"find information about", "find out about",
	"can you search", "look it up", "find out",
	"search it up", "look this up", "google it",
	"check online", "find online", "search online",
}

// 草稿回复里的不确定性标记
var uncertaintyIndicators = []string{
	"i don't know", "i'm not sure", "i don't have information",
	"i'm not certain", "i don't have current data",
	"i'm not familiar", "i don't recall", "i'm unsure",
	"no information", "not sure about", "don't have details",
}

const shouldSearchPrompt = `You decide whether an AI companion needs to search the web before replying.
User said: %q
Draft reply: %q
Answer with exactly one word, YES or NO. Answer NO unless external, current, or factual information is clearly required.`

// ShouldSearch 判定这轮对话是否需要外部检索
// 先问 LLM, 拿不到确定的 YES/NO 再走启发式规则; 永不报错
func (e *Engine) ShouldSearch(ctx context.Context, utterance, draftReply string) bool {
	decided, verdict := e.llmYesNo(ctx, fmt.Sprintf(shouldSearchPrompt, utterance, draftReply))
	if decided {
		e.notifier.Decision("should_search", fmt.Sprintf("llm verdict=%v", verdict))
		return verdict
	}

	utteranceLower := strings.ToLower(utterance)
	if containsAny(utteranceLower, searchTriggers) {
		e.notifier.Decision("should_search", "explicit trigger phrase")
		return true
	}

	if containsAny(strings.ToLower(draftReply), uncertaintyIndicators) {
		e.notifier.Decision("should_search", "uncertainty in draft reply")
		return true
	}

	if e.isContextualFollowup(ctx, utterance, draftReply) {
		e.notifier.Decision("should_search", "contextual followup")
		return true
	}

	e.notifier.Decision("should_search", "no trigger")
	return false
}

// llmYesNo 受限的 YES/NO 问询, 只接受精确的单词回答
// 返回 (是否拿到确定回答, 回答内容); LLM 未配置或出错都视为没有回答
func (e *Engine) llmYesNo(ctx context.Context, prompt string) (bool, bool) {
	if e.llm == nil {
		return false, false
	}

	resp, err := e.llm.Chat(ctx, xllm.Request{
		Messages:  []xllm.Message{xllm.NewUserMessage(prompt)},
		MaxTokens: 5,
	})
	if err != nil {
		xlog.Debug("LLM 判定失败, 回落到启发式", xlog.Err(err))
		return false, false
	}

	switch strings.ToUpper(strings.TrimSpace(resp.Content)) {
	case "YES":
		return true, true
	case "NO":
		return true, false
	default:
		return false, false
	}
}
