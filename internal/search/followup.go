package search

import (
	"context"
	"fmt"
	"strings"
)

// 用户在延续上一个话题的典型说法
var continuationPhrases = []string{
	"tell me more", "more about", "what about", "what else",
	"keep going", "go on", "continue", "and then", "anything else",
	"more details", "dig deeper",
}

// 用户只是在读已有内容, 不是要继续检索
var continuationNegatives = []string{
	"read", "reading", "already read", "just read",
	"you sent", "you showed", "you gave me", "上面",
}

// 助手主动提出继续时的措辞
var assistantOffers = []string{
	"would you like", "want me to", "shall i", "should i look",
	"i can search", "i can look", "more about",
}

// 用户表示同意的简短回答
var userAgreements = []string{
	"yes", "yeah", "sure", "please", "go ahead", "ok", "okay", "do it",
}

const followupPrompt = `The previous web search topic was %q.
Assistant previously replied: %q
User now says: %q
Is the user clearly continuing the SAME topic and implicitly asking for more of that search?
Answer with exactly one word, YES or NO. Default to NO unless it is clearly the same topic.`

// isContextualFollowup 判定新输入是否在追问上一次检索的话题
// 缓存不存在或已过期一律为否 (过期检查本身就会清掉缓存)
func (e *Engine) isContextualFollowup(ctx context.Context, utterance, draftReply string) bool {
	lastQuery, _, ok := e.cache.Recall()
	if !ok {
		return false
	}

	// LLM 优先, 拿不到确定回答再走规则
	decided, verdict := e.llmYesNo(ctx, fmt.Sprintf(followupPrompt, lastQuery, draftReply, utterance))
	if decided {
		return verdict
	}

	utteranceLower := strings.ToLower(utterance)

	// 否定列表优先级最高: 用户在读内容, 不是在追问
	if containsAny(utteranceLower, continuationNegatives) {
		return false
	}

	// 助手提出继续且用户同意
	if containsAny(strings.ToLower(draftReply), assistantOffers) {
		answer := strings.Trim(utteranceLower, "?.,! ")
		for _, agreement := range userAgreements {
			if answer == agreement || strings.HasPrefix(answer, agreement+" ") {
				return true
			}
		}
	}

	return containsAny(utteranceLower, continuationPhrases)
}
