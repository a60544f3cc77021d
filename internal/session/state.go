package session

import (
	"philos/internal/search"
)

// SearchState 检索工作流的状态, 随节点执行逐步填充
type SearchState struct {
	// 输入
	Utterance  string
	DraftReply string
	MaxResults int
	Deep       bool

	// 中间产物
	ShouldSearch bool
	Query        string

	// 输出
	Outcome *search.Outcome

	Engine *search.Engine
}
