package session

import "philos/internal/search"

// Event 会话过程中推送给前端的事件
type Event interface {
	Kind() string
}

// StatusEvent 检索进度播报
type StatusEvent struct {
	Message string `json:"message"`
}

func (StatusEvent) Kind() string { return "status" }

// DecisionEvent 意图判定等决策轨迹
type DecisionEvent struct {
	Stage  string `json:"stage"`
	Detail string `json:"detail"`
}

func (DecisionEvent) Kind() string { return "decision" }

// SourceEvent 正在访问某个信息源
type SourceEvent struct {
	Source string `json:"source"`
	Query  string `json:"query"`
}

func (SourceEvent) Kind() string { return "source" }

// ResultEvent 单条检索结果
type ResultEvent struct {
	Result search.Result `json:"result"`
}

func (ResultEvent) Kind() string { return "result" }

// OutcomeEvent 最终的检索产物
type OutcomeEvent struct {
	Outcome *search.Outcome `json:"outcome"`
}

func (OutcomeEvent) Kind() string { return "outcome" }

// ChunkEvent 分块后的长内容片段
type ChunkEvent struct {
	Text string `json:"text"`
}

func (ChunkEvent) Kind() string { return "chunk" }

// ErrorEvent 工作流层面的失败
type ErrorEvent struct {
	Error string `json:"error"`
}

func (ErrorEvent) Kind() string { return "error" }
