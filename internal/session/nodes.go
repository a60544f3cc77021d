package session

import (
	"context"
	"time"

	"github.com/daodao97/xgo/xlog"

	"philos/internal/pkg/xflow"
	"philos/internal/search"
)

// 意图判定节点: 决定这轮对话是否需要外部检索
type IntentNode struct {
	xflow.BaseNode
}

func NewIntentNode() *IntentNode {
	return &IntentNode{
		BaseNode: xflow.BaseNode{
			Name: "intent",
			Type: xflow.NodeTypeDecision,
		},
	}
}

func (n *IntentNode) Decide(ctx context.Context, state *SearchState) (bool, error) {
	state.ShouldSearch = state.Engine.ShouldSearch(ctx, state.Utterance, state.DraftReply)
	xlog.Debug("意图判定", xlog.Any("should_search", state.ShouldSearch))
	return state.ShouldSearch, nil
}

// 查询提取节点: 把自由对话压缩成检索词
type ExtractNode struct {
	xflow.BaseNode
}

func NewExtractNode() *ExtractNode {
	return &ExtractNode{
		BaseNode: xflow.BaseNode{
			Name: "extract_query",
			Type: xflow.NodeTypeExecute,
		},
	}
}

func (n *ExtractNode) Execute(ctx context.Context, state *SearchState) (*xflow.NodeResult[SearchState], error) {
	state.Query = state.Engine.ExtractSearchQuery(ctx, state.Utterance, state.DraftReply)
	xlog.Debug("查询提取", xlog.String("query", state.Query))
	return &xflow.NodeResult[SearchState]{
		Success: true,
		State:   state,
	}, nil
}

// 检索节点: 执行带自动改写的聚合检索
type SearchNode struct {
	xflow.BaseNode
}

func NewSearchNode() *SearchNode {
	return &SearchNode{
		BaseNode: xflow.BaseNode{
			Name: "web_search",
			Type: xflow.NodeTypeExecute,
		},
	}
}

func (n *SearchNode) Execute(ctx context.Context, state *SearchState) (*xflow.NodeResult[SearchState], error) {
	// 没有可检索的内容时产出空结果而非失败
	if state.Query == "" {
		state.Outcome = &search.Outcome{
			Success:   true,
			Timestamp: time.Now(),
			Summary:   "Nothing to search for in this message.",
		}
		return &xflow.NodeResult[SearchState]{Success: true, State: state}, nil
	}

	state.Outcome = state.Engine.SearchWithRefinement(ctx, state.Query, state.MaxResults, state.Deep)
	return &xflow.NodeResult[SearchState]{
		Success: true,
		State:   state,
	}, nil
}
