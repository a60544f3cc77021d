package session

import (
	"context"
	"sync"

	"github.com/daodao97/xgo/xlog"

	"philos/internal/conf"
	"philos/internal/pkg/xflow"
	"philos/internal/pkg/xllm"
	"philos/internal/search"
)

// Session 一个连接一个实例, 引擎和追问缓存都隔离在会话内
type Session struct {
	engine *search.Engine

	mu     sync.Mutex
	stream chan Event
}

func New(cfg conf.SearchConfig, llm xllm.LLM) *Session {
	s := &Session{}
	s.engine = search.NewEngineFromConf(cfg, llm, &search.Notifier{
		OnStatus: func(message string) {
			s.emit(StatusEvent{Message: message})
		},
		OnSourceAccessed: func(source, query string) {
			s.emit(SourceEvent{Source: source, Query: query})
		},
		OnResultFound: func(result search.Result) {
			s.emit(ResultEvent{Result: result})
		},
		OnDecision: func(kind, detail string) {
			s.emit(DecisionEvent{Stage: kind, Detail: detail})
		},
	})
	return s
}

// NewWithEngine 测试和 API 层直接注入已装配的引擎
func NewWithEngine(engine *search.Engine) *Session {
	return &Session{engine: engine}
}

func (s *Session) Engine() *search.Engine {
	return s.engine
}

// emit 只在有活跃流时投递, 流满时丢弃而不是阻塞检索
func (s *Session) emit(event Event) {
	s.mu.Lock()
	stream := s.stream
	s.mu.Unlock()
	if stream == nil {
		return
	}
	select {
	case stream <- event:
	default:
	}
}

// Run 执行一轮 意图判定 -> 查询提取 -> 检索 的工作流
// 返回的通道在工作流结束后关闭; 不需要检索时只推送决策事件
func (s *Session) Run(ctx context.Context, utterance, draftReply string, maxResults int, deep bool) chan Event {
	events := make(chan Event, 100)

	s.mu.Lock()
	s.stream = events
	s.mu.Unlock()

	state := &SearchState{
		Utterance:  utterance,
		DraftReply: draftReply,
		MaxResults: maxResults,
		Deep:       deep,
		Engine:     s.engine,
	}

	flow := buildFlow(state)

	go func() {
		defer func() {
			s.mu.Lock()
			// 新一轮 Run 可能已经接管了流, 只清掉仍属于本轮的
			if s.stream == events {
				s.stream = nil
			}
			s.mu.Unlock()
			close(events)
		}()

		if err := flow.Execute(ctx); err != nil {
			xlog.Error("工作流执行失败", xlog.Err(err))
			s.emit(ErrorEvent{Error: err.Error()})
			return
		}

		if !state.ShouldSearch {
			s.emit(DecisionEvent{Stage: "intent", Detail: "no search needed"})
			return
		}

		s.emit(OutcomeEvent{Outcome: state.Outcome})

		// 摘要太长时分块推送
		if state.Outcome != nil && state.Outcome.Summary != "" {
			for _, chunk := range search.ChunkContent(state.Outcome.Summary, 0) {
				s.emit(ChunkEvent{Text: chunk})
			}
		}
	}()

	return events
}

func buildFlow(state *SearchState) *xflow.Flow[SearchState] {
	startNode := xflow.NewStartNode("start")
	intentNode := NewIntentNode()
	extractNode := NewExtractNode()
	searchNode := NewSearchNode()
	endNode := xflow.NewEndNode()

	flow := xflow.NewFlow(state)
	flow.AddNode(startNode, intentNode, extractNode, searchNode, endNode)

	flow.AddEdge(startNode, intentNode)
	flow.AddConditionalEdge(intentNode, extractNode, xflow.ConditionalTrue())
	flow.AddConditionalEdge(intentNode, endNode, xflow.ConditionalFalse())
	flow.AddEdge(extractNode, searchNode)
	flow.AddEdge(searchNode, endNode)

	return flow
}

// Close 会话结束时清理追问缓存
func (s *Session) Close() {
	s.engine.ClearSearchCache()
}
