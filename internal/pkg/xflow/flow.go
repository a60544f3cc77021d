package xflow

import (
	"context"
	"fmt"

	"github.com/daodao97/xgo/xlog"
)

// Flow 顺序工作流: 起始 -> 执行/决策 -> 结束
// 决策节点按条件边走分支, 执行过程记入 executionTrace
type Flow[T any] struct {
	nodes          map[string]Node
	edges          map[string][]ConditionalEdge
	startNode      string
	state          *T
	executionTrace []ExecutionRecord
}

func NewFlow[T any](state *T) *Flow[T] {
	return &Flow[T]{
		nodes:          make(map[string]Node),
		edges:          make(map[string][]ConditionalEdge),
		state:          state,
		executionTrace: make([]ExecutionRecord, 0),
	}
}

func (f *Flow[T]) AddNode(nodes ...Node) *Flow[T] {
	for _, node := range nodes {
		f.nodes[node.GetName()] = node
		if node.GetType() == NodeTypeStart {
			f.startNode = node.GetName()
		}
	}
	return f
}

// 添加无条件边
func (f *Flow[T]) AddEdge(from, to Node) *Flow[T] {
	return f.AddConditionalEdge(from, to, nil)
}

// 添加条件边
func (f *Flow[T]) AddConditionalEdge(from, to Node, condition *bool) *Flow[T] {
	f.edges[from.GetName()] = append(f.edges[from.GetName()], ConditionalEdge{
		From:      from.GetName(),
		To:        to.GetName(),
		Condition: condition,
	})
	return f
}

func (f *Flow[T]) Execute(ctx context.Context) error {
	if err := f.Validate(); err != nil {
		return fmt.Errorf("工作流验证失败: %w", err)
	}

	f.ClearExecutionTrace()

	ctx = context.WithValue(ctx, FlowStateKey, f.state)

	currentNodeName := f.startNode
	currentState := f.state

	for currentNodeName != "" {
		node, exists := f.nodes[currentNodeName]
		if !exists {
			break
		}

		xlog.Debug("当前节点", xlog.String("node", currentNodeName), xlog.String("type", node.GetType().String()))

		record := ExecutionRecord{
			NodeName: currentNodeName,
			NodeType: node.GetType().String(),
			Success:  true,
		}

		switch node.GetType() {
		case NodeTypeExecute:
			execNode, ok := node.(ExecuteNode[T])
			if !ok {
				return fmt.Errorf("节点 %s 不是执行节点", currentNodeName)
			}
			result, err := execNode.Execute(ctx, currentState)
			if err != nil {
				record.Success = false
				record.Error = err.Error()
				f.executionTrace = append(f.executionTrace, record)
				return fmt.Errorf("执行节点 %s 失败: %w", currentNodeName, err)
			}
			if result != nil && result.State != nil {
				currentState = result.State
			}
			f.executionTrace = append(f.executionTrace, record)
			currentNodeName = f.GetNextNode(currentNodeName)

		case NodeTypeDecision:
			decNode, ok := node.(DecisionNode[T])
			if !ok {
				return fmt.Errorf("节点 %s 不是决策节点", currentNodeName)
			}
			decision, err := decNode.Decide(ctx, currentState)
			if err != nil {
				record.Success = false
				record.Error = err.Error()
				f.executionTrace = append(f.executionTrace, record)
				return fmt.Errorf("决策节点 %s 失败: %w", currentNodeName, err)
			}
			record.Decision = &decision
			f.executionTrace = append(f.executionTrace, record)
			currentNodeName = f.getNextNodeForDecision(currentNodeName, decision)

		case NodeTypeEnd:
			f.executionTrace = append(f.executionTrace, record)
			return nil

		default:
			f.executionTrace = append(f.executionTrace, record)
			currentNodeName = f.GetNextNode(currentNodeName)
		}
	}

	return nil
}

func (f *Flow[T]) GetNextNode(nodeName string) string {
	for _, edge := range f.edges[nodeName] {
		if edge.Condition == nil {
			return edge.To
		}
	}
	return ""
}

// 根据决策结果选择分支, 没有匹配的条件边时回落到无条件边
func (f *Flow[T]) getNextNodeForDecision(nodeName string, decision bool) string {
	for _, edge := range f.edges[nodeName] {
		if edge.Condition != nil && *edge.Condition == decision {
			return edge.To
		}
	}
	return f.GetNextNode(nodeName)
}

func (f *Flow[T]) Validate() error {
	if len(f.nodes) == 0 {
		return fmt.Errorf("工作流没有定义任何节点")
	}
	if f.startNode == "" {
		return fmt.Errorf("工作流缺少起始节点")
	}

	hasEnd := false
	for _, node := range f.nodes {
		if node.GetType() == NodeTypeEnd {
			hasEnd = true
			break
		}
	}
	if !hasEnd {
		return fmt.Errorf("工作流缺少结束节点")
	}

	for name, node := range f.nodes {
		if node.GetType() == NodeTypeEnd {
			continue
		}
		if len(f.edges[name]) == 0 {
			return fmt.Errorf("节点 %s 没有定义出边", name)
		}
	}

	for from, edges := range f.edges {
		for _, edge := range edges {
			if _, exists := f.nodes[edge.To]; !exists {
				return fmt.Errorf("边 %s -> %s 的目标节点不存在", from, edge.To)
			}
		}
	}

	return nil
}

func (f *Flow[T]) GetState() *T {
	return f.state
}

func (f *Flow[T]) ClearExecutionTrace() {
	f.executionTrace = make([]ExecutionRecord, 0)
}

func (f *Flow[T]) GetExecutionTrace() []ExecutionRecord {
	return f.executionTrace
}
