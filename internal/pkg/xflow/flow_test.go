package xflow

import (
	"context"
	"fmt"
	"testing"
)

type testState struct {
	Value   int
	Visited []string
}

type incrNode struct {
	BaseNode
	delta int
}

func newIncrNode(name string, delta int) *incrNode {
	return &incrNode{
		BaseNode: BaseNode{Name: name, Type: NodeTypeExecute},
		delta:    delta,
	}
}

func (n *incrNode) Execute(ctx context.Context, state *testState) (*NodeResult[testState], error) {
	state.Value += n.delta
	state.Visited = append(state.Visited, n.Name)
	return &NodeResult[testState]{Success: true, State: state}, nil
}

type thresholdNode struct {
	BaseNode
	threshold int
}

func newThresholdNode(name string, threshold int) *thresholdNode {
	return &thresholdNode{
		BaseNode:  BaseNode{Name: name, Type: NodeTypeDecision},
		threshold: threshold,
	}
}

func (n *thresholdNode) Decide(ctx context.Context, state *testState) (bool, error) {
	state.Visited = append(state.Visited, n.Name)
	return state.Value >= n.threshold, nil
}

type failNode struct {
	BaseNode
}

func (n *failNode) Execute(ctx context.Context, state *testState) (*NodeResult[testState], error) {
	return nil, fmt.Errorf("boom")
}

func buildTestFlow(state *testState, initial int) (*Flow[testState], *incrNode, *incrNode) {
	state.Value = initial

	start := NewStartNode("start")
	decision := newThresholdNode("check", 10)
	highBranch := newIncrNode("high", 100)
	lowBranch := newIncrNode("low", 1)
	end := NewEndNode()

	flow := NewFlow(state)
	flow.AddNode(start, decision, highBranch, lowBranch, end)
	flow.AddEdge(start, decision)
	flow.AddConditionalEdge(decision, highBranch, ConditionalTrue())
	flow.AddConditionalEdge(decision, lowBranch, ConditionalFalse())
	flow.AddEdge(highBranch, end)
	flow.AddEdge(lowBranch, end)

	return flow, highBranch, lowBranch
}

func TestFlowDecisionBranching(t *testing.T) {
	tests := []struct {
		name     string
		initial  int
		expected int
		visited  string
	}{
		{"走 true 分支", 20, 120, "high"},
		{"走 false 分支", 3, 4, "low"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := &testState{}
			flow, _, _ := buildTestFlow(state, tt.initial)

			if err := flow.Execute(context.Background()); err != nil {
				t.Fatalf("Execute() 返回错误: %v", err)
			}
			if state.Value != tt.expected {
				t.Errorf("Value = %d, 期望 %d", state.Value, tt.expected)
			}
			if state.Visited[len(state.Visited)-1] != tt.visited {
				t.Errorf("走的分支 = %v, 期望最后经过 %s", state.Visited, tt.visited)
			}
		})
	}
}

func TestFlowExecutionTrace(t *testing.T) {
	state := &testState{}
	flow, _, _ := buildTestFlow(state, 20)

	if err := flow.Execute(context.Background()); err != nil {
		t.Fatalf("Execute() 返回错误: %v", err)
	}

	trace := flow.GetExecutionTrace()
	// start -> check -> high -> end
	if len(trace) != 4 {
		t.Fatalf("执行记录数 = %d, 期望 4", len(trace))
	}
	if trace[1].NodeName != "check" || trace[1].Decision == nil || !*trace[1].Decision {
		t.Errorf("决策节点记录不符: %+v", trace[1])
	}
	if trace[3].NodeType != "End" {
		t.Errorf("最后一条应当是结束节点, 实际 %s", trace[3].NodeType)
	}
}

func TestFlowExecuteNodeFailure(t *testing.T) {
	state := &testState{}
	start := NewStartNode("start")
	bad := &failNode{BaseNode: BaseNode{Name: "bad", Type: NodeTypeExecute}}
	end := NewEndNode()

	flow := NewFlow(state)
	flow.AddNode(start, bad, end)
	flow.AddEdge(start, bad)
	flow.AddEdge(bad, end)

	if err := flow.Execute(context.Background()); err == nil {
		t.Fatalf("执行节点失败时应当返回错误")
	}

	trace := flow.GetExecutionTrace()
	last := trace[len(trace)-1]
	if last.Success || last.Error == "" {
		t.Errorf("失败记录不符: %+v", last)
	}
}

func TestFlowValidate(t *testing.T) {
	t.Run("缺少结束节点", func(t *testing.T) {
		state := &testState{}
		start := NewStartNode("start")
		node := newIncrNode("only", 1)

		flow := NewFlow(state)
		flow.AddNode(start, node)
		flow.AddEdge(start, node)
		flow.AddEdge(node, node)

		if err := flow.Execute(context.Background()); err == nil {
			t.Errorf("缺少结束节点应当校验失败")
		}
	})

	t.Run("缺少出边", func(t *testing.T) {
		state := &testState{}
		start := NewStartNode("start")
		node := newIncrNode("dangling", 1)
		end := NewEndNode()

		flow := NewFlow(state)
		flow.AddNode(start, node, end)
		flow.AddEdge(start, node)

		if err := flow.Execute(context.Background()); err == nil {
			t.Errorf("悬空节点应当校验失败")
		}
	})
}
