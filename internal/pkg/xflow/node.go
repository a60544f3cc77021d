package xflow

import "context"

type flowContextKey struct{}

var FlowStateKey = flowContextKey{}

// 节点类型枚举
type NodeType int

const (
	NodeTypeStart NodeType = iota
	NodeTypeEnd
	NodeTypeExecute
	NodeTypeDecision
)

func (nt NodeType) String() string {
	switch nt {
	case NodeTypeStart:
		return "Start"
	case NodeTypeEnd:
		return "End"
	case NodeTypeExecute:
		return "Execute"
	case NodeTypeDecision:
		return "Decision"
	default:
		return "Unknown"
	}
}

// 通用节点接口
type Node interface {
	GetName() string
	GetType() NodeType
}

type BaseNode struct {
	Name string
	Type NodeType
}

func (b *BaseNode) GetName() string {
	return b.Name
}

func (b *BaseNode) GetType() NodeType {
	return b.Type
}

// 起始节点
type StartNode struct {
	BaseNode
}

func NewStartNode(name string) *StartNode {
	return &StartNode{
		BaseNode: BaseNode{
			Name: name,
			Type: NodeTypeStart,
		},
	}
}

// 结束节点
type EndNode struct {
	BaseNode
}

func NewEndNode() *EndNode {
	return &EndNode{
		BaseNode: BaseNode{
			Name: "end_node",
			Type: NodeTypeEnd,
		},
	}
}

// 执行节点接口
type ExecuteNode[T any] interface {
	Node
	Execute(ctx context.Context, state *T) (*NodeResult[T], error)
}

// 分支节点接口
type DecisionNode[T any] interface {
	Node
	Decide(ctx context.Context, state *T) (bool, error)
}

// 节点结果, State 不为空时向后传递
type NodeResult[T any] struct {
	Success bool
	Data    any
	Error   error
	State   *T
}

func ConditionalTrue() *bool {
	v := true
	return &v
}

func ConditionalFalse() *bool {
	v := false
	return &v
}

// 条件边, Condition 为 nil 表示无条件边
type ConditionalEdge struct {
	From      string
	To        string
	Condition *bool
}

// 执行记录
type ExecutionRecord struct {
	NodeName string
	NodeType string
	Success  bool
	Error    string
	Decision *bool // 仅决策节点
}
