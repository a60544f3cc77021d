package search

import (
	"fmt"

	"github.com/daodao97/xgo/xlog"
)

// Notifier 对外的展示型回调, 全部可选
// 回调只用于界面展示, 任何回调的 panic 都不会影响检索流程
type Notifier struct {
	// OnStatus 自由文本的进度播报
	OnStatus func(message string)
	// OnSourceAccessed 访问某个信息源时触发
	OnSourceAccessed func(source string, query string)
	// OnResultFound 产出一条结果时触发
	OnResultFound func(result Result)
	// OnDecision AI/启发式决策的轨迹事件
	OnDecision func(kind string, detail string)
}

func (n *Notifier) Status(format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	xlog.Debug("search status", xlog.String("message", message))
	if n == nil || n.OnStatus == nil {
		return
	}
	safeNotify(func() { n.OnStatus(message) })
}

func (n *Notifier) SourceAccessed(source, query string) {
	if n == nil || n.OnSourceAccessed == nil {
		return
	}
	safeNotify(func() { n.OnSourceAccessed(source, query) })
}

func (n *Notifier) ResultFound(result Result) {
	if n == nil || n.OnResultFound == nil {
		return
	}
	safeNotify(func() { n.OnResultFound(result) })
}

func (n *Notifier) Decision(kind, detail string) {
	if n == nil || n.OnDecision == nil {
		return
	}
	safeNotify(func() { n.OnDecision(kind, detail) })
}

func safeNotify(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			xlog.Warn("通知回调 panic", xlog.Any("panic", r))
		}
	}()
	fn()
}
