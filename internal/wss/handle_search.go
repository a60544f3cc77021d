package wss

import (
	"context"
	"encoding/json"

	"github.com/daodao97/xgo/xlog"
	"github.com/gorilla/websocket"

	"philos/internal/session"
)

type EventResp struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// handleSearchMessage 启动一轮检索工作流并把事件实时推给客户端
func handleSearchMessage(conn *websocket.Conn, sess *session.Session, data []byte) {
	var searchMsg SearchMessage
	if err := json.Unmarshal(data, &searchMsg); err != nil {
		xlog.Error("检索消息解析错误", xlog.Err(err))
		return
	}

	xlog.Debug("收到检索消息", xlog.String("utterance", searchMsg.Utterance))

	ctx := context.Background()
	events := sess.Run(ctx, searchMsg.Utterance, searchMsg.DraftReply, searchMsg.MaxResults, searchMsg.Deep)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				xlog.Error("处理事件流时发生panic", xlog.Any("panic", r))
			}
		}()

		for event := range events {
			resp := EventResp{
				Type: event.Kind(),
				Data: event,
			}
			if err := sendMessage(conn, resp); err != nil {
				xlog.Error("发送事件失败", xlog.Err(err))
				return
			}
		}

		xlog.Debug("事件流处理完成")
	}()
}
