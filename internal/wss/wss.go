package wss

import (
	"encoding/json"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"philos/internal/conf"
	"philos/internal/pkg/xllm"
	"philos/internal/session"
)

// 连接统计
var (
	activeConnections int64
	totalConnections  int64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许跨域连接
	},
	HandshakeTimeout: 45 * time.Second,
}

// 消息类型定义
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type SearchMessage struct {
	Type       string `json:"type"`
	Utterance  string `json:"utterance"`
	DraftReply string `json:"draft_reply"`
	MaxResults int    `json:"max_results"`
	Deep       bool   `json:"deep"`
}

type PongMessage struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
}

func SetupRouter(e *gin.Engine) {
	e.GET("/ws", func(c *gin.Context) {
		connID := atomic.AddInt64(&totalConnections, 1)
		atomic.AddInt64(&activeConnections, 1)

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("WebSocket升级失败: %v", err)
			atomic.AddInt64(&activeConnections, -1)
			return
		}

		// 每个连接一个会话, 追问缓存随连接隔离
		cfg := conf.Get().Search
		llm := xllm.New(conf.Get().GetLLM("default"))
		sess := session.New(cfg, llm)

		defer func() {
			sess.Close()
			conn.Close()
			atomic.AddInt64(&activeConnections, -1)
			active := atomic.LoadInt64(&activeConnections)
			log.Printf("WebSocket连接已断开 [ID:%d] (当前活跃连接: %d)", connID, active)
		}()

		clientIP := c.ClientIP()
		active := atomic.LoadInt64(&activeConnections)
		log.Printf("新的WebSocket连接建立 [ID:%d] IP:%s (当前活跃连接: %d)", connID, clientIP, active)

		conn.SetReadLimit(512 * 1024) // 512KB
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			return nil
		})

		for {
			messageType, p, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
					log.Printf("WebSocket异常断开 [ID:%d]: %v", connID, err)
				} else {
					log.Printf("WebSocket连接结束 [ID:%d]: %v", connID, err)
				}
				break
			}

			conn.SetReadDeadline(time.Now().Add(60 * time.Second))

			if messageType == websocket.TextMessage {
				handleMessage(conn, sess, p)
			}
		}
	})

	// 连接统计接口
	e.GET("/ws_stats", func(c *gin.Context) {
		active := atomic.LoadInt64(&activeConnections)
		total := atomic.LoadInt64(&totalConnections)
		c.JSON(http.StatusOK, gin.H{
			"active_connections": active,
			"total_connections":  total,
		})
	})
}

func handleMessage(conn *websocket.Conn, sess *session.Session, data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("JSON解析错误: %v", err)
		return
	}

	switch msg.Type {
	case "ping":
		handlePing(conn)
	case "search":
		handleSearchMessage(conn, sess, data)
	default:
		log.Printf("未知消息类型: %s", msg.Type)
	}
}

func sendMessage(conn *websocket.Conn, message any) error {
	return conn.WriteJSON(message)
}
