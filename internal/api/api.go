package api

import (
	"net/http"

	"github.com/daodao97/xgo/xlog"
	"github.com/gin-gonic/gin"

	"philos/internal/pkg/xtools"
	"philos/internal/search"
)

type SearchReq struct {
	Query      string `json:"query" binding:"required"`
	MaxResults int    `json:"max_results"`
	Deep       bool   `json:"deep"`
}

type IntentReq struct {
	Utterance  string `json:"utterance" binding:"required"`
	DraftReply string `json:"draft_reply"`
}

type ToolCallReq struct {
	Name string         `json:"name" binding:"required"`
	Args map[string]any `json:"args"`
}

// SetupRouter 注册 HTTP 接口, 引擎和工具集由调用方装配后注入
func SetupRouter(e *gin.Engine, engine *search.Engine, tools *xtools.Tools) {
	g := e.Group("/api")

	// 标准检索
	g.POST("/search", func(c *gin.Context) {
		var req SearchReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		outcome := engine.SearchWeb(c.Request.Context(), req.Query, req.MaxResults, req.Deep)
		c.JSON(http.StatusOK, outcome)
	})

	// 带自动改写的检索
	g.POST("/search/refined", func(c *gin.Context) {
		var req SearchReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		outcome := engine.SearchWithRefinement(c.Request.Context(), req.Query, req.MaxResults, req.Deep)
		c.JSON(http.StatusOK, outcome)
	})

	// 意图判定和查询提取, 供宿主应用在生成回复前探测
	g.POST("/intent", func(c *gin.Context) {
		var req IntentReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		should := engine.ShouldSearch(c.Request.Context(), req.Utterance, req.DraftReply)
		query := ""
		if should {
			query = engine.ExtractSearchQuery(c.Request.Context(), req.Utterance, req.DraftReply)
		}
		c.JSON(http.StatusOK, gin.H{
			"should_search": should,
			"query":         query,
		})
	})

	g.DELETE("/search/cache", func(c *gin.Context) {
		engine.ClearSearchCache()
		c.JSON(http.StatusOK, gin.H{"cleared": true})
	})

	g.GET("/tools", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"tools": tools.GetTools()})
	})

	g.POST("/tools/call", func(c *gin.Context) {
		var req ToolCallReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := tools.CallTool(c.Request.Context(), req.Name, req.Args)
		if err != nil {
			xlog.Error("工具调用失败", xlog.String("tool", req.Name), xlog.Err(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"result": result})
	})
}
