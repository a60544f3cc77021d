package xtools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cast"

	"philos/internal/pkg/xllm"
	"philos/internal/search"
)

type WebSearchTool struct {
	Schema xllm.Tool
	engine *search.Engine
}

// NewWebSearchTool 把本地检索引擎包装为可供模型调用的工具
func NewWebSearchTool(engine *search.Engine) ToolInterface {
	return &WebSearchTool{
		Schema: xllm.Tool{
			Name:        "web_search",
			Description: "从互联网搜索信息, 结果太少时会自动改写查询重试",
			Parameters: []xllm.Parameter{
				{
					Name:        "query",
					Description: "搜索关键词",
					Type:        xllm.ParameterTypeString,
					Required:    true,
				},
				{
					Name:        "max_results",
					Description: "返回结果条数上限",
					Type:        xllm.ParameterTypeInteger,
				},
				{
					Name:        "deep",
					Description: "是否抓取结果页面的完整内容",
					Type:        xllm.ParameterTypeBoolean,
				},
			},
		},
		engine: engine,
	}
}

func (t *WebSearchTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	query := cast.ToString(args["query"])
	if query == "" {
		return "", fmt.Errorf("query 参数不能为空")
	}

	outcome := t.engine.SearchWithRefinement(ctx, query, cast.ToInt(args["max_results"]), cast.ToBool(args["deep"]))

	jsonData, err := json.Marshal(outcome)
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (t *WebSearchTool) GetSchema() xllm.Tool {
	return t.Schema
}
