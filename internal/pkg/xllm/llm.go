package xllm

import (
	"context"
	"encoding/json"

	"philos/internal/conf"
)

const (
	RoleUser      string = "user"
	RoleAssistant string = "assistant"
	RoleSystem    string = "system"
)

// Message 表示消息, 本项目只需要纯文本内容
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func NewSystemMessage(text string) Message {
	return Message{Role: RoleSystem, Content: text}
}

func NewUserMessage(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
}

type Parameter struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Type        string   `json:"type"` // string, number, integer, boolean
	Required    bool     `json:"required"`
	Enum        []string `json:"enum,omitempty"`
}

const (
	ParameterTypeString  = "string"
	ParameterTypeNumber  = "number"
	ParameterTypeInteger = "integer"
	ParameterTypeBoolean = "boolean"
)

// MarshalJSON 实现 Tool 的自定义 JSON 序列化, 输出 OpenAI function call 格式
func (t Tool) MarshalJSON() ([]byte, error) {
	properties := make(map[string]any)
	var required []string

	for _, param := range t.Parameters {
		paramSchema := map[string]any{
			"type":        param.Type,
			"description": param.Description,
		}
		if len(param.Enum) > 0 {
			paramSchema["enum"] = param.Enum
		}
		properties[param.Name] = paramSchema
		if param.Required {
			required = append(required, param.Name)
		}
	}

	parameters := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		parameters["required"] = required
	}

	function := map[string]any{
		"name":        t.Name,
		"description": t.Description,
	}
	if len(properties) > 0 {
		function["parameters"] = parameters
	}

	return json.Marshal(map[string]any{
		"type":     "function",
		"function": function,
	})
}

type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature *float64  `json:"temperature,omitempty"`
}

type Response struct {
	Content string `json:"content,omitempty"`
	Usage   *Usage `json:"usage,omitempty"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type LLM interface {
	Chat(ctx context.Context, req Request) (*Response, error)
}

func New(llmConf *conf.LLMConfig) LLM {
	if llmConf == nil {
		return nil
	}
	switch llmConf.Provider {
	case "openai":
		return NewOpenAI(
			WithAPIKey(llmConf.ApiKey),
			WithAPIUrl(llmConf.ApiUrl),
			WithModel(llmConf.Model),
		)
	}
	return nil
}
