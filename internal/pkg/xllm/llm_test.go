package xllm

import (
	"encoding/json"
	"strings"
	"testing"

	"philos/internal/conf"
)

func TestToolMarshalJSON(t *testing.T) {
	tool := Tool{
		Name:        "web_search",
		Description: "search the web",
		Parameters: []Parameter{
			{
				Name:        "query",
				Description: "搜索关键词",
				Type:        ParameterTypeString,
				Required:    true,
			},
			{
				Name:        "deep",
				Description: "是否深抓",
				Type:        ParameterTypeBoolean,
			},
		},
	}

	data, err := json.Marshal(tool)
	if err != nil {
		t.Fatalf("Marshal 返回错误: %v", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("输出不是合法 JSON: %v", err)
	}

	if parsed["type"] != "function" {
		t.Errorf("type = %v, 期望 function", parsed["type"])
	}

	fn, ok := parsed["function"].(map[string]any)
	if !ok {
		t.Fatalf("缺少 function 字段")
	}
	if fn["name"] != "web_search" {
		t.Errorf("name = %v", fn["name"])
	}

	params, ok := fn["parameters"].(map[string]any)
	if !ok {
		t.Fatalf("缺少 parameters 字段")
	}
	required, ok := params["required"].([]any)
	if !ok || len(required) != 1 || required[0] != "query" {
		t.Errorf("required = %v, 期望只含 query", params["required"])
	}

	properties, ok := params["properties"].(map[string]any)
	if !ok {
		t.Fatalf("缺少 properties 字段")
	}
	if _, ok := properties["deep"]; !ok {
		t.Errorf("properties 缺少 deep")
	}
}

func TestToolMarshalJSONNoParameters(t *testing.T) {
	tool := Tool{Name: "time", Description: "当前时间"}

	data, err := json.Marshal(tool)
	if err != nil {
		t.Fatalf("Marshal 返回错误: %v", err)
	}
	if strings.Contains(string(data), `"parameters"`) {
		t.Errorf("无参数工具不应输出 parameters: %s", data)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		conf    *conf.LLMConfig
		wantNil bool
	}{
		{"openai 提供方", &conf.LLMConfig{Provider: "openai", ApiKey: "k", Model: "m"}, false},
		{"未知提供方", &conf.LLMConfig{Provider: "unknown"}, true},
		{"空配置", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.conf)
			if (got == nil) != tt.wantNil {
				t.Errorf("New() nil = %v, 期望 %v", got == nil, tt.wantNil)
			}
		})
	}
}
