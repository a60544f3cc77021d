package conf

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/daodao97/xgo/xapp"
	"github.com/joho/godotenv"

	"github.com/daodao97/xgo/xlog"
)

type LLMConfig struct {
	Name      string `yaml:"name"`
	Provider  string `yaml:"provider"`
	ApiKey    string `yaml:"api_key"`
	ApiUrl    string `yaml:"api_url"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
}

// SearchConfig 检索引擎的可调参数
type SearchConfig struct {
	UserAgent         string   `yaml:"user_agent"`
	MaxResults        int      `yaml:"max_results" default:"5"`
	MinSearchInterval string   `yaml:"min_search_interval" default:"1s"`
	RequestTimeout    string   `yaml:"request_timeout" default:"10s"`
	FollowupTTL       string   `yaml:"followup_ttl" default:"120s"`
	DeepFetchLimit    int      `yaml:"deep_fetch_limit" default:"3"`
	NewsFeeds         []string `yaml:"news_feeds"`
}

func (s *SearchConfig) MinInterval() time.Duration {
	return parseDuration(s.MinSearchInterval, time.Second)
}

func (s *SearchConfig) Timeout() time.Duration {
	return parseDuration(s.RequestTimeout, 10*time.Second)
}

func (s *SearchConfig) CacheTTL() time.Duration {
	return parseDuration(s.FollowupTTL, 120*time.Second)
}

func parseDuration(raw string, def time.Duration) time.Duration {
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}

type config struct {
	LLM    []*LLMConfig `yaml:"llm"`
	Search SearchConfig `yaml:"search"`
}

func (c *config) GetLLM(name string) *LLMConfig {
	for _, llm := range c.LLM {
		if llm.Name == name {
			return llm
		}
	}
	return nil
}

func (c *config) Print() {
	xlog.Debug("load config", slog.Any("config", fmt.Sprintf("%+v", c)))
}

var _c *config

func Get() *config {
	return _c
}

func InitConf() error {
	// 兼容 .env 方式的密钥配置
	_ = godotenv.Load()

	_c = &config{}

	if err := xapp.InitConf(_c); err != nil {
		return err
	}

	_c.Print()

	return nil
}
