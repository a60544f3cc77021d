package search

import "time"

// ResultType 标记结果来自哪个信息源
type ResultType string

const (
	TypeInstantAnswer   ResultType = "instant_answer"
	TypeAbstract        ResultType = "abstract"
	TypeRelated         ResultType = "related"
	TypeWikipedia       ResultType = "wikipedia"
	TypeRSSNews         ResultType = "rss_news"
	TypeRedditPost      ResultType = "reddit_post"
	TypeQuoraQA         ResultType = "quora_qa"
	TypeWebResult       ResultType = "web_search_result"
	TypeBreakingNews    ResultType = "breaking_news"
	TypeDeathNotice     ResultType = "death_announcement"
	TypePolitical       ResultType = "current_political"
	TypeFactCheck       ResultType = "fact_check"
	TypeBiography       ResultType = "biography"
	TypeFullContent     ResultType = "full_content"
	TypeSearchStatus    ResultType = "search_status"
	TypeStatusInference ResultType = "status_inference"
)

// Result 单条检索结果, 由某一个连接器产出后不再修改,
// 深度抓取会整体替换为 full_content 副本
type Result struct {
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	URL       string     `json:"url"`
	Type      ResultType `json:"type"`
	Score     int        `json:"score,omitempty"`
	Published string     `json:"published,omitempty"`
	Source    string     `json:"source,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// Outcome 一次顶层检索的最终产物, 不做持久化
type Outcome struct {
	Success      bool      `json:"success"`
	Query        string    `json:"query"`
	RefinedQuery string    `json:"refined_query,omitempty"`
	TaskID       string    `json:"task_id"`
	Timestamp    time.Time `json:"timestamp"`
	Results      []Result  `json:"results"`
	ResultCount  int       `json:"results_count"`
	Summary      string    `json:"summary"`
	Method       string    `json:"search_method"`
	Error        string    `json:"error,omitempty"`
}

const (
	MethodStandard      = "standard"
	MethodRefined       = "refined"
	MethodComprehensive = "comprehensive"
)
