package search

import "strings"

// 标题归一化时剥掉的常见前缀
var titlePrefixes = []string{"killing of ", "death of ", "the "}

// 标题中出现这些说明条目专门讲死亡/凶案事件
var deathSpecificMarkers = []string{"killing of", "death of", "murder of", "assassination of", "obituary"}

// DistinctFn 判断两个标题是否应当保留为不同条目
// 即便归一化后相同; 返回 true 表示不算重复
type DistinctFn func(a, b string) bool

// DeathSpecificity 默认的特异性规则: 恰好一边专门讲死亡/凶案时,
// 两条讲的是不同主题 ("Killing of X" 和 "X" 必须都保留)
func DeathSpecificity(a, b string) bool {
	aSpecific := containsAny(strings.ToLower(a), deathSpecificMarkers)
	bSpecific := containsAny(strings.ToLower(b), deathSpecificMarkers)
	return aSpecific != bSpecific
}

// Deduplicate 按 URL 精确匹配和归一化标题去重, 保序, 先出现者保留
func Deduplicate(results []Result, distinct DistinctFn) []Result {
	if distinct == nil {
		distinct = func(a, b string) bool { return false }
	}

	var unique []Result
	seenURLs := make(map[string]bool)

	for _, r := range results {
		if r.URL != "" && seenURLs[r.URL] {
			continue
		}

		dup := false
		for _, kept := range unique {
			if !similarTitle(r.Title, kept.Title) {
				continue
			}
			if distinct(r.Title, kept.Title) {
				continue
			}
			dup = true
			break
		}
		if dup {
			continue
		}

		unique = append(unique, r)
		if r.URL != "" {
			seenURLs[r.URL] = true
		}
	}
	return unique
}

// similarTitle 归一化后一方包含另一方即视为近似重复
func similarTitle(a, b string) bool {
	na, nb := normalizeTitle(a), normalizeTitle(b)
	if na == "" || nb == "" {
		return false
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}

func normalizeTitle(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))
	for changed := true; changed; {
		changed = false
		for _, prefix := range titlePrefixes {
			if strings.HasPrefix(t, prefix) {
				t = strings.TrimSpace(strings.TrimPrefix(t, prefix))
				changed = true
			}
		}
	}
	return t
}
