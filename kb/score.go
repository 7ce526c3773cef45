package kb

import (
	"sort"
	"strings"
)

// Result is a section that matched a query, tagged with its source file.
type Result struct {
	File    string `json:"file"`
	Header  string `json:"header"`
	Content string `json:"content"`
	Score   int    `json:"score"`
}

// Tokenize lowercases and trims the query and splits it on whitespace.
// Repeated tokens are kept; each occurrence contributes to the score.
func Tokenize(query string) []string {
	return strings.Fields(strings.ToLower(strings.TrimSpace(query)))
}

// Score returns the sum over tokens of the non-overlapping substring count of
// the token in the lowercased content.
func Score(content string, tokens []string) int {
	lowered := strings.ToLower(content)
	score := 0
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		score += strings.Count(lowered, tok)
	}
	return score
}

// ScoreSections scores every section of one file and keeps those with a
// positive score, preserving section order.
func ScoreSections(file string, sections []Section, tokens []string) []Result {
	var out []Result
	for _, sec := range sections {
		score := Score(sec.Content, tokens)
		if score <= 0 {
			continue
		}
		out = append(out, Result{
			File:    file,
			Header:  sec.Header,
			Content: sec.Content,
			Score:   score,
		})
	}
	return out
}

// Rank sorts results by descending score, keeping discovery order for equal
// scores, and truncates to max entries. A max of zero or less yields an empty
// slice. The input slice is not modified.
func Rank(results []Result, max int) []Result {
	if max <= 0 || len(results) == 0 {
		return []Result{}
	}
	ranked := make([]Result, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > max {
		ranked = ranked[:max]
	}
	return ranked
}
