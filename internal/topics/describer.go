package topics

import (
	"sort"
	"strings"
)

// Description is the human-readable summary of a group.
type Description struct {
	Title    string
	Keywords []string
	Score    float64
}

// Describe derives the title (top titleTerms terms), the keyword list (top
// keywordTerms terms) and the seed-similarity score of g. Terms are ranked by
// mean weight across the group's rows; equal weights keep vocabulary order.
// Terms with zero mean weight are never reported.
func Describe(m *Matrix, sim [][]float64, g Group, titleTerms, keywordTerms int) Description {
	ranked := rankTerms(m, g.Members)

	title := topTerms(ranked, titleTerms)
	return Description{
		Title:    strings.Join(title, " "),
		Keywords: topTerms(ranked, keywordTerms),
		Score:    seedScore(sim, g),
	}
}

type termWeight struct {
	term   string
	weight float64
}

func rankTerms(m *Matrix, members []int) []termWeight {
	if len(members) == 0 || m.Dim() == 0 {
		return nil
	}

	means := make([]float64, m.Dim())
	for _, idx := range members {
		for j, w := range m.Rows[idx] {
			means[j] += w
		}
	}

	ranked := make([]termWeight, 0, len(means))
	for j, sum := range means {
		if sum <= 0 {
			continue
		}
		ranked = append(ranked, termWeight{term: m.Vocabulary[j], weight: sum / float64(len(members))})
	}

	// ranked is built in vocabulary order, so a stable sort breaks ties by it.
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].weight > ranked[b].weight
	})
	return ranked
}

func topTerms(ranked []termWeight, limit int) []string {
	if limit > len(ranked) {
		limit = len(ranked)
	}
	if limit <= 0 {
		return []string{}
	}
	out := make([]string, limit)
	for i := range out {
		out[i] = ranked[i].term
	}
	return out
}

func seedScore(sim [][]float64, g Group) float64 {
	if len(g.Members) == 0 {
		return 0
	}
	total := 0.0
	for _, idx := range g.Members {
		total += sim[g.Seed][idx]
	}
	return total / float64(len(g.Members))
}
