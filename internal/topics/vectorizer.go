package topics

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Matrix is the TF-IDF feature matrix of one batch: one row per document,
// one column per vocabulary term.
type Matrix struct {
	Vocabulary []string
	Rows       [][]float64
}

// Dim returns the vocabulary size.
func (m *Matrix) Dim() int { return len(m.Vocabulary) }

// Vectorizer fits a vocabulary and TF-IDF weights to a single batch.
// It holds no state between calls to Fit.
type Vectorizer struct {
	stopwords map[string]struct{}
}

// NewVectorizer creates a vectorizer using the stop-word list for lang.
func NewVectorizer(lang string) *Vectorizer {
	return &Vectorizer{stopwords: StopWords(lang)}
}

// Fit builds the batch vocabulary (sorted, so column order is stable) and
// returns L2-normalized TF-IDF rows using smoothed idf = ln((1+n)/(1+df)) + 1.
// With a single document idf is 1 for every term and rows are normalized raw counts.
func (v *Vectorizer) Fit(bodies []string) *Matrix {
	n := len(bodies)
	counts := make([]map[string]int, n)
	df := make(map[string]int)

	for i, body := range bodies {
		counts[i] = make(map[string]int)
		for _, tok := range v.Tokenize(body) {
			if counts[i][tok] == 0 {
				df[tok]++
			}
			counts[i][tok]++
		}
	}

	vocab := make([]string, 0, len(df))
	for term := range df {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)

	index := make(map[string]int, len(vocab))
	idf := make([]float64, len(vocab))
	for i, term := range vocab {
		index[term] = i
		idf[i] = math.Log(float64(1+n)/float64(1+df[term])) + 1
	}

	rows := make([][]float64, n)
	for i := range bodies {
		row := make([]float64, len(vocab))
		for term, c := range counts[i] {
			j := index[term]
			row[j] = float64(c) * idf[j]
		}
		normalize(row)
		rows[i] = row
	}

	return &Matrix{Vocabulary: vocab, Rows: rows}
}

// Tokenize lowercases text and splits it on word boundaries, dropping
// single-character tokens and stop-words.
func (v *Vectorizer) Tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, tok := range raw {
		if utf8.RuneCountInString(tok) < 2 {
			continue
		}
		if _, stop := v.stopwords[tok]; stop {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func normalize(row []float64) {
	norm := 0.0
	for _, x := range row {
		norm += x * x
	}
	if norm == 0 {
		return
	}
	norm = math.Sqrt(norm)
	for i := range row {
		row[i] /= norm
	}
}
