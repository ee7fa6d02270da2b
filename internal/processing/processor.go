package processing

import (
	"crypto/sha1"
	"encoding/hex"
	"html"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/DeafMist/topic-radar/internal/models"
	"github.com/DeafMist/topic-radar/internal/topics"
)

var urlRegex = regexp.MustCompile(`https?://[^\s]+`)

var (
	whitespace  = regexp.MustCompile(`\s+`)
	punctuation = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	htmlTags    = regexp.MustCompile(`<[^>]*>`)
)

// Options tune NormalizeDocument.
type Options struct {
	KeywordLimit     int
	KeywordMinLength int
	TitleWords       int
	DefaultLanguage  string
}

// DefaultOptions mirrors the worker defaults.
func DefaultOptions() Options {
	return Options{
		KeywordLimit:     8,
		KeywordMinLength: 4,
		TitleWords:       10,
		DefaultLanguage:  topics.DefaultLanguage,
	}
}

// ExtractURLs extracts all HTTP(S) URLs from the input text, in order, without duplicates.
func ExtractURLs(input string) []string {
	if input == "" {
		return nil
	}
	matches := urlRegex.FindAllString(input, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{})
	var urls []string
	for _, url := range matches {
		if _, ok := seen[url]; !ok {
			seen[url] = struct{}{}
			urls = append(urls, url)
		}
	}
	return urls
}

// RemoveURLs removes all URLs from the input text.
func RemoveURLs(input string) string {
	return urlRegex.ReplaceAllString(input, " ")
}

// CleanText strips markup, HTML entities, URLs and punctuation, and squeezes whitespace.
func CleanText(input string) string {
	if input == "" {
		return ""
	}
	decoded := htmlTags.ReplaceAllString(input, " ")
	decoded = html.UnescapeString(decoded)
	decoded = RemoveURLs(decoded)
	decoded = punctuation.ReplaceAllString(decoded, " ")
	decoded = whitespace.ReplaceAllString(decoded, " ")
	return strings.TrimSpace(decoded)
}

// ExtractKeywords returns the most frequent words of text that are not
// stop-words for lang and are at least minLen runes long.
func ExtractKeywords(text, lang string, limit, minLen int) []string {
	clean := strings.ToLower(CleanText(text))
	if clean == "" {
		return nil
	}

	stop := topics.StopWords(lang)
	freq := make(map[string]int)
	for _, token := range strings.Fields(clean) {
		token = strings.TrimFunc(token, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if len([]rune(token)) < minLen {
			continue
		}
		if _, skip := stop[token]; skip {
			continue
		}
		freq[token]++
	}

	if len(freq) == 0 {
		return nil
	}

	type kv struct {
		word  string
		count int
	}

	pairs := make([]kv, 0, len(freq))
	for word, count := range freq {
		pairs = append(pairs, kv{word: word, count: count})
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count == pairs[j].count {
			return pairs[i].word < pairs[j].word
		}
		return pairs[i].count > pairs[j].count
	})

	max := limit
	if max <= 0 || max > len(pairs) {
		max = len(pairs)
	}

	keywords := make([]string, 0, max)
	for i := 0; i < max; i++ {
		keywords = append(keywords, pairs[i].word)
	}
	return keywords
}

// BuildDocumentID hashes the most stable fields to form deterministic IDs.
func BuildDocumentID(source, title, text string, ts time.Time) string {
	s := sha1.Sum([]byte(source + "|" + title + "|" + text + "|" + ts.UTC().Format(time.RFC3339)))
	return hex.EncodeToString(s[:])
}

// GenerateTitleFromText creates a title from the first sentence or first
// maxWords words of text. Returns empty string if text is empty.
func GenerateTitleFromText(text string, maxWords int) string {
	if text == "" {
		return ""
	}

	textWithoutURLs := RemoveURLs(text)

	sentenceEnd := strings.IndexAny(textWithoutURLs, ".!?")
	var firstSentence string
	if sentenceEnd > 0 {
		firstSentence = strings.TrimSpace(textWithoutURLs[:sentenceEnd])
	} else {
		firstSentence = textWithoutURLs
	}

	words := strings.Fields(firstSentence)
	if len(words) == 0 {
		return ""
	}

	if maxWords > 0 && len(words) > maxWords {
		return strings.Join(words[:maxWords], " ") + "..."
	}
	return strings.Join(words, " ")
}

// NormalizeDocument prepares a collected document for clustering: the body
// is cleaned, a missing title is derived from the raw text, and language,
// timestamp, keywords, URLs and ID are filled in when absent. Documents with
// no usable content are kept with an empty body.
func NormalizeDocument(doc models.Document, opts Options, now time.Time) models.Document {
	raw := strings.TrimSpace(doc.Text)

	doc.Title = strings.TrimSpace(doc.Title)
	if doc.Title == "" {
		plain := html.UnescapeString(htmlTags.ReplaceAllString(raw, " "))
		doc.Title = GenerateTitleFromText(plain, opts.TitleWords)
	}
	doc.Source = strings.TrimSpace(doc.Source)
	if doc.Source == "" {
		doc.Source = "unknown"
	}
	doc.Language = strings.TrimSpace(doc.Language)
	if doc.Language == "" {
		doc.Language = opts.DefaultLanguage
	}
	if doc.Timestamp.IsZero() {
		doc.Timestamp = now.UTC()
	}
	if len(doc.URLs) == 0 {
		doc.URLs = ExtractURLs(raw)
	}
	if doc.URL == "" && len(doc.URLs) > 0 {
		doc.URL = doc.URLs[0]
	}

	doc.Text = CleanText(raw)
	if len(doc.Keywords) == 0 {
		doc.Keywords = ExtractKeywords(doc.Title+" "+doc.Text, doc.Language, opts.KeywordLimit, opts.KeywordMinLength)
	}
	if doc.ID == "" {
		doc.ID = BuildDocumentID(doc.Source, doc.Title, doc.Text, doc.Timestamp)
	}
	return doc
}
