package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/DeafMist/topic-radar/internal/cache"
	"github.com/DeafMist/topic-radar/internal/config"
	"github.com/DeafMist/topic-radar/internal/models"
)

type stubIndexer struct {
	docs []models.Document
	err  error
}

func (s *stubIndexer) IndexDocument(_ context.Context, doc models.Document) error {
	if s.err != nil {
		return s.err
	}
	s.docs = append(s.docs, doc)
	return nil
}

type stubWriter struct {
	failures int
	written  []kafka.Message
}

func (s *stubWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if s.failures > 0 {
		s.failures--
		return errors.New("broker unavailable")
	}
	s.written = append(s.written, msgs...)
	return nil
}

func testConfig() *config.Worker {
	return &config.Worker{
		Common: config.Common{
			ElasticsearchAddr:  "http://test",
			ElasticsearchIndex: "news",
		},
		KeywordLimit:     5,
		KeywordMinLength: 3,
		DefaultLanguage:  "en",
	}
}

func message(t *testing.T, payload rawNews) kafka.Message {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return kafka.Message{Value: data}
}

func TestProcessMessageIndexesDocument(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	seen := cache.New[struct{}](100, time.Hour)
	idx := &stubIndexer{}

	msg := message(t, rawNews{
		Title:     "Tariffs rise",
		Text:      "<b>Trade tariffs</b> rise between nations",
		Timestamp: "2024-01-02T15:04:05Z",
		Source:    "rss",
		URL:       "https://wire.example/1",
	})

	require.NoError(t, processMessage(context.Background(), log, idx, seen, testConfig(), msg))
	require.Len(t, idx.docs, 1)

	doc := idx.docs[0]
	require.Equal(t, "Tariffs rise", doc.Title)
	require.Equal(t, "Trade tariffs rise between nations", doc.Text)
	require.Equal(t, "rss", doc.Source)
	require.Equal(t, "en", doc.Language)
	require.Equal(t, "https://wire.example/1", doc.URL)
	require.Equal(t, time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC), doc.Timestamp)
	require.NotEmpty(t, doc.Keywords)

	require.NoError(t, processMessage(context.Background(), log, idx, seen, testConfig(), msg))
	require.Len(t, idx.docs, 1)
}

func TestProcessMessageGeneratesTitleWhenMissing(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	idx := &stubIndexer{}

	msg := message(t, rawNews{
		Text:      "Горящий тур в Турцию! Всего 30000 рублей. Вылет завтра.",
		Timestamp: "2024-01-02T15:04:05Z",
		Source:    "telegram",
		Language:  "ru",
	})

	require.NoError(t, processMessage(context.Background(), log, idx, cache.New[struct{}](10, time.Hour), testConfig(), msg))
	require.Len(t, idx.docs, 1)
	require.Equal(t, "Горящий тур в Турцию", idx.docs[0].Title)
	require.Equal(t, "ru", idx.docs[0].Language)
}

func TestProcessMessageRejectsBadPayloads(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	seen := cache.New[struct{}](10, time.Hour)

	err := processMessage(context.Background(), log, &stubIndexer{}, seen, testConfig(), kafka.Message{Value: []byte("{")})
	require.Error(t, err)

	err = processMessage(context.Background(), log, &stubIndexer{}, seen, testConfig(), message(t, rawNews{Source: "rss"}))
	require.EqualError(t, err, "empty payload")

	failing := &stubIndexer{err: errors.New("es down")}
	msg := message(t, rawNews{Title: "Quake", Text: "Quake hits coast"})
	require.Error(t, processMessage(context.Background(), log, failing, seen, testConfig(), msg))

	ok := &stubIndexer{}
	require.NoError(t, processMessage(context.Background(), log, ok, seen, testConfig(), msg))
	require.Len(t, ok.docs, 1)
}

func TestSendToDLQ(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	w := &stubWriter{}
	msg := kafka.Message{Partition: 2, Offset: 41, Value: []byte("{")}

	require.True(t, sendToDLQ(context.Background(), log, w, msg, errors.New("bad json")))
	require.Len(t, w.written, 1)

	headers := map[string]string{}
	for _, h := range w.written[0].Headers {
		headers[h.Key] = string(h.Value)
	}
	require.Equal(t, "2", headers["original_partition"])
	require.Equal(t, "41", headers["original_offset"])
	require.Equal(t, "bad json", headers["error"])
}

func TestSendToDLQStopsOnCancel(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.False(t, sendToDLQ(ctx, log, &stubWriter{failures: 10}, kafka.Message{}, errors.New("x")))
}

func TestParseTimestamp(t *testing.T) {
	ts := parseTimestamp("2024-02-03T04:05:06Z")
	require.Equal(t, time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC), ts)

	legacy := parseTimestamp("2024-02-03 04:05:06")
	require.Equal(t, 2024, legacy.Year())
	require.Equal(t, 6, legacy.Second())

	require.True(t, parseTimestamp("invalid").IsZero())
	require.True(t, parseTimestamp("").IsZero())
}
