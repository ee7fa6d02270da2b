package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/DeafMist/topic-radar/internal/cache"
	"github.com/DeafMist/topic-radar/internal/config"
	"github.com/DeafMist/topic-radar/internal/elasticsearch"
	"github.com/DeafMist/topic-radar/internal/logger"
	"github.com/DeafMist/topic-radar/internal/models"
	"github.com/DeafMist/topic-radar/internal/processing"
)

type rawNews struct {
	Title     string   `json:"title"`
	Text      string   `json:"text"`
	Timestamp string   `json:"timestamp"`
	Source    string   `json:"source"`
	URL       string   `json:"url"`
	Language  string   `json:"language"`
	Sentiment *float64 `json:"sentiment"`
}

type documentIndexer interface {
	IndexDocument(ctx context.Context, doc models.Document) error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

func main() {
	log := logger.New("worker")
	if err := config.LoadDotEnv(); err != nil {
		log.Warn("dotenv", slog.Any("err", err))
	}
	cfg, err := config.LoadWorker()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	esClient, err := elasticsearch.New(cfg.ElasticsearchAddr, cfg.ElasticsearchIndex, log)
	if err != nil {
		log.Error("init elasticsearch", slog.Any("err", err))
		os.Exit(1)
	}

	seen := cache.New[struct{}](cfg.DedupeCapacity, cfg.DedupeTTL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.KafkaBrokers,
		Topic:          cfg.KafkaTopic,
		GroupID:        cfg.KafkaConsumer,
		QueueCapacity:  cfg.BatchSize,
		MinBytes:       1e3,
		MaxBytes:       10e6,
		CommitInterval: 0, // manual commit only
	})
	defer reader.Close()

	dlqTopic := cfg.KafkaTopic + "_dlq"
	dlqWriter := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Topic:        dlqTopic,
		MaxAttempts:  3,
		RequiredAcks: kafka.RequireAll,
	}
	defer dlqWriter.Close()

	log.Info("worker started",
		slog.String("topic", cfg.KafkaTopic),
		slog.String("group", cfg.KafkaConsumer),
		slog.String("dlq_topic", dlqTopic),
	)

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				log.Info("context canceled, stopping")
				return
			}
			log.Error("fetch message", slog.Any("err", err))
			continue
		}

		if err := processMessage(ctx, log, esClient, seen, cfg, msg); err != nil {
			log.Warn("process message failed, sending to DLQ",
				slog.Any("err", err),
				slog.Int("partition", msg.Partition),
				slog.Int64("offset", msg.Offset),
			)
			if !sendToDLQ(ctx, log, dlqWriter, msg, err) {
				// Leave the offset uncommitted so the message is redelivered on restart.
				continue
			}
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message", slog.Any("err", err))
		}
	}
}

// sendToDLQ forwards msg with failure context, retrying with exponential
// backoff. It reports whether the message reached the DLQ.
func sendToDLQ(ctx context.Context, log *slog.Logger, w messageWriter, msg kafka.Message, cause error) bool {
	dlqMsg := kafka.Message{
		Key:   msg.Key,
		Value: msg.Value,
		Headers: append(msg.Headers,
			kafka.Header{Key: "original_partition", Value: []byte(fmt.Sprintf("%d", msg.Partition))},
			kafka.Header{Key: "original_offset", Value: []byte(fmt.Sprintf("%d", msg.Offset))},
			kafka.Header{Key: "error", Value: []byte(cause.Error())},
			kafka.Header{Key: "timestamp", Value: []byte(time.Now().UTC().Format(time.RFC3339))},
		),
	}

	const attempts = 5
	for attempt := 0; attempt < attempts; attempt++ {
		err := w.WriteMessages(ctx, dlqMsg)
		if err == nil {
			log.Info("message sent to DLQ",
				slog.Int("partition", msg.Partition),
				slog.Int64("offset", msg.Offset),
				slog.Int("attempt", attempt+1),
			)
			return true
		}

		backoff := time.Duration(1<<uint(attempt)) * time.Second
		log.Warn("DLQ write failed, retrying",
			slog.Any("err", err),
			slog.Int("attempt", attempt+1),
			slog.Duration("backoff", backoff),
		)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return false
		}
	}

	log.Error("DLQ write exhausted retries",
		slog.Int("partition", msg.Partition),
		slog.Int64("offset", msg.Offset),
	)
	return false
}

func processMessage(ctx context.Context, log *slog.Logger, idx documentIndexer, seen *cache.TTL[struct{}], cfg *config.Worker, msg kafka.Message) error {
	var payload rawNews
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		return err
	}

	if strings.TrimSpace(payload.Title) == "" && strings.TrimSpace(payload.Text) == "" {
		return errors.New("empty payload")
	}

	opts := processing.Options{
		KeywordLimit:     cfg.KeywordLimit,
		KeywordMinLength: cfg.KeywordMinLength,
		TitleWords:       10,
		DefaultLanguage:  cfg.DefaultLanguage,
	}
	doc := processing.NormalizeDocument(models.Document{
		Title:     payload.Title,
		Source:    payload.Source,
		URL:       strings.TrimSpace(payload.URL),
		Text:      payload.Text,
		Language:  payload.Language,
		Timestamp: parseTimestamp(payload.Timestamp),
		Sentiment: payload.Sentiment,
	}, opts, time.Now())

	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	if seen.Has(doc.ID) {
		log.Debug("duplicate news", slog.String("id", doc.ID))
		return nil
	}

	if err := idx.IndexDocument(ctx, doc); err != nil {
		return err
	}

	seen.Put(doc.ID, struct{}{})
	log.Info("indexed news", slog.String("id", doc.ID), slog.String("title", doc.Title))
	return nil
}

func parseTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}

	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if ts, err := time.Parse(f, raw); err == nil {
			return ts
		}
	}
	return time.Time{}
}
