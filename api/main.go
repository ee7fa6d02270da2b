package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/DeafMist/topic-radar/internal/aggregator"
	"github.com/DeafMist/topic-radar/internal/config"
	"github.com/DeafMist/topic-radar/internal/elasticsearch"
	"github.com/DeafMist/topic-radar/internal/logger"
	"github.com/DeafMist/topic-radar/internal/models"
	"github.com/DeafMist/topic-radar/internal/sources"
	"github.com/DeafMist/topic-radar/internal/summarizer"
)

type documentStore interface {
	Health(ctx context.Context) error
	SearchDocuments(ctx context.Context, params elasticsearch.SearchParams) (*elasticsearch.SearchResult, error)
}

type aggregateRunner interface {
	Aggregate(ctx context.Context) (*models.AggregateResult, error)
}

func main() {
	log := logger.New("api")
	if err := config.LoadDotEnv(); err != nil {
		log.Warn("dotenv", slog.Any("err", err))
	}
	cfg, err := config.LoadAPI()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	esClient, err := elasticsearch.New(cfg.ElasticsearchAddr, cfg.ElasticsearchIndex, log)
	if err != nil {
		log.Error("init elasticsearch", slog.Any("err", err))
		os.Exit(1)
	}

	srv := &server{
		log:       log,
		cfg:       cfg,
		store:     esClient,
		aggregate: buildAggregator(log, &cfg.Aggregate, esClient),
	}

	httpServer := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      5 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go func() {
		log.Info("api server starting", slog.String("addr", cfg.BindAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", slog.Any("err", err))
	}
}

func buildAggregator(log *slog.Logger, cfg *config.Aggregate, store sources.RecentLister) *aggregator.Service {
	srcs := make([]sources.Source, 0, len(cfg.Sources)+1)
	for _, s := range cfg.Sources {
		ph, err := sources.NewParseHub(sources.ParseHubConfig{
			Name:     s.Name,
			Language: s.Language,
			Token:    s.ParseHubToken,
			APIKey:   cfg.ParseHubAPIKey,
			BaseURL:  cfg.ParseHubBaseURL,
			Timeout:  cfg.FetchTimeout,
		}, log)
		if err != nil {
			log.Warn("skip source", slog.String("source", s.Name), slog.Any("err", err))
			continue
		}
		srcs = append(srcs, ph)
	}
	if cfg.IncludeStored {
		srcs = append(srcs, sources.NewStored(store, cfg.CacheExpiration, cfg.StoredLimit))
	}

	var sum summarizer.Summarizer = summarizer.Disabled{}
	if cfg.Summarizer.APIKey != "" {
		oa, err := summarizer.NewOpenAI(summarizer.Config{
			APIKey:          cfg.Summarizer.APIKey,
			BaseURL:         cfg.Summarizer.BaseURL,
			Model:           cfg.Summarizer.Model,
			MaxTokens:       cfg.Summarizer.MaxTokens,
			Temperature:     cfg.Summarizer.Temperature,
			Timeout:         cfg.Summarizer.Timeout,
			MaxContextChars: cfg.Summarizer.MaxContextChars,
			MaxRetries:      2,
		})
		if err != nil {
			log.Warn("summarizer disabled", slog.Any("err", err))
		} else {
			sum = oa
		}
	} else {
		log.Warn("OPENAI_API_KEY not set, summaries will be placeholders")
	}

	log.Info("aggregator configured",
		slog.Int("sources", len(srcs)),
		slog.Float64("threshold", cfg.Clustering.Threshold),
		slog.String("mode", string(cfg.Clustering.Mode)),
		slog.Duration("cache_expiration", cfg.CacheExpiration),
	)

	collector := sources.NewCollector(srcs, cfg.CacheExpiration, cfg.MaxParallel, log)
	return aggregator.New(collector, sum, cfg.Clustering.Options(), log)
}

type server struct {
	log       *slog.Logger
	cfg       *config.API
	store     documentStore
	aggregate aggregateRunner
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors(s.cfg.CORSOrigins))

	r.Get("/health", s.handleHealth)
	r.Get("/news", s.handleSearch)
	r.Get("/news/aggregate", s.handleAggregate)
	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Health(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	q := r.URL.Query()
	params := elasticsearch.SearchParams{
		Query:    strings.TrimSpace(q.Get("q")),
		Keywords: parseCSV(q.Get("keywords")),
		Source:   strings.TrimSpace(q.Get("source")),
		Language: strings.TrimSpace(q.Get("language")),
		From:     clampInt(q.Get("from"), 0, 10_000),
		Size:     clampInt(q.Get("size"), s.cfg.DefaultPage, s.cfg.MaxPage),
		Sort:     strings.TrimSpace(q.Get("sort")),
		Start:    parseTime(q.Get("start")),
		End:      parseTime(q.Get("end")),
	}

	result, err := s.store.SearchDocuments(ctx, params)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *server) handleAggregate(w http.ResponseWriter, r *http.Request) {
	result, err := s.aggregate.Aggregate(r.Context())
	if err != nil {
		s.log.Error("news aggregation", slog.Any("err", err), slog.String("request_id", middleware.GetReqID(r.Context())))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func cors(origins []string) func(http.Handler) http.Handler {
	wildcard := slices.Contains(origins, "*")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (wildcard || slices.Contains(origins, origin)) {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "*")
				h.Add("Vary", "Origin")
			}
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func parseTime(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return &ts
	}
	return nil
}

func parseCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func clampInt(raw string, fallback, max int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	if value > max {
		return max
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
