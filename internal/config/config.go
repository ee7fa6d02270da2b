package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/DeafMist/topic-radar/internal/topics"
)

// Common contains Elasticsearch parameters shared by every service.
type Common struct {
	ElasticsearchAddr  string
	ElasticsearchIndex string
}

// Worker holds configuration for the Kafka -> Elasticsearch worker.
type Worker struct {
	Common
	KafkaBrokers     []string
	KafkaTopic       string
	KafkaConsumer    string
	KeywordLimit     int
	KeywordMinLength int
	DefaultLanguage  string
	DedupeCapacity   int
	DedupeTTL        time.Duration
	BatchSize        int
	CommitInterval   time.Duration
}

// Source is one upstream news provider as declared in the sources file.
type Source struct {
	Name          string `yaml:"name"`
	URL           string `yaml:"url"`
	Language      string `yaml:"language"`
	ParseHubToken string `yaml:"parsehub_token"`
}

// Clustering parameterizes the topic clustering engine.
type Clustering struct {
	Threshold    float64
	Mode         topics.Mode
	TitleTerms   int
	KeywordTerms int
	Language     string
}

// Options converts the configuration into engine options.
func (c Clustering) Options() topics.Options {
	return topics.Options{
		Threshold:    c.Threshold,
		Mode:         c.Mode,
		TitleTerms:   c.TitleTerms,
		KeywordTerms: c.KeywordTerms,
		Language:     c.Language,
	}
}

// Summarizer configures the OpenAI-compatible chat completions client.
type Summarizer struct {
	APIKey          string
	BaseURL         string
	Model           string
	MaxTokens       int
	Temperature     float64
	Timeout         time.Duration
	MaxContextChars int
}

// Aggregate configures one /news/aggregate run.
type Aggregate struct {
	Clustering      Clustering
	Summarizer      Summarizer
	ParseHubAPIKey  string
	ParseHubBaseURL string
	FetchTimeout    time.Duration
	Sources         []Source
	CacheExpiration time.Duration
	MaxParallel     int
	IncludeStored   bool
	StoredLimit     int
}

// API describes HTTP-layer configuration.
type API struct {
	Common
	BindAddr    string
	DefaultPage int
	MaxPage     int
	CORSOrigins []string
	Aggregate   Aggregate
}

// Retention configures the cleanup loop.
type Retention struct {
	Common
	Interval  time.Duration
	MaxAge    time.Duration
	BatchSize int
}

// LoadDotEnv loads variables from a .env file in the working directory, if
// one exists. Variables already present in the environment win.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func loadCommon() Common {
	return Common{
		ElasticsearchAddr:  getEnv("ELASTICSEARCH_ADDR", "http://elasticsearch:9200"),
		ElasticsearchIndex: getEnv("ELASTICSEARCH_INDEX", "news"),
	}
}

// LoadWorker builds a Worker config from environment variables.
func LoadWorker() (*Worker, error) {
	c := &Worker{
		Common:           loadCommon(),
		KafkaBrokers:     splitAndTrim(getEnv("KAFKA_BROKERS", "kafka:9092")),
		KafkaTopic:       getEnv("KAFKA_TOPIC", "news_raw"),
		KafkaConsumer:    getEnv("KAFKA_CONSUMER_GROUP", "news-worker"),
		KeywordLimit:     getInt("WORKER_KEYWORD_LIMIT", 8),
		KeywordMinLength: getInt("WORKER_KEYWORD_MIN_LEN", 4),
		DefaultLanguage:  getEnv("WORKER_DEFAULT_LANGUAGE", topics.DefaultLanguage),
		DedupeCapacity:   getInt("WORKER_DEDUPE_CAPACITY", 20000),
		DedupeTTL:        getDuration("WORKER_DEDUPE_TTL", "24h"),
		BatchSize:        getInt("WORKER_BATCH_SIZE", 10),
		CommitInterval:   getDuration("WORKER_COMMIT_INTERVAL", "2s"),
	}

	if len(c.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS must contain at least one broker")
	}
	if c.BatchSize <= 0 {
		return nil, fmt.Errorf("WORKER_BATCH_SIZE must be positive")
	}
	if c.DedupeCapacity <= 0 {
		return nil, fmt.Errorf("WORKER_DEDUPE_CAPACITY must be positive")
	}
	if c.KeywordLimit <= 0 {
		return nil, fmt.Errorf("WORKER_KEYWORD_LIMIT must be positive")
	}
	if c.KeywordMinLength < 0 {
		return nil, fmt.Errorf("WORKER_KEYWORD_MIN_LEN cannot be negative")
	}

	return c, nil
}

// LoadAPI builds an API config from environment variables and the sources file.
func LoadAPI() (*API, error) {
	c := &API{
		Common:      loadCommon(),
		BindAddr:    getEnv("API_BIND_ADDR", "0.0.0.0:8080"),
		DefaultPage: getInt("API_PAGE_SIZE", 20),
		MaxPage:     getInt("API_MAX_PAGE_SIZE", 100),
		CORSOrigins: splitAndTrim(getEnv("API_CORS_ORIGINS", "*")),
	}

	if c.DefaultPage <= 0 {
		return nil, fmt.Errorf("API_PAGE_SIZE must be positive")
	}
	if c.MaxPage <= 0 {
		return nil, fmt.Errorf("API_MAX_PAGE_SIZE must be positive")
	}
	if c.DefaultPage > c.MaxPage {
		return nil, fmt.Errorf("API_PAGE_SIZE cannot exceed API_MAX_PAGE_SIZE")
	}

	agg, err := LoadAggregate()
	if err != nil {
		return nil, err
	}
	c.Aggregate = *agg

	return c, nil
}

// LoadAggregate builds the aggregation settings from environment variables.
func LoadAggregate() (*Aggregate, error) {
	mode, err := topics.ParseMode(getEnv("CLUSTER_MODE", string(topics.ModeSeed)))
	if err != nil {
		return nil, fmt.Errorf("CLUSTER_MODE: %w", err)
	}

	sources, err := LoadSources(getEnv("SOURCES_FILE", "sources.yaml"))
	if err != nil {
		return nil, err
	}

	c := &Aggregate{
		Clustering: Clustering{
			Threshold:    getFloat("CLUSTER_SIMILARITY_THRESHOLD", 0.3),
			Mode:         mode,
			TitleTerms:   getInt("CLUSTER_TITLE_TERMS", 3),
			KeywordTerms: getInt("CLUSTER_KEYWORD_TERMS", 10),
			Language:     getEnv("CLUSTER_LANGUAGE", topics.DefaultLanguage),
		},
		Summarizer: Summarizer{
			APIKey:          os.Getenv("OPENAI_API_KEY"),
			BaseURL:         getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:           getEnv("OPENAI_MODEL", "gpt-3.5-turbo-16k"),
			MaxTokens:       getInt("OPENAI_MAX_TOKENS", 1000),
			Temperature:     getFloat("OPENAI_TEMPERATURE", 0.7),
			Timeout:         getDuration("SUMMARY_TIMEOUT", "60s"),
			MaxContextChars: getInt("SUMMARY_MAX_CONTEXT_CHARS", 48000),
		},
		ParseHubAPIKey:  os.Getenv("PARSEHUB_API_KEY"),
		ParseHubBaseURL: getEnv("PARSEHUB_BASE_URL", "https://www.parsehub.com"),
		FetchTimeout:    getDuration("SOURCE_FETCH_TIMEOUT", "30s"),
		Sources:         sources,
		CacheExpiration: getDuration("CACHE_EXPIRATION", "1h"),
		MaxParallel:     getInt("AGGREGATE_MAX_PARALLEL", len(sources)),
		IncludeStored:   getBool("AGGREGATE_INCLUDE_STORED", true),
		StoredLimit:     getInt("AGGREGATE_STORED_LIMIT", 500),
	}

	if c.Clustering.Threshold < 0 || c.Clustering.Threshold >= 1 {
		return nil, fmt.Errorf("CLUSTER_SIMILARITY_THRESHOLD must be in [0, 1)")
	}
	if c.Clustering.TitleTerms <= 0 {
		return nil, fmt.Errorf("CLUSTER_TITLE_TERMS must be positive")
	}
	if c.Clustering.KeywordTerms <= 0 {
		return nil, fmt.Errorf("CLUSTER_KEYWORD_TERMS must be positive")
	}
	if c.CacheExpiration <= 0 {
		return nil, fmt.Errorf("CACHE_EXPIRATION must be positive")
	}
	if c.MaxParallel <= 0 {
		c.MaxParallel = 1
	}
	if c.StoredLimit <= 0 {
		return nil, fmt.Errorf("AGGREGATE_STORED_LIMIT must be positive")
	}

	return c, nil
}

// LoadSources reads the sources file at path. Tokens may reference
// environment variables as ${NAME}. A missing file yields the built-in
// source list.
func LoadSources(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultSources(), nil
		}
		return nil, fmt.Errorf("read sources file: %w", err)
	}

	var file struct {
		Sources []Source `yaml:"sources"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse sources file %s: %w", path, err)
	}

	seen := make(map[string]struct{}, len(file.Sources))
	out := make([]Source, 0, len(file.Sources))
	for i, s := range file.Sources {
		s.Name = strings.TrimSpace(s.Name)
		if s.Name == "" {
			return nil, fmt.Errorf("sources file %s: entry %d has no name", path, i)
		}
		if _, dup := seen[s.Name]; dup {
			return nil, fmt.Errorf("sources file %s: duplicate source %q", path, s.Name)
		}
		seen[s.Name] = struct{}{}
		if s.Language == "" {
			s.Language = topics.DefaultLanguage
		}
		s.ParseHubToken = os.ExpandEnv(s.ParseHubToken)
		out = append(out, s)
	}
	return out, nil
}

func defaultSources() []Source {
	return []Source{
		{
			Name:          "Deutsche Welle",
			URL:           "https://www.dw.com",
			Language:      "en",
			ParseHubToken: os.Getenv("DW_PARSEHUB_TOKEN"),
		},
		{
			Name:          "The Hindu",
			URL:           "https://www.thehindu.com",
			Language:      "en",
			ParseHubToken: os.Getenv("HINDU_PARSEHUB_TOKEN"),
		},
	}
}

// LoadRetention builds a Retention config from environment variables.
func LoadRetention() (*Retention, error) {
	c := &Retention{
		Common:    loadCommon(),
		Interval:  getDuration("RETENTION_CRON", "24h"),
		MaxAge:    getDuration("RETENTION_MAX_AGE", "168h"),
		BatchSize: getInt("RETENTION_BATCH_SIZE", 500),
	}

	if c.MaxAge <= 0 {
		return nil, fmt.Errorf("RETENTION_MAX_AGE must be positive")
	}
	if c.Interval <= 0 {
		return nil, fmt.Errorf("RETENTION_CRON must be positive")
	}
	if c.BatchSize <= 0 {
		return nil, fmt.Errorf("RETENTION_BATCH_SIZE must be positive")
	}

	return c, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return fallback
}

// getDuration accepts Go durations ("90s", "1h") and bare integers as seconds.
func getDuration(key, fallback string) time.Duration {
	raw := getEnv(key, fallback)
	if secs, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(raw)
	if err == nil {
		return d
	}
	fd, ferr := time.ParseDuration(fallback)
	if ferr != nil {
		panic(fmt.Sprintf("invalid fallback duration %q: %v", fallback, ferr))
	}
	return fd
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
