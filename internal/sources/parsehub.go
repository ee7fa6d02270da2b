package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/DeafMist/topic-radar/internal/logger"
	"github.com/DeafMist/topic-radar/internal/models"
	"github.com/DeafMist/topic-radar/internal/processing"
)

// ParseHubConfig identifies one ParseHub project.
type ParseHubConfig struct {
	Name     string
	Language string
	Token    string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
}

// ParseHub reads the latest ready run of a ParseHub scraping project.
type ParseHub struct {
	cfg    ParseHubConfig
	client *http.Client
	log    *slog.Logger
	now    func() time.Time
}

type parseHubArticle struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// NewParseHub creates a ParseHub source.
func NewParseHub(cfg ParseHubConfig, log *slog.Logger) (*ParseHub, error) {
	if strings.TrimSpace(cfg.Name) == "" {
		return nil, errors.New("parsehub source needs a name")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("parsehub source %q has no project token", cfg.Name)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.parsehub.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &ParseHub{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    logger.OrDiscard(log).With("source", cfg.Name),
		now:    time.Now,
	}, nil
}

// redactKey strips the api_key query parameter from URLs carried by transport
// errors so the key never reaches logs.
func redactKey(err error) error {
	var ue *url.Error
	if !errors.As(err, &ue) {
		return err
	}
	u, perr := url.Parse(ue.URL)
	if perr != nil {
		ue.URL = "<redacted>"
		return err
	}
	q := u.Query()
	if q.Has("api_key") {
		q.Set("api_key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	ue.URL = u.String()
	return err
}

// Name returns the display name of the provider.
func (p *ParseHub) Name() string { return p.cfg.Name }

// Fetch downloads and normalizes the project's last ready run.
func (p *ParseHub) Fetch(ctx context.Context) ([]models.Document, error) {
	endpoint := fmt.Sprintf("%s/api/v2/projects/%s/last_ready_run/data?api_key=%s",
		strings.TrimRight(p.cfg.BaseURL, "/"),
		url.PathEscape(p.cfg.Token),
		url.QueryEscape(p.cfg.APIKey),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", p.cfg.Name, redactKey(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", p.cfg.Name, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("parsehub %s: status %d: %s", p.cfg.Name, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	items, err := decodeRun(body)
	if err != nil {
		return nil, fmt.Errorf("decode %s run: %w", p.cfg.Name, err)
	}

	now := p.now()
	opts := processing.DefaultOptions()
	opts.DefaultLanguage = p.cfg.Language

	docs := make([]models.Document, 0, len(items))
	for i, raw := range items {
		var a parseHubArticle
		if err := json.Unmarshal(raw, &a); err != nil {
			p.log.Warn("skip malformed article", slog.Int("index", i), slog.Any("err", err))
			continue
		}
		docs = append(docs, processing.NormalizeDocument(models.Document{
			Title:     a.Title,
			Source:    p.cfg.Name,
			URL:       strings.TrimSpace(a.URL),
			Text:      a.Content,
			Language:  p.cfg.Language,
			Timestamp: now,
		}, opts, now))
	}

	p.log.Debug("fetched articles", slog.Int("count", len(docs)))
	return docs, nil
}

// decodeRun accepts either a bare array of articles or an object holding a
// single array of them, which is how ParseHub wraps named selections.
func decodeRun(body []byte) ([]json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}

	var items []json.RawMessage
	if body[0] == '[' {
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil, err
	}
	for _, v := range wrapper {
		v = bytes.TrimSpace(v)
		if len(v) > 0 && v[0] == '[' {
			if items != nil {
				return nil, errors.New("run holds more than one selection")
			}
			if err := json.Unmarshal(v, &items); err != nil {
				return nil, err
			}
		}
	}
	if items == nil {
		return nil, errors.New("run holds no article list")
	}
	return items, nil
}
