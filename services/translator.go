package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aleenprd/boligportal-scraper/utils"
)

// Translator turns text from one language into another.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// NoopTranslator returns its input unchanged. It is used when no
// translation service is configured.
type NoopTranslator struct{}

func (NoopTranslator) Translate(_ context.Context, text, _, _ string) (string, error) {
	return text, nil
}

// HTTPTranslator talks to a LibreTranslate compatible endpoint and caches
// every answer for the lifetime of the process.
type HTTPTranslator struct {
	endpoint string
	apiKey   string
	client   *http.Client
	logger   *utils.Logger

	cacheLock sync.RWMutex
	cache     map[string]string
}

// NewHTTPTranslator creates a translator posting to endpoint.
func NewHTTPTranslator(endpoint, apiKey string, timeout time.Duration, logger *utils.Logger) *HTTPTranslator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPTranslator{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
		cache:    make(map[string]string),
	}
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error"`
}

func (t *HTTPTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	cacheKey := sourceLang + "|" + targetLang + "|" + text
	t.cacheLock.RLock()
	if cached, ok := t.cache[cacheKey]; ok {
		t.cacheLock.RUnlock()
		return cached, nil
	}
	t.cacheLock.RUnlock()

	body, err := json.Marshal(translateRequest{
		Q:      text,
		Source: sourceLang,
		Target: targetLang,
		Format: "text",
		APIKey: t.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("marshal translate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create translate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read translate response: %w", err)
	}

	var result translateResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("parse translate response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate service returned %d: %s", resp.StatusCode, result.Error)
	}

	t.cacheLock.Lock()
	t.cache[cacheKey] = result.TranslatedText
	t.cacheLock.Unlock()

	if t.logger != nil {
		t.logger.Debug("[translate] %q -> %q", text, result.TranslatedText)
	}
	return result.TranslatedText, nil
}
