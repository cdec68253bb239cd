package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/yourusername/tik-relay-go/internal/domain"
)

// TikwmProvider implements domain.MediaProvider against a tikwm-style
// extraction API: GET {base}/api/?url={link} answering
// {"code": 0, "msg": "...", "data": {...}}.
type TikwmProvider struct {
	config *domain.ProviderConfig
	client *http.Client
	logger *zap.Logger
}

// NewTikwmProvider creates a new tikwm provider client
func NewTikwmProvider(config *domain.ProviderConfig, logger *zap.Logger) *TikwmProvider {
	return &TikwmProvider{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger,
	}
}

// Resolve performs a single extraction call. The decoded body is returned as
// an untyped tree; interpretation is left entirely to the normalizer.
func (p *TikwmProvider) Resolve(ctx context.Context, shareLink string) (domain.ProviderResult, error) {
	endpoint := fmt.Sprintf("%s/api/?url=%s", p.config.BaseURL, url.QueryEscape(shareLink))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build provider request: %w", err)
	}
	req.Header.Set("User-Agent", p.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("provider returned status %d: %s", resp.StatusCode, string(snippet))
	}

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode provider response: %w", err)
	}

	// tikwm signals scrape failures in-band with a non-zero code.
	if code, ok := body["code"].(float64); ok && code != 0 {
		msg, _ := body["msg"].(string)
		return nil, fmt.Errorf("provider rejected link (code %d): %s", int(code), msg)
	}

	p.logger.Debug("Provider call succeeded", zap.String("link", shareLink))

	if data, ok := body["data"]; ok && data != nil {
		return data, nil
	}
	return body, nil
}
