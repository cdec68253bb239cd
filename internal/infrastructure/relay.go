package infrastructure

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/yourusername/tik-relay-go/internal/domain"
)

// RelayStream is an open media stream ready to be forwarded to a client.
// The caller owns Body and must close it.
type RelayStream struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64 // -1 when the upstream did not supply one
	Filename      string
}

// StreamRelay fetches media bytes from an upstream host for pass-through
// proxying. It never buffers whole payloads.
type StreamRelay struct {
	config *domain.RelayConfig
	client *http.Client
	logger *zap.Logger
}

// NewStreamRelay creates a new stream relay
func NewStreamRelay(config *domain.RelayConfig, logger *zap.Logger) *StreamRelay {
	return &StreamRelay{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= config.MaxRedirects {
					return fmt.Errorf("stopped after %d redirects", config.MaxRedirects)
				}
				return nil
			},
		},
		logger: logger,
	}
}

// Open validates rawURL and issues the outbound GET. Validation happens here
// unconditionally: this entry point is reachable with caller-supplied URLs,
// so no earlier check is trusted. The request is bound to ctx, so a client
// disconnect cancels the upstream fetch.
func (r *StreamRelay) Open(ctx context.Context, rawURL string) (*RelayStream, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || !parsed.IsAbs() || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, domain.ErrInvalidStreamURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream request: %w", err)
	}
	// Some media CDNs refuse non-browser agents.
	req.Header.Set("User-Agent", r.config.UserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, &domain.UpstreamError{StatusCode: 0, Snippet: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, &domain.UpstreamError{
			StatusCode: resp.StatusCode,
			Snippet:    strings.TrimSpace(string(snippet)),
		}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	r.logger.Debug("Relaying upstream stream",
		zap.String("url", parsed.String()),
		zap.String("content_type", contentType),
		zap.Int64("content_length", resp.ContentLength))

	// resp.Request.URL reflects the final hop after redirects, which is the
	// URL whose path actually names the file.
	return &RelayStream{
		Body:          resp.Body,
		ContentType:   contentType,
		ContentLength: resp.ContentLength,
		Filename:      r.deriveFilename(resp.Header.Get("Content-Disposition"), resp.Request.URL),
	}, nil
}

// deriveFilename prefers the upstream Content-Disposition (including the
// RFC 5987 filename* form, which mime.ParseMediaType decodes), then the last
// URL path segment when it looks like a file, then the configured fallback.
func (r *StreamRelay) deriveFilename(disposition string, source *url.URL) string {
	if disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			name := params["filename"]
			if name != "" {
				if decoded, err := url.QueryUnescape(name); err == nil {
					name = decoded
				}
				if name = sanitizeFilename(name); name != "" {
					return name
				}
			}
		}
	}

	if segment := path.Base(source.Path); segment != "." && segment != "/" && strings.Contains(segment, ".") {
		if name := sanitizeFilename(segment); name != "" {
			return name
		}
	}

	return r.config.FallbackFilename
}

// sanitizeFilename strips path separators and quotes so the name is safe to
// embed in a Content-Disposition header.
func sanitizeFilename(name string) string {
	name = strings.Map(func(c rune) rune {
		switch c {
		case '/', '\\', '"':
			return '-'
		}
		return c
	}, name)
	return strings.TrimSpace(name)
}
