package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/tik-relay-go/internal/domain"
	"github.com/yourusername/tik-relay-go/internal/infrastructure"
)

// StreamHandler proxies media bytes from an upstream host to the client
type StreamHandler struct {
	relay  *infrastructure.StreamRelay
	logger *zap.Logger
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(relay *infrastructure.StreamRelay, logger *zap.Logger) *StreamHandler {
	return &StreamHandler{
		relay:  relay,
		logger: logger,
	}
}

// Stream handles GET /stream
func (h *StreamHandler) Stream(c *gin.Context) {
	rawURL := c.Query("url")
	if rawURL == "" {
		rawURL = c.Query("source")
	}
	if rawURL == "" {
		c.JSON(http.StatusBadRequest, errorBody(domain.ErrMissingInput.Error(), nil))
		return
	}

	stream, err := h.relay.Open(c.Request.Context(), rawURL)
	if err != nil {
		var upstreamErr *domain.UpstreamError
		switch {
		case errors.Is(err, domain.ErrInvalidStreamURL):
			c.JSON(http.StatusBadRequest, errorBody(err.Error(), nil))
		case errors.As(err, &upstreamErr):
			h.logger.Warn("Upstream fetch failed",
				zap.String("url", rawURL),
				zap.Int("upstream_status", upstreamErr.StatusCode))
			c.JSON(http.StatusBadGateway, errorBody("upstream fetch failed", upstreamErr.Error()))
		default:
			h.logger.Error("Unexpected proxy error", zap.String("url", rawURL), zap.Error(err))
			c.JSON(http.StatusInternalServerError, errorBody("proxy error", err.Error()))
		}
		return
	}
	defer stream.Body.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", stream.Filename))

	// Pass-through copy; gin streams from the reader without buffering and
	// forwards Content-Length when the upstream supplied one.
	c.DataFromReader(http.StatusOK, stream.ContentLength, stream.ContentType, stream.Body, nil)
}
