package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/tik-relay-go/internal/app"
	"github.com/yourusername/tik-relay-go/internal/domain"
)

// LegacyHandler serves the pre-JSON-contract endpoint kept for old clients
type LegacyHandler struct {
	resolver *app.Resolver
	logger   *zap.Logger
}

// NewLegacyHandler creates a new legacy handler
func NewLegacyHandler(resolver *app.Resolver, logger *zap.Logger) *LegacyHandler {
	return &LegacyHandler{
		resolver: resolver,
		logger:   logger,
	}
}

// API handles GET /tiktok/api.php. It returns the provider's audio and video
// sub-objects as-is, unnormalized, matching what the old PHP endpoint did.
func (h *LegacyHandler) API(c *gin.Context) {
	link := c.Query("url")
	if link == "" {
		c.JSON(http.StatusBadRequest, errorBody(domain.ErrMissingInput.Error(), nil))
		return
	}

	raw, err := h.resolver.FetchRaw(c.Request.Context(), link)
	if err != nil {
		h.logger.Error("Legacy resolve failed", zap.String("link", link), zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorBody("internal error", err.Error()))
		return
	}

	var audio, video interface{}
	if m, ok := raw.(map[string]interface{}); ok {
		for _, key := range []string{"audio", "music", "music_info"} {
			if v, present := m[key]; present {
				audio = v
				break
			}
		}
		for _, key := range []string{"video", "play"} {
			if v, present := m[key]; present {
				video = v
				break
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"audio": audio,
		"video": video,
	})
}
