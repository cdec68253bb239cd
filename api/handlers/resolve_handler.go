package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/tik-relay-go/internal/app"
	"github.com/yourusername/tik-relay-go/internal/domain"
)

// ResolveHandler handles share-link resolution HTTP requests
type ResolveHandler struct {
	resolver *app.Resolver
	logger   *zap.Logger
}

// NewResolveHandler creates a new resolve handler
func NewResolveHandler(resolver *app.Resolver, logger *zap.Logger) *ResolveHandler {
	return &ResolveHandler{
		resolver: resolver,
		logger:   logger,
	}
}

// ResolveRequest represents a request to resolve a share link
type ResolveRequest struct {
	TikTokURL string `json:"tiktokUrl"`
	URL       string `json:"url"`
}

// Download handles GET /download
func (h *ResolveHandler) Download(c *gin.Context) {
	link := c.Query("url")
	if link == "" {
		link = c.Query("tiktokUrl")
	}
	h.resolve(c, link)
}

// APIDownload handles POST /api/download
func (h *ResolveHandler) APIDownload(c *gin.Context) {
	var req ResolveRequest
	// Body is optional; the link may also arrive as a query parameter.
	_ = c.ShouldBindJSON(&req)

	link := req.TikTokURL
	if link == "" {
		link = req.URL
	}
	if link == "" {
		link = c.Query("url")
	}
	h.resolve(c, link)
}

func (h *ResolveHandler) resolve(c *gin.Context, link string) {
	if link == "" {
		c.JSON(http.StatusBadRequest, errorBody(domain.ErrMissingInput.Error(), nil))
		return
	}

	result, err := h.resolver.Resolve(c.Request.Context(), link)
	if err != nil {
		if errors.Is(err, domain.ErrNoDownloadURL) {
			// Provider answered but nothing playable was found; hand the raw
			// payload back so a human can inspect the shape.
			c.JSON(http.StatusBadGateway, errorBody(err.Error(), result.Raw))
			return
		}
		h.logger.Error("Failed to resolve share link", zap.String("link", link), zap.Error(err))
		c.JSON(http.StatusBadGateway, errorBody("provider call failed", err.Error()))
		return
	}

	body := gin.H{
		"ok":          true,
		"downloadUrl": result.DownloadURL,
		"raw":         result.Raw,
	}
	if result.Thumbnail != "" {
		body["thumbnail"] = result.Thumbnail
	}
	c.JSON(http.StatusOK, body)
}
