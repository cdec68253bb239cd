package infrastructure

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yourusername/tik-relay-go/internal/domain"
)

func testRelay() *StreamRelay {
	return NewStreamRelay(&domain.RelayConfig{
		Timeout:          5 * time.Second,
		MaxRedirects:     10,
		UserAgent:        "test-agent",
		FallbackFilename: "video.mp4",
	}, zap.NewNop())
}

func TestOpen_RejectsNonHTTPScheme(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	relay := testRelay()

	for _, raw := range []string{
		"ftp://example.com/x",
		"file:///etc/passwd",
		"not a url at all",
		"/relative/path",
		"",
	} {
		_, err := relay.Open(context.Background(), raw)
		assert.ErrorIs(t, err, domain.ErrInvalidStreamURL, "url: %q", raw)
	}

	// Validation failures never reach the network.
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestOpen_ForwardsStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "video/mp4")
		w.Header().Set("Content-Length", "9")
		w.Write([]byte("mp4-bytes"))
	}))
	defer server.Close()

	relay := testRelay()
	stream, err := relay.Open(context.Background(), server.URL+"/v/123/video.mp4")
	require.NoError(t, err)
	defer stream.Body.Close()

	assert.Equal(t, "video/mp4", stream.ContentType)
	assert.Equal(t, int64(9), stream.ContentLength)
	assert.Equal(t, "video.mp4", stream.Filename)

	body, err := io.ReadAll(stream.Body)
	require.NoError(t, err)
	assert.Equal(t, "mp4-bytes", string(body))
}

func TestOpen_FilenameFromDisposition(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="clip.mp4"`)
		w.Write([]byte("x"))
	}))
	defer server.Close()

	relay := testRelay()
	stream, err := relay.Open(context.Background(), server.URL+"/anything")
	require.NoError(t, err)
	defer stream.Body.Close()

	assert.Equal(t, "clip.mp4", stream.Filename)
}

func TestOpen_FilenameFromExtendedDisposition(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename*=UTF-8''cl%C3%ADp%20final.mp4`)
		w.Write([]byte("x"))
	}))
	defer server.Close()

	relay := testRelay()
	stream, err := relay.Open(context.Background(), server.URL+"/anything")
	require.NoError(t, err)
	defer stream.Body.Close()

	assert.Equal(t, "clíp final.mp4", stream.Filename)
}

func TestOpen_FilenameFallsBackToPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("x"))
	}))
	defer server.Close()

	relay := testRelay()
	stream, err := relay.Open(context.Background(), server.URL+"/v/123/video.mp4")
	require.NoError(t, err)
	defer stream.Body.Close()

	assert.Equal(t, "video.mp4", stream.Filename)
}

func TestOpen_FilenameFallbackName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("x"))
	}))
	defer server.Close()

	relay := testRelay()

	// No disposition and no dot in the last path segment.
	stream, err := relay.Open(context.Background(), server.URL+"/v/123/stream")
	require.NoError(t, err)
	defer stream.Body.Close()
	assert.Equal(t, "video.mp4", stream.Filename)

	// Bare host, empty path.
	stream2, err := relay.Open(context.Background(), server.URL)
	require.NoError(t, err)
	defer stream2.Body.Close()
	assert.Equal(t, "video.mp4", stream2.Filename)
}

func TestOpen_UpstreamNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such clip", http.StatusNotFound)
	}))
	defer server.Close()

	relay := testRelay()
	_, err := relay.Open(context.Background(), server.URL+"/gone.mp4")
	require.Error(t, err)

	var upstreamErr *domain.UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, http.StatusNotFound, upstreamErr.StatusCode)
	assert.Contains(t, upstreamErr.Snippet, "no such clip")
}

func TestOpen_UpstreamUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // immediately, so the address refuses connections

	relay := testRelay()
	_, err := relay.Open(context.Background(), server.URL+"/x.mp4")
	require.Error(t, err)

	var upstreamErr *domain.UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Zero(t, upstreamErr.StatusCode)
}

func TestOpen_DefaultContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header()["Content-Type"] = nil // suppress sniffing default
		w.Write([]byte("x"))
	}))
	defer server.Close()

	relay := testRelay()
	stream, err := relay.Open(context.Background(), server.URL+"/x.bin")
	require.NoError(t, err)
	defer stream.Body.Close()

	assert.Equal(t, "application/octet-stream", stream.ContentType)
}

func TestOpen_FollowsRedirects(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("redirected"))
	}))
	defer target.Close()

	hop := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL+"/final.mp4", http.StatusFound)
	}))
	defer hop.Close()

	relay := testRelay()
	stream, err := relay.Open(context.Background(), hop.URL+"/start")
	require.NoError(t, err)
	defer stream.Body.Close()

	body, err := io.ReadAll(stream.Body)
	require.NoError(t, err)
	assert.Equal(t, "redirected", string(body))
	assert.Equal(t, "final.mp4", stream.Filename)
}
