package app

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDownloadURL_BareString(t *testing.T) {
	url, ok := ExtractDownloadURL("https://cdn.example/x.mp4")
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example/x.mp4", url)
}

func TestExtractDownloadURL_NonURLString(t *testing.T) {
	_, ok := ExtractDownloadURL("not a url")
	assert.False(t, ok)

	_, ok = ExtractDownloadURL("ftp://example.com/file")
	assert.False(t, ok)
}

func TestExtractDownloadURL_KeyOrderIsTieBreak(t *testing.T) {
	value := map[string]interface{}{
		"url":      "http://a.example/a.mp4",
		"download": "http://b.example/b.mp4",
	}

	// "download" precedes "url" in the candidate list, deterministically.
	for i := 0; i < 20; i++ {
		url, ok := ExtractDownloadURL(value)
		require.True(t, ok)
		assert.Equal(t, "http://b.example/b.mp4", url)
	}
}

func TestExtractDownloadURL_DownloadUrlWinsOverAll(t *testing.T) {
	value := map[string]interface{}{
		"source":      "http://z.example/z.mp4",
		"downloadUrl": "http://a.example/a.mp4",
		"url":         "http://b.example/b.mp4",
	}

	url, ok := ExtractDownloadURL(value)
	require.True(t, ok)
	assert.Equal(t, "http://a.example/a.mp4", url)
}

func TestExtractDownloadURL_NestedUnderCandidateKey(t *testing.T) {
	value := map[string]interface{}{
		"video": map[string]interface{}{
			"noWatermark": "https://cdn.example/clean.mp4",
		},
	}

	url, ok := ExtractDownloadURL(value)
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example/clean.mp4", url)
}

func TestExtractDownloadURL_ListUnderCandidateKey(t *testing.T) {
	value := map[string]interface{}{
		"play_url": []interface{}{
			42,
			"not a url",
			"https://cdn.example/first.mp4",
			"https://cdn.example/second.mp4",
		},
	}

	url, ok := ExtractDownloadURL(value)
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example/first.mp4", url)
}

func TestExtractDownloadURL_ListOfObjects(t *testing.T) {
	value := map[string]interface{}{
		"video": []interface{}{
			map[string]interface{}{"bitrate": 1000.0},
			map[string]interface{}{"playAddr": "https://cdn.example/hd.mp4"},
		},
	}

	url, ok := ExtractDownloadURL(value)
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example/hd.mp4", url)
}

func TestExtractDownloadURL_GenericFallbackScan(t *testing.T) {
	value := map[string]interface{}{
		"totally_unknown_key": map[string]interface{}{
			"another_unknown": map[string]interface{}{
				"playAddr": "https://cdn.example/found.mp4",
			},
		},
	}

	url, ok := ExtractDownloadURL(value)
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example/found.mp4", url)
}

func TestExtractDownloadURL_DepthBound(t *testing.T) {
	// URL sits inside the fourth nested map: reachable.
	inBound := map[string]interface{}{"a": map[string]interface{}{"b": map[string]interface{}{"c": map[string]interface{}{"d": map[string]interface{}{
		"url": "https://cdn.example/deep.mp4",
	}}}}}
	url, ok := ExtractDownloadURL(inBound)
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example/deep.mp4", url)

	// One wrapper more pushes the holder past the bound.
	outOfBound := map[string]interface{}{"x": inBound}
	_, ok = ExtractDownloadURL(outOfBound)
	assert.False(t, ok)
}

func TestExtractDownloadURL_MalformedCandidatesSkipped(t *testing.T) {
	value := map[string]interface{}{
		"downloadUrl": 12345.0,
		"download":    nil,
		"url":         true,
		"playAddr":    "https://cdn.example/ok.mp4",
	}

	url, ok := ExtractDownloadURL(value)
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example/ok.mp4", url)
}

func TestExtractDownloadURL_NoMatchIsNotAnError(t *testing.T) {
	_, ok := ExtractDownloadURL(map[string]interface{}{"title": "a clip", "likes": 3.0})
	assert.False(t, ok)

	_, ok = ExtractDownloadURL(nil)
	assert.False(t, ok)

	_, ok = ExtractDownloadURL(42.0)
	assert.False(t, ok)

	_, ok = ExtractDownloadURL([]interface{}{1.0, false, "nope"})
	assert.False(t, ok)
}

func TestExtractDownloadURL_DecodedJSON(t *testing.T) {
	// Round-trip through encoding/json, matching what the provider client
	// actually hands over.
	payload := `{"data":{"video":{"no_watermark":"https://cdn.example/nw.mp4"}}}`
	var value interface{}
	require.NoError(t, json.Unmarshal([]byte(payload), &value))

	url, ok := ExtractDownloadURL(value)
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example/nw.mp4", url)
}

func TestExtractThumbnail(t *testing.T) {
	assert.Equal(t, "https://cdn.example/t.jpg", ExtractThumbnail(map[string]interface{}{
		"thumbnail": "https://cdn.example/t.jpg",
	}))

	assert.Equal(t, "https://cdn.example/c.jpg", ExtractThumbnail(map[string]interface{}{
		"video": map[string]interface{}{"cover": "https://cdn.example/c.jpg"},
	}))

	assert.Equal(t, "https://cdn.example/d.jpg", ExtractThumbnail(map[string]interface{}{
		"data": map[string]interface{}{"thumb": "https://cdn.example/d.jpg"},
	}))

	// Root-level key beats sub-object keys.
	assert.Equal(t, "https://cdn.example/root.jpg", ExtractThumbnail(map[string]interface{}{
		"cover": "https://cdn.example/root.jpg",
		"video": map[string]interface{}{"cover": "https://cdn.example/sub.jpg"},
	}))

	assert.Empty(t, ExtractThumbnail(map[string]interface{}{"title": "no art"}))
	assert.Empty(t, ExtractThumbnail("https://cdn.example/x.mp4"))
	assert.Empty(t, ExtractThumbnail(nil))
}

func TestNormalize(t *testing.T) {
	raw := map[string]interface{}{
		"video": map[string]interface{}{
			"noWatermark": "https://cdn.example/x.mp4",
			"cover":       "https://cdn.example/x.jpg",
		},
	}

	result := Normalize(raw)
	assert.True(t, result.HasDownloadURL())
	assert.Equal(t, "https://cdn.example/x.mp4", result.DownloadURL)
	assert.Equal(t, "https://cdn.example/x.jpg", result.Thumbnail)
	assert.Equal(t, raw, result.Raw)
}

func TestNormalize_Miss(t *testing.T) {
	raw := map[string]interface{}{"status": "gone"}

	result := Normalize(raw)
	assert.False(t, result.HasDownloadURL())
	assert.Empty(t, result.Thumbnail)
	assert.Equal(t, raw, result.Raw)
}
