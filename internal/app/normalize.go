package app

import (
	"regexp"

	"github.com/yourusername/tik-relay-go/internal/domain"
)

// maxScanDepth bounds the recursive search. Provider payloads are shallow in
// practice; the bound keeps pathological or self-referential-looking inputs
// from costing more than a constant amount of work.
const maxScanDepth = 4

// candidateKeys is the canonical, ordered list of key names that may hold a
// direct media URL. The order is a total tie-break: when several keys are
// present, the earliest one in this list wins, deterministically.
var candidateKeys = []string{
	"downloadUrl",
	"download",
	"url",
	"playAddr",
	"play_url",
	"videoUrl",
	"video",
	"video_url",
	"noWatermark",
	"no_watermark",
	"no_watermark_url",
	"watermarkless",
	"no_wm",
	"wmfree",
	"src",
	"source",
}

var absoluteURLPattern = regexp.MustCompile(`^https?://\S+$`)

// isURLString reports whether v is a string holding an absolute http(s) URL.
func isURLString(v interface{}) (string, bool) {
	s, ok := v.(string)
	if !ok || !absoluteURLPattern.MatchString(s) {
		return "", false
	}
	return s, true
}

// ExtractDownloadURL searches a provider result for a direct media URL.
// The provider response has no schema, so this is a best-effort walk:
// candidate keys in priority order first, then lists left-to-right, then a
// generic scan over all keys, bounded by maxScanDepth. The second return is
// false when nothing was found; that is a normal outcome, never an error.
func ExtractDownloadURL(value domain.ProviderResult) (string, bool) {
	return deepFindURL(value, 0)
}

func deepFindURL(value interface{}, depth int) (string, bool) {
	if depth > maxScanDepth {
		return "", false
	}

	if s, ok := isURLString(value); ok {
		return s, true
	}

	switch v := value.(type) {
	case map[string]interface{}:
		// Priority pass over the known key names.
		for _, key := range candidateKeys {
			child, present := v[key]
			if !present {
				continue
			}
			if s, ok := isURLString(child); ok {
				return s, true
			}
			switch c := child.(type) {
			case []interface{}:
				if s, ok := scanList(c, depth); ok {
					return s, true
				}
			case map[string]interface{}:
				if s, ok := deepFindURL(c, depth+1); ok {
					return s, true
				}
			}
		}
		// Generic fallback: recurse into every value. Map iteration order is
		// not deterministic, but by this point no candidate key matched, so
		// order carries no preference anyway.
		for _, child := range v {
			if s, ok := deepFindURL(child, depth+1); ok {
				return s, true
			}
		}
	case []interface{}:
		for _, elem := range v {
			if s, ok := deepFindURL(elem, depth+1); ok {
				return s, true
			}
		}
	}

	return "", false
}

// scanList handles a list found under a candidate key: the first element that
// is itself a URL string wins, otherwise object elements are searched
// left-to-right.
func scanList(list []interface{}, depth int) (string, bool) {
	for _, elem := range list {
		if s, ok := isURLString(elem); ok {
			return s, true
		}
		if m, ok := elem.(map[string]interface{}); ok {
			if s, ok := deepFindURL(m, depth+1); ok {
				return s, true
			}
		}
	}
	return "", false
}

// thumbnailKeys are checked in order at each container level.
var thumbnailKeys = []string{"thumbnail", "cover", "thumb"}

// ExtractThumbnail performs a shallow best-effort lookup for a preview image
// URL: the result itself, then its "video" and "data" sub-objects. Absent is
// a valid outcome.
func ExtractThumbnail(value domain.ProviderResult) string {
	root, ok := value.(map[string]interface{})
	if !ok {
		return ""
	}

	containers := []map[string]interface{}{root}
	for _, name := range []string{"video", "data"} {
		if sub, ok := root[name].(map[string]interface{}); ok {
			containers = append(containers, sub)
		}
	}

	for _, container := range containers {
		for _, key := range thumbnailKeys {
			if s, ok := isURLString(container[key]); ok {
				return s
			}
		}
	}
	return ""
}

// Normalize converts a raw provider result into the stable response contract.
// Raw is always carried through for diagnostics.
func Normalize(raw domain.ProviderResult) *domain.NormalizedResult {
	result := &domain.NormalizedResult{Raw: raw}
	if url, ok := ExtractDownloadURL(raw); ok {
		result.DownloadURL = url
	}
	result.Thumbnail = ExtractThumbnail(raw)
	return result
}
