package domain

// ProviderResult is the raw value returned by the external extraction
// provider. The provider has no contract: key names, nesting depth and value
// types vary across calls, so the tree is carried as decoded JSON
// (map[string]interface{}, []interface{} and scalars) and only interpreted by
// the normalizer.
type ProviderResult = interface{}

// NormalizedResult is the stable contract produced from a ProviderResult.
// Raw is always retained so callers can debug unmatched provider shapes.
type NormalizedResult struct {
	DownloadURL string         `json:"downloadUrl,omitempty"`
	Thumbnail   string         `json:"thumbnail,omitempty"`
	Raw         ProviderResult `json:"raw"`
}

// HasDownloadURL reports whether normalization located a playable URL.
func (r *NormalizedResult) HasDownloadURL() bool {
	return r.DownloadURL != ""
}
