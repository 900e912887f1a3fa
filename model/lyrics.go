package model

// LyricsResult is the outcome of a lyrics lookup. A miss or transport
// failure is a valid result, not an error: Found is false and Error
// carries a human-readable reason.
type LyricsResult struct {
	Found  bool   `json:"found"`
	Plain  string `json:"plain,omitempty"`
	Synced string `json:"synced,omitempty"` // LRC line-timestamp format
	Error  string `json:"error,omitempty"`
}
