package types

// Entry is one timed transcript line as produced by the parser or an ASR
// engine. Times are absolute source offsets in seconds.
type Entry struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// ScoredEntry is an Entry plus its highlight score. Scoring produces a new
// slice of these instead of mutating entries in place, so the same parsed
// entries can be shared with the subtitle builder.
type ScoredEntry struct {
	Entry
	Score float64 `json:"score"`
}

// ClipWindow is a contiguous source time range selected for extraction.
type ClipWindow struct {
	Start float64
	End   float64
	Score float64
}

// Duration returns the window length in seconds.
func (w ClipWindow) Duration() float64 { return w.End - w.Start }

// RenderJob describes one encoder invocation. The field set is the
// compatibility contract with the encoder adapter: trim offsets, the full
// video filter chain (scale, crop, subtitle burn-in) and output settings.
type RenderJob struct {
	Input        string
	TrimStart    float64
	TrimDuration float64
	Filter       string
	FrameRate    int
	PixelFormat  string
	VideoCodec   string
	Preset       string
	CRF          int
	AudioCodec   string
	AudioBitrate string
	Output       string
}

// ManifestEntry describes one produced clip file. Start, End and Score are
// rounded to 3 decimal places; the manifest order matches the selected
// windows.
type ManifestEntry struct {
	File   string  `json:"file"`
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
	Score  float64 `json:"score"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
}
