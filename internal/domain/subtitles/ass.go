// Package subtitles builds the styled ASS track burned into rendered clips.
package subtitles

import (
	"fmt"
	"strings"

	"github.com/openshorts/openshorts/internal/types"
)

// BuildTrack renders one ASS document spanning the full source timeline.
// Dialogue timestamps are absolute source offsets, so the same track can be
// burned into every clip while each render job trims the video: the burn
// filter picks the lines that fall inside the trimmed range.
func BuildTrack(entries []types.Entry, styles StyleTable, styleName string) string {
	s := styles.Resolve(styleName)

	var b strings.Builder
	b.WriteString("[Script Info]\n")
	b.WriteString("ScriptType: v4.00+\n")
	b.WriteString("PlayResX: 1080\n")
	b.WriteString("PlayResY: 1920\n")
	b.WriteString("\n")

	b.WriteString("[V4+ Styles]\n")
	b.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, " +
		"Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, " +
		"Alignment, MarginL, MarginR, MarginV, Encoding\n")
	fmt.Fprintf(&b, "Style: Default,%s,%d,%s,%s,%s,%s,%d,%d,0,0,100,100,0,0,%d,%d,%d,%d,%d,%d,%d,%d\n",
		s.Font, s.Size, s.PrimaryColour, s.SecondaryColour, s.OutlineColour, s.BackColour,
		s.Bold, s.Italic, s.BorderStyle, s.Outline, s.Shadow,
		s.Alignment, s.MarginL, s.MarginR, s.MarginV, s.Encoding)
	b.WriteString("\n")

	b.WriteString("[Events]\n")
	b.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n",
			FormatTime(e.Start), FormatTime(e.End), sanitize(e.Text))
	}
	return b.String()
}

// FormatTime renders seconds as "H:MM:SS.cc". Centiseconds are truncated,
// not rounded: 125.456 -> "0:02:05.45".
func FormatTime(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	whole := int(sec)
	h := whole / 3600
	m := whole % 3600 / 60
	s := whole % 60
	cs := int((sec - float64(whole)) * 100)
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, cs)
}

// sanitize escapes the ASS control delimiters and collapses embedded line
// breaks so every entry stays a single dialogue event.
func sanitize(text string) string {
	text = strings.ReplaceAll(text, "{", `\{`)
	text = strings.ReplaceAll(text, "}", `\}`)
	text = strings.ReplaceAll(text, "\r\n", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.ReplaceAll(text, "\r", " ")
	return text
}
