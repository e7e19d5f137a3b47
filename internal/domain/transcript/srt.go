// Package transcript parses and serializes the SRT-style timed-text format
// exchanged with the transcription engine.
package transcript

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/openshorts/openshorts/internal/types"
)

// Mode selects how malformed transcript blocks are handled.
type Mode string

const (
	// Lenient drops blocks with fewer than three lines or an unparseable
	// time line. This mirrors what real ASR output needs in practice and
	// is the default.
	Lenient Mode = "lenient"
	// Strict surfaces the first malformed block as a MalformedBlockError.
	Strict Mode = "strict"
)

// MalformedBlockError reports a transcript block that could not be parsed
// in Strict mode. Block is the 1-based index of the block in the input.
type MalformedBlockError struct {
	Block  int
	Reason string
}

func (e *MalformedBlockError) Error() string {
	return fmt.Sprintf("transcript block %d: %s", e.Block, e.Reason)
}

var reTimeLine = regexp.MustCompile(`(\d+):(\d+):(\d+),(\d+)\s+-->\s+(\d+):(\d+):(\d+),(\d+)`)

// Parse reads blank-line-separated SRT blocks (sequence number, time line,
// one or more text lines) into ordered entries.
func Parse(text string, mode Mode) ([]types.Entry, error) {
	var entries []types.Entry
	blockIdx := 0

	var block []string
	flush := func() error {
		if len(block) == 0 {
			return nil
		}
		blockIdx++
		e, reason := parseBlock(block)
		block = block[:0]
		if reason != "" {
			if mode == Strict {
				return &MalformedBlockError{Block: blockIdx, Reason: reason}
			}
			return nil
		}
		entries = append(entries, e)
		return nil
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		block = append(block, line)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return entries, nil
}

// parseBlock returns a non-empty reason when the block is malformed.
func parseBlock(block []string) (types.Entry, string) {
	if len(block) < 3 {
		return types.Entry{}, fmt.Sprintf("want at least 3 lines, got %d", len(block))
	}
	m := reTimeLine.FindStringSubmatch(block[1])
	if m == nil {
		return types.Entry{}, fmt.Sprintf("time line %q does not match HH:MM:SS,mmm --> HH:MM:SS,mmm", block[1])
	}
	start := timeFromParts(m[1], m[2], m[3], m[4])
	end := timeFromParts(m[5], m[6], m[7], m[8])
	text := strings.TrimSpace(strings.Join(block[2:], " "))
	return types.Entry{Start: start, End: end, Text: text}, ""
}

// ParseTimestamp converts "HH:MM:SS,mmm" to seconds. The whole-second part
// is accumulated in integer arithmetic with a single final division for the
// millisecond fraction, so there is no per-component rounding drift.
func ParseTimestamp(ts string) (float64, error) {
	m := regexp.MustCompile(`^(\d+):(\d+):(\d+),(\d+)$`).FindStringSubmatch(ts)
	if m == nil {
		return 0, fmt.Errorf("bad timestamp %q", ts)
	}
	return timeFromParts(m[1], m[2], m[3], m[4]), nil
}

func timeFromParts(h, mn, s, ms string) float64 {
	hi, _ := strconv.Atoi(h)
	mi, _ := strconv.Atoi(mn)
	si, _ := strconv.Atoi(s)
	msi, _ := strconv.Atoi(ms)
	return float64(hi*3600+mi*60+si) + float64(msi)/1000.0
}

// FormatTimestamp renders seconds as "HH:MM:SS,mmm", rounding to the
// nearest millisecond.
func FormatTimestamp(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	totalMS := int64(sec*1000 + 0.5)
	h := totalMS / 3600000
	m := totalMS % 3600000 / 60000
	s := totalMS % 60000 / 1000
	ms := totalMS % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// Format serializes entries back into the SRT block format. Parsing the
// result yields the same entries (times within 1ms).
func Format(entries []types.Entry) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n", i+1, FormatTimestamp(e.Start), FormatTimestamp(e.End), e.Text)
	}
	return b.String()
}
