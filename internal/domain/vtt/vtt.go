// Package vtt reads and writes WebVTT subtitle files.
package vtt

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"sigkit/internal/domain/paths"
	"sigkit/internal/types"
)

// Render serializes a transcript as WebVTT. Segments with a speaker are
// written with a voice tag so diarized transcripts survive a round trip.
func Render(tr types.Transcript) string {
	var b strings.Builder
	b.WriteString("WEBVTT\n")
	for _, s := range tr.Segments {
		b.WriteString("\n")
		b.WriteString(Timestamp(dur(s.Start)))
		b.WriteString(" --> ")
		b.WriteString(Timestamp(dur(s.End)))
		b.WriteString("\n")
		if s.Speaker != "" {
			fmt.Fprintf(&b, "<v %s>", s.Speaker)
		}
		b.WriteString(strings.TrimSpace(s.Text))
		b.WriteString("\n")
	}
	return b.String()
}

// Write renders the transcript to path. An existing file is an error
// unless overwrite is set.
func Write(path string, tr types.Transcript, overwrite bool) error {
	if err := paths.CheckSuffix(path, ".vtt"); err != nil {
		return err
	}
	if err := paths.EnsureWritable(path, overwrite); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(Render(tr)), 0o644)
}

// Read parses a WebVTT file back into a transcript. Cue identifiers and
// NOTE blocks are skipped; voice tags become the segment speaker.
func Read(path string) (types.Transcript, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.Transcript{}, err
	}
	defer f.Close()

	var tr types.Transcript
	sc := bufio.NewScanner(f)
	var cur *types.Segment
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "WEBVTT"), strings.HasPrefix(trimmed, "NOTE"):
			continue
		case strings.Contains(trimmed, "-->"):
			start, end, err := parseCueTiming(trimmed)
			if err != nil {
				return types.Transcript{}, err
			}
			tr.Segments = append(tr.Segments, types.Segment{
				Start: start.Seconds(),
				End:   end.Seconds(),
			})
			cur = &tr.Segments[len(tr.Segments)-1]
		case trimmed == "":
			cur = nil
		default:
			if cur == nil {
				// cue identifier line
				continue
			}
			text := trimmed
			if strings.HasPrefix(text, "<v ") {
				if i := strings.Index(text, ">"); i > 0 {
					cur.Speaker = text[3:i]
					text = text[i+1:]
				}
			}
			if cur.Text != "" {
				cur.Text += " "
			}
			cur.Text += strings.TrimSpace(text)
		}
	}
	if err := sc.Err(); err != nil {
		return types.Transcript{}, err
	}
	return tr, nil
}

// Timestamp formats a duration as a VTT timestamp, HH:MM:SS.mmm.
func Timestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d / time.Hour)
	d -= time.Duration(h) * time.Hour
	m := int(d / time.Minute)
	d -= time.Duration(m) * time.Minute
	s := int(d / time.Second)
	d -= time.Duration(s) * time.Second
	ms := int(d / time.Millisecond)
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

func parseCueTiming(line string) (time.Duration, time.Duration, error) {
	parts := strings.SplitN(line, "-->", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("vtt: bad cue timing %q", line)
	}
	start, err := ParseTimestamp(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}
	// Position/alignment settings may follow the end timestamp.
	endField := strings.Fields(strings.TrimSpace(parts[1]))
	if len(endField) == 0 {
		return 0, 0, fmt.Errorf("vtt: bad cue timing %q", line)
	}
	end, err := ParseTimestamp(endField[0])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// ParseTimestamp accepts HH:MM:SS.mmm and MM:SS.mmm timestamps.
func ParseTimestamp(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("vtt: bad timestamp %q", s)
	}
	var h int
	if len(parts) == 3 {
		v, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, fmt.Errorf("vtt: bad timestamp %q", s)
		}
		h = v
		parts = parts[1:]
	}
	m, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("vtt: bad timestamp %q", s)
	}
	sec, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, fmt.Errorf("vtt: bad timestamp %q", s)
	}
	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(sec*float64(time.Second)), nil
}

func dur(sec float64) time.Duration { return time.Duration(sec * float64(time.Second)) }
