// Package rttm reads and writes Rich Transcription Time Marked segment
// files, the interchange format produced by diarization.
//
// Each line is ten space-separated fields:
//
//	SPEAKER <file-stem> <channel> <start> <duration> <NA> <NA> <speaker> <NA> <NA>
package rttm

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

const na = "<NA>"

// Record is one RTTM line.
type Record struct {
	Type     string
	FileStem string
	Channel  int
	Start    float64
	Duration float64
	Speaker  string
}

// End is the derived segment end, start + duration.
func (r Record) End() float64 { return r.Start + r.Duration }

// FromTurns converts diarized speaker turns into RTTM records.
func FromTurns(fileStem string, turns []types.SpeakerTurn) []Record {
	out := make([]Record, 0, len(turns))
	for _, t := range turns {
		out = append(out, Record{
			Type:     "SPEAKER",
			FileStem: fileStem,
			Channel:  1,
			Start:    t.Start.Seconds(),
			Duration: (t.End - t.Start).Seconds(),
			Speaker:  t.Speaker,
		})
	}
	return out
}

// Turns converts records back into speaker turns.
func Turns(records []Record) []types.SpeakerTurn {
	out := make([]types.SpeakerTurn, 0, len(records))
	for _, r := range records {
		out = append(out, types.SpeakerTurn{
			Start:   time.Duration(r.Start * float64(time.Second)),
			End:     time.Duration(r.End() * float64(time.Second)),
			Speaker: r.Speaker,
		})
	}
	return out
}

// Write serializes records to path with 3-decimal timing fields.
func Write(path string, records []Record, overwrite bool) error {
	if err := paths.CheckSuffix(path, ".rttm"); err != nil {
		return err
	}
	if err := paths.EnsureWritable(path, overwrite); err != nil {
		return err
	}

	var b strings.Builder
	for _, r := range records {
		fmt.Fprintf(&b, "%s %s %d %.3f %.3f %s %s %s %s %s\n",
			r.Type, r.FileStem, r.Channel, r.Start, r.Duration,
			na, na, r.Speaker, na, na)
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// Read parses an RTTM file. Blank lines are skipped; short lines are an
// error.
func Read(path string) ([]Record, error) {
	if err := paths.CheckSuffix(path, ".rttm"); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []Record
	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 8 {
			return nil, fmt.Errorf("rttm: %s:%d: expected 10 fields, got %d", path, lineNo, len(fields))
		}
		channel, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("rttm: %s:%d: bad channel: %w", path, lineNo, err)
		}
		start, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("rttm: %s:%d: bad start: %w", path, lineNo, err)
		}
		duration, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			return nil, fmt.Errorf("rttm: %s:%d: bad duration: %w", path, lineNo, err)
		}
		out = append(out, Record{
			Type:     fields[0],
			FileStem: fields[1],
			Channel:  channel,
			Start:    start,
			Duration: duration,
			Speaker:  fields[7],
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
