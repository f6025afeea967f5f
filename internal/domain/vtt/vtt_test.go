package vtt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sigkit/internal/types"
)

func sample() types.Transcript {
	return types.Transcript{Segments: []types.Segment{
		{Start: 0, End: 2.5, Text: "Hello there."},
		{Start: 2.5, End: 5, Text: "How are you?", Speaker: "SPEAKER_00"},
	}}
}

func TestRender(t *testing.T) {
	t.Parallel()

	got := Render(sample())
	if !strings.HasPrefix(got, "WEBVTT\n") {
		t.Fatalf("missing header:\n%s", got)
	}
	if !strings.Contains(got, "00:00:00.000 --> 00:00:02.500\nHello there.") {
		t.Fatalf("missing first cue:\n%s", got)
	}
	if !strings.Contains(got, "<v SPEAKER_00>How are you?") {
		t.Fatalf("missing voice tag:\n%s", got)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sub", "t.vtt")
	if err := Write(path, sample(), false); err != nil {
		t.Fatalf("write: %v", err)
	}

	tr, err := Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(tr.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(tr.Segments))
	}
	if tr.Segments[0].Text != "Hello there." {
		t.Fatalf("unexpected text %q", tr.Segments[0].Text)
	}
	if tr.Segments[1].Speaker != "SPEAKER_00" {
		t.Fatalf("expected speaker to survive round trip, got %q", tr.Segments[1].Speaker)
	}
	if tr.Segments[1].Start != 2.5 {
		t.Fatalf("unexpected start %v", tr.Segments[1].Start)
	}
}

func TestWrite_OverwriteGuard(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "t.vtt")
	if err := os.WriteFile(path, []byte("WEBVTT\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Write(path, sample(), false); err == nil {
		t.Fatalf("expected error without overwrite")
	}
	if err := Write(path, sample(), true); err != nil {
		t.Fatalf("write with overwrite: %v", err)
	}
}

func TestWrite_RejectsWrongExtension(t *testing.T) {
	t.Parallel()

	if err := Write(filepath.Join(t.TempDir(), "t.srt"), sample(), false); err == nil {
		t.Fatalf("expected extension error")
	}
}

func TestRead_SkipsCueIDsAndNotes(t *testing.T) {
	t.Parallel()

	raw := "WEBVTT\n\nNOTE generated\n\n1\n00:00.000 --> 00:01.000\nfirst line\nsecond line\n"
	path := filepath.Join(t.TempDir(), "t.vtt")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	tr, err := Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(tr.Segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(tr.Segments))
	}
	if tr.Segments[0].Text != "first line second line" {
		t.Fatalf("unexpected text %q", tr.Segments[0].Text)
	}
}

func TestTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00.000"},
		{2*time.Second + 500*time.Millisecond, "00:00:02.500"},
		{time.Hour + 23*time.Minute + 45*time.Second + 6*time.Millisecond, "01:23:45.006"},
		{-time.Second, "00:00:00.000"},
	}
	for _, tt := range tests {
		if got := Timestamp(tt.d); got != tt.want {
			t.Fatalf("Timestamp(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	got, err := ParseTimestamp("01:02:03.450")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Hour + 2*time.Minute + 3*time.Second + 450*time.Millisecond
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}

	if _, err := ParseTimestamp("nonsense"); err == nil {
		t.Fatalf("expected error")
	}
}
