package realign

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplit_SeparatedFragments(t *testing.T) {
	t.Parallel()

	res := Split("Hello there.|||How are you?", "Hello there. How are you?", "|||", "")
	want := []string{"Hello there.", "How are you?"}
	if diff := cmp.Diff(want, res.Segments); diff != "" {
		t.Fatalf("segments mismatch (-want +got):\n%s", diff)
	}
	if !res.Aligned() {
		t.Fatalf("expected aligned result, fragments=%q segments=%q", res.Fragments, res.Segments)
	}
}

func TestSplit_StartFlagCutsPreamble(t *testing.T) {
	t.Parallel()

	res := Split("Let me think about it. START: A|B|C", "A B C", "|", "START:")
	if diff := cmp.Diff([]string{"A", "B", "C"}, res.Fragments); diff != "" {
		t.Fatalf("fragments mismatch (-want +got):\n%s", diff)
	}
	if got := strings.Join(res.Segments, " "); got != "A B C" {
		t.Fatalf("expected segments to cover source, got %q", got)
	}
	if !res.Aligned() {
		t.Fatalf("expected aligned result, got segments=%q", res.Segments)
	}
}

func TestSplit_StartFlagUsesFirstOccurrence(t *testing.T) {
	t.Parallel()

	res := Split("ANSWER: one ANSWER: two", "one ANSWER: two", "|", "ANSWER:")
	if len(res.Segments) != 1 || res.Segments[0] != "one ANSWER: two" {
		t.Fatalf("expected text after the first flag to survive, got %q", res.Segments)
	}
}

func TestSplit_SingleFragmentYieldsWholeSource(t *testing.T) {
	t.Parallel()

	res := Split("whatever the model said", "  The original text.  ", "|||", "")
	if len(res.Segments) != 1 || res.Segments[0] != "The original text." {
		t.Fatalf("expected one trailing segment equal to trimmed source, got %q", res.Segments)
	}
}

func TestSplit_AbsentFragmentDroppedWithoutAdvancing(t *testing.T) {
	t.Parallel()

	res := Split("Z|A B|rest", "A B C D", "|", "")
	want := []string{"A B", "C D"}
	if diff := cmp.Diff(want, res.Segments); diff != "" {
		t.Fatalf("segments mismatch (-want +got):\n%s", diff)
	}
	if res.Aligned() {
		t.Fatalf("expected misalignment to be reported for dropped fragment")
	}
}

func TestSplit_GreedyLeftmostMatch(t *testing.T) {
	t.Parallel()

	// "the" occurs twice; the first occurrence at or after the cursor wins.
	res := Split("the|end", "the cat and the end", "|", "")
	want := []string{"the", "cat and the end"}
	if diff := cmp.Diff(want, res.Segments); diff != "" {
		t.Fatalf("segments mismatch (-want +got):\n%s", diff)
	}
}

func TestSplit_EmptyFragmentsSkipped(t *testing.T) {
	t.Parallel()

	res := Split("A||B||C", "A B C", "|", "")
	if got := strings.Join(res.Segments, " "); got != "A B C" {
		t.Fatalf("expected empty fragments to consume nothing, got %q", res.Segments)
	}
}

func TestSplit_EmptySourceRemainder(t *testing.T) {
	t.Parallel()

	res := Split("A B C|", "A B C", "|", "")
	want := []string{"A B C"}
	if diff := cmp.Diff(want, res.Segments); diff != "" {
		t.Fatalf("expected no trailing segment for whitespace remainder (-want +got):\n%s", diff)
	}
}

func TestSplit_Idempotent(t *testing.T) {
	t.Parallel()

	gen := "Hello there.|||How are you?|||Fine."
	src := "Hello there. How are you? Fine."
	first := Split(gen, src, "|||", "")
	second := Split(gen, src, "|||", "")
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("expected identical results on re-run (-first +second):\n%s", diff)
	}
}

func TestSplit_CoversSourceWhenFragmentsVerbatim(t *testing.T) {
	t.Parallel()

	src := "One sentence here. A second one follows! And a third?"
	gen := "One sentence here.## A second one follows!## And a third?"
	res := Split(gen, src, "##", "")

	norm := func(s string) string { return strings.Join(strings.Fields(s), " ") }
	if norm(strings.Join(res.Segments, " ")) != norm(src) {
		t.Fatalf("concatenated segments do not cover source: %q", res.Segments)
	}
}

func TestMarkers_RemovesRightMarker(t *testing.T) {
	t.Parallel()

	res := Markers("<t>Hello there.</t><t>How are you?</t>", "Hello there. How are you?", "<t>", "</t>", "")
	want := []string{"Hello there.", "How are you?"}
	if diff := cmp.Diff(want, res.Segments); diff != "" {
		t.Fatalf("segments mismatch (-want +got):\n%s", diff)
	}
}

func TestMarkers_EmptyFragmentsSkipped(t *testing.T) {
	t.Parallel()

	// Splitting on the left marker leaves a leading empty fragment; it must
	// not produce a zero-length match that cuts the source at the cursor.
	res := Markers("<t>A</t><t></t><t>B</t>", "A B", "<t>", "</t>", "")
	if got := strings.Join(res.Segments, " "); got != "A B" {
		t.Fatalf("unexpected segments %q", res.Segments)
	}
}

func TestAligned(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		res  Result
		want bool
	}{
		{"equal", Result{Segments: []string{"a", "b"}, Fragments: []string{"a", "b"}}, true},
		{"length", Result{Segments: []string{"a"}, Fragments: []string{"a", "b"}}, false},
		{"content", Result{Segments: []string{"a", "x"}, Fragments: []string{"a", "b"}}, false},
		{"empty", Result{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.res.Aligned(); got != tt.want {
				t.Fatalf("Aligned() = %v, want %v", got, tt.want)
			}
		})
	}
}
