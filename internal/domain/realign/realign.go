// Package realign re-anchors model-generated text segments into the
// original source string they describe.
//
// Language models asked to "repeat and segment" a text routinely
// paraphrase, reformat or drop pieces of it. Downstream consumers need
// exact substrings of the original (casing, punctuation, whitespace
// preserved), so each generated fragment is only used to decide where
// to cut the source, never trusted verbatim.
package realign

import "strings"

// Result carries the reconstruction and the fragments it was built from.
// Segments are verified substrings of the source in source order;
// Fragments are the trimmed candidate pieces of the generation.
type Result struct {
	Segments  []string
	Fragments []string
}

// Aligned reports whether the reconstruction matches the fragments
// element-wise. A false result is a data-quality signal for whoever is
// curating model output, not a failure: Segments is still usable.
func (r Result) Aligned() bool {
	if len(r.Segments) != len(r.Fragments) {
		return false
	}
	for i := range r.Segments {
		if r.Segments[i] != r.Fragments[i] {
			return false
		}
	}
	return true
}

// Split realigns a generation whose segments are delimited by separator.
// If startFlag is non-empty and occurs in the generation, only the text
// after its first occurrence is considered.
func Split(generation, source, separator, startFlag string) Result {
	answer := stripStartFlag(generation, startFlag)
	fragments := trimAll(strings.Split(answer, separator))
	return reconstruct(fragments, source)
}

// Markers realigns a generation whose segments are wrapped in left/right
// boundary markers: right markers are removed, then the text is split on
// the left marker.
func Markers(generation, source, left, right, startFlag string) Result {
	answer := stripStartFlag(generation, startFlag)
	answer = strings.ReplaceAll(answer, right, "")
	fragments := trimAll(strings.Split(answer, left))
	return reconstruct(fragments, source)
}

func stripStartFlag(generation, startFlag string) string {
	if startFlag == "" {
		return generation
	}
	if i := strings.Index(generation, startFlag); i >= 0 {
		return generation[i+len(startFlag):]
	}
	return generation
}

func trimAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.TrimSpace(s)
	}
	return out
}

// reconstruct walks the source with a cursor, cutting it at the end of
// each fragment's leftmost occurrence at or after the cursor. Fragments
// absent from the remaining source are dropped without moving the
// cursor; the last fragment is never searched, it is represented by the
// trailing remainder. Empty fragments are skipped so they can neither
// consume source text nor match at zero length.
func reconstruct(fragments []string, source string) Result {
	var segments []string
	remaining := source

	for _, frag := range fragments[:max(len(fragments)-1, 0)] {
		if frag == "" {
			continue
		}
		i := strings.Index(remaining, frag)
		if i < 0 {
			continue
		}
		end := i + len(frag)
		segments = append(segments, strings.TrimSpace(remaining[:end]))
		remaining = remaining[end:]
	}

	if strings.TrimSpace(remaining) != "" {
		segments = append(segments, strings.TrimSpace(remaining))
	}

	return Result{Segments: segments, Fragments: fragments}
}
