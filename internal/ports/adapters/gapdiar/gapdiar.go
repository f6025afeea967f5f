// Package gapdiar is a fallback diarizer that alternates between two
// speakers whenever the silence between transcript segments exceeds a
// threshold. It needs no model and no runner, which makes it useful for
// smoke-testing pipelines before a pyannote runner is installed.
package gapdiar

import (
	"context"
	"fmt"
	"time"

	"sigkit/internal/types"
)

const DefaultGap = 1500 * time.Millisecond

type Adapter struct {
	transcript types.Transcript
	gap        time.Duration
}

// New builds a diarizer over an existing transcript. gap <= 0 selects
// DefaultGap.
func New(tr types.Transcript, gap time.Duration) *Adapter {
	if gap <= 0 {
		gap = DefaultGap
	}
	return &Adapter{transcript: tr, gap: gap}
}

// Diarize assigns alternating speakers to the transcript's segments.
// The audio path is unused; timing comes from the transcript itself.
func (a *Adapter) Diarize(_ context.Context, _ string) ([]types.SpeakerTurn, error) {
	segs := a.transcript.Segments
	if len(segs) == 0 {
		return nil, nil
	}

	speaker := 0
	out := make([]types.SpeakerTurn, 0, len(segs))
	for i, s := range segs {
		if i > 0 {
			gap := dur(s.Start) - dur(segs[i-1].End)
			if gap > a.gap {
				speaker = 1 - speaker
			}
		}
		out = append(out, types.SpeakerTurn{
			Start:   dur(s.Start),
			End:     dur(s.End),
			Speaker: speakerName(speaker),
		})
	}
	return out, nil
}

func speakerName(i int) string { return fmt.Sprintf("SPEAKER_%02d", i) }

func dur(sec float64) time.Duration { return time.Duration(sec * float64(time.Second)) }
