package types

import "time"

// Transcript mirrors the whisper.cpp JSON output shape.
type Transcript struct {
	Segments []Segment `json:"segments"`
}

type Segment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Speaker string  `json:"speaker,omitempty"`
	Words   []Word  `json:"words,omitempty"`
}

type Word struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Word  string  `json:"word"`
}

// SpeakerTurn is one diarized span of speech.
type SpeakerTurn struct {
	Start   time.Duration
	End     time.Duration
	Speaker string
}

// Message is a single chat message sent to an LLM provider.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// FrameRecord holds the features extracted for one video frame.
type FrameRecord struct {
	Index    int                  `json:"index"`
	Features map[string][]float64 `json:"features"`
}
