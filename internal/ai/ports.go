// Package ai defines the capability ports the generation pipeline consumes.
// Concrete providers live in subpackages and are injected at build time.
package ai

import (
	"context"
	"errors"
)

// ErrNoAudio signals that a speech provider reported non-success without a
// transport error. Callers treat it as "no audio produced" for the event.
var ErrNoAudio = errors.New("no audio produced")

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Segment is a timed span of narrated text.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcription is the timed transcript of a synthesized narration.
type Transcription struct {
	Duration float64   `json:"duration"`
	Segments []Segment `json:"segments"`
}

type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (*Transcription, error)
}

type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string, width, height int) ([]byte, error)
}
