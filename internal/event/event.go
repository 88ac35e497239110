// Package event holds the durable record of one generated content unit and
// the ephemeral slide specs derived from it.
package event

import (
	"github.com/google/uuid"

	"tdih/internal/ai"
)

// Event is one generated "today in history" unit. Content fields are
// populated in strict dependency order as the pipeline progresses; every
// mutation is followed by a full re-persist of the record, so all artifact
// paths stay relative to the project root.
type Event struct {
	ID   uuid.UUID `json:"id"`
	Date string    `json:"date"`

	Text        string   `json:"text,omitempty"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	TextPath          string   `json:"text_path,omitempty"`
	AudioPath         string   `json:"audio_path,omitempty"`
	TranscriptionPath string   `json:"transcription_path,omitempty"`
	ImagePaths        []string `json:"image_paths,omitempty"`
	VideoPath         string   `json:"video_path,omitempty"`

	Transcription *ai.Transcription `json:"transcription,omitempty"`
	Duration      float64           `json:"duration,omitempty"`

	// Warnings records recoverable anomalies, such as fewer images than
	// requested after a mid-sequence provider failure.
	Warnings []string `json:"warnings,omitempty"`
}

// New creates an in-memory Event with a fresh id for the run's date.
func New(date string) *Event {
	return &Event{
		ID:   uuid.New(),
		Date: date,
	}
}

// Complete reports whether the full generation pipeline ran for this event.
// Rendering is a separate step, so VideoPath is not part of completeness.
func (e *Event) Complete() bool {
	return e.Text != "" &&
		e.AudioPath != "" &&
		e.Transcription != nil &&
		len(e.ImagePaths) > 0
}

// Rendered reports whether a video was produced for this event.
func (e *Event) Rendered() bool {
	return e.VideoPath != ""
}
