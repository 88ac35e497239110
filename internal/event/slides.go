package event

import (
	"errors"
)

// Slide is a per-segment render spec. Slides are derived, never persisted;
// callers recompute them whenever they are needed.
type Slide struct {
	Duration        float64
	Text            string
	BackgroundImage string
}

var ErrNoTranscription = errors.New("event has no transcription")

// Slides builds one slide per transcript segment. Background images are
// reused cyclically when there are fewer images than segments.
func (e *Event) Slides() ([]Slide, error) {
	if e.Transcription == nil || len(e.Transcription.Segments) == 0 {
		return nil, ErrNoTranscription
	}
	if len(e.ImagePaths) == 0 {
		return nil, errors.New("event has no images")
	}

	slides := make([]Slide, 0, len(e.Transcription.Segments))
	for idx, segment := range e.Transcription.Segments {
		slides = append(slides, Slide{
			Duration:        segment.End - segment.Start,
			Text:            segment.Text,
			BackgroundImage: e.ImagePaths[idx%len(e.ImagePaths)],
		})
	}

	return slides, nil
}
