package content

import (
	"context"
	"fmt"
	"log/slog"

	"tdih/internal/ai"
)

// Image pairs generated image bytes with a positional file name.
type Image struct {
	Name string
	Data []byte
}

type ImageOptions struct {
	Width       int
	Height      int
	MaxPerEvent int
}

// Images generates one illustration per transcript segment, capped at
// MaxPerEvent, as independent single-image calls. A mid-sequence provider
// failure stops the sequence; the images produced so far are returned
// together with the expected count so the caller can record the shortfall
// on the event instead of losing it.
func Images(ctx context.Context, gen ai.ImageGenerator, opts ImageOptions, text string, transcription *ai.Transcription) (images []Image, expected int, err error) {
	if transcription == nil || len(transcription.Segments) == 0 {
		return nil, 0, fmt.Errorf("images: %w", ErrMissingInput)
	}

	expected = len(transcription.Segments)
	if expected > opts.MaxPerEvent {
		expected = opts.MaxPerEvent
	}

	for i := 0; i < expected; i++ {
		data, genErr := gen.GenerateImage(ctx, text, opts.Width, opts.Height)
		if genErr != nil {
			slog.Error("Image generation failed mid-sequence", "index", i, "expected", expected, "error", genErr)
			break
		}
		images = append(images, Image{
			Name: fmt.Sprintf("image_%d.png", i),
			Data: data,
		})
	}

	return images, expected, nil
}
