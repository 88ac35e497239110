package content

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"tdih/internal/ai"
)

type fakeImageGenerator struct {
	failAfter int // fail on the Nth call (0-based); -1 never fails
	calls     int
}

func (f *fakeImageGenerator) GenerateImage(ctx context.Context, prompt string, width, height int) ([]byte, error) {
	call := f.calls
	f.calls++
	if f.failAfter >= 0 && call == f.failAfter {
		return nil, errors.New("rate limited")
	}
	return []byte(fmt.Sprintf("image-%d", call)), nil
}

func transcriptionWithSegments(n int) *ai.Transcription {
	segments := make([]ai.Segment, n)
	for i := range segments {
		segments[i] = ai.Segment{Start: float64(i), End: float64(i + 1), Text: "segment"}
	}
	return &ai.Transcription{Duration: float64(n), Segments: segments}
}

func TestImagesOnePerSegment(t *testing.T) {
	gen := &fakeImageGenerator{failAfter: -1}
	opts := ImageOptions{Width: 1024, Height: 1024, MaxPerEvent: 5}

	images, expected, err := Images(context.Background(), gen, opts, "text", transcriptionWithSegments(3))
	if err != nil {
		t.Fatalf("Images() error = %v", err)
	}
	if expected != 3 {
		t.Errorf("expected = %d, want 3", expected)
	}
	if len(images) != 3 {
		t.Fatalf("Images() returned %d images, want 3", len(images))
	}
	for i, img := range images {
		want := fmt.Sprintf("image_%d.png", i)
		if img.Name != want {
			t.Errorf("images[%d].Name = %q, want %q", i, img.Name, want)
		}
	}
}

func TestImagesCappedAtMaxPerEvent(t *testing.T) {
	gen := &fakeImageGenerator{failAfter: -1}
	opts := ImageOptions{Width: 1024, Height: 1024, MaxPerEvent: 2}

	images, expected, err := Images(context.Background(), gen, opts, "text", transcriptionWithSegments(7))
	if err != nil {
		t.Fatalf("Images() error = %v", err)
	}
	if expected != 2 {
		t.Errorf("expected = %d, want 2", expected)
	}
	if len(images) != 2 {
		t.Errorf("Images() returned %d images, want 2", len(images))
	}
	if gen.calls != 2 {
		t.Errorf("generator called %d times, want 2", gen.calls)
	}
}

func TestImagesTruncatedMidSequence(t *testing.T) {
	gen := &fakeImageGenerator{failAfter: 2}
	opts := ImageOptions{Width: 1024, Height: 1024, MaxPerEvent: 5}

	images, expected, err := Images(context.Background(), gen, opts, "text", transcriptionWithSegments(4))
	if err != nil {
		t.Fatalf("Images() error = %v", err)
	}
	if expected != 4 {
		t.Errorf("expected = %d, want 4", expected)
	}
	if len(images) != 2 {
		t.Errorf("Images() returned %d images after mid-sequence failure, want 2", len(images))
	}
}

func TestImagesNoTranscription(t *testing.T) {
	gen := &fakeImageGenerator{failAfter: -1}
	opts := ImageOptions{Width: 1024, Height: 1024, MaxPerEvent: 5}

	_, _, err := Images(context.Background(), gen, opts, "text", nil)
	if !errors.Is(err, ErrMissingInput) {
		t.Fatalf("Images(nil transcription) error = %v, want ErrMissingInput", err)
	}
}
