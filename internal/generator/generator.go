// Package generator drives the per-batch, per-event content pipeline. Events
// are generated sequentially; each step's output is persisted before the
// next step runs, so a crash loses at most the in-flight step.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"tdih/internal/ai"
	"tdih/internal/content"
	"tdih/internal/event"
	"tdih/internal/storage"
	"tdih/pkg/config"
	"tdih/pkg/prompts"
)

// Approver decides whether a generated text becomes an event. It is invoked
// after text generation and before anything is persisted; a false verdict
// discards the attempt without consuming an id.
type Approver func(text string, slot, target int) (bool, error)

type Ports struct {
	Completer   ai.Completer
	Speech      ai.SpeechSynthesizer
	Transcriber ai.Transcriber
	Images      ai.ImageGenerator
}

type Generator struct {
	cfg      *config.Config
	prompts  *prompts.Prompts
	store    *storage.Local
	ports    Ports
	approver Approver
}

type Result struct {
	Generated []*event.Event
	Existing  int // complete records already present for the date
	Rejected  int
	Failed    int
}

func New(cfg *config.Config, p *prompts.Prompts, store *storage.Local, ports Ports, approver Approver) *Generator {
	return &Generator{
		cfg:      cfg,
		prompts:  p,
		store:    store,
		ports:    ports,
		approver: approver,
	}
}

// Run generates events for the date until the configured batch size of
// complete events exists. Events with a complete persisted record count
// toward the target, so re-running for the same date only fills the gap.
// Rejected attempts do not count toward the batch; an attempt cap of twice
// the batch size bounds the loop.
func (g *Generator) Run(ctx context.Context, date string) (*Result, error) {
	target := g.cfg.Content.EventsPerRun

	existing, err := g.store.LoadEvents(date)
	if err != nil {
		return nil, fmt.Errorf("load existing events: %w", err)
	}

	result := &Result{}
	for _, ev := range existing {
		if ev.Complete() {
			result.Existing++
		}
	}

	needed := target - result.Existing
	if needed <= 0 {
		slog.Info("Batch already complete for date", "date", date, "existing", result.Existing)
		return result, nil
	}

	// Duplicate avoidance is batch-scoped: the accumulated texts of this
	// run are fed into every subsequent narration request.
	var previousTexts []string

	maxAttempts := 2 * target
	for attempt := 0; attempt < maxAttempts && len(result.Generated) < needed; attempt++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		text, err := content.Text(ctx, g.ports.Completer, g.prompts, date, g.cfg.Content.WordCount, previousTexts)
		if err != nil {
			slog.Error("Event generation failed", "date", date, "step", "text", "error", err)
			result.Failed++
			continue
		}
		previousTexts = append(previousTexts, text)

		if g.approver != nil {
			slot := result.Existing + len(result.Generated) + 1
			approved, err := g.approver(text, slot, target)
			if err != nil {
				return result, fmt.Errorf("approval gate: %w", err)
			}
			if !approved {
				slog.Info("Event text rejected", "date", date, "slot", slot)
				result.Rejected++
				continue
			}
		}

		ev := event.New(date)
		if err := g.generateEvent(ctx, ev, text); err != nil {
			slog.Error("Event generation failed", "date", date, "event", ev.ID, "error", err)
			result.Failed++
			continue
		}

		result.Generated = append(result.Generated, ev)
		slog.Info("Event generated", "date", date, "event", ev.ID, "title", ev.Title)
	}

	if len(result.Generated) < needed {
		slog.Warn("Batch finished below target",
			"date", date,
			"generated", len(result.Generated),
			"target", target,
			"rejected", result.Rejected,
			"failed", result.Failed,
		)
	}

	return result, nil
}

// RunFromText builds a single event from operator-supplied narration text,
// running only the media tail of the pipeline: speech, transcription, images.
// Title, description and tags are left for the model-driven path.
func (g *Generator) RunFromText(ctx context.Context, date, text string) (*event.Event, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("from text: %w", content.ErrMissingInput)
	}

	ev := event.New(date)
	ev.Text = text
	textPath, err := g.store.SaveText(ev.Date, ev.ID, text)
	if err != nil {
		return nil, fmt.Errorf("step text: %w", err)
	}
	ev.TextPath = textPath
	if err := g.store.SaveRecord(ev); err != nil {
		return nil, fmt.Errorf("step text: %w", err)
	}

	if err := g.generateMedia(ctx, ev); err != nil {
		return nil, err
	}

	slog.Info("Event generated from text", "date", date, "event", ev.ID)
	return ev, nil
}

func (g *Generator) generateEvent(ctx context.Context, ev *event.Event, text string) error {
	ev.Text = text
	textPath, err := g.store.SaveText(ev.Date, ev.ID, text)
	if err != nil {
		return fmt.Errorf("step text: %w", err)
	}
	ev.TextPath = textPath
	if err := g.store.SaveRecord(ev); err != nil {
		return fmt.Errorf("step text: %w", err)
	}

	title, err := content.Title(ctx, g.ports.Completer, g.prompts, text)
	if err != nil {
		return fmt.Errorf("step title: %w", err)
	}
	ev.Title = title
	if err := g.store.SaveRecord(ev); err != nil {
		return fmt.Errorf("step title: %w", err)
	}

	description, err := content.Description(ctx, g.ports.Completer, g.prompts, text, strings.Fields(title))
	if err != nil {
		return fmt.Errorf("step description: %w", err)
	}
	ev.Description = description
	if err := g.store.SaveRecord(ev); err != nil {
		return fmt.Errorf("step description: %w", err)
	}

	tags, err := content.Tags(ctx, g.ports.Completer, g.prompts, text, nil)
	if err != nil {
		return fmt.Errorf("step tags: %w", err)
	}
	ev.Tags = tags
	if err := g.store.SaveRecord(ev); err != nil {
		return fmt.Errorf("step tags: %w", err)
	}

	return g.generateMedia(ctx, ev)
}

// generateMedia runs the media tail for an event whose text is already set
// and persisted: speech, transcription and images, re-persisting the record
// after each step.
func (g *Generator) generateMedia(ctx context.Context, ev *event.Event) error {
	voice := g.cfg.PickVoice()
	audio, err := content.Speech(ctx, g.ports.Speech, ev.Text, voice)
	if err != nil {
		return fmt.Errorf("step speech: %w", err)
	}
	if len(audio) == 0 {
		return fmt.Errorf("step speech: no audio produced for voice %s", voice)
	}
	audioPath, err := g.store.SaveAudio(ev.Date, ev.ID, audio)
	if err != nil {
		return fmt.Errorf("step speech: %w", err)
	}
	ev.AudioPath = audioPath
	if err := g.store.SaveRecord(ev); err != nil {
		return fmt.Errorf("step speech: %w", err)
	}

	transcription, err := content.Transcribe(ctx, g.ports.Transcriber, audio)
	if err != nil {
		return fmt.Errorf("step transcription: %w", err)
	}
	ev.Transcription = transcription
	ev.Duration = transcription.Duration
	transcriptionPath, err := g.store.SaveTranscription(ev.Date, ev.ID, transcription)
	if err != nil {
		return fmt.Errorf("step transcription: %w", err)
	}
	ev.TranscriptionPath = transcriptionPath
	if err := g.store.SaveRecord(ev); err != nil {
		return fmt.Errorf("step transcription: %w", err)
	}

	images, expected, err := content.Images(ctx, g.ports.Images, content.ImageOptions{
		Width:       g.cfg.Images.Width,
		Height:      g.cfg.Images.Height,
		MaxPerEvent: g.cfg.Content.MaxImagesPerEvent,
	}, ev.Text, transcription)
	if err != nil {
		return fmt.Errorf("step images: %w", err)
	}
	if len(images) == 0 {
		return fmt.Errorf("step images: no images generated")
	}
	if len(images) < expected {
		warning := fmt.Sprintf("image generation truncated: got %d of %d", len(images), expected)
		ev.Warnings = append(ev.Warnings, warning)
		slog.Warn("Image generation truncated", "date", ev.Date, "event", ev.ID, "got", len(images), "expected", expected)
	}

	stored := make([]storage.Image, len(images))
	for i, img := range images {
		stored[i] = storage.Image{Name: img.Name, Data: img.Data}
	}
	imagePaths, err := g.store.SaveImages(ev.Date, ev.ID, stored)
	if err != nil {
		return fmt.Errorf("step images: %w", err)
	}
	ev.ImagePaths = imagePaths
	if err := g.store.SaveRecord(ev); err != nil {
		return fmt.Errorf("step images: %w", err)
	}

	return nil
}
