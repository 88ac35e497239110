// Package content turns pipeline intent into provider calls: prompt
// construction on the way in, plain values on the way out. The orchestrator
// never sees raw provider responses.
package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"tdih/internal/ai"
	"tdih/pkg/prompts"
)

// ErrMissingInput is returned when a required upstream artifact is absent.
var ErrMissingInput = errors.New("missing required input")

// Text requests the narration for the run's date. Previously generated texts
// from the same batch are embedded in the system prompt to bias the model
// away from repeats. Failures are not retried here; retry policy belongs to
// the caller.
func Text(ctx context.Context, completer ai.Completer, p *prompts.Prompts, date string, wordCount int, previousTexts []string) (string, error) {
	system, err := p.RenderNarration(prompts.NarrationParams{
		Date:          date,
		WordCount:     wordCount,
		PreviousTexts: previousTexts,
	})
	if err != nil {
		return "", fmt.Errorf("render narration prompt: %w", err)
	}

	response, err := completer.Complete(ctx, []ai.Message{
		{Role: ai.RoleSystem, Content: system},
		{Role: ai.RoleUser, Content: prompts.UserQuestion},
	})
	if err != nil {
		return "", fmt.Errorf("generate text: %w", err)
	}

	return strings.TrimSpace(response), nil
}

// Title requests a two-word title for the generated text.
func Title(ctx context.Context, completer ai.Completer, p *prompts.Prompts, text string) (string, error) {
	response, err := completer.Complete(ctx, []ai.Message{
		{Role: ai.RoleSystem, Content: p.Title},
		{Role: ai.RoleUser, Content: text},
	})
	if err != nil {
		return "", fmt.Errorf("generate title: %w", err)
	}

	return strings.TrimSpace(response), nil
}

// Description requests a short summary, instructing the model to avoid the
// given words (typically the title words, to reduce redundancy).
func Description(ctx context.Context, completer ai.Completer, p *prompts.Prompts, text string, excludeWords []string) (string, error) {
	system, err := p.RenderDescription(prompts.DescriptionParams{ExcludeWords: excludeWords})
	if err != nil {
		return "", fmt.Errorf("render description prompt: %w", err)
	}

	response, err := completer.Complete(ctx, []ai.Message{
		{Role: ai.RoleSystem, Content: system},
		{Role: ai.RoleUser, Content: text},
	})
	if err != nil {
		return "", fmt.Errorf("generate description: %w", err)
	}

	return strings.TrimSpace(response), nil
}

// Tags requests up to three single-word tags, splitting the comma-delimited
// response into a trimmed list.
func Tags(ctx context.Context, completer ai.Completer, p *prompts.Prompts, text string, excludeTags []string) ([]string, error) {
	system, err := p.RenderTags(prompts.TagsParams{ExcludeTags: excludeTags})
	if err != nil {
		return nil, fmt.Errorf("render tags prompt: %w", err)
	}

	response, err := completer.Complete(ctx, []ai.Message{
		{Role: ai.RoleSystem, Content: system},
		{Role: ai.RoleUser, Content: text},
	})
	if err != nil {
		return nil, fmt.Errorf("generate tags: %w", err)
	}

	var tags []string
	for _, tag := range strings.Split(response, ",") {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}

	return tags, nil
}

// Speech synthesizes narration audio. When the provider signals that no
// audio was produced, Speech returns (nil, nil); callers must treat that as
// skip-the-rest-of-this-event.
func Speech(ctx context.Context, synth ai.SpeechSynthesizer, text, voice string) ([]byte, error) {
	audio, err := synth.Synthesize(ctx, text, voice)
	if err != nil {
		if errors.Is(err, ai.ErrNoAudio) {
			slog.Info("Speech provider produced no audio", "voice", voice, "error", err)
			return nil, nil
		}
		return nil, fmt.Errorf("synthesize speech: %w", err)
	}

	return audio, nil
}

// Transcribe requests a verbose transcript with per-segment timing for
// previously synthesized audio.
func Transcribe(ctx context.Context, transcriber ai.Transcriber, audio []byte) (*ai.Transcription, error) {
	if len(audio) == 0 {
		return nil, fmt.Errorf("transcribe: %w", ErrMissingInput)
	}

	transcription, err := transcriber.Transcribe(ctx, audio)
	if err != nil {
		return nil, fmt.Errorf("transcribe audio: %w", err)
	}

	return transcription, nil
}
