package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"tdih/internal/ai"
	"tdih/pkg/prompts"
)

type fakeCompleter struct {
	response string
	err      error
	messages []ai.Message
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []ai.Message) (string, error) {
	f.messages = messages
	return f.response, f.err
}

type fakeSynthesizer struct {
	audio []byte
	err   error
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	return f.audio, f.err
}

type fakeTranscriber struct {
	transcription *ai.Transcription
	err           error
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audio []byte) (*ai.Transcription, error) {
	return f.transcription, f.err
}

func loadPrompts(t *testing.T) *prompts.Prompts {
	t.Helper()
	p, err := prompts.Load()
	if err != nil {
		t.Fatalf("prompts.Load() error = %v", err)
	}
	return p
}

func TestTextEmbedsPreviousTexts(t *testing.T) {
	completer := &fakeCompleter{response: "  a narration  "}
	previous := []string{"the moon landing", "fall of the wall"}

	text, err := Text(context.Background(), completer, loadPrompts(t), "2026-01-15", 70, previous)
	if err != nil {
		t.Fatalf("Text() error = %v", err)
	}
	if text != "a narration" {
		t.Errorf("Text() = %q, want trimmed response", text)
	}

	if len(completer.messages) != 2 {
		t.Fatalf("Complete() received %d messages, want 2", len(completer.messages))
	}
	system := completer.messages[0]
	if system.Role != ai.RoleSystem {
		t.Errorf("first message role = %q, want system", system.Role)
	}
	for _, prev := range previous {
		if !strings.Contains(system.Content, prev) {
			t.Errorf("system prompt missing previous text %q", prev)
		}
	}
	if !strings.Contains(system.Content, "2026-01-15") {
		t.Error("system prompt missing the date")
	}
	if completer.messages[1].Content != prompts.UserQuestion {
		t.Errorf("user message = %q, want %q", completer.messages[1].Content, prompts.UserQuestion)
	}
}

func TestTags(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     []string
	}{
		{"comma separated", "france, revolution, history", []string{"france", "revolution", "history"}},
		{"extra whitespace", "  space ,  moon  ", []string{"space", "moon"}},
		{"empty entries dropped", "war,,peace,", []string{"war", "peace"}},
		{"single tag", "rome", []string{"rome"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := &fakeCompleter{response: tt.response}

			tags, err := Tags(context.Background(), completer, loadPrompts(t), "text", nil)
			if err != nil {
				t.Fatalf("Tags() error = %v", err)
			}
			if len(tags) != len(tt.want) {
				t.Fatalf("Tags() = %v, want %v", tags, tt.want)
			}
			for i := range tags {
				if tags[i] != tt.want[i] {
					t.Errorf("tags[%d] = %q, want %q", i, tags[i], tt.want[i])
				}
			}
		})
	}
}

func TestDescriptionExcludesWords(t *testing.T) {
	completer := &fakeCompleter{response: "a short summary"}

	_, err := Description(context.Background(), completer, loadPrompts(t), "text", []string{"Moon", "Landing"})
	if err != nil {
		t.Fatalf("Description() error = %v", err)
	}

	system := completer.messages[0].Content
	if !strings.Contains(system, "Moon") || !strings.Contains(system, "Landing") {
		t.Errorf("system prompt missing excluded words: %q", system)
	}
}

func TestSpeechNoAudioIsNotAnError(t *testing.T) {
	synth := &fakeSynthesizer{err: fmt.Errorf("speech request returned 400: %w", ai.ErrNoAudio)}

	audio, err := Speech(context.Background(), synth, "text", "alloy")
	if err != nil {
		t.Fatalf("Speech() error = %v, want nil", err)
	}
	if audio != nil {
		t.Errorf("Speech() = %v, want nil audio", audio)
	}
}

func TestSpeechPropagatesOtherErrors(t *testing.T) {
	synth := &fakeSynthesizer{err: errors.New("connection refused")}

	if _, err := Speech(context.Background(), synth, "text", "alloy"); err == nil {
		t.Fatal("Speech() error = nil, want transport error")
	}
}

func TestTranscribeMissingAudio(t *testing.T) {
	transcriber := &fakeTranscriber{transcription: &ai.Transcription{}}

	_, err := Transcribe(context.Background(), transcriber, nil)
	if !errors.Is(err, ErrMissingInput) {
		t.Fatalf("Transcribe(nil) error = %v, want ErrMissingInput", err)
	}
}
