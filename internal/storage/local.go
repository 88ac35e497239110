// Package storage persists events and their binary artifacts on the local
// filesystem, addressed by generation date and event id. All stored paths
// are relative to the project root so records survive relocation.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"tdih/internal/ai"
	"tdih/internal/event"
)

const (
	recordFile        = "event.json"
	textFile          = "text.txt"
	audioFile         = "tts.mp3"
	transcriptionFile = "transcription.json"
	imagesDir         = "images"
	videoFile         = "video.mp4"
)

// ErrEmptyArtifact is returned when a save operation receives no bytes.
var ErrEmptyArtifact = errors.New("artifact is empty")

// Image pairs raw image bytes with their target file name.
type Image struct {
	Name string
	Data []byte
}

type Local struct {
	rootDir   string
	eventsDir string
}

// NewLocal creates a store rooted at rootDir; events live under
// <rootDir>/<eventsDir>/<date>/<id>/.
func NewLocal(rootDir, eventsDir string) *Local {
	return &Local{rootDir: rootDir, eventsDir: eventsDir}
}

// EventDir returns the event directory path relative to the project root.
// The directory itself is created lazily on first write.
func (s *Local) EventDir(date string, id uuid.UUID) string {
	return filepath.Join(s.eventsDir, date, id.String())
}

// Abs resolves a stored relative path against the project root.
func (s *Local) Abs(rel string) string {
	return filepath.Join(s.rootDir, rel)
}

// VideoPath returns the relative path a rendered video should be written to.
func (s *Local) VideoPath(date string, id uuid.UUID) string {
	return filepath.Join(s.EventDir(date, id), videoFile)
}

func (s *Local) SaveText(date string, id uuid.UUID, text string) (string, error) {
	rel := filepath.Join(s.EventDir(date, id), textFile)
	if err := s.write(rel, []byte(text)); err != nil {
		return "", fmt.Errorf("save text: %w", err)
	}
	return rel, nil
}

func (s *Local) SaveAudio(date string, id uuid.UUID, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("save audio: %w", ErrEmptyArtifact)
	}

	rel := filepath.Join(s.EventDir(date, id), audioFile)
	if err := s.write(rel, audio); err != nil {
		return "", fmt.Errorf("save audio: %w", err)
	}
	return rel, nil
}

func (s *Local) SaveTranscription(date string, id uuid.UUID, transcription *ai.Transcription) (string, error) {
	data, err := json.MarshalIndent(transcription, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal transcription: %w", err)
	}

	rel := filepath.Join(s.EventDir(date, id), transcriptionFile)
	if err := s.write(rel, data); err != nil {
		return "", fmt.Errorf("save transcription: %w", err)
	}
	return rel, nil
}

// SaveImages writes every image under images/ in input order and returns the
// relative paths in the same order; slide cycling depends on that ordering.
func (s *Local) SaveImages(date string, id uuid.UUID, images []Image) ([]string, error) {
	paths := make([]string, 0, len(images))
	for _, img := range images {
		rel := filepath.Join(s.EventDir(date, id), imagesDir, img.Name)
		if err := s.write(rel, img.Data); err != nil {
			return nil, fmt.Errorf("save image %s: %w", img.Name, err)
		}
		paths = append(paths, rel)
	}
	return paths, nil
}

// SaveRecord persists the full event as event.json, overwriting any previous
// record. It is called after every successful pipeline step, so a killed
// process loses at most the in-flight step.
func (s *Local) SaveRecord(ev *event.Event) error {
	data, err := json.MarshalIndent(ev, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	rel := filepath.Join(s.EventDir(ev.Date, ev.ID), recordFile)
	if err := s.write(rel, data); err != nil {
		return fmt.Errorf("save event record: %w", err)
	}
	return nil
}

// LoadEvents reads every event.json under the date's directory. Records that
// fail to parse are skipped with a warning so one corrupt event cannot block
// its siblings.
func (s *Local) LoadEvents(date string) ([]*event.Event, error) {
	pattern := filepath.Join(s.rootDir, s.eventsDir, date, "*", recordFile)
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob events: %w", err)
	}

	events := make([]*event.Event, 0, len(matches))
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("Skipping unreadable event record", "path", path, "error", err)
			continue
		}

		var ev event.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			slog.Warn("Skipping corrupt event record", "path", path, "error", err)
			continue
		}

		events = append(events, &ev)
	}

	return events, nil
}

func (s *Local) write(rel string, data []byte) error {
	abs := s.Abs(rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(abs, data, 0644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
