// Package video renders an event's slides into a single narrated clip with
// ffmpeg. It sits at the pipeline boundary: it consumes a finished Event's
// slides and audio, and produces the video file the record points to.
package video

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"tdih/internal/event"
)

const defaultFFmpegPath = "ffmpeg"

type Renderer struct {
	ffmpegPath string
	width      int
	height     int
	fps        int
}

type RenderRequest struct {
	// Slides with background image paths already resolved to absolute.
	Slides     []event.Slide
	AudioPath  string
	OutputPath string
}

func NewRenderer(width, height, fps int) *Renderer {
	return &Renderer{
		ffmpegPath: defaultFFmpegPath,
		width:      width,
		height:     height,
		fps:        fps,
	}
}

// Render builds one clip per slide (scaled background, centered caption),
// concatenates them and muxes the narration audio.
func (r *Renderer) Render(ctx context.Context, req RenderRequest) error {
	if len(req.Slides) == 0 {
		return fmt.Errorf("no slides to render")
	}

	workDir, err := os.MkdirTemp("", "tdih-render-")
	if err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	clipPaths := make([]string, 0, len(req.Slides))
	for i, slide := range req.Slides {
		clipPath := filepath.Join(workDir, fmt.Sprintf("slide_%03d.mp4", i))
		if err := r.renderSlide(ctx, slide, clipPath); err != nil {
			return fmt.Errorf("render slide %d: %w", i, err)
		}
		clipPaths = append(clipPaths, clipPath)
	}

	listPath := filepath.Join(workDir, "concat.txt")
	if err := writeConcatList(listPath, clipPaths); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(req.OutputPath), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-i", req.AudioPath,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-pix_fmt", "yuv420p",
		"-r", fmt.Sprintf("%d", r.fps),
		"-c:a", "aac",
		"-shortest",
		req.OutputPath,
	}

	return r.runFFmpeg(ctx, args)
}

func (r *Renderer) renderSlide(ctx context.Context, slide event.Slide, outPath string) error {
	filter := fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d,%s",
		r.width, r.height, r.width, r.height,
		r.drawtextFilter(slide.Text),
	)

	args := []string{
		"-y",
		"-loop", "1",
		"-t", fmt.Sprintf("%.3f", slide.Duration),
		"-i", slide.BackgroundImage,
		"-vf", filter,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-pix_fmt", "yuv420p",
		"-r", fmt.Sprintf("%d", r.fps),
		outPath,
	}

	return r.runFFmpeg(ctx, args)
}

func (r *Renderer) drawtextFilter(text string) string {
	return fmt.Sprintf(
		"drawtext=text='%s':fontsize=50:fontcolor=white:box=1:boxcolor=black@0.8:boxborderw=20:x=(w-text_w)/2:y=(h-text_h)/2",
		escapeDrawtext(text),
	)
}

func (r *Renderer) runFFmpeg(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, r.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, tail(stderr.String(), 500))
	}
	return nil
}

func writeConcatList(path string, clips []string) error {
	var b strings.Builder
	for _, clip := range clips {
		fmt.Fprintf(&b, "file '%s'\n", clip)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}
	return nil
}

// escapeDrawtext escapes the characters ffmpeg's drawtext filter treats
// specially inside a single-quoted value.
func escapeDrawtext(text string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`'`, `'\\\''`,
		`:`, `\:`,
		`%`, `\%`,
	)
	return replacer.Replace(text)
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
