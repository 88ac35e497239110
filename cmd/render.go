package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"

	"tdih/internal/event"
	"tdih/internal/storage"
	"tdih/internal/video"
	"tdih/pkg/config"
)

var renderDate string

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a date's events into videos",
	Long: `Render every complete event of a date into a slide video with ffmpeg.
Events that already have a rendered video are skipped.`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderDate, "date", "d", "", "Date to render (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	date := renderDate
	if date == "" {
		date = config.Today()
	}

	store := storage.NewLocal(cfg.Root.Dir, cfg.Root.EventsDir)
	renderer := video.NewRenderer(cfg.Video.Width, cfg.Video.Height, cfg.Video.FPS)

	events, err := store.LoadEvents(date)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		slog.Info("No events to render", "date", date)
		return nil
	}

	for _, ev := range events {
		if !ev.Complete() {
			slog.Warn("Skipping incomplete event", "date", date, "event", ev.ID)
			continue
		}
		if ev.Rendered() && fileExists(store.Abs(ev.VideoPath)) {
			slog.Info("Event already rendered", "date", date, "event", ev.ID)
			continue
		}

		if err := renderEvent(cmd, store, renderer, ev); err != nil {
			slog.Error("Render failed", "date", date, "event", ev.ID, "error", err)
			continue
		}

		ev.VideoPath = store.VideoPath(ev.Date, ev.ID)
		if err := store.SaveRecord(ev); err != nil {
			return err
		}

		slog.Info("Event rendered", "date", date, "event", ev.ID, "video", ev.VideoPath)
	}

	return nil
}

func renderEvent(cmd *cobra.Command, store *storage.Local, renderer *video.Renderer, ev *event.Event) error {
	slides, err := ev.Slides()
	if err != nil {
		return err
	}
	for i := range slides {
		slides[i].BackgroundImage = store.Abs(slides[i].BackgroundImage)
	}

	req := video.RenderRequest{
		Slides:     slides,
		AudioPath:  store.Abs(ev.AudioPath),
		OutputPath: store.Abs(store.VideoPath(ev.Date, ev.ID)),
	}

	var renderErr error
	action := func() {
		renderErr = renderer.Render(cmd.Context(), req)
	}

	if err := spinner.New().
		Title(fmt.Sprintf("Rendering %s...", ev.Title)).
		Action(action).
		Run(); err != nil {
		return err
	}

	return renderErr
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
