package cmd

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"tdih/internal/distribution"
	"tdih/internal/distribution/youtube"
	"tdih/internal/storage"
	"tdih/pkg/config"
	"tdih/pkg/prompts"
)

var (
	uploadDate    string
	uploadPublish bool

	uploadSuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload a date's rendered videos to YouTube",
	Long: `Upload every rendered video of a date to YouTube. Events without a
rendered video are skipped, so the command can be re-run safely. Videos are
uploaded with the configured privacy status; --publish makes them public
once the upload is accepted.`,
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVarP(&uploadDate, "date", "d", "", "Date to upload (YYYY-MM-DD, default today)")
	uploadCmd.Flags().BoolVarP(&uploadPublish, "publish", "p", false, "Make videos public after upload")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if cfg.YouTubeClientID == "" || cfg.YouTubeClientSecret == "" {
		return fmt.Errorf("YOUTUBE_CLIENT_ID and YOUTUBE_CLIENT_SECRET are required")
	}

	date := uploadDate
	if date == "" {
		date = config.Today()
	}

	store := storage.NewLocal(cfg.Root.Dir, cfg.Root.EventsDir)
	auth := youtube.NewAuth(cfg.YouTubeClientID, cfg.YouTubeClientSecret, cfg.YouTubeTokenPath)
	uploader := youtube.NewClient(auth)

	if !uploader.Auth().IsAuthenticated() {
		return fmt.Errorf("not authenticated with YouTube, run: tdih auth youtube")
	}

	events, err := store.LoadEvents(date)
	if err != nil {
		return err
	}

	uploaded := 0
	for _, ev := range events {
		if !ev.Rendered() || !fileExists(store.Abs(ev.VideoPath)) {
			slog.Info("Skipping event without rendered video", "date", date, "event", ev.ID)
			continue
		}

		tags := distribution.NormalizeTags(append(append([]string{}, ev.Tags...), cfg.YouTube.DefaultTags...))

		resp, err := uploader.Upload(ctx, distribution.UploadRequest{
			FilePath:    store.Abs(ev.VideoPath),
			Title:       distribution.RenderTitle(prompts.VideoTitlePrefix, ev.Title, tags),
			Description: fmt.Sprintf("%s %s", ev.Description, prompts.VideoDescriptionSuffix),
			Tags:        tags,
			CategoryID:  cfg.YouTube.CategoryID,
			ChannelID:   cfg.YouTube.ChannelID,
			Privacy:     cfg.YouTube.PrivacyStatus,
			MadeForKids: cfg.YouTube.MadeForKids,
		})
		if err != nil {
			slog.Error("Upload failed", "date", date, "event", ev.ID, "error", err)
			continue
		}

		if uploadPublish {
			if err := uploader.SetPrivacy(ctx, resp.ID, "public"); err != nil {
				slog.Error("Failed to publish video", "date", date, "event", ev.ID, "video", resp.ID, "error", err)
			}
		}

		uploaded++
		fmt.Println(uploadSuccessStyle.Render(fmt.Sprintf("✓ %s → %s", ev.Title, resp.URL)))
	}

	slog.Info("Upload finished", "date", date, "uploaded", uploaded)
	return nil
}
