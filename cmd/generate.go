package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"tdih/internal/ai"
	"tdih/internal/ai/groq"
	"tdih/internal/ai/openai"
	"tdih/internal/event"
	"tdih/internal/generator"
	"tdih/internal/storage"
	"tdih/pkg/config"
	"tdih/pkg/prompts"
)

var (
	generateDate    string
	generateApprove bool
	generateText    string

	eventTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).MarginTop(1).MarginBottom(1)
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate events for a date",
	Long: `Generate a batch of events for a date (defaults to today). Re-running
for the same date only fills the gap left by incomplete or missing events.
With --text, a single event is built from the given narration instead of
asking the model for one.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateDate, "date", "d", "", "Date to generate events for (YYYY-MM-DD, default today)")
	generateCmd.Flags().BoolVarP(&generateApprove, "approve", "a", false, "Review each generated text before it becomes an event")
	generateCmd.Flags().StringVarP(&generateText, "text", "t", "", "Narration text to build a single event from")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	date := generateDate
	if date == "" {
		date = config.Today()
	}

	p, err := prompts.Load()
	if err != nil {
		return err
	}

	store := storage.NewLocal(cfg.Root.Dir, cfg.Root.EventsDir)

	ports, err := buildPorts(cfg)
	if err != nil {
		return err
	}

	var approver generator.Approver
	if generateApprove {
		approver = consoleApprover()
	}

	gen := generator.New(cfg, p, store, ports, approver)

	var generated []*event.Event
	if generateText != "" {
		ev, err := gen.RunFromText(ctx, date, generateText)
		if err != nil {
			return err
		}
		generated = append(generated, ev)
	} else {
		slog.Info("Generating events", "date", date, "batch", cfg.Content.EventsPerRun)

		result, err := gen.Run(ctx, date)
		if err != nil {
			return err
		}
		generated = result.Generated

		slog.Info("Generation finished",
			"date", date,
			"generated", len(result.Generated),
			"existing", result.Existing,
			"rejected", result.Rejected,
			"failed", result.Failed,
		)
	}

	if cfg.GCS.Enabled && cfg.GCSBucket != "" {
		return archiveEvents(ctx, cfg, store, date, generated)
	}

	return nil
}

func archiveEvents(ctx context.Context, cfg *config.Config, store *storage.Local, date string, events []*event.Event) error {
	archive, err := storage.NewGCSArchive(ctx, cfg.GCSBucket, cfg.GCS.Prefix)
	if err != nil {
		return err
	}
	defer func() { _ = archive.Close() }()

	for _, ev := range events {
		if err := archive.ArchiveEvent(ctx, store, ev.Date, ev.ID); err != nil {
			slog.Warn("Failed to archive event", "event", ev.ID, "error", err)
		}
	}

	objects, err := archive.ListArchived(ctx, date)
	if err != nil {
		slog.Warn("Failed to list archived objects", "date", date, "error", err)
		return nil
	}
	slog.Info("Archive state", "date", date, "objects", len(objects))

	return nil
}

func buildPorts(cfg *config.Config) (generator.Ports, error) {
	openaiClient := openai.NewClient(openai.Config{
		APIKey:          cfg.OpenAIAPIKey,
		CompletionModel: cfg.Completion.Model,
		SpeechModel:     cfg.Speech.Model,
		WhisperModel:    cfg.Speech.WhisperModel,
		ImageModel:      cfg.Images.Model,
	})

	var completer ai.Completer = openaiClient
	if cfg.Completion.Provider == "groq" {
		if cfg.GroqAPIKey == "" {
			return generator.Ports{}, fmt.Errorf("GROQ_API_KEY is required when completion.provider is groq")
		}
		groqClient, err := groq.NewClient(cfg.GroqAPIKey, cfg.Completion.Model)
		if err != nil {
			return generator.Ports{}, err
		}
		completer = groqClient
	}

	return generator.Ports{
		Completer:   completer,
		Speech:      openaiClient,
		Transcriber: openaiClient,
		Images:      openaiClient,
	}, nil
}

func consoleApprover() generator.Approver {
	return func(text string, slot, target int) (bool, error) {
		fmt.Println(eventTextStyle.Render(text))

		var approved bool
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Approve this event? [%d/%d]", slot, target)).
			Affirmative("Yes").
			Negative("No").
			Value(&approved).
			Run()
		if err != nil {
			return false, err
		}

		return approved, nil
	}
}
