package cmd

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"tdih/internal/distribution/youtube"
	"tdih/pkg/config"
)

var (
	authInfoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	authSuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	authErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authenticate with external services",
	Long:  `Authenticate with YouTube using credentials from .env`,
}

var authYouTubeCmd = &cobra.Command{
	Use:   "youtube",
	Short: "Authenticate with YouTube (OAuth)",
	Long:  `Complete the YouTube OAuth flow using credentials from the .env file.`,
	RunE:  runAuthYouTube,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check authentication status",
	Long:  `Verify which services are configured and authenticated.`,
	RunE:  runAuthStatus,
}

func init() {
	authCmd.AddCommand(authYouTubeCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthYouTube(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if cfg.YouTubeClientID == "" || cfg.YouTubeClientSecret == "" {
		return fmt.Errorf("YOUTUBE_CLIENT_ID and YOUTUBE_CLIENT_SECRET are required")
	}

	auth := youtube.NewAuth(cfg.YouTubeClientID, cfg.YouTubeClientSecret, cfg.YouTubeTokenPath)

	code, err := waitForAuthCode(ctx, auth)
	if err != nil {
		return err
	}

	if err := auth.Exchange(ctx, code); err != nil {
		fmt.Println(authErrorStyle.Render("✗ Authentication failed"))
		return err
	}

	fmt.Println(authSuccessStyle.Render("✓ YouTube authentication complete"))
	return nil
}

func waitForAuthCode(ctx context.Context, auth *youtube.Auth) (string, error) {
	listener, err := net.Listen("tcp", "localhost:8080")
	if err != nil {
		return "", fmt.Errorf("start callback listener: %w", err)
	}

	codeCh := make(chan string, 1)
	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := r.URL.Query().Get("code")
			if code == "" {
				http.Error(w, "missing code", http.StatusBadRequest)
				return
			}
			fmt.Fprintln(w, "Authentication complete. You can close this tab.")
			codeCh <- code
		}),
	}

	go func() { _ = server.Serve(listener) }()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	url := auth.GetAuthURL()
	fmt.Println(authInfoStyle.Render("Opening browser for YouTube consent..."))
	if err := browser.OpenURL(url); err != nil {
		fmt.Println(authInfoStyle.Render("Open this URL manually: " + url))
	}

	select {
	case code := <-codeCh:
		return code, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	printStatus("OpenAI", cfg.OpenAIAPIKey != "", "API key configured")
	printStatus("Groq", cfg.GroqAPIKey != "", "API key configured")
	printStatus("GCS archive", cfg.GCS.Enabled && cfg.GCSBucket != "", "bucket configured")

	if cfg.YouTubeClientID == "" || cfg.YouTubeClientSecret == "" {
		printStatus("YouTube", false, "client credentials missing")
		return nil
	}

	auth := youtube.NewAuth(cfg.YouTubeClientID, cfg.YouTubeClientSecret, cfg.YouTubeTokenPath)
	printStatus("YouTube", auth.IsAuthenticated(), "token valid")

	return nil
}

func printStatus(name string, ok bool, detail string) {
	if ok {
		fmt.Println(authSuccessStyle.Render(fmt.Sprintf("✓ %s: %s", name, detail)))
	} else {
		fmt.Println(authErrorStyle.Render(fmt.Sprintf("✗ %s: not configured", name)))
	}
}
