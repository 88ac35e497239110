package config

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath      = "config.yaml"
	defaultRootDir         = "."
	defaultEventsDir       = "videos"
	defaultTokenPath       = "./youtube_token.json"
	defaultEventsPerRun    = 2
	defaultWordCount       = 70
	defaultVideoWidth      = 1080
	defaultVideoHeight     = 1920
	defaultVideoFPS        = 30
	defaultImageWidth      = 1024
	defaultImageHeight     = 1024
	defaultMaxImages       = 5
	defaultCompletionModel = "gpt-4o"
	defaultSpeechModel     = "tts-1"
	defaultWhisperModel    = "whisper-1"
	defaultImageModel      = "dall-e-3"
	defaultGroqModel       = "llama-3.3-70b-versatile"
	defaultCategoryID      = "27" // Education
	defaultPrivacyStatus   = "private"
	defaultProvider        = "openai"
)

var defaultVoices = []string{"alloy", "echo", "fable", "onyx", "nova", "shimmer"}

var defaultTags = []string{"shorts", "history", "today"}

type Config struct {
	OpenAIAPIKey        string
	GroqAPIKey          string
	YouTubeClientID     string
	YouTubeClientSecret string
	YouTubeTokenPath    string
	GCSBucket           string
	GCPProject          string

	Root       RootConfig       `yaml:"root"`
	Completion CompletionConfig `yaml:"completion"`
	Speech     SpeechConfig     `yaml:"speech"`
	Content    ContentConfig    `yaml:"content"`
	Video      VideoConfig      `yaml:"video"`
	Images     ImagesConfig     `yaml:"images"`
	YouTube    YouTubeConfig    `yaml:"youtube"`
	GCS        GCSConfig        `yaml:"gcs"`
}

type RootConfig struct {
	Dir       string `yaml:"dir"`
	EventsDir string `yaml:"events_dir"`
}

type CompletionConfig struct {
	Provider string `yaml:"provider"` // "openai" or "groq"
	Model    string `yaml:"model"`
}

type SpeechConfig struct {
	Model        string   `yaml:"model"`
	WhisperModel string   `yaml:"whisper_model"`
	Voices       []string `yaml:"voices"`
}

type ContentConfig struct {
	EventsPerRun      int `yaml:"events_per_run"`
	WordCount         int `yaml:"word_count"`
	MaxImagesPerEvent int `yaml:"max_images_per_event"`
}

type VideoConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"`
}

type ImagesConfig struct {
	Model  string `yaml:"model"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type YouTubeConfig struct {
	ChannelID     string   `yaml:"channel_id"`
	CategoryID    string   `yaml:"category_id"`
	MadeForKids   bool     `yaml:"made_for_kids"`
	PrivacyStatus string   `yaml:"privacy_status"`
	DefaultTags   []string `yaml:"default_tags"`
}

type GCSConfig struct {
	Enabled bool   `yaml:"enabled"`
	Prefix  string `yaml:"prefix"`
}

// Load resolves configuration from .env, environment variables and an
// optional config.yaml. The OpenAI API key is required; when the env var is
// empty and GCP_PROJECT is set, Secret Manager is tried before failing.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		GroqAPIKey:          os.Getenv("GROQ_API_KEY"),
		YouTubeClientID:     os.Getenv("YOUTUBE_CLIENT_ID"),
		YouTubeClientSecret: os.Getenv("YOUTUBE_CLIENT_SECRET"),
		YouTubeTokenPath:    getEnvOrDefault("YOUTUBE_TOKEN_PATH", defaultTokenPath),
		GCSBucket:           os.Getenv("GCS_BUCKET"),
		GCPProject:          os.Getenv("GCP_PROJECT"),
	}

	loadYAMLConfig(cfg)
	applyDefaults(cfg)

	if cfg.OpenAIAPIKey == "" && cfg.GCPProject != "" {
		key, err := loadSecret(ctx, cfg.GCPProject, "openai-api-key")
		if err != nil {
			slog.Warn("Failed to read API key from Secret Manager", "error", err)
		} else {
			cfg.OpenAIAPIKey = key
		}
	}

	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}

	return cfg, nil
}

func loadYAMLConfig(cfg *Config) {
	data, err := os.ReadFile(defaultConfigPath)
	if err != nil {
		slog.Debug("No config.yaml found, using defaults")
		return
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		slog.Error("Failed to parse config.yaml", "error", err)
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Root.Dir == "" {
		cfg.Root.Dir = defaultRootDir
	}
	if cfg.Root.EventsDir == "" {
		cfg.Root.EventsDir = defaultEventsDir
	}
	if cfg.Completion.Provider == "" {
		cfg.Completion.Provider = defaultProvider
	}
	if cfg.Completion.Model == "" {
		if cfg.Completion.Provider == "groq" {
			cfg.Completion.Model = defaultGroqModel
		} else {
			cfg.Completion.Model = defaultCompletionModel
		}
	}
	if cfg.Speech.Model == "" {
		cfg.Speech.Model = defaultSpeechModel
	}
	if cfg.Speech.WhisperModel == "" {
		cfg.Speech.WhisperModel = defaultWhisperModel
	}
	if len(cfg.Speech.Voices) == 0 {
		cfg.Speech.Voices = defaultVoices
	}
	if cfg.Content.EventsPerRun == 0 {
		cfg.Content.EventsPerRun = defaultEventsPerRun
	}
	if cfg.Content.WordCount == 0 {
		cfg.Content.WordCount = defaultWordCount
	}
	if cfg.Content.MaxImagesPerEvent == 0 {
		cfg.Content.MaxImagesPerEvent = defaultMaxImages
	}
	if cfg.Video.Width == 0 {
		cfg.Video.Width = defaultVideoWidth
	}
	if cfg.Video.Height == 0 {
		cfg.Video.Height = defaultVideoHeight
	}
	if cfg.Video.FPS == 0 {
		cfg.Video.FPS = defaultVideoFPS
	}
	if cfg.Images.Model == "" {
		cfg.Images.Model = defaultImageModel
	}
	if cfg.Images.Width == 0 {
		cfg.Images.Width = defaultImageWidth
	}
	if cfg.Images.Height == 0 {
		cfg.Images.Height = defaultImageHeight
	}
	if cfg.YouTube.CategoryID == "" {
		cfg.YouTube.CategoryID = defaultCategoryID
	}
	if cfg.YouTube.PrivacyStatus == "" {
		cfg.YouTube.PrivacyStatus = defaultPrivacyStatus
	}
	if len(cfg.YouTube.DefaultTags) == 0 {
		cfg.YouTube.DefaultTags = defaultTags
	}
}

// PickVoice selects one of the configured narration voices at random.
func (c *Config) PickVoice() string {
	return c.Speech.Voices[rand.Intn(len(c.Speech.Voices))]
}

// Today is the run's logical date in YYYY-MM-DD form.
func Today() string {
	return time.Now().Format("2006-01-02")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
