// Package openai implements the ai capability ports against the OpenAI API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"tdih/internal/ai"
	"tdih/pkg/httputil"
)

const (
	baseURL = "https://api.openai.com/v1"
	timeout = 60 * time.Second
)

type Config struct {
	APIKey          string
	CompletionModel string
	SpeechModel     string
	WhisperModel    string
	ImageModel      string
}

type Client struct {
	apiKey          string
	completionModel string
	speechModel     string
	whisperModel    string
	imageModel      string
	baseURL         string
	httpClient      *http.Client
	downloadClient  *httputil.RetryClient
}

var (
	_ ai.Completer         = (*Client)(nil)
	_ ai.SpeechSynthesizer = (*Client)(nil)
	_ ai.Transcriber       = (*Client)(nil)
	_ ai.ImageGenerator    = (*Client)(nil)
)

type option func(*Client)

func withBaseURL(url string) option {
	return func(c *Client) {
		c.baseURL = url
	}
}

func withHTTPClient(client *http.Client) option {
	return func(c *Client) {
		c.httpClient = client
		c.downloadClient = httputil.NewRetryClient(client, httputil.DefaultRetryConfig())
	}
}

func NewClient(cfg Config) *Client {
	return newClient(cfg)
}

func newClient(cfg Config, opts ...option) *Client {
	httpClient := &http.Client{Timeout: timeout}
	c := &Client{
		apiKey:          cfg.APIKey,
		completionModel: cfg.CompletionModel,
		speechModel:     cfg.SpeechModel,
		whisperModel:    cfg.WhisperModel,
		imageModel:      cfg.ImageModel,
		baseURL:         baseURL,
		httpClient:      httpClient,
		downloadClient:  httputil.NewRetryClient(httpClient, httputil.DefaultRetryConfig()),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type chatRequest struct {
	Model    string       `json:"model"`
	Messages []ai.Message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) Complete(ctx context.Context, messages []ai.Message) (string, error) {
	body, err := json.Marshal(chatRequest{Model: c.completionModel, Messages: messages})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	respBody, err := c.post(ctx, "/chat/completions", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	var resp chatResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}

type speechRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	Voice          string `json:"voice"`
	ResponseFormat string `json:"response_format"`
}

func (c *Client) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	body, err := json.Marshal(speechRequest{
		Model:          c.speechModel,
		Input:          text,
		Voice:          voice,
		ResponseFormat: "mp3",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/speech", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("speech request returned %d: %w", resp.StatusCode, ai.ErrNoAudio)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}

	return audio, nil
}

func (c *Client) Transcribe(ctx context.Context, audio []byte) (*ai.Transcription, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	filePart, err := writer.CreateFormFile("file", "tts.mp3")
	if err != nil {
		return nil, fmt.Errorf("create file part: %w", err)
	}
	if _, err := filePart.Write(audio); err != nil {
		return nil, fmt.Errorf("write audio: %w", err)
	}

	fields := map[string]string{
		"model":           c.whisperModel,
		"language":        "en",
		"response_format": "verbose_json",
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("write field %s: %w", key, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close writer: %w", err)
	}

	respBody, err := c.post(ctx, "/audio/transcriptions", writer.FormDataContentType(), body)
	if err != nil {
		return nil, err
	}

	var transcription ai.Transcription
	if err := json.Unmarshal(respBody, &transcription); err != nil {
		return nil, fmt.Errorf("parse transcription: %w", err)
	}

	return &transcription, nil
}

type imageRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	Size    string `json:"size"`
	Quality string `json:"quality"`
	N       int    `json:"n"`
}

type imageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

func (c *Client) GenerateImage(ctx context.Context, prompt string, width, height int) ([]byte, error) {
	body, err := json.Marshal(imageRequest{
		Model:   c.imageModel,
		Prompt:  prompt,
		Size:    fmt.Sprintf("%dx%d", width, height),
		Quality: "hd",
		N:       1,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	respBody, err := c.post(ctx, "/images/generations", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var resp imageResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return nil, fmt.Errorf("no image URL in response")
	}

	return c.download(ctx, resp.Data[0].URL)
}

func (c *Client) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.downloadClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download image returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	return data, nil
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned %d: %s", path, resp.StatusCode, string(respBody))
	}

	return respBody, nil
}
