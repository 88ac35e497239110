package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"tdih/internal/ai"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return newClient(Config{
		APIKey:          "test-key",
		CompletionModel: "gpt-4o",
		SpeechModel:     "tts-1",
		WhisperModel:    "whisper-1",
		ImageModel:      "dall-e-3",
	}, withBaseURL(server.URL), withHTTPClient(server.Client()))
}

func TestComplete(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q, want /chat/completions", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization = %q", auth)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "gpt-4o" {
			t.Errorf("model = %q, want gpt-4o", req.Model)
		}
		if len(req.Messages) != 2 {
			t.Errorf("got %d messages, want 2", len(req.Messages))
		}

		fmt.Fprint(w, `{"choices":[{"message":{"content":"a response"}}]}`)
	}))

	got, err := client.Complete(context.Background(), []ai.Message{
		{Role: ai.RoleSystem, Content: "system"},
		{Role: ai.RoleUser, Content: "user"},
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "a response" {
		t.Errorf("Complete() = %q, want %q", got, "a response")
	}
}

func TestCompleteNoChoices(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))

	if _, err := client.Complete(context.Background(), []ai.Message{{Role: ai.RoleUser, Content: "hi"}}); err == nil {
		t.Fatal("Complete() error = nil, want error for empty choices")
	}
}

func TestSynthesize(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/speech" {
			t.Errorf("path = %q, want /audio/speech", r.URL.Path)
		}

		var req speechRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Voice != "alloy" {
			t.Errorf("voice = %q, want alloy", req.Voice)
		}
		if req.ResponseFormat != "mp3" {
			t.Errorf("response_format = %q, want mp3", req.ResponseFormat)
		}

		_, _ = w.Write([]byte("mp3 bytes"))
	}))

	audio, err := client.Synthesize(context.Background(), "some text", "alloy")
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if string(audio) != "mp3 bytes" {
		t.Errorf("Synthesize() = %q, want %q", audio, "mp3 bytes")
	}
}

func TestSynthesizeErrorIsNoAudio(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))

	_, err := client.Synthesize(context.Background(), "some text", "alloy")
	if !errors.Is(err, ai.ErrNoAudio) {
		t.Fatalf("Synthesize() error = %v, want ErrNoAudio", err)
	}
}

func TestTranscribe(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("path = %q, want /audio/transcriptions", r.URL.Path)
		}

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart form: %v", err)
		}
		if model := r.FormValue("model"); model != "whisper-1" {
			t.Errorf("model = %q, want whisper-1", model)
		}
		if format := r.FormValue("response_format"); format != "verbose_json" {
			t.Errorf("response_format = %q, want verbose_json", format)
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("file part missing: %v", err)
		}

		fmt.Fprint(w, `{"duration":4.2,"segments":[{"start":0,"end":2.1,"text":"first"},{"start":2.1,"end":4.2,"text":"second"}]}`)
	}))

	transcription, err := client.Transcribe(context.Background(), []byte("mp3 bytes"))
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if transcription.Duration != 4.2 {
		t.Errorf("Duration = %v, want 4.2", transcription.Duration)
	}
	if len(transcription.Segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(transcription.Segments))
	}
	if transcription.Segments[1].Text != "second" {
		t.Errorf("Segments[1].Text = %q, want %q", transcription.Segments[1].Text, "second")
	}
}

func TestGenerateImage(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	mux.HandleFunc("/images/generations", func(w http.ResponseWriter, r *http.Request) {
		var req imageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Size != "1024x1024" {
			t.Errorf("size = %q, want 1024x1024", req.Size)
		}
		if req.N != 1 {
			t.Errorf("n = %d, want 1", req.N)
		}

		fmt.Fprintf(w, `{"data":[{"url":"%s/generated.png"}]}`, server.URL)
	})
	mux.HandleFunc("/generated.png", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("png bytes"))
	})

	client := newClient(Config{APIKey: "test-key", ImageModel: "dall-e-3"},
		withBaseURL(server.URL), withHTTPClient(server.Client()))

	data, err := client.GenerateImage(context.Background(), "a prompt", 1024, 1024)
	if err != nil {
		t.Fatalf("GenerateImage() error = %v", err)
	}
	if string(data) != "png bytes" {
		t.Errorf("GenerateImage() = %q, want %q", data, "png bytes")
	}
}

func TestGenerateImageNoURL(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[]}`)
	}))

	if _, err := client.GenerateImage(context.Background(), "a prompt", 1024, 1024); err == nil {
		t.Fatal("GenerateImage() error = nil, want error for missing URL")
	}
}
