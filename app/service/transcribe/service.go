package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"truevalue/app/config"

	"github.com/samber/do"
)

const whisperURL = "https://api.openai.com/v1/audio/transcriptions"

// Service turns Telegram voice notes into text via the Whisper REST API.
// It is inert when no API token is configured.
type Service struct {
	cfg        *config.Config
	httpClient *http.Client
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		cfg: do.MustInvoke[*config.Config](di),
		httpClient: &http.Client{
			Timeout: time.Minute,
		},
	}, nil
}

func (s *Service) Available() bool {
	return s.cfg.Whisper.Token != ""
}

// TranscribeURL downloads the voice file and submits it for transcription.
func (s *Service) TranscribeURL(ctx context.Context, fileURL string) (string, error) {
	if !s.Available() {
		return "", fmt.Errorf("transcription is not configured")
	}

	audio, err := s.downloadFile(ctx, fileURL)
	if err != nil {
		return "", fmt.Errorf("failed to download voice file: %w", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "voice.ogg")
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err = part.Write(audio); err != nil {
		return "", fmt.Errorf("failed to write form file: %w", err)
	}
	if err = writer.WriteField("model", "whisper-1"); err != nil {
		return "", fmt.Errorf("failed to write model field: %w", err)
	}
	if err = writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, whisperURL, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.Whisper.Token)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("transcription failed with status %d: %s", resp.StatusCode, string(errBody))
	}

	var result struct {
		Text string `json:"text"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode transcription response: %w", err)
	}

	return result.Text, nil
}

func (s *Service) downloadFile(ctx context.Context, fileURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
