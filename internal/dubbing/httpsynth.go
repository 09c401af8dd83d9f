package dubbing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	ihttp "dubsync/internal/http"
	"dubsync/models"
)

// HTTPSynthesizer is a VoiceSynthesizer that speaks to a neural TTS backend
// over the synthesizer RPC contract (§6): POST {text, voice, rate}, get back
// a compressed audio byte stream.
type HTTPSynthesizer struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTPSynthesizer builds an HTTPSynthesizer against endpoint, using a
// named pooled client from the shared client registry so every synthesizer
// instance pointed at the same backend reuses one connection pool.
func NewHTTPSynthesizer(name, endpoint, apiKey string) *HTTPSynthesizer {
	return &HTTPSynthesizer{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   ihttp.ClientFor(name, ihttp.DefaultClientConfig()),
	}
}

type synthesizeRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
	Rate  string `json:"rate"`
}

// Synthesize implements VoiceSynthesizer. The returned stream's bytes are
// compressed audio (e.g. MP3); the caller is responsible for running them
// through the audio toolkit's Convert step before measuring or stretching.
func (s *HTTPSynthesizer) Synthesize(ctx context.Context, text, voice string, rate models.AdaptiveRate) (io.ReadCloser, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("synthesize: empty text")
	}

	reqBody, err := json.Marshal(synthesizeRequest{Text: text, Voice: voice, Rate: rate.String()})
	if err != nil {
		return nil, fmt.Errorf("synthesize: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("synthesize: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := ihttp.DoWithRetryContext(ctx, s.client, req, ihttp.DefaultRetryConfig())
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("synthesize: status %d: %s", resp.StatusCode, string(body))
	}

	if resp.ContentLength == 0 {
		resp.Body.Close()
		return nil, fmt.Errorf("synthesize: empty audio stream")
	}

	return resp.Body, nil
}
