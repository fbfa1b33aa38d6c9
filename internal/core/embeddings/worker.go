package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	workerDefaultTimeout = 8 * time.Second
	workerDefaultRPS     = 2
	workerLimiterBurst   = 2
)

// WorkerProvider calls a deployed embedding worker:
// POST {url} {"texts":[...]} -> {"embeddings":[[...],...]} aligned by index.
type WorkerProvider struct {
	url         string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

type WorkerConfig struct {
	URL     string
	Timeout time.Duration
	RPS     float64
}

type workerRequest struct {
	Texts []string `json:"texts"`
}

type workerResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

func NewWorkerProvider(cfg WorkerConfig) *WorkerProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = workerDefaultTimeout
	}

	rps := cfg.RPS
	if rps <= 0 {
		rps = workerDefaultRPS
	}

	return &WorkerProvider{
		url: cfg.URL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(rps), workerLimiterBurst),
	}
}

func (p *WorkerProvider) Name() ProviderName {
	return ProviderWorker
}

func (p *WorkerProvider) IsAvailable() bool {
	return p.url != ""
}

// Embed returns ErrUnavailable on any transport, status, or decode failure.
func (p *WorkerProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if !p.IsAvailable() || len(texts) == 0 {
		return nil, ErrUnavailable
	}

	if len(texts) > MaxBatchSize {
		return nil, ErrBatchTooLarge
	}

	if err := p.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %w", ErrUnavailable, err)
	}

	payload, err := json.Marshal(workerRequest{Texts: texts})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %w", ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", ErrUnavailable, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var parsed workerResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrUnavailable, err)
	}

	if parsed.Embeddings == nil {
		return nil, ErrUnavailable
	}

	return parsed.Embeddings, nil
}
