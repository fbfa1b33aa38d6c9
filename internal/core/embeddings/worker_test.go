package embeddings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorker(url string) *WorkerProvider {
	return NewWorkerProvider(WorkerConfig{URL: url, Timeout: 2 * time.Second, RPS: 100})
}

func TestWorkerProvider_Embed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req workerRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"one", "two"}, req.Texts)

		_, _ = w.Write([]byte(`{"embeddings": [[0.1, 0.2], [0.3, 0.4]]}`))
	}))
	defer ts.Close()

	vectors, err := newTestWorker(ts.URL).Embed(context.Background(), []string{"one", "two"})
	require.NoError(t, err)

	require.Len(t, vectors, 2)
	assert.InDelta(t, 0.3, vectors[1][0], 1e-6)
}

func TestWorkerProvider_SoftFailures(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-success status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
		},
		{
			name: "missing embeddings field",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"something": "else"}`))
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(tc.handler)
			defer ts.Close()

			vectors, err := newTestWorker(ts.URL).Embed(context.Background(), []string{"text"})
			require.ErrorIs(t, err, ErrUnavailable)
			assert.Nil(t, vectors)
		})
	}
}

func TestWorkerProvider_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"embeddings": [[0.1]]}`))
	}))
	defer ts.Close()

	p := NewWorkerProvider(WorkerConfig{URL: ts.URL, Timeout: 50 * time.Millisecond, RPS: 100})

	_, err := p.Embed(context.Background(), []string{"text"})
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestWorkerProvider_BatchCap(t *testing.T) {
	texts := make([]string, MaxBatchSize+1)
	for i := range texts {
		texts[i] = "t"
	}

	_, err := newTestWorker("https://embed.example.com").Embed(context.Background(), texts)
	require.ErrorIs(t, err, ErrBatchTooLarge)
}

func TestWorkerProvider_Unconfigured(t *testing.T) {
	p := NewWorkerProvider(WorkerConfig{})
	assert.False(t, p.IsAvailable())

	_, err := p.Embed(context.Background(), []string{"text"})
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestCosineSimilarity(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
		{"length mismatch", []float32{1}, []float32{1, 0}, 0},
		{"nil", nil, nil, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, CosineSimilarity(tc.a, tc.b), 1e-9)
		})
	}
}
