package huggingface

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/legal-assistant/internal/domain/summarizer"
)

func TestSummarizationModel(t *testing.T) {
	t.Parallel()
	var (
		gotPath string
		gotAuth string
		gotBody map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"summary_text":"The agreement may be ended at once."}]`))
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{BaseURL: srv.URL + "/", APIToken: "hf_test"}, testLogger())
	require.NoError(t, err)
	model := NewSummarizationModel(client, "facebook/bart-large-cnn")

	out, err := model.Summarize(context.Background(), "long contract", summarizer.Params{MaxLength: 200, MinLength: 30, Truncation: true})
	require.NoError(t, err)
	require.Equal(t, []summarizer.Candidate{{Text: "The agreement may be ended at once."}}, out)
	require.Equal(t, "/models/facebook/bart-large-cnn", gotPath)
	require.Equal(t, "Bearer hf_test", gotAuth)
	require.Equal(t, "long contract", gotBody["inputs"])
	require.Equal(t, map[string]any{"max_length": float64(200), "min_length": float64(30), "truncation": true}, gotBody["parameters"])
}

func TestNLIClassifierResponseShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "flat", body: `[{"label":"NEUTRAL","score":0.2},{"label":"ENTAILMENT","score":0.7}]`, want: "ENTAILMENT"},
		{name: "nested", body: `[[{"label":"ENTAILMENT","score":0.9},{"label":"CONTRADICTION","score":0.1}]]`, want: "ENTAILMENT"},
		{name: "empty nested", body: `[]`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var gotBody map[string]map[string]string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(srv.Close)

			client, err := NewClient(Config{BaseURL: srv.URL}, testLogger())
			require.NoError(t, err)
			labels, err := NewNLIClassifier(client, "roberta-large-mnli").Classify(context.Background(), "premise", "hypothesis")
			require.NoError(t, err)
			require.Equal(t, map[string]string{"text": "premise", "text_pair": "hypothesis"}, gotBody["inputs"])
			if tt.want == "" {
				require.Empty(t, labels)
				return
			}
			require.Equal(t, tt.want, labels[0].Label)
		})
	}
}

func TestClientErrors(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/models/loading":
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"Model loading","estimated_time":20.0}`))
		case "/models/garbled":
			_, _ = w.Write([]byte(`{"not":"a list"}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`boom`))
		}
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{BaseURL: srv.URL, Timeout: 5 * time.Second}, testLogger())
	require.NoError(t, err)

	_, err = client.Summarize(context.Background(), "loading", "x", SummaryParams{})
	require.ErrorContains(t, err, "status=503 error=Model loading")

	_, err = client.Classify(context.Background(), "garbled", "a", "b")
	require.ErrorContains(t, err, "decode classification response")

	_, err = client.Summarize(context.Background(), "other", "x", SummaryParams{})
	require.ErrorContains(t, err, "status=500 body=boom")

	_, err = client.Summarize(context.Background(), " ", "x", SummaryParams{})
	require.ErrorContains(t, err, "model cannot be empty")
}

func TestNewClientRejectsBadURL(t *testing.T) {
	t.Parallel()
	_, err := NewClient(Config{BaseURL: "::not a url"}, testLogger())
	require.Error(t, err)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
