package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Rob-Kornblum/legal-ease/internal/metrics"
	"github.com/Rob-Kornblum/legal-ease/internal/model"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend stands in for the remote simplification service.
func fakeBackend(t *testing.T, healthCode int, simplify http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(healthCode)
		w.Write([]byte(`{"status":"ok"}`))
	})
	mux.HandleFunc("/simplify", simplify)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func replyJSON(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}
}

func TestParseSimplifyResponse(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		text     string
		category string
	}{
		{"result only", `{"result":"X"}`, "X", ""},
		{"response wins over result", `{"response":"X","result":"Y"}`, "X", ""},
		{"result wins over plain_english", `{"result":"Y","plain_english":"Z"}`, "Y", ""},
		{"plain_english only", `{"plain_english":"Z","category":"Real Estate"}`, "Z", "Real Estate"},
		{"empty response falls through", `{"response":"","result":"Y"}`, "Y", ""},
		{"non-string ignored", `{"response":42,"result":"Y"}`, "Y", ""},
		{"none recognized", `{"detail":"boom"}`, NoResponse, ""},
		{"empty object", `{}`, NoResponse, ""},
		{"non-string category ignored", `{"response":"X","category":7}`, "X", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := ParseSimplifyResponse([]byte(tc.body))
			require.NoError(t, err)
			assert.Equal(t, tc.text, res.PlainEnglish)
			assert.Equal(t, tc.category, res.Category)
		})
	}
}

func TestParseSimplifyResponseInvalid(t *testing.T) {
	for _, body := range []string{`not json`, `["a"]`, `null`, ``} {
		_, err := ParseSimplifyResponse([]byte(body))
		assert.Error(t, err, body)
	}
}

func TestSimplifySendsText(t *testing.T) {
	var got model.SimplifyRequest
	srv := fakeBackend(t, http.StatusOK, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"result":"The parties agree to cover each other's legal costs.","category":"Contract"}`))
	})

	m := metrics.New()
	c := NewSimplifyClient(srv.URL+"/", time.Second, m)
	res, err := c.Simplify(context.Background(), "Notwithstanding...")
	require.NoError(t, err)

	assert.Equal(t, "Notwithstanding...", got.Text)
	assert.Equal(t, "The parties agree to cover each other's legal costs.", res.PlainEnglish)
	assert.Equal(t, "Contract", res.Category)
	assert.Equal(t, srv.URL, c.BaseURL())
	n, err := testutil.GatherAndCount(m.Registry(), "legalease_simplify_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSimplifyErrors(t *testing.T) {
	t.Run("http error status", func(t *testing.T) {
		srv := fakeBackend(t, http.StatusOK, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"detail":"OpenAI API failed"}`))
		})
		_, err := NewSimplifyClient(srv.URL, time.Second, nil).Simplify(context.Background(), "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "500")
	})

	t.Run("non-json body", func(t *testing.T) {
		srv := fakeBackend(t, http.StatusOK, replyJSON(`<html>bad gateway</html>`))
		_, err := NewSimplifyClient(srv.URL, time.Second, nil).Simplify(context.Background(), "x")
		assert.Error(t, err)
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := fakeBackend(t, http.StatusOK, replyJSON(`{}`))
		url := srv.URL
		srv.Close()
		_, err := NewSimplifyClient(url, time.Second, nil).Simplify(context.Background(), "x")
		assert.Error(t, err)
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		srv := fakeBackend(t, http.StatusOK, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		})
		defer close(release)
		start := time.Now()
		_, err := NewSimplifyClient(srv.URL, 50*time.Millisecond, nil).Simplify(context.Background(), "x")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), 5*time.Second)
	})
}

func TestHealth(t *testing.T) {
	ok := fakeBackend(t, http.StatusOK, replyJSON(`{}`))
	assert.NoError(t, NewSimplifyClient(ok.URL, time.Second, nil).Health(context.Background()))

	noContent := fakeBackend(t, http.StatusNoContent, replyJSON(`{}`))
	assert.NoError(t, NewSimplifyClient(noContent.URL, time.Second, nil).Health(context.Background()))

	bad := fakeBackend(t, http.StatusServiceUnavailable, replyJSON(`{}`))
	assert.Error(t, NewSimplifyClient(bad.URL, time.Second, nil).Health(context.Background()))

	gone := fakeBackend(t, http.StatusOK, replyJSON(`{}`))
	url := gone.URL
	gone.Close()
	assert.Error(t, NewSimplifyClient(url, time.Second, nil).Health(context.Background()))
}
