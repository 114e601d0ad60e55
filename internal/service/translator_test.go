package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/Rob-Kornblum/legal-ease/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAPI struct {
	baseURL  string
	healthFn func(ctx context.Context) error
	simplify func(ctx context.Context, text string) (*model.SimplifyResult, error)
}

func (s *stubAPI) BaseURL() string { return s.baseURL }

func (s *stubAPI) Health(ctx context.Context) error {
	if s.healthFn == nil {
		return nil
	}
	return s.healthFn(ctx)
}

func (s *stubAPI) Simplify(ctx context.Context, text string) (*model.SimplifyResult, error) {
	return s.simplify(ctx, text)
}

func localStub(fn func(ctx context.Context, text string) (*model.SimplifyResult, error)) *stubAPI {
	return &stubAPI{baseURL: "http://localhost:8000", simplify: fn}
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, model.StatusUp, InitialStatus("http://localhost:8000"))
	assert.Equal(t, model.StatusUp, InitialStatus("http://127.0.0.1:8000"))
	assert.Equal(t, model.StatusUnknown, InitialStatus("https://legal-ease-backend.onrender.com"))

	tr := NewTranslator(&stubAPI{baseURL: "https://legal-ease-backend.onrender.com"})
	assert.Equal(t, model.StatusUnknown, tr.Snapshot().Status)
}

func TestTranslateEndToEnd(t *testing.T) {
	srv := fakeBackend(t, http.StatusOK, replyJSON(
		`{"result":"The parties agree to cover each other's legal costs.","category":"Contract"}`))
	tr := NewTranslator(NewSimplifyClient(srv.URL, time.Second, nil))
	require.Equal(t, model.StatusUp, tr.Snapshot().Status)

	st, err := tr.Translate(context.Background(), "Notwithstanding...")
	require.NoError(t, err)
	assert.Equal(t, "Notwithstanding...", st.Input)
	assert.Equal(t, "The parties agree to cover each other's legal costs.", st.Output)
	assert.Equal(t, "Contract", st.Category)
	assert.False(t, st.Loading)
	assert.Equal(t, model.StatusUp, st.Status)
	assert.Equal(t, st, tr.Snapshot())
}

func TestTranslateFailureMarksDown(t *testing.T) {
	tr := NewTranslator(localStub(func(context.Context, string) (*model.SimplifyResult, error) {
		return nil, errors.New("dial tcp: connection refused")
	}))

	st, err := tr.Translate(context.Background(), "The party of the first part...")
	require.NoError(t, err)
	assert.Equal(t, ConnectError, st.Output)
	assert.Empty(t, st.Category)
	assert.False(t, st.Loading)
	assert.Equal(t, model.StatusDown, st.Status)

	// down blocks further submits until a health check brings it back
	_, err = tr.Translate(context.Background(), "again")
	assert.ErrorIs(t, err, ErrBackendNotReady)
	assert.Equal(t, model.StatusUp, tr.CheckHealth(context.Background()))
	_, err = tr.Translate(context.Background(), "again")
	assert.NoError(t, err)
}

func TestTranslateClearsPreviousResult(t *testing.T) {
	calls := 0
	tr := NewTranslator(localStub(func(context.Context, string) (*model.SimplifyResult, error) {
		calls++
		if calls == 1 {
			return &model.SimplifyResult{PlainEnglish: "first", Category: "Contract"}, nil
		}
		return &model.SimplifyResult{PlainEnglish: NoResponse}, nil
	}))
	_, err := tr.Translate(context.Background(), "one")
	require.NoError(t, err)

	st, err := tr.Translate(context.Background(), "two")
	require.NoError(t, err)
	assert.Equal(t, NoResponse, st.Output)
	assert.Empty(t, st.Category)
}

func TestTranslatePreconditions(t *testing.T) {
	called := false
	tr := NewTranslator(localStub(func(context.Context, string) (*model.SimplifyResult, error) {
		called = true
		return &model.SimplifyResult{PlainEnglish: "x"}, nil
	}))

	_, err := tr.Translate(context.Background(), "   \n")
	assert.ErrorIs(t, err, ErrEmptyText)

	remote := NewTranslator(&stubAPI{baseURL: "https://api.example.com", simplify: tr.api.Simplify})
	_, err = remote.Translate(context.Background(), "text")
	assert.ErrorIs(t, err, ErrBackendNotReady)
	assert.False(t, called)
}

func TestSingleSubmitInFlight(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	tr := NewTranslator(localStub(func(context.Context, string) (*model.SimplifyResult, error) {
		close(entered)
		<-release
		return &model.SimplifyResult{PlainEnglish: "done"}, nil
	}))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		tr.Translate(context.Background(), "first")
	}()
	<-entered

	st := tr.Snapshot()
	assert.True(t, st.Loading)
	assert.True(t, st.SubmitDisabled())
	assert.Equal(t, "Translating...", st.SubmitLabel())
	assert.Empty(t, st.Output)

	_, err := tr.Translate(context.Background(), "second")
	assert.ErrorIs(t, err, ErrBusy)
	_, err = tr.GenerateExample()
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	wg.Wait()

	st = tr.Snapshot()
	assert.False(t, st.Loading)
	assert.False(t, st.SubmitDisabled())
	assert.Equal(t, "Translate", st.SubmitLabel())
	assert.Equal(t, "done", st.Output)
	assert.Equal(t, "first", st.Input)
}

func TestCheckHealth(t *testing.T) {
	probing := make(chan model.BackendStatus, 1)
	var tr *Translator
	api := &stubAPI{baseURL: "https://api.example.com"}
	api.healthFn = func(context.Context) error {
		probing <- tr.Snapshot().Status
		return nil
	}
	tr = NewTranslator(api)

	assert.Equal(t, model.StatusUp, tr.CheckHealth(context.Background()))
	assert.Equal(t, model.StatusUnknown, <-probing)
	assert.Equal(t, model.StatusUp, tr.Snapshot().Status)

	api.healthFn = func(context.Context) error { return errors.New("status 503") }
	assert.Equal(t, model.StatusDown, tr.CheckHealth(context.Background()))
	assert.Equal(t, model.StatusDown, tr.Snapshot().Status)
}

func TestGenerateExampleMembership(t *testing.T) {
	tr := NewTranslator(localStub(nil))
	tr.SetInput("something I typed")

	all := Examples()
	require.Len(t, all, 10)
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		st, err := tr.GenerateExample()
		require.NoError(t, err)
		assert.Contains(t, all, st.Input)
		seen[st.Input] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestGenerateExampleUsesPick(t *testing.T) {
	tr := NewTranslator(localStub(nil))
	tr.pick = func(n int) int { return n - 1 }
	st, err := tr.GenerateExample()
	require.NoError(t, err)
	assert.Equal(t, Examples()[9], st.Input)
}

func TestExamplesIsACopy(t *testing.T) {
	a := Examples()
	a[0] = "mutated"
	assert.NotEqual(t, "mutated", Examples()[0])
}
