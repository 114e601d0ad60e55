package service

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"

	"github.com/Rob-Kornblum/legal-ease/internal/config"
	"github.com/Rob-Kornblum/legal-ease/internal/logger"
	"github.com/Rob-Kornblum/legal-ease/internal/model"
)

// ConnectError replaces the output when a submit cannot reach the backend.
const ConnectError = "Error: Could not connect to backend. Please try again later."

var (
	ErrEmptyText       = errors.New("text is required")
	ErrBusy            = errors.New("a translation is already in progress")
	ErrBackendNotReady = errors.New("backend is not confirmed up")
)

// Simplifier is the remote service as seen by a Translator.
type Simplifier interface {
	BaseURL() string
	Health(ctx context.Context) error
	Simplify(ctx context.Context, text string) (*model.SimplifyResult, error)
}

// Translator holds the form state of one client and runs its submit and
// health-check calls. At most one submit is in flight at a time; health
// checks are not serialized and the last one to finish sets the status.
type Translator struct {
	api  Simplifier
	pick func(n int) int

	mu    sync.Mutex
	state model.TranslatorState
}

func NewTranslator(api Simplifier) *Translator {
	return &Translator{
		api:   api,
		pick:  rand.Intn,
		state: model.TranslatorState{Status: InitialStatus(api.BaseURL())},
	}
}

// InitialStatus assumes a local backend is up; anything else is unknown
// until a health check says otherwise.
func InitialStatus(baseURL string) model.BackendStatus {
	if config.IsLocalURL(baseURL) {
		return model.StatusUp
	}
	return model.StatusUnknown
}

func (t *Translator) Snapshot() model.TranslatorState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// SetInput records what the user typed without submitting it.
func (t *Translator) SetInput(text string) {
	t.mu.Lock()
	t.state.Input = text
	t.mu.Unlock()
}

// Translate submits text for simplification. Precondition failures are
// returned as errors and leave the state untouched; a failed call is not an
// error for the caller but shows ConnectError and marks the backend down.
func (t *Translator) Translate(ctx context.Context, text string) (model.TranslatorState, error) {
	t.mu.Lock()
	if strings.TrimSpace(text) == "" {
		t.mu.Unlock()
		return t.Snapshot(), ErrEmptyText
	}
	if t.state.Loading {
		t.mu.Unlock()
		return t.Snapshot(), ErrBusy
	}
	if t.state.Status != model.StatusUp {
		t.mu.Unlock()
		return t.Snapshot(), ErrBackendNotReady
	}
	t.state.Input = text
	t.state.Loading = true
	t.state.Output = ""
	t.state.Category = ""
	t.mu.Unlock()

	res, err := t.api.Simplify(ctx, text)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Loading = false
	if err != nil {
		logger.Warn("translate.failed", "base_url", t.api.BaseURL(), "err", err)
		t.state.Output = ConnectError
		t.state.Category = ""
		t.state.Status = model.StatusDown
		return t.state, nil
	}
	logger.Info("translate.ok", "category", res.Category, "chars", len(text))
	t.state.Output = res.PlainEnglish
	t.state.Category = res.Category
	return t.state, nil
}

// CheckHealth probes the backend, showing unknown while the probe runs.
func (t *Translator) CheckHealth(ctx context.Context) model.BackendStatus {
	t.setStatus(model.StatusUnknown)

	status := model.StatusUp
	if err := t.api.Health(ctx); err != nil {
		logger.Warn("health.down", "base_url", t.api.BaseURL(), "err", err)
		status = model.StatusDown
	}
	t.setStatus(status)
	return status
}

// GenerateExample overwrites the input with a random built-in example.
func (t *Translator) GenerateExample() (model.TranslatorState, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state.Loading {
		return t.state, ErrBusy
	}
	t.state.Input = examples[t.pick(len(examples))]
	return t.state, nil
}

func (t *Translator) setStatus(s model.BackendStatus) {
	t.mu.Lock()
	t.state.Status = s
	t.mu.Unlock()
}
