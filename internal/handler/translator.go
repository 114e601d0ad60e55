package handler

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/Rob-Kornblum/legal-ease/internal/logger"
	"github.com/Rob-Kornblum/legal-ease/internal/model"
	"github.com/Rob-Kornblum/legal-ease/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// LoadTemplates parses the embedded page templates.
func LoadTemplates() (*template.Template, error) {
	return template.ParseFS(templatesFS, "templates/*.tmpl")
}

type TranslatorHandler struct {
	sessions *Sessions
	baseURL  string
}

func NewTranslatorHandler(sessions *Sessions, baseURL string) *TranslatorHandler {
	return &TranslatorHandler{sessions: sessions, baseURL: baseURL}
}

type pageView struct {
	State   model.TranslatorState
	BaseURL string
	Notice  string
}

func (v pageView) ExampleDisabled() bool { return v.State.Loading }

// GET /
func (h *TranslatorHandler) Page(c *gin.Context) {
	h.render(c, http.StatusOK, h.sessions.Translator(c).Snapshot(), "")
}

// POST /translate  form: text
func (h *TranslatorHandler) Translate(c *gin.Context) {
	tr := h.sessions.Translator(c)
	text := c.PostForm("text")
	st, err := tr.Translate(detach(c), text)
	if err != nil {
		tr.SetInput(text)
		st = tr.Snapshot()
		h.render(c, statusFor(err), st, noticeFor(err))
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// POST /example
func (h *TranslatorHandler) Example(c *gin.Context) {
	tr := h.sessions.Translator(c)
	if st, err := tr.GenerateExample(); err != nil {
		h.render(c, statusFor(err), st, noticeFor(err))
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// POST /wake  form: text (kept as the current input)
func (h *TranslatorHandler) Wake(c *gin.Context) {
	tr := h.sessions.Translator(c)
	if text, ok := c.GetPostForm("text"); ok {
		tr.SetInput(text)
	}
	tr.CheckHealth(detach(c))
	c.Redirect(http.StatusSeeOther, "/")
}

// GET /api/state
func (h *TranslatorHandler) State(c *gin.Context) {
	c.JSON(http.StatusOK, h.sessions.Translator(c).Snapshot())
}

// POST /api/translate  body: {"text":"..."}
func (h *TranslatorHandler) APITranslate(c *gin.Context) {
	tr := h.sessions.Translator(c)
	var req model.SimplifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindMessage(err)})
		return
	}
	st, err := tr.Translate(detach(c), req.Text)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error(), "state": st})
		return
	}
	c.JSON(http.StatusOK, st)
}

// POST /api/example
func (h *TranslatorHandler) APIExample(c *gin.Context) {
	st, err := h.sessions.Translator(c).GenerateExample()
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error(), "state": st})
		return
	}
	c.JSON(http.StatusOK, st)
}

// POST /api/health
func (h *TranslatorHandler) APIHealth(c *gin.Context) {
	tr := h.sessions.Translator(c)
	tr.CheckHealth(detach(c))
	c.JSON(http.StatusOK, tr.Snapshot())
}

func (h *TranslatorHandler) render(c *gin.Context, code int, st model.TranslatorState, notice string) {
	c.HTML(code, "index", pageView{State: st, BaseURL: h.baseURL, Notice: notice})
}

// detach keeps the upstream call alive if the browser goes away mid-request;
// the simplify client bounds it with its own timeout.
func detach(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrEmptyText):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, service.ErrBackendNotReady):
		return http.StatusServiceUnavailable
	}
	logger.Error("unexpected translator error", "err", err)
	return http.StatusInternalServerError
}

// bindMessage tells a missing text field apart from a malformed body.
func bindMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return service.ErrEmptyText.Error()
	}
	return "invalid request body"
}

func noticeFor(err error) string {
	switch {
	case errors.Is(err, service.ErrEmptyText):
		return "Please enter some legal text first."
	case errors.Is(err, service.ErrBusy):
		return "A translation is already running."
	case errors.Is(err, service.ErrBackendNotReady):
		return "The server is not confirmed up yet. Press \"Wake Up Server\" and try again."
	}
	return "Something went wrong."
}
