package handler

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Rob-Kornblum/legal-ease/internal/logger"
	"github.com/Rob-Kornblum/legal-ease/internal/metrics"
	"github.com/Rob-Kornblum/legal-ease/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionCookie = "legalese_session"

type session struct {
	tr       *service.Translator
	lastSeen atomic.Int64
}

// Sessions maps a browser cookie to that browser's Translator.
type Sessions struct {
	ttl     time.Duration
	newTr   func() *service.Translator
	metrics *metrics.Metrics
	log     *slog.Logger

	items sync.Map // id -> *session
	count atomic.Int64
}

func NewSessions(ttl time.Duration, newTr func() *service.Translator, m *metrics.Metrics) *Sessions {
	return &Sessions{ttl: ttl, newTr: newTr, metrics: m, log: logger.Component("session")}
}

// Translator returns the caller's Translator, starting a session if the
// request carries no known cookie.
func (s *Sessions) Translator(c *gin.Context) *service.Translator {
	now := time.Now().UnixNano()
	if id, err := c.Cookie(sessionCookie); err == nil {
		if v, ok := s.items.Load(id); ok {
			sess := v.(*session)
			sess.lastSeen.Store(now)
			return sess.tr
		}
	}

	id := uuid.NewString()
	sess := &session{tr: s.newTr()}
	sess.lastSeen.Store(now)
	s.items.Store(id, sess)
	s.metrics.SetSessions(int(s.count.Add(1)))
	s.log.Debug("session.start", "id", id)

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, int(s.ttl.Seconds()), "/", "", false, true)
	return sess.tr
}

// Sweep drops sessions idle longer than the TTL. A session with a submit
// still in flight is kept.
func (s *Sessions) Sweep(now time.Time) int {
	removed := 0
	s.items.Range(func(k, v any) bool {
		sess := v.(*session)
		idle := now.Sub(time.Unix(0, sess.lastSeen.Load()))
		if idle > s.ttl && !sess.tr.Snapshot().Loading {
			s.items.Delete(k)
			removed++
		}
		return true
	})
	if removed > 0 {
		s.metrics.SetSessions(int(s.count.Add(int64(-removed))))
		s.log.Debug("session.sweep", "removed", removed)
	}
	return removed
}

func (s *Sessions) Len() int { return int(s.count.Load()) }

// Run sweeps periodically until ctx is done.
func (s *Sessions) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Sweep(now)
		}
	}
}
