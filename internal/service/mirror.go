package service

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/campanha-inteligente/ideas-wall/internal/models"
	"github.com/campanha-inteligente/ideas-wall/internal/pkg/log"
)

const defaultMirrorTimeout = 10 * time.Second

var mirrorSyncs = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ideas",
	Subsystem: "mirror",
	Name:      "sync_total",
	Help:      "Синхронизации идей с таблицей по результату.",
}, []string{"result"})

// mirrorJob — последний ещё не отправленный снимок идеи.
type mirrorJob struct {
	idea models.Idea
	ctx  context.Context
}

// syncMirror ставит полный снимок идеи в очередь зеркала и сразу возвращается.
// Для одной идеи синхронизации идут строго по очереди; ожидающий снимок заменяется
// более новым, поэтому в таблице остаётся последнее состояние. Ошибки только логируются.
func (s *Service) syncMirror(ctx context.Context, idea *models.Idea) {
	if s.mirror == nil || idea == nil {
		return
	}

	job := mirrorJob{
		idea: idea.Clone(),
		// Запрос клиента может завершиться раньше синхронизации.
		ctx: context.WithoutCancel(ctx),
	}

	s.mirrorMu.Lock()
	defer s.mirrorMu.Unlock()

	if _, ok := s.mirrorNext[job.idea.ID]; ok {
		mirrorSyncs.WithLabelValues("superseded").Inc()
	}
	s.mirrorNext[job.idea.ID] = job

	if s.mirrorBusy[job.idea.ID] {
		return
	}
	s.mirrorBusy[job.idea.ID] = true

	s.pending.Add(1)
	go s.drainMirror(job.idea.ID)
}

// drainMirror отправляет снимки идеи id, пока они появляются.
func (s *Service) drainMirror(id string) {
	defer s.pending.Done()

	timeout := s.cfg.Mirror.Timeout
	if timeout <= 0 {
		timeout = defaultMirrorTimeout
	}

	for {
		s.mirrorMu.Lock()
		job, ok := s.mirrorNext[id]
		if !ok {
			delete(s.mirrorBusy, id)
			s.mirrorMu.Unlock()
			return
		}
		delete(s.mirrorNext, id)
		s.mirrorMu.Unlock()

		s.pushMirror(job, timeout)
	}
}

func (s *Service) pushMirror(job mirrorJob, timeout time.Duration) {
	lg := log.From(job.ctx).With("op", "service/mirror/SyncIdea", "idea_id", job.idea.ID)

	ctx, cancel := context.WithTimeout(job.ctx, timeout)
	defer cancel()

	if err := s.mirror.SyncIdea(ctx, job.idea); err != nil {
		mirrorSyncs.WithLabelValues("error").Inc()
		lg.Warn("mirror sync failed", "err", err)
		return
	}

	mirrorSyncs.WithLabelValues("ok").Inc()
	lg.Debug("mirror synced")
}
