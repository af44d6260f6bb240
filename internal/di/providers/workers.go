package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/tublog/tublog-server/internal/logger"
	"github.com/tublog/tublog-server/internal/service"
)

// sessionCleanupInterval is how often expired sessions are purged.
const sessionCleanupInterval = time.Hour

// SessionCleanupJob runs periodic session cleanup.
type SessionCleanupJob struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Shutdown implements do.Shutdownable.
func (j *SessionCleanupJob) Shutdown() error {
	j.cancel()
	<-j.done
	return nil
}

// ProvideSessionCleanupJob provides the periodic session cleanup job.
func ProvideSessionCleanupJob(i do.Injector) (*SessionCleanupJob, error) {
	sessions := do.MustInvoke[*service.SessionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())
	job := &SessionCleanupJob{cancel: cancel, done: make(chan struct{})}

	cleanup := func(msg string) {
		if count, err := sessions.DeleteExpiredSessions(ctx); err != nil {
			log.Warn(msg+" failed", "error", err)
		} else if count > 0 {
			log.Info(msg+" completed", "deleted", count)
		}
	}

	go func() {
		defer close(job.done)

		ticker := time.NewTicker(sessionCleanupInterval)
		defer ticker.Stop()

		cleanup("Initial session cleanup")

		for {
			select {
			case <-ticker.C:
				cleanup("Session cleanup")
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Session cleanup job started")

	return job, nil
}
