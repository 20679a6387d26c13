package app

import (
	"time"

	"github.com/debtprotection/blog-core/internal/config"
	pkgcron "github.com/debtprotection/blog-core/internal/pkg/cron"
	"github.com/debtprotection/blog-core/internal/pkg/metrics"
)

// registerCronJobs registers all scheduled background jobs.
func registerCronJobs(sched *pkgcron.Scheduler, svcs *services, cfg *config.AppConfig) error {
	sched.OnDone(func(name string, elapsed time.Duration, err error) {
		metrics.ObserveJob(name, elapsed.Seconds(), err)
	})
	return sched.Register(svcs.articles.PublishJob(cfg.Scheduler.Every))
}
