package article

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/debtprotection/blog-core/internal/pkg/cron"
)

// PublishJob is the cron job that releases Scheduled articles once their time has come.
func (s *Service) PublishJob(every time.Duration) cron.Job {
	return cron.Job{
		Name:        PublishJobName,
		Description: "Publish scheduled articles whose scheduledAt has passed",
		Interval:    every,
		Fn: func(ctx context.Context) error {
			n, err := s.PublishDue(ctx)
			if n > 0 {
				s.log.Info("scheduled articles released", zap.Int("count", n))
			}
			return err
		},
	}
}
