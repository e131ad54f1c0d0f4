// Package worker runs background jobs dequeued from Redis.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/prepvoice/backend/internal/archive"
	"github.com/prepvoice/backend/pkg/queue"
)

// ReportArchiver consumes report archive jobs and writes them to Postgres.
type ReportArchiver struct {
	repo   *archive.Repository
	queue  *queue.Queue
	logger *zap.Logger
}

// NewReportArchiver creates a report archive processor.
func NewReportArchiver(repo *archive.Repository, q *queue.Queue, logger *zap.Logger) *ReportArchiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportArchiver{repo: repo, queue: q, logger: logger}
}

// Process executes one report archive job.
func (p *ReportArchiver) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeReportArchive {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.ReportArchivePayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	rec := payload.Record
	if err := p.repo.Insert(ctx, &rec); err != nil {
		return fmt.Errorf("insert report: %w", err)
	}

	p.logger.Info("report archived",
		zap.String("session_id", rec.SessionID),
		zap.Float64("avg_score", rec.AverageScore),
	)
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *ReportArchiver) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("report archiver stopping")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Warn("dequeue error", zap.Error(err))
			time.Sleep(queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			time.Sleep(queue.RetryBackoff)
		}
	}
}
