package fetcharticles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	serrors "gridiron-workers/internal/common/errors"
	"gridiron-workers/internal/common/metrics"
	"gridiron-workers/internal/models"
	"gridiron-workers/internal/news"
)

const (
	TaskType = "fetch-articles"
)

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

type Handler struct {
	config       *Config
	fetcher      *news.Fetcher
	errorHandler *serrors.ErrorHandler
	logger       Logger
}

func NewHandler(config *Config, fetcher *news.Fetcher, errorHandler *serrors.ErrorHandler, log Logger) *Handler {
	return &Handler{
		config:       config,
		fetcher:      fetcher,
		errorHandler: errorHandler,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, fmt.Errorf("parse input: %w", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, err)
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

// execute pulls the configured feeds. Individual source failures are absorbed
// inside the fetcher; the job only fails when no source responded at all,
// which usually means a network-level outage worth retrying. Healthy sources
// with nothing to report complete with an empty batch.
func (h *Handler) execute(ctx context.Context, _ *Input) (*Output, error) {
	if len(h.config.Sources) == 0 {
		return nil, serrors.NewFeedFetchFailedError("config", errors.New("no news sources configured"))
	}

	articles, healthy := h.fetcher.FetchAll(ctx, h.config.Sources)
	if healthy == 0 {
		return nil, serrors.NewFeedFetchFailedError("all", errors.New("every configured source failed"))
	}
	if articles == nil {
		articles = []models.NewsArticle{}
	}

	h.logger.Info("articles fetched", map[string]interface{}{
		"sources":  len(h.config.Sources),
		"articles": len(articles),
	})

	return &Output{
		Articles:  articles,
		FetchedAt: time.Now().UTC(),
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)

	if err != nil {
		h.logger.Error("Failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("Failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	code := "INTERNAL_ERROR"
	var stdErr *serrors.StandardError
	if errors.As(err, &stdErr) {
		code = string(stdErr.Code)
	}
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, code).Inc()

	h.errorHandler.HandleJobError(context.Background(), client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
