package resolveentity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"gridiron-workers/internal/catalog"
	serrors "gridiron-workers/internal/common/errors"
	"gridiron-workers/internal/common/metrics"
	"gridiron-workers/internal/models"
	"gridiron-workers/internal/nlu"
)

const (
	TaskType = "resolve-entity"
)

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// CatalogSource yields the active catalog snapshot; nil before the first load.
type CatalogSource interface {
	Snapshot() *catalog.Snapshot
}

type Handler struct {
	config       *Config
	catalogs     CatalogSource
	errorHandler *serrors.ErrorHandler
	logger       Logger
}

func NewHandler(config *Config, catalogs CatalogSource, errorHandler *serrors.ErrorHandler, log Logger) *Handler {
	return &Handler{
		config:       config,
		catalogs:     catalogs,
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

// execute resolves the query subject to a canonical entity. Resolution is a
// pure function of the query and the active snapshot, so a retried job with
// the same input yields the same result.
func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	snap := h.catalogs.Snapshot()
	if snap == nil {
		return nil, serrors.NewCatalogLoadFailedError("catalog snapshot not loaded yet")
	}

	q := input.Query
	if q.Intent == models.IntentUnknown || q.Intent == "" {
		return nil, serrors.NewUnknownIntentError(q.RawText)
	}

	entity, err := nlu.Resolve(q.SubjectTokens, q.Hints, snap, nlu.ResolverConfig{
		FuzzyThreshold: h.config.FuzzyThreshold,
	})
	if err != nil {
		var ambiguous *nlu.AmbiguousEntityError
		if errors.As(err, &ambiguous) {
			metrics.ResolutionOutcomes.WithLabelValues("ambiguous").Inc()
			return nil, serrors.NewAmbiguousEntityError(ambiguous.Phrase, h.candidateNames(snap, ambiguous.Candidates))
		}
		var notFound *nlu.NotFoundError
		if errors.As(err, &notFound) {
			metrics.ResolutionOutcomes.WithLabelValues("not_found").Inc()
			return nil, serrors.NewEntityNotFoundError(notFound.Phrase)
		}
		return nil, err
	}

	metrics.ResolutionOutcomes.WithLabelValues(strings.ToLower(string(entity.MatchMethod))).Inc()

	h.logger.Info("entity resolved", map[string]interface{}{
		"queryId":     q.ID,
		"entityType":  string(entity.Type),
		"canonicalId": entity.CanonicalID,
		"confidence":  entity.Confidence,
		"matchMethod": string(entity.MatchMethod),
	})

	return &Output{Entity: *entity}, nil
}

// candidateNames maps candidate ids to display names for the clarification
// prompt. Unknown ids pass through unchanged.
func (h *Handler) candidateNames(snap *catalog.Snapshot, ids []string) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if t, ok := snap.TeamByID(id); ok {
			names = append(names, t.FullName)
			continue
		}
		if p, ok := snap.PlayerByID(id); ok {
			names = append(names, p.FullName)
			continue
		}
		names = append(names, id)
	}
	return names
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
