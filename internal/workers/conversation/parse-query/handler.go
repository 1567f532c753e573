package parsequery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"gridiron-workers/internal/catalog"
	serrors "gridiron-workers/internal/common/errors"
	"gridiron-workers/internal/common/metrics"
	"gridiron-workers/internal/models"
	"gridiron-workers/internal/nlu"
)

const (
	TaskType = "parse-query"
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

// execute parses one utterance into a Query. Each turn stands alone; nothing
// from previous turns is consulted.
func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	snap := h.catalogs.Snapshot()
	if snap == nil {
		return nil, serrors.NewCatalogLoadFailedError("catalog snapshot not loaded yet")
	}

	tokens := nlu.Tokenize(input.Question)

	intent := nlu.ClassifyIntent(tokens, func(phrase string) bool {
		return len(snap.LookupCandidates(phrase)) > 0
	})

	hints, err := nlu.ExtractHints(tokens, snap, nlu.MultiTeamPolicy(h.config.MultiTeamHints))
	if err != nil {
		if errors.Is(err, nlu.ErrMultipleTeamHints) {
			return nil, serrors.NewAmbiguousEntityError(input.Question, nil)
		}
		return nil, err
	}

	query := models.Query{
		ID:            uuid.New().String(),
		RawText:       input.Question,
		CleanedTokens: tokens,
		Intent:        intent,
		Hints:         hints,
		SubjectTokens: nlu.SubjectTokens(tokens),
	}

	h.logger.Info("query parsed", map[string]interface{}{
		"queryId":       query.ID,
		"intent":        string(query.Intent),
		"tokenCount":    len(query.CleanedTokens),
		"hintCount":     len(query.Hints),
		"subjectTokens": query.SubjectTokens,
	})

	return &Output{Query: query}, nil
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
