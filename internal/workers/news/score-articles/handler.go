package scorearticles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"gridiron-workers/internal/catalog"
	serrors "gridiron-workers/internal/common/errors"
	"gridiron-workers/internal/common/metrics"
	"gridiron-workers/internal/models"
	"gridiron-workers/internal/news"
)

const (
	TaskType = "score-articles"
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

// execute ranks the fetched batch against the resolved entity. An empty
// result is a normal outcome: there simply is no relevant news right now.
func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	snap := h.catalogs.Snapshot()
	if snap == nil {
		return nil, serrors.NewCatalogLoadFailedError("catalog snapshot not loaded yet")
	}

	terms, err := h.mentionTerms(snap, input.Entity)
	if err != nil {
		return nil, err
	}

	scored := news.Score(terms, input.Articles, h.config.Scorer)
	scored = capArticles(scored, h.config.MaxArticles)

	h.logger.Info("articles scored", map[string]interface{}{
		"entityId": input.Entity.CanonicalID,
		"fetched":  len(input.Articles),
		"returned": len(scored),
	})

	return &Output{
		EntityID: input.Entity.CanonicalID,
		Articles: scored,
	}, nil
}

func (h *Handler) mentionTerms(snap *catalog.Snapshot, entity models.ResolvedEntity) ([]string, error) {
	switch entity.Type {
	case models.EntityTeam:
		team, ok := snap.TeamByID(entity.CanonicalID)
		if !ok {
			return nil, serrors.NewEntityNotFoundError(entity.CanonicalID)
		}
		return news.MentionTermsForTeam(team), nil
	case models.EntityPlayer:
		player, ok := snap.PlayerByID(entity.CanonicalID)
		if !ok {
			return nil, serrors.NewEntityNotFoundError(entity.CanonicalID)
		}
		var team *models.Team
		if t, ok := snap.TeamByID(player.TeamID); ok {
			team = &t
		}
		return news.MentionTermsForPlayer(player, team), nil
	default:
		return nil, serrors.NewEntityNotFoundError(entity.CanonicalID)
	}
}

// capArticles limits the output to max primary articles. Flagged duplicates
// ride along with their surviving primary; duplicates of a primary that fell
// past the cap are dropped with it.
func capArticles(scored []models.ScoredArticle, max int) []models.ScoredArticle {
	if max <= 0 {
		return scored
	}

	kept := make([]models.ScoredArticle, 0, len(scored))
	retained := make(map[string]bool)
	primaries := 0
	for _, a := range scored {
		if a.IsDuplicateOf == "" {
			if primaries >= max {
				continue
			}
			primaries++
			retained[a.Article.URL] = true
			kept = append(kept, a)
			continue
		}
		if retained[a.IsDuplicateOf] {
			kept = append(kept, a)
		}
	}
	return kept
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
