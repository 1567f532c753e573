package playerstats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"gridiron-workers/internal/common/metrics"
	"gridiron-workers/internal/models"
)

const (
	TaskType = "player-stats"
)

var (
	ErrStatsAPIFailed  = errors.New("STATS_API_FAILED")
	ErrStatsAPITimeout = errors.New("STATS_API_TIMEOUT")
	ErrStatsNotFound   = errors.New("STATS_NOT_FOUND")
)

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

type Handler struct {
	config *Config
	client *http.Client
	logger Logger
}

func NewHandler(config *Config, log Logger) *Handler {
	return &Handler{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
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
		h.failJob(client, job, fmt.Errorf("parse input: %w", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		retries := int32(0)
		if errors.Is(err, ErrStatsAPITimeout) {
			retries = 1
		} else if errors.Is(err, ErrStatsAPIFailed) {
			retries = 2
		}
		h.failJob(client, job, err, retries)
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Entity.Type != models.EntityPlayer {
		return nil, fmt.Errorf("%w: fantasy stats need a player, got %s %q",
			ErrStatsNotFound, input.Entity.Type, input.Entity.CanonicalID)
	}

	season := input.Season
	if season == 0 {
		season = currentSeason(time.Now().UTC())
	}

	stats, err := h.fetchStats(ctx, input.Entity.CanonicalID, season, input.Week)
	if err != nil {
		return nil, err
	}

	h.logger.Info("stats fetched", map[string]interface{}{
		"playerId":  input.Entity.CanonicalID,
		"season":    season,
		"pprPoints": stats.Stats.FantasyPointsPPR,
	})

	return &Output{
		PlayerID:   input.Entity.CanonicalID,
		PlayerName: input.Entity.DisplayName,
		Season:     stats.Season,
		Week:       stats.Week,
		Stats:      stats.Stats,
	}, nil
}

// currentSeason maps a date to the league year: the season that kicks off in
// September still runs through the following February.
func currentSeason(now time.Time) int {
	if now.Month() < time.March {
		return now.Year() - 1
	}
	return now.Year()
}

func (h *Handler) fetchStats(ctx context.Context, playerID string, season int, week *int) (*statsResponse, error) {
	endpoint := fmt.Sprintf("%s/api/v1/players/%s/stats", h.config.StatsBaseURL, url.PathEscape(playerID))
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStatsAPIFailed, err)
	}

	q := req.URL.Query()
	q.Set("season", strconv.Itoa(season))
	if week != nil {
		q.Set("week", strconv.Itoa(*week))
	}
	req.URL.RawQuery = q.Encode()
	if h.config.APIKey != "" {
		req.Header.Set("X-API-Key", h.config.APIKey)
	}

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= h.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ErrStatsAPITimeout
			}
		}

		resp, lastErr = h.client.Do(req)

		if ctx.Err() != nil ||
			errors.Is(lastErr, context.DeadlineExceeded) ||
			errors.Is(lastErr, context.Canceled) {
			return nil, ErrStatsAPITimeout
		}

		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			// A 404 is an answer, not an outage; no point retrying it.
			if resp.StatusCode == http.StatusNotFound {
				resp.Body.Close()
				return nil, fmt.Errorf("%w: player %s season %d", ErrStatsNotFound, playerID, season)
			}
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp = nil
		}
	}

	if lastErr != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrStatsAPITimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrStatsAPIFailed, lastErr)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: no successful response after retries", ErrStatsAPIFailed)
	}
	defer resp.Body.Close()

	var stats statsResponse
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrStatsAPIFailed, err)
	}
	return &stats, nil
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

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error, retries int32) {
	errorCode := "UNKNOWN_ERROR"
	if errors.Is(err, ErrStatsAPITimeout) {
		errorCode = "STATS_API_TIMEOUT"
	} else if errors.Is(err, ErrStatsNotFound) {
		errorCode = "STATS_NOT_FOUND"
	} else if errors.Is(err, ErrStatsAPIFailed) {
		errorCode = "STATS_API_FAILED"
	}
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()

	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":    job.Key,
		"error":     err.Error(),
		"errorCode": errorCode,
	})

	_, _ = client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(retries).
		ErrorMessage(errorCode + ": " + err.Error()).
		Send(context.Background())
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
