package lookupgame

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"gridiron-workers/internal/common/metrics"
	"gridiron-workers/internal/models"
)

const (
	TaskType = "lookup-game"
)

var (
	ErrScheduleAPIFailed  = errors.New("SCHEDULE_API_FAILED")
	ErrScheduleAPITimeout = errors.New("SCHEDULE_API_TIMEOUT")
	ErrInvalidGameQuery   = errors.New("INVALID_GAME_QUERY")
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
		if errors.Is(err, ErrScheduleAPITimeout) {
			retries = 1
		} else if errors.Is(err, ErrScheduleAPIFailed) {
			retries = 2
		}
		h.failJob(client, job, err, retries)
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

// execute fetches the team schedule and picks the event the intent asks for.
// An empty pick (offseason, bye-heavy window) completes with found=false; the
// conversation layer phrases the "no game" answer.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	teamID, err := scheduleTeamID(input.Entity)
	if err != nil {
		return nil, err
	}
	if input.Intent != models.IntentNextGame && input.Intent != models.IntentLastGame {
		return nil, fmt.Errorf("%w: intent %q has no schedule lookup", ErrInvalidGameQuery, input.Intent)
	}

	schedule, err := h.fetchSchedule(ctx, teamID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var picked *scheduleEvent
	if input.Intent == models.IntentNextGame {
		picked = nextEvent(schedule.Events, now)
	} else {
		picked = lastEvent(schedule.Events, now)
	}

	if picked == nil {
		h.logger.Info("no matching game on schedule", map[string]interface{}{
			"teamId": teamID,
			"intent": string(input.Intent),
		})
		return &Output{Found: false}, nil
	}

	game := &Game{
		EventID:   picked.ID,
		HomeTeam:  picked.HomeTeam,
		AwayTeam:  picked.AwayTeam,
		Kickoff:   picked.StartTime,
		Venue:     picked.Venue,
		Status:    picked.Status,
		HomeScore: picked.HomeScore,
		AwayScore: picked.AwayScore,
	}

	h.logger.Info("game found", map[string]interface{}{
		"teamId":  teamID,
		"intent":  string(input.Intent),
		"eventId": game.EventID,
		"kickoff": game.Kickoff,
	})

	return &Output{Found: true, Game: game}, nil
}

// scheduleTeamID maps the resolved entity to the team whose schedule to pull.
// A player query uses their current team; a free agent has no schedule.
func scheduleTeamID(entity models.ResolvedEntity) (string, error) {
	switch entity.Type {
	case models.EntityTeam:
		return entity.CanonicalID, nil
	case models.EntityPlayer:
		if entity.TeamID == "" {
			return "", fmt.Errorf("%w: player %s has no team", ErrInvalidGameQuery, entity.CanonicalID)
		}
		return entity.TeamID, nil
	default:
		return "", fmt.Errorf("%w: unsupported entity type %q", ErrInvalidGameQuery, entity.Type)
	}
}

func (h *Handler) fetchSchedule(ctx context.Context, teamID string) (*scheduleResponse, error) {
	url := fmt.Sprintf("%s/api/v1/teams/%s/schedule", h.config.ScheduleBaseURL, teamID)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScheduleAPIFailed, err)
	}

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= h.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ErrScheduleAPITimeout
			}
		}

		resp, lastErr = h.client.Do(req)

		if ctx.Err() != nil ||
			errors.Is(lastErr, context.DeadlineExceeded) ||
			errors.Is(lastErr, context.Canceled) {
			return nil, ErrScheduleAPITimeout
		}

		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp = nil
		}
	}

	if lastErr != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrScheduleAPITimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrScheduleAPIFailed, lastErr)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: no successful response after retries", ErrScheduleAPIFailed)
	}
	defer resp.Body.Close()

	var schedule scheduleResponse
	if err := json.NewDecoder(resp.Body).Decode(&schedule); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrScheduleAPIFailed, err)
	}
	return &schedule, nil
}

// nextEvent picks the earliest not-yet-started event after now.
func nextEvent(events []scheduleEvent, now time.Time) *scheduleEvent {
	sorted := sortedByKickoff(events)
	for i := range sorted {
		e := &sorted[i]
		if e.StartTime.After(now) && e.Status != "final" {
			return e
		}
	}
	return nil
}

// lastEvent picks the most recent completed event.
func lastEvent(events []scheduleEvent, now time.Time) *scheduleEvent {
	sorted := sortedByKickoff(events)
	for i := len(sorted) - 1; i >= 0; i-- {
		e := &sorted[i]
		if e.Status == "final" && e.StartTime.Before(now) {
			return e
		}
	}
	return nil
}

func sortedByKickoff(events []scheduleEvent) []scheduleEvent {
	sorted := make([]scheduleEvent, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartTime.Before(sorted[j].StartTime) })
	return sorted
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
	if errors.Is(err, ErrScheduleAPITimeout) {
		errorCode = "SCHEDULE_API_TIMEOUT"
	} else if errors.Is(err, ErrScheduleAPIFailed) {
		errorCode = "SCHEDULE_API_FAILED"
	} else if errors.Is(err, ErrInvalidGameQuery) {
		errorCode = "INVALID_GAME_QUERY"
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
