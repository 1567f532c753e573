// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"gridiron-workers/internal/catalog"
	"gridiron-workers/internal/common/config"
	"gridiron-workers/internal/common/database"
	"gridiron-workers/internal/common/errors"
	"gridiron-workers/internal/common/logger"
	"gridiron-workers/internal/common/observability"
	"gridiron-workers/internal/news"

	// Conversation Workers (2)
	pq "gridiron-workers/internal/workers/conversation/parse-query"
	re "gridiron-workers/internal/workers/conversation/resolve-entity"

	// News Workers (2)
	fa "gridiron-workers/internal/workers/news/fetch-articles"
	sa "gridiron-workers/internal/workers/news/score-articles"

	// Stats Workers (2)
	lg "gridiron-workers/internal/workers/stats/lookup-game"
	ps "gridiron-workers/internal/workers/stats/player-stats"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx, cancelReload := context.WithCancel(context.Background())
	defer cancelReload()

	// --- Init Zeebe Client with retry ---
	var zeebeClient zbc.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		// Test the connection with context
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		// Test the connection with context
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Load Reference Catalog ---
	catalogStore := catalog.NewStore(pg.DB)
	catalogCache := catalog.NewCache(redis.Client, cfg.Catalog.CacheKey, config.GetDuration(cfg.Catalog.CacheTTL))
	catalogs := catalog.NewProvider(catalogStore, catalogCache, log)

	err = retryWithBackoff(func() error {
		return catalogs.Load(ctx)
	}, 10, 2*time.Second, zapLog, "Catalog load")

	if err != nil {
		zapLog.Fatal("catalog load failed after retries", zap.Error(err))
	}
	catalogs.StartReload(ctx, config.GetDuration(cfg.Catalog.ReloadPeriod))
	zapLog.Info("Catalog loaded successfully")

	errorHandler := errors.NewErrorHandler(log)
	fetcher := news.NewFetcher(log, config.GetDuration(cfg.News.SourceTimeout))

	// --- START: Register ALL 6 Workers ---

	// Create adapters for workers that declare their own Logger interfaces
	pqLogAdapter := &parseQueryLoggerAdapter{log}
	reLogAdapter := &resolveEntityLoggerAdapter{log}
	faLogAdapter := &fetchArticlesLoggerAdapter{log}
	saLogAdapter := &scoreArticlesLoggerAdapter{log}
	lgLogAdapter := &lookupGameLoggerAdapter{log}
	psLogAdapter := &playerStatsLoggerAdapter{log}

	// --- 1. Conversation Workers (2) ---
	if cfg.Workers[pq.TaskType].Enabled {
		handler := pq.NewHandler(
			&pq.Config{
				MultiTeamHints: cfg.NLU.MultiTeamHints,
				Timeout:        config.GetDuration(cfg.Workers[pq.TaskType].Timeout),
			},
			catalogs, errorHandler, pqLogAdapter,
		)
		startWorker(zeebeClient, pq.TaskType, cfg.Workers[pq.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[re.TaskType].Enabled {
		handler := re.NewHandler(
			&re.Config{
				FuzzyThreshold: cfg.NLU.FuzzyThreshold,
				Timeout:        config.GetDuration(cfg.Workers[re.TaskType].Timeout),
			},
			catalogs, errorHandler, reLogAdapter,
		)
		startWorker(zeebeClient, re.TaskType, cfg.Workers[re.TaskType], handler.Handle, zapLog)
	}

	// --- 2. News Workers (2) ---
	if cfg.Workers[fa.TaskType].Enabled {
		handler := fa.NewHandler(
			&fa.Config{
				Sources:       cfg.News.Sources,
				SourceTimeout: config.GetDuration(cfg.News.SourceTimeout),
				Timeout:       config.GetDuration(cfg.Workers[fa.TaskType].Timeout),
			},
			fetcher, errorHandler, faLogAdapter,
		)
		startWorker(zeebeClient, fa.TaskType, cfg.Workers[fa.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[sa.TaskType].Enabled {
		handler := sa.NewHandler(
			&sa.Config{
				Scorer: news.ScorerConfig{
					TitleWeight:     cfg.News.TitleWeight,
					BodyWeight:      cfg.News.BodyWeight,
					SourceWeights:   cfg.News.SourceWeights,
					AcceptThreshold: cfg.News.AcceptThreshold,
					DedupThreshold:  cfg.News.DedupThreshold,
					RecencyHalfLife: config.GetDuration(cfg.News.RecencyHalfLife),
					SourcePriority:  sourcePriority(cfg.News.Sources),
				},
				MaxArticles: cfg.News.MaxArticles,
				Timeout:     config.GetDuration(cfg.Workers[sa.TaskType].Timeout),
			},
			catalogs, errorHandler, saLogAdapter,
		)
		startWorker(zeebeClient, sa.TaskType, cfg.Workers[sa.TaskType], handler.Handle, zapLog)
	}

	// --- 3. Stats Workers (2) ---
	if cfg.Workers[lg.TaskType].Enabled {
		handler := lg.NewHandler(
			&lg.Config{
				ScheduleBaseURL: cfg.APIs.Schedule.BaseURL,
				Timeout:         config.GetDuration(cfg.APIs.Schedule.Timeout),
				MaxRetries:      cfg.Workers[lg.TaskType].MaxRetries,
			},
			lgLogAdapter,
		)
		startWorker(zeebeClient, lg.TaskType, cfg.Workers[lg.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[ps.TaskType].Enabled {
		handler := ps.NewHandler(
			&ps.Config{
				StatsBaseURL: cfg.APIs.FantasyStats.BaseURL,
				APIKey:       cfg.APIs.FantasyStats.APIKey,
				Timeout:      config.GetDuration(cfg.APIs.FantasyStats.Timeout),
				MaxRetries:   cfg.Workers[ps.TaskType].MaxRetries,
			},
			psLogAdapter,
		)
		startWorker(zeebeClient, ps.TaskType, cfg.Workers[ps.TaskType], handler.Handle, zapLog)
	}

	zapLog.Info("All 6 workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if catalogs.Snapshot() == nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "catalog not loaded",
					"time":   time.Now().Format(time.RFC3339),
				})
				return
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	cancelReload()

	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// sourcePriority orders source names by their configured priority for the
// scorer's tie-break.
func sourcePriority(sources []config.NewsSourceConfig) []string {
	sorted := make([]config.NewsSourceConfig, len(sources))
	copy(sorted, sources)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Priority < sorted[j].Priority })

	names := make([]string, 0, len(sorted))
	for _, s := range sorted {
		names = append(names, s.Name)
	}
	return names
}

// Logger adapters for workers that have their own Logger interfaces
type parseQueryLoggerAdapter struct {
	logger.Logger
}

func (a *parseQueryLoggerAdapter) With(fields map[string]interface{}) pq.Logger {
	return &parseQueryLoggerAdapter{a.Logger.With(fields)}
}

type resolveEntityLoggerAdapter struct {
	logger.Logger
}

func (a *resolveEntityLoggerAdapter) With(fields map[string]interface{}) re.Logger {
	return &resolveEntityLoggerAdapter{a.Logger.With(fields)}
}

type fetchArticlesLoggerAdapter struct {
	logger.Logger
}

func (a *fetchArticlesLoggerAdapter) With(fields map[string]interface{}) fa.Logger {
	return &fetchArticlesLoggerAdapter{a.Logger.With(fields)}
}

type scoreArticlesLoggerAdapter struct {
	logger.Logger
}

func (a *scoreArticlesLoggerAdapter) With(fields map[string]interface{}) sa.Logger {
	return &scoreArticlesLoggerAdapter{a.Logger.With(fields)}
}

type lookupGameLoggerAdapter struct {
	logger.Logger
}

func (a *lookupGameLoggerAdapter) With(fields map[string]interface{}) lg.Logger {
	return &lookupGameLoggerAdapter{a.Logger.With(fields)}
}

type playerStatsLoggerAdapter struct {
	logger.Logger
}

func (a *playerStatsLoggerAdapter) With(fields map[string]interface{}) ps.Logger {
	return &playerStatsLoggerAdapter{a.Logger.With(fields)}
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	client.NewJobWorker().
		JobType(taskType).
		Handler(handlerFunc).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
