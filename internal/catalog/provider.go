// internal/catalog/provider.go
package catalog

import (
	"context"
	"sync/atomic"
	"time"

	"gridiron-workers/internal/common/logger"
	"gridiron-workers/internal/common/metrics"
	"gridiron-workers/internal/models"
)

// Provider owns the active catalog snapshot. Load builds a new snapshot and
// swaps it in atomically; readers always see a complete catalog.
type Provider struct {
	store  *Store
	cache  *Cache
	logger logger.Logger
	snap   atomic.Pointer[Snapshot]
}

func NewProvider(store *Store, cache *Cache, log logger.Logger) *Provider {
	return &Provider{
		store:  store,
		cache:  cache,
		logger: log.WithFields(map[string]interface{}{"component": "catalog"}),
	}
}

// Load populates the snapshot: Redis cache first, Postgres on miss, with the
// store result written back to the cache. Alias collisions or malformed
// records fail the load; an existing snapshot stays active in that case.
func (p *Provider) Load(ctx context.Context) error {
	teams, players, err := p.fetchRecords(ctx)
	if err != nil {
		return err
	}

	snap, err := BuildSnapshot(teams, players)
	if err != nil {
		return err
	}

	p.snap.Store(snap)
	metrics.CatalogSnapshotSize.WithLabelValues("team").Set(float64(snap.TeamCount()))
	metrics.CatalogSnapshotSize.WithLabelValues("player").Set(float64(snap.PlayerCount()))

	p.logger.Info("catalog snapshot loaded", map[string]interface{}{
		"teams":   snap.TeamCount(),
		"players": snap.PlayerCount(),
	})
	return nil
}

func (p *Provider) fetchRecords(ctx context.Context) ([]models.Team, []models.Player, error) {
	if p.cache != nil {
		teams, players, err := p.cache.Get(ctx)
		if err != nil {
			p.logger.Warn("catalog cache read failed, falling back to store", map[string]interface{}{
				"error": err.Error(),
			})
		} else if len(teams) > 0 {
			p.logger.Debug("catalog served from cache", map[string]interface{}{
				"teams":   len(teams),
				"players": len(players),
			})
			return teams, players, nil
		}
	}

	teams, players, err := p.store.LoadRecords(ctx)
	if err != nil {
		return nil, nil, err
	}

	if p.cache != nil {
		if err := p.cache.Put(ctx, teams, players); err != nil {
			p.logger.Warn("catalog cache write failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return teams, players, nil
}

// Snapshot returns the active snapshot, nil before the first Load.
func (p *Provider) Snapshot() *Snapshot {
	return p.snap.Load()
}

// StartReload refreshes the snapshot on the given period until ctx is done.
// A failed reload logs and keeps the previous snapshot.
func (p *Provider) StartReload(ctx context.Context, period time.Duration) {
	if period <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := p.Load(ctx); err != nil {
					p.logger.Warn("catalog reload failed, keeping previous snapshot", map[string]interface{}{
						"error": err.Error(),
					})
				}
			}
		}
	}()
}
