// Package repository persists venue revenue bands and staff performance reviews.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"venue-workers/internal/common/database"
	"venue-workers/internal/common/logger"
	"venue-workers/internal/common/metrics"
	"venue-workers/internal/staffing"
)

// ErrNoVenueBands means the venue has never saved a band table.
var ErrNoVenueBands = errors.New("NO_VENUE_BANDS")

const bandCachePrefix = "venue:bands:"

// BandRepository reads and replaces per-venue band tables, with an optional
// Redis read-through cache in front of Postgres.
type BandRepository struct {
	db       *sql.DB
	cache    *database.RedisClient
	cacheTTL time.Duration
	logger   logger.Logger
}

func NewBandRepository(db *sql.DB, cache *database.RedisClient, cacheTTL time.Duration, log logger.Logger) *BandRepository {
	return &BandRepository{
		db:       db,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   log,
	}
}

func bandCacheKey(venueID string) string {
	return bandCachePrefix + venueID
}

// Load returns the venue's bands ordered by position, or ErrNoVenueBands.
func (r *BandRepository) Load(ctx context.Context, venueID string) ([]staffing.RevenueBand, error) {
	if r.cache != nil {
		var cached []staffing.RevenueBand
		err := r.cache.GetJSON(ctx, bandCacheKey(venueID), &cached)
		if err == nil {
			metrics.BandCacheLookups.WithLabelValues("hit").Inc()
			return cached, nil
		}
		if errors.Is(err, database.ErrCacheMiss) {
			metrics.BandCacheLookups.WithLabelValues("miss").Inc()
		} else {
			metrics.BandCacheLookups.WithLabelValues("error").Inc()
			r.logger.Warn("band cache read failed", map[string]interface{}{
				"venueId": venueID,
				"error":   err,
			})
		}
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT name, revenue_min, revenue_max,
		       foh_min_staff, foh_max_staff,
		       kitchen_min_staff, kitchen_max_staff,
		       kp_min_staff, kp_max_staff,
		       target_cost_percentage
		FROM revenue_bands
		WHERE venue_id = $1
		ORDER BY position`, venueID)
	if err != nil {
		return nil, fmt.Errorf("query revenue bands: %w", err)
	}
	defer rows.Close()

	var bands []staffing.RevenueBand
	for rows.Next() {
		var b staffing.RevenueBand
		if err := rows.Scan(
			&b.Name, &b.RevenueMin, &b.RevenueMax,
			&b.FOHMinStaff, &b.FOHMaxStaff,
			&b.KitchenMinStaff, &b.KitchenMaxStaff,
			&b.KPMinStaff, &b.KPMaxStaff,
			&b.TargetCostPercentage,
		); err != nil {
			return nil, fmt.Errorf("scan revenue band: %w", err)
		}
		bands = append(bands, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate revenue bands: %w", err)
	}
	if len(bands) == 0 {
		return nil, ErrNoVenueBands
	}

	if r.cache != nil {
		if err := r.cache.SetJSON(ctx, bandCacheKey(venueID), bands, r.cacheTTL); err != nil {
			r.logger.Warn("band cache write failed", map[string]interface{}{
				"venueId": venueID,
				"error":   err,
			})
		}
	}
	return bands, nil
}

// LoadOrDefault falls back to staffing.DefaultRevenueBands when the venue has
// no saved table. The bool reports whether the defaults were used.
func (r *BandRepository) LoadOrDefault(ctx context.Context, venueID string) ([]staffing.RevenueBand, bool, error) {
	if venueID == "" {
		return staffing.DefaultRevenueBands(), true, nil
	}
	bands, err := r.Load(ctx, venueID)
	if errors.Is(err, ErrNoVenueBands) {
		return staffing.DefaultRevenueBands(), true, nil
	}
	if err != nil {
		return nil, false, err
	}
	return bands, false, nil
}

// Replace validates bands and swaps the venue's table in one transaction.
func (r *BandRepository) Replace(ctx context.Context, venueID string, bands []staffing.RevenueBand) error {
	if err := staffing.ValidateBands(bands); err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin band replace: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM revenue_bands WHERE venue_id = $1`, venueID); err != nil {
		return fmt.Errorf("delete revenue bands: %w", err)
	}

	for i, b := range bands {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO revenue_bands (
				venue_id, position, name, revenue_min, revenue_max,
				foh_min_staff, foh_max_staff,
				kitchen_min_staff, kitchen_max_staff,
				kp_min_staff, kp_max_staff,
				target_cost_percentage, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())`,
			venueID, i, b.Name, b.RevenueMin, b.RevenueMax,
			b.FOHMinStaff, b.FOHMaxStaff,
			b.KitchenMinStaff, b.KitchenMaxStaff,
			b.KPMinStaff, b.KPMaxStaff,
			b.TargetCostPercentage,
		)
		if err != nil {
			return fmt.Errorf("insert revenue band %q: %w", b.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit band replace: %w", err)
	}

	if r.cache != nil {
		if err := r.cache.Del(ctx, bandCacheKey(venueID)); err != nil {
			r.logger.Warn("band cache invalidation failed", map[string]interface{}{
				"venueId": venueID,
				"error":   err,
			})
		}
	}
	return nil
}
