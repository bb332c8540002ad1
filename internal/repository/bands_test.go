package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"venue-workers/internal/common/database"
	"venue-workers/internal/common/logger"
	"venue-workers/internal/staffing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

var bandColumns = []string{
	"name", "revenue_min", "revenue_max",
	"foh_min_staff", "foh_max_staff",
	"kitchen_min_staff", "kitchen_max_staff",
	"kp_min_staff", "kp_max_staff",
	"target_cost_percentage",
}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func setupRedis(t *testing.T) (*database.RedisClient, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return &database.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}, mr
}

func defaultBandRows() *sqlmock.Rows {
	rows := sqlmock.NewRows(bandColumns)
	for _, b := range staffing.DefaultRevenueBands() {
		rows.AddRow(b.Name, b.RevenueMin, b.RevenueMax,
			int64(b.FOHMinStaff), int64(b.FOHMaxStaff),
			int64(b.KitchenMinStaff), int64(b.KitchenMaxStaff),
			int64(b.KPMinStaff), int64(b.KPMaxStaff),
			b.TargetCostPercentage)
	}
	return rows
}

// ==========================
// Load
// ==========================

func TestBandRepository_Load_FromDatabaseThenCache(t *testing.T) {
	db, mock := setupMockDB(t)
	cache, mr := setupRedis(t)
	repo := NewBandRepository(db, cache, 10*time.Minute, logger.NewTestLogger(t))
	ctx := context.Background()

	mock.ExpectQuery("FROM revenue_bands").
		WithArgs("venue-1").
		WillReturnRows(defaultBandRows())

	bands, err := repo.Load(ctx, "venue-1")
	require.NoError(t, err)
	assert.Equal(t, staffing.DefaultRevenueBands(), bands)
	assert.True(t, mr.Exists("venue:bands:venue-1"))
	assert.Equal(t, 10*time.Minute, mr.TTL("venue:bands:venue-1"))

	// second call is served from redis; no further query is expected
	again, err := repo.Load(ctx, "venue-1")
	require.NoError(t, err)
	assert.Equal(t, bands, again)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBandRepository_Load_NoRows(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBandRepository(db, nil, time.Minute, logger.NewNoOpLogger())

	mock.ExpectQuery("FROM revenue_bands").
		WithArgs("venue-2").
		WillReturnRows(sqlmock.NewRows(bandColumns))

	_, err := repo.Load(context.Background(), "venue-2")
	assert.True(t, errors.Is(err, ErrNoVenueBands))
}

func TestBandRepository_Load_QueryError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBandRepository(db, nil, time.Minute, logger.NewNoOpLogger())

	mock.ExpectQuery("FROM revenue_bands").WillReturnError(sql.ErrConnDone)

	_, err := repo.Load(context.Background(), "venue-3")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrConnDone))
}

func TestBandRepository_Load_CacheErrorFallsThroughToDatabase(t *testing.T) {
	db, mock := setupMockDB(t)
	redisClient, redisMock := redismock.NewClientMock()
	repo := NewBandRepository(db, &database.RedisClient{Client: redisClient}, time.Minute, logger.NewTestLogger(t))

	redisMock.ExpectGet("venue:bands:venue-4").SetErr(errors.New("READONLY"))
	mock.ExpectQuery("FROM revenue_bands").
		WithArgs("venue-4").
		WillReturnRows(defaultBandRows())

	bands, err := repo.Load(context.Background(), "venue-4")
	require.NoError(t, err)
	assert.Len(t, bands, 5)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBandRepository_LoadOrDefault(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBandRepository(db, nil, time.Minute, logger.NewNoOpLogger())
	ctx := context.Background()

	bands, usedDefault, err := repo.LoadOrDefault(ctx, "")
	require.NoError(t, err)
	assert.True(t, usedDefault)
	assert.Len(t, bands, 5)

	mock.ExpectQuery("FROM revenue_bands").
		WithArgs("new-venue").
		WillReturnRows(sqlmock.NewRows(bandColumns))

	bands, usedDefault, err = repo.LoadOrDefault(ctx, "new-venue")
	require.NoError(t, err)
	assert.True(t, usedDefault)
	assert.Equal(t, staffing.DefaultRevenueBands(), bands)

	mock.ExpectQuery("FROM revenue_bands").WillReturnError(errors.New("boom"))
	_, _, err = repo.LoadOrDefault(ctx, "broken-venue")
	assert.Error(t, err)
}

// ==========================
// Replace
// ==========================

func TestBandRepository_Replace(t *testing.T) {
	db, mock := setupMockDB(t)
	cache, mr := setupRedis(t)
	repo := NewBandRepository(db, cache, time.Minute, logger.NewTestLogger(t))
	require.NoError(t, mr.Set("venue:bands:venue-1", "[]"))

	bands := staffing.DefaultRevenueBands()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM revenue_bands").
		WithArgs("venue-1").
		WillReturnResult(sqlmock.NewResult(0, 5))
	for i, b := range bands {
		mock.ExpectExec("INSERT INTO revenue_bands").
			WithArgs("venue-1", i, b.Name, b.RevenueMin, b.RevenueMax,
				b.FOHMinStaff, b.FOHMaxStaff,
				b.KitchenMinStaff, b.KitchenMaxStaff,
				b.KPMinStaff, b.KPMaxStaff,
				b.TargetCostPercentage).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, repo.Replace(context.Background(), "venue-1", bands))
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.False(t, mr.Exists("venue:bands:venue-1"), "cache entry should be invalidated")
}

func TestBandRepository_Replace_RollsBackOnInsertError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBandRepository(db, nil, time.Minute, logger.NewNoOpLogger())

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM revenue_bands").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO revenue_bands").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.Replace(context.Background(), "venue-1", staffing.DefaultRevenueBands())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Quiet"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBandRepository_Replace_RejectsInvalidTable(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBandRepository(db, nil, time.Minute, logger.NewNoOpLogger())

	bands := staffing.DefaultRevenueBands()
	bands[2].RevenueMin = 4500

	err := repo.Replace(context.Background(), "venue-1", bands)
	assert.True(t, errors.Is(err, staffing.ErrBandsNotContiguous))
	assert.NoError(t, mock.ExpectationsWereMet(), "no statements should run for an invalid table")
}
