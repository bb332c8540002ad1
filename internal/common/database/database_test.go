package database

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS revenue_bands")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS performance_reviews")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE INDEX IF NOT EXISTS idx_performance_reviews_staff")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	client := &PostgresClient{DB: db}
	require.NoError(t, client.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchema_StopsOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE").WillReturnError(errors.New("permission denied"))

	client := &PostgresClient{DB: db}
	err = client.EnsureSchema(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema statement 0")
}

func setupRedis(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return &RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}, mr
}

func TestRedisClient_JSONRoundTripAndTTL(t *testing.T) {
	client, mr := setupRedis(t)
	ctx := context.Background()

	type payload struct {
		Name string `json:"name"`
	}

	require.NoError(t, client.SetJSON(ctx, "bands:venue-1", payload{Name: "Quiet"}, time.Minute))

	var got payload
	require.NoError(t, client.GetJSON(ctx, "bands:venue-1", &got))
	assert.Equal(t, "Quiet", got.Name)

	mr.FastForward(2 * time.Minute)
	assert.ErrorIs(t, client.GetJSON(ctx, "bands:venue-1", &got), ErrCacheMiss)
}

func TestRedisClient_GetJSONDecodeError(t *testing.T) {
	client, mr := setupRedis(t)
	require.NoError(t, mr.Set("bad", "{not json"))

	var dst map[string]string
	err := client.GetJSON(context.Background(), "bad", &dst)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestRedisClient_PingAndDel(t *testing.T) {
	client, mr := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, client.Ping(ctx))
	require.NoError(t, mr.Set("k", "v"))
	require.NoError(t, client.Del(ctx, "k"))
	assert.False(t, mr.Exists("k"))

	mr.Close()
	assert.Error(t, client.Ping(ctx))
}
