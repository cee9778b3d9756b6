package db

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/festival-api/internal/config"
)

func TestOpenSQLite(t *testing.T) {
	gormDB, err := OpenSQLite("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)

	var one int
	require.NoError(t, gormDB.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestOpenRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := OpenRedis(context.Background(), &config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestOpenRedis_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := OpenRedis(context.Background(), &config.RedisConfig{Addr: addr})
	assert.Error(t, err)
}
