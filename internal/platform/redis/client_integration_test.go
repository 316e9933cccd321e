//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"triad/internal/platform/config"
	"triad/pkg/testutil/containers"
)

func TestNew_ConnectsAndReportsHealth(t *testing.T) {
	container := containers.GetManager().GetRedis(t)

	reg := prometheus.NewRegistry()
	client, err := New(context.Background(), config.RedisConfig{
		URL:         container.URL,
		PoolSize:    4,
		DialTimeout: 2 * time.Second,
	}, WithRegisterer(reg))
	require.NoError(t, err)
	require.NotNil(t, client)
	defer client.Close()

	require.NoError(t, client.Health(context.Background()))
	count, err := testutil.GatherAndCount(reg, "triad_redis_pool_total_connections")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}
