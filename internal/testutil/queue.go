package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	rdb "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/platewise/staffhub-backend/internal/config"
	"github.com/platewise/staffhub-backend/internal/queue"
)

// TestQueue wraps a real Redis instance for integration tests. Tests that
// need it are skipped unless TEST_REDIS_ADDR points at a disposable Redis.
type TestQueue struct {
	Queue     *queue.TaskQueue
	Redis     *rdb.Client
	Inspector *asynq.Inspector // (this is for inspecting the queue in tests)
}

func NewTestQueue(t *testing.T) *TestQueue {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set; skipping Redis integration tests")
	}

	clientOpts := asynq.RedisClientOpt{
		Addr:     addr,
		Password: "",
		DB:       0,
	}

	appConfig := config.RedisConfig{
		Addr:     addr,
		Password: "",
		DB:       0,
	}

	taskQueue, err := queue.NewQueue(&appConfig)
	require.NoError(t, err, "Failed to create application queue wrapper")

	inspector := asynq.NewInspector(clientOpts)

	redisClient := rdb.NewClient(&rdb.Options{
		Addr: addr,
	})

	return &TestQueue{
		Queue:     taskQueue,
		Redis:     redisClient,
		Inspector: inspector,
	}
}

func (tQ *TestQueue) Enqueue(taskType string, data interface{}) (*asynq.TaskInfo, error) {
	return tQ.Queue.Enqueue(taskType, data)
}

func (tQ *TestQueue) Cleanup(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := tQ.Redis.FlushDB(ctx).Err(); err != nil {
		t.Logf("WARNING: failed to flush Redis between tests: %v", err)
	}
}

func (tq *TestQueue) Close() {
	if tq.Queue != nil {
		tq.Queue.Close()
	}
	if tq.Inspector != nil {
		tq.Inspector.Close()
	}
	if tq.Redis != nil {
		tq.Redis.Close()
	}
}
