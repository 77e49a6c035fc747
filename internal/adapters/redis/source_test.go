package redis_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/crank/internal/adapters/redis"
	"github.com/aretw0/crank/pkg/dispatch"
)

func setup(t *testing.T) (*miniredis.Miniredis, *redis.EventSource) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	src := redis.NewFromClient(client, redis.WithKey("test:events"), redis.WithTimeout(50*time.Millisecond))
	t.Cleanup(func() { _ = src.Close() })
	return mr, src
}

func doorTables() *dispatch.Tables {
	return &dispatch.Tables{
		Startup: 1,
		States:  []string{"Closed", "Open"},
		Events:  []string{"EvOpen", "EvClose"},
		Transitions: map[dispatch.State]map[dispatch.Event]dispatch.Entry{
			1: {1: dispatch.Record{Dest: 2}},
			2: {2: dispatch.Record{Dest: 1}},
		},
	}
}

func TestPublish(t *testing.T) {
	mr, src := setup(t)
	require.NoError(t, src.Publish(context.Background(), "EvOpen", "EvClose"))
	require.NoError(t, src.Publish(context.Background()))

	list, err := mr.List("test:events")
	require.NoError(t, err)
	assert.Equal(t, []string{"EvOpen", "EvClose"}, list)
}

func TestEventSource_FeedsMachine(t *testing.T) {
	mr, src := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m, err := dispatch.New(doorTables(), dispatch.WithID("door"), dispatch.WithObserver(src.Journal(context.Background())))
	require.NoError(t, err)
	go func() { _ = m.Run(ctx) }()
	m.Start()

	done := make(chan error, 1)
	go func() { done <- src.Run(ctx, m) }()

	require.NoError(t, src.Publish(ctx, "EvFly", "EvOpen"))
	assert.Eventually(t, func() bool { return m.Current() == 2 }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, src.Publish(ctx, "EvClose"))
	assert.Eventually(t, func() bool { return m.Current() == 1 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("event source did not stop")
	}

	var journal []string
	assert.Eventually(t, func() bool {
		journal, _ = mr.List(src.JournalKey())
		return len(journal) == 2
	}, 2*time.Second, 5*time.Millisecond)
	require.Len(t, journal, 2)
	var first dispatch.TransitionEvent
	require.NoError(t, json.Unmarshal([]byte(journal[0]), &first))
	assert.Equal(t, "door", first.Machine)
	assert.Equal(t, "EvOpen", first.Event)
	assert.Equal(t, "Closed", first.From)
	assert.Equal(t, "Open", first.To)
}

func TestEventSource_StopsOnCancelledContext(t *testing.T) {
	_, src := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m, err := dispatch.New(doorTables())
	require.NoError(t, err)
	assert.NoError(t, src.Run(ctx, m))
}
