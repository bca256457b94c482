package events

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

// subscribe delivers completion events to handle until ctx is cancelled.
// Payloads that do not decode are logged and skipped.
func subscribe(ctx context.Context, rdb *redis.Client, channel string, logger *zap.Logger, handle func(InterviewCompleted)) error {
	if channel == "" {
		channel = DefaultChannel
	}
	sub := rdb.Subscribe(ctx, channel)
	defer sub.Close()

	// wait for the subscription to be confirmed before reading
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe to %s: %w", channel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var evt InterviewCompleted
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				logger.Warn("dropping undecodable completion event", zap.Error(err))
				continue
			}
			handle(evt)
		}
	}
}

func TestPublishAndSubscribe(t *testing.T) {
	rdb := setupTestRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan InterviewCompleted, 2)
	ready := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(ready)
		done <- subscribe(ctx, rdb, "", zap.NewNop(), func(evt InterviewCompleted) {
			select {
			case received <- evt:
			default:
			}
		})
	}()
	<-ready

	pub := NewRedisPublisher(rdb, "")
	require.NoError(t, pub.Ping(ctx))

	evt := InterviewCompleted{InterviewID: "iv1", User: "u1", NumOfQuestions: 3, Answered: 2, AverageScore: 6.5, Trigger: "timeout"}
	// the subscriber may not be registered yet, so retry until it is
	require.Eventually(t, func() bool {
		_ = rdb.Publish(ctx, DefaultChannel, "not-json").Err()
		_ = pub.PublishCompleted(ctx, evt)
		return len(received) > 0
	}, 2*time.Second, 20*time.Millisecond)

	got := <-received
	assert.Equal(t, "iv1", got.InterviewID)
	assert.Equal(t, 6.5, got.AverageScore)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("subscriber did not stop after cancel")
	}
}

func TestPublishFailsWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()
	mr.Close()

	err := NewRedisPublisher(rdb, "custom").PublishCompleted(context.Background(), InterviewCompleted{InterviewID: "x"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "custom")
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.PublishCompleted(context.Background(), InterviewCompleted{}))
}
